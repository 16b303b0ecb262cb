package ton

import "testing"

func TestParseTONToNano(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		valid    bool
	}{
		{"1", 1_000_000_000, true},
		{"0", 0, true},
		{"5.5", 5_500_000_000, true},
		{"0.000000001", 1, true},
		{"100.123456789", 100_123_456_789, true},
		{"0.0000000001", 0, false}, // sub-nano precision
		{"-1", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTONToNano(tt.input)
			if tt.valid {
				if err != nil {
					t.Fatalf("expected valid, got error: %v", err)
				}
				if got != tt.expected {
					t.Errorf("ParseTONToNano(%q) = %d, want %d", tt.input, got, tt.expected)
				}
			} else if err == nil {
				t.Fatalf("expected error, got %d", got)
			}
		})
	}
}

func TestFormatNanoAsTON(t *testing.T) {
	tests := []struct {
		nano     int64
		expected string
	}{
		{1_000_000_000, "1"},
		{1_500_000_000, "1.5"},
		{1, "0.000000001"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := FormatNanoAsTON(tt.nano); got != tt.expected {
			t.Errorf("FormatNanoAsTON(%d) = %q, want %q", tt.nano, got, tt.expected)
		}
	}
}
