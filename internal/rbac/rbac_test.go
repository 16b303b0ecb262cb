package rbac

import "testing"

func TestRoleFor(t *testing.T) {
	tests := []struct {
		name     string
		caller   string
		owner    string
		renter   string
		expected string
	}{
		{"caller is owner", "EQowner", "EQowner", "EQrenter", RoleOwner},
		{"caller is renter", "EQrenter", "EQowner", "EQrenter", RoleRenter},
		{"caller is third party", "EQother", "EQowner", "EQrenter", RoleVisitor},
		{"no active renter", "EQother", "EQowner", "", RoleVisitor},
		{"empty caller never matches empty renter", "", "EQowner", "", RoleVisitor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleFor(tt.caller, tt.owner, tt.renter); got != tt.expected {
				t.Errorf("RoleFor(%q, %q, %q) = %q, want %q", tt.caller, tt.owner, tt.renter, got, tt.expected)
			}
		})
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       string
		permission string
		expected   bool
	}{
		{RoleOwner, PermConfirmBooking, true},
		{RoleOwner, PermRejectBooking, true},
		{RoleOwner, PermReserveProperty, true},
		{RoleOwner, PermToggleStatus, true},
		{RoleOwner, PermSetWithdrawWallet, true},
		{RoleOwner, PermCreateBooking, false},
		{RoleOwner, PermPayBooking, false},
		{RoleOwner, PermCancelBooking, false},

		{RoleRenter, PermPayBooking, true},
		{RoleRenter, PermCancelBooking, true},
		{RoleRenter, PermConfirmBooking, false},
		{RoleRenter, PermRejectBooking, false},

		{RoleVisitor, PermCreateBooking, true},
		{RoleVisitor, PermPayBooking, false},
		{RoleVisitor, PermToggleStatus, false},

		{"nonexistent", PermCreateBooking, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.permission, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.permission); got != tt.expected {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.permission, got, tt.expected)
			}
		})
	}
}
