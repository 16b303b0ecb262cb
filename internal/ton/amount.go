package ton

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NanoPerTON is the base-unit scale: 1 TON = 1e9 nanoTON.
const NanoPerTON = 1_000_000_000

var nanoFactor = decimal.New(NanoPerTON, 0)

// ParseTONToNano converts a decimal TON string (e.g. "5.5") to nanoTON.
// Amounts with more than 9 fractional digits are rejected rather than
// truncated: the ledger requires exact payment matching.
func ParseTONToNano(tonStr string) (int64, error) {
	d, err := decimal.NewFromString(tonStr)
	if err != nil {
		return 0, fmt.Errorf("invalid TON amount %q: %w", tonStr, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative TON amount %q", tonStr)
	}
	nano := d.Mul(nanoFactor)
	if !nano.IsInteger() {
		return 0, fmt.Errorf("TON amount %q has sub-nano precision", tonStr)
	}
	if !nano.BigInt().IsInt64() {
		return 0, fmt.Errorf("TON amount %q overflows nano range", tonStr)
	}
	return nano.IntPart(), nil
}

// FormatNanoAsTON renders a nanoTON amount as a decimal TON string without
// trailing zeros, e.g. 1500000000 -> "1.5".
func FormatNanoAsTON(nano int64) string {
	return decimal.New(nano, -9).String()
}
