package repository

import "fmt"

// FormatProtocolNumber renders a warranty protocol code: "OMW-", the
// two-digit year, and the zero-padded per-year sequence number.
func FormatProtocolNumber(year, seq int) string {
	return fmt.Sprintf("OMW-%02d-%03d", year%100, seq)
}
