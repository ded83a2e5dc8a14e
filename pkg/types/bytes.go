package types

import "fmt"

// Bytes is a uint64 byte count. Memory and disk metrics are collected in
// raw bytes; Bytes exists so UIs can render them with a sensible unit.
type Bytes uint64

// FromKB converts a kilobyte count (as /proc/<pid>/status reports memory
// sizes) to Bytes.
func FromKB(kb uint64) Bytes { return Bytes(kb * 1024) }

// String renders the count with an automatic unit (B, KB, MB, GB, TB).
func (b Bytes) String() string {
	v := float64(b)
	switch {
	case b >= 1<<40:
		return fmt.Sprintf("%.2f TB", v/(1<<40))
	case b >= 1<<30:
		return fmt.Sprintf("%.2f GB", v/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MB", v/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KB", v/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
