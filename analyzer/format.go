package analyzer

import "fmt"

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// formatGB renders a byte count in GB (1024^3) with one decimal place.
// "GB" is used as an SI symbol over a binary magnitude, preserved for
// compatibility with the existing desktop UI (spec.md §4.3).
func formatGB(bytes int64) string {
	return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gib))
}

// formatMB renders a byte count in MB (1024^2) with one decimal place.
func formatMB(bytes int64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mib))
}
