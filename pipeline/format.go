package pipeline

import (
	"fmt"
	"strings"
)

// Kize renders a byte count as a fixed-width kilobyte string,
// e.g. 412 -> "  0.41K".
func Kize(n int) string {
	return fmt.Sprintf("%6.2fK", float64(n)/1000.0)
}

// FormatLabels renders labels as "(97.00%) Dog, (83.50%) Mammal", keeping
// the service-supplied order. Returns "" for an empty set.
func FormatLabels(labels []Label) string {
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("(%.2f%%) %s", l.Score*100.0, l.Description))
	}
	return strings.Join(parts, ", ")
}
