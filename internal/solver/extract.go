package solver

import "strings"

// DefaultMarker is the winner-announcement token both solvers print in
// report mode.
const DefaultMarker = "won by"

// ExtractVerdict returns the canonical text verdict from captured solver
// output: the substring from the first occurrence of marker through the
// end of the output. Returns "" when the marker is absent — a legitimate,
// comparable "no verdict produced" outcome.
//
// Extraction is pure and idempotent: the same output always yields the
// same verdict.
func ExtractVerdict(output, marker string) string {
	if marker == "" {
		return output
	}
	idx := strings.Index(output, marker)
	if idx < 0 {
		return ""
	}
	return output[idx:]
}
