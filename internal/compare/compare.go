// Package compare checks two output series for exact equivalence.
package compare

import "primebench/internal/logging"

// Equal reports whether a[i] == b[i] for every i in [0, n). Comparison is
// exact: both series are deterministic functions of the same input, so no
// tolerance is applied. It stops at the first mismatch.
//
// Equal returns false if either series is shorter than n.
func Equal(a, b []float64, n int) bool {
	_, ok := FirstMismatch(a, b, n)
	return !ok
}

// FirstMismatch returns the first index in [0, n) where a and b differ.
// The second result is false when the series agree on the whole range.
// If either series is shorter than n, the index of the first missing
// element is reported as the mismatch.
func FirstMismatch(a, b []float64, n int) (int, bool) {
	for i := 0; i < n; i++ {
		if i >= len(a) || i >= len(b) {
			logging.CompareWarn("series shorter than %d: len(a)=%d len(b)=%d", n, len(a), len(b))
			return i, true
		}
		if a[i] != b[i] {
			logging.CompareDebug("first mismatch at %d: %v != %v", i, a[i], b[i])
			return i, true
		}
	}
	return 0, false
}
