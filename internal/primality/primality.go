// Package primality classifies integers for the prime/sqrt transform.
//
// The classification intentionally treats 2 as not prime. Both processors
// share this rule, and outputs are compared bit for bit, so changing it
// would alter every benchmark baseline.
package primality

import "math"

// IsPrime reports whether n is an odd prime.
//
// Unlike the mathematical definition, IsPrime(2) is false: every even
// number, 2 included, is rejected before trial division.
func IsPrime(n int) bool {
	if n <= 1 || n%2 == 0 {
		return false
	}
	for d := 3; d <= n/d; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// Transform applies the output rule for a single element: the square root
// of n when n is prime, n itself otherwise.
func Transform(n int) float64 {
	if IsPrime(n) {
		return math.Sqrt(float64(n))
	}
	return float64(n)
}
