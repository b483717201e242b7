// Package input generates the integer series fed to both processors.
package input

import (
	"fmt"
	"math/rand"
)

// Generate returns n pseudo-random integers in [0, maxValue), drawn from a
// source seeded with seed. The same (n, maxValue, seed) always yields the
// same series.
func Generate(n, maxValue int, seed int64) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("element count must be non-negative, got %d", n)
	}
	if maxValue <= 0 {
		return nil, fmt.Errorf("max value must be positive, got %d", maxValue)
	}

	rng := rand.New(rand.NewSource(seed))
	series := make([]int, n)
	for i := range series {
		series[i] = rng.Intn(maxValue)
	}
	return series, nil
}
