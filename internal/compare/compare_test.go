package compare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		n    int
		want bool
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 3, true},
		{"empty", nil, nil, 0, true},
		{"last differs", []float64{1, 2, 3}, []float64{1, 2, 4}, 3, false},
		{"first differs", []float64{0, 2, 3}, []float64{1, 2, 3}, 3, false},
		{"difference outside range", []float64{1, 2, 3}, []float64{1, 2, 4}, 2, true},
		{"no tolerance", []float64{math.Sqrt(2)}, []float64{math.Sqrt(2) + 1e-15}, 1, false},
		{"short series", []float64{1}, []float64{1, 2}, 2, false},
		{"nan never equal", []float64{math.NaN()}, []float64{math.NaN()}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b, tt.n))
		})
	}
}

func TestFirstMismatch(t *testing.T) {
	idx, ok := FirstMismatch([]float64{1, 2, 3, 4}, []float64{1, 9, 3, 9}, 4)
	assert.True(t, ok)
	assert.Equal(t, 1, idx, "must short-circuit on the first mismatch")

	_, ok = FirstMismatch([]float64{1, 2}, []float64{1, 2}, 2)
	assert.False(t, ok)

	idx, ok = FirstMismatch([]float64{1, 2}, []float64{1}, 2)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}
