package teleop

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
)

func TestRemapGrasp(t *testing.T) {
	tests := []struct {
		name     string
		raw      float64
		expected float64
	}{
		{"open", 0, -1},
		{"neutral", 1, 0},
		{"closed", 2, 1},
		{"analog partial close", 1.7, 0.7},
		{"analog partial open", 0.3, -0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, RemapGrasp(tt.raw), 1e-12)
		})
	}
}

func TestAssembleAction(t *testing.T) {
	t.Run("quaternion rotation term", func(t *testing.T) {
		pos := r3.Vector{X: 0.01, Y: -0.02, Z: 0.03}
		rot := []float64{0, 0, 0, 1}

		action := AssembleAction(pos, rot, 0.5)
		assert.Equal(t, []float64{0.01, -0.02, 0.03, 0, 0, 0, 1, 0.5}, action)
	})

	t.Run("euler rotation term", func(t *testing.T) {
		pos := r3.Vector{X: 1, Y: 2, Z: 3}
		rot := []float64{0.1, 0.2, 0.3}

		action := AssembleAction(pos, rot, -1)
		assert.Equal(t, []float64{1, 2, 3, 0.1, 0.2, 0.3, -1}, action)
	})

	t.Run("values pass through unclamped", func(t *testing.T) {
		action := AssembleAction(r3.Vector{X: 10}, []float64{5, 5, 5}, 3)
		assert.Equal(t, []float64{10, 0, 0, 5, 5, 5, 3}, action)
	})
}
