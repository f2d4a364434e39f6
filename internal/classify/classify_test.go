package classify

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgmax(t *testing.T) {
	tests := []struct {
		name   string
		scores []float32
		want   int
	}{
		{"single", []float32{0.4}, 0},
		{"middle", []float32{0.1, 0.9, 0.3}, 1},
		{"last", []float32{0.2, 0.1, 0.7}, 2},
		{"tie picks first", []float32{0.5, 0.5, 0.2}, 0},
		{"negative", []float32{-3, -1, -2}, 1},
		{"leading NaN", []float32{nan, 0.1, 0.9, 0.3}, 2},
		{"NaN between", []float32{0.4, nan, 0.2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Argmax(tt.scores)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

var nan = float32(math.NaN())

func TestArgmaxAllNaN(t *testing.T) {
	_, err := Argmax([]float32{nan, nan})
	require.ErrorIs(t, err, ErrNaNScores)
}

func TestArgmaxEmpty(t *testing.T) {
	_, err := Argmax(nil)
	require.ErrorIs(t, err, ErrEmptyTensor)
}

func TestTop(t *testing.T) {
	pred, err := Top([]float32{0.1, 0.7, 0.2}, []string{"angry", "happy"})
	require.NoError(t, err)

	assert.Equal(t, "happy", pred.Class)
	assert.Equal(t, 1, pred.Index)
	assert.InDelta(t, 0.7, pred.Confidence, 1e-6)
	assert.Equal(t, map[string]float32{"angry": 0.1, "happy": 0.7, "2": 0.2}, pred.Predictions)
}

func TestTopEmpty(t *testing.T) {
	_, err := Top(nil, nil)
	require.ErrorIs(t, err, ErrEmptyTensor)
}
