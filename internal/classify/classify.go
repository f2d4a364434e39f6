package classify

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyTensor = errors.New("output tensor is empty")
	ErrNaNScores   = errors.New("output tensor holds only NaN")
)

// Argmax returns the index of the first maximum value in scores. NaN scores
// are never selected.
func Argmax(scores []float32) (int, error) {
	if len(scores) == 0 {
		return 0, ErrEmptyTensor
	}

	maxIdx := -1
	var maxVal float32
	for i, val := range scores {
		if math.IsNaN(float64(val)) {
			continue
		}
		if maxIdx < 0 || val > maxVal {
			maxVal = val
			maxIdx = i
		}
	}
	if maxIdx < 0 {
		return 0, ErrNaNScores
	}

	return maxIdx, nil
}

type Prediction struct {
	Class       string             `json:"class"`
	Index       int                `json:"index"`
	Confidence  float32            `json:"confidence"`
	Predictions map[string]float32 `json:"predictions"`
}

// Top builds a labelled prediction. Scores without a matching label are
// reported under their index.
func Top(scores []float32, labels []string) (*Prediction, error) {
	idx, err := Argmax(scores)
	if err != nil {
		return nil, err
	}

	predictions := make(map[string]float32, len(scores))
	for i, val := range scores {
		predictions[Label(labels, i)] = val
	}

	return &Prediction{
		Class:       Label(labels, idx),
		Index:       idx,
		Confidence:  scores[idx],
		Predictions: predictions,
	}, nil
}

func Label(labels []string, idx int) string {
	if idx >= 0 && idx < len(labels) {
		return labels[idx]
	}
	return fmt.Sprintf("%d", idx)
}
