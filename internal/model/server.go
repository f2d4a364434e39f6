package model

import (
	"fmt"
	"sync"

	"github.com/Brownie44l1/modelclassify/internal/classify"
	"github.com/Brownie44l1/modelclassify/internal/tensor"
)

// Server shares one Runner between concurrent HTTP requests.
type Server struct {
	mu         sync.Mutex
	runner     Runner
	Metadata   Metadata
	InputShape []int64
}

func NewServer(runner Runner, metadata Metadata, inputShape []int64) *Server {
	return &Server{
		runner:     runner,
		Metadata:   metadata,
		InputShape: inputShape,
	}
}

// InputSize is the number of values a raw prediction request must carry.
func (s *Server) InputSize() int {
	return tensor.Elements(s.InputShape)
}

func (s *Server) Predict(inputData []float32) (*classify.Prediction, error) {
	if len(inputData) != s.InputSize() {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrShapeMismatch, s.InputSize(), len(inputData))
	}
	return s.PredictTensor(tensor.Tensor{Shape: s.InputShape, Data: inputData})
}

func (s *Server) PredictTensor(input tensor.Tensor) (*classify.Prediction, error) {
	s.mu.Lock()
	output, err := s.runner.Run(input)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return classify.Top(output.Data, s.Metadata.Classes)
}
