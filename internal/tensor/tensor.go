package tensor

import "fmt"

// Tensor is a dense float32 array in row-major order.
type Tensor struct {
	Shape []int64
	Data  []float32
}

func New(shape ...int64) Tensor {
	return Tensor{
		Shape: append([]int64(nil), shape...),
		Data:  make([]float32, Elements(shape)),
	}
}

// Elements returns the number of values a tensor of the given shape holds.
func Elements(shape []int64) int {
	if len(shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return int(n)
}

func (t Tensor) Validate() error {
	if want := Elements(t.Shape); want != len(t.Data) {
		return fmt.Errorf("shape %v holds %d values, got %d", t.Shape, want, len(t.Data))
	}
	return nil
}

func (t Tensor) String() string {
	return fmt.Sprintf("tensor%v", t.Shape)
}
