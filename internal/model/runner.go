package model

import (
	"errors"
	"fmt"
	"os"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	"github.com/Brownie44l1/modelclassify/internal/tensor"
)

var (
	ErrModelLoad     = errors.New("failed to load model")
	ErrNoInputs      = errors.New("model declares no inputs")
	ErrShapeMismatch = errors.New("input shape incompatible with model")
	ErrExecution     = errors.New("inference failed")
)

// Runner executes a single forward pass.
type Runner interface {
	Run(input tensor.Tensor) (tensor.Tensor, error)
}

type Options struct {
	// LibraryPath points at the onnxruntime shared library. Empty uses the
	// platform default lookup.
	LibraryPath    string
	IntraOpThreads int
}

// ONNXRunner binds a tensor to the sole input of an ONNX model and returns
// its first output.
type ONNXRunner struct {
	session *ort.DynamicAdvancedSession
	input   ort.InputOutputInfo
	output  ort.InputOutputInfo
	log     *zap.Logger
}

func Open(modelPath string, opts Options, log *zap.Logger) (*ONNXRunner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}

	if !ort.IsInitialized() {
		if opts.LibraryPath != "" {
			ort.SetSharedLibraryPath(opts.LibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: failed to initialize ONNX environment: %v", ErrModelLoad, err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("%w: model declares no outputs", ErrModelLoad)
	}

	sessOpts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: session options: %v", ErrModelLoad, err)
	}
	defer sessOpts.Destroy()

	if opts.IntraOpThreads > 0 {
		if err := sessOpts.SetIntraOpNumThreads(opts.IntraOpThreads); err != nil {
			return nil, fmt.Errorf("%w: set threads: %v", ErrModelLoad, err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, sessOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create ONNX session: %v", ErrModelLoad, err)
	}

	log.Info("model loaded",
		zap.String("path", modelPath),
		zap.String("input", inputs[0].Name),
		zap.Int64s("input_shape", inputs[0].Dimensions),
		zap.String("output", outputs[0].Name))

	return &ONNXRunner{
		session: session,
		input:   inputs[0],
		output:  outputs[0],
		log:     log,
	}, nil
}

func (r *ONNXRunner) InputName() string {
	return r.input.Name
}

// InputShape is the declared input shape. Non-positive dimensions are
// dynamic.
func (r *ONNXRunner) InputShape() []int64 {
	return []int64(r.input.Dimensions)
}

func (r *ONNXRunner) Run(input tensor.Tensor) (tensor.Tensor, error) {
	if err := input.Validate(); err != nil {
		return tensor.Tensor{}, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	if err := CheckShape(r.InputShape(), input.Shape); err != nil {
		return tensor.Tensor{}, err
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(input.Shape...), input.Data)
	if err != nil {
		return tensor.Tensor{}, fmt.Errorf("%w: failed to create input tensor: %v", ErrExecution, err)
	}
	defer inputTensor.Destroy()

	// A nil output is allocated by the runtime and owned by the caller.
	outputs := []ort.ArbitraryTensor{nil}
	if err := r.session.Run([]ort.ArbitraryTensor{inputTensor}, outputs); err != nil {
		return tensor.Tensor{}, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	defer outputs[0].Destroy()

	outputTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return tensor.Tensor{}, fmt.Errorf("%w: output %q is not a float32 tensor", ErrExecution, r.output.Name)
	}

	result := tensor.Tensor{
		Shape: append([]int64(nil), outputTensor.GetShape()...),
		Data:  append([]float32(nil), outputTensor.GetData()...),
	}
	r.log.Debug("inference complete", zap.Int64s("output_shape", result.Shape))

	return result, nil
}

func (r *ONNXRunner) Close() {
	if r.session != nil {
		r.session.Destroy()
		r.session = nil
	}
	ort.DestroyEnvironment()
}

// CheckShape reports whether got satisfies the declared model input shape.
func CheckShape(declared, got []int64) error {
	if len(declared) != len(got) {
		return fmt.Errorf("%w: model expects rank %d %v, got %v", ErrShapeMismatch, len(declared), declared, got)
	}
	for i, d := range declared {
		if d > 0 && d != got[i] {
			return fmt.Errorf("%w: model expects %v, got %v", ErrShapeMismatch, declared, got)
		}
	}
	return nil
}
