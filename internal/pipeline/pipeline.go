package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Brownie44l1/modelclassify/internal/classify"
	"github.com/Brownie44l1/modelclassify/internal/fetch"
	"github.com/Brownie44l1/modelclassify/internal/model"
	"github.com/Brownie44l1/modelclassify/internal/tensor"
)

type Stage string

const (
	StageFetch      Stage = "fetch"
	StageLoad       Stage = "load"
	StagePreprocess Stage = "preprocess"
	StageInfer      Stage = "infer"
	StageClassify   Stage = "classify"
)

// StageError records which step of a run failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type Fetcher interface {
	Fetch(ctx context.Context, ref fetch.ObjectRef, localPath string) error
}

type ImageLoader interface {
	Load(path string) (tensor.Tensor, error)
}

// OpenFunc loads the model at path. The returned close function releases
// everything the runner holds.
type OpenFunc func(path string) (model.Runner, func(), error)

type Pipeline struct {
	Fetcher   Fetcher
	Images    ImageLoader
	Open      OpenFunc
	Ref       fetch.ObjectRef
	ModelPath string
	ImagePath string
	Log       *zap.Logger
}

// Run downloads the model, classifies the image and returns the predicted
// class index. Steps run strictly in order and the first failure ends the
// run.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	if err := p.Fetcher.Fetch(ctx, p.Ref, p.ModelPath); err != nil {
		return 0, &StageError{Stage: StageFetch, Err: err}
	}

	runner, closeRunner, err := p.Open(p.ModelPath)
	if err != nil {
		return 0, &StageError{Stage: StageLoad, Err: err}
	}
	defer closeRunner()

	input, err := p.Images.Load(p.ImagePath)
	if err != nil {
		return 0, &StageError{Stage: StagePreprocess, Err: err}
	}
	log.Debug("image preprocessed", zap.String("path", p.ImagePath), zap.Stringer("tensor", input))

	output, err := runner.Run(input)
	if err != nil {
		return 0, &StageError{Stage: StageInfer, Err: err}
	}

	prediction, err := classify.Argmax(output.Data)
	if err != nil {
		return 0, &StageError{Stage: StageClassify, Err: err}
	}
	log.Info("prediction complete", zap.Int("class", prediction), zap.Float32("score", output.Data[prediction]))

	return prediction, nil
}
