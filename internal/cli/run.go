package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Brownie44l1/modelclassify/internal/classify"
	"github.com/Brownie44l1/modelclassify/internal/model"
	"github.com/Brownie44l1/modelclassify/internal/pipeline"
	"github.com/Brownie44l1/modelclassify/internal/preprocess"
)

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download the model and classify one image",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fetcher, closeFetcher, err := a.newFetcher(ctx)
			if err != nil {
				return &pipeline.StageError{Stage: pipeline.StageFetch, Err: err}
			}
			defer closeFetcher()

			pre, err := preprocess.New(a.cfg.Width, a.cfg.Height, a.cfg.Interpolation, a.log)
			if err != nil {
				return err
			}

			metadata, err := model.LoadMetadata(a.cfg.LabelsPath)
			if err != nil {
				return err
			}

			p := &pipeline.Pipeline{
				Fetcher: fetcher,
				Images:  pre,
				Open: func(path string) (model.Runner, func(), error) {
					runner, err := a.openRunner(path)
					if err != nil {
						return nil, nil, err
					}
					return runner, runner.Close, nil
				},
				Ref:       a.objectRef(),
				ModelPath: a.cfg.ModelPath,
				ImagePath: a.cfg.ImagePath,
				Log:       a.log,
			}

			class, err := p.Run(ctx)
			if err != nil {
				return err
			}
			if len(metadata.Classes) > 0 {
				a.log.Info("predicted label", zap.String("label", classify.Label(metadata.Classes, class)))
			}

			fmt.Fprintf(a.out, "Most likely class: %d\n", class)
			fmt.Fprintln(a.out, "Done")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("image", "", "Image to classify (default from config)")
	a.bind(flags.Lookup("image"), "image_path")

	return cmd
}
