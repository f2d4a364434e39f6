package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Brownie44l1/modelclassify/internal/handlers"
	"github.com/Brownie44l1/modelclassify/internal/model"
	"github.com/Brownie44l1/modelclassify/internal/preprocess"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if download, _ := cmd.Flags().GetBool("fetch"); download {
				fetcher, closeFetcher, err := a.newFetcher(ctx)
				if err != nil {
					return err
				}
				err = fetcher.Fetch(ctx, a.objectRef(), a.cfg.ModelPath)
				closeFetcher()
				if err != nil {
					return err
				}
			}

			metadata, err := model.LoadMetadata(a.cfg.LabelsPath)
			if err != nil {
				return err
			}

			a.log.Info("loading model", zap.String("path", a.cfg.ModelPath))
			runner, err := a.openRunner(a.cfg.ModelPath)
			if err != nil {
				return err
			}
			defer runner.Close()

			pre, err := preprocess.New(a.cfg.Width, a.cfg.Height, a.cfg.Interpolation, a.log)
			if err != nil {
				return err
			}

			server := model.NewServer(runner, metadata, inputShape(runner.InputShape(), a.cfg.Width, a.cfg.Height))
			router := handlers.NewRouter(handlers.NewHandler(server, pre, a.log))

			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", a.cfg.Port),
				Handler: router,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("server starting",
					zap.Int("port", a.cfg.Port),
					zap.Strings("classes", metadata.Classes))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	flags := cmd.Flags()
	flags.Int("port", 0, "Port to listen on (default 8080)")
	flags.Bool("fetch", false, "Download the model before serving")
	a.bind(flags.Lookup("port"), "port")

	return cmd
}
