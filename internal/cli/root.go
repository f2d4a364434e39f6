package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Brownie44l1/modelclassify/internal/config"
	"github.com/Brownie44l1/modelclassify/internal/logger"
)

type app struct {
	v   *viper.Viper
	cfg *config.Config
	log *zap.Logger
	out io.Writer
}

func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out}

	cmd := &cobra.Command{
		Use:           "modelclassify",
		Short:         "Classify an image with an ONNX model stored in the cloud",
		SilenceUsage:  true,
		SilenceErrors: true,

		// Runs before this command and any subcommands
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			configFile, _ := cmd.Flags().GetString("config-file")

			cfg, err := config.Load(a.v, envFile, configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg

			a.log, err = logger.NewLogger(cfg)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pflags := cmd.PersistentFlags()
	pflags.String("config-file", "", "Path to a YAML config file")
	pflags.String("env-file", "", "Path to a .env file")
	pflags.String("environment", config.DefaultEnvironment, "Logging environment: development, production or test")
	pflags.String("provider", config.ProviderGCS, "Object store provider: gcs or s3")
	pflags.String("credentials-file", config.DefaultCredentialsFile, "Service account credentials file for gcs")
	pflags.String("bucket", config.DefaultBucket, "Bucket holding the model")
	pflags.String("object", config.DefaultObject, "Object path of the model")
	pflags.String("model-path", config.DefaultModelPath, "Local path the model is downloaded to")
	pflags.String("ort-library-path", "", "Path to the onnxruntime shared library")
	pflags.Int("width", config.DefaultWidth, "Model input width")
	pflags.Int("height", config.DefaultHeight, "Model input height")
	pflags.String("interpolation", config.DefaultInterpolation, "Resize filter: nearest, bilinear, bicubic or lanczos3")
	pflags.String("labels", "", "Optional JSON file of class labels")
	a.bind(pflags.Lookup("environment"), "environment")
	a.bind(pflags.Lookup("provider"), "provider")
	a.bind(pflags.Lookup("credentials-file"), "credentials_file")
	a.bind(pflags.Lookup("bucket"), "bucket")
	a.bind(pflags.Lookup("object"), "object")
	a.bind(pflags.Lookup("model-path"), "model_path")
	a.bind(pflags.Lookup("ort-library-path"), "ort_library_path")
	a.bind(pflags.Lookup("width"), "width")
	a.bind(pflags.Lookup("height"), "height")
	a.bind(pflags.Lookup("interpolation"), "interpolation")
	a.bind(pflags.Lookup("labels"), "labels_path")

	cmd.AddCommand(a.runCmd(), a.fetchCmd(), a.serveCmd())
	cmd.CompletionOptions.HiddenDefaultCmd = true
	return cmd
}

func Execute() {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
