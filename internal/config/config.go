package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGCS = "gcs"
	ProviderS3  = "s3"
)

const EnvPrefix = "MODELCLASSIFY"

type Config struct {
	Environment     string    `mapstructure:"environment"`
	Provider        string    `mapstructure:"provider"`
	CredentialsFile string    `mapstructure:"credentials_file"`
	Bucket          string    `mapstructure:"bucket"`
	Object          string    `mapstructure:"object"`
	ModelPath       string    `mapstructure:"model_path"`
	ImagePath       string    `mapstructure:"image_path"`
	Width           int       `mapstructure:"width"`
	Height          int       `mapstructure:"height"`
	Interpolation   string    `mapstructure:"interpolation"`
	LabelsPath      string    `mapstructure:"labels_path"`
	ORTLibraryPath  string    `mapstructure:"ort_library_path"`
	IntraOpThreads  int       `mapstructure:"intra_op_threads"`
	Port            int       `mapstructure:"port"`
	S3              *S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// SetDefaults registers the defaults of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("environment", DefaultEnvironment)
	v.SetDefault("provider", ProviderGCS)
	v.SetDefault("credentials_file", DefaultCredentialsFile)
	v.SetDefault("bucket", DefaultBucket)
	v.SetDefault("object", DefaultObject)
	v.SetDefault("model_path", DefaultModelPath)
	v.SetDefault("image_path", DefaultImagePath)
	v.SetDefault("width", DefaultWidth)
	v.SetDefault("height", DefaultHeight)
	v.SetDefault("interpolation", DefaultInterpolation)
	v.SetDefault("labels_path", "")
	v.SetDefault("ort_library_path", "")
	v.SetDefault("intra_op_threads", 0)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
}

// Load reads envFile (if any), the environment and configFile (if any) into
// a Config. Values already bound on v, such as command line flags, take
// precedence.
func Load(v *viper.Viper, envFile, configFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`, `-`, `_`))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid target size %dx%d", c.Width, c.Height))
	}
	switch strings.ToLower(c.Provider) {
	case ProviderGCS:
	case ProviderS3:
		if c.S3 == nil {
			errs = append(errs, errors.New("s3 config is not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid provider %q", c.Provider))
	}
	switch strings.ToLower(c.Interpolation) {
	case "nearest", "bilinear", "bicubic", "lanczos3":
	default:
		errs = append(errs, fmt.Errorf("invalid interpolation %q", c.Interpolation))
	}
	if c.Bucket == "" || c.Object == "" {
		errs = append(errs, errors.New("bucket and object must be set"))
	}
	if c.ModelPath == "" {
		errs = append(errs, errors.New("model path must be set"))
	}

	return errors.Join(errs...)
}
