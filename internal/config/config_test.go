package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(viper.New(), "", "")
	require.NoError(t, err)

	assert.Equal(t, ProviderGCS, cfg.Provider)
	assert.Equal(t, DefaultBucket, cfg.Bucket)
	assert.Equal(t, DefaultObject, cfg.Object)
	assert.Equal(t, DefaultModelPath, cfg.ModelPath)
	assert.Equal(t, DefaultCredentialsFile, cfg.CredentialsFile)
	assert.Equal(t, 224, cfg.Width)
	assert.Equal(t, 224, cfg.Height)
	assert.Equal(t, "bilinear", cfg.Interpolation)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
provider: s3
bucket: weights
object: resnet/model.onnx
width: 32
s3:
  region: eu-west-1
  endpoint: http://localhost:9000
`), 0o644))

	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("MODELCLASSIFY_HEIGHT=48\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("MODELCLASSIFY_HEIGHT") })

	cfg, err := Load(viper.New(), envFile, configFile)
	require.NoError(t, err)

	assert.Equal(t, ProviderS3, cfg.Provider)
	assert.Equal(t, "weights", cfg.Bucket)
	assert.Equal(t, 32, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
	require.NotNil(t, cfg.S3)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Provider:      "ftp",
		Width:         0,
		Height:        224,
		Interpolation: "sinc",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid target size")
	assert.Contains(t, err.Error(), "invalid provider")
	assert.Contains(t, err.Error(), "invalid interpolation")
	assert.Contains(t, err.Error(), "bucket and object")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
