package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputShape(t *testing.T) {
	assert.Equal(t, []int64{1, 3, 224, 224}, inputShape([]int64{1, 3, 224, 224}, 64, 64))
	assert.Equal(t, []int64{1, 3, 48, 32}, inputShape([]int64{-1, 3, -1, -1}, 32, 48))
	assert.Equal(t, []int64{1, 3, 48, 32}, inputShape([]int64{-1, 2048}, 32, 48))
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	chdir(t, t.TempDir())

	var out bytes.Buffer
	cmd := NewRootCmd(&out)
	cmd.SetArgs([]string{"run", "--width", "0", "--environment", "test"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid target size")
	assert.Empty(t, out.String())
}

func TestFetchCommandS3(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weights/models/resnet.onnx" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("onnx"))
	}))
	defer srv.Close()

	t.Setenv("MODELCLASSIFY_S3_ENDPOINT", srv.URL)
	t.Setenv("MODELCLASSIFY_S3_REGION", "us-east-1")
	t.Setenv("MODELCLASSIFY_S3_ACCESS_KEY", "key")
	t.Setenv("MODELCLASSIFY_S3_SECRET_KEY", "secret")

	modelPath := filepath.Join(dir, "model.onnx")
	var out bytes.Buffer
	cmd := NewRootCmd(&out)
	cmd.SetArgs([]string{
		"fetch",
		"--environment", "production",
		"--provider", "s3",
		"--bucket", "weights",
		"--object", "models/resnet.onnx",
		"--model-path", modelPath,
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Downloaded weights/models/resnet.onnx")

	got, err := os.ReadFile(modelPath)
	require.NoError(t, err)
	assert.Equal(t, "onnx", string(got))
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
