package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newS3Server(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models-bucket/models/07_model.onnx":
			w.Write([]byte("graph-bytes"))
		case "/models-bucket/private.onnx":
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`))
		default:
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestS3Downloader(t *testing.T) *S3Downloader {
	t.Helper()

	d, err := NewS3Downloader(context.Background(), S3Options{
		Region:    "us-east-1",
		Endpoint:  newS3Server(t).URL,
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	return d
}

func TestS3Download(t *testing.T) {
	var buf bytes.Buffer
	err := newTestS3Downloader(t).Download(context.Background(), "models-bucket", "models/07_model.onnx", &buf)
	require.NoError(t, err)
	assert.Equal(t, "graph-bytes", buf.String())
}

func TestS3DownloadErrors(t *testing.T) {
	d := newTestS3Downloader(t)

	err := d.Download(context.Background(), "models-bucket", "missing.onnx", &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrObjectNotFound)

	err = d.Download(context.Background(), "models-bucket", "private.onnx", &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
