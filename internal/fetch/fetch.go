package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

var (
	ErrUnauthorized   = errors.New("object store rejected credentials")
	ErrObjectNotFound = errors.New("object not found")
	ErrLocalIO        = errors.New("local file not writable")
)

// ObjectRef identifies an object in a bucket.
type ObjectRef struct {
	Bucket string
	Object string
}

func (r ObjectRef) String() string {
	return r.Bucket + "/" + r.Object
}

// Downloader streams the full content of an object into w.
type Downloader interface {
	Download(ctx context.Context, bucket, object string, w io.Writer) error
}

type Fetcher struct {
	downloader Downloader
	log        *zap.Logger
}

func NewFetcher(d Downloader, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{downloader: d, log: log}
}

// Fetch downloads ref to localPath, replacing whatever the file held before.
// The object is staged in a temporary file next to localPath and renamed
// into place only once the download completes.
func (f *Fetcher) Fetch(ctx context.Context, ref ObjectRef, localPath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(localPath), "."+filepath.Base(localPath)+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLocalIO, err)
	}
	defer os.Remove(tmp.Name())

	if err := f.downloader.Download(ctx, ref.Bucket, ref.Object, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("download %s: %w", ref, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrLocalIO, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrLocalIO, err)
	}
	if err := os.Rename(tmp.Name(), localPath); err != nil {
		return fmt.Errorf("%w: %v", ErrLocalIO, err)
	}

	if info, err := os.Stat(localPath); err == nil {
		f.log.Info("model downloaded",
			zap.Stringer("object", ref),
			zap.String("path", localPath),
			zap.Int64("bytes", info.Size()))
	}

	return nil
}

// copyObject copies an object body into w, attributing write failures to the
// local side.
func copyObject(w io.Writer, body io.Reader) (int64, error) {
	n, err := io.Copy(trackedWriter{w}, body)
	if err != nil {
		var werr *writeError
		if errors.As(err, &werr) {
			return n, fmt.Errorf("%w: %v", ErrLocalIO, werr.err)
		}
		return n, err
	}
	return n, nil
}

type writeError struct{ err error }

func (e *writeError) Error() string { return e.err.Error() }

type trackedWriter struct{ w io.Writer }

func (t trackedWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil {
		return n, &writeError{err}
	}
	return n, nil
}
