package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GCSDownloader reads objects from Google Cloud Storage.
type GCSDownloader struct {
	client *storage.Client
}

// NewGCSDownloader authenticates with a service account JSON key file. An
// empty path falls back to application default credentials.
func NewGCSDownloader(ctx context.Context, credentialsFile string) (*GCSDownloader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return &GCSDownloader{client: client}, nil
}

func (d *GCSDownloader) Download(ctx context.Context, bucket, object string, w io.Writer) error {
	rc, err := d.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return gcsError(err)
	}
	defer rc.Close()

	if _, err := copyObject(w, rc); err != nil {
		return gcsError(err)
	}
	return nil
}

func (d *GCSDownloader) Close() error {
	return d.client.Close()
}

func gcsError(err error) error {
	if errors.Is(err, ErrLocalIO) {
		return err
	}
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("%w: %v", ErrObjectNotFound, err)
	}

	// Revoked or malformed keys fail during the token exchange.
	var tokenErr *oauth2.RetrieveError
	if errors.As(err, &tokenErr) {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrObjectNotFound, err)
		}
	}
	return err
}
