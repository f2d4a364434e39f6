package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/Brownie44l1/modelclassify/internal/config"
	"github.com/Brownie44l1/modelclassify/internal/fetch"
	"github.com/Brownie44l1/modelclassify/internal/model"
)

func (a *app) bind(flag *pflag.Flag, key string) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag.Name, err))
	}
}

func (a *app) objectRef() fetch.ObjectRef {
	return fetch.ObjectRef{Bucket: a.cfg.Bucket, Object: a.cfg.Object}
}

func (a *app) newFetcher(ctx context.Context) (*fetch.Fetcher, func(), error) {
	switch strings.ToLower(a.cfg.Provider) {
	case config.ProviderS3:
		d, err := fetch.NewS3Downloader(ctx, fetch.S3Options{
			Region:    a.cfg.S3.Region,
			Endpoint:  a.cfg.S3.Endpoint,
			AccessKey: a.cfg.S3.AccessKey,
			SecretKey: a.cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return fetch.NewFetcher(d, a.log), func() {}, nil
	default:
		d, err := fetch.NewGCSDownloader(ctx, a.cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return fetch.NewFetcher(d, a.log), func() { _ = d.Close() }, nil
	}
}

func (a *app) openRunner(path string) (*model.ONNXRunner, error) {
	return model.Open(path, model.Options{
		LibraryPath:    a.cfg.ORTLibraryPath,
		IntraOpThreads: a.cfg.IntraOpThreads,
	}, a.log)
}

// inputShape fills the dynamic dimensions of a declared NCHW input with a
// single image of the configured size.
func inputShape(declared []int64, width, height int) []int64 {
	fallback := []int64{1, 3, int64(height), int64(width)}
	if len(declared) != len(fallback) {
		return fallback
	}

	shape := make([]int64, len(declared))
	for i, d := range declared {
		if d > 0 {
			shape[i] = d
		} else {
			shape[i] = fallback[i]
		}
	}
	return shape
}
