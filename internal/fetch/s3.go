package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Downloader reads objects from S3 or an S3-compatible store.
type S3Downloader struct {
	client *s3.Client
}

func NewS3Downloader(ctx context.Context, opts S3Options) (*S3Downloader, error) {
	loadOpts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		provider := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
		loadOpts = append(loadOpts, awsConfig.WithCredentialsProvider(provider))
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Downloader{client: client}, nil
}

func (d *S3Downloader) Download(ctx context.Context, bucket, object string, w io.Writer) error {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(object),
	})
	if err != nil {
		return s3Error(err)
	}
	defer out.Body.Close()

	if _, err := copyObject(w, out.Body); err != nil {
		return s3Error(err)
	}
	return nil
}

func s3Error(err error) error {
	if errors.Is(err, ErrLocalIO) {
		return err
	}

	var noKey *types.NoSuchKey
	var noBucket *types.NoSuchBucket
	if errors.As(err, &noKey) || errors.As(err, &noBucket) {
		return fmt.Errorf("%w: %v", ErrObjectNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case "NotFound":
			return fmt.Errorf("%w: %v", ErrObjectNotFound, err)
		}
	}
	return err
}
