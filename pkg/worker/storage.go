package worker

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/nikogura/ats-match/pkg/config"
)

// S3Downloader reads CV documents from an S3 compatible bucket.
type S3Downloader struct {
	client *s3.Client
	bucket string
}

// NewS3Downloader builds a client for cfg. Static credentials are used when
// configured, otherwise the default AWS credential chain.
func NewS3Downloader(ctx context.Context, cfg config.StorageConfig) (downloader *S3Downloader, err error) {
	if cfg.Bucket == "" {
		err = errors.New("storage bucket is not configured")
		return downloader, err
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		err = errors.Wrap(err, "failed loading aws config")
		return downloader, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	downloader = &S3Downloader{client: client, bucket: cfg.Bucket}
	return downloader, err
}

// Download returns the object stored under key.
func (d *S3Downloader) Download(ctx context.Context, key string) (data []byte, err error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		err = errors.Wrapf(err, "failed getting object %s", key)
		return data, err
	}
	defer out.Body.Close()

	data, err = io.ReadAll(out.Body)
	if err != nil {
		err = errors.Wrapf(err, "failed reading object %s", key)
		return data, err
	}

	return data, err
}
