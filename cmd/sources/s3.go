package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// ErrInvalidS3URL is returned for s3:// locations missing a bucket or key
var ErrInvalidS3URL = errors.New("invalid s3 URL")

// S3Options carries the connection settings for s3:// locations
type S3Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// downloadS3 fetches an s3://bucket/key object into a temp file whose
// name keeps the key's filename, so format and compression detection
// still work on the local copy
func downloadS3(ctx context.Context, rawURL string, opts S3Options, logger *slog.Logger) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidS3URL, rawURL, err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidS3URL, rawURL)
	}

	region := opts.Region
	if region == "" {
		region = "auto"
	}

	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(opts.Endpoint),
		Region:           aws.String(region),
		Credentials:      credentials.NewStaticCredentials(opts.AccessKey, opts.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create S3 session: %w", err)
	}

	tempFile, err := os.CreateTemp("", "rtchecker-*-"+filepath.Base(key))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	logger.Debug(fmt.Sprintf("Downloading s3://%s/%s to %s", bucket, key, tempFile.Name()))

	downloader := s3manager.NewDownloader(sess)
	_, err = downloader.DownloadWithContext(ctx, tempFile, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to download s3://%s/%s: %w", bucket, key, err)
	}

	return tempFile.Name(), nil
}
