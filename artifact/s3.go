// Package artifact uploads local build archives to S3-compatible object
// storage so the build service can pull them by URL.
package artifact

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Uploader pushes archives to an S3 bucket. Objects are keyed by the
// SHA-256 of their content, so re-uploading the same archive is
// idempotent.
type Uploader struct {
	client     *s3.S3
	bucketName string
	prefix     string
	endpoint   string
	region     string
	log        *slog.Logger
}

// NewUploader creates an S3 uploader. An empty endpoint targets AWS
// proper; set it for S3-compatible services.
func NewUploader(bucketName, prefix, region, endpoint, accessKey, secretKey string, log *slog.Logger) (*Uploader, error) {
	cfg := aws.Config{
		Region: aws.String(region),
	}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	if accessKey != "" && secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	} else {
		log.Warn("No S3 credentials provided - archive upload may fail unless bucket is public writable")
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &Uploader{
		client:     s3.New(sess),
		bucketName: bucketName,
		prefix:     strings.TrimSuffix(prefix, "/"),
		endpoint:   endpoint,
		region:     region,
		log:        log,
	}, nil
}

// UploadFile reads the archive at filePath, stores it with a
// content-addressed key and returns the public URL of the object.
func (u *Uploader) UploadFile(ctx context.Context, filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("could not read archive %s: %w", filePath, err)
	}
	return u.Upload(ctx, data, path.Ext(filePath))
}

// Upload stores the archive bytes and returns the public URL.
func (u *Uploader) Upload(ctx context.Context, data []byte, ext string) (string, error) {
	start := time.Now()

	hash := sha256.Sum256(data)
	key := fmt.Sprintf("%x%s", hash, ext)
	if u.prefix != "" {
		key = path.Join(u.prefix, key)
	}

	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
		ACL:    aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload archive to S3: %w", err)
	}

	u.log.Debug("Uploaded archive to S3",
		slog.String("bucket", u.bucketName),
		slog.String("key", key),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return u.objectURL(key), nil
}

func (u *Uploader) objectURL(key string) string {
	if u.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(u.endpoint, "/"), u.bucketName, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucketName, u.region, key)
}
