package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the S3-compatible endpoint settings and the two bucket names.
type Config struct {
	Endpoint      string // host:port, no scheme
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PublicBucket  string // brand images + public infographics
	PrivateBucket string // private reports (signed URLs only)
}

// MinioStore implements ObjectStore against any S3-compatible endpoint.
type MinioStore struct {
	client   *minio.Client
	endpoint string
	secure   bool
}

// NewMinioStore constructs a store from explicit credentials. Credentials
// are validated here so a misconfigured deployment fails at startup rather
// than on the first upload.
func NewMinioStore(cfg Config) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint not configured")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials not configured")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return &MinioStore{client: client, endpoint: cfg.Endpoint, secure: cfg.UseSSL}, nil
}

// Upload writes an object with the given content type.
func (s *MinioStore) Upload(ctx context.Context, bucket, name string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// Remove deletes an object; missing objects are treated as already removed.
func (s *MinioStore) Remove(ctx context.Context, bucket, name string) error {
	return s.client.RemoveObject(ctx, bucket, name, minio.RemoveObjectOptions{})
}

// PublicURL builds the permanent URL for an object in a public-read bucket.
func (s *MinioStore) PublicURL(bucket, name string) string {
	scheme := "http"
	if s.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, bucket, name)
}

// SignedURL creates a presigned GET URL valid for the given expiry.
func (s *MinioStore) SignedURL(ctx context.Context, bucket, name string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, bucket, name, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
