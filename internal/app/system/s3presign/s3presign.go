// Package s3presign signs object URLs against a user's own S3-compatible
// bucket. Signing is local; nothing here talks to the network.
package s3presign

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dalemusser/imagehub/internal/domain/models"
)

// DefaultExpiry is how long a presigned link stays valid.
const DefaultExpiry = 600 * time.Second

// ErrIncompleteConfig is returned when a StorageConfig lacks a field.
var ErrIncompleteConfig = errors.New("storage config is incomplete")

// Signer issues presigned URLs for one bucket.
type Signer struct {
	bucket  string
	expiry  time.Duration
	presign *s3.PresignClient
}

// New builds a Signer from a user's settings. Custom endpoints (MinIO,
// R2, Wasabi...) get path-style addressing.
func New(cfg models.StorageConfig, expiry time.Duration) (*Signer, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}

	client := s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		BaseEndpoint: aws.String(cfg.Endpoint),
		UsePathStyle: true,
	})

	return &Signer{
		bucket:  cfg.Bucket,
		expiry:  expiry,
		presign: s3.NewPresignClient(client),
	}, nil
}

// Validate checks that every field is present and the endpoint is an
// absolute http(s) URL.
func Validate(cfg models.StorageConfig) error {
	if cfg.Endpoint == "" || cfg.Region == "" || cfg.Bucket == "" ||
		cfg.AccessKey == "" || cfg.SecretKey == "" {
		return ErrIncompleteConfig
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("endpoint %q must be an absolute http(s) URL", cfg.Endpoint)
	}
	return nil
}

// PutURL signs an upload of key.
func (s *Signer) PutURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, nil
}

// GetURL signs a download of key.
func (s *Signer) GetURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, nil
}

// Expiry is the lifetime given to every signed URL.
func (s *Signer) Expiry() time.Duration {
	return s.expiry
}
