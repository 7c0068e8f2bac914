// Package service holds the business logic that sits between HTTP
// handlers and repositories.
package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"platebook/internal/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "platebook/internal/config"
)

// Upload folders; images for recipes and avatars are kept apart so
// cleanup jobs can reason about them independently.
const (
	RecipeImageFolder    = "recipe-images"
	ProfilePictureFolder = "profile-pictures"
)

// MediaStore abstracts the object store that holds uploaded images.
type MediaStore interface {
	// Upload stores content under the folder and returns the public URL.
	Upload(ctx context.Context, folder string, content []byte, contentType string) (string, error)
	// Delete removes the object a previously returned URL points at.
	// Unknown URLs are a no-op.
	Delete(ctx context.Context, url string) error
}

type s3MediaStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3MediaStore builds a MediaStore backed by an S3-compatible
// object store (AWS S3 or MinIO via the endpoint override).
func NewS3MediaStore(ctx context.Context, cfg *appconfig.Config) (MediaStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			// MinIO only speaks path-style addressing
			o.UsePathStyle = true
		}
	})

	base := strings.TrimRight(cfg.S3PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.S3Endpoint, "/"), cfg.S3Bucket)
	}

	return &s3MediaStore{
		client:        client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: base,
	}, nil
}

func (m *s3MediaStore) Upload(ctx context.Context, folder string, content []byte, contentType string) (string, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New(), extensionFor(contentType))

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		observability.MediaOperations.WithLabelValues("upload", "error").Inc()
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	observability.MediaOperations.WithLabelValues("upload", "ok").Inc()

	return fmt.Sprintf("%s/%s", m.publicBaseURL, key), nil
}

func (m *s3MediaStore) Delete(ctx context.Context, url string) error {
	key, ok := m.keyFromURL(url)
	if !ok {
		return nil
	}

	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		observability.MediaOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	observability.MediaOperations.WithLabelValues("delete", "ok").Inc()
	return nil
}

// keyFromURL maps a public URL back to its object key. URLs that do
// not live under our base (seeded defaults, external avatars) yield
// ok=false and are left alone.
func (m *s3MediaStore) keyFromURL(url string) (string, bool) {
	prefix := m.publicBaseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
