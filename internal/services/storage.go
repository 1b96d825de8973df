package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/config"
	"github.com/jmanoj0905/Serverless-CV-Match/internal/models"
)

// ErrObjectNotFound is returned for reads of keys that do not exist. A missing
// result document is how a failed pipeline run is observed, so callers need to
// tell this apart from transport errors.
var ErrObjectNotFound = errors.New("object not found")

type ObjectStorageService interface {
	EnsureBucket(ctx context.Context) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PutJSON(ctx context.Context, key string, v interface{}) error
	LoadJobCatalog(ctx context.Context) ([]models.JobPosting, error)
}

type objectStorageService struct {
	client  *minio.Client
	bucket  string
	jobsKey string
}

func NewObjectStorageService(cfg config.StorageConfig) (ObjectStorageService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &objectStorageService{
		client:  client,
		bucket:  cfg.Bucket,
		jobsKey: cfg.JobsKey,
	}, nil
}

// EnsureBucket implements ObjectStorageService.
func (s *objectStorageService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", s.bucket, err)
	}
	return nil
}

// GetObject implements ObjectStorageService.
func (s *objectStorageService) GetObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %q: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("failed to read object %q: %w", key, err)
	}

	return data, nil
}

// PutObject implements ObjectStorageService.
func (s *objectStorageService) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to put object %q: %w", key, err)
	}

	return nil
}

// PutJSON implements ObjectStorageService.
func (s *objectStorageService) PutJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %q: %w", key, err)
	}

	return s.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json")
}

// LoadJobCatalog implements ObjectStorageService. The catalog is a single
// JSON array read in full on every invocation.
func (s *objectStorageService) LoadJobCatalog(ctx context.Context) ([]models.JobPosting, error) {
	data, err := s.GetObject(ctx, s.jobsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load job catalog: %w", err)
	}

	var jobs []models.JobPosting
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode job catalog: %w", err)
	}

	return jobs, nil
}
