package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("object not found")

// Storage interface for archive object operations
type Storage interface {
	// Put stores data under key, replacing any existing object
	Put(ctx context.Context, key, contentType string, data io.Reader) error

	// Get retrieves the object stored under key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeNone  StorageType = "none"
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	S3Endpoint   string // Optional, for S3-compatible services
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration.
// StorageTypeNone (or an empty type) yields nil: archiving is disabled.
func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", StorageTypeNone:
		return nil, nil
	case StorageTypeLocal:
		if cfg.LocalPath == "" {
			cfg.LocalPath = "./storage/archive" // Default local storage path
		}
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("S3 bucket is required for S3 storage")
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1" // Default region
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// EmailKey returns the archive key of a generated email
func EmailKey(userID, emailID uuid.UUID) string {
	return path.Join("emails", userID.String(), emailID.String()+".txt")
}
