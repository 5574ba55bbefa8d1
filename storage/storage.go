// Package storage keeps plain-text archives of generated campaigns on the
// local filesystem or in S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"marketly-backend/config"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned by Download when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Storage interface for archive storage operations
type Storage interface {
	// Upload stores data under key, replacing any existing object
	Upload(ctx context.Context, key string, data io.Reader) error

	// Download retrieves the object stored under key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object under key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeNone  StorageType = "none"
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// NewStorage creates a storage instance based on configuration. It returns a
// nil Storage for StorageTypeNone.
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch StorageType(cfg.Type) {
	case StorageTypeNone:
		return nil, nil
	case StorageTypeLocal:
		local, err := NewLocalStorage(cfg.LocalPath)
		if err != nil {
			return nil, err
		}
		return local, nil
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		s3Storage, err := NewS3Storage(cfg)
		if err != nil {
			return nil, err
		}
		return s3Storage, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// CampaignArchiveKey returns the object key of a campaign's archived content
func CampaignArchiveKey(ownerID, campaignID uuid.UUID) string {
	return fmt.Sprintf("campaigns/%s/%s.txt", ownerID, campaignID)
}
