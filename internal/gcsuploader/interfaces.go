package gcsuploader

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/dvloznov/spendwise/internal/gcs"
)

// Re-export interface from shared package for backward compatibility
type StorageService = gcs.StorageService

// GCSStorageService is the concrete implementation of StorageService
// that interacts with Google Cloud Storage.
type GCSStorageService struct {
	client *storage.Client
}

// Ensure GCSStorageService implements StorageService.
var _ StorageService = (*GCSStorageService)(nil)

// NewGCSStorageService creates a service using Application Default Credentials.
func NewGCSStorageService(ctx context.Context) (*GCSStorageService, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return NewGCSStorageServiceWithClient(client), nil
}

// NewGCSStorageServiceWithClient wraps an existing storage client.
func NewGCSStorageServiceWithClient(client *storage.Client) *GCSStorageService {
	return &GCSStorageService{client: client}
}

// Close releases the underlying client.
func (s *GCSStorageService) Close() error {
	return s.client.Close()
}

// UploadCSV delegates to UploadCSVWithClient.
func (s *GCSStorageService) UploadCSV(ctx context.Context, bucketName, objectName string, r io.Reader) (string, error) {
	return UploadCSVWithClient(ctx, s.client, bucketName, objectName, r)
}

// FetchFromGCS delegates to FetchFromGCSWithClient.
func (s *GCSStorageService) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	return FetchFromGCSWithClient(ctx, s.client, gcsURI)
}

// ExtractFilenameFromGCSURI delegates to the existing ExtractFilenameFromGCSURI function.
func (s *GCSStorageService) ExtractFilenameFromGCSURI(uri string) string {
	return ExtractFilenameFromGCSURI(uri)
}
