// Package gcs holds the object-storage contract shared by the importer, the
// API and the worker.
package gcs

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

const uriScheme = "gs://"

// URI is a parsed gs://bucket/object location.
type URI struct {
	Bucket string
	Object string
}

// ParseURI splits a gs:// URI into bucket and object path.
func ParseURI(uri string) (URI, error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return URI{}, fmt.Errorf("invalid GCS URI: %s", uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, uriScheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return URI{}, fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return URI{Bucket: parts[0], Object: parts[1]}, nil
}

// String formats the location back into gs:// form.
func (u URI) String() string {
	return uriScheme + u.Bucket + "/" + u.Object
}

// Filename returns the last element of the object path.
func (u URI) Filename() string {
	return path.Base(u.Object)
}

// StorageService provides an interface for cloud storage operations on
// bank-export CSV files.
type StorageService interface {
	// UploadCSV stores the contents of r under bucket/object and returns its gs:// URI.
	UploadCSV(ctx context.Context, bucketName, objectName string, r io.Reader) (string, error)

	// FetchFromGCS downloads file bytes from the given storage URI.
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)

	// ExtractFilenameFromGCSURI extracts the filename from a storage URI.
	ExtractFilenameFromGCSURI(uri string) string
}
