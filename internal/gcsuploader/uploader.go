package gcsuploader

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/dvloznov/spendwise/internal/gcs"
	"github.com/google/uuid"
)

const (
	csvContentType = "text/csv"
	uploadTimeout  = 2 * time.Minute
)

// ObjectName builds the object path for an uploaded export:
// imports/YYYY/MM/<id>-<filename>.
func ObjectName(filename string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "export.csv"
	}
	return fmt.Sprintf("imports/%04d/%02d/%s-%s", now.Year(), int(now.Month()), uuid.NewString(), base)
}

// UploadCSVWithClient copies r into bucket/object and returns the gs:// URI.
func UploadCSVWithClient(ctx context.Context, client *storage.Client, bucketName, objectName string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	w.ContentType = csvContentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy CSV to GCS writer: %w", err)
	}

	// Close to finalize the upload
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	return gcs.URI{Bucket: bucketName, Object: objectName}.String(), nil
}

// FetchFromGCS downloads the file bytes from the given GCS URI.
func FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetchFromGCS: creating storage client: %w", err)
	}
	defer storageClient.Close()

	return FetchFromGCSWithClient(ctx, storageClient, gcsURI)
}

// FetchFromGCSWithClient downloads the object at gcsURI using client.
func FetchFromGCSWithClient(ctx context.Context, client *storage.Client, gcsURI string) ([]byte, error) {
	// gcsURI example: gs://my-bucket/imports/2024/03/export.csv
	loc, err := gcs.ParseURI(gcsURI)
	if err != nil {
		return nil, err
	}
	return DownloadFileWithClient(ctx, client, loc.Bucket, loc.Object)
}

// ExtractFilenameFromGCSURI extracts the filename from a GCS URI.
// e.g., "gs://bucket/folder/file.csv" → "file.csv"
func ExtractFilenameFromGCSURI(uri string) string {
	loc, err := gcs.ParseURI(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "gs://")
	}
	return loc.Filename()
}
