package gcsuploader

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// maxObjectSize bounds how much of an export is read into memory.
const maxObjectSize = 32 << 20

// DownloadFileWithClient reads bucket/object into memory.
func DownloadFileWithClient(ctx context.Context, client *storage.Client, bucketName, objectName string) ([]byte, error) {
	r, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetchFromGCS: reading object %s/%s: %w", bucketName, objectName, err)
	}
	defer r.Close()

	if r.Attrs.Size > maxObjectSize {
		return nil, fmt.Errorf("fetchFromGCS: object %s/%s is %d bytes, limit %d", bucketName, objectName, r.Attrs.Size, maxObjectSize)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("fetchFromGCS: reading bytes: %w", err)
	}

	return data, nil
}
