// Package storage keeps uploaded dataset files in a remote object store.
//
// Every store translates provider failures into *errors.StorageError carrying
// the provider's own HTTP status and error detail when the provider reported
// one, so the error classifier can surface them without guessing.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// Provider labels
const (
	ProviderMinIO      = "MinIO"
	ProviderCloudinary = "Cloudinary"
)

// Object describes a stored file.
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// ObjectStore is the contract dataset handling depends on.
type ObjectStore interface {
	// Provider returns the label failures are reported under.
	Provider() string
	// Put stores size bytes read from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Object, error)
	// Delete removes the object stored under key. Deleting a missing object
	// is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns a download URL valid for at least expiry.
	URL(ctx context.Context, key string, expiry time.Duration) (string, error)
	// Ping checks that the provider is reachable with the configured
	// credentials.
	Ping(ctx context.Context) error
}

// Key builds the object key for a dataset file.
func Key(folder, projectID, datasetID, ext string) string {
	return path.Join(strings.Trim(folder, "/"), "projects", projectID, "datasets", datasetID+ext)
}
