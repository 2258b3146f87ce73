// Package storage provides request-scoped scratch files and optional
// publication of processed audio. It defines the Storage port and
// implementations for local disk and S3.
package storage

import (
	"context"
	"io"
)

// Storage defines the interface for per-request scratch files and processed
// output publication. Scratch files live only for the duration of one upload
// request and are removed on every exit path.
type Storage interface {
	// SaveTemp saves data to a scratch file and returns the file path.
	// The name parameter is used as a hint for the filename.
	SaveTemp(ctx context.Context, name string, data io.Reader) (path string, err error)

	// LoadTemp reads a scratch file and returns a reader.
	// The caller is responsible for closing the returned ReadCloser.
	LoadTemp(ctx context.Context, path string) (io.ReadCloser, error)

	// CleanupTemp removes the specified scratch files.
	// It continues cleanup even if some files fail to delete.
	CleanupTemp(ctx context.Context, paths []string) error

	// Publish stores processed audio under the given key and returns a URL
	// clients can fetch it from. Returns ErrPublishNotConfigured when no
	// publication backend is configured.
	Publish(ctx context.Context, key string, data io.Reader) (url string, err error)
}
