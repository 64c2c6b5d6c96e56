package filestorage

import (
	"context"
	"io"
)

// Object is a file ready to be stored
type Object struct {
	Key         string // Storage key, e.g. <userId>/avatar/<timestamp>-<name>
	Body        io.Reader
	Size        int64
	ContentType string
}

// FileStorage stores public user uploads and returns their URL immediately
type FileStorage interface {
	// Save stores the object and returns its public URL
	Save(ctx context.Context, obj Object) (string, error)

	// Delete removes an object by key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the URL an object is served from
	PublicURL(key string) string
}
