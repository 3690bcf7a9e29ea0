package storage

import (
	"errors"
	"io"
)

// ErrNotFound is returned by Get for a key that was never stored.
var ErrNotFound = errors.New("blob not found")

// BlobStore keeps rendered paper files keyed by "papers/{id}.{ext}".
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error              // missing keys are not an error
	SignedURL(key string) (string, error) // fs returns "file://..." for dev
}

// PaperKey is the cache key of a rendered paper.
func PaperKey(id int64, ext string) string {
	return "papers/" + itoa(id) + "." + ext
}
