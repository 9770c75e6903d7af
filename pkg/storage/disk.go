// Package storage abstracts the object store that holds product images.
//
// Two drivers are available:
//   - "local"  — local filesystem (default, development)
//   - "s3"     — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Product documents keep {url, key} pairs per image; deleting a product
// removes its stored objects best-effort through this package.
//
//	storage.Connect()
//	storage.Put("products/p1/front.jpg", data)
//	url := storage.URL("products/p1/front.jpg")
package storage

import "io"

// Disk is the object-store driver interface.
type Disk interface {
	// Put writes content to key, creating parents as needed.
	Put(key string, content []byte) error

	// PutStream writes from r to key.
	PutStream(key string, r io.Reader) error

	// Get returns the full content of the object at key.
	Get(key string) ([]byte, error)

	// Exists reports whether an object exists at key.
	Exists(key string) bool

	// Delete removes an object. Returns nil if the object did not exist.
	Delete(key string) error

	// URL returns the public URL for key.
	URL(key string) string
}
