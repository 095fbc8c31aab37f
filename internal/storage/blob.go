package storage

import "io"

// BlobStore keeps raw uploaded response sheets so a score can always be
// re-derived from its source.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
