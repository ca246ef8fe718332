// Package storage implements the portfolio's persistent store: a
// root-confined file-system provider and the card/settings/upload store
// built on top of it.
package storage

import (
	"io"
	"os"
)

// Provider is the interface for root-relative file operations.
type Provider interface {
	// Root returns the absolute directory all paths are resolved against.
	Root() string
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// CreateExclusive writes r to a new file at path and fails with
	// fs.ErrExist if the file is already there.
	CreateExclusive(path string, r io.Reader) (int64, error)
	// Open opens the file at path for reading.
	Open(path string) (*os.File, error)
}
