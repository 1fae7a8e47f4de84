// Package storage defines the read-only file-system access to the documents directory.
package storage

import "io/fs"

// Provider is the interface for document directory access.
type Provider interface {
	// List returns the entries of the documents directory in enumeration order.
	List() ([]fs.DirEntry, error)
	// Read returns the raw bytes of the file at name (relative to the root).
	Read(name string) ([]byte, error)
	// Stat returns file info for name, following symlinks.
	Stat(name string) (fs.FileInfo, error)
}
