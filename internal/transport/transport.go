package transport

import (
	"io"
	"os"
	"time"
)

// FileEntry describes a single filesystem entry as seen by Lstat.
type FileEntry struct {
	ModTime    time.Time
	AccTime    time.Time
	Path       string
	LinkTarget string
	Size       int64
	Ino        uint64
	Dev        uint64
	GID        uint32
	UID        uint32
	Nlink      uint32
	Mode       os.FileMode
	IsSymlink  bool
	IsDir      bool
	IsRegular  bool
}

// FS is the read side of a filesystem as needed by discovery: attribute
// reads, directory listings and canonical identity. Implementations never
// follow symbolic links except in SameFile.
type FS interface {
	// Lstat returns metadata for path without following symlinks.
	Lstat(path string) (FileEntry, error)

	// ReadDir returns the paths of the immediate children of dir in no
	// particular order. The directory handle is released before return.
	ReadDir(dir string) ([]string, error)

	// SameFile reports whether a and b name the same underlying object.
	SameFile(a, b string) (bool, error)

	// Canonical returns an absolute spelling of path with every symlink in
	// it resolved, suitable for lexical containment checks.
	Canonical(path string) (string, error)

	// OpenRead opens a file for reading.
	OpenRead(path string) (io.ReadCloser, error)

	// Close releases resources held by the filesystem.
	Close() error
}
