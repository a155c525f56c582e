package transport

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// Compile-time interface check.
var _ FS = (*LocalFS)(nil)

// LocalFS reads the local filesystem.
type LocalFS struct{}

// NewLocalFS returns a LocalFS.
func NewLocalFS() *LocalFS {
	return &LocalFS{}
}

func (*LocalFS) Lstat(path string) (FileEntry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return FileEntry{}, err
	}
	return fileInfoToEntry(info, path), nil
}

func (*LocalFS) ReadDir(dir string) ([]string, error) {
	d, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	names, err := d.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", dir, err)
	}

	children := make([]string, len(names))
	for i, name := range names {
		children[i] = filepath.Join(dir, name)
	}
	return children, nil
}

// SameFile follows links on both sides: two spellings of one directory
// (one through a symlinked parent, say) are the same object.
func (*LocalFS) SameFile(a, b string) (bool, error) {
	ia, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(ia, ib), nil
}

func (*LocalFS) Canonical(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

func (*LocalFS) OpenRead(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (*LocalFS) Close() error { return nil }

// fileInfoToEntry converts os.FileInfo to a FileEntry.
func fileInfoToEntry(info os.FileInfo, path string) FileEntry {
	entry := FileEntry{
		Path:      path,
		Size:      info.Size(),
		Mode:      info.Mode(),
		ModTime:   info.ModTime(),
		IsDir:     info.IsDir(),
		IsRegular: info.Mode().IsRegular(),
	}

	if info.Mode()&os.ModeSymlink != 0 {
		entry.IsSymlink = true
		if target, err := os.Readlink(path); err == nil {
			entry.LinkTarget = target
		}
	}

	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		entry.UID = stat.Uid
		entry.GID = stat.Gid
		fillStatFields(stat, &entry)
	}

	return entry
}
