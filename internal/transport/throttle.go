package transport

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// Compile-time interface check.
var _ FS = (*ThrottledFS)(nil)

// ThrottledFS caps the rate of metadata operations issued to an underlying
// FS. Every call except Close costs one token.
type ThrottledFS struct {
	ctx     context.Context
	fs      FS
	limiter *rate.Limiter
}

// NewThrottledFS limits fs to opsPerSec operations per second, with a burst
// of the same size. Waiting is abandoned when ctx is done.
func NewThrottledFS(ctx context.Context, fs FS, opsPerSec int) *ThrottledFS {
	burst := max(opsPerSec, 1)
	return &ThrottledFS{
		ctx:     ctx,
		fs:      fs,
		limiter: rate.NewLimiter(rate.Limit(opsPerSec), burst),
	}
}

func (t *ThrottledFS) Lstat(path string) (FileEntry, error) {
	if err := t.limiter.Wait(t.ctx); err != nil {
		return FileEntry{}, err
	}
	return t.fs.Lstat(path)
}

func (t *ThrottledFS) ReadDir(dir string) ([]string, error) {
	if err := t.limiter.Wait(t.ctx); err != nil {
		return nil, err
	}
	return t.fs.ReadDir(dir)
}

func (t *ThrottledFS) SameFile(a, b string) (bool, error) {
	if err := t.limiter.Wait(t.ctx); err != nil {
		return false, err
	}
	return t.fs.SameFile(a, b)
}

func (t *ThrottledFS) Canonical(path string) (string, error) {
	if err := t.limiter.Wait(t.ctx); err != nil {
		return "", err
	}
	return t.fs.Canonical(path)
}

func (t *ThrottledFS) OpenRead(path string) (io.ReadCloser, error) {
	if err := t.limiter.Wait(t.ctx); err != nil {
		return nil, err
	}
	return t.fs.OpenRead(path)
}

func (t *ThrottledFS) Close() error { return t.fs.Close() }
