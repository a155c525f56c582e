// Package census computes discovery totals without building the ordered
// result. Directory roots are walked in parallel with fastwalk, so it is
// the cheap path when only counts are wanted.
package census

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charlievieth/fastwalk"
	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/bamsammich/sieve/internal/discovery"
	"github.com/bamsammich/sieve/internal/filter"
	"github.com/bamsammich/sieve/internal/stats"
	"github.com/bamsammich/sieve/internal/transport"
)

// Options configures Count.
type Options struct {
	Filter    *filter.Chain
	Workers   int // 0 = fastwalk default
	GitIgnore bool
}

// Count totals the local paths the way discovery.Engine.Discover would:
// same root validation and collapse, same filters, links never followed.
func Count(ctx context.Context, paths []string, recursive bool, opts Options) (stats.Snapshot, error) {
	collector := stats.NewCollector()

	roots, collapsed, err := discovery.PrepareRoots(transport.NewLocalFS(), paths, recursive)
	if err != nil {
		return stats.Snapshot{}, err
	}
	collector.AddCollapsed(int64(len(collapsed)))

	for _, root := range roots {
		if !root.Entry.IsDir {
			if root.Entry.IsRegular {
				collector.AddFiles(1)
				collector.AddBytes(root.Entry.Size)
			}
			continue
		}
		if err := walkRoot(ctx, root.Path, recursive, opts, collector); err != nil {
			return stats.Snapshot{}, err
		}
	}

	collector.Finish()
	return collector.Snapshot(), nil
}

func walkRoot(ctx context.Context, root string, recursive bool, opts Options, c *stats.Collector) error {
	var ignore gitignore.IgnoreMatcher
	if opts.GitIgnore {
		m, err := gitignore.NewGitIgnore(filepath.Join(root, discovery.IgnoreFile), root)
		switch {
		case err == nil:
			ignore = m
		case !errors.Is(err, os.ErrNotExist):
			return &discovery.IOError{Op: "open", Path: filepath.Join(root, discovery.IgnoreFile), Err: err}
		}
	}

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: opts.Workers,
	}

	//nolint:varnamelen // d is standard for DirEntry
	err := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &discovery.IOError{Op: "walk", Path: path, Err: err}
		}
		if path == root {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		isDir := d.IsDir()
		var size int64
		if !isDir {
			info, err := d.Info()
			if err != nil {
				return &discovery.IOError{Op: "lstat", Path: path, Err: err}
			}
			size = info.Size()
		}

		if !keep(root, path, isDir, size, opts.Filter, ignore) {
			c.AddFiltered(1)
			if isDir {
				return fastwalk.SkipDir
			}
			return nil
		}

		switch {
		case isDir:
			c.AddDirs(1)
			if !recursive {
				return fastwalk.SkipDir
			}
		case d.Type().IsRegular():
			c.AddFiles(1)
			c.AddBytes(size)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("census of %s: %w", root, err)
	}
	return nil
}

func keep(root, path string, isDir bool, size int64, chain *filter.Chain, ignore gitignore.IgnoreMatcher) bool {
	if ignore != nil && ignore.Match(path, isDir) {
		return false
	}
	if chain.Empty() {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return true
	}
	return chain.Match(rel, isDir, size)
}
