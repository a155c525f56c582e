// Package discovery enumerates files and folders under a set of root
// paths, exactly once each and in a deterministic order.
//
// For every retained root directory the immediate children are listed
// directories first, each group sorted by name; when recursive, each child
// directory is then expanded in that same order. Regular-file roots are
// recorded as-is. Symbolic links are recorded but never followed.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/bamsammich/sieve/internal/event"
	"github.com/bamsammich/sieve/internal/filter"
	"github.com/bamsammich/sieve/internal/stats"
	"github.com/bamsammich/sieve/internal/transport"
)

// Options configures an Engine.
type Options struct {
	FS     transport.FS       // nil = local filesystem
	Filter *filter.Chain      // applied to discovered children, never to roots
	Events chan<- event.Event // optional; sends never block

	// GitIgnore prunes children matched by a .gitignore file at the top
	// of their root directory.
	GitIgnore bool
}

// Engine runs discoveries and remembers the totals of the most recent one
// to complete. Discover is safe for concurrent use: every call owns its
// result and counters until it publishes them.
type Engine struct {
	fs        transport.FS
	filter    *filter.Chain
	events    chan<- event.Event
	last      atomic.Pointer[stats.Snapshot]
	gitIgnore bool
}

// New creates an Engine.
func New(opts Options) *Engine {
	fsys := opts.FS
	if fsys == nil {
		fsys = transport.NewLocalFS()
	}
	return &Engine{fs: fsys, filter: opts.Filter, events: opts.Events, gitIgnore: opts.GitIgnore}
}

// FileCount returns the number of regular files found by the most recently
// completed Discover call, or 0 if none has completed or the last one failed.
func (e *Engine) FileCount() int64 { return e.Stats().Files }

// ByteCount returns the summed size of the files counted by FileCount.
func (e *Engine) ByteCount() int64 { return e.Stats().Bytes }

// Stats returns all counters of the most recently completed Discover call.
func (e *Engine) Stats() stats.Snapshot {
	if s := e.last.Load(); s != nil {
		return *s
	}
	return stats.Snapshot{}
}

// Discover enumerates paths. The returned Result is owned by the caller.
//
// It fails with ErrInvalidArgument when paths is empty or none of them
// exists, and with an *IOError (matching ErrIO) when any attribute read,
// directory listing or identity check fails. No partial result is returned.
func (e *Engine) Discover(ctx context.Context, paths []string, recursive bool) (*Result, error) {
	collector := stats.NewCollector()
	event.Emit(e.events, event.Event{Type: event.DiscoveryStarted, Size: int64(len(paths))})

	res, err := e.discover(ctx, paths, recursive, collector)
	collector.Finish()
	if err != nil {
		e.last.Store(&stats.Snapshot{})
		event.Emit(e.events, event.Event{Type: event.DiscoveryFailed, Error: err})
		return nil, err
	}

	snap := collector.Snapshot()
	e.last.Store(&snap)
	event.Emit(e.events, event.Event{
		Type:      event.DiscoveryComplete,
		Total:     snap.Files,
		TotalSize: snap.Bytes,
	})
	slog.Debug("discovery complete",
		"entries", res.Len(),
		"files", snap.Files,
		"bytes", snap.Bytes,
		"elapsed", snap.Elapsed,
	)
	return res, nil
}

func (e *Engine) discover(
	ctx context.Context,
	paths []string,
	recursive bool,
	collector *stats.Collector,
) (*Result, error) {
	roots, collapsed, err := PrepareRoots(e.fs, paths, recursive)
	if err != nil {
		return nil, err
	}
	for _, p := range collapsed {
		collector.AddCollapsed(1)
		event.Emit(e.events, event.Event{Type: event.RootCollapsed, Path: p})
	}

	w := &walker{
		ctx:       ctx,
		fs:        e.fs,
		filter:    e.filter,
		events:    e.events,
		stats:     collector,
		result:    NewResult(),
		recursive: recursive,
	}
	if e.gitIgnore {
		w.ignores = make(map[string]gitignore.IgnoreMatcher)
	}

	for _, root := range roots {
		if !root.Entry.IsDir {
			w.add(Path{Name: root.Path}, root.Entry, "")
			continue
		}
		if w.ignores != nil {
			m, err := loadIgnore(e.fs, root.Path)
			if err != nil {
				return nil, err
			}
			w.ignores[root.Path] = m
		}
		if err := w.walk(root.Path, root.Path, 1); err != nil {
			return nil, err
		}
	}
	return w.result, nil
}

// walker holds the state of one Discover call.
type walker struct {
	ctx       context.Context
	fs        transport.FS
	filter    *filter.Chain
	events    chan<- event.Event
	stats     *stats.Collector
	result    *Result
	ignores   map[string]gitignore.IgnoreMatcher // by root; nil when disabled
	recursive bool
}

// walk lists dir, records its children and, when recursive, descends into
// each child directory in order. depth is 1 for a caller-supplied root;
// only depth-1 children are tagged with root.
func (w *walker) walk(dir, root string, depth int) error {
	if err := w.ctx.Err(); err != nil {
		return fmt.Errorf("discovery interrupted at %s: %w", dir, err)
	}

	names, err := w.fs.ReadDir(dir)
	if err != nil {
		return ioError("readdir", dir, err)
	}

	children := make([]Node, 0, len(names))
	for _, name := range names {
		entry, err := w.fs.Lstat(name)
		if err != nil {
			return ioError("lstat", name, err)
		}
		if !w.keep(root, name, entry) {
			continue
		}
		children = append(children, Node{Path: name, Entry: entry})
	}
	SortNodes(children)

	tag := ""
	if depth == 1 {
		tag = root
	}
	for _, child := range children {
		w.add(Path{Name: child.Path, Root: tag}, child.Entry, root)
	}
	event.Emit(w.events, event.Event{
		Type: event.DirListed,
		Path: dir,
		Root: root,
		Size: int64(len(children)),
	})

	if !w.recursive {
		return nil
	}
	for _, child := range children {
		if !child.Entry.IsDir {
			continue
		}
		if err := w.walk(child.Path, root, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) add(p Path, entry transport.FileEntry, root string) {
	if !w.result.Put(p, attributesOf(entry)) {
		return
	}
	var size int64
	switch {
	case entry.IsRegular:
		size = entry.Size
		w.stats.AddFiles(1)
		w.stats.AddBytes(size)
	case entry.IsDir:
		w.stats.AddDirs(1)
	}
	event.Emit(w.events, event.Event{
		Type: event.EntryFound,
		Path: p.Name,
		Root: root,
		Size: size,
	})
}

func (w *walker) keep(root, name string, entry transport.FileEntry) bool {
	ignored := false
	if m := w.ignores[root]; m != nil {
		ignored = m.Match(name, entry.IsDir)
	}
	if !ignored {
		if w.filter.Empty() {
			return true
		}
		rel, err := filepath.Rel(root, name)
		if err != nil {
			rel = filepath.Base(name)
		}
		if w.filter.Match(rel, entry.IsDir, entry.Size) {
			return true
		}
	}
	w.stats.AddFiltered(1)
	event.Emit(w.events, event.Event{Type: event.EntryFiltered, Path: name, Root: root})
	return false
}
