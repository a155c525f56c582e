package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks discovery statistics using lock-free atomic counters.
// A Collector belongs to one discovery pass; Reset starts a new one.
type Collector struct {
	files     atomic.Int64
	bytes     atomic.Int64
	dirs      atomic.Int64
	collapsed atomic.Int64
	filtered  atomic.Int64
	started   atomic.Int64 // unix nanos
	finished  atomic.Int64 // unix nanos, 0 while running
}

// NewCollector creates a Collector with its start time set to now.
func NewCollector() *Collector {
	c := &Collector{}
	c.started.Store(time.Now().UnixNano())
	return c
}

// Reset zeroes every counter and restarts the clock.
func (c *Collector) Reset() {
	c.files.Store(0)
	c.bytes.Store(0)
	c.dirs.Store(0)
	c.collapsed.Store(0)
	c.filtered.Store(0)
	c.finished.Store(0)
	c.started.Store(time.Now().UnixNano())
}

func (c *Collector) AddFiles(n int64)     { c.files.Add(n) }
func (c *Collector) AddBytes(n int64)     { c.bytes.Add(n) }
func (c *Collector) AddDirs(n int64)      { c.dirs.Add(n) }
func (c *Collector) AddCollapsed(n int64) { c.collapsed.Add(n) }
func (c *Collector) AddFiltered(n int64)  { c.filtered.Add(n) }

// Finish stops the clock. Elapsed no longer advances afterwards.
func (c *Collector) Finish() {
	c.finished.Store(time.Now().UnixNano())
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	Files     int64
	Bytes     int64
	Dirs      int64
	Collapsed int64
	Filtered  int64
	Elapsed   time.Duration
}

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Files:     c.files.Load(),
		Bytes:     c.bytes.Load(),
		Dirs:      c.dirs.Load(),
		Collapsed: c.collapsed.Load(),
		Filtered:  c.filtered.Load(),
		Elapsed:   c.Elapsed(),
	}
}

// Elapsed returns time since the collector started, up to Finish.
func (c *Collector) Elapsed() time.Duration {
	end := c.finished.Load()
	if end == 0 {
		end = time.Now().UnixNano()
	}
	return time.Duration(end - c.started.Load())
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"files=%d bytes=%d dirs=%d collapsed=%d filtered=%d",
		s.Files, s.Bytes, s.Dirs, s.Collapsed, s.Filtered,
	)
}
