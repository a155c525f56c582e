package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	const goroutines = 100
	const opsPerGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range opsPerGoroutine {
				c.AddFiles(1)
				c.AddBytes(256)
				c.AddDirs(1)
				c.AddCollapsed(1)
				c.AddFiltered(1)
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	expected := int64(goroutines * opsPerGoroutine)
	assert.Equal(t, expected, s.Files)
	assert.Equal(t, expected*256, s.Bytes)
	assert.Equal(t, expected, s.Dirs)
	assert.Equal(t, expected, s.Collapsed)
	assert.Equal(t, expected, s.Filtered)
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector()
	c.AddFiles(3)
	c.AddBytes(60)
	c.AddDirs(1)
	c.Finish()

	c.Reset()
	s := c.Snapshot()
	assert.Zero(t, s.Files)
	assert.Zero(t, s.Bytes)
	assert.Zero(t, s.Dirs)
}

func TestCollectorFinishFreezesElapsed(t *testing.T) {
	c := NewCollector()
	time.Sleep(5 * time.Millisecond)
	c.Finish()

	first := c.Elapsed()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, first, c.Elapsed())
	assert.GreaterOrEqual(t, first, 5*time.Millisecond)
}

func TestSnapshotString(t *testing.T) {
	s := Snapshot{Files: 3, Bytes: 60, Dirs: 2, Collapsed: 1, Filtered: 4}
	assert.Equal(t, "files=3 bytes=60 dirs=2 collapsed=1 filtered=4", s.String())
}
