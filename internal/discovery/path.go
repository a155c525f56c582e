package discovery

import (
	"os"
	"time"

	"github.com/bamsammich/sieve/internal/transport"
)

// Path identifies a discovered entry. Root is set only on entries listed
// directly under a caller-supplied root directory, so consumers can group
// them under the root they came from. Identity is Name alone.
type Path struct {
	Name string
	Root string
}

// Tagged reports whether p carries its originating root.
func (p Path) Tagged() bool { return p.Root != "" }

// Equal compares by Name only.
func (p Path) Equal(o Path) bool { return p.Name == o.Name }

func (p Path) String() string { return p.Name }

// Attributes is the metadata snapshot taken when an entry was discovered.
// It is never refreshed.
type Attributes struct {
	ModTime   time.Time
	Size      int64
	Mode      os.FileMode
	IsDir     bool
	IsRegular bool
	IsSymlink bool
}

func attributesOf(e transport.FileEntry) Attributes {
	return Attributes{
		ModTime:   e.ModTime,
		Size:      e.Size,
		Mode:      e.Mode,
		IsDir:     e.IsDir,
		IsRegular: e.IsRegular,
		IsSymlink: e.IsSymlink,
	}
}
