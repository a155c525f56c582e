package ui

import (
	"encoding/json"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bamsammich/sieve/internal/discovery"
	"github.com/bamsammich/sieve/internal/stats"
)

// Document is the machine-readable form of a discovery.
type Document struct {
	Entries []DocumentEntry `json:"entries" yaml:"entries"`
	Totals  DocumentTotals  `json:"totals"  yaml:"totals"`
}

// DocumentEntry is one discovered path.
type DocumentEntry struct {
	ModTime time.Time `json:"mtime"          yaml:"mtime"`
	Path    string    `json:"path"           yaml:"path"`
	Root    string    `json:"root,omitempty" yaml:"root,omitempty"`
	Type    string    `json:"type"           yaml:"type"`
	Mode    string    `json:"mode"           yaml:"mode"`
	Size    int64     `json:"size"           yaml:"size"`
}

// DocumentTotals mirrors stats.Snapshot.
type DocumentTotals struct {
	Files     int64 `json:"files"     yaml:"files"`
	Bytes     int64 `json:"bytes"     yaml:"bytes"`
	Dirs      int64 `json:"dirs"      yaml:"dirs"`
	Collapsed int64 `json:"collapsed" yaml:"collapsed"`
	Filtered  int64 `json:"filtered"  yaml:"filtered"`
}

// NewDocument converts a result and its counters.
func NewDocument(res *discovery.Result, snap stats.Snapshot) Document {
	doc := Document{
		Entries: make([]DocumentEntry, 0, res.Len()),
		Totals: DocumentTotals{
			Files:     snap.Files,
			Bytes:     snap.Bytes,
			Dirs:      snap.Dirs,
			Collapsed: snap.Collapsed,
			Filtered:  snap.Filtered,
		},
	}
	for p, a := range res.All() {
		doc.Entries = append(doc.Entries, DocumentEntry{
			Path:    p.Name,
			Root:    p.Root,
			Type:    entryType(a),
			Mode:    a.Mode.String(),
			Size:    a.Size,
			ModTime: a.ModTime.UTC(),
		})
	}
	return doc
}

func entryType(a discovery.Attributes) string {
	switch {
	case a.IsDir:
		return "dir"
	case a.IsRegular:
		return "file"
	case a.IsSymlink:
		return "symlink"
	default:
		return "other"
	}
}

type documentRenderer struct {
	w    io.Writer
	yaml bool
}

func (d *documentRenderer) Render(res *discovery.Result, snap stats.Snapshot) error {
	doc := NewDocument(res, snap)
	if d.yaml {
		enc := yaml.NewEncoder(d.w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(d.w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
