package discovery

import (
	"iter"
	"path/filepath"
)

// Entry is one discovered path with its attributes.
type Entry struct {
	Path  Path
	Attrs Attributes
}

// Result is an insertion-ordered mapping from discovered path to
// attributes. A name is stored at most once; the first insertion wins.
type Result struct {
	index   map[string]int
	entries []Entry
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{index: make(map[string]int)}
}

// Put appends p unless an entry with the same name exists. It reports
// whether p was added.
func (r *Result) Put(p Path, a Attributes) bool {
	if _, ok := r.index[p.Name]; ok {
		return false
	}
	r.index[p.Name] = len(r.entries)
	r.entries = append(r.entries, Entry{Path: p, Attrs: a})
	return true
}

// Len returns the number of entries.
func (r *Result) Len() int { return len(r.entries) }

// Get looks up an entry by path name.
func (r *Result) Get(name string) (Entry, bool) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// At returns the i-th entry in insertion order.
func (r *Result) At(i int) Entry { return r.entries[i] }

// Entries returns a copy of the entries in insertion order.
func (r *Result) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// All iterates entries in insertion order.
func (r *Result) All() iter.Seq2[Path, Attributes] {
	return func(yield func(Path, Attributes) bool) {
		for _, e := range r.entries {
			if !yield(e.Path, e.Attrs) {
				return
			}
		}
	}
}

// Names returns the path names in insertion order.
func (r *Result) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Path.Name
	}
	return names
}

// Totals counts regular files and their bytes.
func (r *Result) Totals() (files, bytes int64) {
	for _, e := range r.entries {
		if e.Attrs.IsRegular {
			files++
			bytes += e.Attrs.Size
		}
	}
	return files, bytes
}

// RootOf returns the caller-supplied root that name was discovered under,
// found by walking up to the nearest root-tagged ancestor. It returns ""
// for names not in r and for file roots.
func (r *Result) RootOf(name string) string {
	for {
		e, ok := r.Get(name)
		if !ok {
			return ""
		}
		if e.Path.Tagged() {
			return e.Path.Root
		}
		parent := filepath.Dir(name)
		if parent == name {
			return ""
		}
		name = parent
	}
}
