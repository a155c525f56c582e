package ui

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"github.com/bamsammich/sieve/internal/discovery"
	"github.com/bamsammich/sieve/internal/stats"
)

const (
	treeBranch = "├── "
	treeLast   = "└── "
	treePipe   = "│   "
	treeSpace  = "    "
)

// treeRenderer groups entries under the root they were discovered from
// and draws each group as an indented tree. File roots are listed after
// the groups.
type treeRenderer struct {
	w     io.Writer
	theme Theme
	sizes bool
}

func (t *treeRenderer) Render(res *discovery.Result, _ stats.Snapshot) error {
	var (
		roots    []string
		loose    []discovery.Entry
		seen     = make(map[string]bool)
		children = make(map[string][]discovery.Entry)
	)
	for _, e := range res.Entries() {
		if e.Path.Tagged() && !seen[e.Path.Root] {
			seen[e.Path.Root] = true
			roots = append(roots, e.Path.Root)
		}
		if !e.Path.Tagged() && res.RootOf(e.Path.Name) == "" {
			loose = append(loose, e)
			continue
		}
		parent := filepath.Dir(e.Path.Name)
		children[parent] = append(children[parent], e)
	}

	bw := bufio.NewWriter(t.w)
	for _, root := range roots {
		fmt.Fprintln(bw, t.theme.Root.Render(root))
		t.branch(bw, children, root, "")
	}
	for _, e := range loose {
		fmt.Fprintln(bw, t.label(e, e.Path.Name))
	}
	return bw.Flush()
}

func (t *treeRenderer) branch(w io.Writer, children map[string][]discovery.Entry, dir, indent string) {
	kids := children[dir]
	for i, e := range kids {
		connector, next := treeBranch, treePipe
		if i == len(kids)-1 {
			connector, next = treeLast, treeSpace
		}
		fmt.Fprintln(w, t.theme.Muted.Render(indent+connector)+t.label(e, filepath.Base(e.Path.Name)))
		if e.Attrs.IsDir {
			t.branch(w, children, e.Path.Name, indent+next)
		}
	}
}

func (t *treeRenderer) label(e discovery.Entry, name string) string {
	switch {
	case e.Attrs.IsDir:
		return t.theme.Dir.Render(name + string(filepath.Separator))
	case e.Attrs.IsSymlink:
		return t.theme.Link.Render(name + "@")
	case t.sizes && e.Attrs.IsRegular:
		return t.theme.File.Render(name) + " " + t.theme.Muted.Render("("+FormatBytes(e.Attrs.Size)+")")
	default:
		return t.theme.File.Render(name)
	}
}
