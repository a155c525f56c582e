package ui

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"github.com/bamsammich/sieve/internal/discovery"
	"github.com/bamsammich/sieve/internal/stats"
)

// flatRenderer prints one path per line in discovery order. Directories
// get a trailing separator so the output can be fed back as filter rules.
type flatRenderer struct {
	w     io.Writer
	sizes bool
}

func (f *flatRenderer) Render(res *discovery.Result, _ stats.Snapshot) error {
	bw := bufio.NewWriter(f.w)
	for p, a := range res.All() {
		name := p.Name
		if a.IsDir {
			name += string(filepath.Separator)
		}
		if f.sizes && a.IsRegular {
			fmt.Fprintf(bw, "%s\t%s\n", name, FormatBytes(a.Size))
			continue
		}
		fmt.Fprintln(bw, name)
	}
	return bw.Flush()
}
