package ui

import (
	"fmt"

	"github.com/bamsammich/sieve/internal/stats"
)

// Summary builds the final summary line from a snapshot.
// Format: done ✓  files 48,917  size 2.1 GiB  dirs 1,204  time 3s
func Summary(snap stats.Snapshot) string {
	base := fmt.Sprintf("done ✓  files %s  size %s  dirs %s",
		FormatCount(snap.Files),
		FormatBytes(snap.Bytes),
		FormatCount(snap.Dirs),
	)
	if snap.Collapsed > 0 {
		base += "  collapsed " + FormatCount(snap.Collapsed)
	}
	if snap.Filtered > 0 {
		base += "  filtered " + FormatCount(snap.Filtered)
	}
	return base + "  time " + FormatDuration(snap.Elapsed)
}
