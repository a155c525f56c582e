package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bamsammich/sieve/internal/event"
)

// WatchConfig configures Watch.
type WatchConfig struct {
	Progress io.Writer     // periodic progress lines; nil disables
	Interval time.Duration // default 5s
	Width    int           // when > 0, append the last listed directory, cut to fit
	Log      bool          // write every event as a "sieve.event" record
}

// Watch consumes discovery events until the channel closes. Events are
// logged at debug level when cfg.Log is set, and a running count of found
// entries is written to cfg.Progress every cfg.Interval.
func Watch(events <-chan event.Event, cfg WatchConfig) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var entries, bytes int64
	var lastDir string
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case event.EntryFound:
				entries++
				bytes += ev.Size
			case event.DirListed:
				lastDir = ev.Path
			}
			if cfg.Log {
				logEvent(ev)
			}
		case <-ticker.C:
			if cfg.Progress != nil && entries > 0 {
				line := fmt.Sprintf("progress: %s entries %s", FormatCount(entries), FormatBytes(bytes))
				fmt.Fprintln(cfg.Progress, withDir(line, lastDir, cfg.Width))
			}
		}
	}
}

// withDir appends dir to line, eliding the front of dir so the result
// fits in width columns.
func withDir(line, dir string, width int) string {
	if width <= 0 || dir == "" {
		return line
	}
	room := width - len(line) - 2
	if room < 8 {
		return line
	}
	if len(dir) > room {
		dir = "..." + dir[len(dir)-room+3:]
	}
	return line + "  " + dir
}

func logEvent(ev event.Event) {
	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
	}
	if ev.Path != "" {
		attrs = append(attrs, slog.String("path", ev.Path))
	}
	if ev.Root != "" {
		attrs = append(attrs, slog.String("root", ev.Root))
	}
	if ev.Size != 0 {
		attrs = append(attrs, slog.Int64("size", ev.Size))
	}
	if ev.Type == event.DiscoveryComplete {
		attrs = append(attrs, slog.Int64("files", ev.Total), slog.Int64("bytes", ev.TotalSize))
	}
	if ev.Error != nil {
		attrs = append(attrs, slog.String("error", ev.Error.Error()))
	}
	slog.LogAttrs(context.Background(), slog.LevelDebug, "sieve.event", attrs...)
}
