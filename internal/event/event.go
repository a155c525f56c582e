package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	DiscoveryStarted Type = iota + 1
	RootCollapsed
	DirListed
	EntryFound
	EntryFiltered
	DiscoveryComplete
	DiscoveryFailed
)

var typeNames = [...]string{
	DiscoveryStarted:  "DiscoveryStarted",
	RootCollapsed:     "RootCollapsed",
	DirListed:         "DirListed",
	EntryFound:        "EntryFound",
	EntryFiltered:     "EntryFiltered",
	DiscoveryComplete: "DiscoveryComplete",
	DiscoveryFailed:   "DiscoveryFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the discovery engine.
type Event struct {
	Timestamp time.Time
	Error     error
	Path      string
	Root      string // originating root, when known
	Type      Type
	Size      int64 // file size, or child count for DirListed
	Total     int64 // files discovered (DiscoveryComplete)
	TotalSize int64 // bytes discovered (DiscoveryComplete)
}

// Emit sends e on ch without blocking, stamping the time. A nil channel
// or a full buffer drops the event.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
