package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		want string
		typ  Type
	}{
		{want: "DiscoveryStarted", typ: DiscoveryStarted},
		{want: "RootCollapsed", typ: RootCollapsed},
		{want: "DirListed", typ: DirListed},
		{want: "EntryFound", typ: EntryFound},
		{want: "EntryFiltered", typ: EntryFiltered},
		{want: "DiscoveryComplete", typ: DiscoveryComplete},
		{want: "DiscoveryFailed", typ: DiscoveryFailed},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", Type(999).String())
	assert.Equal(t, "Unknown", Type(0).String())
	assert.Equal(t, "Unknown", Type(-1).String())
}

func TestEmitStampsTime(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ch, Event{Type: EntryFound, Path: "a/b.txt", Size: 3})

	ev := <-ch
	assert.Equal(t, EntryFound, ev.Type)
	assert.Equal(t, "a/b.txt", ev.Path)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestEmitNeverBlocks(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ch, Event{Type: DirListed})
	Emit(ch, Event{Type: DirListed}) // dropped
	require.Len(t, ch, 1)

	Emit(nil, Event{Type: DirListed})
}
