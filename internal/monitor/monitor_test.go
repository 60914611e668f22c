package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boardnet "SketchBoard/internal/net"
	"SketchBoard/internal/state"
)

func feed(m Model, acts ...boardnet.Activity) Model {
	for _, a := range acts {
		next, _ := m.Update(ActivityMsg(a))
		m = next.(Model)
	}
	return m
}

func TestModelCountsActivity(t *testing.T) {
	now := time.Now()
	m := feed(New(":8080"),
		boardnet.Activity{Kind: boardnet.PeerJoined, Peer: "aaaaaaaa-1", Peers: 1, At: now},
		boardnet.Activity{Kind: boardnet.PeerJoined, Peer: "bbbbbbbb-2", Peers: 2, At: now},
		boardnet.Activity{Kind: boardnet.EventRelayed, Peer: "aaaaaaaa-1", Event: state.EventUpdate, Bytes: 100, Recipients: 1, Peers: 2, At: now},
		boardnet.Activity{Kind: boardnet.EventRelayed, Peer: "bbbbbbbb-2", Event: state.EventClear, Bytes: 20, Recipients: 1, Peers: 2, At: now},
		boardnet.Activity{Kind: boardnet.EventDropped, Peer: "bbbbbbbb-2", Peers: 2, At: now},
		boardnet.Activity{Kind: boardnet.PeerLeft, Peer: "aaaaaaaa-1", Peers: 1, At: now},
	)

	assert.Equal(t, 1, m.Peers())
	assert.Equal(t, 1, m.Count(state.EventUpdate))
	assert.Equal(t, 1, m.Count(state.EventClear))
	assert.Zero(t, m.Count(state.EventErased))
	assert.Equal(t, 120, m.bytes)
	assert.Equal(t, 1, m.dropped)

	view := m.View()
	assert.Contains(t, view, "SketchBoard relay")
	assert.Contains(t, view, "canvas:update")
	assert.Contains(t, view, "aaaaaaaa")
}

func TestModelKeepsRecentTail(t *testing.T) {
	m := New(":8080")
	for i := 0; i < 20; i++ {
		m = feed(m, boardnet.Activity{Kind: boardnet.PeerJoined, Peer: "p", Peers: i, At: time.Now()})
	}
	assert.Len(t, m.recent, recentLines)
}

func TestModelQuits(t *testing.T) {
	_, cmd := New("").Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
