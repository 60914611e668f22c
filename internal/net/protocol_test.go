package net

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchBoard/internal/state"
)

func TestMessageDecode(t *testing.T) {
	data, err := Message{Event: state.EventUpdate, Snapshot: "data:image/png;base64,AAAA", Sender: "a", Seq: 3}.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"canvas:update","snapshot":"data:image/png;base64,AAAA","sender":"a","seq":3}`, string(data))

	m, err := DecodeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, state.Event{Name: state.EventUpdate, Snapshot: "data:image/png;base64,AAAA"}, m.event())

	_, err = DecodeMessage([]byte(`{"event":"canvas:rotate"}`))
	assert.ErrorIs(t, err, ErrUnknownEvent)
	_, err = DecodeMessage([]byte(`{`))
	assert.Error(t, err)
}

func TestClock(t *testing.T) {
	var c Clock
	assert.Equal(t, uint64(1), c.Tick())
	c.Observe(10)
	assert.Equal(t, uint64(10), c.Now())
	c.Observe(4)
	assert.Equal(t, uint64(11), c.Tick())
}

func TestRelayURL(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{in: "sketchboard://10.0.0.2:8080", want: "ws://10.0.0.2:8080/ws"},
		{in: "sketchboard://10.0.0.2:8080/", want: "ws://10.0.0.2:8080/ws"},
		{in: "localhost:8080", want: "ws://localhost:8080/ws"},
		{in: "http://127.0.0.1:1234", want: "ws://127.0.0.1:1234/ws"},
		{in: "https://board.example", want: "wss://board.example/ws"},
		{in: "ws://h:1/custom", want: "ws://h:1/custom"},
		{in: "", wantErr: true},
		{in: "ftp://h:1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := RelayURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShareLink(t *testing.T) {
	assert.Equal(t, "sketchboard://10.0.0.2:8080", ShareLink("10.0.0.2", 8080))
}
