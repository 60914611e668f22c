package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizerMouse(t *testing.T) {
	n := Normalizer{Rect: Rect{Left: 10, Top: 20, Width: 600, Height: 300}}
	p, ok := n.Pointer(mouse(MouseMove, 15, 30))
	assert.True(t, ok)
	assert.Equal(t, Pointer{X: 5, Y: 10}, p)
}

func TestNormalizerReversed(t *testing.T) {
	n := Normalizer{Rect: Rect{Left: 10, Top: 20, Width: 600, Height: 300}, Reversed: true}
	p, ok := n.Pointer(mouse(MouseDown, 15, 30))
	assert.True(t, ok)
	assert.Equal(t, Pointer{X: 595, Y: 290}, p)
}

func TestNormalizerTouch(t *testing.T) {
	n := Normalizer{Rect: Rect{Left: 100, Top: 100, Width: 200, Height: 200}}

	tests := []struct {
		name    string
		touches []Touch
		want    Pointer
		ok      bool
	}{
		{name: "empty", touches: nil},
		{name: "none on surface", touches: []Touch{{ClientX: 150, ClientY: 150}}},
		{
			name: "first on surface wins",
			touches: []Touch{
				{ClientX: 1, ClientY: 1},
				{ClientX: 110, ClientY: 120, OnSurface: true},
				{ClientX: 190, ClientY: 190, OnSurface: true},
			},
			want: Pointer{X: 10, Y: 20},
			ok:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := n.Pointer(InputEvent{Kind: TouchMove, ClientX: 999, ClientY: 999, Touches: tt.touches})
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestInputKind(t *testing.T) {
	assert.False(t, MouseLeave.IsTouch())
	assert.True(t, TouchStart.IsTouch())
	assert.Equal(t, "touchend", TouchEnd.String())
}
