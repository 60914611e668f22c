package state

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBrushBoard(t *testing.T) (*Context, *fakeRelay, *Brush) {
	t.Helper()
	relay := newFakeRelay()
	ctx := NewContext(relay, Options{Width: 100, Height: 50})
	t.Cleanup(ctx.Close)
	brush := NewBrush(ctx, BrushOptions{Color: color.Black, LineWidth: 4})
	ctx.Bind(brush)
	return ctx, relay, brush
}

func TestBrushStrokePublishesOnceAfterUp(t *testing.T) {
	ctx, relay, _ := newBrushBoard(t)

	ctx.Dispatch(mouse(MouseDown, 10, 10))
	ctx.Dispatch(mouse(MouseMove, 20, 10))
	ctx.Dispatch(mouse(MouseMove, 30, 10))

	assert.Empty(t, relay.events())
	assert.NotZero(t, alphaAt(ctx.Transient(), 15, 10), "segment drawn on transient surface")
	assert.Zero(t, alphaAt(ctx.Committed(), 15, 10), "nothing committed before up")

	ctx.Dispatch(mouse(MouseUp, 30, 10))

	events := relay.events()
	require.Len(t, events, 1)
	assert.Equal(t, EventUpdate, events[0].Name)
	require.False(t, events[0].Snapshot.Empty())

	img, err := events[0].Snapshot.Decode()
	require.NoError(t, err)
	_, _, _, a := img.At(15, 10).RGBA()
	assert.NotZero(t, a)

	assert.NotZero(t, alphaAt(ctx.Committed(), 15, 10))
	assert.True(t, (&Surface{img: ctx.Transient()}).IsBlank(), "transient cleared after commit")
}

func TestBrushIdleIsNoop(t *testing.T) {
	ctx, relay, brush := newBrushBoard(t)

	ctx.Dispatch(mouse(MouseMove, 20, 10))
	ctx.Dispatch(mouse(MouseMove, 30, 10))
	ctx.Dispatch(mouse(MouseMove, 40, 10))
	ctx.Dispatch(mouse(MouseUp, 40, 10))
	ctx.Dispatch(mouse(MouseLeave, 40, 10))

	assert.Empty(t, relay.events())
	assert.False(t, brush.Stroking())
	assert.True(t, (&Surface{img: ctx.Composite()}).IsBlank())
}

func TestBrushSecondDownIgnored(t *testing.T) {
	ctx, _, brush := newBrushBoard(t)

	ctx.Dispatch(mouse(MouseDown, 10, 10))
	ctx.Dispatch(mouse(MouseMove, 20, 10))
	require.Equal(t, 2, brush.PathLen())

	ctx.Dispatch(mouse(MouseDown, 50, 40))
	assert.Equal(t, 2, brush.PathLen(), "path must not be reset")
	assert.True(t, brush.Stroking())
}

func TestBrushShortStrokeStillCommits(t *testing.T) {
	ctx, relay, _ := newBrushBoard(t)

	ctx.Dispatch(mouse(MouseDown, 10, 10))
	ctx.Dispatch(mouse(MouseMove, 20, 10))
	ctx.Dispatch(mouse(MouseUp, 20, 10))

	events := relay.events()
	require.Len(t, events, 1)
	assert.Equal(t, EventUpdate, events[0].Name)
	assert.True(t, (&Surface{img: ctx.Committed()}).IsBlank())
}

func TestBrushLeaveEndsStroke(t *testing.T) {
	ctx, relay, brush := newBrushBoard(t)

	ctx.Dispatch(mouse(MouseDown, 10, 10))
	ctx.Dispatch(mouse(MouseMove, 20, 10))
	ctx.Dispatch(mouse(MouseMove, 30, 10))
	ctx.Dispatch(mouse(MouseLeave, 200, 10))

	assert.False(t, brush.Stroking())
	require.Len(t, relay.events(), 1)
}

func TestBrushTouchGesture(t *testing.T) {
	ctx, relay, brush := newBrushBoard(t)
	on := func(x, y float64) []Touch { return []Touch{{ClientX: x, ClientY: y, OnSurface: true}} }

	ctx.Dispatch(InputEvent{Kind: TouchStart, Touches: []Touch{{ClientX: 10, ClientY: 10}}})
	assert.False(t, brush.Stroking(), "touch off the surface starts nothing")

	ctx.Dispatch(InputEvent{Kind: TouchStart, Touches: on(10, 10)})
	ctx.Dispatch(InputEvent{Kind: TouchMove, Touches: on(20, 20)})
	ctx.Dispatch(InputEvent{Kind: TouchMove, Touches: on(30, 30)})
	ctx.Dispatch(InputEvent{Kind: TouchEnd, Touches: on(30, 30)})
	assert.True(t, brush.Stroking(), "a remaining touch keeps the gesture alive")
	assert.Empty(t, relay.events())

	ctx.Dispatch(InputEvent{Kind: TouchEnd})
	assert.False(t, brush.Stroking())
	assert.Len(t, relay.events(), 1)
}

func TestBrushDefaults(t *testing.T) {
	b := NewBrush(nil, BrushOptions{})
	s := b.Style()
	assert.Equal(t, DefaultBrushColor, s.Color)
	assert.Equal(t, 2.0, s.LineWidth)
	assert.Equal(t, JoinRound, s.LineJoin)
	assert.Equal(t, CapRound, s.LineCap)
}
