package ui

import (
	"bytes"
	"image/png"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchBoard/internal/state"
)

func mouseAt(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func newTestBoard(t *testing.T) *BoardWidget {
	t.Helper()
	test.NewTempApp(t)
	b := NewBoardWidget(BoardOptions{Width: 120, Height: 60, Brush: state.BrushOptions{LineWidth: 4}})
	t.Cleanup(b.Close)
	return b
}

func committedBlank(b *BoardWidget) bool {
	img := b.Context().Committed()
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

func TestBoardDrawsWithMouse(t *testing.T) {
	b := newTestBoard(t)
	require.IsType(t, &state.Brush{}, b.Context().Active())

	b.MouseDown(mouseAt(10, 10))
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 10)}})
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(30, 10)}})
	b.MouseUp(mouseAt(30, 10))

	assert.False(t, committedBlank(b))
}

func TestBoardSecondaryButtonIgnored(t *testing.T) {
	b := newTestBoard(t)

	ev := mouseAt(10, 10)
	ev.Button = desktop.MouseButtonSecondary
	b.MouseDown(ev)
	b.MouseMoved(mouseAt(20, 10))
	b.MouseMoved(mouseAt(30, 10))
	b.MouseOut()

	assert.True(t, committedBlank(b))
}

func TestBoardEraserCursor(t *testing.T) {
	b := newTestBoard(t)
	b.UseEraser()
	require.IsType(t, &state.Eraser{}, b.Context().Active())

	b.MouseDown(mouseAt(50, 30))
	assert.True(t, b.cursor.circle.Visible())
	assert.Equal(t, fyne.NewSize(32, 32), b.cursor.circle.Size())
	assert.Equal(t, fyne.NewPos(34, 14), b.cursor.circle.Position())

	b.MouseOut()
	assert.False(t, b.cursor.circle.Visible())
}

func TestBoardTouch(t *testing.T) {
	b := newTestBoard(t)

	b.TouchDown(&mobile.TouchEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 10)}})
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 20)}})
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(30, 30)}})
	b.TouchUp(&mobile.TouchEvent{})

	assert.False(t, committedBlank(b))

	b.ClearBoard()
	assert.True(t, committedBlank(b))
}

func TestBoardRendererSize(t *testing.T) {
	b := newTestBoard(t)
	r := test.TempWidgetRenderer(t, b)
	assert.Equal(t, fyne.NewSize(120, 60), r.MinSize())
	assert.Len(t, r.Objects(), 3)
}

func TestBoardExport(t *testing.T) {
	b := newTestBoard(t)
	b.MouseDown(mouseAt(10, 10))
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 10)}})
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(30, 10)}})
	b.MouseUp(mouseAt(30, 10))

	var pngOut, pdfOut bytes.Buffer
	require.NoError(t, exportTo(&pngOut, ".png", b))
	img, err := png.Decode(&pngOut)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())

	require.NoError(t, exportTo(&pdfOut, ".pdf", b))
	assert.True(t, bytes.HasPrefix(pdfOut.Bytes(), []byte("%PDF")))

	assert.Error(t, exportTo(&bytes.Buffer{}, ".svg", b))
}
