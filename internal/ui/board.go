package ui

import (
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/state"
)

// BoardOptions configures a BoardWidget.
type BoardOptions struct {
	Relay    state.Relay
	Width    int
	Height   int
	Reversed bool
	Brush    state.BrushOptions
	Eraser   state.EraserOptions
}

// BoardWidget shows a board's surfaces and feeds mouse and touch input to
// the active tool.
type BoardWidget struct {
	widget.BaseWidget

	ctx     *state.Context
	brush   *state.Brush
	eraser  *state.Eraser
	binding *state.Binding
	cursor  *eraserCursor

	width, height float32
	statusBar     *widget.Label
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ mobile.Touchable = (*BoardWidget)(nil)

func NewBoardWidget(opts BoardOptions) *BoardWidget {
	b := &BoardWidget{
		cursor:    newEraserCursor(),
		statusBar: widget.NewLabel("Ready"),
	}
	b.ctx = state.NewContext(opts.Relay, state.Options{
		Width:    opts.Width,
		Height:   opts.Height,
		Reversed: opts.Reversed,
		OnChange: func() { fyne.Do(b.Refresh) },
	})
	b.width, b.height = float32(b.ctx.Width()), float32(b.ctx.Height())

	opts.Eraser.Cursor = b.cursor
	b.brush = state.NewBrush(b.ctx, opts.Brush)
	b.eraser = state.NewEraser(b.ctx, opts.Eraser)
	b.UseBrush()

	b.ExtendBaseWidget(b)
	return b
}

// Context returns the board's drawing context.
func (b *BoardWidget) Context() *state.Context { return b.ctx }

// Status returns the status line widget.
func (b *BoardWidget) Status() *widget.Label { return b.statusBar }

func (b *BoardWidget) UseBrush() {
	b.binding = b.ctx.Bind(b.brush)
	log.Println("[Board] Brush selected")
}

func (b *BoardWidget) UseEraser() {
	b.binding = b.ctx.Bind(b.eraser)
	log.Println("[Board] Eraser selected")
}

func (b *BoardWidget) SetColor(c color.Color) { b.brush.SetColor(c) }
func (b *BoardWidget) SetStroke(w float64)    { b.brush.SetLineWidth(w) }

// ClearBoard clears the board for everyone.
func (b *BoardWidget) ClearBoard() {
	b.ctx.Clear()
}

// SetStatus is safe to call from any goroutine.
func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() {
		b.statusBar.SetText(text)
	})
}

// Close releases the board's context.
func (b *BoardWidget) Close() {
	b.ctx.Close()
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.dispatch(state.MouseDown, e.Position)
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.dispatch(state.MouseUp, e.Position)
	}
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.dispatch(state.MouseMove, e.Position)
}

func (b *BoardWidget) MouseOut() {
	b.ctx.Dispatch(state.InputEvent{Kind: state.MouseLeave})
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.dispatch(state.MouseMove, e.Position)
}

func (b *BoardWidget) DragEnd() {}

func (b *BoardWidget) TouchDown(e *mobile.TouchEvent) {
	b.ctx.Dispatch(state.InputEvent{
		Kind:    state.TouchStart,
		Touches: []state.Touch{{ClientX: float64(e.Position.X), ClientY: float64(e.Position.Y), OnSurface: true}},
	})
}

func (b *BoardWidget) TouchUp(*mobile.TouchEvent) {
	b.ctx.Dispatch(state.InputEvent{Kind: state.TouchEnd})
}

func (b *BoardWidget) TouchCancel(*mobile.TouchEvent) {
	b.ctx.Dispatch(state.InputEvent{Kind: state.TouchEnd})
}

func (b *BoardWidget) dispatch(kind state.InputKind, pos fyne.Position) {
	b.ctx.Dispatch(state.InputEvent{Kind: kind, ClientX: float64(pos.X), ClientY: float64(pos.Y)})
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	r.image = canvas.NewImageFromImage(b.ctx.Composite())
	r.image.FillMode = canvas.ImageFillStretch
	r.image.ScaleMode = canvas.ImageScalePixels
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	image      *canvas.Image
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.image, r.board.cursor.circle}
}

func (r *boardWidgetRenderer) Refresh() {
	r.image.Image = r.board.ctx.Composite()
	r.image.Refresh()
	r.board.cursor.circle.Refresh()
}

func (r *boardWidgetRenderer) Layout(fyne.Size) {
	size := fyne.NewSize(r.board.width, r.board.height)
	r.background.Resize(size)
	r.image.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.board.width, r.board.height)
}

func (r *boardWidgetRenderer) Destroy() {}

// eraserCursor is the translucent disc following the eraser.
type eraserCursor struct {
	circle *canvas.Circle
}

var _ state.Cursor = (*eraserCursor)(nil)

func newEraserCursor() *eraserCursor {
	c := canvas.NewCircle(color.NRGBA{R: 255, G: 255, B: 255, A: 128})
	c.StrokeColor = color.Gray{Y: 150}
	c.StrokeWidth = 1
	c.Hide()
	return &eraserCursor{circle: c}
}

func (c *eraserCursor) Show() { c.circle.Show() }
func (c *eraserCursor) Hide() { c.circle.Hide() }

func (c *eraserCursor) Move(center state.Pointer, radius float64) {
	r := float32(radius)
	c.circle.Move(fyne.NewPos(float32(center.X)-r, float32(center.Y)-r))
	c.circle.Resize(fyne.NewSize(2*r, 2*r))
	c.circle.Refresh()
}
