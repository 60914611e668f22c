package state

import (
	"fmt"
	"image"
	"math"
	"strings"
)

const (
	MinEraserRadius    = 16
	MaxEraserRadius    = 100
	EraserRadiusFactor = 0.5
)

// EraseShape selects the region cleared around each eraser point.
type EraseShape int

const (
	// EraseSquare clears a square of side radius offset by radius/2, which
	// is smaller than the cursor disc. Peers running older clients erase
	// this way.
	EraseSquare EraseShape = iota
	// EraseCircle clears exactly the disc shown by the cursor.
	EraseCircle
)

func (s EraseShape) String() string {
	if s == EraseCircle {
		return "circle"
	}
	return "square"
}

// ParseEraseShape accepts square and circle.
func ParseEraseShape(s string) (EraseShape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "square", "":
		return EraseSquare, nil
	case "circle":
		return EraseCircle, nil
	}
	return EraseSquare, fmt.Errorf("unknown erase shape %q", s)
}

// Cursor is the on-screen indicator following the eraser.
type Cursor interface {
	Show()
	Move(center Pointer, radius float64)
	Hide()
}

type nopCursor struct{}

func (nopCursor) Show()                 {}
func (nopCursor) Move(Pointer, float64) {}
func (nopCursor) Hide()                 {}

// EraserOptions configures an Eraser.
type EraserOptions struct {
	Radius float64
	Shape  EraseShape
	Cursor Cursor
}

// Eraser clears committed pixels under the pointer with a radius that grows
// with pointer speed, and publishes the result when the gesture ends.
type Eraser struct {
	ctx    *Context
	radius float64
	shape  EraseShape
	cursor Cursor
	down   bool
	path   []Pointer
}

var _ Tool = (*Eraser)(nil)

func NewEraser(ctx *Context, opts EraserOptions) *Eraser {
	if opts.Cursor == nil {
		opts.Cursor = nopCursor{}
	}
	return &Eraser{
		ctx:    ctx,
		radius: clampRadius(opts.Radius),
		shape:  opts.Shape,
		cursor: opts.Cursor,
	}
}

func (e *Eraser) Radius() float64 { return e.radius }
func (e *Eraser) Erasing() bool   { return e.down }
func (e *Eraser) PathLen() int    { return len(e.path) }

func (e *Eraser) OnPointerDown(p Pointer) {
	if e.down {
		return
	}
	e.down = true
	e.cursor.Show()
	e.cursor.Move(p, e.radius)
	e.path = append(e.path[:0], p)
	Logger().Debug("eraser down", "x", p.X, "y", p.Y)
}

func (e *Eraser) OnPointerMove(p Pointer) {
	if !e.down {
		return
	}
	e.radius = EraserRadius(e.radius, e.path)
	e.cursor.Move(p, e.radius)
	e.ctx.erase(p, e.radius, e.shape)
	e.path = append(e.path, p)
}

func (e *Eraser) OnPointerUp() {
	if !e.down {
		return
	}
	e.down = false
	e.cursor.Hide()
	e.path = e.path[:0]
	Logger().Debug("eraser up", "radius", e.radius)
	e.ctx.publishErased()
}

// EraserRadius derives the erase radius from the distance between the last
// two points of path. With fewer than two points prev is returned.
func EraserRadius(prev float64, path []Pointer) float64 {
	n := len(path)
	if n < 2 {
		return prev
	}
	d := path[n-2].Dist(path[n-1])
	return clampRadius(MinEraserRadius + d*EraserRadiusFactor)
}

func clampRadius(r float64) float64 {
	return math.Min(math.Max(r, MinEraserRadius), MaxEraserRadius)
}

// squareRegion is the pixel rectangle EraseSquare clears around c.
func squareRegion(c Pointer, radius float64) image.Rectangle {
	half := radius / 2
	return image.Rect(
		int(math.Floor(c.X-half)), int(math.Floor(c.Y-half)),
		int(math.Ceil(c.X+half)), int(math.Ceil(c.Y+half)),
	)
}
