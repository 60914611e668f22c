package state

import "image/color"

// BrushOptions configures a Brush. Zero fields take the defaults: red, width
// 2, round join, round cap.
type BrushOptions struct {
	Color     color.Color
	LineWidth float64
	LineJoin  LineJoin
	LineCap   LineCap
}

// DefaultBrushColor is used when BrushOptions.Color is nil.
var DefaultBrushColor color.Color = color.RGBA{R: 255, A: 255}

// Brush draws smoothed freehand strokes on the transient surface and commits
// them when the gesture ends.
type Brush struct {
	ctx    *Context
	style  StrokeStyle
	down   bool
	smooth Smoother
}

var _ Tool = (*Brush)(nil)

func NewBrush(ctx *Context, opts BrushOptions) *Brush {
	if opts.Color == nil {
		opts.Color = DefaultBrushColor
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 2
	}
	return &Brush{
		ctx: ctx,
		style: StrokeStyle{
			Color:     opts.Color,
			LineWidth: opts.LineWidth,
			LineJoin:  opts.LineJoin,
			LineCap:   opts.LineCap,
		},
	}
}

func (b *Brush) Style() StrokeStyle     { return b.style }
func (b *Brush) SetColor(c color.Color) { b.style.Color = c }
func (b *Brush) SetLineWidth(w float64) { b.style.LineWidth = w }
func (b *Brush) SetLineJoin(j LineJoin) { b.style.LineJoin = j }
func (b *Brush) SetLineCap(c LineCap)   { b.style.LineCap = c }
func (b *Brush) Stroking() bool         { return b.down }
func (b *Brush) PathLen() int           { return b.smooth.Len() }

func (b *Brush) OnPointerDown(p Pointer) {
	if b.down {
		return
	}
	b.down = true
	b.smooth.Start(p)
	Logger().Debug("brush down", "x", p.X, "y", p.Y)
}

func (b *Brush) OnPointerMove(p Pointer) {
	if !b.down {
		return
	}
	if seg, ok := b.smooth.Add(p); ok {
		b.ctx.drawSegment(seg, b.style)
	}
}

// OnPointerUp commits whatever the stroke drew, even when it was too short
// to render a segment.
func (b *Brush) OnPointerUp() {
	if !b.down {
		return
	}
	b.down = false
	Logger().Debug("brush up", "points", b.smooth.Len())
	b.smooth.Reset()
	b.ctx.commitStroke()
}
