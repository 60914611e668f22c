package state

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// Surface is a fixed-size RGBA raster. Strokes are rendered through a
// gg.Context bound to the same pixel buffer, so clears done directly on the
// buffer are seen by the renderer.
type Surface struct {
	img *image.RGBA
	dc  *gg.Context
}

// NewSurface allocates a transparent surface of the given size.
func NewSurface(width, height int) *Surface {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Surface{img: img, dc: gg.NewContextForRGBA(img)}
}

func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }
func (s *Surface) Width() int              { return s.img.Bounds().Dx() }
func (s *Surface) Height() int             { return s.img.Bounds().Dy() }

// Image returns a copy of the surface pixels.
func (s *Surface) Image() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// ClearRect makes the pixels of r transparent. r is clipped to the surface.
func (s *Surface) ClearRect(r image.Rectangle) {
	r = r.Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	xdraw.Draw(s.img, r, image.Transparent, image.Point{}, xdraw.Src)
}

// ClearDisc makes the pixels whose centres lie within radius of c transparent.
func (s *Surface) ClearDisc(c Pointer, radius float64) {
	r := image.Rect(
		int(math.Floor(c.X-radius)), int(math.Floor(c.Y-radius)),
		int(math.Ceil(c.X+radius)), int(math.Ceil(c.Y+radius)),
	).Intersect(s.img.Bounds())
	r2 := radius * radius
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dy := float64(y) + 0.5 - c.Y
		for x := r.Min.X; x < r.Max.X; x++ {
			dx := float64(x) + 0.5 - c.X
			if dx*dx+dy*dy <= r2 {
				s.img.SetRGBA(x, y, color.RGBA{})
			}
		}
	}
}

// StrokeQuadratic strokes a quadratic curve from seg.Begin through
// seg.Control to seg.End with the given style.
func (s *Surface) StrokeQuadratic(seg Segment, style StrokeStyle) {
	s.dc.SetColor(style.Color)
	s.dc.SetLineWidth(style.LineWidth)
	s.dc.SetLineCap(style.LineCap.gg())
	s.dc.SetLineJoin(style.LineJoin.gg())
	s.dc.MoveTo(seg.Begin.X, seg.Begin.Y)
	s.dc.QuadraticTo(seg.Control.X, seg.Control.Y, seg.End.X, seg.End.Y)
	s.dc.Stroke()
}

// DrawOver composites src on top of the surface. A source of a different
// size is scaled to cover the whole surface.
func (s *Surface) DrawOver(src image.Image) {
	sb := src.Bounds()
	if sb.Size() == s.img.Bounds().Size() {
		xdraw.Draw(s.img, s.img.Bounds(), src, sb.Min, xdraw.Over)
		return
	}
	xdraw.BiLinear.Scale(s.img, s.img.Bounds(), src, sb, xdraw.Over, nil)
}

// IsBlank reports whether every pixel is fully transparent.
func (s *Surface) IsBlank() bool {
	for i := 3; i < len(s.img.Pix); i += 4 {
		if s.img.Pix[i] != 0 {
			return false
		}
	}
	return true
}
