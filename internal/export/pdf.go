package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	xdraw "golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned by Write for extensions other than .pdf
// and .png.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Write encodes img to w in the format named by the file extension ext.
// An empty extension writes a PDF.
func Write(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".pdf", "":
		return WritePDF(w, img)
	case ".png":
		return WritePNG(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// WritePDF writes img to w as a single page sized to the image, one point
// per pixel, on a white background. The size is given as portrait so gofpdf
// does not swap a wide page's dimensions.
func WritePDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	pw, ph := float64(b.Dx()), float64(b.Dy())

	var buf bytes.Buffer
	if err := png.Encode(&buf, flatten(img)); err != nil {
		return fmt.Errorf("encode page image: %w", err)
	}

	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("board", opts, &buf)
	p.ImageOptions("board", 0, 0, pw, ph, false, opts, 0, "")
	if err := p.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return p.Output(w)
}

// WritePNG writes img to w.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// flatten composites img onto white. gofpdf does not handle PNG alpha
// without an extra soft mask.
func flatten(img image.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	xdraw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	xdraw.Draw(out, out.Bounds(), img, img.Bounds().Min, xdraw.Over)
	return out
}
