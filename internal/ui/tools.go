package ui

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/export"
)

// Palette offered by the toolbar.
var Palette = []color.Color{
	color.NRGBA{R: 255, A: 255},
	color.Black,
	color.NRGBA{G: 160, A: 255},
	color.NRGBA{B: 255, A: 255},
	color.NRGBA{R: 255, G: 200, A: 255},
}

type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// NewToolbar builds the tool, color, width, clear and export controls.
func NewToolbar(board *BoardWidget, win fyne.Window) fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), board.UseBrush),
		widget.NewToolbarAction(theme.ContentRemoveIcon(), board.UseEraser),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			dialog.ShowConfirm("Clear board", "Clear the board for everyone?", func(ok bool) {
				if ok {
					board.ClearBoard()
				}
			}, win)
		}),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() {
			showExport(board, win)
		}),
	)

	onColorTapped := func(c color.Color) {
		board.SetColor(c)
		board.UseBrush()
	}
	colorBox := container.NewHBox()
	for _, c := range Palette {
		colorBox.Add(newColorSwatch(c, onColorTapped))
	}

	strokeSlider := widget.NewSlider(1.0, 30.0)
	strokeSlider.SetValue(board.brush.Style().LineWidth)
	strokeSlider.OnChanged = board.SetStroke
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		layout.NewSpacer(),
	)
}

// showExport saves the committed surface as PDF or PNG depending on the
// chosen file name.
func showExport(board *BoardWidget, win fyne.Window) {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			board.SetStatus(fmt.Sprintf("Export failed: %v", err))
			return
		}
		if w == nil {
			return
		}
		defer func() {
			if err := w.Close(); err != nil {
				log.Printf("[Board] Error closing export: %v", err)
			}
		}()
		if err := exportTo(w, w.URI().Extension(), board); err != nil {
			log.Printf("[Board] Export failed: %v", err)
			board.SetStatus("Export failed")
			return
		}
		board.SetStatus("Exported " + w.URI().Name())
	}, win)
	d.SetFileName("board.pdf")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf", ".png"}))
	d.Show()
}

func exportTo(w io.Writer, ext string, board *BoardWidget) error {
	return export.Write(w, ext, board.ctx.Committed())
}
