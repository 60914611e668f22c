package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// RunApp opens the board window and blocks until it is closed. A non-empty
// shareLink is shown so the host can hand it out.
func RunApp(title, shareLink string, board *BoardWidget) {
	myApp := app.New()
	myWindow := myApp.NewWindow(title)

	toolbar := NewToolbar(board, myWindow)

	footer := []fyne.CanvasObject{board.Status()}
	if shareLink != "" {
		link := widget.NewEntry()
		link.SetText(shareLink)
		footer = append(footer, widget.NewLabel("Share:"), link)
	}

	content := container.NewBorder(toolbar, container.NewHBox(footer...), nil, nil,
		container.NewCenter(board))

	myWindow.SetContent(content)
	myWindow.SetOnClosed(board.Close)
	myWindow.ShowAndRun()
}
