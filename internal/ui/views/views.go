// Package views renders the four widget views. A view repaints from the
// snapshots of its state machine and holds no state the machine does not
// already own.
package views

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

var (
	accentColor = color.NRGBA{R: 0x22, G: 0xd3, B: 0xee, A: 0xff}
	mutedColor  = color.NRGBA{R: 0x33, G: 0x41, B: 0x55, A: 0xff}
	textColor   = color.NRGBA{R: 0xe2, G: 0xe8, B: 0xf0, A: 0xff}
	alertColor  = color.NRGBA{R: 0xf8, G: 0x71, B: 0x71, A: 0xff}
)

// View is one of the shell's stacked views.
type View interface {
	Content() fyne.CanvasObject
}

func displayText(text string, size float32) *canvas.Text {
	label := canvas.NewText(text, textColor)
	label.Alignment = fyne.TextAlignCenter
	label.TextStyle = fyne.TextStyle{Monospace: true}
	label.TextSize = size
	return label
}

func setText(label *canvas.Text, text string) {
	if label.Text == text {
		return
	}
	label.Text = text
	label.Refresh()
}
