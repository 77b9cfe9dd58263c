package views

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"tiltclock/internal/core/stopwatch"
)

// StopwatchView shows elapsed time, the controls and the lap list.
type StopwatchView struct {
	stopwatch *stopwatch.Stopwatch

	display     *canvas.Text
	toggle      *widget.Button
	lapButton   *widget.Button
	resetButton *widget.Button
	lapList     *widget.List
	laps        []stopwatch.Lap
	content     fyne.CanvasObject
}

// NewStopwatchView builds the view. Feed it snapshots through Update.
func NewStopwatchView(sw *stopwatch.Stopwatch) *StopwatchView {
	view := &StopwatchView{
		stopwatch: sw,
		display:   displayText(stopwatch.ZeroDisplay, 44),
	}
	view.toggle = widget.NewButton("Start", sw.Toggle)
	view.lapButton = widget.NewButton("Lap", func() { sw.Lap() })
	view.resetButton = widget.NewButton("Reset", sw.Reset)

	view.lapList = widget.NewList(
		func() int { return len(view.laps) },
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewLabel("Lap 00"), layout.NewSpacer(), widget.NewLabel(stopwatch.ZeroDisplay))
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < 0 || id >= len(view.laps) {
				return
			}
			lap := view.laps[id]
			row := item.(*fyne.Container)
			row.Objects[0].(*widget.Label).SetText(LapLabel(lap))
			row.Objects[2].(*widget.Label).SetText(stopwatch.Format(lap.Elapsed))
		},
	)

	controls := container.NewGridWithColumns(3, view.toggle, view.lapButton, view.resetButton)
	view.content = container.NewBorder(container.NewVBox(view.display, controls), nil, nil, nil, view.lapList)

	view.Render(sw.Snapshot())
	return view
}

// LapLabel names a lap row.
func LapLabel(lap stopwatch.Lap) string {
	return fmt.Sprintf("Lap %d", lap.Index)
}

// Content returns the view's root object.
func (view *StopwatchView) Content() fyne.CanvasObject {
	return view.content
}

// Update schedules a repaint from any goroutine.
func (view *StopwatchView) Update(snapshot stopwatch.Snapshot) {
	fyne.Do(func() { view.Render(snapshot) })
}

// Render repaints from snapshot. Call on the Fyne goroutine.
func (view *StopwatchView) Render(snapshot stopwatch.Snapshot) {
	setText(view.display, snapshot.Display())
	label := "Start"
	if snapshot.Running {
		label = "Pause"
	}
	if view.toggle.Text != label {
		view.toggle.SetText(label)
	}
	if len(snapshot.Laps) != len(view.laps) {
		view.laps = snapshot.Laps
		view.lapList.Refresh()
	}
}
