package views

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"tiltclock/internal/core/alarm"
	"tiltclock/internal/core/clock"
)

// ClockRefresh is how often the alarm view's wall clock repaints.
const ClockRefresh = 500 * time.Millisecond

// FormatClock renders the live clock as HH:MM:SS.
func FormatClock(now time.Time) string {
	return now.Format("15:04:05")
}

// AlarmView shows the live clock and the alarm controls.
type AlarmView struct {
	alarm  *alarm.Alarm
	source clock.Source

	clockText    *canvas.Text
	entry        *widget.Entry
	setButton    *widget.Button
	clearButton  *widget.Button
	stopButton   *widget.Button
	snoozeButton *widget.Button
	status       *widget.Label
	ringing      *fyne.Container
	content      fyne.CanvasObject

	mu   sync.Mutex
	tick clock.Task
	gen  uint64
}

// NewAlarmView builds the view. Feed it snapshots through Update.
func NewAlarmView(a *alarm.Alarm, source clock.Source) *AlarmView {
	view := &AlarmView{
		alarm:     a,
		source:    source,
		clockText: displayText(FormatClock(source.Now()), 48),
		entry:     widget.NewEntry(),
		status:    widget.NewLabel(""),
	}
	view.entry.SetPlaceHolder("HH:MM")
	view.entry.OnSubmitted = func(string) { view.submit() }
	view.setButton = widget.NewButton("Set alarm", view.submit)
	view.clearButton = widget.NewButton("Clear", a.Clear)
	view.stopButton = widget.NewButton("Stop", a.Stop)
	view.snoozeButton = widget.NewButton("Snooze", a.Snooze)
	view.status.Alignment = fyne.TextAlignCenter

	ringingText := canvas.NewText("Alarm ringing!", alertColor)
	ringingText.Alignment = fyne.TextAlignCenter
	ringingText.TextStyle = fyne.TextStyle{Bold: true}
	view.ringing = container.NewVBox(ringingText, container.NewGridWithColumns(2, view.stopButton, view.snoozeButton))
	view.ringing.Hide()

	view.content = container.NewVBox(
		view.clockText,
		container.NewBorder(nil, nil, nil, container.NewHBox(view.setButton, view.clearButton), view.entry),
		view.status,
		view.ringing,
	)

	view.Render(a.Snapshot())
	return view
}

// Content returns the view's root object.
func (view *AlarmView) Content() fyne.CanvasObject {
	return view.content
}

// Update schedules a repaint from any goroutine.
func (view *AlarmView) Update(snapshot alarm.Snapshot) {
	fyne.Do(func() { view.Render(snapshot) })
}

// Render repaints from snapshot. Call on the Fyne goroutine.
func (view *AlarmView) Render(snapshot alarm.Snapshot) {
	view.status.SetText(snapshot.Status)
	if snapshot.Ringing() {
		view.ringing.Show()
	} else {
		view.ringing.Hide()
	}
}

// StartClock repaints the wall clock every ClockRefresh until StopClock.
func (view *AlarmView) StartClock() {
	view.mu.Lock()
	defer view.mu.Unlock()
	view.gen++
	view.scheduleLocked(view.gen)
}

// StopClock halts the wall clock refresh.
func (view *AlarmView) StopClock() {
	view.mu.Lock()
	defer view.mu.Unlock()
	view.gen++
	if view.tick != nil {
		view.tick.Cancel()
		view.tick = nil
	}
}

func (view *AlarmView) scheduleLocked(gen uint64) {
	if view.tick != nil {
		view.tick.Cancel()
	}
	view.tick = view.source.AfterFunc(ClockRefresh, func() {
		view.mu.Lock()
		if gen != view.gen {
			view.mu.Unlock()
			return
		}
		view.scheduleLocked(gen)
		view.mu.Unlock()

		text := FormatClock(view.source.Now())
		fyne.Do(func() { setText(view.clockText, text) })
	})
}

func (view *AlarmView) submit() {
	// Malformed input is ignored; the previous schedule stands.
	_, _ = view.alarm.Submit(view.entry.Text)
}
