package views

import (
	"image"
	"image/color"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"tiltclock/internal/core/timer"
)

// TimerView shows the countdown ring, the duration fields and presets.
type TimerView struct {
	timer *timer.Timer

	minutes     *widget.Entry
	seconds     *widget.Entry
	toggle      *widget.Button
	resetButton *widget.Button
	presets     *fyne.Container
	display     *canvas.Text
	status      *widget.Label
	ring        *canvas.Raster
	content     fyne.CanvasObject

	mu       sync.Mutex
	progress float64
}

// NewTimerView builds the view. Feed it snapshots through Update.
func NewTimerView(t *timer.Timer) *TimerView {
	view := &TimerView{
		timer:   t,
		minutes: widget.NewEntry(),
		seconds: widget.NewEntry(),
		display: displayText(timer.Format(0), 40),
		status:  widget.NewLabel(""),
		presets: container.NewHBox(),
	}
	view.minutes.SetPlaceHolder("min")
	view.seconds.SetPlaceHolder("sec")
	view.minutes.OnChanged = func(string) { view.syncInput() }
	view.seconds.OnChanged = func(string) { view.syncInput() }
	view.toggle = widget.NewButton("Start", view.toggleTimer)
	view.resetButton = widget.NewButton("Reset", t.Reset)
	view.status.Alignment = fyne.TextAlignCenter

	view.ring = canvas.NewRaster(view.ringImage)
	view.ring.SetMinSize(fyne.NewSize(float32(timer.DefaultRing.Size), float32(timer.DefaultRing.Size)))
	view.SetPresets(t.Presets())

	fields := container.NewGridWithColumns(2, view.minutes, view.seconds)
	controls := container.NewGridWithColumns(2, view.toggle, view.resetButton)
	view.content = container.NewVBox(
		container.NewStack(view.ring, container.NewCenter(view.display)),
		view.status,
		fields,
		container.NewCenter(view.presets),
		controls,
	)

	view.Render(t.Snapshot())
	return view
}

// Content returns the view's root object.
func (view *TimerView) Content() fyne.CanvasObject {
	return view.content
}

// SetPresets rebuilds the preset buttons.
func (view *TimerView) SetPresets(presets []time.Duration) {
	view.presets.RemoveAll()
	for _, preset := range presets {
		preset := preset
		view.presets.Add(widget.NewButton(PresetLabel(preset), func() {
			view.applyPreset(preset)
		}))
	}
}

// PresetLabel names a preset button: "5 min", "30 sec" or "1:30".
func PresetLabel(preset time.Duration) string {
	minutes := int(preset / time.Minute)
	seconds := int(preset%time.Minute) / int(time.Second)
	switch {
	case seconds == 0:
		return strconv.Itoa(minutes) + " min"
	case minutes == 0:
		return strconv.Itoa(seconds) + " sec"
	default:
		return timer.Format(preset)
	}
}

// Update schedules a repaint from any goroutine.
func (view *TimerView) Update(snapshot timer.Snapshot) {
	fyne.Do(func() { view.Render(snapshot) })
}

// Render repaints from snapshot. Call on the Fyne goroutine.
func (view *TimerView) Render(snapshot timer.Snapshot) {
	setText(view.display, snapshot.Display())
	view.status.SetText(snapshot.Status)

	label := "Start"
	switch snapshot.State {
	case timer.StateRunning:
		label = "Pause"
	case timer.StatePaused:
		label = "Resume"
	}
	if view.toggle.Text != label {
		view.toggle.SetText(label)
	}
	if snapshot.State == timer.StateCompleted {
		view.toggle.Disable()
	} else {
		view.toggle.Enable()
	}

	view.mu.Lock()
	changed := view.progress != snapshot.Progress()
	view.progress = snapshot.Progress()
	view.mu.Unlock()
	if changed {
		view.ring.Refresh()
	}
}

// Progress returns the fraction the ring currently shows.
func (view *TimerView) Progress() float64 {
	view.mu.Lock()
	defer view.mu.Unlock()
	return view.progress
}

// ringImage draws the ring for one refresh, reading the progress once.
func (view *TimerView) ringImage(w, h int) image.Image {
	progress := view.Progress()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, ringPixel(x, y, w, h, progress))
		}
	}
	return img
}

func ringPixel(x, y, w, h int, progress float64) color.Color {
	side := w
	if h < side {
		side = h
	}
	x -= (w - side) / 2
	y -= (h - side) / 2
	if x < 0 || y < 0 || x >= side || y >= side {
		return color.Transparent
	}

	switch timer.DefaultRing.LayerAt(x, y, side, progress) {
	case timer.LayerProgress:
		return accentColor
	case timer.LayerBackground:
		return mutedColor
	default:
		return color.Transparent
	}
}

func (view *TimerView) applyPreset(preset time.Duration) {
	minutes := int(preset / time.Minute)
	seconds := int(preset%time.Minute) / int(time.Second)
	view.minutes.SetText(strconv.Itoa(minutes))
	view.seconds.SetText(strconv.Itoa(seconds))
	view.timer.ApplyPreset(preset)
}

func (view *TimerView) syncInput() {
	view.timer.SetInput(parseField(view.minutes.Text), parseField(view.seconds.Text))
}

func (view *TimerView) toggleTimer() {
	// ErrNoDuration surfaces through the status line.
	_ = view.timer.Toggle()
}

// parseField reads an integer field; blank or malformed counts as 0.
func parseField(text string) int {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || value < 0 {
		return 0
	}
	return value
}
