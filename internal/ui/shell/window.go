// Package shell hosts the four views in one window and switches between
// them as the orientation changes.
package shell

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"tiltclock/internal/core/clock"
	"tiltclock/internal/core/orientation"
	"tiltclock/internal/logger"
	"tiltclock/internal/platform"
)

// Config defines the shell window.
type Config struct {
	Title string
	// Size is the initial canvas size; portrait when taller than wide.
	Size fyne.Size
	// HideOnClose keeps the app alive in the tray when the window closes.
	HideOnClose bool
}

// DefaultSize is a phone-like portrait canvas.
var DefaultSize = fyne.NewSize(360, 640)

// DefaultRotationPoll is how often a mobile device's rotation is re-read.
const DefaultRotationPoll = 250 * time.Millisecond

// Window manages the widget window.
type Window struct {
	app        fyne.App
	window     fyne.Window
	dispatcher *orientation.Dispatcher
	log        *logger.Logger
	views      map[orientation.ViewKey]fyne.CanvasObject
	label      *canvas.Text
	filter     platform.SignalFilter
	device     fyne.Device
	onPresent  func(orientation.ViewKey)
}

var _ orientation.Presenter = (*Window)(nil)

// New creates the shell window and registers it as the dispatcher's
// presenter. views must hold one object per view key.
func New(app fyne.App, dispatcher *orientation.Dispatcher, views map[orientation.ViewKey]fyne.CanvasObject, config Config, log *logger.Logger) *Window {
	if config.Title == "" {
		config.Title = "Tiltclock"
	}
	if config.Size.IsZero() {
		config.Size = DefaultSize
	}

	window := app.NewWindow(config.Title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	label := canvas.NewText("", color.NRGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff})
	label.Alignment = fyne.TextAlignCenter
	label.TextSize = 12

	shell := &Window{
		app:        app,
		window:     window,
		dispatcher: dispatcher,
		log:        log,
		views:      views,
		label:      label,
		device:     fyne.CurrentDevice(),
	}

	stacked := make([]fyne.CanvasObject, 0, len(orientation.Views))
	for _, key := range orientation.Views {
		object, ok := views[key]
		if !ok {
			continue
		}
		object.Hide()
		stacked = append(stacked, object)
	}
	body := container.New(&orientationLayout{onResize: shell.handleResize}, stacked...)
	window.SetContent(container.NewBorder(label, nil, nil, nil, body))

	window.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		shell.Rotate()
	})
	if config.HideOnClose {
		window.SetCloseIntercept(window.Hide)
	}

	dispatcher.SetPresenter(shell)
	window.Resize(config.Size)
	return shell
}

// SetOnPresent registers a callback run after each view switch on the Fyne
// goroutine.
func (shell *Window) SetOnPresent(onPresent func(orientation.ViewKey)) {
	shell.onPresent = onPresent
}

// Present shows active and hides the other views.
func (shell *Window) Present(active orientation.ViewKey, current orientation.Orientation) {
	fyne.Do(func() {
		shell.present(active, current)
	})
}

func (shell *Window) present(active orientation.ViewKey, current orientation.Orientation) {
	for key, object := range shell.views {
		if key == active {
			object.Show()
		} else {
			object.Hide()
		}
	}
	shell.label.Text = current.Label()
	shell.label.Refresh()
	shell.log.Debug("shell: showing %s (%s)", active, current)
	if shell.onPresent != nil {
		shell.onPresent(active)
	}
}

// Show displays the window.
func (shell *Window) Show() {
	shell.window.Show()
	shell.window.RequestFocus()
}

// ShowAndRun displays the window and runs the app loop.
func (shell *Window) ShowAndRun() {
	shell.window.ShowAndRun()
}

// Rotate swaps the window's width and height, turning the canvas a quarter
// so the other orientation family can be reached on a desktop.
func (shell *Window) Rotate() {
	size := shell.window.Canvas().Size()
	shell.window.Resize(fyne.NewSize(size.Height, size.Width))
}

// Sync re-reads the orientation signals for the current canvas size.
func (shell *Window) Sync() {
	shell.handleResize(shell.window.Canvas().Size())
}

// WatchRotation re-reads the device rotation every interval on mobile. A
// half turn keeps the canvas size, so no layout pass reports it. The
// returned function stops the watch; on desktop it does nothing.
func (shell *Window) WatchRotation(scheduler clock.Scheduler, interval time.Duration) func() {
	if shell.device == nil || !shell.device.IsMobile() {
		return func() {}
	}
	if interval <= 0 {
		interval = DefaultRotationPoll
	}

	var (
		mu      sync.Mutex
		task    clock.Task
		stopped bool
		poll    func()
	)
	poll = func() {
		fyne.Do(shell.Sync)
		mu.Lock()
		defer mu.Unlock()
		if !stopped {
			task = scheduler.AfterFunc(interval, poll)
		}
	}

	mu.Lock()
	task = scheduler.AfterFunc(interval, poll)
	mu.Unlock()
	return func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		task.Cancel()
	}
}

func (shell *Window) handleResize(size fyne.Size) {
	signals := platform.Signals(shell.device, size)
	if !shell.filter.Changed(signals) {
		return
	}
	shell.dispatcher.Update(signals)
}

// orientationLayout stacks every view over the full area and reports each
// pass so the orientation can be re-resolved. Repeats are dropped by the
// shell's signal filter.
type orientationLayout struct {
	onResize func(fyne.Size)
}

func (layout *orientationLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, object := range objects {
		object.Move(fyne.NewPos(0, 0))
		object.Resize(size)
	}
	if size.IsZero() {
		return
	}
	if layout.onResize != nil {
		layout.onResize(size)
	}
}

func (layout *orientationLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var size fyne.Size
	for _, object := range objects {
		size = size.Max(object.MinSize())
	}
	return size
}
