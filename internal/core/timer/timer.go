// Package timer implements the countdown timer. Remaining time is derived
// from a monotonic deadline on every frame, never decremented.
package timer

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"tiltclock/internal/core/clock"
	"tiltclock/internal/core/model"
	"tiltclock/internal/logger"
)

// ErrNoDuration is returned when starting with no duration configured.
var ErrNoDuration = errors.New("no duration set")

// State is the timer mode.
type State string

const (
	StateIdle      State = "idle"
	StatePaused    State = "paused"
	StateRunning   State = "running"
	StateCompleted State = "completed"
)

const (
	statusRunning   = "Running…"
	statusPaused    = "Paused"
	statusDone      = "Time is up!"
	statusNoPreset  = "Set a duration first"
	defaultNotified = "Timer complete"
)

// DefaultVibration is the completion vibration pattern (on, off, on, ...).
var DefaultVibration = []time.Duration{
	200 * time.Millisecond, 100 * time.Millisecond,
	200 * time.Millisecond, 100 * time.Millisecond,
	200 * time.Millisecond,
}

// Notifier posts a system notification. Best-effort.
type Notifier interface {
	Notify(title, body string) error
}

// Vibrator plays a vibration pattern. Best-effort.
type Vibrator interface {
	Vibrate(pattern []time.Duration) error
}

// Snapshot is what the timer view renders.
type Snapshot struct {
	State     State
	Total     time.Duration
	Remaining time.Duration
	Status    string
	// Preview is a preset duration shown while idle.
	Preview time.Duration
}

// Progress returns the elapsed fraction for the ring.
func (snapshot Snapshot) Progress() float64 {
	return Progress(snapshot.Total, snapshot.Remaining)
}

// Display returns the remaining time (or the preset preview) as MM:SS.
func (snapshot Snapshot) Display() string {
	if snapshot.State == StateIdle && snapshot.Preview > 0 {
		return Format(snapshot.Preview)
	}
	return Format(snapshot.Remaining)
}

// Timer is the countdown state machine.
type Timer struct {
	mu        sync.Mutex
	source    clock.Source
	notifier  Notifier
	vibrator  Vibrator
	log       *logger.Logger
	config    model.TimerConfig
	state     State
	input     time.Duration
	preview   time.Duration
	total     time.Duration
	remaining time.Duration
	deadline  time.Duration
	status    string
	frame     clock.Task
	gen       uint64
	listener  func(Snapshot)
}

// New creates an idle timer. notifier and vibrator may be nil.
func New(source clock.Source, notifier Notifier, vibrator Vibrator, log *logger.Logger, config model.TimerConfig) *Timer {
	if len(config.VibrationPattern) == 0 {
		config.VibrationPattern = DefaultVibration
	}
	if config.NotificationText == "" {
		config.NotificationText = defaultNotified
	}
	return &Timer{
		source:   source,
		notifier: notifier,
		vibrator: vibrator,
		log:      log,
		config:   config,
		state:    StateIdle,
	}
}

// SetListener registers the render callback, invoked after each transition and
// on every frame while running.
func (timer *Timer) SetListener(listener func(Snapshot)) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.listener = listener
}

// UpdateConfig replaces presets and effects for later runs. A run in
// progress is not affected.
func (timer *Timer) UpdateConfig(config model.TimerConfig) {
	if len(config.VibrationPattern) == 0 {
		config.VibrationPattern = DefaultVibration
	}
	if config.NotificationText == "" {
		config.NotificationText = defaultNotified
	}
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.config = config
}

// Presets returns the configured shortcut durations.
func (timer *Timer) Presets() []time.Duration {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return append([]time.Duration(nil), timer.config.Presets...)
}

// SetInput sets the duration used by the next fresh start from the minute
// and second fields. Negative fields count as zero.
func (timer *Timer) SetInput(minutes, seconds int) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.input = InputDuration(minutes, seconds)
}

// InputDuration combines minute and second fields.
func InputDuration(minutes, seconds int) time.Duration {
	if minutes < 0 {
		minutes = 0
	}
	if seconds < 0 {
		seconds = 0
	}
	return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
}

// ApplyPreset sets the input to d and, unless running, shows it as a
// zero-progress preview. A paused countdown is discarded so the next
// start uses the preset.
func (timer *Timer) ApplyPreset(d time.Duration) {
	timer.mu.Lock()
	timer.input = d
	if timer.state != StateRunning {
		timer.state = StateIdle
		timer.total = 0
		timer.remaining = 0
		timer.preview = d
		timer.status = ""
	}
	timer.mu.Unlock()
	timer.notify()
}

// Toggle starts, pauses or resumes. Starting without remaining time or
// input fails with ErrNoDuration and leaves the state unchanged.
// A completed timer ignores Toggle until Reset.
func (timer *Timer) Toggle() error {
	timer.mu.Lock()
	switch timer.state {
	case StateRunning:
		timer.cancelFrameLocked()
		timer.remaining = timer.remainingLocked()
		timer.state = StatePaused
		timer.status = statusPaused
	case StateCompleted:
		timer.mu.Unlock()
		return nil
	default:
		if timer.remaining <= 0 {
			if timer.input <= 0 {
				timer.status = statusNoPreset
				timer.mu.Unlock()
				timer.notify()
				return ErrNoDuration
			}
			timer.total = timer.input
			timer.remaining = timer.input
		}
		timer.preview = 0
		timer.state = StateRunning
		timer.status = statusRunning
		timer.deadline = timer.source.Monotonic() + timer.remaining
		timer.requestFrameLocked()
	}
	timer.mu.Unlock()
	timer.notify()
	return nil
}

// Reset returns to idle with everything zeroed. The input fields keep their
// value.
func (timer *Timer) Reset() {
	timer.mu.Lock()
	timer.cancelFrameLocked()
	timer.state = StateIdle
	timer.total = 0
	timer.remaining = 0
	timer.preview = 0
	timer.deadline = 0
	timer.status = ""
	timer.mu.Unlock()
	timer.notify()
}

// Snapshot returns the current state.
func (timer *Timer) Snapshot() Snapshot {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.snapshotLocked()
}

func (timer *Timer) remainingLocked() time.Duration {
	remaining := timer.deadline - timer.source.Monotonic()
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (timer *Timer) requestFrameLocked() {
	gen := timer.gen
	timer.frame = timer.source.RequestFrame(func() {
		timer.tick(gen)
	})
}

func (timer *Timer) cancelFrameLocked() {
	timer.gen++
	if timer.frame != nil {
		timer.frame.Cancel()
		timer.frame = nil
	}
}

func (timer *Timer) tick(gen uint64) {
	timer.mu.Lock()
	if gen != timer.gen || timer.state != StateRunning {
		timer.mu.Unlock()
		return
	}
	timer.remaining = timer.remainingLocked()
	if timer.remaining > 0 {
		timer.requestFrameLocked()
		timer.mu.Unlock()
		timer.notify()
		return
	}

	timer.frame = nil
	timer.gen++
	timer.state = StateCompleted
	timer.status = statusDone
	title := timer.config.NotificationText
	pattern := append([]time.Duration(nil), timer.config.VibrationPattern...)
	timer.mu.Unlock()

	timer.log.Info("timer: completed")
	timer.notify()
	timer.alert(title, pattern)
}

// alert fires the completion effects. Missing or failing capabilities are
// ignored.
func (timer *Timer) alert(title string, pattern []time.Duration) {
	if timer.notifier != nil {
		if err := timer.notifier.Notify(title, statusDone); err != nil {
			timer.log.Debug("timer: notification skipped: %v", err)
		}
	}
	if timer.vibrator != nil {
		if err := timer.vibrator.Vibrate(pattern); err != nil {
			timer.log.Debug("timer: vibration skipped: %v", err)
		}
	}
}

func (timer *Timer) snapshotLocked() Snapshot {
	return Snapshot{
		State:     timer.state,
		Total:     timer.total,
		Remaining: timer.remaining,
		Status:    timer.status,
		Preview:   timer.preview,
	}
}

func (timer *Timer) notify() {
	timer.mu.Lock()
	listener := timer.listener
	snapshot := timer.snapshotLocked()
	timer.mu.Unlock()
	if listener != nil {
		listener(snapshot)
	}
}

// Format renders remaining time as MM:SS, rounding partial seconds up so
// the display reads 00:00 only once the countdown is over.
func Format(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	totalSeconds := int64(math.Ceil(remaining.Seconds()))
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
