// Package clock provides the time sources and callback schedulers used by
// the alarm, stopwatch and timer state machines.
package clock

import (
	"sync"
	"time"
)

// DefaultFrameInterval approximates one display refresh at 60 Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Clock reads wall-clock and monotonic time.
type Clock interface {
	// Now returns the wall-clock time. Used for time-of-day targets.
	Now() time.Time
	// Monotonic returns a non-decreasing reading that ignores wall-clock
	// adjustments. Only differences between readings are meaningful.
	Monotonic() time.Duration
}

// Task is a scheduled callback. Cancel is idempotent and safe to call after
// the callback already ran.
type Task interface {
	Cancel()
}

// Scheduler runs callbacks later.
type Scheduler interface {
	// AfterFunc runs fn once after d.
	AfterFunc(d time.Duration, fn func()) Task
	// RequestFrame runs fn once on the next display frame. Loops re-request
	// a frame from inside fn.
	RequestFrame(fn func()) Task
}

// Source combines a Clock and a Scheduler.
type Source interface {
	Clock
	Scheduler
}

// System is the production Source backed by the time package.
type System struct {
	start         time.Time
	frameInterval time.Duration
}

// NewSystem creates a System clock. A non-positive frameInterval selects
// DefaultFrameInterval.
func NewSystem(frameInterval time.Duration) *System {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &System{start: time.Now(), frameInterval: frameInterval}
}

// Now returns the current wall-clock time without its monotonic reading.
func (system *System) Now() time.Time {
	return time.Now().Round(0)
}

// Monotonic returns the time elapsed since the clock was created, measured
// with the runtime's monotonic clock.
func (system *System) Monotonic() time.Duration {
	return time.Since(system.start)
}

// AfterFunc schedules fn on its own goroutine after d.
func (system *System) AfterFunc(d time.Duration, fn func()) Task {
	if d < 0 {
		d = 0
	}
	return &systemTask{timer: time.AfterFunc(d, fn)}
}

// RequestFrame schedules fn one frame interval from now.
func (system *System) RequestFrame(fn func()) Task {
	return system.AfterFunc(system.frameInterval, fn)
}

type systemTask struct {
	once  sync.Once
	timer *time.Timer
}

func (task *systemTask) Cancel() {
	task.once.Do(func() {
		task.timer.Stop()
	})
}
