// Package stopwatch implements a start/pause stopwatch with lap splits,
// refreshed once per display frame while running.
package stopwatch

import (
	"fmt"
	"sync"
	"time"

	"tiltclock/internal/core/clock"
)

// ZeroDisplay is the formatted value of a reset stopwatch.
const ZeroDisplay = "00:00.00"

// Lap is a recorded split. Index is 1-based in recording order.
type Lap struct {
	Index   int
	Elapsed time.Duration
}

// Snapshot is what the stopwatch view renders.
type Snapshot struct {
	Running bool
	Elapsed time.Duration
	// Laps are ordered most recent first.
	Laps []Lap
}

// Display returns Elapsed formatted as MM:SS.cc.
func (snapshot Snapshot) Display() string {
	return Format(snapshot.Elapsed)
}

// Stopwatch is the stopwatch state machine. Elapsed time is measured on the
// monotonic clock.
type Stopwatch struct {
	mu          sync.Mutex
	source      clock.Source
	running     bool
	accumulated time.Duration
	startRef    time.Duration
	laps        []Lap
	frame       clock.Task
	gen         uint64
	listener    func(Snapshot)
}

// New creates a stopped stopwatch at zero.
func New(source clock.Source) *Stopwatch {
	return &Stopwatch{source: source}
}

// SetListener registers the render callback, invoked after each transition and
// on every frame while running.
func (stopwatch *Stopwatch) SetListener(listener func(Snapshot)) {
	stopwatch.mu.Lock()
	defer stopwatch.mu.Unlock()
	stopwatch.listener = listener
}

// Toggle starts a stopped stopwatch or pauses a running one.
func (stopwatch *Stopwatch) Toggle() {
	stopwatch.mu.Lock()
	if stopwatch.running {
		stopwatch.pauseLocked()
	} else {
		stopwatch.running = true
		stopwatch.startRef = stopwatch.source.Monotonic() - stopwatch.accumulated
		stopwatch.requestFrameLocked()
	}
	stopwatch.mu.Unlock()
	stopwatch.notify()
}

// Start resumes a stopped stopwatch. No-op while running.
func (stopwatch *Stopwatch) Start() {
	if !stopwatch.Running() {
		stopwatch.Toggle()
	}
}

// Pause freezes a running stopwatch. No-op while stopped.
func (stopwatch *Stopwatch) Pause() {
	if stopwatch.Running() {
		stopwatch.Toggle()
	}
}

// Lap records the current elapsed time. Valid while running or paused.
func (stopwatch *Stopwatch) Lap() Lap {
	stopwatch.mu.Lock()
	lap := Lap{Index: len(stopwatch.laps) + 1, Elapsed: stopwatch.elapsedLocked()}
	stopwatch.laps = append([]Lap{lap}, stopwatch.laps...)
	stopwatch.mu.Unlock()
	stopwatch.notify()
	return lap
}

// Reset stops the stopwatch, zeroes it and drops all laps.
func (stopwatch *Stopwatch) Reset() {
	stopwatch.mu.Lock()
	stopwatch.cancelFrameLocked()
	stopwatch.running = false
	stopwatch.accumulated = 0
	stopwatch.startRef = 0
	stopwatch.laps = nil
	stopwatch.mu.Unlock()
	stopwatch.notify()
}

// Running reports whether the stopwatch is counting.
func (stopwatch *Stopwatch) Running() bool {
	stopwatch.mu.Lock()
	defer stopwatch.mu.Unlock()
	return stopwatch.running
}

// Snapshot returns the current state.
func (stopwatch *Stopwatch) Snapshot() Snapshot {
	stopwatch.mu.Lock()
	defer stopwatch.mu.Unlock()
	return stopwatch.snapshotLocked()
}

func (stopwatch *Stopwatch) pauseLocked() {
	stopwatch.cancelFrameLocked()
	stopwatch.accumulated = stopwatch.source.Monotonic() - stopwatch.startRef
	stopwatch.running = false
}

func (stopwatch *Stopwatch) elapsedLocked() time.Duration {
	if stopwatch.running {
		return stopwatch.source.Monotonic() - stopwatch.startRef
	}
	return stopwatch.accumulated
}

func (stopwatch *Stopwatch) requestFrameLocked() {
	gen := stopwatch.gen
	stopwatch.frame = stopwatch.source.RequestFrame(func() {
		stopwatch.tick(gen)
	})
}

func (stopwatch *Stopwatch) cancelFrameLocked() {
	stopwatch.gen++
	if stopwatch.frame != nil {
		stopwatch.frame.Cancel()
		stopwatch.frame = nil
	}
}

func (stopwatch *Stopwatch) tick(gen uint64) {
	stopwatch.mu.Lock()
	if gen != stopwatch.gen || !stopwatch.running {
		stopwatch.mu.Unlock()
		return
	}
	stopwatch.requestFrameLocked()
	stopwatch.mu.Unlock()
	stopwatch.notify()
}

func (stopwatch *Stopwatch) snapshotLocked() Snapshot {
	laps := make([]Lap, len(stopwatch.laps))
	copy(laps, stopwatch.laps)
	return Snapshot{
		Running: stopwatch.running,
		Elapsed: stopwatch.elapsedLocked(),
		Laps:    laps,
	}
}

func (stopwatch *Stopwatch) notify() {
	stopwatch.mu.Lock()
	listener := stopwatch.listener
	snapshot := stopwatch.snapshotLocked()
	stopwatch.mu.Unlock()
	if listener != nil {
		listener(snapshot)
	}
}

// Format renders elapsed as MM:SS.cc, truncating to centiseconds. Minutes
// keep growing past 99.
func Format(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	centis := int64(elapsed / (10 * time.Millisecond))
	minutes := centis / 6000
	seconds := (centis % 6000) / 100
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis%100)
}
