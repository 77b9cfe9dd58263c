// Package alarm implements the one-shot time-of-day alarm: Idle, Scheduled,
// Ringing, with stop, snooze and clear.
package alarm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"tiltclock/internal/core/clock"
	"tiltclock/internal/core/model"
	"tiltclock/internal/logger"
)

// DefaultSnooze is used when the config carries no snooze offset.
const DefaultSnooze = 5 * time.Minute

// ErrInvalidTime is returned for malformed or out-of-range HH:MM input.
var ErrInvalidTime = errors.New("invalid time of day")

// State is the alarm mode.
type State string

const (
	StateIdle      State = "idle"
	StateScheduled State = "scheduled"
	StateRinging   State = "ringing"
)

// Sound loops an alert. Both calls are best-effort.
type Sound interface {
	Start() error
	Stop() error
}

// Snapshot is what the alarm view renders.
type Snapshot struct {
	State  State
	Target time.Time
	Status string
}

// Ringing reports whether the ringing indicator should be visible.
func (snapshot Snapshot) Ringing() bool {
	return snapshot.State == StateRinging
}

// Alarm is the alarm state machine.
type Alarm struct {
	mu       sync.Mutex
	source   clock.Source
	sound    Sound
	log      *logger.Logger
	snooze   time.Duration
	state    State
	target   time.Time
	status   string
	pending  clock.Task
	gen      uint64
	listener func(Snapshot)
}

// New creates an idle alarm. sound may be nil.
func New(source clock.Source, sound Sound, log *logger.Logger, config model.AlarmConfig) *Alarm {
	snooze := config.SnoozeOffset
	if snooze <= 0 {
		snooze = DefaultSnooze
	}
	return &Alarm{
		source: source,
		sound:  sound,
		log:    log,
		snooze: snooze,
		state:  StateIdle,
	}
}

// SetListener registers the render callback. It runs after every
// transition, outside the alarm's lock.
func (alarm *Alarm) SetListener(listener func(Snapshot)) {
	alarm.mu.Lock()
	defer alarm.mu.Unlock()
	alarm.listener = listener
}

// UpdateConfig changes the snooze offset used by later snoozes.
func (alarm *Alarm) UpdateConfig(config model.AlarmConfig) {
	alarm.mu.Lock()
	defer alarm.mu.Unlock()
	if config.SnoozeOffset > 0 {
		alarm.snooze = config.SnoozeOffset
	}
}

// Snapshot returns the current state.
func (alarm *Alarm) Snapshot() Snapshot {
	alarm.mu.Lock()
	defer alarm.mu.Unlock()
	return alarm.snapshotLocked()
}

// ParseTimeOfDay parses "HH:MM" (24h).
func ParseTimeOfDay(value string) (int, int, error) {
	hourText, minuteText, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour %q", ErrInvalidTime, hourText)
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil || minute < 0 || minute > 59 || len(minuteText) != 2 {
		return 0, 0, fmt.Errorf("%w: minute %q", ErrInvalidTime, minuteText)
	}
	return hour, minute, nil
}

// Submit schedules the alarm from "HH:MM" input. Invalid input leaves the
// alarm untouched.
func (alarm *Alarm) Submit(value string) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(value)
	if err != nil {
		return time.Time{}, err
	}
	return alarm.ScheduleForTimeOfDay(hour, minute)
}

// ScheduleForTimeOfDay targets the next occurrence of hour:minute:00,
// rolling forward a day when today's occurrence is not in the future.
func (alarm *Alarm) ScheduleForTimeOfDay(hour, minute int) (time.Time, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, hour, minute)
	}
	now := alarm.source.Now()
	target := NextOccurrence(now, hour, minute)

	alarm.mu.Lock()
	wasRinging := alarm.state == StateRinging
	alarm.scheduleLocked(now, target)
	alarm.mu.Unlock()

	if wasRinging {
		alarm.stopSound()
	}
	alarm.notify()
	return target, nil
}

// NextOccurrence returns today's hour:minute in now's location, or
// tomorrow's when that is not after now.
func NextOccurrence(now time.Time, hour, minute int) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		target = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return target
}

// Stop silences a ringing alarm and returns to idle.
func (alarm *Alarm) Stop() {
	alarm.mu.Lock()
	if alarm.state != StateRinging {
		alarm.mu.Unlock()
		return
	}
	alarm.cancelLocked()
	alarm.state = StateIdle
	alarm.target = time.Time{}
	alarm.status = "Alarm stopped"
	alarm.mu.Unlock()

	alarm.stopSound()
	alarm.notify()
}

// Snooze re-arms a ringing alarm for the configured offset from now.
func (alarm *Alarm) Snooze() {
	alarm.mu.Lock()
	offset := alarm.snooze
	alarm.mu.Unlock()
	alarm.SnoozeFor(offset)
}

// SnoozeFor re-arms a ringing alarm offset from now.
func (alarm *Alarm) SnoozeFor(offset time.Duration) {
	if offset <= 0 {
		offset = DefaultSnooze
	}
	alarm.mu.Lock()
	if alarm.state != StateRinging {
		alarm.mu.Unlock()
		return
	}
	alarm.mu.Unlock()

	// Sound stops before the new schedule takes effect.
	alarm.stopSound()

	now := alarm.source.Now()
	alarm.mu.Lock()
	if alarm.state != StateRinging {
		alarm.mu.Unlock()
		return
	}
	alarm.scheduleLocked(now, now.Add(offset))
	alarm.mu.Unlock()

	alarm.log.Info("alarm: snoozed for %s", offset)
	alarm.notify()
}

// Clear cancels any schedule and silences the alarm from any state.
func (alarm *Alarm) Clear() {
	alarm.mu.Lock()
	alarm.cancelLocked()
	alarm.state = StateIdle
	alarm.target = time.Time{}
	alarm.status = "Alarm cleared"
	alarm.mu.Unlock()

	alarm.stopSound()
	alarm.notify()
}

func (alarm *Alarm) scheduleLocked(now, target time.Time) {
	alarm.cancelLocked()
	alarm.state = StateScheduled
	alarm.target = target
	alarm.status = fmt.Sprintf("Alarm set for %s (%s)", target.Format("15:04"), humanize.RelTime(target, now, "ago", "from now"))
	alarm.armLocked(target.Sub(now))
	alarm.log.Info("alarm: scheduled for %s", target.Format(time.RFC3339))
}

func (alarm *Alarm) armLocked(delay time.Duration) {
	alarm.gen++
	gen := alarm.gen
	alarm.pending = alarm.source.AfterFunc(delay, func() {
		alarm.fire(gen)
	})
}

func (alarm *Alarm) cancelLocked() {
	alarm.gen++
	if alarm.pending != nil {
		alarm.pending.Cancel()
		alarm.pending = nil
	}
}

func (alarm *Alarm) fire(gen uint64) {
	alarm.mu.Lock()
	if gen != alarm.gen || alarm.state != StateScheduled {
		alarm.mu.Unlock()
		return
	}
	now := alarm.source.Now()
	if now.Before(alarm.target) {
		// The wall clock moved back while waiting.
		alarm.armLocked(alarm.target.Sub(now))
		alarm.mu.Unlock()
		return
	}
	alarm.pending = nil
	alarm.state = StateRinging
	alarm.status = "Alarm ringing!"
	sound := alarm.sound
	alarm.mu.Unlock()

	alarm.log.Info("alarm: ringing")
	if sound != nil {
		// Playback may be refused by the platform; ringing proceeds silently.
		if err := sound.Start(); err != nil {
			alarm.log.Debug("alarm: alert sound unavailable: %v", err)
		}
	}
	alarm.notify()
}

func (alarm *Alarm) stopSound() {
	if alarm.sound == nil {
		return
	}
	if err := alarm.sound.Stop(); err != nil {
		alarm.log.Debug("alarm: stopping alert sound: %v", err)
	}
}

func (alarm *Alarm) snapshotLocked() Snapshot {
	return Snapshot{State: alarm.state, Target: alarm.target, Status: alarm.status}
}

func (alarm *Alarm) notify() {
	alarm.mu.Lock()
	listener := alarm.listener
	snapshot := alarm.snapshotLocked()
	alarm.mu.Unlock()
	if listener != nil {
		listener(snapshot)
	}
}
