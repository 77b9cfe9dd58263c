package status

import (
	"time"

	"tiltclock/internal/core/alarm"
	"tiltclock/internal/core/orientation"
	"tiltclock/internal/core/stopwatch"
	"tiltclock/internal/core/timer"
)

// Source identifies which part of the widget an event describes.
type Source string

const (
	SourceView      Source = "view"
	SourceAlarm     Source = "alarm"
	SourceStopwatch Source = "stopwatch"
	SourceTimer     Source = "timer"
)

// Event is a condensed state update for observers outside the views.
type Event struct {
	Source Source
	// Text is the one-line description of the source's state.
	Text string
	// Active marks a source that is counting or ringing.
	Active  bool
	Ringing bool
	View    orientation.ViewKey
	At      time.Time
}

// AlarmEvent condenses an alarm snapshot.
func AlarmEvent(snapshot alarm.Snapshot) Event {
	event := Event{Source: SourceAlarm, Text: snapshot.Status}
	switch snapshot.State {
	case alarm.StateRinging:
		event.Active = true
		event.Ringing = true
	case alarm.StateScheduled:
		event.Text = "Alarm " + snapshot.Target.Format("15:04")
	default:
		event.Text = ""
	}
	return event
}

// StopwatchEvent condenses a stopwatch snapshot. Elapsed time is left out
// so the event only changes on start, pause and reset.
func StopwatchEvent(snapshot stopwatch.Snapshot) Event {
	event := Event{Source: SourceStopwatch, Active: snapshot.Running}
	switch {
	case snapshot.Running:
		event.Text = "Stopwatch running"
	case snapshot.Elapsed > 0:
		event.Text = "Stopwatch " + snapshot.Display()
	}
	return event
}

// TimerEvent condenses a timer snapshot. The text changes once a second
// while running.
func TimerEvent(snapshot timer.Snapshot) Event {
	event := Event{Source: SourceTimer}
	switch snapshot.State {
	case timer.StateRunning:
		event.Active = true
		event.Text = "Timer " + timer.Format(snapshot.Remaining)
	case timer.StatePaused:
		event.Text = "Timer paused at " + timer.Format(snapshot.Remaining)
	case timer.StateCompleted:
		event.Text = snapshot.Status
	}
	return event
}

// ViewEvent records a view switch.
func ViewEvent(transition orientation.Transition) Event {
	return Event{Source: SourceView, View: transition.To, Text: "Showing " + string(transition.To)}
}
