package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiltclock/internal/core/alarm"
	"tiltclock/internal/core/clock"
	"tiltclock/internal/core/orientation"
	"tiltclock/internal/core/stopwatch"
	"tiltclock/internal/core/timer"
)

func TestPublishDeduplicates(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	hub := NewHub(fake)
	events := hub.Subscribe(4)

	running := timer.Snapshot{State: timer.StateRunning, Total: time.Minute, Remaining: 59500 * time.Millisecond}
	assert.True(t, hub.Publish(TimerEvent(running)))
	running.Remaining = 59100 * time.Millisecond
	assert.False(t, hub.Publish(TimerEvent(running)))
	running.Remaining = 58900 * time.Millisecond
	assert.True(t, hub.Publish(TimerEvent(running)))

	require.Len(t, events, 2)
	first := <-events
	assert.Equal(t, "Timer 01:00", first.Text)
	assert.Equal(t, fake.Now(), first.At)
	assert.Equal(t, "Timer 00:59", (<-events).Text)
}

func TestSummaryPriority(t *testing.T) {
	hub := NewHub(nil)
	assert.Equal(t, "idle", hub.Summary())

	hub.Publish(ViewEvent(orientation.Transition{To: orientation.ViewWeather}))
	assert.Equal(t, "Showing weather", hub.Summary())

	target := time.Date(2026, 2, 1, 7, 30, 0, 0, time.UTC)
	hub.Publish(AlarmEvent(alarm.Snapshot{State: alarm.StateScheduled, Target: target}))
	assert.Equal(t, "Alarm 07:30", hub.Summary())

	hub.Publish(StopwatchEvent(stopwatch.Snapshot{Running: true, Elapsed: time.Second}))
	assert.Equal(t, "Stopwatch running", hub.Summary())

	hub.Publish(TimerEvent(timer.Snapshot{State: timer.StateRunning, Remaining: 90 * time.Second}))
	assert.Equal(t, "Timer 01:30", hub.Summary())

	hub.Publish(AlarmEvent(alarm.Snapshot{State: alarm.StateRinging, Status: "Alarm ringing!"}))
	assert.Equal(t, "Alarm ringing!", hub.Summary())
	latest, ok := hub.Latest(SourceAlarm)
	require.True(t, ok)
	assert.True(t, latest.Ringing)
}

func TestStoppedSourcesFallBack(t *testing.T) {
	hub := NewHub(nil)
	hub.Publish(StopwatchEvent(stopwatch.Snapshot{Elapsed: 1234 * time.Millisecond}))
	assert.Equal(t, "Stopwatch 00:01.23", hub.Summary())

	hub.Publish(StopwatchEvent(stopwatch.Snapshot{}))
	hub.Publish(AlarmEvent(alarm.Snapshot{State: alarm.StateIdle, Status: "Alarm cleared"}))
	hub.Publish(ViewEvent(orientation.Transition{To: orientation.ViewAlarm}))
	assert.Equal(t, "Showing alarm", hub.Summary())
}

func TestFullSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	events := hub.Subscribe(1)

	hub.Publish(ViewEvent(orientation.Transition{To: orientation.ViewAlarm}))
	hub.Publish(ViewEvent(orientation.Transition{To: orientation.ViewTimer}))
	assert.Len(t, events, 1)

	hub.Close()
	hub.Close()
	assert.False(t, hub.Publish(ViewEvent(orientation.Transition{To: orientation.ViewWeather})))
	_, open := <-events
	assert.True(t, open)
	_, open = <-events
	assert.False(t, open)

	_, open = <-hub.Subscribe(1)
	assert.False(t, open)
}
