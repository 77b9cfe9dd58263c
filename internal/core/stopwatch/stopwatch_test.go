package stopwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiltclock/internal/core/clock"
)

func newTestStopwatch() (*Stopwatch, *clock.Fake) {
	fake := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(fake), fake
}

func TestElapsedMatchesRunTime(t *testing.T) {
	stopwatch, fake := newTestStopwatch()

	stopwatch.Toggle()
	fake.Advance(1234 * time.Millisecond)
	stopwatch.Toggle()

	snapshot := stopwatch.Snapshot()
	assert.False(t, snapshot.Running)
	assert.Equal(t, 1234*time.Millisecond, snapshot.Elapsed)
	assert.Equal(t, "00:01.23", snapshot.Display())
}

func TestResumeContinuesAccumulation(t *testing.T) {
	stopwatch, fake := newTestStopwatch()

	stopwatch.Start()
	fake.Advance(2 * time.Second)
	stopwatch.Pause()

	fake.Advance(10 * time.Second)
	assert.Equal(t, 2*time.Second, stopwatch.Snapshot().Elapsed)

	stopwatch.Start()
	fake.Advance(3 * time.Second)
	stopwatch.Pause()

	assert.Equal(t, 5*time.Second, stopwatch.Snapshot().Elapsed)
}

func TestFrameLoopRefreshesWhileRunningOnly(t *testing.T) {
	stopwatch, fake := newTestStopwatch()
	fake.SetFrameInterval(10 * time.Millisecond)

	var frames []time.Duration
	stopwatch.SetListener(func(snapshot Snapshot) {
		if snapshot.Running {
			frames = append(frames, snapshot.Elapsed)
		}
	})

	stopwatch.Toggle()
	fake.Advance(50 * time.Millisecond)
	require.Len(t, frames, 6)
	assert.Equal(t, 50*time.Millisecond, frames[len(frames)-1])
	assert.Equal(t, 1, fake.Pending())

	stopwatch.Toggle()
	assert.Zero(t, fake.Pending())

	count := len(frames)
	fake.Advance(time.Second)
	assert.Len(t, frames, count)
}

func TestLapsMostRecentFirst(t *testing.T) {
	stopwatch, fake := newTestStopwatch()

	stopwatch.Toggle()
	fake.Advance(time.Second)
	first := stopwatch.Lap()
	fake.Advance(time.Second)
	stopwatch.Toggle()
	second := stopwatch.Lap()
	third := stopwatch.Lap()

	assert.Equal(t, Lap{Index: 1, Elapsed: time.Second}, first)
	assert.Equal(t, Lap{Index: 2, Elapsed: 2 * time.Second}, second)
	assert.Equal(t, 3, third.Index)

	laps := stopwatch.Snapshot().Laps
	require.Len(t, laps, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{laps[0].Index, laps[1].Index, laps[2].Index})
}

func TestLapsSurviveToggle(t *testing.T) {
	stopwatch, fake := newTestStopwatch()
	stopwatch.Toggle()
	fake.Advance(time.Second)
	stopwatch.Lap()
	stopwatch.Toggle()
	stopwatch.Toggle()

	assert.Len(t, stopwatch.Snapshot().Laps, 1)
}

func TestResetClearsEverything(t *testing.T) {
	stopwatch, fake := newTestStopwatch()
	stopwatch.Toggle()
	fake.Advance(3 * time.Second)
	stopwatch.Lap()

	stopwatch.Reset()
	snapshot := stopwatch.Snapshot()
	assert.False(t, snapshot.Running)
	assert.Zero(t, snapshot.Elapsed)
	assert.Empty(t, snapshot.Laps)
	assert.Equal(t, ZeroDisplay, snapshot.Display())
	assert.Zero(t, fake.Pending())

	stopwatch.Toggle()
	fake.Advance(time.Second)
	assert.Equal(t, time.Second, stopwatch.Snapshot().Elapsed)
}

func TestSnapshotLapsAreCopies(t *testing.T) {
	stopwatch, _ := newTestStopwatch()
	stopwatch.Lap()
	snapshot := stopwatch.Snapshot()
	snapshot.Laps[0].Index = 99

	assert.Equal(t, 1, stopwatch.Snapshot().Laps[0].Index)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "00:00.00", Format(0))
	assert.Equal(t, "00:00.00", Format(-time.Second))
	assert.Equal(t, "00:00.09", Format(99*time.Millisecond))
	assert.Equal(t, "01:05.50", Format(65500*time.Millisecond))
	assert.Equal(t, "120:00.00", Format(2*time.Hour))
}
