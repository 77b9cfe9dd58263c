package timer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiltclock/internal/core/clock"
	"tiltclock/internal/core/model"
	"tiltclock/internal/logger"
)

// mockEffects records completion effects.
type mockEffects struct {
	mu            sync.Mutex
	notifications []string
	patterns      [][]time.Duration
	notifyErr     error
	vibrateErr    error
}

func (m *mockEffects) Notify(title, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, title)
	return m.notifyErr
}

func (m *mockEffects) Vibrate(pattern []time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = append(m.patterns, pattern)
	return m.vibrateErr
}

func newTestTimer() (*Timer, *clock.Fake, *mockEffects) {
	fake := clock.NewFake(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	effects := &mockEffects{}
	return New(fake, effects, effects, logger.Discard(), model.TimerConfig{}), fake, effects
}

func TestStartWithoutDurationIsRejected(t *testing.T) {
	timer, fake, _ := newTestTimer()
	timer.SetInput(0, 0)

	err := timer.Toggle()
	require.ErrorIs(t, err, ErrNoDuration)

	snapshot := timer.Snapshot()
	assert.Equal(t, StateIdle, snapshot.State)
	assert.Equal(t, "Set a duration first", snapshot.Status)
	assert.Zero(t, fake.Pending())
}

func TestCompletesExactlyOnce(t *testing.T) {
	timer, fake, effects := newTestTimer()
	timer.SetInput(0, 1)

	var completions int
	var lastRemaining time.Duration = -1
	timer.SetListener(func(snapshot Snapshot) {
		assert.GreaterOrEqual(t, snapshot.Remaining, time.Duration(0))
		assert.LessOrEqual(t, snapshot.Remaining, snapshot.Total)
		lastRemaining = snapshot.Remaining
		if snapshot.State == StateCompleted {
			completions++
		}
	})

	require.NoError(t, timer.Toggle())
	assert.Equal(t, StateRunning, timer.Snapshot().State)

	fake.Advance(1500 * time.Millisecond)
	fake.Advance(time.Second)

	snapshot := timer.Snapshot()
	assert.Equal(t, StateCompleted, snapshot.State)
	assert.Zero(t, snapshot.Remaining)
	assert.Zero(t, lastRemaining)
	assert.Equal(t, "Time is up!", snapshot.Status)
	assert.Equal(t, 1, completions)
	assert.Equal(t, []string{"Timer complete"}, effects.notifications)
	require.Len(t, effects.patterns, 1)
	assert.Equal(t, DefaultVibration, effects.patterns[0])
	assert.Zero(t, fake.Pending())
}

func TestCompletedIsTerminalUntilReset(t *testing.T) {
	timer, fake, _ := newTestTimer()
	timer.SetInput(0, 1)
	require.NoError(t, timer.Toggle())
	fake.Advance(2 * time.Second)

	require.NoError(t, timer.Toggle())
	assert.Equal(t, StateCompleted, timer.Snapshot().State)

	timer.Reset()
	require.NoError(t, timer.Toggle())
	assert.Equal(t, StateRunning, timer.Snapshot().State)
}

func TestEffectFailuresAreIgnored(t *testing.T) {
	timer, fake, effects := newTestTimer()
	effects.notifyErr = errors.New("permission denied")
	effects.vibrateErr = errors.New("unsupported")
	timer.SetInput(0, 1)
	require.NoError(t, timer.Toggle())
	fake.Advance(2 * time.Second)

	assert.Equal(t, StateCompleted, timer.Snapshot().State)
	assert.Len(t, effects.patterns, 1)
}

func TestCompletesWithoutCapabilities(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	timer := New(fake, nil, nil, logger.Discard(), model.TimerConfig{})
	timer.SetInput(0, 1)
	require.NoError(t, timer.Toggle())
	fake.Advance(2 * time.Second)
	assert.Equal(t, StateCompleted, timer.Snapshot().State)
}

func TestPauseFreezesAndResumeContinues(t *testing.T) {
	timer, fake, _ := newTestTimer()
	timer.SetInput(1, 0)
	require.NoError(t, timer.Toggle())

	fake.Advance(20 * time.Second)
	require.NoError(t, timer.Toggle())
	paused := timer.Snapshot()
	assert.Equal(t, StatePaused, paused.State)
	assert.Equal(t, "Paused", paused.Status)
	assert.Equal(t, 40*time.Second, paused.Remaining)
	assert.Zero(t, fake.Pending())

	fake.Advance(time.Hour)
	assert.Equal(t, 40*time.Second, timer.Snapshot().Remaining)

	require.NoError(t, timer.Toggle())
	fake.Advance(10 * time.Second)
	running := timer.Snapshot()
	assert.Equal(t, time.Minute, running.Total)
	assert.InDelta(t, 30*time.Second, running.Remaining, float64(clock.DefaultFrameInterval))
	assert.InDelta(t, 0.5, running.Progress(), 0.01)
}

func TestRemainingIsDeadlineBased(t *testing.T) {
	timer, fake, _ := newTestTimer()
	fake.SetFrameInterval(time.Second)
	timer.SetInput(0, 10)
	require.NoError(t, timer.Toggle())

	// A frame that arrives late still reads the true remaining time.
	fake.SetFrameInterval(3 * time.Second)
	fake.Advance(1 * time.Second)
	fake.Advance(3 * time.Second)
	assert.Equal(t, 6*time.Second, timer.Snapshot().Remaining)
}

func TestResetZeroesEverything(t *testing.T) {
	timer, fake, _ := newTestTimer()
	timer.SetInput(0, 30)
	require.NoError(t, timer.Toggle())
	fake.Advance(5 * time.Second)

	timer.Reset()
	snapshot := timer.Snapshot()
	assert.Equal(t, StateIdle, snapshot.State)
	assert.Zero(t, snapshot.Total)
	assert.Zero(t, snapshot.Remaining)
	assert.Empty(t, snapshot.Status)
	assert.Equal(t, "00:00", snapshot.Display())
	assert.Zero(t, snapshot.Progress())
	assert.Zero(t, fake.Pending())
}

func TestPresetPreviewsWithoutStarting(t *testing.T) {
	timer, fake, _ := newTestTimer()
	timer.ApplyPreset(5 * time.Minute)

	snapshot := timer.Snapshot()
	assert.Equal(t, StateIdle, snapshot.State)
	assert.Equal(t, "05:00", snapshot.Display())
	assert.Zero(t, snapshot.Progress())
	assert.Zero(t, fake.Pending())

	require.NoError(t, timer.Toggle())
	assert.Equal(t, 5*time.Minute, timer.Snapshot().Total)
}

func TestPresetDiscardsPausedCountdown(t *testing.T) {
	timer, fake, _ := newTestTimer()
	timer.SetInput(0, 30)
	require.NoError(t, timer.Toggle())
	fake.Advance(10 * time.Second)
	require.NoError(t, timer.Toggle())

	timer.ApplyPreset(time.Minute)
	require.NoError(t, timer.Toggle())
	assert.Equal(t, time.Minute, timer.Snapshot().Remaining)
}

func TestProgress(t *testing.T) {
	assert.InDelta(t, 0.6, Progress(10*time.Second, 4*time.Second), 1e-9)
	assert.Zero(t, Progress(0, 0))
	assert.Zero(t, Progress(0, 5*time.Second))
	assert.Equal(t, 1.0, Progress(time.Second, 0))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "00:00", Format(0))
	assert.Equal(t, "00:01", Format(time.Millisecond))
	assert.Equal(t, "01:00", Format(time.Minute))
	assert.Equal(t, "01:30", Format(89*time.Second+100*time.Millisecond))
	assert.Equal(t, "00:00", Format(-time.Second))
}

func TestInputDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, InputDuration(1, 30))
	assert.Equal(t, 30*time.Second, InputDuration(-1, 30))
}

func TestRingLayers(t *testing.T) {
	ring := DefaultRing
	size := ring.Size
	center := size / 2
	radiusPx := int(float64(center) - ring.Inset)

	top := func(progress float64) Layer { return ring.LayerAt(center, center-radiusPx, size, progress) }
	right := func(progress float64) Layer { return ring.LayerAt(center+radiusPx, center, size, progress) }
	left := func(progress float64) Layer { return ring.LayerAt(center-radiusPx, center, size, progress) }

	assert.Equal(t, LayerNone, ring.LayerAt(center, center, size, 0.5))
	assert.Equal(t, LayerNone, ring.LayerAt(0, 0, size, 0.5))

	assert.Equal(t, LayerBackground, right(0))
	assert.Equal(t, LayerProgress, right(0.3))
	assert.Equal(t, LayerBackground, left(0.3))
	assert.Equal(t, LayerProgress, left(0.8))
	assert.Equal(t, LayerProgress, top(1))
	assert.Equal(t, LayerProgress, left(2))
	assert.Equal(t, LayerBackground, left(-1))
}

func TestArcAngles(t *testing.T) {
	start, end := ArcAngles(0.25)
	assert.InDelta(t, -1.5708, start, 1e-4)
	assert.InDelta(t, 0, end, 1e-9)
}
