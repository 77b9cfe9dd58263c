package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeRunsCallbacksInDueOrder(t *testing.T) {
	fake := NewFake(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	var order []string
	fake.AfterFunc(30*time.Millisecond, func() { order = append(order, "late") })
	fake.AfterFunc(10*time.Millisecond, func() { order = append(order, "early") })
	fake.RequestFrame(func() { order = append(order, "frame") })

	fake.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"early", "frame"}, order)

	fake.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"early", "frame", "late"}, order)
	assert.Equal(t, 40*time.Millisecond, fake.Monotonic())
	assert.Equal(t, time.Date(2026, 3, 1, 8, 0, 0, int(40*time.Millisecond), time.UTC), fake.Now())
}

func TestFakeCallbackSeesItsDueTime(t *testing.T) {
	fake := NewFake(time.Unix(0, 0))
	var seen time.Duration
	fake.AfterFunc(25*time.Millisecond, func() { seen = fake.Monotonic() })

	fake.Advance(time.Second)
	assert.Equal(t, 25*time.Millisecond, seen)
}

func TestFakeCancelIsIdempotent(t *testing.T) {
	fake := NewFake(time.Unix(0, 0))
	ran := false
	task := fake.AfterFunc(time.Millisecond, func() { ran = true })
	task.Cancel()
	task.Cancel()

	fake.Advance(time.Second)
	assert.False(t, ran)
	assert.Zero(t, fake.Pending())
}

func TestFakeFrameLoopReschedules(t *testing.T) {
	fake := NewFake(time.Unix(0, 0))
	fake.SetFrameInterval(10 * time.Millisecond)

	ticks := 0
	var loop func()
	loop = func() {
		ticks++
		fake.RequestFrame(loop)
	}
	fake.RequestFrame(loop)

	fake.Advance(100 * time.Millisecond)
	assert.Equal(t, 10, ticks)
	assert.Equal(t, 1, fake.Pending())
}

func TestFakeSetWallLeavesMonotonicAlone(t *testing.T) {
	fake := NewFake(time.Unix(1000, 0))
	fake.Advance(time.Second)
	fake.SetWall(time.Unix(0, 0))

	assert.Equal(t, time.Second, fake.Monotonic())
	assert.Equal(t, time.Unix(0, 0), fake.Now())
}

func TestSystemAfterFuncFires(t *testing.T) {
	system := NewSystem(0)
	var fired atomic.Bool
	done := make(chan struct{})
	system.AfterFunc(5*time.Millisecond, func() {
		fired.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("AfterFunc did not fire")
	}
	require.True(t, fired.Load())
}

func TestSystemCancelStopsFrame(t *testing.T) {
	system := NewSystem(20 * time.Millisecond)
	var fired atomic.Bool
	task := system.RequestFrame(func() { fired.Store(true) })
	task.Cancel()
	task.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestSystemMonotonicNonDecreasing(t *testing.T) {
	system := NewSystem(0)
	first := system.Monotonic()
	second := system.Monotonic()
	assert.GreaterOrEqual(t, second, first)
}
