package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manually advanced Source for tests. Callbacks run synchronously
// inside Advance, in due order, on the caller's goroutine.
type Fake struct {
	mu            sync.Mutex
	wall          time.Time
	mono          time.Duration
	frameInterval time.Duration
	seq           int
	tasks         []*fakeTask
}

type fakeTask struct {
	owner    *Fake
	due      time.Duration
	seq      int
	fn       func()
	canceled bool
}

// NewFake creates a Fake whose wall clock starts at wall.
func NewFake(wall time.Time) *Fake {
	return &Fake{wall: wall, frameInterval: DefaultFrameInterval}
}

// SetFrameInterval changes the spacing of frame callbacks.
func (fake *Fake) SetFrameInterval(d time.Duration) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.frameInterval = d
}

// Now returns the fake wall clock.
func (fake *Fake) Now() time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.wall
}

// Monotonic returns the fake monotonic reading.
func (fake *Fake) Monotonic() time.Duration {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.mono
}

// SetWall moves the wall clock without touching monotonic time, like a
// user changing the system clock.
func (fake *Fake) SetWall(wall time.Time) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.wall = wall
}

// AfterFunc queues fn to run once d has been advanced.
func (fake *Fake) AfterFunc(d time.Duration, fn func()) Task {
	if d < 0 {
		d = 0
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.addLocked(d, fn)
}

// RequestFrame queues fn one frame interval ahead.
func (fake *Fake) RequestFrame(fn func()) Task {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.addLocked(fake.frameInterval, fn)
}

// Pending reports how many callbacks are queued and not canceled.
func (fake *Fake) Pending() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	count := 0
	for _, task := range fake.tasks {
		if !task.canceled {
			count++
		}
	}
	return count
}

// Advance moves both clocks forward by d, running every callback that
// becomes due. Callbacks scheduled while advancing run too if they fall
// inside the window.
func (fake *Fake) Advance(d time.Duration) {
	fake.mu.Lock()
	target := fake.mono + d
	for {
		task := fake.nextDueLocked(target)
		if task == nil {
			break
		}
		fake.wall = fake.wall.Add(task.due - fake.mono)
		fake.mono = task.due
		fake.mu.Unlock()
		task.fn()
		fake.mu.Lock()
	}
	fake.wall = fake.wall.Add(target - fake.mono)
	fake.mono = target
	fake.mu.Unlock()
}

func (fake *Fake) addLocked(d time.Duration, fn func()) *fakeTask {
	fake.seq++
	task := &fakeTask{owner: fake, due: fake.mono + d, seq: fake.seq, fn: fn}
	fake.tasks = append(fake.tasks, task)
	return task
}

func (fake *Fake) nextDueLocked(target time.Duration) *fakeTask {
	live := fake.tasks[:0]
	for _, task := range fake.tasks {
		if !task.canceled {
			live = append(live, task)
		}
	}
	fake.tasks = live
	if len(fake.tasks) == 0 {
		return nil
	}
	sort.SliceStable(fake.tasks, func(i, j int) bool {
		if fake.tasks[i].due == fake.tasks[j].due {
			return fake.tasks[i].seq < fake.tasks[j].seq
		}
		return fake.tasks[i].due < fake.tasks[j].due
	})
	next := fake.tasks[0]
	if next.due > target {
		return nil
	}
	fake.tasks = fake.tasks[1:]
	return next
}

func (task *fakeTask) Cancel() {
	task.owner.mu.Lock()
	defer task.owner.mu.Unlock()
	task.canceled = true
}
