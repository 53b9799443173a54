package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock. Callbacks run synchronously on the
// goroutine calling Advance or Set, in deadline order.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	timers timerHeap
	seq    uint64
}

// NewFake returns a Fake clock positioned at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

type fakeTimer struct {
	f     *Fake
	at    time.Time
	fn    func()
	seq   uint64
	index int
}

func (t *fakeTimer) Stop() bool {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	return heapRemove(&t.f.timers, t)
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d < 0 {
		d = 0
	}
	f.seq++
	t := &fakeTimer{f: f, at: f.now.Add(d), fn: fn, seq: f.seq, index: -1}
	heapPush(&f.timers, t)
	return t
}

// Advance moves the clock forward by d, running every callback that
// becomes due. Callbacks may arm new timers; those run too if they fall
// inside the window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()
	f.runUntil(target)
}

// Set jumps the clock to t without running any callbacks, as a suspended
// machine would. Callbacks due before t run on the next Advance.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Pending returns the number of armed timers.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timers.Len()
}

// Next returns the deadline of the earliest armed timer.
func (f *Fake) Next() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timers.Len() == 0 {
		return time.Time{}, false
	}
	return f.timers[0].at, true
}

// Step advances straight to the earliest armed timer and runs it.
// Returns false when nothing is armed.
func (f *Fake) Step() bool {
	f.mu.Lock()
	if f.timers.Len() == 0 {
		f.mu.Unlock()
		return false
	}
	t := heapPop(&f.timers)
	if t.at.After(f.now) {
		f.now = t.at
	}
	f.mu.Unlock()
	t.fn()
	return true
}

func (f *Fake) runUntil(target time.Time) {
	for {
		f.mu.Lock()
		if f.timers.Len() == 0 || f.timers[0].at.After(target) {
			if target.After(f.now) {
				f.now = target
			}
			f.mu.Unlock()
			return
		}
		t := heapPop(&f.timers)
		if t.at.After(f.now) {
			f.now = t.at
		}
		f.mu.Unlock()
		t.fn()
	}
}

var _ Clock = (*Fake)(nil)
