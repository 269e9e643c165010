// Package eventloop runs queued tasks, timers and animation frames on a
// single logical thread. Callbacks are always invoked outside the loop's
// lock, so they may schedule or cancel further work.
package eventloop

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultFrameInterval is the animation frame period (60 Hz).
const DefaultFrameInterval = time.Second / 60

// timer is a scheduled setTimeout or setInterval callback.
type timer struct {
	id       int
	callback func()
	due      time.Time
	interval time.Duration // 0 for one-shot timers
	seq      uint64
}

// frame is a pending requestAnimationFrame callback.
type frame struct {
	id       int
	callback func(ts float64)
}

// Loop is a cooperative event loop. The zero value is not usable; use New.
type Loop struct {
	clock         Clock
	frameInterval time.Duration
	log           logrus.FieldLogger
	start         time.Time

	mu        sync.Mutex
	tasks     []func()
	timers    map[int]*timer
	frames    []frame
	nextFrame time.Time
	nextID    int
	seq       uint64
	wake      chan struct{}
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock sets the loop's time source.
func WithClock(c Clock) Option {
	return func(l *Loop) { l.clock = c }
}

// WithFrameInterval sets the animation frame period.
func WithFrameInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

// WithLogger sets where recovered callback panics are reported.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Loop) { l.log = log }
}

// New creates a loop on the system clock.
func New(opts ...Option) *Loop {
	l := &Loop{
		clock:         SystemClock(),
		frameInterval: DefaultFrameInterval,
		log:           logrus.StandardLogger(),
		timers:        make(map[int]*timer),
		nextID:        1,
		wake:          make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.start = l.clock.Now()
	return l
}

// Clock returns the loop's time source.
func (l *Loop) Clock() Clock { return l.clock }

// Now returns milliseconds since the loop was created, the timestamp
// passed to animation frame callbacks.
func (l *Loop) Now() float64 {
	return float64(l.clock.Now().Sub(l.start)) / float64(time.Millisecond)
}

func (l *Loop) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) allocID() int {
	id := l.nextID
	l.nextID++
	return id
}

// QueueTask appends fn to the task queue.
func (l *Loop) QueueTask(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.notify()
}

// SetTimeout schedules fn to run once after delay and returns its id.
// Negative delays are treated as zero.
func (l *Loop) SetTimeout(fn func(), delay time.Duration) int {
	return l.addTimer(fn, delay, 0)
}

// SetInterval schedules fn to run every interval and returns its id.
func (l *Loop) SetInterval(fn func(), interval time.Duration) int {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return l.addTimer(fn, interval, interval)
}

func (l *Loop) addTimer(fn func(), delay, interval time.Duration) int {
	if delay < 0 {
		delay = 0
	}
	l.mu.Lock()
	id := l.allocID()
	l.seq++
	l.timers[id] = &timer{
		id:       id,
		callback: fn,
		due:      l.clock.Now().Add(delay),
		interval: interval,
		seq:      l.seq,
	}
	l.mu.Unlock()
	l.notify()
	return id
}

// ClearTimeout cancels a timer or interval. Unknown ids are ignored.
func (l *Loop) ClearTimeout(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.timers, id)
}

// RequestAnimationFrame schedules fn for the next frame and returns its id.
func (l *Loop) RequestAnimationFrame(fn func(ts float64)) int {
	l.mu.Lock()
	id := l.allocID()
	if len(l.frames) == 0 {
		now := l.clock.Now()
		if l.nextFrame.Before(now) {
			l.nextFrame = now.Add(l.frameInterval)
		}
	}
	l.frames = append(l.frames, frame{id: id, callback: fn})
	l.mu.Unlock()
	l.notify()
	return id
}

// CancelAnimationFrame cancels a pending frame callback.
func (l *Loop) CancelAnimationFrame(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, f := range l.frames {
		if f.id == id {
			l.frames = append(l.frames[:i], l.frames[i+1:]...)
			return
		}
	}
}

// Pending reports the number of queued tasks, timers and frame callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks) + len(l.timers) + len(l.frames)
}

// RunOnce runs the queued tasks, then every due timer in due order, then
// the current frame's callbacks if a frame is due. Work scheduled by those
// callbacks waits for the next turn. It reports whether anything ran.
func (l *Loop) RunOnce() bool {
	ran := false

	l.mu.Lock()
	tasks := l.tasks
	l.tasks = nil
	l.mu.Unlock()
	for _, fn := range tasks {
		l.call(func() { fn() })
		ran = true
	}

	for _, t := range l.dueTimers() {
		l.mu.Lock()
		_, live := l.timers[t.id]
		if live {
			if t.interval > 0 {
				t.due = t.due.Add(t.interval)
			} else {
				delete(l.timers, t.id)
			}
		}
		l.mu.Unlock()
		if live {
			l.call(t.callback)
			ran = true
		}
	}

	l.mu.Lock()
	var frames []frame
	now := l.clock.Now()
	if len(l.frames) > 0 && !now.Before(l.nextFrame) {
		frames = l.frames
		l.frames = nil
		l.nextFrame = now.Add(l.frameInterval)
	}
	l.mu.Unlock()
	if len(frames) > 0 {
		ts := l.Now()
		for _, f := range frames {
			cb := f.callback
			l.call(func() { cb(ts) })
		}
		ran = true
	}
	return ran
}

func (l *Loop) dueTimers() []*timer {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	var due []*timer
	for _, t := range l.timers {
		if !t.due.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].due.Equal(due[j].due) {
			return due[i].due.Before(due[j].due)
		}
		return due[i].seq < due[j].seq
	})
	return due
}

// nextDeadline returns the earliest time a timer or frame becomes due.
func (l *Loop) nextDeadline() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var next time.Time
	found := false
	for _, t := range l.timers {
		if !found || t.due.Before(next) {
			next, found = t.due, true
		}
	}
	if len(l.frames) > 0 && (!found || l.nextFrame.Before(next)) {
		next, found = l.nextFrame, true
	}
	return next, found
}

func (l *Loop) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.WithField("panic", r).Error("eventloop: callback panicked")
		}
	}()
	fn()
}

// Advance moves a ManualClock forward by d, running every task, timer and
// frame that falls due along the way in time order. On other clocks it
// sleeps for d and runs one turn.
func (l *Loop) Advance(d time.Duration) {
	mc, ok := l.clock.(*ManualClock)
	if !ok {
		time.Sleep(d)
		l.RunOnce()
		return
	}
	target := mc.Now().Add(d)
	for {
		for l.RunOnce() {
		}
		next, ok := l.nextDeadline()
		if !ok || next.After(target) {
			break
		}
		mc.Set(next)
	}
	mc.Set(target)
	for l.RunOnce() {
	}
}

// RunUntilIdle runs the loop until no work is pending or ctx is done.
// Pending timers are waited for: on a ManualClock time jumps straight to
// the next deadline, otherwise the loop sleeps until it or new work arrives.
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.RunOnce() {
			continue
		}
		next, ok := l.nextDeadline()
		if !ok {
			l.mu.Lock()
			idle := len(l.tasks) == 0
			l.mu.Unlock()
			if idle {
				return nil
			}
			continue
		}
		if mc, manual := l.clock.(*ManualClock); manual {
			mc.Set(next)
			continue
		}
		wait := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			wait.Stop()
			return ctx.Err()
		case <-l.wake:
			wait.Stop()
		case <-wait.C:
		}
	}
}
