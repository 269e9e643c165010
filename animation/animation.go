// Package animation plays keyframe animations on an element's inline
// style, one step per animation frame.
package animation

import (
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/chrisuehlinger/domman/css"
	"github.com/chrisuehlinger/domman/dom"
	"github.com/pkg/errors"
)

// Scheduler delivers animation frames. *eventloop.Loop implements it.
type Scheduler interface {
	RequestAnimationFrame(fn func(ts float64)) int
	CancelAnimationFrame(id int)
}

// Keyframe is a set of style declarations. Property names may be camel or
// kebab case. The optional "offset" entry places the keyframe in [0, 1];
// keyframes without one are spaced evenly.
type Keyframe map[string]string

// Timing mirrors the options of Element.animate.
type Timing struct {
	Duration   time.Duration
	Delay      time.Duration
	Easing     string
	Fill       string  // none, forwards, backwards or both
	Iterations float64 // 0 means 1; math.Inf(1) repeats forever
	Direction  string  // normal, reverse, alternate or alternate-reverse
}

// PlayState is the state of an Animation.
type PlayState string

const (
	Idle     PlayState = "idle"
	Running  PlayState = "running"
	Paused   PlayState = "paused"
	Finished PlayState = "finished"
)

type frame struct {
	offset float64
	values map[string]string
}

// Animation is a keyframe animation bound to one element.
type Animation struct {
	el     *dom.Element
	sched  Scheduler
	timing Timing
	easing EasingFunc
	frames []frame
	props  []string
	// inline values before the first frame, restored on cancel
	original map[string]string

	mu       sync.Mutex
	state    PlayState
	current  float64 // ms
	lastTS   float64
	rafID    int
	onFinish func()
	onCancel func()
}

// New prepares an animation without starting it.
func New(sched Scheduler, el *dom.Element, keyframes []Keyframe, timing Timing) (*Animation, error) {
	if sched == nil || el == nil {
		return nil, errors.New("animation: nil scheduler or element")
	}
	if len(keyframes) == 0 {
		return nil, errors.New("animation: no keyframes")
	}
	easing, err := ParseEasing(timing.Easing)
	if err != nil {
		return nil, errors.Wrap(err, "animation")
	}
	if timing.Iterations == 0 {
		timing.Iterations = 1
	}
	if timing.Iterations < 0 || math.IsNaN(timing.Iterations) {
		return nil, errors.Errorf("animation: invalid iteration count %v", timing.Iterations)
	}

	a := &Animation{
		el:       el,
		sched:    sched,
		timing:   timing,
		easing:   easing,
		original: make(map[string]string),
		state:    Idle,
		lastTS:   -1,
	}
	if err := a.normalize(keyframes); err != nil {
		return nil, err
	}
	return a, nil
}

// Animate creates an animation and starts playing it.
func Animate(sched Scheduler, el *dom.Element, keyframes []Keyframe, timing Timing) (*Animation, error) {
	a, err := New(sched, el, keyframes, timing)
	if err != nil {
		return nil, err
	}
	a.Play()
	return a, nil
}

func (a *Animation) normalize(keyframes []Keyframe) error {
	style := a.el.Style()
	seen := make(map[string]bool)
	offsets := make([]float64, len(keyframes))
	for i, kf := range keyframes {
		offsets[i] = math.NaN()
		f := frame{values: make(map[string]string)}
		for name, v := range kf {
			if name == "offset" {
				o, err := strconv.ParseFloat(v, 64)
				if err != nil || o < 0 || o > 1 {
					return errors.Errorf("animation: invalid offset %q", v)
				}
				offsets[i] = o
				continue
			}
			prop := css.CamelToKebab(name)
			f.values[prop] = v
			if !seen[prop] {
				seen[prop] = true
				a.props = append(a.props, prop)
				a.original[prop] = style.GetPropertyValue(prop)
			}
		}
		a.frames = append(a.frames, f)
	}
	sort.Strings(a.props)

	if len(a.frames) == 1 {
		// implicit from-keyframe at the current inline values
		from := frame{values: make(map[string]string)}
		a.frames = append([]frame{from}, a.frames...)
		offsets = append([]float64{0}, offsets...)
		if math.IsNaN(offsets[1]) {
			offsets[1] = 1
		}
	}
	spaceOffsets(offsets)
	for i := range a.frames {
		a.frames[i].offset = offsets[i]
		for _, prop := range a.props {
			if _, ok := a.frames[i].values[prop]; !ok {
				a.frames[i].values[prop] = a.original[prop]
			}
		}
	}
	sort.SliceStable(a.frames, func(i, j int) bool { return a.frames[i].offset < a.frames[j].offset })
	return nil
}

// spaceOffsets fills NaN offsets: the ends default to 0 and 1 and inner
// gaps are spread evenly between their known neighbours.
func spaceOffsets(offsets []float64) {
	n := len(offsets)
	if math.IsNaN(offsets[0]) {
		offsets[0] = 0
	}
	if n > 1 && math.IsNaN(offsets[n-1]) {
		offsets[n-1] = 1
	}
	for i := 1; i < n; {
		if !math.IsNaN(offsets[i]) {
			i++
			continue
		}
		j := i
		for math.IsNaN(offsets[j]) {
			j++
		}
		lo, hi := offsets[i-1], offsets[j]
		step := (hi - lo) / float64(j-i+1)
		for k := i; k < j; k++ {
			offsets[k] = lo + step*float64(k-i+1)
		}
		i = j
	}
}

// Element returns the animated element.
func (a *Animation) Element() *dom.Element { return a.el }

// PlayState returns the current state.
func (a *Animation) PlayState() PlayState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// CurrentTime returns the time elapsed since the animation started,
// including the delay.
func (a *Animation) CurrentTime() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return time.Duration(a.current * float64(time.Millisecond))
}

// OnFinish sets the callback run when the animation completes.
func (a *Animation) OnFinish(fn func()) {
	a.mu.Lock()
	a.onFinish = fn
	a.mu.Unlock()
}

// OnCancel sets the callback run by Cancel.
func (a *Animation) OnCancel(fn func()) {
	a.mu.Lock()
	a.onCancel = fn
	a.mu.Unlock()
}

// Play starts or resumes the animation. A finished or cancelled animation
// restarts from the beginning.
func (a *Animation) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.state {
	case Running:
		return
	case Idle, Finished:
		a.current = 0
	}
	a.state = Running
	a.lastTS = -1
	a.rafID = a.sched.RequestAnimationFrame(a.tick)
}

// Pause freezes the animation at its current time.
func (a *Animation) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Running {
		return
	}
	a.sched.CancelAnimationFrame(a.rafID)
	a.rafID = 0
	a.state = Paused
	a.lastTS = -1
}

// Cancel stops the animation, restores the element's original inline
// values and runs the cancel callback. The finish callback never runs.
func (a *Animation) Cancel() {
	a.mu.Lock()
	if a.state == Idle {
		a.mu.Unlock()
		return
	}
	if a.rafID != 0 {
		a.sched.CancelAnimationFrame(a.rafID)
		a.rafID = 0
	}
	a.restoreLocked()
	a.state = Idle
	a.current = 0
	fn := a.onCancel
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Finish jumps to the end of the animation. Infinite animations cannot be
// finished.
func (a *Animation) Finish() error {
	a.mu.Lock()
	if math.IsInf(a.timing.Iterations, 1) {
		a.mu.Unlock()
		return errors.New("animation: cannot finish an infinite animation")
	}
	if a.state == Finished {
		a.mu.Unlock()
		return nil
	}
	if a.rafID != 0 {
		a.sched.CancelAnimationFrame(a.rafID)
		a.rafID = 0
	}
	a.current = a.endTime()
	a.applyLocked()
	a.state = Finished
	fn := a.onFinish
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
	return nil
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func (a *Animation) endTime() float64 {
	return ms(a.timing.Delay) + ms(a.timing.Duration)*a.timing.Iterations
}

func (a *Animation) tick(ts float64) {
	a.mu.Lock()
	if a.state != Running {
		a.mu.Unlock()
		return
	}
	if a.lastTS >= 0 {
		a.current += ts - a.lastTS
	}
	a.lastTS = ts
	if !a.applyLocked() {
		a.rafID = a.sched.RequestAnimationFrame(a.tick)
		a.mu.Unlock()
		return
	}
	a.rafID = 0
	a.state = Finished
	fn := a.onFinish
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// applyLocked writes the style for the current time and reports whether
// the active interval is over.
func (a *Animation) applyLocked() bool {
	dur := ms(a.timing.Duration)
	t := a.current - ms(a.timing.Delay)
	active := dur * a.timing.Iterations
	fill := a.timing.Fill

	if t < 0 {
		if fill == "backwards" || fill == "both" {
			a.writeLocked(a.sample(a.directed(0, 0)))
		}
		return false
	}
	if t >= active {
		if fill == "forwards" || fill == "both" {
			iter := math.Ceil(a.timing.Iterations) - 1
			frac := a.timing.Iterations - math.Floor(a.timing.Iterations)
			if frac == 0 {
				frac = 1
			}
			a.writeLocked(a.sample(a.directed(iter, frac)))
		} else {
			a.restoreLocked()
		}
		return true
	}
	iter := math.Floor(t / dur)
	frac := (t - iter*dur) / dur
	a.writeLocked(a.sample(a.directed(iter, frac)))
	return false
}

func (a *Animation) directed(iter, frac float64) float64 {
	odd := math.Mod(iter, 2) == 1
	switch a.timing.Direction {
	case "reverse":
		return 1 - frac
	case "alternate":
		if odd {
			return 1 - frac
		}
	case "alternate-reverse":
		if !odd {
			return 1 - frac
		}
	}
	return frac
}

// sample returns the property values at progress p.
func (a *Animation) sample(p float64) map[string]string {
	eased := a.easing(p)
	frames := a.frames
	k := 0
	for k < len(frames)-2 && eased > frames[k+1].offset {
		k++
	}
	from, to := frames[k], frames[k+1]
	local := 0.0
	if span := to.offset - from.offset; span > 0 {
		local = (eased - from.offset) / span
	} else if eased >= to.offset {
		local = 1
	}
	out := make(map[string]string, len(a.props))
	for _, prop := range a.props {
		out[prop] = Interpolate(from.values[prop], to.values[prop], local)
	}
	return out
}

func (a *Animation) writeLocked(values map[string]string) {
	style := a.el.Style()
	for _, prop := range a.props {
		if v := values[prop]; v != "" {
			style.SetProperty(prop, v)
		} else {
			style.RemoveProperty(prop)
		}
	}
}

func (a *Animation) restoreLocked() {
	a.writeLocked(a.original)
}
