package domman

import (
	"fmt"
	"time"

	"github.com/chrisuehlinger/domman/animation"
	"github.com/chrisuehlinger/domman/dom"
)

// KeyframeOptions configure AnimateKeyframes. Zero fields take the
// defaults: 500ms, linear, fill forwards, one iteration.
type KeyframeOptions struct {
	animation.Timing
	OnComplete func(el *dom.Element)
	OnCancel   func(el *dom.Element)
}

func (o KeyframeOptions) timing() animation.Timing {
	t := o.Timing
	if t.Duration <= 0 {
		t.Duration = 500 * time.Millisecond
	}
	if t.Easing == "" {
		t.Easing = "linear"
	}
	if t.Fill == "" {
		t.Fill = "forwards"
	}
	return t
}

// AnimateKeyframes runs a keyframe animation on every element, replacing
// any animation s previously started on that element.
func (s *Selection) AnimateKeyframes(keyframes []animation.Keyframe, opts ...KeyframeOptions) *Selection {
	var o KeyframeOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	timing := o.timing()
	for _, el := range s.elems {
		a, err := animation.New(s.dm.loop, el, keyframes, timing)
		if err != nil {
			s.dm.debugError("animateKeyframes", err, "cannot animate")
			return s
		}
		if o.OnComplete != nil {
			a.OnFinish(func() { o.OnComplete(el) })
		}
		if o.OnCancel != nil {
			a.OnCancel(func() { o.OnCancel(el) })
		}
		s.track(a)
		a.Play()
	}
	return s
}

func (s *Selection) track(a *animation.Animation) {
	for i, prev := range s.animations {
		if prev.Element() == a.Element() {
			s.animations[i] = a
			return
		}
	}
	s.animations = append(s.animations, a)
}

// Animations returns the animations started through s.
func (s *Selection) Animations() []*animation.Animation {
	return append([]*animation.Animation(nil), s.animations...)
}

// PauseAnimation pauses the animations started through s.
func (s *Selection) PauseAnimation() *Selection {
	for _, a := range s.animations {
		a.Pause()
	}
	return s
}

// ResumeAnimation resumes the animations started through s.
func (s *Selection) ResumeAnimation() *Selection {
	for _, a := range s.animations {
		a.Play()
	}
	return s
}

// CancelAnimation cancels and forgets the animations started through s.
func (s *Selection) CancelAnimation() *Selection {
	for _, a := range s.animations {
		a.Cancel()
	}
	s.animations = nil
	return s
}

// FadeIn shows every element with display: block and raises its opacity
// from 0 to 1 over d, 400ms when d is not positive. done runs per element.
func (s *Selection) FadeIn(d time.Duration, done func(el *dom.Element)) *Selection {
	if d <= 0 {
		d = 400 * time.Millisecond
	}
	for _, el := range s.elems {
		el.Style().SetProperty("opacity", "0")
		el.Style().SetProperty("display", "block")
		a, err := animation.New(s.dm.loop, el,
			[]animation.Keyframe{{"opacity": "0"}, {"opacity": "1"}},
			animation.Timing{Duration: d, Fill: "forwards"})
		if err != nil {
			s.dm.debugError("fadeIn", err, "cannot animate")
			return s
		}
		if done != nil {
			a.OnFinish(func() { done(el) })
		}
		s.track(a)
		a.Play()
	}
	return s
}

// Animate sets props as inline styles behind an "all d easing"
// transition. done runs once per element on transitionend, or d+50ms
// later at the latest.
func (s *Selection) Animate(props map[string]string, d time.Duration, easing string, done func(el *dom.Element)) *Selection {
	if d < 0 {
		d = 400 * time.Millisecond
	}
	if easing == "" {
		easing = "ease"
	}
	keys := sortedKeys(props)
	for _, el := range s.elems {
		el.Style().SetProperty("transition", fmt.Sprintf("all %dms %s", d.Milliseconds(), easing))
		for _, k := range keys {
			el.Style().SetProperty(k, props[k])
		}
		if done != nil {
			s.whenTransitioned(el, d+50*time.Millisecond, done)
		}
	}
	return s
}

func (s *Selection) whenTransitioned(el *dom.Element, timeout time.Duration, done func(el *dom.Element)) {
	var (
		called   bool
		listener *dom.Listener
		timer    int
	)
	finish := func() {
		if called {
			return
		}
		called = true
		el.AsNode().RemoveEventListener("transitionend", listener, false)
		s.dm.loop.ClearTimeout(timer)
		done(el)
	}
	listener = dom.NewListener(func(e *dom.Event) {
		if e.Target == el.AsNode() {
			finish()
		}
	})
	el.AsNode().AddEventListener("transitionend", listener, dom.ListenerOptions{})
	timer = s.dm.loop.SetTimeout(finish, timeout)
}
