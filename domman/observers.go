package domman

import (
	"github.com/chrisuehlinger/domman/dom"
	"github.com/chrisuehlinger/domman/observe"
)

// IntersectFunc receives one visibility change of el.
type IntersectFunc func(entry observe.IntersectionEntry, el *dom.Element)

// ResizeFunc receives one size change of el.
type ResizeFunc func(entry observe.ResizeEntry, el *dom.Element)

// VisibleOptions configure WhenVisible. Repeat keeps calling the callback
// each time an element becomes visible again.
type VisibleOptions struct {
	Threshold []float64
	Repeat    bool
}

func (s *Selection) observerHost(method string) *observe.Host {
	h := s.dm.observers
	if h == nil {
		s.dm.debugWarn(method, "IntersectionObserver is not available in this environment")
	}
	return h
}

// OnIntersect calls fn whenever an element's visibility crosses one of
// the thresholds, 0.1 by default.
func (s *Selection) OnIntersect(fn IntersectFunc, threshold ...float64) *Selection {
	if fn == nil || len(s.elems) == 0 {
		return s
	}
	h := s.observerHost("onIntersect")
	if h == nil {
		return s
	}
	if len(threshold) == 0 {
		threshold = []float64{0.1}
	}
	o, err := h.NewIntersectionObserver(func(entries []observe.IntersectionEntry, _ *observe.IntersectionObserver) {
		for _, e := range entries {
			fn(e, e.Target)
		}
	}, observe.IntersectionOptions{Threshold: threshold})
	if err != nil {
		s.dm.debugError("onIntersect", err, "cannot create observer")
		return s
	}
	for _, el := range s.elems {
		o.Observe(el)
	}
	s.intersections = append(s.intersections, o)
	return s
}

// WhenVisible calls fn when an element starts intersecting the viewport.
// Each element is reported once unless opts.Repeat is set; the observer
// disconnects after the last one.
func (s *Selection) WhenVisible(fn IntersectFunc, opts ...VisibleOptions) *Selection {
	if fn == nil || len(s.elems) == 0 {
		return s
	}
	h := s.observerHost("whenVisible")
	if h == nil {
		return s
	}
	var o VisibleOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if len(o.Threshold) == 0 {
		o.Threshold = []float64{0}
	}
	remaining := len(s.elems)
	obs, err := h.NewIntersectionObserver(func(entries []observe.IntersectionEntry, self *observe.IntersectionObserver) {
		for _, e := range entries {
			if !e.IsIntersecting {
				continue
			}
			fn(e, e.Target)
			if o.Repeat {
				continue
			}
			self.Unobserve(e.Target)
			if remaining--; remaining <= 0 {
				self.Disconnect()
			}
		}
	}, observe.IntersectionOptions{Threshold: o.Threshold})
	if err != nil {
		s.dm.debugError("whenVisible", err, "cannot create observer")
		return s
	}
	for _, el := range s.elems {
		obs.Observe(el)
	}
	s.intersections = append(s.intersections, obs)
	return s
}

// Unobserve disconnects the intersection observers started through s.
func (s *Selection) Unobserve() *Selection {
	for _, o := range s.intersections {
		o.Disconnect()
	}
	s.intersections = nil
	return s
}

// OnResize calls fn whenever an element's size changes.
func (s *Selection) OnResize(fn ResizeFunc) *Selection {
	if fn == nil || len(s.elems) == 0 {
		return s
	}
	h := s.dm.observers
	if h == nil {
		s.dm.debugWarn("onResize", "ResizeObserver is not available in this environment")
		return s
	}
	o, err := h.NewResizeObserver(func(entries []observe.ResizeEntry, _ *observe.ResizeObserver) {
		for _, e := range entries {
			fn(e, e.Target)
		}
	})
	if err != nil {
		s.dm.debugError("onResize", err, "cannot create observer")
		return s
	}
	for _, el := range s.elems {
		o.Observe(el)
	}
	s.resizes = append(s.resizes, o)
	return s
}

// UnobserveResize disconnects the resize observers started through s.
func (s *Selection) UnobserveResize() *Selection {
	for _, o := range s.resizes {
		o.Disconnect()
	}
	s.resizes = nil
	return s
}
