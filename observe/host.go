// Package observe implements IntersectionObserver and ResizeObserver over
// the layout geometry a host assigns to elements.
package observe

import (
	"sync"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/sirupsen/logrus"
)

// Host owns the viewport and every live observer. Geometry changes are not
// tracked automatically; callers run Refresh after layout, and observers
// get their initial notifications on the first Refresh after Observe.
type Host struct {
	viewport *dom.DOMRect
	schedule func(func())
	log      logrus.FieldLogger

	mu           sync.Mutex
	intersection []*IntersectionObserver
	resize       []*ResizeObserver
	scheduled    bool
}

// Option configures a Host.
type Option func(*Host)

// WithScheduler makes Observe queue a Refresh through schedule, typically
// an event loop's QueueTask.
func WithScheduler(schedule func(func())) Option {
	return func(h *Host) { h.schedule = schedule }
}

// WithLogger sets where panicking callbacks are reported.
func WithLogger(log logrus.FieldLogger) Option {
	return func(h *Host) { h.log = log }
}

// NewHost creates a host whose root intersection rectangle is viewport.
func NewHost(viewport *dom.DOMRect, opts ...Option) *Host {
	if viewport == nil {
		viewport = dom.NewDOMRect(0, 0, 0, 0)
	}
	h := &Host{viewport: viewport, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Viewport returns a copy of the root rectangle.
func (h *Host) Viewport() *dom.DOMRect {
	h.mu.Lock()
	defer h.mu.Unlock()
	v := *h.viewport
	return &v
}

// SetViewport replaces the root rectangle, e.g. after a scroll.
func (h *Host) SetViewport(r *dom.DOMRect) {
	h.mu.Lock()
	h.viewport = r
	h.mu.Unlock()
}

func (h *Host) register(o any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch o := o.(type) {
	case *IntersectionObserver:
		for _, existing := range h.intersection {
			if existing == o {
				return
			}
		}
		h.intersection = append(h.intersection, o)
	case *ResizeObserver:
		for _, existing := range h.resize {
			if existing == o {
				return
			}
		}
		h.resize = append(h.resize, o)
	}
}

func (h *Host) unregister(o any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch o := o.(type) {
	case *IntersectionObserver:
		for i, existing := range h.intersection {
			if existing == o {
				h.intersection = append(h.intersection[:i], h.intersection[i+1:]...)
				return
			}
		}
	case *ResizeObserver:
		for i, existing := range h.resize {
			if existing == o {
				h.resize = append(h.resize[:i], h.resize[i+1:]...)
				return
			}
		}
	}
}

// Observers returns the number of connected intersection and resize
// observers.
func (h *Host) Observers() (intersection, resize int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.intersection), len(h.resize)
}

func (h *Host) requestRefresh() {
	if h.schedule == nil {
		return
	}
	h.mu.Lock()
	if h.scheduled {
		h.mu.Unlock()
		return
	}
	h.scheduled = true
	h.mu.Unlock()
	h.schedule(func() {
		h.mu.Lock()
		h.scheduled = false
		h.mu.Unlock()
		h.Refresh()
	})
}

// Refresh recomputes every observation and delivers the entries that
// changed. Callbacks run on the calling goroutine.
func (h *Host) Refresh() {
	h.mu.Lock()
	viewport := *h.viewport
	intersection := append([]*IntersectionObserver(nil), h.intersection...)
	resize := append([]*ResizeObserver(nil), h.resize...)
	h.mu.Unlock()

	for _, o := range intersection {
		if entries := o.collect(&viewport); len(entries) > 0 {
			h.deliver("IntersectionObserver", func() { o.callback(entries, o) })
		}
	}
	for _, o := range resize {
		if entries := o.collect(); len(entries) > 0 {
			h.deliver("ResizeObserver", func() { o.callback(entries, o) })
		}
	}
}

func (h *Host) deliver(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.log.WithField("observer", kind).Errorf("callback panicked: %v", r)
		}
	}()
	fn()
}
