package observe

import (
	"sort"
	"sync"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/pkg/errors"
)

// IntersectionEntry reports how much of a target overlaps the viewport.
type IntersectionEntry struct {
	Target             *dom.Element
	BoundingClientRect *dom.DOMRect
	IntersectionRect   *dom.DOMRect
	RootBounds         *dom.DOMRect
	IntersectionRatio  float64
	IsIntersecting     bool
}

// IntersectionOptions configures an IntersectionObserver. An empty
// Threshold means [0].
type IntersectionOptions struct {
	Threshold []float64
}

// IntersectionCallback receives the entries that changed since the last
// delivery.
type IntersectionCallback func(entries []IntersectionEntry, o *IntersectionObserver)

type intersectionState struct {
	thresholdIndex int // -1 until the first notification
	intersecting   bool
}

// IntersectionObserver watches targets against the host viewport.
type IntersectionObserver struct {
	host       *Host
	callback   IntersectionCallback
	thresholds []float64

	mu      sync.Mutex
	targets []*dom.Element
	state   map[*dom.Element]*intersectionState
}

// NewIntersectionObserver creates an observer. Thresholds outside [0, 1]
// are rejected.
func (h *Host) NewIntersectionObserver(cb IntersectionCallback, opts IntersectionOptions) (*IntersectionObserver, error) {
	if cb == nil {
		return nil, errors.New("observe: nil intersection callback")
	}
	thresholds := append([]float64(nil), opts.Threshold...)
	if len(thresholds) == 0 {
		thresholds = []float64{0}
	}
	for _, t := range thresholds {
		if t < 0 || t > 1 {
			return nil, errors.Errorf("observe: threshold %v out of range [0, 1]", t)
		}
	}
	sort.Float64s(thresholds)
	return &IntersectionObserver{
		host:       h,
		callback:   cb,
		thresholds: thresholds,
		state:      make(map[*dom.Element]*intersectionState),
	}, nil
}

// Thresholds returns the sorted thresholds.
func (o *IntersectionObserver) Thresholds() []float64 {
	return append([]float64(nil), o.thresholds...)
}

// Observe starts watching el. Observing the same element twice is a no-op.
func (o *IntersectionObserver) Observe(el *dom.Element) {
	if el == nil {
		return
	}
	o.mu.Lock()
	if _, ok := o.state[el]; ok {
		o.mu.Unlock()
		return
	}
	o.targets = append(o.targets, el)
	o.state[el] = &intersectionState{thresholdIndex: -1}
	o.mu.Unlock()

	o.host.register(o)
	o.host.requestRefresh()
}

// Unobserve stops watching el.
func (o *IntersectionObserver) Unobserve(el *dom.Element) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.state[el]; !ok {
		return
	}
	delete(o.state, el)
	for i, t := range o.targets {
		if t == el {
			o.targets = append(o.targets[:i], o.targets[i+1:]...)
			break
		}
	}
}

// Disconnect stops watching every target.
func (o *IntersectionObserver) Disconnect() {
	o.mu.Lock()
	o.targets = nil
	o.state = make(map[*dom.Element]*intersectionState)
	o.mu.Unlock()
	o.host.unregister(o)
}

// Targets returns the observed elements in observation order.
func (o *IntersectionObserver) Targets() []*dom.Element {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*dom.Element(nil), o.targets...)
}

func (o *IntersectionObserver) collect(viewport *dom.DOMRect) []IntersectionEntry {
	o.mu.Lock()
	defer o.mu.Unlock()

	var entries []IntersectionEntry
	for _, el := range o.targets {
		st := o.state[el]
		rect := el.GetBoundingClientRect()
		var inter *dom.DOMRect
		if el.AsNode().IsConnected() {
			inter = rect.Intersection(viewport)
		}
		intersecting := inter != nil

		var ratio float64
		switch {
		case rect.Area() > 0 && inter != nil:
			ratio = inter.Area() / rect.Area()
		case intersecting:
			ratio = 1
		}
		index := len(o.thresholds)
		for i, t := range o.thresholds {
			if t > ratio {
				index = i
				break
			}
		}
		if index == st.thresholdIndex && intersecting == st.intersecting {
			continue
		}
		st.thresholdIndex, st.intersecting = index, intersecting

		if inter == nil {
			inter = dom.NewDOMRect(0, 0, 0, 0)
		}
		root := *viewport
		entries = append(entries, IntersectionEntry{
			Target:             el,
			BoundingClientRect: rect,
			IntersectionRect:   inter,
			RootBounds:         &root,
			IntersectionRatio:  ratio,
			IsIntersecting:     intersecting,
		})
	}
	return entries
}
