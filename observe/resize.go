package observe

import (
	"sync"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/pkg/errors"
)

// ResizeEntry reports the new size of a target.
type ResizeEntry struct {
	Target      *dom.Element
	ContentRect *dom.DOMRect
}

// ResizeCallback receives the targets whose size changed.
type ResizeCallback func(entries []ResizeEntry, o *ResizeObserver)

type size struct{ width, height float64 }

// ResizeObserver reports size changes of its targets. The last reported
// size starts at 0x0, so targets without geometry produce no initial entry.
type ResizeObserver struct {
	host     *Host
	callback ResizeCallback

	mu      sync.Mutex
	targets []*dom.Element
	last    map[*dom.Element]size
}

// NewResizeObserver creates a resize observer.
func (h *Host) NewResizeObserver(cb ResizeCallback) (*ResizeObserver, error) {
	if cb == nil {
		return nil, errors.New("observe: nil resize callback")
	}
	return &ResizeObserver{host: h, callback: cb, last: make(map[*dom.Element]size)}, nil
}

// Observe starts watching el.
func (o *ResizeObserver) Observe(el *dom.Element) {
	if el == nil {
		return
	}
	o.mu.Lock()
	if _, ok := o.last[el]; ok {
		o.mu.Unlock()
		return
	}
	o.targets = append(o.targets, el)
	o.last[el] = size{}
	o.mu.Unlock()

	o.host.register(o)
	o.host.requestRefresh()
}

// Unobserve stops watching el.
func (o *ResizeObserver) Unobserve(el *dom.Element) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.last[el]; !ok {
		return
	}
	delete(o.last, el)
	for i, t := range o.targets {
		if t == el {
			o.targets = append(o.targets[:i], o.targets[i+1:]...)
			break
		}
	}
}

// Disconnect stops watching every target.
func (o *ResizeObserver) Disconnect() {
	o.mu.Lock()
	o.targets = nil
	o.last = make(map[*dom.Element]size)
	o.mu.Unlock()
	o.host.unregister(o)
}

// Targets returns the observed elements.
func (o *ResizeObserver) Targets() []*dom.Element {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*dom.Element(nil), o.targets...)
}

func (o *ResizeObserver) collect() []ResizeEntry {
	o.mu.Lock()
	defer o.mu.Unlock()

	var entries []ResizeEntry
	for _, el := range o.targets {
		rect := el.GetBoundingClientRect()
		cur := size{rect.Width, rect.Height}
		if cur == o.last[el] {
			continue
		}
		o.last[el] = cur
		entries = append(entries, ResizeEntry{
			Target:      el,
			ContentRect: dom.NewDOMRect(0, 0, cur.width, cur.height),
		})
	}
	return entries
}
