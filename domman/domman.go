// Package domman is a chainable, jQuery-style convenience layer over the
// dom package: selection, manipulation, namespaced and delegated events,
// animation helpers, forms, ajax and storage helpers.
//
// A DomMan is bound to one document. Selections are cheap views over
// elements; every method applies to all selected elements and returns the
// selection, except getters, which read from the first element.
package domman

import (
	"sync"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/chrisuehlinger/domman/eventloop"
	"github.com/chrisuehlinger/domman/network"
	"github.com/chrisuehlinger/domman/observe"
	"github.com/chrisuehlinger/domman/storage"
	"github.com/sirupsen/logrus"
)

// DomMan is the selection factory for one document. It owns the event
// registry and the per-element side tables.
type DomMan struct {
	cfg       Config
	doc       *dom.Document
	log       logrus.FieldLogger
	loop      *eventloop.Loop
	observers *observe.Host
	storage   *storage.Manager
	registry  *Registry

	clientOnce sync.Once
	client     *network.Client
	clientErr  error

	data   sideTable[map[string]any]
	hovers sideTable[*hoverPair]

	mu      sync.RWMutex
	plugins map[string]Method
}

// Option configures a DomMan.
type Option func(*DomMan)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(d *DomMan) { d.cfg = cfg }
}

// WithLogger sets where debug diagnostics are written.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *DomMan) { d.log = log }
}

// WithLoop sets the event loop driving timers and animation frames.
func WithLoop(loop *eventloop.Loop) Option {
	return func(d *DomMan) { d.loop = loop }
}

// WithObserverHost enables OnIntersect, WhenVisible and OnResize. Without
// it those calls are no-ops.
func WithObserverHost(h *observe.Host) Option {
	return func(d *DomMan) { d.observers = h }
}

// WithStorage sets the storage manager behind the localStorage helpers.
func WithStorage(m *storage.Manager) Option {
	return func(d *DomMan) { d.storage = m }
}

// WithHTTPClient sets the client used by Ajax.
func WithHTTPClient(c *network.Client) Option {
	return func(d *DomMan) { d.client = c }
}

// New creates a DomMan for doc.
func New(doc *dom.Document, opts ...Option) *DomMan {
	d := &DomMan{
		cfg:      DefaultConfig(),
		doc:      doc,
		log:      logrus.StandardLogger(),
		registry: NewRegistry(),
		plugins:  make(map[string]Method),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.loop == nil {
		d.loop = eventloop.New(eventloop.WithLogger(d.log))
	}
	if d.storage == nil {
		m, err := storage.NewManager()
		if err != nil {
			d.log.WithError(err).Warn("domman: in-memory storage unavailable")
		}
		d.storage = m
	}
	return d
}

// Config returns the configuration.
func (d *DomMan) Config() Config { return d.cfg }

// Document returns the bound document.
func (d *DomMan) Document() *dom.Document { return d.doc }

// Loop returns the event loop.
func (d *DomMan) Loop() *eventloop.Loop { return d.loop }

// Registry returns the event registry.
func (d *DomMan) Registry() *Registry { return d.registry }

// Observers returns the observer host, or nil.
func (d *DomMan) Observers() *observe.Host { return d.observers }

func (d *DomMan) httpClient() (*network.Client, error) {
	d.clientOnce.Do(func() {
		if d.client != nil {
			return
		}
		d.client, d.clientErr = network.NewClient(d.cfg.ClientOptions(d.log)...)
	})
	return d.client, d.clientErr
}

// Select wraps the elements of the document matching selector. An invalid
// selector yields an empty selection; use SelectWithError to see why.
func (d *DomMan) Select(selector string) *Selection {
	s, err := d.SelectWithError(selector)
	if err != nil {
		d.debugError("select", err, "invalid selector")
	}
	return s
}

// SelectWithError is Select that reports invalid selectors.
func (d *DomMan) SelectWithError(selector string) (*Selection, error) {
	if selector == "" {
		return d.Wrap(), nil
	}
	els, err := d.doc.QuerySelectorAllWithError(selector)
	if err != nil {
		return d.Wrap(), err
	}
	return d.Wrap(els...), nil
}

// Wrap creates a selection over els. Nil elements are dropped.
func (d *DomMan) Wrap(els ...*dom.Element) *Selection {
	s := &Selection{dm: d}
	for _, el := range els {
		if el != nil {
			s.elems = append(s.elems, el)
		}
	}
	return s
}

// From builds a selection from a selector string, an element, a node, a
// slice of elements or nodes, or another selection. Anything else gives an
// empty selection.
func (d *DomMan) From(v any) *Selection {
	switch t := v.(type) {
	case nil:
		return d.Wrap()
	case string:
		return d.Select(t)
	case *dom.Element:
		return d.Wrap(t)
	case *dom.Node:
		if t == nil {
			return d.Wrap()
		}
		return d.Wrap(t.AsElement())
	case []*dom.Element:
		return d.Wrap(t...)
	case []*dom.Node:
		s := d.Wrap()
		for _, n := range t {
			if el := n.AsElement(); el != nil {
				s.elems = append(s.elems, el)
			}
		}
		return s
	case *Selection:
		if t == nil {
			return d.Wrap()
		}
		return d.Wrap(t.elems...)
	}
	d.debugWarn("from", "cannot select from %T", v)
	return d.Wrap()
}

// Ready runs fn once the document has been parsed: immediately unless
// the document is still loading, otherwise on DOMContentLoaded.
func (d *DomMan) Ready(fn func()) {
	if fn == nil {
		return
	}
	if d.doc.ReadyState() != "loading" {
		fn()
		return
	}
	d.doc.AsNode().AddEventListener("DOMContentLoaded", dom.NewListener(func(*dom.Event) { fn() }), dom.ListenerOptions{Once: true})
}

// IsElement reports whether v is a DOM element.
func IsElement(v any) bool {
	switch t := v.(type) {
	case *dom.Element:
		return t != nil
	case *dom.Node:
		return t != nil && t.AsElement() != nil
	}
	return false
}
