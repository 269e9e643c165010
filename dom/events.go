package dom

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// EventPhase is the dispatch phase an event is in.
type EventPhase int

const (
	PhaseNone EventPhase = iota
	PhaseCapturing
	PhaseAtTarget
	PhaseBubbling
)

// EventInit carries the constructor options of an Event.
type EventInit struct {
	Bubbles    bool
	Cancelable bool
	Composed   bool
	Detail     any
}

// Event is a DOM event. Mouse and keyboard specific data is carried in the
// optional fields; it is zero for plain events.
type Event struct {
	Type       string
	Bubbles    bool
	Cancelable bool
	Composed   bool
	Detail     any
	IsTrusted  bool
	TimeStamp  time.Time

	Target        *Node
	CurrentTarget *Node
	RelatedTarget *Node
	Phase         EventPhase

	ClientX, ClientY float64
	Button           int
	Key              string

	defaultPrevented bool
	stopPropagation  bool
	stopImmediate    bool
	dispatching      bool
	inPassive        bool
}

// NewEvent creates an untrusted event.
func NewEvent(eventType string, init EventInit) *Event {
	return &Event{
		Type:       eventType,
		Bubbles:    init.Bubbles,
		Cancelable: init.Cancelable,
		Composed:   init.Composed,
		Detail:     init.Detail,
		TimeStamp:  time.Now(),
	}
}

// StopPropagation prevents the event from reaching further nodes.
func (e *Event) StopPropagation() {
	e.stopPropagation = true
}

// StopImmediatePropagation also prevents remaining listeners on the current node.
func (e *Event) StopImmediatePropagation() {
	e.stopPropagation = true
	e.stopImmediate = true
}

// PreventDefault cancels the default action of a cancelable event.
// It is ignored inside passive listeners.
func (e *Event) PreventDefault() {
	if e.Cancelable && !e.inPassive {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.stopPropagation
}

// TargetElement returns the target as an element, or nil.
func (e *Event) TargetElement() *Element {
	if e.Target == nil {
		return nil
	}
	return e.Target.AsElement()
}

// Listener is a registered callback. Listeners are compared by pointer, so
// the same *Listener added twice for a (type, capture) pair is a no-op.
type Listener struct {
	fn func(*Event)
}

// NewListener wraps fn.
func NewListener(fn func(*Event)) *Listener {
	return &Listener{fn: fn}
}

// Handle invokes the listener.
func (l *Listener) Handle(e *Event) {
	l.fn(e)
}

// ListenerOptions mirrors the addEventListener options dictionary.
type ListenerOptions struct {
	Capture bool
	Once    bool
	Passive bool
}

type listenerEntry struct {
	listener *Listener
	capture  bool
	once     bool
	passive  bool
	removed  bool
}

// eventTarget holds the listeners of one node.
type eventTarget struct {
	mu        sync.Mutex
	listeners map[string][]*listenerEntry
}

func (n *Node) target() *eventTarget {
	if n.listeners == nil {
		n.listeners = &eventTarget{listeners: make(map[string][]*listenerEntry)}
	}
	return n.listeners
}

// AddEventListener registers l for eventType.
func (n *Node) AddEventListener(eventType string, l *Listener, opts ListenerOptions) {
	if l == nil {
		return
	}
	et := n.target()
	et.mu.Lock()
	defer et.mu.Unlock()
	for _, entry := range et.listeners[eventType] {
		if entry.listener == l && entry.capture == opts.Capture {
			return
		}
	}
	et.listeners[eventType] = append(et.listeners[eventType], &listenerEntry{
		listener: l,
		capture:  opts.Capture,
		once:     opts.Once,
		passive:  opts.Passive,
	})
}

// RemoveEventListener removes the (eventType, l, capture) registration.
func (n *Node) RemoveEventListener(eventType string, l *Listener, capture bool) {
	if n.listeners == nil {
		return
	}
	et := n.listeners
	et.mu.Lock()
	defer et.mu.Unlock()
	et.removeLocked(eventType, func(entry *listenerEntry) bool {
		return entry.listener == l && entry.capture == capture
	})
}

func (et *eventTarget) removeLocked(eventType string, match func(*listenerEntry) bool) {
	entries := et.listeners[eventType]
	for _, entry := range entries {
		if match(entry) {
			entry.removed = true
		}
	}
	entries = slices.DeleteFunc(entries, func(entry *listenerEntry) bool { return entry.removed })
	if len(entries) == 0 {
		delete(et.listeners, eventType)
		return
	}
	et.listeners[eventType] = entries
}

// ListenerCount returns the number of listeners registered for eventType.
func (n *Node) ListenerCount(eventType string) int {
	if n.listeners == nil {
		return 0
	}
	n.listeners.mu.Lock()
	defer n.listeners.mu.Unlock()
	return len(n.listeners.listeners[eventType])
}

// HasEventListener reports whether the exact registration exists.
func (n *Node) HasEventListener(eventType string, l *Listener, capture bool) bool {
	if n.listeners == nil {
		return false
	}
	n.listeners.mu.Lock()
	defer n.listeners.mu.Unlock()
	for _, entry := range n.listeners.listeners[eventType] {
		if entry.listener == l && entry.capture == capture {
			return true
		}
	}
	return false
}

// ListenerPanicError wraps a value recovered from a panicking listener.
type ListenerPanicError struct {
	EventType string
	Value     any
}

func (e *ListenerPanicError) Error() string {
	return fmt.Sprintf("listener for %q panicked: %v", e.EventType, e.Value)
}

// DispatchEvent dispatches ev with n as target through the capture, target
// and bubble phases. It returns false if the default action was prevented.
// A panicking listener does not stop dispatch; the panic is handed to the
// owning document's error reporter, or re-raised after dispatch if there is none.
func (n *Node) DispatchEvent(ev *Event) bool {
	if ev.dispatching {
		return !ev.defaultPrevented
	}
	ev.dispatching = true
	ev.Target = n
	ev.stopPropagation = false
	ev.stopImmediate = false

	var path []*Node
	for p := n.parentNode; p != nil; p = p.parentNode {
		path = append(path, p)
	}

	var failure *ListenerPanicError
	report := func(err *ListenerPanicError) {
		if reporter := n.errorReporter(); reporter != nil {
			reporter(err)
		} else if failure == nil {
			failure = err
		}
	}

	// capture, outermost first
	for i := len(path) - 1; i >= 0 && !ev.stopPropagation; i-- {
		path[i].invoke(ev, PhaseCapturing, report)
	}
	if !ev.stopPropagation {
		n.invoke(ev, PhaseAtTarget, report)
	}
	if ev.Bubbles {
		for _, p := range path {
			if ev.stopPropagation {
				break
			}
			p.invoke(ev, PhaseBubbling, report)
		}
	}

	ev.Phase = PhaseNone
	ev.CurrentTarget = nil
	ev.dispatching = false
	if failure != nil {
		panic(failure)
	}
	return !ev.defaultPrevented
}

func (n *Node) invoke(ev *Event, phase EventPhase, report func(*ListenerPanicError)) {
	if n.listeners == nil {
		return
	}
	et := n.listeners
	et.mu.Lock()
	snapshot := slices.Clone(et.listeners[ev.Type])
	et.mu.Unlock()

	ev.CurrentTarget = n
	ev.Phase = phase
	for _, entry := range snapshot {
		if ev.stopImmediate {
			return
		}
		if entry.removed {
			continue
		}
		switch phase {
		case PhaseCapturing:
			if !entry.capture {
				continue
			}
		case PhaseBubbling:
			if entry.capture {
				continue
			}
		}
		if entry.once {
			et.mu.Lock()
			et.removeLocked(ev.Type, func(e *listenerEntry) bool { return e == entry })
			et.mu.Unlock()
		}
		ev.inPassive = entry.passive
		callListener(entry.listener, ev, report)
		ev.inPassive = false
	}
}

func callListener(l *Listener, ev *Event, report func(*ListenerPanicError)) {
	defer func() {
		if r := recover(); r != nil {
			report(&ListenerPanicError{EventType: ev.Type, Value: r})
		}
	}()
	l.Handle(ev)
}

func (n *Node) errorReporter() func(error) {
	doc := n.ownerDoc
	if n.nodeType == DocumentNode {
		doc = (*Document)(n)
	}
	if doc == nil {
		return nil
	}
	return doc.AsNode().documentData.reportError
}

// SetErrorReporter installs fn to receive panics raised by listeners of
// nodes owned by d.
func (d *Document) SetErrorReporter(fn func(error)) {
	d.AsNode().documentData.reportError = fn
}
