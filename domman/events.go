package domman

import (
	"strings"
	"weak"

	"github.com/chrisuehlinger/domman/dom"
)

// domEventNames are the base events that accept a ".namespace" suffix.
// Any other dotted name is a custom event type and is left intact.
var domEventNames = map[string]bool{
	"click": true, "dblclick": true, "mouseover": true, "mouseout": true,
	"mouseenter": true, "mouseleave": true, "mousemove": true, "mouseup": true,
	"mousedown": true, "keydown": true, "keyup": true, "keypress": true,
	"change": true, "submit": true, "focus": true, "blur": true,
	"resize": true, "scroll": true, "load": true, "error": true,
	"focusin": true, "focusout": true, "select": true, "contextmenu": true,
	"input": true, "invalid": true, "reset": true, "search": true,
	"pointerdown": true, "pointerup": true, "pointermove": true,
	"pointerenter": true, "pointerleave": true,
	"touchstart": true, "touchend": true, "touchmove": true,
}

// ParsedEvent is an event string split into its type and namespace.
type ParsedEvent struct {
	Type      string
	Namespace string
}

// NamespaceOnly reports a ".ns" string, which only selects handlers for
// removal.
func (p ParsedEvent) NamespaceOnly() bool {
	return p.Type == "" && p.Namespace != ""
}

// ParseNamespacedEvent splits "click.menu" into {click, menu}. A leading
// dot gives a namespace-only result. Everything after the first dot is
// the namespace. Names whose prefix is not a recognized DOM event, such as
// "hello.world", are returned whole as the type.
func ParseNamespacedEvent(s string) ParsedEvent {
	if len(s) > 1 && s[0] == '.' {
		return ParsedEvent{Namespace: s[1:]}
	}
	base, ns, ok := strings.Cut(s, ".")
	if !ok || base == "" || ns == "" || !domEventNames[base] {
		return ParsedEvent{Type: s}
	}
	return ParsedEvent{Type: base, Namespace: ns}
}

// Handler is an event callback. It receives the event and the element the
// handler is bound to: the delegate match for delegated handlers, the
// listening element otherwise. Handlers are identified by pointer, so keep
// the *Handler to remove it later.
type Handler struct {
	fn func(e *dom.Event, el *dom.Element)
}

// NewHandler wraps fn. A nil fn yields a nil handler.
func NewHandler(fn func(e *dom.Event, el *dom.Element)) *Handler {
	if fn == nil {
		return nil
	}
	return &Handler{fn: fn}
}

func (h *Handler) call(e *dom.Event, el *dom.Element) {
	h.fn(e, el)
}

// EventOptions are the listener options accepted by On and One.
type EventOptions struct {
	Capture bool
	Once    bool
	Passive bool
}

// OffOptions narrow handler removal. A nil Once removes both the once and
// the persistent registration.
type OffOptions struct {
	Capture bool
	Once    *bool
}

func firstOpts(opts []EventOptions) EventOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return EventOptions{}
}

// On binds h to event on every element. The event may carry a namespace
// ("click.menu") for later removal with Off(".menu").
func (s *Selection) On(event string, h *Handler, opts ...EventOptions) *Selection {
	return s.on(event, "", h, firstOpts(opts))
}

// OnDelegated binds h on every element for descendants matching selector.
// The handler receives the matched descendant.
func (s *Selection) OnDelegated(event, selector string, h *Handler, opts ...EventOptions) *Selection {
	if selector == "" {
		return s
	}
	return s.on(event, selector, h, firstOpts(opts))
}

// One is On with the once flag set.
func (s *Selection) One(event string, h *Handler, opts ...EventOptions) *Selection {
	o := firstOpts(opts)
	o.Once = true
	return s.on(event, "", h, o)
}

// OneDelegated is OnDelegated with the once flag set.
func (s *Selection) OneDelegated(event, selector string, h *Handler, opts ...EventOptions) *Selection {
	if selector == "" {
		return s
	}
	o := firstOpts(opts)
	o.Once = true
	return s.on(event, selector, h, o)
}

func (s *Selection) on(event, selector string, h *Handler, opts EventOptions) *Selection {
	if event == "" || h == nil {
		s.dm.debugWarn("on", "ignoring registration without event or handler")
		return s
	}
	parsed := ParseNamespacedEvent(event)
	if parsed.NamespaceOnly() || len(s.elems) == 0 {
		return s
	}
	for _, el := range s.elems {
		s.dm.registry.Register(el.AsNode(), Registration{
			Type:      parsed.Type,
			Namespace: parsed.Namespace,
			Selector:  selector,
			Handler:   h,
			Capture:   opts.Capture,
			Once:      opts.Once,
			Passive:   opts.Passive,
		})
	}
	return s
}

// Off removes handlers by event. "click" removes every click handler
// bound through this library on the selected elements, "click.menu" only
// those in the menu namespace, and ".menu" every handler in the namespace
// whatever its type. Off("") does nothing.
func (s *Selection) Off(event string) *Selection {
	if event == "" {
		return s
	}
	parsed := ParseNamespacedEvent(event)
	for _, el := range s.elems {
		if parsed.NamespaceOnly() {
			s.dm.registry.RemoveNamespace(el.AsNode(), parsed.Namespace)
		} else {
			s.dm.registry.RemoveType(el.AsNode(), parsed.Type, parsed.Namespace)
		}
	}
	return s
}

// OffHandler removes the directly bound h.
func (s *Selection) OffHandler(event string, h *Handler, opts ...OffOptions) *Selection {
	return s.offHandler(event, "", h, opts)
}

// OffSelector removes every handler delegated for (event, selector). A
// namespace-only event removes the selector's handlers in that namespace
// across all event types.
func (s *Selection) OffSelector(event, selector string) *Selection {
	if event == "" || selector == "" {
		return s
	}
	parsed := ParseNamespacedEvent(event)
	for _, el := range s.elems {
		s.dm.registry.RemoveSelector(el.AsNode(), parsed.Type, selector, parsed.Namespace)
	}
	return s
}

// OffDelegated removes h delegated for (event, selector).
func (s *Selection) OffDelegated(event, selector string, h *Handler, opts ...OffOptions) *Selection {
	if selector == "" {
		return s
	}
	return s.offHandler(event, selector, h, opts)
}

func (s *Selection) offHandler(event, selector string, h *Handler, opts []OffOptions) *Selection {
	if event == "" || h == nil {
		return s
	}
	parsed := ParseNamespacedEvent(event)
	if parsed.NamespaceOnly() {
		return s
	}
	var o OffOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	for _, el := range s.elems {
		s.dm.registry.RemoveHandler(el.AsNode(), parsed.Type, selector, parsed.Namespace, h, o.Capture, o.Once)
	}
	return s
}

// Trigger dispatches event on every element. Events bubble and are
// cancelable unless init says otherwise; detail is carried on the event.
func (s *Selection) Trigger(event string, detail any, init ...dom.EventInit) *Selection {
	if event == "" {
		return s
	}
	ei := dom.EventInit{Bubbles: true, Cancelable: true}
	if len(init) > 0 {
		ei = init[0]
	}
	ei.Detail = detail
	for _, el := range s.elems {
		el.AsNode().DispatchEvent(dom.NewEvent(event, ei))
	}
	return s
}

// TriggerHandler dispatches a non-bubbling event on the first element only.
func (s *Selection) TriggerHandler(event string, detail any, init ...dom.EventInit) *Selection {
	first := s.First()
	if event == "" || first == nil {
		return s
	}
	ei := dom.EventInit{Cancelable: true}
	if len(init) > 0 {
		ei = init[0]
	}
	ei.Detail = detail
	first.AsNode().DispatchEvent(dom.NewEvent(event, ei))
	return s
}

// Delegate runs h for events whose target is inside an element matching
// selector within the bound element. It is registered as a plain handler,
// so it is removed by Off(event) rather than OffSelector. A text node
// target is resolved to its parent element.
func (s *Selection) Delegate(selector, event string, h *Handler) *Selection {
	if h == nil || selector == "" {
		return s
	}
	wrapper := NewHandler(func(e *dom.Event, root *dom.Element) {
		target := e.Target
		if target == nil {
			return
		}
		el := target.AsElement()
		if el == nil {
			el = target.ParentElement()
		}
		if el == nil {
			return
		}
		match, err := el.ClosestWithError(selector)
		if err != nil {
			panic(err)
		}
		if match != nil && root.AsNode().Contains(match.AsNode()) {
			h.call(e, match)
		}
	})
	return s.On(event, wrapper)
}

// hoverPair remembers the handlers of the last Hover call without keeping
// them alive; the registry's dispatchers own them.
type hoverPair struct {
	enter, leave weak.Pointer[Handler]
}

func (s *Selection) unhover(el *dom.Element, eventType string, h weak.Pointer[Handler]) {
	if prev := h.Value(); prev != nil {
		s.dm.registry.RemoveHandler(el.AsNode(), eventType, "", "", prev, false, nil)
	}
}

// Hover binds enter to mouseenter and leave to mouseleave, replacing any
// pair bound by an earlier Hover call. Either handler may be nil.
func (s *Selection) Hover(enter, leave *Handler) *Selection {
	for _, el := range s.elems {
		pair := s.dm.hovers.getOrCreate(el.AsNode(), func() *hoverPair { return &hoverPair{} })
		if enter != nil {
			s.unhover(el, "mouseenter", pair.enter)
			s.dm.registry.Register(el.AsNode(), Registration{Type: "mouseenter", Handler: enter})
			pair.enter = weak.Make(enter)
		}
		if leave != nil {
			s.unhover(el, "mouseleave", pair.leave)
			s.dm.registry.Register(el.AsNode(), Registration{Type: "mouseleave", Handler: leave})
			pair.leave = weak.Make(leave)
		}
	}
	return s
}

// RemoveHover unbinds the handlers installed by Hover.
func (s *Selection) RemoveHover() *Selection {
	for _, el := range s.elems {
		pair, ok := s.dm.hovers.get(el.AsNode())
		if !ok {
			continue
		}
		s.unhover(el, "mouseenter", pair.enter)
		s.unhover(el, "mouseleave", pair.leave)
		s.dm.hovers.delete(el.AsNode())
	}
	return s
}
