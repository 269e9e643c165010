package domman

import (
	"sync"

	"github.com/chrisuehlinger/domman/dom"
)

// Callback is a dynamically typed function passed through Call, such as a
// script function. The same *Callback always yields the same *Handler, so
// a callback bound with "on" can be removed with "off".
type Callback struct {
	Fn func(args ...any) any

	once    sync.Once
	handler *Handler
}

// NewCallback wraps fn.
func NewCallback(fn func(args ...any) any) *Callback {
	return &Callback{Fn: fn}
}

// Handler returns the event handler calling c with the event and the
// bound element.
func (c *Callback) Handler() *Handler {
	c.once.Do(func() {
		c.handler = NewHandler(func(e *dom.Event, el *dom.Element) { c.Fn(e, el) })
	})
	return c.handler
}

func isFunc(v any) bool {
	switch f := v.(type) {
	case *Handler:
		return f != nil
	case *Callback:
		return f != nil && f.Fn != nil
	case func(*dom.Event, *dom.Element), func(*dom.Event), func(args ...any) any:
		return f != nil
	}
	return false
}

// toHandler converts a function argument to a handler. Plain funcs get a
// fresh handler on each call.
func toHandler(v any) *Handler {
	switch f := v.(type) {
	case *Handler:
		return f
	case *Callback:
		if f == nil || f.Fn == nil {
			return nil
		}
		return f.Handler()
	case func(*dom.Event, *dom.Element):
		return NewHandler(f)
	case func(*dom.Event):
		if f == nil {
			return nil
		}
		return NewHandler(func(e *dom.Event, _ *dom.Element) { f(e) })
	case func(args ...any) any:
		if f == nil {
			return nil
		}
		return NewHandler(func(e *dom.Event, el *dom.Element) { f(e, el) })
	}
	return nil
}

// toFunc converts a function argument to a variadic callback.
func toFunc(v any) func(args ...any) any {
	switch f := v.(type) {
	case *Callback:
		if f != nil {
			return f.Fn
		}
	case func(args ...any) any:
		return f
	}
	return nil
}
