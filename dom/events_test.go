package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := ParseHTMLString(markup)
	require.NoError(t, err)
	return doc
}

func TestDispatchPhases(t *testing.T) {
	doc := buildTree(t, `<div id="outer"><p id="inner"><span id="leaf">x</span></p></div>`)
	outer := doc.GetElementById("outer").AsNode()
	inner := doc.GetElementById("inner").AsNode()
	leaf := doc.GetElementById("leaf").AsNode()

	var order []string
	record := func(name string) *Listener {
		return NewListener(func(e *Event) {
			order = append(order, name)
		})
	}
	outer.AddEventListener("click", record("outer-capture"), ListenerOptions{Capture: true})
	outer.AddEventListener("click", record("outer-bubble"), ListenerOptions{})
	inner.AddEventListener("click", record("inner-bubble"), ListenerOptions{})
	leaf.AddEventListener("click", record("leaf"), ListenerOptions{})

	leaf.DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))
	assert.Equal(t, []string{"outer-capture", "leaf", "inner-bubble", "outer-bubble"}, order)

	order = nil
	leaf.DispatchEvent(NewEvent("click", EventInit{}))
	assert.Equal(t, []string{"outer-capture", "leaf"}, order, "non-bubbling events skip the bubble phase")
}

func TestListenerDeduplication(t *testing.T) {
	doc := NewHTMLDocument()
	body := doc.Body().AsNode()
	calls := 0
	l := NewListener(func(*Event) { calls++ })

	body.AddEventListener("click", l, ListenerOptions{})
	body.AddEventListener("click", l, ListenerOptions{})
	body.AddEventListener("click", l, ListenerOptions{Capture: true})
	assert.Equal(t, 2, body.ListenerCount("click"))

	body.DispatchEvent(NewEvent("click", EventInit{}))
	assert.Equal(t, 2, calls)

	body.RemoveEventListener("click", l, false)
	body.RemoveEventListener("click", l, true)
	assert.Equal(t, 0, body.ListenerCount("click"))
}

func TestOnceListener(t *testing.T) {
	doc := NewHTMLDocument()
	body := doc.Body().AsNode()
	calls := 0
	body.AddEventListener("ping", NewListener(func(*Event) { calls++ }), ListenerOptions{Once: true})

	body.DispatchEvent(NewEvent("ping", EventInit{}))
	body.DispatchEvent(NewEvent("ping", EventInit{}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, body.ListenerCount("ping"))
}

func TestRemovalDuringDispatch(t *testing.T) {
	doc := NewHTMLDocument()
	body := doc.Body().AsNode()
	var second *Listener
	calls := 0
	first := NewListener(func(*Event) {
		body.RemoveEventListener("ping", second, false)
	})
	second = NewListener(func(*Event) { calls++ })
	body.AddEventListener("ping", first, ListenerOptions{})
	body.AddEventListener("ping", second, ListenerOptions{})

	body.DispatchEvent(NewEvent("ping", EventInit{}))
	assert.Zero(t, calls)
}

func TestStopImmediatePropagation(t *testing.T) {
	doc := buildTree(t, `<div id="a"><b id="b"></b></div>`)
	a := doc.GetElementById("a").AsNode()
	b := doc.GetElementById("b").AsNode()
	var order []string
	b.AddEventListener("click", NewListener(func(e *Event) {
		order = append(order, "first")
		e.StopImmediatePropagation()
	}), ListenerOptions{})
	b.AddEventListener("click", NewListener(func(*Event) { order = append(order, "second") }), ListenerOptions{})
	a.AddEventListener("click", NewListener(func(*Event) { order = append(order, "parent") }), ListenerOptions{})

	b.DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))
	assert.Equal(t, []string{"first"}, order)
}

func TestPreventDefault(t *testing.T) {
	doc := NewHTMLDocument()
	body := doc.Body().AsNode()
	body.AddEventListener("go", NewListener(func(e *Event) { e.PreventDefault() }), ListenerOptions{})
	body.AddEventListener("soft", NewListener(func(e *Event) { e.PreventDefault() }), ListenerOptions{Passive: true})

	assert.False(t, body.DispatchEvent(NewEvent("go", EventInit{Cancelable: true})))
	assert.True(t, body.DispatchEvent(NewEvent("go", EventInit{})), "non-cancelable events ignore preventDefault")
	assert.True(t, body.DispatchEvent(NewEvent("soft", EventInit{Cancelable: true})), "passive listeners cannot cancel")
}

func TestListenerPanicReported(t *testing.T) {
	doc := NewHTMLDocument()
	body := doc.Body().AsNode()
	var reported []error
	doc.SetErrorReporter(func(err error) { reported = append(reported, err) })

	after := false
	body.AddEventListener("boom", NewListener(func(*Event) { panic("bad handler") }), ListenerOptions{})
	body.AddEventListener("boom", NewListener(func(*Event) { after = true }), ListenerOptions{})

	body.DispatchEvent(NewEvent("boom", EventInit{}))
	assert.True(t, after)
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0].Error(), "bad handler")
}

func TestReadyStateFiresDOMContentLoaded(t *testing.T) {
	doc := NewHTMLDocument()
	doc.SetReadyState(ReadyStateLoading)
	var fired []string
	doc.AsNode().AddEventListener("DOMContentLoaded", NewListener(func(e *Event) { fired = append(fired, e.Type) }), ListenerOptions{})
	doc.AsNode().AddEventListener("load", NewListener(func(e *Event) { fired = append(fired, e.Type) }), ListenerOptions{})

	doc.SetReadyState(ReadyStateInteractive)
	doc.SetReadyState(ReadyStateComplete)
	assert.Equal(t, []string{"DOMContentLoaded", "load"}, fired)
}
