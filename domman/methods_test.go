package domman

import (
	"testing"
	"time"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counting() (*Callback, *int) {
	n := 0
	return NewCallback(func(...any) any { n++; return nil }), &n
}

func TestCallOnOff(t *testing.T) {
	dm, doc := setup(t, listMarkup)
	list := dm.Select("#list")
	direct, directN := counting()
	delegated, delegatedN := counting()

	list.Call("on", "click", direct)
	list.Call("on", "click", "li", delegated, map[string]any{"capture": false})
	fire(doc.GetElementById("s1"), "click")
	assert.Equal(t, 1, *directN)
	assert.Equal(t, 1, *delegatedN)

	list.Call("off", "click", "li", delegated)
	fire(doc.GetElementById("s1"), "click")
	assert.Equal(t, 2, *directN)
	assert.Equal(t, 1, *delegatedN)

	list.Call("off", "click", direct)
	fire(doc.GetElementById("s1"), "click")
	assert.Equal(t, 2, *directN)

	once, onceN := counting()
	list.Call("one", "click", once)
	fire(doc.GetElementById("s1"), "click")
	fire(doc.GetElementById("s1"), "click")
	assert.Equal(t, 1, *onceN)

	ignored, ignoredN := counting()
	list.Call("on", "click", "li")
	list.Call("on", "click", nil, ignored)
	fire(doc.GetElementById("s1"), "click")
	assert.Zero(t, *ignoredN)
}

func TestCallOffMatchesHandlerIdentity(t *testing.T) {
	dm, doc := setup(t, listMarkup)
	list := dm.Select("#list")
	n := 0
	fn := func(*dom.Event, *dom.Element) { n++ }

	list.Call("on", "click", fn)
	list.Call("off", "click", fn)
	fire(doc.GetElementById("s1"), "click")
	assert.Equal(t, 1, n, "a plain func is wrapped anew and does not match")

	list.Call("off", "click")
	h := NewHandler(fn)
	list.Call("on", "click", h)
	list.Call("off", "click", h)
	fire(doc.GetElementById("s1"), "click")
	assert.Equal(t, 1, n)
	assert.Zero(t, dm.Registry().Len(list.First().AsNode()))
}

func TestCallHandlerArguments(t *testing.T) {
	dm, doc := setup(t, listMarkup)
	var gotEvent *dom.Event
	var gotEl *dom.Element
	dm.Select("#list").Call("on", "click", "li", NewCallback(func(args ...any) any {
		gotEvent, gotEl = args[0].(*dom.Event), args[1].(*dom.Element)
		return nil
	}))
	fire(doc.GetElementById("s2"), "click")
	require.NotNil(t, gotEvent)
	assert.Equal(t, "click", gotEvent.Type)
	assert.Same(t, doc.GetElementById("two"), gotEl)
}

func TestCallDataAndAttributes(t *testing.T) {
	dm, _ := setup(t, `<p id="x" title="hi"></p>`)
	p := dm.Select("#x")

	assert.Same(t, p, p.Call("data", "k", int64(1)))
	assert.Equal(t, int64(1), p.Call("data", "k"))
	assert.Equal(t, map[string]any{"k": int64(1)}, p.Call("data"))
	p.Call("removeData")
	assert.Nil(t, p.Call("data", "k"))

	assert.Equal(t, "hi", p.Call("attr", "title"))
	assert.Nil(t, p.Call("attr", "missing"))
	p.Call("attr", "title", "bye")
	assert.Equal(t, "bye", p.Call("getAttribute", "title"))
	assert.Equal(t, 1, p.Call("length"))
	assert.Equal(t, true, p.Call("isValidSelector", "#x"))
}

func TestCallCSS(t *testing.T) {
	dm, doc := setup(t, `<div id="a"></div>`)
	div := dm.Select("#a")

	div.Call("css", "width", "10px")
	div.Call("css", map[string]any{"height": "5px", "zIndex": int64(3)})
	assert.Equal(t, "10px", div.Call("css", "width"))
	assert.Equal(t, "3", doc.GetElementById("a").Style().GetPropertyValue("z-index"))

	div.Call("cssVar", "main", "red")
	assert.Equal(t, "red", div.Call("cssVar", "main"))

	class := div.Call("cssHover", map[string]any{"color": "red"}, nil, map[string]any{"duration": int64(50)})
	assert.True(t, div.HasClass(class.(string)))
	div.Call("removeCssHover")
	assert.False(t, div.HasClass(class.(string)))
}

func TestCallEach(t *testing.T) {
	dm, _ := setup(t, listMarkup)
	var seen []string
	dm.Select("li").Call("each", NewCallback(func(args ...any) any {
		seen = append(seen, dom.ToString(args[0])+":"+args[1].(*dom.Element).Id())
		return nil
	}))
	assert.Equal(t, []string{"0:one", "1:two"}, seen)
}

func TestCallForms(t *testing.T) {
	dm, _ := setup(t, formMarkup)
	form := dm.Select("#f")

	assert.Equal(t, "user=ann&tags=a&tags=b&size=m&color=blue&note=hi+there", form.Call("serializeForm", "urlencoded"))
	assert.Equal(t, form.SerializeForm(), form.Call("serializeForm"))

	form.Call("formValue", "user", "bob")
	assert.Equal(t, "bob", form.Call("formValue", "user"))

	res := form.Call("validate", map[string]any{
		"user": map[string]any{"minLength": int64(5), "message": "Too short"},
		"note": map[string]any{"validate": NewCallback(func(args ...any) any {
			return args[0] == "hi there"
		})},
		"size": map[string]any{"validate": NewCallback(func(...any) any { return "Pick another" })},
	}, map[string]any{"showErrors": false})
	assert.Equal(t, map[string]any{
		"valid":  false,
		"errors": map[string]any{"user": "Too short", "size": "Pick another"},
	}, res)
}

func TestCallAnimationDurations(t *testing.T) {
	loop := manualLoop()
	dm, doc := setup(t, `<div id="a"></div>`, WithLoop(loop))
	done, n := counting()
	dm.Select("#a").Call("fadeIn", int64(100), done)
	loop.Advance(150 * time.Millisecond)
	assert.Equal(t, 1, *n)
	assert.Equal(t, "1", doc.GetElementById("a").Style().GetPropertyValue("opacity"))

	assert.Equal(t, 250*time.Millisecond, millis([]any{250.0}, 0, 0))
	assert.Equal(t, time.Second, millis([]any{time.Second}, 0, 0))
	assert.Equal(t, 7*time.Millisecond, millis([]any{"x"}, 0, 7*time.Millisecond))
	assert.Equal(t, 7*time.Millisecond, millis(nil, 0, 7*time.Millisecond))
}

func TestCallCreate(t *testing.T) {
	dm, _ := setup(t, `<p></p>`)
	el, ok := dm.Select("p").Call("createElement", "a", map[string]any{"href": "/x", "class": "link"}).(*dom.Element)
	require.True(t, ok)
	assert.Equal(t, "/x", el.GetAttribute("href"))
	assert.Equal(t, "link", el.ClassName())
}
