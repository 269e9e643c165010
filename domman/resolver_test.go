package domman

import (
	"testing"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resolverMarkup = `<div id="box"></div><img id="pic" src="a.png"><audio id="song"></audio><button id="btn">go</button><input id="field" value="v">`

func TestResolveKinds(t *testing.T) {
	dm, _ := setup(t, resolverMarkup)
	box := dm.Select("#box")

	tests := []struct {
		name  string
		kind  MemberKind
		event string
	}{
		{"val", MemberMethod, ""},
		{"textContent", MemberMethod, ""},
		{"toggleClass", MemberMethod, ""},
		{"getAttribute", MemberMethod, ""},
		{"click", MemberEventMethod, "click"},
		{"focus", MemberEventMethod, "focus"},
		{"submit", MemberEventMethod, "submit"},
		{"load", MemberEventMethod, "load"},
		{"scrollIntoView", MemberDOMMethod, ""},
		{"replaceClass", MemberDOMMethod, ""},
		{"matches", MemberDOMMethod, ""},
		{"dblclick", MemberEvent, "dblclick"},
		{"enter", MemberEvent, "mouseenter"},
		{"down", MemberEvent, "mousedown"},
		{"innerHTML", MemberProperty, ""},
		{"id", MemberProperty, ""},
		{"volume", MemberStyle, ""},
		{"src", MemberStyle, ""},
		{"backgroundColor", MemberStyle, ""},
		{"opacity", MemberStyle, ""},
		{"_internal", MemberUndefined, ""},
		{"doesNotExist", MemberUndefined, ""},
	}
	for _, tt := range tests {
		m := box.Resolve(tt.name)
		assert.Equal(t, tt.kind, m.Kind, tt.name)
		assert.Equal(t, tt.event, m.Event, tt.name)
		assert.Equal(t, tt.kind != MemberUndefined, m.Defined(), tt.name)
	}
}

func TestVolumeOnDivIsStyle(t *testing.T) {
	dm, doc := setup(t, resolverMarkup)
	box := dm.Select("#box")
	el := doc.GetElementById("box")

	m := box.Resolve("volume")
	require.Equal(t, MemberStyle, m.Kind)
	assert.Same(t, box, m.Call("0.5"))
	assert.Equal(t, "0.5", el.Style().GetPropertyValue("volume"))
	assert.False(t, el.HasProperty("volume"), "no property appears on the div")
	assert.IsType(t, "", m.Call(), "the getter reads computed style")
}

func TestVolumeOnAudioIsProperty(t *testing.T) {
	dm, doc := setup(t, resolverMarkup)
	song := dm.Select("#song")
	el := doc.GetElementById("song")

	m := song.Resolve("volume")
	require.Equal(t, MemberProperty, m.Kind)
	assert.Equal(t, 1.0, m.Call())
	assert.Same(t, song, m.Call(0.25))
	assert.Equal(t, 0.25, el.Volume())
	assert.Empty(t, el.Style().GetPropertyValue("volume"))
}

func TestSrcPrefersElementProperty(t *testing.T) {
	dm, doc := setup(t, resolverMarkup)

	pic := dm.Select("#pic")
	require.Equal(t, MemberProperty, pic.Resolve("src").Kind)
	assert.Equal(t, "a.png", pic.Call("src"))
	pic.Call("src", "b.png")
	assert.Equal(t, "b.png", doc.GetElementById("pic").GetAttribute("src"))

	box := dm.Select("#box")
	require.Equal(t, MemberStyle, box.Resolve("src").Kind)
	box.Call("src", "x")
	assert.False(t, doc.GetElementById("box").HasAttribute("src"))
}

func TestEventMethodCollision(t *testing.T) {
	dm, _ := setup(t, resolverMarkup)
	btn := dm.Select("#btn")
	calls := 0
	btn.On("click", NewHandler(func(*dom.Event, *dom.Element) { calls++ }))

	assert.Same(t, btn, btn.Call("click"), "no arguments runs the method")
	assert.Equal(t, 1, calls)

	bound := 0
	btn.Call("click", NewCallback(func(...any) any { bound++; return nil }))
	assert.Equal(t, 1, calls, "one function argument binds without clicking")
	assert.Zero(t, bound)

	btn.Call("click")
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, bound)

	btn.Call("click", "not", "a function")
	assert.Equal(t, 3, calls, "other shapes call the method")
}

func TestEventOnlyBinds(t *testing.T) {
	dm, doc := setup(t, resolverMarkup)
	btn := dm.Select("#btn")
	root := doc.GetElementById("btn").AsNode()

	assert.Same(t, btn, btn.Call("dblclick"))
	assert.Same(t, btn, btn.Call("dblclick", "x"))
	assert.Zero(t, dm.Registry().Len(root), "nothing to bind")

	entered := 0
	btn.Call("enter", func(*dom.Event, *dom.Element) { entered++ })
	regs := dm.Registry().Registrations(root)
	require.Len(t, regs, 1)
	assert.Equal(t, "mouseenter", regs[0].Type)
	fire(doc.GetElementById("btn"), "mouseenter")
	assert.Equal(t, 1, entered)
}

func TestDOMMethodSemantics(t *testing.T) {
	dm, _ := setup(t, `<p class="a" id="p1"></p><p class="a" id="p2"></p><canvas id="c"></canvas>`)
	ps := dm.Select("p")

	assert.Equal(t, true, ps.Call("matches", ".a"))
	assert.Equal(t, false, ps.Call("matches", "div"))
	ps.Call("replaceClass", "a", "b")
	assert.True(t, dm.Select("#p2").HasClass("b"))
	assert.Equal(t, true, ps.Call("containsClass", "b"))

	assert.Nil(t, ps.Call("getContext", "2d"), "not a canvas")
	assert.Nil(t, ps.Call("toDataURL"))
	assert.Equal(t, "data:,", dm.Select("#c").Call("toDataURL"))

	assert.Equal(t, false, ps.Call("checkValidity"), "not a form")
	assert.Nil(t, dm.Select(".none").Call("getBoundingClientRect"))
	assert.NotNil(t, ps.Call("getBoundingClientRect"))
}

func TestPropertyAccessor(t *testing.T) {
	dm, doc := setup(t, resolverMarkup)
	field := dm.Select("#field")

	assert.Equal(t, "v", field.Call("value"))
	assert.Equal(t, "v", field.Call("value", nil), "nil reads")
	field.Call("value", "w")
	assert.Equal(t, "w", doc.GetElementById("field").Value())

	empty := dm.Select(".none")
	m := empty.Resolve("value")
	assert.Equal(t, MemberProperty, m.Kind, "with no element the property path is kept")
	assert.Same(t, empty, m.Call())
	assert.Same(t, empty, empty.Call("opacity", "1"))
}

func TestStyleAccessor(t *testing.T) {
	dm, doc := setup(t, `<div id="a"></div><div id="b"></div>`)
	divs := dm.Select("div")
	divs.Call("width", "50px")
	assert.Equal(t, "50px", doc.GetElementById("b").Style().GetPropertyValue("width"))
	assert.Equal(t, "50px", divs.Call("width"))
}

func TestUndefinedMember(t *testing.T) {
	cfg, logger, buf := debugLogger()
	dm, _ := setup(t, resolverMarkup, cfg, logger)
	box := dm.Select("#box")

	m := box.Resolve("_secret")
	assert.False(t, m.Defined())
	assert.Nil(t, m.Call("x"))
	assert.Empty(t, buf.String(), "underscore names are not reported")

	assert.Nil(t, box.Call("whatever"))
	assert.Contains(t, buf.String(), "'whatever'")
}

func TestExtend(t *testing.T) {
	cfg, logger, buf := debugLogger()
	dm, _ := setup(t, resolverMarkup, cfg, logger)
	dm.Extend(map[string]Method{
		"highlight": func(s *Selection, args ...any) any { return s.AddClass("hl") },
		"val":       func(s *Selection, args ...any) any { return "hijacked" },
	})
	assert.Contains(t, buf.String(), "Method 'val' already exists")

	box := dm.Select("#box")
	assert.Equal(t, MemberMethod, box.Resolve("highlight").Kind)
	box.Call("highlight")
	assert.True(t, box.HasClass("hl"))
	assert.Equal(t, "", dm.Select("#box").Call("val"), "built-ins cannot be replaced")

	dm.Extend(map[string]Method{"highlight": func(s *Selection, _ ...any) any { return nil }})
	assert.Same(t, box, box.Call("highlight"), "the first plugin is kept")

	dm.Select("#box").Call("extend", map[string]any{
		"shout": NewCallback(func(args ...any) any {
			return args[0].(*Selection).Len() + len(args) - 1
		}),
	})
	assert.Equal(t, 3, box.Call("shout", "a", "b"))
}

func TestCallbackIdentity(t *testing.T) {
	dm, doc := setup(t, resolverMarkup)
	btn := dm.Select("#btn")
	calls := 0
	cb := NewCallback(func(...any) any { calls++; return nil })

	btn.Call("on", "click", cb)
	btn.Call("on", "click", cb)
	assert.Equal(t, 1, dm.Registry().Len(doc.GetElementById("btn").AsNode()))
	fire(doc.GetElementById("btn"), "click")
	assert.Equal(t, 1, calls)

	btn.Call("off", "click", cb)
	fire(doc.GetElementById("btn"), "click")
	assert.Equal(t, 1, calls)
}
