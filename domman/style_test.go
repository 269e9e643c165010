package domman

import (
	"strings"
	"testing"
	"time"

	"github.com/chrisuehlinger/domman/animation"
	"github.com/chrisuehlinger/domman/dom"
	"github.com/chrisuehlinger/domman/eventloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manualLoop() *eventloop.Loop {
	return eventloop.New(
		eventloop.WithClock(eventloop.NewManualClock(time.Unix(0, 0))),
		eventloop.WithFrameInterval(10*time.Millisecond),
	)
}

func TestCSS(t *testing.T) {
	dm, doc := setup(t, `<div id="a"></div><div id="b"></div>`)
	divs := dm.Select("div")

	divs.SetCSS("width", "10px").CSSObject(map[string]string{"height": "5px", "marginTop": "0"})
	w, ok := divs.CSS("width")
	assert.True(t, ok)
	assert.Equal(t, "10px", w)
	assert.Equal(t, "5px", doc.GetElementById("b").Style().GetPropertyValue("height"))
	assert.Equal(t, "0", doc.GetElementById("b").Style().GetPropertyValue("margin-top"))

	divs.Hide()
	assert.Equal(t, "none", doc.GetElementById("a").Style().GetPropertyValue("display"))
	divs.Show()
	assert.Empty(t, doc.GetElementById("a").Style().GetPropertyValue("display"))

	_, ok = dm.Select(".none").CSS("width")
	assert.False(t, ok)
}

func TestCSSVar(t *testing.T) {
	dm, _ := setup(t, `<div id="outer"><p id="inner"></p></div>`)
	dm.Select("#outer").SetCSSVar(map[string]string{"main": "red", "--gap": "4px"})

	v, ok := dm.Select("#inner").CSSVar("main")
	assert.True(t, ok)
	assert.Equal(t, "red", v, "custom properties inherit")
	v, _ = dm.Select("#outer").CSSVar("--gap")
	assert.Equal(t, "4px", v)
}

func TestAlternateColors(t *testing.T) {
	dm, doc := setup(t, `<table id="t"><tbody><tr id="r0"></tr><tr id="r1"></tr><tr id="r2"></tr></tbody></table><p id="p0"></p><p id="p1"></p>`)
	dm.Select("#t").AlternateColors("gray", "white")
	bg := func(id string) string {
		return doc.GetElementById(id).Style().GetPropertyValue("background-color")
	}
	assert.Equal(t, "white", bg("r0"))
	assert.Equal(t, "gray", bg("r1"))
	assert.Equal(t, "white", bg("r2"))

	dm.Select("p").AlternateColors("odd", "even")
	assert.Equal(t, "even", bg("p0"))
	assert.Equal(t, "odd", bg("p1"))
}

func TestCSSPseudoAndHover(t *testing.T) {
	dm, doc := setup(t, `<button class="b">1</button><button class="b">2</button>`)
	buttons := dm.Select(".b")

	class := buttons.CSSHover(map[string]string{"color": "red"}, map[string]string{"color": "blue"}, PseudoOptions{Duration: 100 * time.Millisecond})
	require.True(t, strings.HasPrefix(class, pseudoClassPrefix))
	assert.Len(t, class, len(pseudoClassPrefix)+12)
	assert.True(t, buttons.HasClass(class))

	sheet := doc.GetElementById(pseudoStyleID)
	require.NotNil(t, sheet)
	assert.Same(t, doc.Head(), sheet.ParentElement())
	rules := sheet.TextContent()
	assert.Contains(t, rules, "."+class+" {color: blue; transition: all 100ms ease; }")
	assert.Contains(t, rules, "."+class+":hover {color: red; }")

	last, ok := buttons.Data(lastPseudoClassKey)
	assert.True(t, ok)
	assert.Equal(t, class, last)

	other := buttons.CSSPseudo("focus", map[string]string{"outline": "none"}, nil)
	assert.NotEqual(t, class, other)
	assert.NotContains(t, strings.TrimPrefix(sheet.TextContent(), rules), "transition", "no base styles, no transition")

	buttons.RemoveCSSHover()
	assert.False(t, buttons.HasClass(class))
	assert.False(t, buttons.HasClass(other))
	assert.Equal(t, "", buttons.CSSPseudo("", nil, nil))
}

func TestAddClassWithTransition(t *testing.T) {
	loop := manualLoop()
	dm, doc := setup(t, `<div id="a" style="transition: none"></div>`, WithLoop(loop))
	el := doc.GetElementById("a")

	dm.Select("#a").AddClassWithTransition("on", 200*time.Millisecond)
	assert.True(t, el.ClassList().Contains("on"))
	assert.Equal(t, "all 200ms", el.Style().GetPropertyValue("transition"))

	loop.Advance(199 * time.Millisecond)
	assert.Equal(t, "all 200ms", el.Style().GetPropertyValue("transition"))
	loop.Advance(time.Millisecond)
	assert.Equal(t, "none", el.Style().GetPropertyValue("transition"))
}

func TestAnimateKeyframes(t *testing.T) {
	loop := manualLoop()
	dm, doc := setup(t, `<div id="a"></div><div id="b"></div>`, WithLoop(loop))
	divs := dm.Select("div")
	var done []string
	divs.AnimateKeyframes([]animation.Keyframe{{"opacity": "0"}, {"opacity": "1"}}, KeyframeOptions{
		Timing:     animation.Timing{Duration: 100 * time.Millisecond},
		OnComplete: func(el *dom.Element) { done = append(done, el.Id()) },
	})
	require.Len(t, divs.Animations(), 2)

	loop.Advance(200 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, done)
	assert.Equal(t, "1", doc.GetElementById("a").Style().GetPropertyValue("opacity"), "fills forwards by default")
}

func TestPauseResumeCancelAnimation(t *testing.T) {
	loop := manualLoop()
	dm, _ := setup(t, `<div id="a"></div>`, WithLoop(loop))
	div := dm.Select("#a")
	finished, canceled := 0, 0
	div.AnimateKeyframes([]animation.Keyframe{{"opacity": "0"}, {"opacity": "1"}}, KeyframeOptions{
		Timing:     animation.Timing{Duration: 100 * time.Millisecond},
		OnComplete: func(*dom.Element) { finished++ },
		OnCancel:   func(*dom.Element) { canceled++ },
	})
	a := div.Animations()[0]

	loop.Advance(30 * time.Millisecond)
	div.PauseAnimation()
	assert.Equal(t, animation.Paused, a.PlayState())
	div.ResumeAnimation()
	assert.Equal(t, animation.Running, a.PlayState())

	div.CancelAnimation()
	loop.Advance(time.Second)
	assert.Zero(t, finished, "canceling drops the completion callback")
	assert.Equal(t, 1, canceled)
	assert.Empty(t, div.Animations())
}

func TestFadeIn(t *testing.T) {
	loop := manualLoop()
	dm, doc := setup(t, `<div id="a" style="display: none"></div>`, WithLoop(loop))
	el := doc.GetElementById("a")
	var done *dom.Element
	dm.Select("#a").FadeIn(100*time.Millisecond, func(e *dom.Element) { done = e })

	assert.Equal(t, "block", el.Style().GetPropertyValue("display"))
	assert.Equal(t, "0", el.Style().GetPropertyValue("opacity"))
	loop.Advance(200 * time.Millisecond)
	assert.Same(t, el, done)
	assert.Equal(t, "1", el.Style().GetPropertyValue("opacity"))
}

func TestAnimateTransition(t *testing.T) {
	loop := manualLoop()
	dm, doc := setup(t, `<div id="a"></div><div id="b"></div>`, WithLoop(loop))
	var done []string
	dm.Select("div").Animate(map[string]string{"width": "20px"}, 100*time.Millisecond, "", func(el *dom.Element) {
		done = append(done, el.Id())
	})
	a := doc.GetElementById("a")
	assert.Equal(t, "all 100ms ease", a.Style().GetPropertyValue("transition"))
	assert.Equal(t, "20px", a.Style().GetPropertyValue("width"))

	a.AsNode().DispatchEvent(dom.NewEvent("transitionend", dom.EventInit{}))
	assert.Equal(t, []string{"a"}, done)

	loop.Advance(150 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, done, "the timeout completes the rest")
	a.AsNode().DispatchEvent(dom.NewEvent("transitionend", dom.EventInit{}))
	assert.Len(t, done, 2)
}
