package domman

import (
	"testing"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/chrisuehlinger/domman/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observed(t *testing.T) (*DomMan, *dom.Document, *observe.Host) {
	t.Helper()
	host := observe.NewHost(dom.NewDOMRect(0, 0, 800, 600))
	dm, doc := setup(t, `<div id="a"></div><div id="b"></div>`, WithObserverHost(host))
	doc.GetElementById("a").SetGeometry(&dom.ElementGeometry{X: 0, Y: 100, Width: 100, Height: 100})
	doc.GetElementById("b").SetGeometry(&dom.ElementGeometry{X: 0, Y: 1000, Width: 100, Height: 100})
	return dm, doc, host
}

func TestOnIntersect(t *testing.T) {
	dm, doc, host := observed(t)
	seen := map[string]bool{}
	divs := dm.Select("div").OnIntersect(func(e observe.IntersectionEntry, el *dom.Element) {
		assert.Same(t, e.Target, el)
		seen[el.Id()] = e.IsIntersecting
	})

	host.Refresh()
	assert.Equal(t, map[string]bool{"a": true, "b": false}, seen)

	doc.GetElementById("b").SetGeometry(&dom.ElementGeometry{X: 0, Y: 550, Width: 100, Height: 100})
	host.Refresh()
	assert.True(t, seen["b"])

	divs.Unobserve()
	n, _ := host.Observers()
	assert.Zero(t, n)
}

func TestWhenVisible(t *testing.T) {
	dm, doc, host := observed(t)
	var visible []string
	dm.Select("div").WhenVisible(func(_ observe.IntersectionEntry, el *dom.Element) {
		visible = append(visible, el.Id())
	})

	host.Refresh()
	assert.Equal(t, []string{"a"}, visible)

	doc.GetElementById("a").SetGeometry(&dom.ElementGeometry{Y: 2000, Width: 100, Height: 100})
	host.Refresh()
	doc.GetElementById("a").SetGeometry(&dom.ElementGeometry{Y: 0, Width: 100, Height: 100})
	doc.GetElementById("b").SetGeometry(&dom.ElementGeometry{Y: 0, Width: 100, Height: 100})
	host.Refresh()
	assert.Equal(t, []string{"a", "b"}, visible, "each element reported once")

	n, _ := host.Observers()
	assert.Zero(t, n, "disconnected after the last element")
}

func TestWhenVisibleRepeat(t *testing.T) {
	dm, doc, host := observed(t)
	count := 0
	dm.Select("#a").WhenVisible(func(observe.IntersectionEntry, *dom.Element) { count++ }, VisibleOptions{Repeat: true})

	a := doc.GetElementById("a")
	host.Refresh()
	a.SetGeometry(&dom.ElementGeometry{Y: 2000, Width: 100, Height: 100})
	host.Refresh()
	a.SetGeometry(&dom.ElementGeometry{Y: 10, Width: 100, Height: 100})
	host.Refresh()
	assert.Equal(t, 2, count)
}

func TestOnResize(t *testing.T) {
	dm, doc, host := observed(t)
	sizes := map[string]float64{}
	sel := dm.Select("#a").OnResize(func(e observe.ResizeEntry, el *dom.Element) {
		sizes[el.Id()] = e.ContentRect.Width
	})

	host.Refresh()
	assert.Equal(t, 100.0, sizes["a"])

	doc.GetElementById("a").SetGeometry(&dom.ElementGeometry{Y: 100, Width: 250, Height: 100})
	host.Refresh()
	assert.Equal(t, 250.0, sizes["a"])

	sel.UnobserveResize()
	_, n := host.Observers()
	assert.Zero(t, n)
}

func TestObserversWithoutHost(t *testing.T) {
	cfg, logger, buf := debugLogger()
	dm, _ := setup(t, `<div id="a"></div>`, cfg, logger)
	called := false
	sel := dm.Select("#a").
		OnIntersect(func(observe.IntersectionEntry, *dom.Element) { called = true }).
		WhenVisible(func(observe.IntersectionEntry, *dom.Element) { called = true }).
		OnResize(func(observe.ResizeEntry, *dom.Element) { called = true })

	require.NotNil(t, sel)
	assert.False(t, called)
	assert.Contains(t, buf.String(), "IntersectionObserver is not available")
	assert.Contains(t, buf.String(), "ResizeObserver is not available")
	assert.Nil(t, dm.Observers())
}

func TestInvalidThreshold(t *testing.T) {
	dm, _, host := observed(t)
	dm.Select("div").OnIntersect(func(observe.IntersectionEntry, *dom.Element) {}, 2)
	n, _ := host.Observers()
	assert.Zero(t, n)
}
