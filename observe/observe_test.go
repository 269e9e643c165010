package observe

import (
	"testing"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/chrisuehlinger/domman/eventloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(t *testing.T) (*dom.Element, *dom.Element) {
	t.Helper()
	doc, err := dom.ParseHTMLString(`<div id="a"></div><div id="b"></div>`)
	require.NoError(t, err)
	return doc.GetElementById("a"), doc.GetElementById("b")
}

func TestIntersectionInitialAndCrossing(t *testing.T) {
	a, b := page(t)
	a.SetGeometry(&dom.ElementGeometry{X: 0, Y: 0, Width: 100, Height: 100})
	b.SetGeometry(&dom.ElementGeometry{X: 0, Y: 1000, Width: 100, Height: 100})

	host := NewHost(dom.NewDOMRect(0, 0, 800, 600))
	var got []IntersectionEntry
	o, err := host.NewIntersectionObserver(func(entries []IntersectionEntry, _ *IntersectionObserver) {
		got = append(got, entries...)
	}, IntersectionOptions{Threshold: []float64{0.5}})
	require.NoError(t, err)
	o.Observe(a)
	o.Observe(b)
	o.Observe(a)

	host.Refresh()
	require.Len(t, got, 2, "every target reports once initially")
	assert.True(t, got[0].IsIntersecting)
	assert.Equal(t, 1.0, got[0].IntersectionRatio)
	assert.False(t, got[1].IsIntersecting)

	got = nil
	host.Refresh()
	assert.Empty(t, got, "nothing changed")

	// scroll b half into view
	b.SetGeometry(&dom.ElementGeometry{X: 0, Y: 550, Width: 100, Height: 100})
	host.Refresh()
	require.Len(t, got, 1)
	assert.Same(t, b, got[0].Target)
	assert.True(t, got[0].IsIntersecting)
	assert.InDelta(t, 0.5, got[0].IntersectionRatio, 1e-9)
}

func TestIntersectionUnobserveAndDisconnect(t *testing.T) {
	a, b := page(t)
	a.SetGeometry(&dom.ElementGeometry{Width: 10, Height: 10})
	host := NewHost(dom.NewDOMRect(0, 0, 100, 100))
	calls := 0
	o, err := host.NewIntersectionObserver(func([]IntersectionEntry, *IntersectionObserver) { calls++ }, IntersectionOptions{})
	require.NoError(t, err)
	o.Observe(a)
	o.Observe(b)
	o.Unobserve(b)
	assert.Equal(t, []*dom.Element{a}, o.Targets())

	n, _ := host.Observers()
	assert.Equal(t, 1, n)
	o.Disconnect()
	n, _ = host.Observers()
	assert.Zero(t, n)
	host.Refresh()
	assert.Zero(t, calls)
}

func TestIntersectionRejectsBadThreshold(t *testing.T) {
	host := NewHost(nil)
	_, err := host.NewIntersectionObserver(func([]IntersectionEntry, *IntersectionObserver) {}, IntersectionOptions{Threshold: []float64{1.5}})
	assert.Error(t, err)
	_, err = host.NewIntersectionObserver(nil, IntersectionOptions{})
	assert.Error(t, err)
}

func TestDetachedTargetDoesNotIntersect(t *testing.T) {
	doc := dom.NewHTMLDocument()
	el := doc.CreateElement("div")
	el.SetGeometry(&dom.ElementGeometry{Width: 10, Height: 10})
	host := NewHost(dom.NewDOMRect(0, 0, 100, 100))
	var got []IntersectionEntry
	o, err := host.NewIntersectionObserver(func(entries []IntersectionEntry, _ *IntersectionObserver) {
		got = entries
	}, IntersectionOptions{})
	require.NoError(t, err)
	o.Observe(el)
	host.Refresh()
	require.Len(t, got, 1)
	assert.False(t, got[0].IsIntersecting)
}

func TestResizeObserver(t *testing.T) {
	a, b := page(t)
	host := NewHost(nil)
	var got []ResizeEntry
	o, err := host.NewResizeObserver(func(entries []ResizeEntry, _ *ResizeObserver) {
		got = append(got, entries...)
	})
	require.NoError(t, err)
	a.SetGeometry(&dom.ElementGeometry{Width: 50, Height: 20})
	o.Observe(a)
	o.Observe(b)

	host.Refresh()
	require.Len(t, got, 1, "zero-sized targets are not reported")
	assert.Equal(t, 50.0, got[0].ContentRect.Width)

	got = nil
	b.SetGeometry(&dom.ElementGeometry{Width: 5, Height: 5})
	host.Refresh()
	require.Len(t, got, 1)
	assert.Same(t, b, got[0].Target)

	o.Unobserve(b)
	b.SetGeometry(&dom.ElementGeometry{Width: 6, Height: 6})
	got = nil
	host.Refresh()
	assert.Empty(t, got)
}

func TestSchedulerRefreshesAfterObserve(t *testing.T) {
	a, _ := page(t)
	a.SetGeometry(&dom.ElementGeometry{Width: 10, Height: 10})
	loop := eventloop.New(eventloop.WithClock(eventloop.NewManualClock(eventloop.SystemClock().Now())))
	host := NewHost(dom.NewDOMRect(0, 0, 100, 100), WithScheduler(loop.QueueTask))

	calls := 0
	o, err := host.NewIntersectionObserver(func([]IntersectionEntry, *IntersectionObserver) { calls++ }, IntersectionOptions{})
	require.NoError(t, err)
	o.Observe(a)
	assert.Zero(t, calls)
	loop.RunOnce()
	assert.Equal(t, 1, calls)
}

func TestPanickingCallbackIsContained(t *testing.T) {
	a, _ := page(t)
	host := NewHost(dom.NewDOMRect(0, 0, 100, 100))
	o, err := host.NewIntersectionObserver(func([]IntersectionEntry, *IntersectionObserver) { panic("boom") }, IntersectionOptions{})
	require.NoError(t, err)
	o.Observe(a)
	assert.NotPanics(t, host.Refresh)
}
