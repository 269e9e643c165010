package animation

import (
	"math"
	"testing"
	"time"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/chrisuehlinger/domman/eventloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*eventloop.Loop, *dom.Element) {
	t.Helper()
	loop := eventloop.New(
		eventloop.WithClock(eventloop.NewManualClock(time.Unix(0, 0))),
		eventloop.WithFrameInterval(10*time.Millisecond),
	)
	doc := dom.NewHTMLDocument()
	el := doc.CreateElement("div")
	doc.Body().AsNode().AppendChild(el.AsNode())
	return loop, el
}

func TestAnimateRunsToCompletion(t *testing.T) {
	loop, el := setup(t)
	a, err := Animate(loop, el, []Keyframe{{"opacity": "0"}, {"opacity": "1"}}, Timing{
		Duration: 100 * time.Millisecond,
		Fill:     "forwards",
	})
	require.NoError(t, err)
	finished := 0
	a.OnFinish(func() { finished++ })

	loop.Advance(10 * time.Millisecond)
	assert.Equal(t, "0", el.Style().GetPropertyValue("opacity"))
	loop.Advance(50 * time.Millisecond)
	assert.Equal(t, "0.5", el.Style().GetPropertyValue("opacity"))
	assert.Equal(t, Running, a.PlayState())

	loop.Advance(100 * time.Millisecond)
	assert.Equal(t, "1", el.Style().GetPropertyValue("opacity"))
	assert.Equal(t, Finished, a.PlayState())
	assert.Equal(t, 1, finished)
	assert.Zero(t, loop.Pending())
}

func TestFillNoneRestoresInlineStyle(t *testing.T) {
	loop, el := setup(t)
	el.Style().SetProperty("width", "5px")
	_, err := Animate(loop, el, []Keyframe{{"width": "10px"}, {"width": "20px"}}, Timing{Duration: 50 * time.Millisecond})
	require.NoError(t, err)
	loop.Advance(30 * time.Millisecond)
	assert.NotEqual(t, "5px", el.Style().GetPropertyValue("width"))
	loop.Advance(100 * time.Millisecond)
	assert.Equal(t, "5px", el.Style().GetPropertyValue("width"))
}

func TestPauseResumeCancel(t *testing.T) {
	loop, el := setup(t)
	a, err := Animate(loop, el, []Keyframe{{"opacity": "0"}, {"opacity": "1"}}, Timing{Duration: 100 * time.Millisecond})
	require.NoError(t, err)
	cancelled, finished := 0, 0
	a.OnCancel(func() { cancelled++ })
	a.OnFinish(func() { finished++ })

	loop.Advance(40 * time.Millisecond)
	a.Pause()
	at := a.CurrentTime()
	loop.Advance(200 * time.Millisecond)
	assert.Equal(t, at, a.CurrentTime())
	assert.Equal(t, Paused, a.PlayState())

	a.Play()
	loop.Advance(20 * time.Millisecond)
	assert.Greater(t, a.CurrentTime(), at)

	a.Cancel()
	assert.Equal(t, Idle, a.PlayState())
	assert.Equal(t, "", el.Style().GetPropertyValue("opacity"))
	loop.Advance(time.Second)
	assert.Equal(t, 1, cancelled)
	assert.Zero(t, finished)
}

func TestFinish(t *testing.T) {
	loop, el := setup(t)
	a, err := Animate(loop, el, []Keyframe{{"height": "0px"}, {"height": "40px"}}, Timing{Duration: time.Second, Fill: "both"})
	require.NoError(t, err)
	require.NoError(t, a.Finish())
	assert.Equal(t, "40px", el.Style().GetPropertyValue("height"))
	assert.Equal(t, Finished, a.PlayState())

	inf, err := New(loop, el, []Keyframe{{"height": "1px"}}, Timing{Duration: time.Second, Iterations: math.Inf(1)})
	require.NoError(t, err)
	assert.Error(t, inf.Finish())
}

func TestDelayAndBackwardsFill(t *testing.T) {
	loop, el := setup(t)
	_, err := Animate(loop, el, []Keyframe{{"left": "10px"}, {"left": "20px"}}, Timing{
		Duration: 100 * time.Millisecond,
		Delay:    50 * time.Millisecond,
		Fill:     "backwards",
	})
	require.NoError(t, err)
	loop.Advance(10 * time.Millisecond)
	assert.Equal(t, "10px", el.Style().GetPropertyValue("left"))
}

func TestAlternateDirection(t *testing.T) {
	loop, el := setup(t)
	_, err := Animate(loop, el, []Keyframe{{"opacity": "0"}, {"opacity": "1"}}, Timing{
		Duration:   100 * time.Millisecond,
		Iterations: 2,
		Direction:  "alternate",
	})
	require.NoError(t, err)
	loop.Advance(10 * time.Millisecond)  // first frame, t=0
	loop.Advance(150 * time.Millisecond) // t=150, second iteration runs backwards
	assert.Equal(t, "0.5", el.Style().GetPropertyValue("opacity"))
}

func TestNewValidates(t *testing.T) {
	loop, el := setup(t)
	_, err := New(loop, el, nil, Timing{})
	assert.Error(t, err)
	_, err = New(loop, el, []Keyframe{{"opacity": "1"}}, Timing{Easing: "wobbly"})
	assert.Error(t, err)
	_, err = New(loop, el, []Keyframe{{"opacity": "1", "offset": "2"}}, Timing{})
	assert.Error(t, err)
	_, err = New(nil, el, []Keyframe{{"opacity": "1"}}, Timing{})
	assert.Error(t, err)
}

func TestSpaceOffsets(t *testing.T) {
	offsets := []float64{math.NaN(), math.NaN(), 0.8, math.NaN()}
	spaceOffsets(offsets)
	assert.Equal(t, []float64{0, 0.4, 0.8, 1}, offsets)
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		from, to string
		p        float64
		want     string
	}{
		{"0px", "100px", 0.25, "25px"},
		{"translate(0px, 10px)", "translate(10px, 20px)", 0.5, "translate(5px, 15px)"},
		{"red", "blue", 0.5, "rgb(128, 0, 128)"},
		{"block", "none", 0.4, "block"},
		{"block", "none", 0.6, "none"},
		{"1px", "1px solid", 0.5, "1px solid"},
		{"-1", "1", 0.5, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Interpolate(tt.from, tt.to, tt.p), "%s -> %s", tt.from, tt.to)
	}
}

func TestEasing(t *testing.T) {
	for _, name := range []string{"", "linear", "ease", "ease-in", "ease-out", "ease-in-out", "cubic-bezier(0.1, 0.7, 1.0, 0.1)", "steps(4)", "step-end"} {
		fn, err := ParseEasing(name)
		require.NoError(t, err, name)
		assert.Equal(t, 0.0, fn(0), name)
		assert.Equal(t, 1.0, fn(1), name)
	}
	jump, err := ParseEasing("steps(2, start)")
	require.NoError(t, err)
	assert.Equal(t, 0.5, jump(0))
	ease, _ := ParseEasing("ease")
	assert.InDelta(t, 0.8024, ease(0.5), 0.001)

	steps, _ := ParseEasing("steps(4)")
	assert.Equal(t, 0.25, steps(0.3))

	for _, bad := range []string{"cubic-bezier(2, 0, 1, 1)", "cubic-bezier(1)", "steps(0)", "bounce"} {
		_, err := ParseEasing(bad)
		assert.Error(t, err, bad)
	}
}
