package js

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/chrisuehlinger/domman/eventloop"
	"github.com/chrisuehlinger/domman/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func manualLoop() *eventloop.Loop {
	return eventloop.New(eventloop.WithClock(eventloop.NewManualClock(time.Unix(1_700_000_000, 0))))
}

func newTestRuntime(t *testing.T) (*Runtime, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return NewRuntime(manualLoop(), WithOutput(&out), WithLogger(quietLogger())), &out
}

func eval(t *testing.T, r *Runtime, code string) any {
	t.Helper()
	v, err := r.Execute(code)
	require.NoError(t, err)
	return v.Export()
}

func TestConsole(t *testing.T) {
	r, out := newTestRuntime(t)

	eval(t, r, `
		console.log("a", 1, true);
		console.warn("careful");
		console.error("bad");
		console.log(undefined, null);
		console.assert(1 === 2, "math");
		console.assert(true, "never");
		console.count();
		console.count();
		console.count("x");
		console.countReset();
		console.count();
	`)

	assert.Equal(t, "a 1 true\n"+
		"[WARN] careful\n"+
		"[ERROR] bad\n"+
		"undefined null\n"+
		"[ASSERT] math\n"+
		"default: 1\n"+
		"default: 2\n"+
		"x: 1\n"+
		"default: 1\n", out.String())
}

func TestConsoleTime(t *testing.T) {
	r, out := newTestRuntime(t)

	eval(t, r, `console.time("load")`)
	r.Loop().Advance(250 * time.Millisecond)
	eval(t, r, `console.timeEnd("load"); console.timeEnd("load")`)

	assert.Equal(t, "load: 250ms\n", out.String())
}

func TestWindowGlobals(t *testing.T) {
	r, out := newTestRuntime(t)

	assert.Equal(t, true, eval(t, r, `window === globalThis && self === window`))
	eval(t, r, `alert("hi")`)
	assert.Equal(t, "[ALERT] hi\n", out.String())

	r.Loop().Advance(50 * time.Millisecond)
	assert.InDelta(t, 50, eval(t, r, `performance.now()`), 0.001)
}

func TestTimers(t *testing.T) {
	r, _ := newTestRuntime(t)

	eval(t, r, `
		var order = [];
		setTimeout(function (tag) { order.push(tag); }, 10, "timeout");
		queueMicrotask(function () { order.push("microtask"); });
		var cancelled = setTimeout(function () { order.push("cancelled"); }, 5);
		clearTimeout(cancelled);
	`)
	r.Loop().Advance(20 * time.Millisecond)
	assert.Equal(t, "microtask,timeout", eval(t, r, `order.join(",")`))
}

func TestInterval(t *testing.T) {
	r, _ := newTestRuntime(t)

	eval(t, r, `
		var ticks = 0;
		var id = setInterval(function () { ticks++; }, 10);
	`)
	r.Loop().Advance(35 * time.Millisecond)
	assert.EqualValues(t, 3, eval(t, r, `ticks`))

	eval(t, r, `clearInterval(id)`)
	r.Loop().Advance(50 * time.Millisecond)
	assert.EqualValues(t, 3, eval(t, r, `ticks`))
	assert.Zero(t, r.Loop().Pending())
}

func TestAnimationFrame(t *testing.T) {
	r, _ := newTestRuntime(t)

	eval(t, r, `
		var frames = 0;
		requestAnimationFrame(function (ts) { frames++; });
		var dropped = requestAnimationFrame(function () { frames += 100; });
		cancelAnimationFrame(dropped);
	`)
	r.Loop().Advance(time.Millisecond)
	assert.EqualValues(t, 0, eval(t, r, `frames`), "no frame before the interval elapses")
	r.Loop().Advance(eventloop.DefaultFrameInterval)
	assert.EqualValues(t, 1, eval(t, r, `frames`))
}

func TestErrors(t *testing.T) {
	r, _ := newTestRuntime(t)
	var reported []error
	r.SetOnError(func(err error) { reported = append(reported, err) })

	_, err := r.Execute(`throw new Error("boom")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	eval(t, r, `setTimeout(function () { throw new Error("later"); }, 0)`)
	r.Loop().Advance(time.Millisecond)

	require.Len(t, r.Errors(), 2)
	assert.Contains(t, r.Errors()[1].Error(), "later")
	assert.Len(t, reported, 2)

	err = r.ExecuteScript("var = ;", "broken.js")
	require.Error(t, err)
	assert.Len(t, r.Errors(), 3)

	r.ClearErrors()
	assert.Empty(t, r.Errors())
}

func TestLocalStorageBinding(t *testing.T) {
	r, _ := newTestRuntime(t)
	m, err := storage.NewManager()
	require.NoError(t, err)
	area := m.Area(storage.Local, "https://example.com:443")
	r.SetupStorage(area)

	eval(t, r, `localStorage.setItem("theme", "dark"); localStorage.setItem("n", 3)`)
	assert.EqualValues(t, 2, eval(t, r, `localStorage.length`))
	assert.Equal(t, "dark", eval(t, r, `localStorage.getItem("theme")`))
	assert.Equal(t, true, eval(t, r, `localStorage.getItem("missing") === null`))

	v, ok := area.GetItem("n")
	require.True(t, ok)
	assert.Equal(t, "3", v)

	eval(t, r, `localStorage.removeItem("n")`)
	assert.Equal(t, "theme", eval(t, r, `localStorage.key(0)`))
	assert.Equal(t, true, eval(t, r, `localStorage.key(5) === null`))

	_, err = r.Execute(`localStorage.setItem("only-key")`)
	assert.Error(t, err)

	eval(t, r, `localStorage.clear()`)
	assert.Zero(t, area.Length())
}
