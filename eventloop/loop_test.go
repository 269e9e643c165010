package eventloop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newManual() (*Loop, *ManualClock) {
	clock := NewManualClock(time.Unix(1000, 0))
	return New(WithClock(clock)), clock
}

func TestTimersRunInDueOrder(t *testing.T) {
	l, _ := newManual()
	var got []string
	l.SetTimeout(func() { got = append(got, "b") }, 20*time.Millisecond)
	l.SetTimeout(func() { got = append(got, "a") }, 10*time.Millisecond)
	l.SetTimeout(func() { got = append(got, "c") }, 20*time.Millisecond)

	l.Advance(5 * time.Millisecond)
	assert.Empty(t, got)

	l.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Zero(t, l.Pending())
}

func TestClearTimeout(t *testing.T) {
	l, _ := newManual()
	fired := false
	id := l.SetTimeout(func() { fired = true }, time.Millisecond)
	l.ClearTimeout(id)
	l.ClearTimeout(9999)
	l.Advance(time.Second)
	assert.False(t, fired)
}

func TestInterval(t *testing.T) {
	l, _ := newManual()
	n := 0
	var id int
	id = l.SetInterval(func() {
		n++
		if n == 3 {
			l.ClearTimeout(id)
		}
	}, 10*time.Millisecond)
	l.Advance(100 * time.Millisecond)
	assert.Equal(t, 3, n)
}

func TestAnimationFrames(t *testing.T) {
	l, _ := newManual()
	var stamps []float64
	var step func(ts float64)
	step = func(ts float64) {
		stamps = append(stamps, ts)
		if len(stamps) < 3 {
			l.RequestAnimationFrame(step)
		}
	}
	l.RequestAnimationFrame(step)
	l.Advance(time.Second)

	require.Len(t, stamps, 3)
	assert.Less(t, stamps[0], stamps[1])
	assert.Less(t, stamps[1], stamps[2])

	id := l.RequestAnimationFrame(func(float64) { t.Fatal("cancelled frame ran") })
	l.CancelAnimationFrame(id)
	l.Advance(time.Second)
}

func TestTasksRunBeforeTimers(t *testing.T) {
	l, _ := newManual()
	var got []string
	l.SetTimeout(func() { got = append(got, "timer") }, 0)
	l.QueueTask(func() { got = append(got, "task") })
	l.RunOnce()
	assert.Equal(t, []string{"task", "timer"}, got)
}

func TestPanicIsRecovered(t *testing.T) {
	l, _ := newManual()
	ran := false
	l.QueueTask(func() { panic("boom") })
	l.QueueTask(func() { ran = true })
	assert.NotPanics(t, func() { l.RunOnce() })
	assert.True(t, ran)
}

func TestRunUntilIdleManual(t *testing.T) {
	l, clock := newManual()
	start := clock.Now()
	done := false
	l.SetTimeout(func() {
		l.SetTimeout(func() { done = true }, time.Hour)
	}, time.Minute)

	require.NoError(t, l.RunUntilIdle(context.Background()))
	assert.True(t, done)
	assert.Equal(t, time.Hour+time.Minute, clock.Now().Sub(start))
}

func TestRunUntilIdleSystemClock(t *testing.T) {
	l := New()
	done := make(chan struct{})
	l.SetTimeout(func() { close(done) }, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.RunUntilIdle(ctx))
	<-done
}

func TestRunUntilIdleCancelled(t *testing.T) {
	l := New()
	l.SetInterval(func() {}, time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.RunUntilIdle(ctx), context.DeadlineExceeded)
}
