package js

import (
	"time"

	"github.com/dop251/goja"
)

// minInterval is the shortest setInterval period.
const minInterval = 4 * time.Millisecond

func delayArg(call goja.FunctionCall) time.Duration {
	var ms int64
	if len(call.Arguments) > 1 {
		ms = call.Arguments[1].ToInteger()
	}
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

// extraArgs returns the arguments after the callback and delay.
func extraArgs(call goja.FunctionCall) []goja.Value {
	if len(call.Arguments) > 2 {
		return append([]goja.Value(nil), call.Arguments[2:]...)
	}
	return nil
}

// setupTimers installs setTimeout, setInterval, requestAnimationFrame,
// queueMicrotask and their cancel functions on top of the event loop.
func (r *Runtime) setupTimers() {
	r.vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		callback, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			return goja.Undefined()
		}
		args := extraArgs(call)
		id := r.loop.SetTimeout(func() { r.call(callback, nil, args...) }, delayArg(call))
		return r.vm.ToValue(id)
	})

	r.vm.Set("setInterval", func(call goja.FunctionCall) goja.Value {
		callback, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			return goja.Undefined()
		}
		args := extraArgs(call)
		id := r.loop.SetInterval(func() { r.call(callback, nil, args...) }, max(delayArg(call), minInterval))
		return r.vm.ToValue(id)
	})

	clear := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			r.loop.ClearTimeout(int(call.Arguments[0].ToInteger()))
		}
		return goja.Undefined()
	}
	r.vm.Set("clearTimeout", clear)
	r.vm.Set("clearInterval", clear)

	r.vm.Set("requestAnimationFrame", func(call goja.FunctionCall) goja.Value {
		callback, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			return goja.Undefined()
		}
		id := r.loop.RequestAnimationFrame(func(ts float64) {
			r.call(callback, nil, r.vm.ToValue(ts))
		})
		return r.vm.ToValue(id)
	})

	r.vm.Set("cancelAnimationFrame", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			r.loop.CancelAnimationFrame(int(call.Arguments[0].ToInteger()))
		}
		return goja.Undefined()
	})

	r.vm.Set("queueMicrotask", func(call goja.FunctionCall) goja.Value {
		callback, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			return goja.Undefined()
		}
		r.loop.QueueTask(func() { r.call(callback, nil) })
		return goja.Undefined()
	})
}
