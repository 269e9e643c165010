// Package js runs scripts against a document through the domman API.
// It uses the goja JavaScript engine (pure Go ES5.1+ implementation).
package js

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chrisuehlinger/domman/eventloop"
	"github.com/dop251/goja"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Runtime wraps a goja runtime with a console, timers on an event loop and
// a window object. It is not safe for concurrent use: scripts, timers and
// event handlers must all run on the goroutine that drives the loop.
type Runtime struct {
	vm     *goja.Runtime
	loop   *eventloop.Loop
	out    io.Writer
	log    logrus.FieldLogger
	window *goja.Object

	mu      sync.Mutex
	errors  []error
	onError func(error)
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithOutput sets where console output goes. The default is stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) { r.out = w }
}

// WithLogger sets the logger script errors are reported to.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Runtime) { r.log = log }
}

// NewRuntime creates a runtime whose timers run on loop.
func NewRuntime(loop *eventloop.Loop, opts ...Option) *Runtime {
	r := &Runtime{
		vm:   goja.New(),
		loop: loop,
		out:  os.Stdout,
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.loop == nil {
		r.loop = eventloop.New(eventloop.WithLogger(r.log))
	}

	r.setupConsole()
	r.setupTimers()
	r.setupWindow()
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Loop returns the event loop timers are scheduled on.
func (r *Runtime) Loop() *eventloop.Loop {
	return r.loop
}

// SetOnError sets a callback for JavaScript errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs JavaScript code and returns the result.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("script execution panic: %v", p)
			r.reportError(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.reportError(err)
	}
	return result, err
}

// ExecuteScript compiles and runs code in sloppy mode. src names the
// script in error messages.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("script compilation panic in %s: %v", src, p)
			r.reportError(err)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.reportError(err)
		return err
	}
	if _, err = r.vm.RunProgram(program); err != nil {
		r.reportError(err)
	}
	return err
}

// Errors returns all errors that occurred during execution.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = r.errors[:0]
}

func (r *Runtime) reportError(err error) {
	r.mu.Lock()
	r.errors = append(r.errors, err)
	fn := r.onError
	r.mu.Unlock()

	r.log.WithError(err).Warn("js: uncaught error")
	if fn != nil {
		fn(err)
	}
}

// call invokes a script function, reporting rather than returning what it
// throws.
func (r *Runtime) call(fn goja.Callable, this goja.Value, args ...goja.Value) goja.Value {
	if this == nil {
		this = goja.Undefined()
	}
	v, err := fn(this, args...)
	if err != nil {
		r.reportError(err)
		return goja.Undefined()
	}
	return v
}

func (r *Runtime) print(prefix string, args []goja.Value) {
	line := formatArgs(args)
	if prefix != "" {
		line = prefix + " " + line
	}
	fmt.Fprintln(r.out, line)
}

// setupConsole creates the console object with log, warn, error, etc.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	for name, prefix := range map[string]string{
		"log":   "",
		"info":  "[INFO]",
		"warn":  "[WARN]",
		"error": "[ERROR]",
		"debug": "[DEBUG]",
		"trace": "[TRACE]",
	} {
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			r.print(prefix, call.Arguments)
			return goja.Undefined()
		})
	}

	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg = formatArgs(call.Arguments[1:])
			}
			fmt.Fprintln(r.out, "[ASSERT]", msg)
		}
		return goja.Undefined()
	})

	counts := make(map[string]int)
	console.Set("count", func(call goja.FunctionCall) goja.Value {
		label := labelArg(call)
		counts[label]++
		fmt.Fprintf(r.out, "%s: %d\n", label, counts[label])
		return goja.Undefined()
	})
	console.Set("countReset", func(call goja.FunctionCall) goja.Value {
		delete(counts, labelArg(call))
		return goja.Undefined()
	})

	times := make(map[string]time.Time)
	console.Set("time", func(call goja.FunctionCall) goja.Value {
		times[labelArg(call)] = r.loop.Clock().Now()
		return goja.Undefined()
	})
	console.Set("timeEnd", func(call goja.FunctionCall) goja.Value {
		label := labelArg(call)
		if start, ok := times[label]; ok {
			fmt.Fprintf(r.out, "%s: %v\n", label, r.loop.Clock().Now().Sub(start))
			delete(times, label)
		}
		return goja.Undefined()
	})

	r.vm.Set("console", console)
}

func labelArg(call goja.FunctionCall) string {
	if len(call.Arguments) > 0 && !goja.IsUndefined(call.Arguments[0]) {
		return call.Arguments[0].String()
	}
	return "default"
}

// setupWindow makes window, self and globalThis the global object.
func (r *Runtime) setupWindow() {
	window := r.vm.GlobalObject()
	r.vm.Set("window", window)
	r.vm.Set("self", window)
	r.vm.Set("globalThis", window)

	window.Set("alert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			fmt.Fprintln(r.out, "[ALERT]", call.Arguments[0].String())
		}
		return goja.Undefined()
	})

	performance := r.vm.NewObject()
	performance.Set("now", func(goja.FunctionCall) goja.Value {
		return r.vm.ToValue(r.loop.Now())
	})
	window.Set("performance", performance)

	r.window = window
}

// formatArgs formats function call arguments for console output.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value for output.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
