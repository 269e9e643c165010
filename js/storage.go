package js

import (
	"github.com/chrisuehlinger/domman/storage"
	"github.com/dop251/goja"
)

// SetupStorage installs area as window.localStorage. A nil area leaves
// localStorage undefined.
func (r *Runtime) SetupStorage(area *storage.Area) {
	if area == nil {
		return
	}
	vm := r.vm
	obj := vm.NewObject()

	obj.DefineAccessorProperty("length", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(area.Length())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.Set("key", func(call goja.FunctionCall) goja.Value {
		key, ok := area.Key(int(call.Argument(0).ToInteger()))
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(key)
	})

	obj.Set("getItem", func(call goja.FunctionCall) goja.Value {
		value, ok := area.GetItem(call.Argument(0).String())
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(value)
	})

	obj.Set("setItem", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("Failed to execute 'setItem' on 'Storage': 2 arguments required"))
		}
		if err := area.SetItem(call.Arguments[0].String(), call.Arguments[1].String()); err != nil {
			panic(vm.NewGoError(err))
		}
		return goja.Undefined()
	})

	obj.Set("removeItem", func(call goja.FunctionCall) goja.Value {
		area.RemoveItem(call.Argument(0).String())
		return goja.Undefined()
	})

	obj.Set("clear", func(goja.FunctionCall) goja.Value {
		area.Clear()
		return goja.Undefined()
	})

	r.window.Set("localStorage", obj)
}
