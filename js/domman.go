package js

import (
	"sort"
	"strconv"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/chrisuehlinger/domman/domman"
	"github.com/chrisuehlinger/domman/observe"
	"github.com/dop251/goja"
)

// statics are the $d functions that need no selection.
var statics = []string{
	"create", "createElement", "createElementNS", "createSVG",
	"createTextNode", "createComment", "createDocumentFragment",
	"ajax", "get", "post", "ready", "onReady",
	"isElement", "isValidSelector", "deepClone",
	"setLocalStorage", "getLocalStorage", "removeLocalStorage", "clearLocalStorage",
}

// Binder exposes a DomMan to scripts as the $d and domMan globals.
// Selections are dynamic objects: every property read goes through
// Selection.Resolve, so plugins added with $d.extend are visible at once.
type Binder struct {
	rt *Runtime
	dm *domman.DomMan

	// Cached so that identity holds across calls: the same element always
	// maps to the same object, and the same script function to the same
	// Callback, which "off" relies on.
	elements  map[*dom.Element]*goja.Object
	callbacks map[*goja.Object]*domman.Callback
}

// Bind installs dm into r. It also installs window.localStorage for the
// document origin.
func Bind(r *Runtime, dm *domman.DomMan) *Binder {
	b := &Binder{
		rt:        r,
		dm:        dm,
		elements:  make(map[*dom.Element]*goja.Object),
		callbacks: make(map[*goja.Object]*domman.Callback),
	}

	vm := r.vm
	fn := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.selection(b.from(b.fromJS(call.Argument(0))))
	}).(*goja.Object)

	for _, name := range statics {
		fn.Set(name, func(call goja.FunctionCall) goja.Value {
			res := dm.Wrap().Call(name, b.args(call.Arguments)...)
			switch v := res.(type) {
			case error:
				panic(vm.NewGoError(v))
			case *domman.Selection:
				return goja.Undefined()
			}
			return b.toJS(res)
		})
	}
	fn.Set("extend", func(call goja.FunctionCall) goja.Value {
		b.extend(call.Argument(0))
		return fn
	})

	prevShort, prevLong := vm.Get("$d"), vm.Get("domMan")
	fn.Set("noConflict", func(call goja.FunctionCall) goja.Value {
		restoreGlobal(vm, "$d", fn, prevShort)
		if call.Argument(0).ToBoolean() {
			restoreGlobal(vm, "domMan", fn, prevLong)
		}
		return fn
	})

	vm.Set("$d", fn)
	vm.Set("domMan", fn)
	if doc := dm.Document(); doc != nil {
		if root := doc.DocumentElement(); root != nil {
			vm.Set("document", b.element(root))
		}
	}
	r.SetupStorage(dm.LocalStorage())
	return b
}

// restoreGlobal gives name back the value it had before Bind, provided
// it still holds ours.
func restoreGlobal(vm *goja.Runtime, name string, ours *goja.Object, prev goja.Value) {
	cur := vm.Get(name)
	if cur == nil || !cur.SameAs(ours) {
		return
	}
	if prev == nil {
		_ = vm.GlobalObject().Delete(name)
		return
	}
	_ = vm.Set(name, prev)
}

// from turns a script argument into a selection, accepting arrays of
// elements as well as everything DomMan.From does.
func (b *Binder) from(v any) *domman.Selection {
	items, ok := v.([]any)
	if !ok {
		return b.dm.From(v)
	}
	var els []*dom.Element
	for _, item := range items {
		switch t := item.(type) {
		case *dom.Element:
			els = append(els, t)
		case *dom.Node:
			if el := t.AsElement(); el != nil {
				els = append(els, el)
			}
		}
	}
	return b.dm.Wrap(els...)
}

// extend registers each function of obj as a plugin method. Inside the
// method, this is the selection it was called on.
func (b *Binder) extend(v goja.Value) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return
	}
	methods := make(map[string]any)
	for _, key := range obj.Keys() {
		fn, ok := goja.AssertFunction(obj.Get(key))
		if !ok {
			continue
		}
		methods[key] = domman.Method(func(s *domman.Selection, args ...any) any {
			return b.fromJS(b.rt.call(fn, b.selection(s), b.jsArgs(args)...))
		})
	}
	b.dm.Wrap().Call("extend", methods)
}

func (b *Binder) args(values []goja.Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = b.fromJS(v)
	}
	return out
}

func (b *Binder) jsArgs(args []any) []goja.Value {
	out := make([]goja.Value, len(args))
	for i, a := range args {
		out[i] = b.toJS(a)
	}
	return out
}

// callback returns the Callback for a script function. A callback called
// with an element or selection runs with it as this.
func (b *Binder) callback(obj *goja.Object, fn goja.Callable) *domman.Callback {
	if cb, ok := b.callbacks[obj]; ok {
		return cb
	}
	cb := domman.NewCallback(func(args ...any) any {
		jsArgs := b.jsArgs(args)
		var this goja.Value
		for i, a := range args {
			switch a.(type) {
			case *domman.Selection, *dom.Element:
				this = jsArgs[i]
			}
			if this != nil {
				break
			}
		}
		return b.fromJS(b.rt.call(fn, this, jsArgs...))
	})
	b.callbacks[obj] = cb
	return cb
}

// fromJS converts a script value to the dynamic argument form Call takes.
func (b *Binder) fromJS(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.Export()
	}
	switch x := obj.Export().(type) {
	case *selectionObject:
		return x.s
	case *elementObject:
		return x.el
	}
	if fn, ok := goja.AssertFunction(obj); ok {
		return b.callback(obj, fn)
	}
	if obj.ClassName() == "Array" {
		n := int(obj.Get("length").ToInteger())
		out := make([]any, n)
		for i := range out {
			out[i] = b.fromJS(obj.Get(strconv.Itoa(i)))
		}
		return out
	}
	exported := obj.Export()
	if _, plain := exported.(map[string]any); !plain {
		return exported
	}
	out := make(map[string]any)
	for _, key := range obj.Keys() {
		out[key] = b.fromJS(obj.Get(key))
	}
	return out
}

// toJS converts a result of Call to a script value.
func (b *Binder) toJS(v any) goja.Value {
	vm := b.rt.vm
	switch t := v.(type) {
	case nil:
		return goja.Null()
	case goja.Value:
		return t
	case *domman.Selection:
		if t == nil {
			return goja.Null()
		}
		return b.selection(t)
	case *dom.Element:
		if t == nil {
			return goja.Null()
		}
		return b.element(t)
	case *dom.Node:
		if t == nil {
			return goja.Null()
		}
		if el := t.AsElement(); el != nil {
			return b.element(el)
		}
		return vm.ToValue(t)
	case []*dom.Element:
		items := make([]any, len(t))
		for i, el := range t {
			items[i] = b.toJS(el)
		}
		return vm.NewArray(items...)
	case []*dom.Node:
		items := make([]any, len(t))
		for i, n := range t {
			items[i] = b.toJS(n)
		}
		return vm.NewArray(items...)
	case *dom.Event:
		if t == nil {
			return goja.Null()
		}
		return b.event(t)
	case *dom.DOMRect:
		if t == nil {
			return goja.Null()
		}
		return b.rect(t)
	case observe.IntersectionEntry:
		obj := vm.NewObject()
		obj.Set("target", b.toJS(t.Target))
		obj.Set("isIntersecting", t.IsIntersecting)
		obj.Set("intersectionRatio", t.IntersectionRatio)
		obj.Set("boundingClientRect", b.toJS(t.BoundingClientRect))
		obj.Set("intersectionRect", b.toJS(t.IntersectionRect))
		obj.Set("rootBounds", b.toJS(t.RootBounds))
		return obj
	case observe.ResizeEntry:
		obj := vm.NewObject()
		obj.Set("target", b.toJS(t.Target))
		obj.Set("contentRect", b.toJS(t.ContentRect))
		return obj
	case map[string]any:
		obj := vm.NewObject()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, b.toJS(t[k]))
		}
		return obj
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = b.toJS(item)
		}
		return vm.NewArray(items...)
	case error:
		return vm.NewGoError(t)
	}
	return vm.ToValue(v)
}

func (b *Binder) rect(r *dom.DOMRect) *goja.Object {
	obj := b.rt.vm.NewObject()
	obj.Set("x", r.X)
	obj.Set("y", r.Y)
	obj.Set("width", r.Width)
	obj.Set("height", r.Height)
	obj.Set("top", r.Top())
	obj.Set("left", r.Left())
	obj.Set("right", r.Right())
	obj.Set("bottom", r.Bottom())
	return obj
}

func (b *Binder) event(e *dom.Event) *goja.Object {
	vm := b.rt.vm
	obj := vm.NewObject()
	obj.Set("type", e.Type)
	obj.Set("bubbles", e.Bubbles)
	obj.Set("cancelable", e.Cancelable)
	obj.Set("detail", b.toJS(e.Detail))
	obj.Set("target", b.toJS(e.Target))
	obj.Set("currentTarget", b.toJS(e.CurrentTarget))
	obj.Set("key", e.Key)
	obj.DefineAccessorProperty("defaultPrevented", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(e.DefaultPrevented())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.Set("preventDefault", func(goja.FunctionCall) goja.Value {
		e.PreventDefault()
		return goja.Undefined()
	})
	obj.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		e.StopPropagation()
		return goja.Undefined()
	})
	obj.Set("stopImmediatePropagation", func(goja.FunctionCall) goja.Value {
		e.StopImmediatePropagation()
		return goja.Undefined()
	})
	return obj
}

func (b *Binder) selection(s *domman.Selection) *goja.Object {
	o := &selectionObject{b: b, s: s}
	o.obj = b.rt.vm.NewDynamicObject(o)
	return o.obj
}

func (b *Binder) element(el *dom.Element) *goja.Object {
	if obj, ok := b.elements[el]; ok {
		return obj
	}
	obj := b.rt.vm.NewDynamicObject(&elementObject{b: b, el: el})
	b.elements[el] = obj
	return obj
}

// selectionObject resolves every property through the member resolver.
// Numeric keys index the matched elements and length is their count.
type selectionObject struct {
	b   *Binder
	s   *domman.Selection
	obj *goja.Object
}

func index(key string) (int, bool) {
	i, err := strconv.Atoi(key)
	return i, err == nil && i >= 0
}

func (o *selectionObject) Get(key string) goja.Value {
	if i, ok := index(key); ok {
		if el := o.s.Get(i); el != nil {
			return o.b.element(el)
		}
		return nil
	}
	vm := o.b.rt.vm
	if key == "length" {
		return vm.ToValue(o.s.Len())
	}
	m := o.s.Resolve(key)
	if !m.Defined() {
		return nil
	}
	return vm.ToValue(func(call goja.FunctionCall) goja.Value {
		res := m.Call(o.b.args(call.Arguments)...)
		switch v := res.(type) {
		case error:
			panic(vm.NewGoError(v))
		case *domman.Selection:
			if v == o.s {
				return o.obj
			}
		}
		return o.b.toJS(res)
	})
}

// Set assigns properties and inline styles. Anything else is rejected.
func (o *selectionObject) Set(key string, val goja.Value) bool {
	m := o.s.Resolve(key)
	switch m.Kind {
	case domman.MemberProperty, domman.MemberStyle:
		m.Call(o.b.fromJS(val))
		return true
	}
	return false
}

func (o *selectionObject) Has(key string) bool {
	if i, ok := index(key); ok {
		return i < o.s.Len()
	}
	return o.s.Resolve(key).Defined()
}

func (o *selectionObject) Delete(string) bool { return false }

func (o *selectionObject) Keys() []string {
	keys := make([]string, o.s.Len())
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}

// elementObject exposes an element's IDL properties and a few methods.
type elementObject struct {
	b  *Binder
	el *dom.Element
}

type elementMethod func(o *elementObject, call goja.FunctionCall) goja.Value

var elementMethods = map[string]elementMethod{
	"getAttribute": func(o *elementObject, call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if !o.el.HasAttribute(name) {
			return goja.Null()
		}
		return o.b.rt.vm.ToValue(o.el.GetAttribute(name))
	},
	"setAttribute": func(o *elementObject, call goja.FunctionCall) goja.Value {
		o.el.SetAttribute(call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	},
	"hasAttribute": func(o *elementObject, call goja.FunctionCall) goja.Value {
		return o.b.rt.vm.ToValue(o.el.HasAttribute(call.Argument(0).String()))
	},
	"removeAttribute": func(o *elementObject, call goja.FunctionCall) goja.Value {
		o.el.RemoveAttribute(call.Argument(0).String())
		return goja.Undefined()
	},
	"matches": func(o *elementObject, call goja.FunctionCall) goja.Value {
		ok, err := o.el.MatchesWithError(call.Argument(0).String())
		if err != nil {
			panic(o.b.rt.vm.NewGoError(err))
		}
		return o.b.rt.vm.ToValue(ok)
	},
	"closest": func(o *elementObject, call goja.FunctionCall) goja.Value {
		return o.b.toJS(o.el.Closest(call.Argument(0).String()))
	},
	"querySelector": func(o *elementObject, call goja.FunctionCall) goja.Value {
		return o.b.toJS(o.el.QuerySelector(call.Argument(0).String()))
	},
	"querySelectorAll": func(o *elementObject, call goja.FunctionCall) goja.Value {
		return o.b.toJS(o.el.QuerySelectorAll(call.Argument(0).String()))
	},
	"appendChild": func(o *elementObject, call goja.FunctionCall) goja.Value {
		var child *dom.Node
		switch c := o.b.fromJS(call.Argument(0)).(type) {
		case *dom.Element:
			child = c.AsNode()
		case *dom.Node:
			child = c
		default:
			panic(o.b.rt.vm.NewTypeError("appendChild: parameter 1 is not of type 'Node'"))
		}
		return o.b.toJS(o.el.AsNode().AppendChild(child))
	},
	"remove": func(o *elementObject, _ goja.FunctionCall) goja.Value {
		o.el.Remove()
		return goja.Undefined()
	},
	"click": func(o *elementObject, _ goja.FunctionCall) goja.Value {
		o.el.Click()
		return goja.Undefined()
	},
	"focus": func(o *elementObject, _ goja.FunctionCall) goja.Value {
		o.el.Focus()
		return goja.Undefined()
	},
	"blur": func(o *elementObject, _ goja.FunctionCall) goja.Value {
		o.el.Blur()
		return goja.Undefined()
	},
	"toString": func(o *elementObject, _ goja.FunctionCall) goja.Value {
		return o.b.rt.vm.ToValue("[object HTMLElement]")
	},
}

func (o *elementObject) Get(key string) goja.Value {
	if m, ok := elementMethods[key]; ok {
		return o.b.rt.vm.ToValue(func(call goja.FunctionCall) goja.Value { return m(o, call) })
	}
	if v, ok := o.el.GetProperty(key); ok {
		return o.b.toJS(v)
	}
	return nil
}

func (o *elementObject) Set(key string, val goja.Value) bool {
	if !o.el.HasProperty(key) || o.el.IsReadOnlyProperty(key) {
		return false
	}
	if err := o.el.SetProperty(key, o.b.fromJS(val)); err != nil {
		panic(o.b.rt.vm.NewGoError(err))
	}
	return true
}

func (o *elementObject) Has(key string) bool {
	_, isMethod := elementMethods[key]
	return isMethod || o.el.HasProperty(key)
}

func (o *elementObject) Delete(string) bool { return false }

func (o *elementObject) Keys() []string { return o.el.PropertyNames() }
