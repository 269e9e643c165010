package domman

import (
	"strings"

	"github.com/chrisuehlinger/domman/css"
	"github.com/chrisuehlinger/domman/dom"
)

// MemberKind says how a member name was resolved.
type MemberKind int

const (
	// MemberUndefined is a name nothing matched.
	MemberUndefined MemberKind = iota
	// MemberMethod is a built-in or plugin method.
	MemberMethod
	// MemberEventMethod is an event name that is also an element method,
	// such as "click": called bare it runs the method, called with one
	// function it binds a handler.
	MemberEventMethod
	// MemberDOMMethod is an element method applied across the selection.
	MemberDOMMethod
	// MemberEvent binds a handler for an event or event alias.
	MemberEvent
	// MemberProperty reads or writes an element property.
	MemberProperty
	// MemberStyle reads the computed style or writes the inline style.
	MemberStyle
)

var memberKindNames = [...]string{"undefined", "method", "event-method", "dom-method", "event", "property", "style"}

func (k MemberKind) String() string {
	if int(k) < len(memberKindNames) {
		return memberKindNames[k]
	}
	return "unknown"
}

// Member is a resolved member of a selection. Event is the event type for
// MemberEvent and MemberEventMethod, with aliases expanded.
type Member struct {
	Name  string
	Kind  MemberKind
	Event string

	fn func(args ...any) any
}

// Defined reports whether the name resolved to anything.
func (m Member) Defined() bool {
	return m.fn != nil
}

// Call invokes the member. Calling an undefined member returns nil.
func (m Member) Call(args ...any) any {
	if m.fn == nil {
		return nil
	}
	return m.fn(args...)
}

// standardEvents are the names with event shorthand methods.
var standardEvents = map[string]bool{
	"click": true, "dblclick": true, "mouseover": true, "mouseout": true,
	"mouseenter": true, "mouseleave": true, "mousemove": true, "mouseup": true,
	"mousedown": true, "keydown": true, "keyup": true, "keypress": true,
	"change": true, "submit": true, "focus": true, "blur": true,
	"resize": true, "scroll": true, "load": true, "error": true,
	"focusin": true, "focusout": true, "select": true, "contextmenu": true,
	"input": true, "invalid": true, "reset": true, "search": true,
}

var eventAliases = map[string]string{
	"over":  "mouseover",
	"out":   "mouseout",
	"enter": "mouseenter",
	"leave": "mouseleave",
	"move":  "mousemove",
	"up":    "mouseup",
	"down":  "mousedown",
}

// domMethods wrap element methods with selection semantics: side effects
// apply to every element and return the selection, queries read the first
// element.
var domMethods = map[string]Method{
	"focus": func(s *Selection, _ ...any) any { return s.Focus() },
	"blur":  func(s *Selection, _ ...any) any { return s.Blur() },
	"click": func(s *Selection, _ ...any) any { return s.Click() },
	"scrollIntoView": func(s *Selection, _ ...any) any {
		return s.ScrollIntoView()
	},
	"matches": func(s *Selection, args ...any) any { return s.Matches(str(args, 0)) },
	"closest": func(s *Selection, args ...any) any {
		if el := s.Closest(str(args, 0)); el != nil {
			return el
		}
		return nil
	},
	"checkValidity":  func(s *Selection, _ ...any) any { return s.CheckValidity() },
	"reportValidity": func(s *Selection, _ ...any) any { return s.ReportValidity() },
	"submit":         func(s *Selection, _ ...any) any { return s.Submit() },
	"reset":          func(s *Selection, _ ...any) any { return s.Reset() },
	"play":           func(s *Selection, _ ...any) any { return s.Play() },
	"pause":          func(s *Selection, _ ...any) any { return s.Pause() },
	"load":           func(s *Selection, _ ...any) any { return s.Load() },
	"getContext":     func(s *Selection, args ...any) any { return s.GetContext(str(args, 0)) },
	"toDataURL": func(s *Selection, _ ...any) any {
		if u, ok := s.ToDataURL(); ok {
			return u
		}
		return nil
	},
	"scrollTo": func(s *Selection, args ...any) any {
		return s.ScrollTo(num(args, 0), num(args, 1))
	},
	"scrollBy": func(s *Selection, args ...any) any {
		return s.ScrollBy(num(args, 0), num(args, 1))
	},
	"toggleClass": func(s *Selection, args ...any) any {
		if len(args) > 1 && args[1] != nil {
			return s.ToggleClass(str(args, 0), dom.ToBool(args[1]))
		}
		return s.ToggleClass(str(args, 0))
	},
	"containsClass": func(s *Selection, args ...any) any { return s.HasClass(str(args, 0)) },
	"replaceClass": func(s *Selection, args ...any) any {
		return s.ReplaceClass(str(args, 0), str(args, 1))
	},
	"getAttribute": func(s *Selection, args ...any) any {
		if v, ok := s.Attr(str(args, 0)); ok {
			return v
		}
		return nil
	},
	"setAttribute": func(s *Selection, args ...any) any {
		return s.SetAttr(str(args, 0), str(args, 1))
	},
	"removeAttribute": func(s *Selection, args ...any) any { return s.RemoveAttr(str(args, 0)) },
	"hasAttribute":    func(s *Selection, args ...any) any { return s.HasAttr(str(args, 0)) },
	"getBoundingClientRect": func(s *Selection, _ ...any) any {
		if r := s.GetBoundingClientRect(); r != nil {
			return r
		}
		return nil
	},
}

// domProperties are the element properties exposed as accessors.
var domProperties = map[string]bool{}

func init() {
	for _, name := range []string{
		"textContent", "innerHTML", "innerText", "outerHTML", "className", "id",
		"tagName", "nodeName", "nodeType", "nodeValue", "title", "lang", "dir",
		"attributes", "checked", "disabled", "value", "href", "src", "alt",
		"tabIndex", "accessKey", "hidden", "dataset", "contentEditable",
		"draggable", "spellcheck", "translate",
		"offsetHeight", "offsetWidth", "offsetLeft", "offsetTop",
		"parentNode", "parentElement", "nextSibling", "previousSibling",
		"nextElementSibling", "previousElementSibling", "childElementCount",
		"clientWidth", "clientHeight", "clientLeft", "clientTop",
		"scrollWidth", "scrollHeight", "scrollLeft", "scrollTop",
		"form", "formAction", "formMethod", "formEnctype", "formNoValidate",
		"formTarget", "validity", "validationMessage", "willValidate",
		"required", "readOnly", "autofocus", "defaultValue", "selectedIndex",
		"options", "length", "selectedOptions", "selected", "defaultChecked",
		"currentTime", "duration", "paused", "ended", "muted", "volume",
		"loop", "controls", "autoplay", "poster",
	} {
		domProperties[name] = true
	}
}

func eventFor(name string) (string, bool) {
	if standardEvents[name] {
		return name, true
	}
	if full, ok := eventAliases[name]; ok {
		return full, true
	}
	return "", false
}

// Resolve maps a member name to its behavior. The first match wins:
//
//  1. built-in and plugin methods
//  2. event names that are also element methods
//  3. element methods
//  4. event names and aliases
//  5. element properties present on the first element
//  6. style properties
//
// Anything else is undefined. Nothing is cached; every call resolves
// afresh.
func (s *Selection) Resolve(name string) Member {
	if m, ok := s.method(name); ok {
		return Member{Name: name, Kind: MemberMethod, fn: func(args ...any) any { return m(s, args...) }}
	}

	event, isEvent := eventFor(name)
	dm, isDOMMethod := domMethods[name]
	switch {
	case isEvent && isDOMMethod:
		return Member{Name: name, Kind: MemberEventMethod, Event: event, fn: func(args ...any) any {
			if len(args) == 0 {
				return dm(s)
			}
			if len(args) == 1 && isFunc(args[0]) {
				return s.On(event, toHandler(args[0]))
			}
			return dm(s, args...)
		}}
	case isDOMMethod:
		return Member{Name: name, Kind: MemberDOMMethod, fn: func(args ...any) any { return dm(s, args...) }}
	case isEvent:
		return Member{Name: name, Kind: MemberEvent, Event: event, fn: func(args ...any) any {
			if len(args) == 0 || !isFunc(args[0]) {
				return s
			}
			return s.On(event, toHandler(args[0]))
		}}
	}

	if domProperties[name] {
		if first := s.First(); first == nil || first.HasProperty(name) {
			return Member{Name: name, Kind: MemberProperty, fn: func(args ...any) any { return s.propertyAccess(name, args) }}
		}
	}

	if css.IsStyleProperty(name) {
		return Member{Name: name, Kind: MemberStyle, fn: func(args ...any) any { return s.styleAccess(name, args) }}
	}

	if !strings.HasPrefix(name, "_") {
		s.dm.debugWarn("resolve", "domMan: Attempting to access undefined property '%s'", name)
	}
	return Member{Name: name, Kind: MemberUndefined}
}

// Call resolves name and invokes it with args. Handler arguments may be a
// *Handler, a *Callback or a plain Go func. A plain func gets a new
// *Handler each time, so Call("off", "click", fn) cannot remove what
// Call("on", "click", fn) bound; keep a *Handler to unbind by handler.
func (s *Selection) Call(name string, args ...any) any {
	return s.Resolve(name).Call(args...)
}

func (s *Selection) method(name string) (Method, bool) {
	if m, ok := builtinMethods[name]; ok {
		return m, true
	}
	return s.dm.plugin(name)
}

func (s *Selection) propertyAccess(name string, args []any) any {
	first := s.First()
	if first == nil {
		return s
	}
	if len(args) == 0 || args[0] == nil {
		v, _ := first.GetProperty(name)
		return v
	}
	for _, el := range s.elems {
		if err := el.SetProperty(name, args[0]); err != nil {
			s.dm.debugError(name, err, "property assignment failed")
		}
	}
	return s
}

func (s *Selection) styleAccess(name string, args []any) any {
	first := s.First()
	if first == nil {
		return s
	}
	if len(args) == 0 || args[0] == nil {
		return css.ComputedStyle(first).Get(name)
	}
	return s.SetCSS(name, dom.ToString(args[0]))
}
