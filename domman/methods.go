package domman

import (
	"context"
	"math"
	"net/url"
	"time"

	"github.com/chrisuehlinger/domman/animation"
	"github.com/chrisuehlinger/domman/dom"
	"github.com/chrisuehlinger/domman/observe"
)

// builtinMethods is the explicit method table consulted first by Resolve.
// Arguments are dynamically typed, as they arrive from scripts: numbers
// may be int64 or float64, objects are map[string]any, functions are
// *Callback.
var builtinMethods map[string]Method

func init() {
	builtinMethods = map[string]Method{
		"length":  func(s *Selection, _ ...any) any { return s.Len() },
		"toArray": func(s *Selection, _ ...any) any { return s.ToArray() },
		"asArray": func(s *Selection, _ ...any) any { return s.ToArray() },
		"each": func(s *Selection, args ...any) any {
			if fn := toFunc(argAt(args, 0)); fn != nil {
				s.Each(func(i int, el *dom.Element) { fn(i, el) })
			}
			return s
		},
		"tap": func(s *Selection, args ...any) any {
			if fn := toFunc(argAt(args, 0)); fn != nil {
				s.Tap(func(s *Selection, _ []*dom.Element) { fn(s) })
			}
			return s
		},
		"find":     func(s *Selection, args ...any) any { return s.Find(str(args, 0)) },
		"findOne":  func(s *Selection, args ...any) any { return s.FindOne(str(args, 0)) },
		"parent":   func(s *Selection, _ ...any) any { return s.Parent() },
		"children": func(s *Selection, _ ...any) any { return s.Children() },
		"siblings": func(s *Selection, _ ...any) any { return s.Siblings() },
		"next":     func(s *Selection, _ ...any) any { return s.Next() },
		"prev":     func(s *Selection, _ ...any) any { return s.Prev() },
		"isEmpty":  func(s *Selection, _ ...any) any { return s.IsEmpty() },
		"isElement": func(_ *Selection, args ...any) any {
			return IsElement(argAt(args, 0))
		},
		"isValidSelector": func(_ *Selection, args ...any) any {
			return IsValidSelector(str(args, 0))
		},
		"deepClone": func(s *Selection, args ...any) any {
			v, err := DeepClone(argAt(args, 0))
			if err != nil {
				return err
			}
			return v
		},

		"val":         accessor(s2g((*Selection).Val), (*Selection).SetVal),
		"text":        accessor(s2g((*Selection).Text), (*Selection).SetText),
		"textContent": accessor(s2g((*Selection).TextContent), (*Selection).SetTextContent),
		"html":        accessor(s2g((*Selection).HTML), (*Selection).SetHTML),
		"outerHTML":   accessor(s2g((*Selection).OuterHTML), (*Selection).SetOuterHTML),
		"remove":      func(s *Selection, _ ...any) any { return s.Remove() },
		"clone": func(s *Selection, args ...any) any {
			return s.Clone(len(args) == 0 || dom.ToBool(args[0]))
		},
		"replaceWith": func(s *Selection, args ...any) any { return s.ReplaceWith(firstNode(argAt(args, 0))) },
		"append":      func(s *Selection, args ...any) any { return s.Append(argAt(args, 0)) },
		"pre":         func(s *Selection, args ...any) any { return s.Prepend(argAt(args, 0)) },
		"prepend":     func(s *Selection, args ...any) any { return s.Prepend(argAt(args, 0)) },
		"appendTo":    func(s *Selection, args ...any) any { return s.AppendTo(argAt(args, 0)) },
		"prependTo":   func(s *Selection, args ...any) any { return s.PrependTo(argAt(args, 0)) },
		"before":      func(s *Selection, args ...any) any { return s.Before(argAt(args, 0)) },
		"after":       func(s *Selection, args ...any) any { return s.After(argAt(args, 0)) },
		"appendChild": func(s *Selection, args ...any) any { return s.AppendChild(argAt(args, 0)) },
		"removeChild": func(s *Selection, args ...any) any { return s.RemoveChild(argAt(args, 0)) },
		"replaceChild": func(s *Selection, args ...any) any {
			return s.ReplaceChild(argAt(args, 0), argAt(args, 1))
		},
		"insertBefore": func(s *Selection, args ...any) any {
			return s.InsertBefore(argAt(args, 0), argAt(args, 1))
		},
		"childNodes": func(s *Selection, _ ...any) any { return s.ChildNodes() },
		"firstChild": func(s *Selection, _ ...any) any { return nodeOrNil(s.FirstChild()) },
		"lastChild":  func(s *Selection, _ ...any) any { return nodeOrNil(s.LastChild()) },

		"attr": func(s *Selection, args ...any) any {
			if len(args) < 2 {
				return optional(s.Attr(str(args, 0)))
			}
			return s.SetAttr(str(args, 0), str(args, 1))
		},
		"getAttribute": func(s *Selection, args ...any) any { return optional(s.Attr(str(args, 0))) },
		"setAttribute": func(s *Selection, args ...any) any {
			return s.SetAttr(str(args, 0), str(args, 1))
		},
		"removeAttribute": func(s *Selection, args ...any) any { return s.RemoveAttr(str(args, 0)) },
		"hasAttribute":    func(s *Selection, args ...any) any { return s.HasAttr(str(args, 0)) },
		"prop": func(s *Selection, args ...any) any {
			if len(args) < 2 {
				return optional(s.Prop(str(args, 0)))
			}
			return s.SetProp(str(args, 0), args[1])
		},
		"addClass":    func(s *Selection, args ...any) any { return s.AddClass(strs(args)...) },
		"removeClass": func(s *Selection, args ...any) any { return s.RemoveClass(strs(args)...) },
		"toggleClass": func(s *Selection, args ...any) any {
			if len(args) > 1 && args[1] != nil {
				return s.ToggleClass(str(args, 0), dom.ToBool(args[1]))
			}
			return s.ToggleClass(str(args, 0))
		},
		"hasClass": func(s *Selection, args ...any) any { return s.HasClass(str(args, 0)) },

		"css": func(s *Selection, args ...any) any {
			if m := toStringMap(argAt(args, 0)); m != nil {
				return s.CSSObject(m)
			}
			if len(args) < 2 {
				return optional(s.CSS(str(args, 0)))
			}
			return s.SetCSS(str(args, 0), str(args, 1))
		},
		"cssObject": func(s *Selection, args ...any) any { return s.CSSObject(toStringMap(argAt(args, 0))) },
		"hide":      func(s *Selection, _ ...any) any { return s.Hide() },
		"show":      func(s *Selection, _ ...any) any { return s.Show() },
		"cssVar": func(s *Selection, args ...any) any {
			if s.Len() == 0 {
				return s
			}
			if m := toStringMap(argAt(args, 0)); m != nil {
				return s.SetCSSVar(m)
			}
			if len(args) < 2 {
				v, _ := s.CSSVar(str(args, 0))
				return v
			}
			return s.SetCSSVar(map[string]string{str(args, 0): str(args, 1)})
		},
		"alternateColors": func(s *Selection, args ...any) any {
			return s.AlternateColors(str(args, 0), str(args, 1))
		},
		"cssPseudo": func(s *Selection, args ...any) any {
			return s.CSSPseudo(str(args, 0), toStringMap(argAt(args, 1)), toStringMap(argAt(args, 2)), pseudoOpts(argAt(args, 3)))
		},
		"cssHover": func(s *Selection, args ...any) any {
			return s.CSSHover(toStringMap(argAt(args, 0)), toStringMap(argAt(args, 1)), pseudoOpts(argAt(args, 2)))
		},
		"removeCssHover": func(s *Selection, args ...any) any {
			if len(args) == 0 || args[0] == nil {
				return s.RemoveCSSHover()
			}
			return s.RemoveCSSHover(str(args, 0))
		},
		"addClassWithTransition": func(s *Selection, args ...any) any {
			return s.AddClassWithTransition(str(args, 0), millis(args, 1, 300*time.Millisecond))
		},

		"on":  func(s *Selection, args ...any) any { return bind(s, args, false) },
		"one": func(s *Selection, args ...any) any { return bind(s, args, true) },
		"off": unbind,
		"trigger": func(s *Selection, args ...any) any {
			return s.Trigger(str(args, 0), argAt(args, 1), eventInit(argAt(args, 2), true))
		},
		"triggerHandler": func(s *Selection, args ...any) any {
			return s.TriggerHandler(str(args, 0), argAt(args, 1), eventInit(argAt(args, 2), false))
		},
		"delegate": func(s *Selection, args ...any) any {
			return s.Delegate(str(args, 0), str(args, 1), toHandler(argAt(args, 2)))
		},
		"hover": func(s *Selection, args ...any) any {
			return s.Hover(toHandler(argAt(args, 0)), toHandler(argAt(args, 1)))
		},
		"removeHover": func(s *Selection, _ ...any) any { return s.RemoveHover() },
		"onReady": func(s *Selection, args ...any) any {
			if fn := toFunc(argAt(args, 0)); fn != nil {
				s.OnReady(func() { fn() })
			}
			return s
		},
		"ready": func(s *Selection, args ...any) any {
			if fn := toFunc(argAt(args, 0)); fn != nil {
				s.dm.Ready(func() { fn() })
			}
			return s
		},

		"data": func(s *Selection, args ...any) any {
			switch {
			case s.Len() == 0:
				return s
			case len(args) == 0:
				return s.DataAll()
			case len(args) == 1:
				v, _ := s.Data(str(args, 0))
				return v
			}
			return s.SetData(str(args, 0), args[1])
		},
		"removeData": func(s *Selection, args ...any) any {
			if len(args) == 0 || args[0] == nil {
				return s.RemoveAllData()
			}
			return s.RemoveData(str(args, 0))
		},
		"setLocalStorage": func(s *Selection, args ...any) any {
			if err := s.dm.SetLocalStorage(str(args, 0), argAt(args, 1)); err != nil {
				s.dm.debugError("setLocalStorage", err, "Error saving to localStorage")
			}
			return s
		},
		"getLocalStorage": func(s *Selection, args ...any) any {
			v, _ := s.dm.GetLocalStorage(str(args, 0))
			return v
		},
		"removeLocalStorage": func(s *Selection, args ...any) any {
			s.dm.RemoveLocalStorage(str(args, 0))
			return s
		},
		"clearLocalStorage": func(s *Selection, _ ...any) any {
			s.dm.ClearLocalStorage()
			return s
		},

		"onIntersect": func(s *Selection, args ...any) any {
			fn := toFunc(argAt(args, 0))
			if fn == nil {
				return s
			}
			opts := toMap(argAt(args, 1))
			return s.OnIntersect(func(e observe.IntersectionEntry, el *dom.Element) { fn(e, el) }, thresholds(opts["threshold"])...)
		},
		"whenVisible": func(s *Selection, args ...any) any {
			fn := toFunc(argAt(args, 0))
			if fn == nil {
				return s
			}
			opts := toMap(argAt(args, 1))
			vo := VisibleOptions{Threshold: thresholds(opts["threshold"])}
			if once, ok := opts["once"]; ok {
				vo.Repeat = !dom.ToBool(once)
			}
			return s.WhenVisible(func(e observe.IntersectionEntry, el *dom.Element) { fn(e, el) }, vo)
		},
		"unobserve": func(s *Selection, _ ...any) any { return s.Unobserve() },
		"onResize": func(s *Selection, args ...any) any {
			fn := toFunc(argAt(args, 0))
			if fn == nil {
				return s
			}
			return s.OnResize(func(e observe.ResizeEntry, el *dom.Element) { fn(e, el) })
		},
		"unobserveResize": func(s *Selection, _ ...any) any { return s.UnobserveResize() },

		"animateKeyframes": func(s *Selection, args ...any) any {
			return s.AnimateKeyframes(keyframes(argAt(args, 0)), keyframeOpts(argAt(args, 1)))
		},
		"pauseAnimation":  func(s *Selection, _ ...any) any { return s.PauseAnimation() },
		"resumeAnimation": func(s *Selection, _ ...any) any { return s.ResumeAnimation() },
		"cancelAnimation": func(s *Selection, _ ...any) any { return s.CancelAnimation() },
		"fadeIn": func(s *Selection, args ...any) any {
			return s.FadeIn(millis(args, 0, 400*time.Millisecond), elementCallback(argAt(args, 1)))
		},
		"animate": func(s *Selection, args ...any) any {
			easing := str(args, 2)
			if easing == "" {
				easing = "ease"
			}
			return s.Animate(toStringMap(argAt(args, 0)), millis(args, 1, 400*time.Millisecond), easing, elementCallback(argAt(args, 3)))
		},

		"serializeForm": func(s *Selection, args ...any) any {
			format := FormFormat(str(args, 0))
			if format == "" || format == FormObject {
				return s.SerializeForm()
			}
			out, err := s.SerializeFormAs(format)
			if err != nil {
				s.dm.debugError("serializeForm", err, "cannot serialize form")
				return nil
			}
			return out
		},
		"submitForm": func(s *Selection, args ...any) any {
			if len(args) == 0 || !dom.ToBool(args[0]) {
				return s.SubmitForm()
			}
			resp, err := s.SubmitFormAjax(context.Background())
			if fn := toFunc(argAt(args, 1)); fn != nil {
				if err != nil {
					fn(0, nil, err)
				} else {
					fn(resp.StatusCode, string(resp.Body), resp)
				}
			}
			return s
		},
		"resetForm": func(s *Selection, _ ...any) any { return s.ResetForm() },
		"formValue": func(s *Selection, args ...any) any {
			if len(args) >= 2 {
				return s.SetFormValue(str(args, 0), args[1])
			}
			v, _ := s.FormValue(str(args, 0))
			return v
		},
		"validate": func(s *Selection, args ...any) any {
			res := s.Validate(toRules(argAt(args, 0)), validateOpts(argAt(args, 1)))
			errs := make(map[string]any, len(res.Errors))
			for k, v := range res.Errors {
				errs[k] = v
			}
			return map[string]any{"valid": res.Valid, "errors": errs}
		},
		"applyValidationAttributes": func(s *Selection, args ...any) any {
			return s.ApplyValidationAttributes(toRules(argAt(args, 0)))
		},

		"ajax": func(s *Selection, args ...any) any {
			m := toMap(argAt(args, 0))
			opts := ajaxOpts(m)
			opts.Method, opts.URL, opts.Data = dom.ToString(m["method"]), dom.ToString(m["url"]), m["data"]
			return result(s.dm.Ajax(context.Background(), opts))
		},
		"get": func(s *Selection, args ...any) any {
			return result(s.dm.Get(context.Background(), str(args, 0), toValues(argAt(args, 1)), ajaxOpts(argAt(args, 2))))
		},
		"post": func(s *Selection, args ...any) any {
			return result(s.dm.Post(context.Background(), str(args, 0), argAt(args, 1), ajaxOpts(argAt(args, 2))))
		},

		"createElement": func(s *Selection, args ...any) any {
			return elementOrNil(s.dm.CreateElement(str(args, 0), toAttrs(argAt(args, 1))))
		},
		"create": func(s *Selection, args ...any) any {
			return elementOrNil(s.dm.Create(str(args, 0), toMap(argAt(args, 1))))
		},
		"createElementNS": func(s *Selection, args ...any) any {
			return elementOrNil(s.dm.CreateElementNS(str(args, 0), str(args, 1), toAttrs(argAt(args, 2))))
		},
		"createSVG": func(s *Selection, args ...any) any {
			return elementOrNil(s.dm.CreateSVG(str(args, 0), toAttrs(argAt(args, 1))))
		},
		"createTextNode":         func(s *Selection, args ...any) any { return s.dm.CreateTextNode(str(args, 0)) },
		"createComment":          func(s *Selection, args ...any) any { return s.dm.CreateComment(str(args, 0)) },
		"createDocumentFragment": func(s *Selection, _ ...any) any { return s.dm.CreateDocumentFragment() },

		"extend": func(s *Selection, args ...any) any {
			methods := make(map[string]Method)
			for name, v := range toMap(argAt(args, 0)) {
				switch fn := v.(type) {
				case Method:
					methods[name] = fn
				default:
					if f := toFunc(v); f != nil {
						methods[name] = func(s *Selection, args ...any) any {
							return f(append([]any{s}, args...)...)
						}
					}
				}
			}
			s.dm.Extend(methods)
			return s
		},
		"paginate": func(s *Selection, args ...any) any {
			fn := toFunc(argAt(args, 2))
			if fn == nil {
				return s.Paginate(toSlice(argAt(args, 0)), int(num(args, 1)), nil)
			}
			render := func(items []any, page, total int) { fn(items, page, total) }
			if len(args) > 3 {
				return s.Paginate(toSlice(args[0]), int(num(args, 1)), render, int(num(args, 3)))
			}
			return s.Paginate(toSlice(args[0]), int(num(args, 1)), render)
		},
	}
}

func argAt(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func str(args []any, i int) string {
	if v := argAt(args, i); v != nil {
		return dom.ToString(v)
	}
	return ""
}

func strs(args []any) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a != nil {
			out = append(out, dom.ToString(a))
		}
	}
	return out
}

func num(args []any, i int) float64 {
	if v := argAt(args, i); v != nil {
		return dom.ToFloat(v)
	}
	return 0
}

// millis reads a duration given in milliseconds, or a time.Duration.
func millis(args []any, i int, def time.Duration) time.Duration {
	switch v := argAt(args, i).(type) {
	case nil:
		return def
	case time.Duration:
		return v
	default:
		ms := dom.ToFloat(v)
		if math.IsNaN(ms) || ms < 0 {
			return def
		}
		return time.Duration(ms * float64(time.Millisecond))
	}
}

func optional(v any, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

func s2g[T any](get func(*Selection) (T, bool)) func(*Selection) any {
	return func(s *Selection) any { return optional(get(s)) }
}

// accessor is a getter with no argument and a setter with one.
func accessor(get func(*Selection) any, set func(*Selection, string) *Selection) Method {
	return func(s *Selection, args ...any) any {
		if len(args) == 0 || args[0] == nil {
			return get(s)
		}
		return set(s, dom.ToString(args[0]))
	}
}

func nodeOrNil(n *dom.Node) any {
	if n == nil {
		return nil
	}
	return n
}

func elementOrNil(el *dom.Element) any {
	if el == nil {
		return nil
	}
	return el
}

func result(v any, err error) any {
	if err != nil {
		return err
	}
	return v
}

func toMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case Attrs:
		return m
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out
	}
	return nil
}

func toStringMap(v any) map[string]string {
	switch m := v.(type) {
	case map[string]string:
		return m
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, s := range m {
			out[k] = dom.ToString(s)
		}
		return out
	}
	return nil
}

func toSlice(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	return nil
}

func toValues(v any) url.Values {
	switch t := v.(type) {
	case url.Values:
		return t
	case map[string]any:
		out := url.Values{}
		for _, k := range sortedKeys(t) {
			out.Set(k, dom.ToString(t[k]))
		}
		return out
	}
	return nil
}

func toAttrs(v any) Attrs {
	m := toMap(v)
	if m == nil {
		return nil
	}
	out := make(Attrs, len(m))
	for k, val := range m {
		if k == "style" {
			if styles := toStringMap(val); styles != nil {
				out[k] = styles
				continue
			}
		}
		out[k] = val
	}
	return out
}

func ajaxOpts(v any) AjaxOptions {
	m := toMap(v)
	o := AjaxOptions{
		Headers:      toStringMap(m["headers"]),
		ResponseType: dom.ToString(m["responseType"]),
	}
	if c, ok := m["cache"]; ok && c != nil {
		o.NoCache = !dom.ToBool(c)
	}
	return o
}

func pseudoOpts(v any) PseudoOptions {
	m := toMap(v)
	o := PseudoOptions{Timing: dom.ToString(m["timing"])}
	if d, ok := m["duration"]; ok {
		o.Duration = millis([]any{d}, 0, 0)
	}
	return o
}

func thresholds(v any) []float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case []float64:
		return t
	case []any:
		out := make([]float64, 0, len(t))
		for _, x := range t {
			out = append(out, dom.ToFloat(x))
		}
		return out
	}
	return []float64{dom.ToFloat(v)}
}

func elementCallback(v any) func(el *dom.Element) {
	switch f := v.(type) {
	case func(el *dom.Element):
		return f
	}
	if fn := toFunc(v); fn != nil {
		return func(el *dom.Element) { fn(el) }
	}
	return nil
}

func keyframes(v any) []animation.Keyframe {
	if kfs, ok := v.([]animation.Keyframe); ok {
		return kfs
	}
	var out []animation.Keyframe
	for _, item := range toSlice(v) {
		if m := toStringMap(item); m != nil {
			out = append(out, animation.Keyframe(m))
		}
	}
	return out
}

func keyframeOpts(v any) KeyframeOptions {
	m := toMap(v)
	o := KeyframeOptions{OnComplete: elementCallback(m["onComplete"]), OnCancel: elementCallback(m["onCancel"])}
	if d, ok := m["duration"]; ok {
		o.Duration = millis([]any{d}, 0, 0)
	}
	if d, ok := m["delay"]; ok {
		o.Delay = millis([]any{d}, 0, 0)
	}
	if e, ok := m["easing"]; ok {
		o.Easing = dom.ToString(e)
	}
	if f, ok := m["fill"]; ok {
		o.Fill = dom.ToString(f)
	}
	if d, ok := m["direction"]; ok {
		o.Direction = dom.ToString(d)
	}
	if it, ok := m["iterations"]; ok {
		o.Iterations = dom.ToFloat(it)
	}
	return o
}

// eventOpts reads listener options: a bool is the capture flag, a map
// may carry capture, once and passive.
func eventOpts(v any) EventOptions {
	switch t := v.(type) {
	case EventOptions:
		return t
	case bool:
		return EventOptions{Capture: t}
	}
	m := toMap(v)
	return EventOptions{
		Capture: dom.ToBool(m["capture"]),
		Once:    dom.ToBool(m["once"]),
		Passive: dom.ToBool(m["passive"]),
	}
}

func offOpts(v any) OffOptions {
	switch t := v.(type) {
	case OffOptions:
		return t
	case bool:
		return OffOptions{Capture: t}
	}
	m := toMap(v)
	o := OffOptions{Capture: dom.ToBool(m["capture"])}
	if once, ok := m["once"]; ok {
		b := dom.ToBool(once)
		o.Once = &b
	}
	return o
}

func eventInit(v any, bubbles bool) dom.EventInit {
	if ei, ok := v.(dom.EventInit); ok {
		return ei
	}
	ei := dom.EventInit{Bubbles: bubbles, Cancelable: true}
	m := toMap(v)
	if b, ok := m["bubbles"]; ok {
		ei.Bubbles = dom.ToBool(b)
	}
	if c, ok := m["cancelable"]; ok {
		ei.Cancelable = dom.ToBool(c)
	}
	if c, ok := m["composed"]; ok {
		ei.Composed = dom.ToBool(c)
	}
	return ei
}

// bind implements on and one: (event, handler, options) binds directly,
// (event, selector, handler, options) delegates.
func bind(s *Selection, args []any, once bool) *Selection {
	event := str(args, 0)
	if selector, ok := argAt(args, 1).(string); ok {
		if !isFunc(argAt(args, 2)) {
			return s
		}
		o := eventOpts(argAt(args, 3))
		o.Once = o.Once || once
		return s.on(event, selector, toHandler(args[2]), o)
	}
	if !isFunc(argAt(args, 1)) {
		return s
	}
	o := eventOpts(argAt(args, 2))
	o.Once = o.Once || once
	return s.On(event, toHandler(args[1]), o)
}

// unbind implements off: (event) removes by type or namespace,
// (event, handler, options) one direct handler, (event, selector) every
// handler delegated for the selector, and (event, selector, handler,
// options) one delegated handler. Handlers match by identity: a plain Go
// func is wrapped afresh on every call and never matches what on bound, so
// pass the same *Handler or *Callback to both.
func unbind(s *Selection, args ...any) any {
	event := str(args, 0)
	second := argAt(args, 1)
	switch {
	case second == nil:
		return s.Off(event)
	case isFunc(second):
		return s.OffHandler(event, toHandler(second), offOpts(argAt(args, 2)))
	}
	selector := dom.ToString(second)
	if isFunc(argAt(args, 2)) {
		return s.OffDelegated(event, selector, toHandler(args[2]), offOpts(argAt(args, 3)))
	}
	return s.OffSelector(event, selector)
}

func toRules(v any) map[string]Rule {
	if rules, ok := v.(map[string]Rule); ok {
		return rules
	}
	out := make(map[string]Rule)
	for field, raw := range toMap(v) {
		m := toMap(raw)
		r := Rule{
			Required:  dom.ToBool(m["required"]),
			MinLength: int(dom.ToFloat(m["minLength"])),
			MaxLength: int(dom.ToFloat(m["maxLength"])),
			Message:   dom.ToString(m["message"]),
		}
		r.Pattern = dom.ToString(m["pattern"])
		if x, ok := m["min"]; ok && x != nil {
			f := dom.ToFloat(x)
			r.Min = &f
		}
		if x, ok := m["max"]; ok && x != nil {
			f := dom.ToFloat(x)
			r.Max = &f
		}
		if fn := toFunc(m["validate"]); fn != nil {
			msg := r.Message
			r.Check = func(value string, form *dom.Element) string {
				switch res := fn(value, form).(type) {
				case bool:
					if res {
						return ""
					}
				case string:
					if res != "" {
						return res
					}
				}
				if msg != "" {
					return msg
				}
				return "Invalid value"
			}
		}
		out[field] = r
	}
	return out
}

func validateOpts(v any) ValidateOptions {
	m := toMap(v)
	o := ValidateOptions{
		ErrorClass:        dom.ToString(m["errorClass"]),
		ErrorMessageClass: dom.ToString(m["errorMessageClass"]),
		ValidateOnBlur:    dom.ToBool(m["validateOnBlur"]),
	}
	if show, ok := m["showErrors"]; ok {
		o.HideErrors = !dom.ToBool(show)
	}
	return o
}
