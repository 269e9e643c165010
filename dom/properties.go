package dom

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// property describes one IDL attribute of an element interface.
type property struct {
	applies func(*Element) bool
	get     func(*Element) any
	// set is nil for read-only properties; assignments to them are ignored
	set func(*Element, any) error
}

func anyElement(*Element) bool { return true }

func htmlElement(e *Element) bool { return e.IsHTML() }

func tags(names ...string) func(*Element) bool {
	return func(e *Element) bool {
		if !e.IsHTML() {
			return false
		}
		for _, n := range names {
			if e.LocalName() == n {
				return true
			}
		}
		return false
	}
}

func reflectString(attr string) (func(*Element) any, func(*Element, any) error) {
	return func(e *Element) any { return e.GetAttribute(attr) },
		func(e *Element, v any) error { return e.SetAttributeWithError(attr, ToString(v)) }
}

func reflectBool(attr string) (func(*Element) any, func(*Element, any) error) {
	return func(e *Element) any { return e.HasAttribute(attr) },
		func(e *Element, v any) error {
			e.ToggleAttribute(attr, ToBool(v))
			return nil
		}
}

func reflected(applies func(*Element) bool, attr string) property {
	get, set := reflectString(attr)
	return property{applies: applies, get: get, set: set}
}

func reflectedBool(applies func(*Element) bool, attr string) property {
	get, set := reflectBool(attr)
	return property{applies: applies, get: get, set: set}
}

func readOnly(applies func(*Element) bool, get func(*Element) any) property {
	return property{applies: applies, get: get}
}

func geometryField(f func(*ElementGeometry) float64) func(*Element) any {
	return func(e *Element) any {
		if g := e.Geometry(); g != nil {
			return f(g)
		}
		return 0.0
	}
}

var (
	formControls   = tags("button", "input", "select", "textarea", "fieldset", "output", "object")
	submitControls = tags("button", "input")
	mediaElements  = tags("audio", "video")
)

var properties = map[string]property{
	"textContent": {applies: anyElement,
		get: func(e *Element) any { return e.TextContent() },
		set: func(e *Element, v any) error { e.SetTextContent(ToString(v)); return nil }},
	"innerHTML": {applies: anyElement,
		get: func(e *Element) any { return e.InnerHTML() },
		set: func(e *Element, v any) error { return e.SetInnerHTML(ToString(v)) }},
	"outerHTML": {applies: anyElement,
		get: func(e *Element) any { return e.OuterHTML() },
		set: func(e *Element, v any) error { return e.SetOuterHTML(ToString(v)) }},
	"innerText": {applies: htmlElement,
		get: func(e *Element) any { return e.TextContent() },
		set: func(e *Element, v any) error { e.SetTextContent(ToString(v)); return nil }},
	"className": reflected(anyElement, "class"),
	"id":        reflected(anyElement, "id"),
	"tagName":   readOnly(anyElement, func(e *Element) any { return e.TagName() }),
	"nodeName":  readOnly(anyElement, func(e *Element) any { return e.AsNode().NodeName() }),
	"nodeType":  readOnly(anyElement, func(e *Element) any { return int(e.AsNode().NodeType()) }),
	"nodeValue": {applies: anyElement,
		get: func(e *Element) any { return nil },
		set: func(e *Element, v any) error { return nil }},
	"localName":    readOnly(anyElement, func(e *Element) any { return e.LocalName() }),
	"namespaceURI": readOnly(anyElement, func(e *Element) any { return e.NamespaceURI() }),
	"attributes":   readOnly(anyElement, func(e *Element) any { return e.Attributes() }),
	"classList":    readOnly(anyElement, func(e *Element) any { return e.ClassList() }),
	"style":        readOnly(anyElement, func(e *Element) any { return e.Style() }),
	"children":     readOnly(anyElement, func(e *Element) any { return e.Children() }),
	"title":        reflected(htmlElement, "title"),
	"lang":         reflected(htmlElement, "lang"),
	"dir":          reflected(htmlElement, "dir"),
	"accessKey":    reflected(htmlElement, "accesskey"),
	"hidden":       reflectedBool(htmlElement, "hidden"),
	"autofocus":    reflectedBool(htmlElement, "autofocus"),
	"dataset":      readOnly(htmlElement, func(e *Element) any { return e.Dataset() }),
	"tabIndex": {applies: htmlElement,
		get: func(e *Element) any {
			if n, err := strconv.Atoi(e.GetAttribute("tabindex")); err == nil {
				return n
			}
			if isFocusable(e) {
				return 0
			}
			return -1
		},
		set: func(e *Element, v any) error {
			e.SetAttribute("tabindex", strconv.Itoa(int(ToFloat(v))))
			return nil
		}},
	"contentEditable": {applies: htmlElement,
		get: func(e *Element) any {
			switch v := strings.ToLower(e.GetAttribute("contenteditable")); {
			case !e.HasAttribute("contenteditable"):
				return "inherit"
			case v == "" || v == "true":
				return "true"
			default:
				return v
			}
		},
		set: func(e *Element, v any) error {
			s := strings.ToLower(ToString(v))
			switch s {
			case "inherit":
				e.RemoveAttribute("contenteditable")
			case "true", "false", "plaintext-only":
				e.SetAttribute("contenteditable", s)
			default:
				return &DOMError{Name: "SyntaxError", Message: "The value provided ('" + s + "') is not one of 'true', 'false', 'plaintext-only', or 'inherit'."}
			}
			return nil
		}},
	"draggable": {applies: htmlElement,
		get: func(e *Element) any {
			switch e.GetAttribute("draggable") {
			case "true":
				return true
			case "false":
				return false
			}
			return e.LocalName() == "img" || (e.LocalName() == "a" && e.HasAttribute("href"))
		},
		set: func(e *Element, v any) error {
			e.SetAttribute("draggable", strconv.FormatBool(ToBool(v)))
			return nil
		}},
	"spellcheck": {applies: htmlElement,
		get: func(e *Element) any { return e.GetAttribute("spellcheck") != "false" },
		set: func(e *Element, v any) error {
			e.SetAttribute("spellcheck", strconv.FormatBool(ToBool(v)))
			return nil
		}},
	"translate": {applies: htmlElement,
		get: func(e *Element) any { return e.GetAttribute("translate") != "no" },
		set: func(e *Element, v any) error {
			if ToBool(v) {
				e.SetAttribute("translate", "yes")
			} else {
				e.SetAttribute("translate", "no")
			}
			return nil
		}},

	"offsetHeight": readOnly(htmlElement, geometryField(func(g *ElementGeometry) float64 { return g.OffsetHeight })),
	"offsetWidth":  readOnly(htmlElement, geometryField(func(g *ElementGeometry) float64 { return g.OffsetWidth })),
	"offsetLeft":   readOnly(htmlElement, geometryField(func(g *ElementGeometry) float64 { return g.OffsetLeft })),
	"offsetTop":    readOnly(htmlElement, geometryField(func(g *ElementGeometry) float64 { return g.OffsetTop })),
	"clientWidth":  readOnly(anyElement, geometryField(func(g *ElementGeometry) float64 { return g.ClientWidth })),
	"clientHeight": readOnly(anyElement, geometryField(func(g *ElementGeometry) float64 { return g.ClientHeight })),
	"clientLeft":   readOnly(anyElement, geometryField(func(g *ElementGeometry) float64 { return g.ClientLeft })),
	"clientTop":    readOnly(anyElement, geometryField(func(g *ElementGeometry) float64 { return g.ClientTop })),
	"scrollWidth":  readOnly(anyElement, geometryField(func(g *ElementGeometry) float64 { return g.ScrollWidth })),
	"scrollHeight": readOnly(anyElement, geometryField(func(g *ElementGeometry) float64 { return g.ScrollHeight })),
	"scrollLeft": {applies: anyElement,
		get: geometryField(func(g *ElementGeometry) float64 { return g.ScrollLeft }),
		set: func(e *Element, v any) error {
			e.ScrollTo(ToFloat(v), e.ensureGeometry().ScrollTop)
			return nil
		}},
	"scrollTop": {applies: anyElement,
		get: geometryField(func(g *ElementGeometry) float64 { return g.ScrollTop }),
		set: func(e *Element, v any) error {
			e.ScrollTo(e.ensureGeometry().ScrollLeft, ToFloat(v))
			return nil
		}},

	"parentNode":             readOnly(anyElement, func(e *Element) any { return e.AsNode().ParentNode() }),
	"parentElement":          readOnly(anyElement, func(e *Element) any { return e.ParentElement() }),
	"nextSibling":            readOnly(anyElement, func(e *Element) any { return e.AsNode().NextSibling() }),
	"previousSibling":        readOnly(anyElement, func(e *Element) any { return e.AsNode().PreviousSibling() }),
	"nextElementSibling":     readOnly(anyElement, func(e *Element) any { return e.NextElementSibling() }),
	"previousElementSibling": readOnly(anyElement, func(e *Element) any { return e.PreviousElementSibling() }),
	"childElementCount":      readOnly(anyElement, func(e *Element) any { return e.ChildElementCount() }),

	"checked": {applies: tags("input"),
		get: func(e *Element) any { return e.Checked() },
		set: func(e *Element, v any) error { e.SetChecked(ToBool(v)); return nil }},
	"defaultChecked": reflectedBool(tags("input"), "checked"),
	"disabled":       reflectedBool(tags("button", "input", "select", "textarea", "fieldset", "optgroup", "option", "link"), "disabled"),
	"value": {applies: tags("input", "select", "textarea", "button", "option", "output", "li", "data", "param", "progress", "meter"),
		get: func(e *Element) any { return e.Value() },
		set: func(e *Element, v any) error { e.SetValue(ToString(v)); return nil }},
	"defaultValue": {applies: tags("input", "textarea", "output"),
		get: func(e *Element) any { return e.DefaultValue() },
		set: func(e *Element, v any) error {
			if e.LocalName() == "textarea" {
				e.SetTextContent(ToString(v))
			} else {
				e.SetAttribute("value", ToString(v))
			}
			return nil
		}},
	"name":        reflected(tags("button", "input", "select", "textarea", "fieldset", "output", "object", "form", "iframe", "img", "map", "meta", "param", "slot"), "name"),
	"type":        {applies: tags("button", "input", "select", "textarea", "link", "script", "source", "style", "ol", "object", "embed"), get: func(e *Element) any { return e.Type() }, set: func(e *Element, v any) error { e.SetAttribute("type", ToString(v)); return nil }},
	"placeholder": reflected(tags("input", "textarea"), "placeholder"),
	"href":        reflected(tags("a", "area", "link", "base"), "href"),
	"src":         reflected(tags("img", "script", "iframe", "embed", "audio", "video", "source", "track", "input"), "src"),
	"alt":         reflected(tags("img", "area", "input"), "alt"),
	"form":        readOnly(formControls, func(e *Element) any { return e.Form() }),
	"formAction":  reflected(submitControls, "formaction"),
	"formMethod":  reflected(submitControls, "formmethod"),
	"formEnctype": reflected(submitControls, "formenctype"),
	"formTarget":  reflected(submitControls, "formtarget"),
	"formNoValidate": reflectedBool(submitControls, "formnovalidate"),
	"validity":          readOnly(formControls, func(e *Element) any { return e.Validity() }),
	"validationMessage": readOnly(formControls, func(e *Element) any { return e.ValidationMessage() }),
	"willValidate":      readOnly(formControls, func(e *Element) any { return e.WillValidate() }),
	"required":          reflectedBool(tags("input", "select", "textarea"), "required"),
	"readOnly":          reflectedBool(tags("input", "textarea"), "readonly"),
	"selectedIndex": {applies: tags("select"),
		get: func(e *Element) any { return e.SelectedIndex() },
		set: func(e *Element, v any) error { e.SetSelectedIndex(int(ToFloat(v))); return nil }},
	"options":         readOnly(tags("select", "datalist"), func(e *Element) any { return e.Options() }),
	"selectedOptions": readOnly(tags("select"), func(e *Element) any { return e.SelectedOptions() }),
	"length": readOnly(tags("select", "form"), func(e *Element) any {
		if e.LocalName() == "form" {
			return len(e.Elements())
		}
		return len(e.Options())
	}),
	"selected": {applies: tags("option"),
		get: func(e *Element) any { return e.Selected() },
		set: func(e *Element, v any) error { e.SetSelected(ToBool(v)); return nil }},

	"currentTime": {applies: mediaElements,
		get: func(e *Element) any { return e.mediaFloat("currentTime", 0) },
		set: func(e *Element, v any) error {
			e.setState("currentTime", ToFloat(v))
			e.AsNode().DispatchEvent(NewEvent("timeupdate", EventInit{}))
			return nil
		}},
	"duration": readOnly(mediaElements, func(e *Element) any { return e.mediaFloat("duration", math.NaN()) }),
	"paused":   readOnly(mediaElements, func(e *Element) any { return e.Paused() }),
	"ended": readOnly(mediaElements, func(e *Element) any {
		v, _ := e.state("ended")
		b, _ := v.(bool)
		return b
	}),
	"muted": {applies: mediaElements,
		get: func(e *Element) any {
			if v, ok := e.state("muted"); ok {
				return v.(bool)
			}
			return e.HasAttribute("muted")
		},
		set: func(e *Element, v any) error {
			e.setState("muted", ToBool(v))
			e.AsNode().DispatchEvent(NewEvent("volumechange", EventInit{}))
			return nil
		}},
	"volume": {applies: mediaElements,
		get: func(e *Element) any { return e.Volume() },
		set: func(e *Element, v any) error { return e.SetVolume(ToFloat(v)) }},
	"loop":     reflectedBool(mediaElements, "loop"),
	"controls": reflectedBool(mediaElements, "controls"),
	"autoplay": reflectedBool(mediaElements, "autoplay"),
	"poster":   reflected(tags("video"), "poster"),
}

// HasProperty reports whether name is an IDL property of this element's
// interface, the Go counterpart of `name in element`.
func (e *Element) HasProperty(name string) bool {
	p, ok := properties[name]
	return ok && p.applies(e)
}

// GetProperty reads an IDL property. The second result is false when the
// element has no such property.
func (e *Element) GetProperty(name string) (any, bool) {
	p, ok := properties[name]
	if !ok || !p.applies(e) {
		return nil, false
	}
	return p.get(e), true
}

// SetProperty writes an IDL property. Unknown and read-only properties are
// ignored, as assignments to them are in a browser.
func (e *Element) SetProperty(name string, value any) error {
	p, ok := properties[name]
	if !ok || !p.applies(e) || p.set == nil {
		return nil
	}
	return p.set(e, value)
}

// IsReadOnlyProperty reports whether name exists on e but cannot be assigned.
func (e *Element) IsReadOnlyProperty(name string) bool {
	p, ok := properties[name]
	return ok && p.applies(e) && p.set == nil
}

// PropertyNames returns the IDL properties available on e, sorted.
func (e *Element) PropertyNames() []string {
	var names []string
	for name, p := range properties {
		if p.applies(e) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ToString converts a scripting value to its string form.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e21 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

// ToBool converts a scripting value using truthiness rules.
func ToBool(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	}
	return true
}

// ToFloat converts a scripting value to a number; unparsable input is NaN.
func ToFloat(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	case float64:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return math.NaN()
}
