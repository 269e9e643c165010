// Package css resolves computed style for dom elements from the user agent
// defaults, the document's <style> sheets and inline style attributes.
package css

import (
	"sort"
	"strconv"
	"strings"

	"github.com/chrisuehlinger/domman/dom"
)

// Style is a resolved, read-only computed style.
type Style struct {
	props map[string]string
}

// Get returns a property by camelCase, kebab-case or custom (--x) name.
func (s *Style) Get(name string) string {
	if strings.HasPrefix(name, "--") {
		return s.props[name]
	}
	return s.props[CamelToKebab(name)]
}

// GetPropertyValue returns a property by its kebab-case name.
func (s *Style) GetPropertyValue(name string) string {
	return s.props[name]
}

// Names returns the resolved property names, sorted.
func (s *Style) Names() []string {
	names := make([]string, 0, len(s.props))
	for k := range s.props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type origin int

const (
	originUserAgent origin = iota
	originAuthor
	originInline
)

type matchedDecl struct {
	decl        dom.Declaration
	layer       int
	specificity int
	order       int
}

// ComputedStyle resolves the style of el. Detached elements get defaults,
// their inline style and the user agent rules.
func ComputedStyle(el *dom.Element) *Style {
	sheets := []*Stylesheet{userAgentSheet()}
	if doc := el.OwnerDocument(); doc != nil && el.AsNode().IsConnected() {
		sheets = append(sheets, documentSheets(doc)...)
	}
	return compute(el, sheets)
}

func compute(el *dom.Element, sheets []*Stylesheet) *Style {
	var parent *Style
	if p := el.ParentElement(); p != nil {
		parent = compute(p, sheets)
	}
	declared := cascade(el, sheets)

	out := &Style{props: make(map[string]string, len(PropertyDefaults))}
	if parent != nil {
		for k, v := range parent.props {
			if strings.HasPrefix(k, "--") {
				out.props[k] = v
			}
		}
	}
	for k, v := range declared {
		if strings.HasPrefix(k, "--") {
			out.props[k] = v
		}
	}

	parentValue := func(name string) string {
		if parent != nil {
			return parent.props[name]
		}
		return PropertyDefaults[name].InitialValue
	}

	// color first so currentcolor can resolve against it
	names := make([]string, 0, len(PropertyDefaults))
	for name := range PropertyDefaults {
		if name != "color" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{"color"}, names...)

	for _, name := range names {
		def := PropertyDefaults[name]
		value, ok := declared[name]
		if ok {
			value = substituteVars(value, out.props)
		}
		switch {
		case !ok || value == "unset":
			if def.Inherited {
				value = parentValue(name)
			} else {
				value = def.InitialValue
			}
		case value == "inherit":
			value = parentValue(name)
		case value == "initial":
			value = def.InitialValue
		default:
			value = computeValue(name, value, parentValue, out.props)
		}
		if value == "currentcolor" {
			value = out.props["color"]
		}
		out.props[name] = value
	}
	return out
}

// cascade returns the winning declared value of every property set on el.
func cascade(el *dom.Element, sheets []*Stylesheet) map[string]string {
	var matched []matchedDecl
	order := 0
	for i, ss := range sheets {
		o := originAuthor
		if i == 0 {
			o = originUserAgent
		}
		for _, rule := range ss.Rules {
			spec, ok := rule.Selector.MatchSpecificity(el)
			if !ok {
				continue
			}
			for _, d := range rule.Declarations {
				matched = append(matched, matchedDecl{decl: d, layer: layerOf(o, d), specificity: spec, order: order})
				order++
			}
		}
	}
	if el.HasAttribute("style") {
		for _, d := range dom.ParseDeclarations(el.GetAttribute("style")) {
			matched = append(matched, matchedDecl{decl: d, layer: layerOf(originInline, d), order: order})
			order++
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.layer != b.layer {
			return a.layer < b.layer
		}
		if a.specificity != b.specificity {
			return a.specificity < b.specificity
		}
		return a.order < b.order
	})

	out := make(map[string]string)
	for _, m := range matched {
		for name, value := range expandShorthand(m.decl.Property, m.decl.Value) {
			out[name] = value
		}
	}
	return out
}

func layerOf(o origin, d dom.Declaration) int {
	if d.Priority == "important" {
		// important declarations invert the origin order
		return 10 - int(o)
	}
	return int(o)
}

func expandShorthand(name, value string) map[string]string {
	sides := func(prefix, suffix string) map[string]string {
		parts := strings.Fields(value)
		var t, r, b, l string
		switch len(parts) {
		case 1:
			t, r, b, l = parts[0], parts[0], parts[0], parts[0]
		case 2:
			t, r, b, l = parts[0], parts[1], parts[0], parts[1]
		case 3:
			t, r, b, l = parts[0], parts[1], parts[2], parts[1]
		case 4:
			t, r, b, l = parts[0], parts[1], parts[2], parts[3]
		default:
			return map[string]string{name: value}
		}
		return map[string]string{
			prefix + "-top" + suffix: t, prefix + "-right" + suffix: r,
			prefix + "-bottom" + suffix: b, prefix + "-left" + suffix: l,
		}
	}
	switch name {
	case "margin", "padding":
		return sides(name, "")
	case "border-width":
		return sides("border", "-width")
	case "overflow":
		return map[string]string{"overflow": value, "overflow-x": value, "overflow-y": value}
	case "background":
		for _, part := range strings.Fields(value) {
			if _, ok := ParseColor(part); ok {
				return map[string]string{"background-color": part}
			}
		}
		return map[string]string{"background-image": value}
	case "border":
		out := map[string]string{}
		for _, part := range strings.Fields(value) {
			switch {
			case isBorderStyle(part):
				out["border-style"] = part
			case isColorValue(part):
				out["border-color"] = part
			default:
				for _, side := range []string{"top", "right", "bottom", "left"} {
					out["border-"+side+"-width"] = part
				}
			}
		}
		return out
	}
	return map[string]string{name: value}
}

func isBorderStyle(s string) bool {
	switch s {
	case "none", "hidden", "dotted", "dashed", "solid", "double", "groove", "ridge", "inset", "outset":
		return true
	}
	return false
}

func isColorValue(s string) bool {
	_, ok := ParseColor(s)
	return ok || s == "currentcolor"
}

// substituteVars replaces var(--name[, fallback]) references.
func substituteVars(value string, props map[string]string) string {
	for i := 0; i < 16; i++ {
		start := strings.Index(value, "var(")
		if start < 0 {
			return value
		}
		depth, end := 0, -1
		for j := start + 3; j < len(value); j++ {
			if value[j] == '(' {
				depth++
			} else if value[j] == ')' {
				depth--
				if depth == 0 {
					end = j
					break
				}
			}
		}
		if end < 0 {
			return value
		}
		inner := value[start+4 : end]
		name, fallback, _ := strings.Cut(inner, ",")
		replacement, ok := props[strings.TrimSpace(name)]
		if !ok {
			replacement = strings.TrimSpace(fallback)
		}
		value = value[:start] + replacement + value[end+1:]
	}
	return value
}

func computeValue(name, value string, parentValue func(string) string, props map[string]string) string {
	switch {
	case isColorProperty(name):
		if value == "currentcolor" {
			return value
		}
		if c, ok := ParseColor(value); ok {
			return c.String()
		}
	case name == "font-weight":
		switch value {
		case "normal":
			return "400"
		case "bold":
			return "700"
		}
	case name == "font-size":
		if px, ok := relativeLength(value, parentValue("font-size")); ok {
			return px
		}
	case value == "0" && strings.HasSuffix(PropertyDefaults[name].InitialValue, "px"):
		return "0px"
	case strings.HasSuffix(value, "em") && !strings.HasSuffix(value, "rem"):
		if px, ok := relativeLength(value, props["font-size"]); ok {
			return px
		}
	}
	return value
}

// relativeLength resolves em and % against base, a px length.
func relativeLength(value, base string) (string, bool) {
	basePx, err := strconv.ParseFloat(strings.TrimSuffix(base, "px"), 64)
	if err != nil {
		return "", false
	}
	var factor float64
	switch {
	case strings.HasSuffix(value, "em"):
		factor, err = strconv.ParseFloat(strings.TrimSuffix(value, "em"), 64)
	case strings.HasSuffix(value, "%"):
		factor, err = strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
		factor /= 100
	default:
		return "", false
	}
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(basePx*factor, 'f', -1, 64) + "px", true
}
