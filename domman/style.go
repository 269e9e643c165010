package domman

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chrisuehlinger/domman/css"
	"github.com/chrisuehlinger/domman/dom"
	"github.com/google/uuid"
)

const (
	pseudoStyleID      = "domman-pseudo-styles"
	pseudoClassPrefix  = "domman-pseudo-"
	hoverClassPrefix   = "domman-hover-"
	lastPseudoClassKey = "last-pseudo-class"
)

// CSS returns the computed value of prop for the first element. prop may
// be camelCase or kebab-case.
func (s *Selection) CSS(prop string) (string, bool) {
	first := s.First()
	if first == nil {
		return "", false
	}
	return css.ComputedStyle(first).Get(prop), true
}

// SetCSS sets an inline style property on every element. An empty value
// removes it.
func (s *Selection) SetCSS(prop, value string) *Selection {
	for _, el := range s.elems {
		el.Style().SetProperty(prop, value)
	}
	return s
}

// CSSObject sets several inline style properties on every element.
func (s *Selection) CSSObject(props map[string]string) *Selection {
	keys := sortedKeys(props)
	for _, el := range s.elems {
		for _, k := range keys {
			el.Style().SetProperty(k, props[k])
		}
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Hide sets display: none on every element.
func (s *Selection) Hide() *Selection {
	return s.SetCSS("display", "none")
}

// Show removes an inline display: none.
func (s *Selection) Show() *Selection {
	for _, el := range s.elems {
		if el.Style().GetPropertyValue("display") == "none" {
			el.Style().RemoveProperty("display")
		}
	}
	return s
}

func cssVarName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

// CSSVar returns the computed value of a custom property of the first
// element, trimmed. The "--" prefix is optional.
func (s *Selection) CSSVar(name string) (string, bool) {
	first := s.First()
	if first == nil {
		return "", false
	}
	return strings.TrimSpace(css.ComputedStyle(first).Get(cssVarName(name))), true
}

// SetCSSVar sets custom properties on every element.
func (s *Selection) SetCSSVar(vars map[string]string) *Selection {
	keys := sortedKeys(vars)
	for _, el := range s.elems {
		for _, k := range keys {
			el.Style().SetProperty(cssVarName(k), vars[k])
		}
	}
	return s
}

// AlternateColors stripes rows with background colors: even indexes get
// even, odd ones odd. When the first element is a table or table section
// its rows are striped, otherwise the selected elements are.
func (s *Selection) AlternateColors(odd, even string) *Selection {
	first := s.First()
	if first == nil {
		return s
	}
	rows := s.elems
	switch first.LocalName() {
	case "table", "thead", "tbody", "tfoot":
		rows = tableRows(first)
	}
	for i, row := range rows {
		color := odd
		if i%2 == 0 {
			color = even
		}
		row.Style().SetProperty("background-color", color)
	}
	return s
}

func tableRows(el *dom.Element) []*dom.Element {
	var rows []*dom.Element
	for _, c := range el.Children() {
		switch c.LocalName() {
		case "tr":
			rows = append(rows, c)
		case "thead", "tbody", "tfoot":
			if el.LocalName() == "table" {
				rows = append(rows, tableRows(c)...)
			}
		}
	}
	return rows
}

// PseudoOptions tune the transition CSSPseudo adds for interactive
// pseudo-classes.
type PseudoOptions struct {
	Timing   string
	Duration time.Duration
}

func declarations(props map[string]string) string {
	var b strings.Builder
	for _, k := range sortedKeys(props) {
		fmt.Fprintf(&b, "%s: %s; ", css.CamelToKebab(k), props[k])
	}
	return b.String()
}

// CSSPseudo styles a pseudo-class such as hover or focus by adding a
// generated class to every element and a rule for it to the document's
// shared pseudo stylesheet. base styles the element outside the
// pseudo-class; for hover, active and focus it also gets a transition.
// It returns the generated class.
func (s *Selection) CSSPseudo(pseudo string, styles, base map[string]string, opts ...PseudoOptions) string {
	if len(s.elems) == 0 || pseudo == "" {
		return ""
	}
	o := PseudoOptions{Timing: "ease", Duration: 300 * time.Millisecond}
	if len(opts) > 0 {
		if opts[0].Timing != "" {
			o.Timing = opts[0].Timing
		}
		if opts[0].Duration > 0 {
			o.Duration = opts[0].Duration
		}
	}
	class := pseudoClassPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	s.AddClass(class)

	var rules strings.Builder
	if base != nil {
		fmt.Fprintf(&rules, ".%s {%s", class, declarations(base))
		switch pseudo {
		case "hover", "active", "focus":
			fmt.Fprintf(&rules, "transition: all %dms %s; ", o.Duration.Milliseconds(), o.Timing)
		}
		rules.WriteString("} ")
	}
	fmt.Fprintf(&rules, ".%s:%s {%s}", class, pseudo, declarations(styles))

	sheet := s.pseudoSheet()
	if sheet != nil {
		sheet.SetTextContent(sheet.TextContent() + rules.String())
	}
	s.SetData(lastPseudoClassKey, class)
	return class
}

// CSSHover is CSSPseudo for :hover.
func (s *Selection) CSSHover(styles, base map[string]string, opts ...PseudoOptions) string {
	return s.CSSPseudo("hover", styles, base, opts...)
}

func (s *Selection) pseudoSheet() *dom.Element {
	doc := s.dm.doc
	if el := doc.GetElementById(pseudoStyleID); el != nil {
		return el
	}
	head := doc.Head()
	if head == nil {
		s.dm.debugWarn("cssPseudo", "document has no head")
		return nil
	}
	el := doc.CreateElement("style")
	el.SetId(pseudoStyleID)
	head.Append(el.AsNode())
	return el
}

// RemoveCSSHover removes class from every element. Without a class it
// removes the last generated pseudo class and any generated hover or
// pseudo classes.
func (s *Selection) RemoveCSSHover(class ...string) *Selection {
	if len(class) > 0 && class[0] != "" {
		return s.RemoveClass(class[0])
	}
	if last, ok := s.Data(lastPseudoClassKey); ok {
		if name, ok := last.(string); ok && name != "" {
			s.RemoveClass(name)
		}
	}
	for _, el := range s.elems {
		for _, c := range el.ClassList().Values() {
			if strings.HasPrefix(c, hoverClassPrefix) || strings.HasPrefix(c, pseudoClassPrefix) {
				el.ClassList().Remove(c)
			}
		}
	}
	return s
}

// AddClassWithTransition adds class with an "all d" transition, restoring
// the previous inline transition once d has elapsed on the event loop.
func (s *Selection) AddClassWithTransition(class string, d time.Duration) *Selection {
	if d < 0 {
		d = 300 * time.Millisecond
	}
	for _, el := range s.elems {
		original := el.Style().GetPropertyValue("transition")
		el.Style().SetProperty("transition", fmt.Sprintf("all %dms", d.Milliseconds()))
		if err := el.ClassList().Add(class); err != nil {
			s.dm.debugError("addClassWithTransition", err, "invalid class name")
			el.Style().SetProperty("transition", original)
			return s
		}
		s.dm.loop.SetTimeout(func() {
			el.Style().SetProperty("transition", original)
		}, d)
	}
	return s
}
