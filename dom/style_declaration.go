package dom

import (
	"slices"
	"strings"
)

// CSSStyleDeclaration is an element's inline style, kept in sync with its
// style attribute.
type CSSStyleDeclaration struct {
	element      *Element
	declarations map[string]*styleProperty
	order        []string
}

type styleProperty struct {
	value    string
	priority string // "important" or ""
}

// NewCSSStyleDeclaration creates a declaration block seeded from element's style attribute.
func NewCSSStyleDeclaration(element *Element) *CSSStyleDeclaration {
	sd := &CSSStyleDeclaration{
		element:      element,
		declarations: make(map[string]*styleProperty),
	}
	if element != nil && element.HasAttribute("style") {
		sd.parse(element.GetAttribute("style"))
	}
	return sd
}

// CSSText serializes the declarations in insertion order.
func (sd *CSSStyleDeclaration) CSSText() string {
	parts := make([]string, 0, len(sd.order))
	for _, prop := range sd.order {
		sp := sd.declarations[prop]
		part := prop + ": " + sp.value
		if sp.priority == "important" {
			part += " !important"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}

// SetCSSText replaces all declarations.
func (sd *CSSStyleDeclaration) SetCSSText(cssText string) {
	sd.reset()
	sd.parse(cssText)
	sd.sync()
}

// Length returns the number of properties set.
func (sd *CSSStyleDeclaration) Length() int {
	return len(sd.order)
}

// Item returns the property name at index.
func (sd *CSSStyleDeclaration) Item(index int) string {
	if index < 0 || index >= len(sd.order) {
		return ""
	}
	return sd.order[index]
}

// GetPropertyValue accepts kebab-case, camelCase and custom property names.
func (sd *CSSStyleDeclaration) GetPropertyValue(property string) string {
	if sp, ok := sd.declarations[NormalizePropertyName(property)]; ok {
		return sp.value
	}
	return ""
}

// GetPropertyPriority returns "important" or "".
func (sd *CSSStyleDeclaration) GetPropertyPriority(property string) string {
	if sp, ok := sd.declarations[NormalizePropertyName(property)]; ok {
		return sp.priority
	}
	return ""
}

// SetProperty sets a property. An empty value removes it.
func (sd *CSSStyleDeclaration) SetProperty(property, value string, priority ...string) {
	property = NormalizePropertyName(property)
	if property == "" {
		return
	}
	if value == "" {
		sd.RemoveProperty(property)
		return
	}
	pri := ""
	if len(priority) > 0 && strings.EqualFold(priority[0], "important") {
		pri = "important"
	}
	sd.put(property, value, pri)
	sd.sync()
}

// RemoveProperty removes a property and returns its old value.
func (sd *CSSStyleDeclaration) RemoveProperty(property string) string {
	property = NormalizePropertyName(property)
	sp, ok := sd.declarations[property]
	if !ok {
		return ""
	}
	delete(sd.declarations, property)
	sd.order = slices.DeleteFunc(sd.order, func(p string) bool { return p == property })
	sd.sync()
	return sp.value
}

// PropertyNames returns all property names in declaration order.
func (sd *CSSStyleDeclaration) PropertyNames() []string {
	return slices.Clone(sd.order)
}

// RefreshFromAttribute reloads declarations after the style attribute changed.
func (sd *CSSStyleDeclaration) RefreshFromAttribute() {
	sd.reset()
	if sd.element != nil && sd.element.HasAttribute("style") {
		sd.parse(sd.element.GetAttribute("style"))
	}
}

func (sd *CSSStyleDeclaration) reset() {
	sd.declarations = make(map[string]*styleProperty)
	sd.order = nil
}

func (sd *CSSStyleDeclaration) put(property, value, priority string) {
	if _, exists := sd.declarations[property]; !exists {
		sd.order = append(sd.order, property)
	}
	sd.declarations[property] = &styleProperty{value: value, priority: priority}
}

func (sd *CSSStyleDeclaration) parse(text string) {
	for _, decl := range ParseDeclarations(text) {
		sd.put(decl.Property, decl.Value, decl.Priority)
	}
}

func (sd *CSSStyleDeclaration) sync() {
	if sd.element == nil {
		return
	}
	if cssText := sd.CSSText(); cssText == "" {
		sd.element.RemoveAttribute("style")
	} else {
		// bypass SetAttribute so the block is not reparsed
		sd.element.setAttributeRaw("style", cssText)
	}
}

// Declaration is one "property: value" pair from a declaration block.
type Declaration struct {
	Property string
	Value    string
	Priority string
}

// ParseDeclarations splits a declaration block such as a style attribute.
// Property names are normalized; empty or malformed entries are skipped.
func ParseDeclarations(text string) []Declaration {
	var out []Declaration
	for _, part := range strings.Split(text, ";") {
		colon := strings.Index(part, ":")
		if colon < 0 {
			continue
		}
		property := NormalizePropertyName(strings.TrimSpace(part[:colon]))
		value := strings.TrimSpace(part[colon+1:])
		if property == "" || value == "" {
			continue
		}
		priority := ""
		if bang := strings.LastIndex(value, "!"); bang >= 0 &&
			strings.EqualFold(strings.TrimSpace(value[bang+1:]), "important") {
			priority = "important"
			value = strings.TrimSpace(value[:bang])
		}
		out = append(out, Declaration{Property: property, Value: value, Priority: priority})
	}
	return out
}

// NormalizePropertyName converts camelCase to kebab-case. Custom properties
// (--name) keep their case.
func NormalizePropertyName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	if strings.Contains(name, "-") {
		return strings.ToLower(name)
	}
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CamelCasePropertyName converts kebab-case to camelCase.
func CamelCasePropertyName(name string) string {
	name = strings.TrimPrefix(name, "-")
	parts := strings.Split(name, "-")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			b.WriteString(part)
		} else {
			b.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}
	return b.String()
}
