package dom

import (
	"strings"
)

// Element represents an element in the DOM.
type Element Node

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// TagName returns the tag name of the element (uppercase for HTML).
func (e *Element) TagName() string {
	return e.elementData.tagName
}

// LocalName returns the local name of the element.
func (e *Element) LocalName() string {
	return e.elementData.localName
}

// NamespaceURI returns the namespace URI of the element.
func (e *Element) NamespaceURI() string {
	return e.elementData.namespaceURI
}

// IsHTML reports whether the element is in the HTML namespace.
func (e *Element) IsHTML() bool {
	return e.elementData.namespaceURI == HTMLNamespace
}

// OwnerDocument returns the element's document.
func (e *Element) OwnerDocument() *Document {
	return e.AsNode().ownerDoc
}

// Id returns the element's id.
func (e *Element) Id() string {
	return e.GetAttribute("id")
}

// SetId sets the element's id.
func (e *Element) SetId(id string) {
	e.SetAttribute("id", id)
}

// ClassName returns the value of the class attribute.
func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

// SetClassName sets the class attribute.
func (e *Element) SetClassName(className string) {
	e.SetAttribute("class", className)
}

// ClassList returns the DOMTokenList for the class attribute.
func (e *Element) ClassList() *DOMTokenList {
	if e.elementData.classList == nil {
		e.elementData.classList = newDOMTokenList(e, "class")
	}
	return e.elementData.classList
}

// Style returns the CSSStyleDeclaration for this element's inline styles.
func (e *Element) Style() *CSSStyleDeclaration {
	if e.elementData.style == nil {
		e.elementData.style = NewCSSStyleDeclaration(e)
	}
	return e.elementData.style
}

func (e *Element) attrIndex(name string) int {
	if e.IsHTML() {
		name = strings.ToLower(name)
	}
	for i, a := range e.elementData.attributes {
		if a.name == name {
			return i
		}
	}
	return -1
}

// GetAttribute returns the value of the named attribute, or "" when absent.
func (e *Element) GetAttribute(name string) string {
	if i := e.attrIndex(name); i >= 0 {
		return e.elementData.attributes[i].value
	}
	return ""
}

// HasAttribute returns true if the element has the named attribute.
func (e *Element) HasAttribute(name string) bool {
	return e.attrIndex(name) >= 0
}

// SetAttribute sets the value of an attribute.
// For error handling, use SetAttributeWithError.
func (e *Element) SetAttribute(name, value string) {
	_ = e.SetAttributeWithError(name, value)
}

// SetAttributeWithError sets the value of an attribute, returning an
// InvalidCharacterError for names that are not valid.
func (e *Element) SetAttributeWithError(name, value string) error {
	if !isValidName(name) {
		return ErrInvalidCharacter("The string contains invalid characters.")
	}
	e.setAttributeRaw(name, value)
	if strings.EqualFold(name, "style") && e.elementData.style != nil {
		e.elementData.style.RefreshFromAttribute()
	}
	return nil
}

func (e *Element) setAttributeRaw(name, value string) {
	if e.IsHTML() {
		name = strings.ToLower(name)
	}
	if i := e.attrIndex(name); i >= 0 {
		e.elementData.attributes[i].value = value
		return
	}
	e.elementData.attributes = append(e.elementData.attributes, attribute{name: name, value: value})
}

// RemoveAttribute removes an attribute.
func (e *Element) RemoveAttribute(name string) {
	i := e.attrIndex(name)
	if i < 0 {
		return
	}
	attrs := e.elementData.attributes
	e.elementData.attributes = append(attrs[:i:i], attrs[i+1:]...)
	if strings.EqualFold(name, "style") && e.elementData.style != nil {
		e.elementData.style.RefreshFromAttribute()
	}
}

// ToggleAttribute toggles a boolean attribute and reports whether it is now present.
func (e *Element) ToggleAttribute(name string, force ...bool) bool {
	present := e.HasAttribute(name)
	want := !present
	if len(force) > 0 {
		want = force[0]
	}
	if want && !present {
		e.SetAttribute(name, "")
	} else if !want && present {
		e.RemoveAttribute(name)
	}
	return want
}

// AttributeNames returns attribute names in insertion order.
func (e *Element) AttributeNames() []string {
	names := make([]string, len(e.elementData.attributes))
	for i, a := range e.elementData.attributes {
		names[i] = a.name
	}
	return names
}

// Attributes returns a copy of the attributes as a name/value map.
func (e *Element) Attributes() map[string]string {
	m := make(map[string]string, len(e.elementData.attributes))
	for _, a := range e.elementData.attributes {
		m[a.name] = a.value
	}
	return m
}

// Dataset returns the data-* attributes keyed by their camelCased name.
func (e *Element) Dataset() map[string]string {
	out := make(map[string]string)
	for _, a := range e.elementData.attributes {
		if strings.HasPrefix(a.name, "data-") {
			out[dataKey(a.name[len("data-"):])] = a.value
		}
	}
	return out
}

func dataKey(s string) string {
	parts := strings.Split(s, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// Children returns the element children.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.AsNode().firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			out = append(out, (*Element)(c))
		}
	}
	return out
}

// ChildElementCount returns the number of element children.
func (e *Element) ChildElementCount() int {
	return len(e.Children())
}

// FirstElementChild returns the first element child.
func (e *Element) FirstElementChild() *Element {
	for c := e.AsNode().firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// LastElementChild returns the last element child.
func (e *Element) LastElementChild() *Element {
	for c := e.AsNode().lastChild; c != nil; c = c.prevSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// PreviousElementSibling returns the previous sibling that is an element.
func (e *Element) PreviousElementSibling() *Element {
	for s := e.AsNode().prevSibling; s != nil; s = s.prevSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// NextElementSibling returns the next sibling that is an element.
func (e *Element) NextElementSibling() *Element {
	for s := e.AsNode().nextSibling; s != nil; s = s.nextSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// ParentElement returns the parent element.
func (e *Element) ParentElement() *Element {
	return e.AsNode().ParentElement()
}

// Contains reports whether other is an inclusive descendant of e.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	return e.AsNode().Contains(other.AsNode())
}

// Matches returns true if the element matches the given selector.
// Invalid selectors never match; use MatchesWithError to observe the error.
func (e *Element) Matches(selector string) bool {
	ok, _ := e.MatchesWithError(selector)
	return ok
}

// MatchesWithError reports whether the element matches selector.
func (e *Element) MatchesWithError(selector string) (bool, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return false, err
	}
	return sel.Match(e), nil
}

// Closest returns the closest ancestor element (or self) matching the selector.
func (e *Element) Closest(selector string) *Element {
	el, _ := e.ClosestWithError(selector)
	return el
}

// ClosestWithError returns the closest inclusive ancestor matching selector.
func (e *Element) ClosestWithError(selector string) (*Element, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	for current := e; current != nil; current = current.ParentElement() {
		if sel.Match(current) {
			return current, nil
		}
	}
	return nil, nil
}

// QuerySelector returns the first descendant matching selector.
func (e *Element) QuerySelector(selector string) *Element {
	el, _ := querySelector(e.AsNode(), selector)
	return el
}

// QuerySelectorWithError returns the first descendant matching selector.
func (e *Element) QuerySelectorWithError(selector string) (*Element, error) {
	return querySelector(e.AsNode(), selector)
}

// QuerySelectorAll returns all descendants matching selector.
func (e *Element) QuerySelectorAll(selector string) []*Element {
	els, _ := querySelectorAll(e.AsNode(), selector)
	return els
}

// QuerySelectorAllWithError returns all descendants matching selector.
func (e *Element) QuerySelectorAllWithError(selector string) ([]*Element, error) {
	return querySelectorAll(e.AsNode(), selector)
}

func querySelector(root *Node, selector string) (*Element, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	var found *Element
	walkElements(root, func(el *Element) bool {
		if sel.Match(el) {
			found = el
			return false
		}
		return true
	})
	return found, nil
}

func querySelectorAll(root *Node, selector string) ([]*Element, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	var out []*Element
	walkElements(root, func(el *Element) bool {
		if sel.Match(el) {
			out = append(out, el)
		}
		return true
	})
	return out, nil
}

// TextContent returns the text content of the element.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

// SetTextContent replaces the children with a single text node.
func (e *Element) SetTextContent(text string) {
	e.AsNode().SetTextContent(text)
}

// Append appends nodes to this element. Fragments contribute their children.
func (e *Element) Append(nodes ...*Node) {
	for _, n := range nodes {
		e.AsNode().AppendChild(n)
	}
}

// Prepend inserts nodes before the first child, preserving their order.
func (e *Element) Prepend(nodes ...*Node) {
	ref := e.AsNode().firstChild
	for _, n := range nodes {
		e.AsNode().InsertBefore(n, ref)
	}
}

// Before inserts nodes before this element.
func (e *Element) Before(nodes ...*Node) {
	parent := e.AsNode().parentNode
	if parent == nil {
		return
	}
	for _, n := range nodes {
		parent.InsertBefore(n, e.AsNode())
	}
}

// After inserts nodes after this element.
func (e *Element) After(nodes ...*Node) {
	parent := e.AsNode().parentNode
	if parent == nil {
		return
	}
	ref := e.AsNode().nextSibling
	for _, n := range nodes {
		parent.InsertBefore(n, ref)
	}
}

// ReplaceWith replaces this element with the given nodes.
func (e *Element) ReplaceWith(nodes ...*Node) {
	parent := e.AsNode().parentNode
	if parent == nil {
		return
	}
	ref := e.AsNode().nextSibling
	e.Remove()
	for _, n := range nodes {
		parent.InsertBefore(n, ref)
	}
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	e.AsNode().Remove()
}

// CloneNode clones this element.
func (e *Element) CloneNode(deep bool) *Element {
	return (*Element)(e.AsNode().CloneNode(deep))
}

// Geometry returns the element's layout geometry, or nil if none was set.
func (e *Element) Geometry() *ElementGeometry {
	return e.elementData.geometry
}

// SetGeometry sets the element's layout geometry.
func (e *Element) SetGeometry(g *ElementGeometry) {
	e.elementData.geometry = g
}

// GetBoundingClientRect returns the element's border box.
// If layout has not been computed, returns a zero-sized rect.
func (e *Element) GetBoundingClientRect() *DOMRect {
	geom := e.Geometry()
	if geom == nil {
		return NewDOMRect(0, 0, 0, 0)
	}
	return NewDOMRect(geom.X, geom.Y, geom.Width, geom.Height)
}

func (e *Element) state(key string) (any, bool) {
	if e.elementData.state == nil {
		return nil, false
	}
	v, ok := e.elementData.state[key]
	return v, ok
}

func (e *Element) setState(key string, v any) {
	if e.elementData.state == nil {
		e.elementData.state = make(map[string]any)
	}
	e.elementData.state[key] = v
}

func (e *Element) clearState(key string) {
	delete(e.elementData.state, key)
}
