package dom

import (
	"strings"
)

// Document represents the entire HTML document.
type Document Node

// HTML namespace URI
const HTMLNamespace = "http://www.w3.org/1999/xhtml"

// SVGNamespace is the SVG namespace URI.
const SVGNamespace = "http://www.w3.org/2000/svg"

// Document ready states.
const (
	ReadyStateLoading     = "loading"
	ReadyStateInteractive = "interactive"
	ReadyStateComplete    = "complete"
)

// NewDocument creates a new empty HTML Document in the "complete" ready state.
func NewDocument() *Document {
	node := newNode(DocumentNode, "#document", nil)
	node.documentData = &documentData{
		contentType: "text/html",
		readyState:  ReadyStateComplete,
	}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// NewHTMLDocument creates a document with the html/head/body skeleton.
func NewHTMLDocument() *Document {
	doc := NewDocument()
	htmlEl := doc.CreateElement("html")
	htmlEl.AsNode().AppendChild(doc.CreateElement("head").AsNode())
	htmlEl.AsNode().AppendChild(doc.CreateElement("body").AsNode())
	doc.AsNode().AppendChild(htmlEl.AsNode())
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// URL returns the document's URL. Defaults to "about:blank".
func (d *Document) URL() string {
	if d.AsNode().documentData.url == "" {
		return "about:blank"
	}
	return d.AsNode().documentData.url
}

// SetURL sets the document's URL.
func (d *Document) SetURL(url string) {
	d.AsNode().documentData.url = url
}

// ReadyState returns "loading", "interactive" or "complete".
func (d *Document) ReadyState() string {
	return d.AsNode().documentData.readyState
}

// SetReadyState updates the ready state. Leaving "loading" fires
// DOMContentLoaded on the document; reaching "complete" fires load.
func (d *Document) SetReadyState(state string) {
	data := d.AsNode().documentData
	prev := data.readyState
	if prev == state {
		return
	}
	data.readyState = state
	if prev == ReadyStateLoading {
		d.AsNode().DispatchEvent(NewEvent("DOMContentLoaded", EventInit{Bubbles: true}))
	}
	if state == ReadyStateComplete {
		d.AsNode().DispatchEvent(NewEvent("load", EventInit{}))
	}
}

// DocumentElement returns the root element.
func (d *Document) DocumentElement() *Element {
	for c := d.AsNode().firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// Head returns the head element, or nil.
func (d *Document) Head() *Element {
	return d.childOfRoot("head")
}

// Body returns the body element, or nil.
func (d *Document) Body() *Element {
	return d.childOfRoot("body")
}

func (d *Document) childOfRoot(localName string) *Element {
	root := d.DocumentElement()
	if root == nil {
		return nil
	}
	for c := root.AsNode().firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode && c.elementData.localName == localName {
			return (*Element)(c)
		}
	}
	return nil
}

// ActiveElement returns the focused element, or the body when nothing has focus.
func (d *Document) ActiveElement() *Element {
	if el := d.AsNode().documentData.activeElem; el != nil && el.AsNode().IsConnected() {
		return el
	}
	return d.Body()
}

// SetHovered marks an element as hovered for :hover matching.
func (d *Document) SetHovered(el *Element, hovered bool) {
	data := d.AsNode().documentData
	if data.hoveredElems == nil {
		data.hoveredElems = make(map[*Node]bool)
	}
	if hovered {
		data.hoveredElems[el.AsNode()] = true
	} else {
		delete(data.hoveredElems, el.AsNode())
	}
}

func (d *Document) isHovered(el *Element) bool {
	return d.AsNode().documentData.hoveredElems[el.AsNode()]
}

// CreateElement creates a new element with the given tag name.
// Errors are ignored; use CreateElementWithError to observe them.
func (d *Document) CreateElement(tagName string) *Element {
	el, _ := d.CreateElementWithError(tagName)
	return el
}

// CreateElementWithError creates a new HTML element with the given tag name.
// Returns an InvalidCharacterError if the tag name is not a valid name.
func (d *Document) CreateElementWithError(tagName string) (*Element, error) {
	if !isValidName(tagName) {
		return nil, ErrInvalidCharacter("The string contains invalid characters.")
	}
	return d.newElement(HTMLNamespace, strings.ToLower(tagName), strings.ToUpper(tagName)), nil
}

// CreateElementNS creates a new element with the given namespace and qualified name.
func (d *Document) CreateElementNS(namespaceURI, qualifiedName string) *Element {
	el, _ := d.CreateElementNSWithError(namespaceURI, qualifiedName)
	return el
}

// CreateElementNSWithError creates a namespaced element. Case is preserved
// outside the HTML namespace.
func (d *Document) CreateElementNSWithError(namespaceURI, qualifiedName string) (*Element, error) {
	if !isValidName(qualifiedName) {
		return nil, ErrInvalidCharacter("The string contains invalid characters.")
	}
	if namespaceURI == HTMLNamespace {
		return d.CreateElementWithError(qualifiedName)
	}
	localName := qualifiedName
	if i := strings.IndexByte(qualifiedName, ':'); i >= 0 {
		localName = qualifiedName[i+1:]
	}
	return d.newElement(namespaceURI, localName, qualifiedName), nil
}

func (d *Document) newElement(namespaceURI, localName, tagName string) *Element {
	node := newNode(ElementNode, tagName, d)
	node.elementData = &elementData{
		localName:    localName,
		tagName:      tagName,
		namespaceURI: namespaceURI,
	}
	return (*Element)(node)
}

// CreateTextNode creates a new text node.
func (d *Document) CreateTextNode(data string) *Node {
	return newTextNode(d, data)
}

// CreateComment creates a new comment node.
func (d *Document) CreateComment(data string) *Node {
	return newCommentNode(d, data)
}

// CreateDocumentFragment creates an empty fragment.
func (d *Document) CreateDocumentFragment() *Node {
	return newNode(DocumentFragmentNode, "#document-fragment", d)
}

// GetElementById returns the first element with the given id.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	walkElements(d.AsNode(), func(el *Element) bool {
		if el.Id() == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// QuerySelector returns the first matching element, or nil. Invalid
// selectors match nothing; use QuerySelectorWithError to observe the error.
func (d *Document) QuerySelector(selector string) *Element {
	el, _ := d.QuerySelectorWithError(selector)
	return el
}

// QuerySelectorWithError returns the first matching element.
func (d *Document) QuerySelectorWithError(selector string) (*Element, error) {
	return querySelector(d.AsNode(), selector)
}

// QuerySelectorAll returns all matching elements in document order.
func (d *Document) QuerySelectorAll(selector string) []*Element {
	els, _ := d.QuerySelectorAllWithError(selector)
	return els
}

// QuerySelectorAllWithError returns all matching elements in document order.
func (d *Document) QuerySelectorAllWithError(selector string) ([]*Element, error) {
	return querySelectorAll(d.AsNode(), selector)
}

// walkElements visits descendants of root in document order until fn returns false.
func walkElements(root *Node, fn func(el *Element) bool) bool {
	for c := root.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			if !fn((*Element)(c)) {
				return false
			}
		}
		if !walkElements(c, fn) {
			return false
		}
	}
	return true
}

func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':', r > 0x7f:
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
