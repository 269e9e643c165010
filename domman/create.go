package domman

import (
	"strings"

	"github.com/chrisuehlinger/domman/dom"
)

// SVGNamespace is the namespace CreateSVG uses.
const SVGNamespace = "http://www.w3.org/2000/svg"

// Attrs are the attributes accepted by CreateElement. "class" and
// "className" set the class and a "style" map[string]string sets inline
// styles. A key like "onclick" with a function value adds a listener for
// the lowercased event. Anything else becomes an attribute.
type Attrs map[string]any

// CreateElement creates an HTML element. An invalid tag is logged and
// yields nil.
func (d *DomMan) CreateElement(tag string, attrs ...Attrs) *dom.Element {
	el, err := d.doc.CreateElementWithError(tag)
	if err != nil {
		d.debugError("createElement", err, "cannot create element")
		return nil
	}
	d.applyAttrs(el, attrs)
	return el
}

// CreateElementNS creates an element in namespace with CreateElement's
// attribute handling.
func (d *DomMan) CreateElementNS(namespace, tag string, attrs ...Attrs) *dom.Element {
	el, err := d.doc.CreateElementNSWithError(namespace, tag)
	if err != nil {
		d.debugError("createElementNS", err, "cannot create element")
		return nil
	}
	d.applyAttrs(el, attrs)
	return el
}

// CreateSVG creates an SVG element.
func (d *DomMan) CreateSVG(tag string, attrs ...Attrs) *dom.Element {
	return d.CreateElementNS(SVGNamespace, tag, attrs...)
}

// Create creates an element and assigns each entry as an element
// property; names that are not properties of the element are ignored.
func (d *DomMan) Create(tag string, props map[string]any) *dom.Element {
	el, err := d.doc.CreateElementWithError(tag)
	if err != nil {
		d.debugError("create", err, "cannot create element")
		return nil
	}
	for _, k := range sortedKeys(props) {
		if err := el.SetProperty(k, props[k]); err != nil {
			d.debugError("create", err, "cannot set "+k)
		}
	}
	return el
}

func (d *DomMan) applyAttrs(el *dom.Element, attrs []Attrs) {
	if len(attrs) == 0 {
		return
	}
	a := attrs[0]
	for _, key := range sortedKeys(a) {
		value := a[key]
		switch {
		case key == "class" || key == "className":
			el.SetAttribute("class", dom.ToString(value))
		case key == "style":
			if styles, ok := value.(map[string]string); ok {
				for _, p := range sortedKeys(styles) {
					el.Style().SetProperty(p, styles[p])
				}
				continue
			}
			el.SetAttribute("style", dom.ToString(value))
		case strings.HasPrefix(key, "on") && isFunc(value):
			h := toHandler(value)
			el.AsNode().AddEventListener(strings.ToLower(key[2:]), dom.NewListener(func(e *dom.Event) { h.call(e, el) }), dom.ListenerOptions{})
		default:
			if err := el.SetAttributeWithError(key, dom.ToString(value)); err != nil {
				d.debugError("createElement", err, "invalid attribute "+key)
			}
		}
	}
}

// CreateTextNode creates a text node.
func (d *DomMan) CreateTextNode(text string) *dom.Node { return d.doc.CreateTextNode(text) }

// CreateComment creates a comment node.
func (d *DomMan) CreateComment(text string) *dom.Node { return d.doc.CreateComment(text) }

// CreateDocumentFragment creates an empty fragment.
func (d *DomMan) CreateDocumentFragment() *dom.Node { return d.doc.CreateDocumentFragment() }
