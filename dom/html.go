package dom

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses a complete HTML document.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse html document")
	}
	doc := NewDocument()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			continue
		}
		doc.AsNode().insertBeforeInternal(convertHTMLNode(c, doc), nil)
	}
	return doc, nil
}

// ParseHTMLString parses a complete HTML document from a string.
func ParseHTMLString(s string) (*Document, error) {
	return ParseHTML(strings.NewReader(s))
}

// ParseFragment parses markup as the body of d and returns the detached
// top-level nodes.
func (d *Document) ParseFragment(markup string) ([]*Node, error) {
	body := d.Body()
	if body == nil {
		body = d.CreateElement("body")
	}
	return ParseFragment(markup, body)
}

// ParseFragment parses markup in the context of el and returns the
// detached top-level nodes.
func ParseFragment(markup string, context *Element) ([]*Node, error) {
	if context == nil {
		return nil, ErrNotSupported("fragment parsing requires a context element")
	}
	doc := context.OwnerDocument()
	tag := context.LocalName()
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Lookup([]byte(tag)), Data: tag}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse html fragment")
	}
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, convertHTMLNode(n, doc))
	}
	return out, nil
}

func convertHTMLNode(n *html.Node, doc *Document) *Node {
	var node *Node
	switch n.Type {
	case html.ElementNode:
		var el *Element
		switch n.Namespace {
		case "svg":
			el = doc.CreateElementNS(SVGNamespace, n.Data)
		case "":
			el = doc.CreateElement(n.Data)
		default:
			el = doc.CreateElementNS(n.Namespace, n.Data)
		}
		for _, attr := range n.Attr {
			el.setAttributeRaw(attr.Key, attr.Val)
		}
		node = el.AsNode()
	case html.CommentNode:
		node = doc.CreateComment(n.Data)
	default:
		node = doc.CreateTextNode(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		node.insertBeforeInternal(convertHTMLNode(c, doc), nil)
	}
	return node
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	for child := e.AsNode().firstChild; child != nil; child = child.nextSibling {
		serializeNode(child, &sb)
	}
	return sb.String()
}

// SetInnerHTML replaces the element's children with parsed markup.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := ParseFragment(markup, e)
	if err != nil {
		return err
	}
	e.AsNode().removeAllChildren()
	for _, node := range nodes {
		e.AsNode().insertBeforeInternal(node, nil)
	}
	return nil
}

// OuterHTML serializes the element itself.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	serializeNode(e.AsNode(), &sb)
	return sb.String()
}

// SetOuterHTML replaces the element with parsed markup. Detached elements
// are left unchanged.
func (e *Element) SetOuterHTML(markup string) error {
	parent := e.AsNode().parentNode
	if parent == nil {
		return nil
	}
	context := parent.AsElement()
	if context == nil {
		return ErrNotSupported("Cannot set outerHTML on the document element.")
	}
	nodes, err := ParseFragment(markup, context)
	if err != nil {
		return err
	}
	for _, node := range nodes {
		parent.insertBeforeInternal(node, e.AsNode())
	}
	parent.removeChildInternal(e.AsNode())
	return nil
}

// Serialize returns the markup of any node. Documents serialize their
// children preceded by a doctype.
func Serialize(n *Node) string {
	var sb strings.Builder
	if n.nodeType == DocumentNode {
		sb.WriteString("<!DOCTYPE html>")
		for c := n.firstChild; c != nil; c = c.nextSibling {
			serializeNode(c, &sb)
		}
		return sb.String()
	}
	serializeNode(n, &sb)
	return sb.String()
}

func serializeNode(n *Node, sb *strings.Builder) {
	switch n.nodeType {
	case TextNode:
		if p := n.ParentElement(); p != nil && isRawTextElement(p.LocalName()) {
			sb.WriteString(n.data)
		} else {
			sb.WriteString(html.EscapeString(n.data))
		}
	case CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.data)
		sb.WriteString("-->")
	case ElementNode:
		el := (*Element)(n)
		tag := el.LocalName()
		sb.WriteString("<")
		sb.WriteString(tag)
		for _, attr := range el.elementData.attributes {
			sb.WriteString(" ")
			sb.WriteString(attr.name)
			sb.WriteString(`="`)
			sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(attr.value, "&", "&amp;"), `"`, "&quot;"))
			sb.WriteString(`"`)
		}
		sb.WriteString(">")
		if el.IsHTML() && isVoidElement(tag) {
			return
		}
		for child := n.firstChild; child != nil; child = child.nextSibling {
			serializeNode(child, sb)
		}
		sb.WriteString("</")
		sb.WriteString(tag)
		sb.WriteString(">")
	case DocumentFragmentNode, DocumentNode:
		for child := n.firstChild; child != nil; child = child.nextSibling {
			serializeNode(child, sb)
		}
	}
}

func isRawTextElement(tag string) bool {
	switch tag {
	case "script", "style", "xmp", "iframe", "noembed", "noframes", "plaintext":
		return true
	}
	return false
}

func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}
