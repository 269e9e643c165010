package domman

import (
	"github.com/chrisuehlinger/domman/dom"
)

// Content arguments accepted by Append, Prepend, Before, After and the
// node helpers: *dom.Node, *dom.Element, *Selection, slices of those or
// of any, and arbitrary values, which are inserted as text.

// Val returns the value of the first element. ok is false for an empty
// selection.
func (s *Selection) Val() (value string, ok bool) {
	first := s.First()
	if first == nil {
		return "", false
	}
	return first.Value(), true
}

// SetVal sets the value of every element.
func (s *Selection) SetVal(value string) *Selection {
	for _, el := range s.elems {
		el.SetValue(value)
	}
	return s
}

// TextContent returns the text content of the first element.
func (s *Selection) TextContent() (string, bool) {
	first := s.First()
	if first == nil {
		return "", false
	}
	return first.TextContent(), true
}

// SetTextContent replaces the children of every element with text.
func (s *Selection) SetTextContent(text string) *Selection {
	for _, el := range s.elems {
		el.SetTextContent(text)
	}
	return s
}

// Text is TextContent; there is no rendering, so rendered text and text
// content coincide.
func (s *Selection) Text() (string, bool) { return s.TextContent() }

// SetText is SetTextContent.
func (s *Selection) SetText(text string) *Selection { return s.SetTextContent(text) }

// HTML returns the inner markup of the first element.
func (s *Selection) HTML() (string, bool) {
	first := s.First()
	if first == nil {
		return "", false
	}
	return first.InnerHTML(), true
}

// SetHTML parses markup into every element. Parse failures are logged and
// leave that element unchanged.
func (s *Selection) SetHTML(markup string) *Selection {
	for _, el := range s.elems {
		if err := el.SetInnerHTML(markup); err != nil {
			s.dm.debugError("html", err, "cannot set innerHTML")
		}
	}
	return s
}

// OuterHTML returns the markup of the first element itself.
func (s *Selection) OuterHTML() (string, bool) {
	first := s.First()
	if first == nil {
		return "", false
	}
	return first.OuterHTML(), true
}

// SetOuterHTML replaces every attached element with parsed markup.
func (s *Selection) SetOuterHTML(markup string) *Selection {
	for _, el := range s.elems {
		if err := el.SetOuterHTML(markup); err != nil {
			s.dm.debugError("outerHTML", err, "cannot set outerHTML")
		}
	}
	return s
}

// Remove detaches every element from its parent.
func (s *Selection) Remove() *Selection {
	for _, el := range s.elems {
		el.Remove()
	}
	return s
}

// Clone copies the elements, deeply when deep is set.
func (s *Selection) Clone(deep bool) []*dom.Element {
	if len(s.elems) == 0 {
		return nil
	}
	out := make([]*dom.Element, len(s.elems))
	for i, el := range s.elems {
		out[i] = el.CloneNode(deep)
	}
	return out
}

// ReplaceWith replaces every attached element with node. The first
// element receives node itself, the others deep clones of it.
func (s *Selection) ReplaceWith(node *dom.Node) *Selection {
	if node == nil {
		return s
	}
	i := 0
	for _, el := range s.elems {
		parent := el.AsNode().ParentNode()
		if parent == nil {
			continue
		}
		if _, err := parent.ReplaceChildWithError(cloneFor(node, i), el.AsNode()); err != nil {
			s.dm.debugError("replaceWith", err, "cannot replace element")
		}
		i++
	}
	return s
}

func cloneFor(n *dom.Node, targetIndex int) *dom.Node {
	if targetIndex == 0 {
		return n
	}
	return n.CloneNode(true)
}

// items flattens a content argument. Values that are not nodes stay as
// they are and become text nodes on insertion.
func items(content any) []any {
	switch t := content.(type) {
	case nil:
		return nil
	case *Selection:
		if t == nil {
			return nil
		}
		out := make([]any, len(t.elems))
		for i, el := range t.elems {
			out[i] = el.AsNode()
		}
		return out
	case []*dom.Element:
		out := make([]any, 0, len(t))
		for _, el := range t {
			if el != nil {
				out = append(out, el.AsNode())
			}
		}
		return out
	case []*dom.Node:
		out := make([]any, 0, len(t))
		for _, n := range t {
			if n != nil {
				out = append(out, n)
			}
		}
		return out
	case []any:
		var out []any
		for _, v := range t {
			out = append(out, items(v)...)
		}
		return out
	case *dom.Element:
		if t == nil {
			return nil
		}
		return []any{t.AsNode()}
	case *dom.Node:
		if t == nil {
			return nil
		}
		return []any{t}
	}
	return []any{content}
}

// materialize turns one content item into the node inserted into the
// target at targetIndex.
func (s *Selection) materialize(item any, targetIndex int) *dom.Node {
	if n, ok := item.(*dom.Node); ok {
		return cloneFor(n, targetIndex)
	}
	return s.dm.doc.CreateTextNode(dom.ToString(item))
}

// Append adds content to the end of every element. Nodes go to the first
// element and clones of them to the rest.
func (s *Selection) Append(content any) *Selection {
	list := items(content)
	for ti, el := range s.elems {
		for _, item := range list {
			el.Append(s.materialize(item, ti))
		}
	}
	return s
}

// Prepend adds content to the start of every element, keeping its order.
func (s *Selection) Prepend(content any) *Selection {
	list := items(content)
	for ti, el := range s.elems {
		for j := len(list) - 1; j >= 0; j-- {
			el.Prepend(s.materialize(list[j], ti))
		}
	}
	return s
}

// AppendTo appends the selected elements to every target.
func (s *Selection) AppendTo(target any) *Selection {
	targets := s.dm.From(target)
	for ti, t := range targets.elems {
		for _, src := range s.elems {
			t.Append(cloneFor(src.AsNode(), ti))
		}
	}
	return s
}

// PrependTo prepends the selected elements to every target, keeping
// their order.
func (s *Selection) PrependTo(target any) *Selection {
	targets := s.dm.From(target)
	for ti, t := range targets.elems {
		for si := len(s.elems) - 1; si >= 0; si-- {
			t.Prepend(cloneFor(s.elems[si].AsNode(), ti))
		}
	}
	return s
}

// Before inserts content before every attached element.
func (s *Selection) Before(content any) *Selection {
	list := items(content)
	if len(list) == 0 {
		return s
	}
	for ti, el := range s.elems {
		parent := el.AsNode().ParentNode()
		if parent == nil {
			continue
		}
		for _, item := range list {
			parent.InsertBefore(s.materialize(item, ti), el.AsNode())
		}
	}
	return s
}

// After inserts content after every attached element.
func (s *Selection) After(content any) *Selection {
	list := items(content)
	if len(list) == 0 {
		return s
	}
	for ti, el := range s.elems {
		parent := el.AsNode().ParentNode()
		if parent == nil {
			continue
		}
		ref := el.AsNode().NextSibling()
		for _, item := range list {
			parent.InsertBefore(s.materialize(item, ti), ref)
		}
	}
	return s
}

// AppendChild appends content to every element like Append.
func (s *Selection) AppendChild(content any) *Selection {
	list := items(content)
	for ti, el := range s.elems {
		for _, item := range list {
			if _, err := el.AsNode().AppendChildWithError(s.materialize(item, ti)); err != nil {
				s.dm.debugError("appendChild", err, "cannot append child")
			}
		}
	}
	return s
}

// RemoveChild removes the given nodes from whichever element contains them.
func (s *Selection) RemoveChild(content any) *Selection {
	list := items(content)
	for _, el := range s.elems {
		for _, item := range list {
			n, ok := item.(*dom.Node)
			if !ok || n == el.AsNode() || n.ParentNode() == nil || !el.AsNode().Contains(n) {
				continue
			}
			n.ParentNode().RemoveChild(n)
		}
	}
	return s
}

// ReplaceChild replaces oldChild with newChild inside the first element
// that contains it. A non-node newChild is inserted as text.
func (s *Selection) ReplaceChild(newChild, oldChild any) *Selection {
	old := firstNode(oldChild)
	if old == nil {
		return s
	}
	for ti, el := range s.elems {
		parent := old.ParentNode()
		if parent == nil || !el.AsNode().Contains(old) {
			continue
		}
		next := firstItem(newChild)
		if next == nil {
			return s
		}
		if _, err := parent.ReplaceChildWithError(s.materialize(next, ti), old); err != nil {
			s.dm.debugError("replaceChild", err, "cannot replace child")
		}
		break
	}
	return s
}

// InsertBefore inserts newNode before ref in every element containing ref.
func (s *Selection) InsertBefore(newNode, ref any) *Selection {
	r := firstNode(ref)
	if r == nil {
		return s
	}
	item := firstItem(newNode)
	if item == nil {
		return s
	}
	for ti, el := range s.elems {
		parent := r.ParentNode()
		if parent == nil || !el.AsNode().Contains(r) {
			continue
		}
		if _, err := parent.InsertBeforeWithError(s.materialize(item, ti), r); err != nil {
			s.dm.debugError("insertBefore", err, "cannot insert node")
		}
	}
	return s
}

func firstItem(v any) any {
	list := items(v)
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

func firstNode(v any) *dom.Node {
	n, _ := firstItem(v).(*dom.Node)
	return n
}

// ChildNodes returns the child nodes of the first element.
func (s *Selection) ChildNodes() []*dom.Node {
	first := s.First()
	if first == nil {
		return nil
	}
	return first.AsNode().ChildNodes()
}

// FirstChild returns the first child node of the first element, or nil.
func (s *Selection) FirstChild() *dom.Node {
	if first := s.First(); first != nil {
		return first.AsNode().FirstChild()
	}
	return nil
}

// LastChild returns the last child node of the first element, or nil.
func (s *Selection) LastChild() *dom.Node {
	if first := s.First(); first != nil {
		return first.AsNode().LastChild()
	}
	return nil
}
