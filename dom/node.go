package dom

import (
	"strings"
)

// Node represents a node in the DOM tree. It is the base type from which
// Document, Element, Text and Comment nodes are built.
type Node struct {
	nodeType NodeType
	nodeName string
	ownerDoc *Document

	parentNode  *Node
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	// Character data for Text and Comment nodes.
	data string

	// Type-specific data (only one will be non-nil based on nodeType)
	elementData  *elementData
	documentData *documentData

	listeners *eventTarget
}

// ElementGeometry holds computed layout geometry for an element.
// It is supplied by whatever host performs layout and read by
// getBoundingClientRect, the offset/client/scroll properties and observers.
type ElementGeometry struct {
	// Border box coordinates relative to the viewport
	X, Y, Width, Height float64

	OffsetTop, OffsetLeft     float64
	OffsetWidth, OffsetHeight float64

	ScrollTop, ScrollLeft     float64
	ScrollWidth, ScrollHeight float64
	ClientTop, ClientLeft     float64
	ClientWidth, ClientHeight float64
}

// elementData holds data specific to Element nodes.
type elementData struct {
	localName    string
	namespaceURI string
	tagName      string
	attributes   []attribute
	classList    *DOMTokenList
	style        *CSSStyleDeclaration

	// IDL state that is not reflected into attributes (input dirty value,
	// media playback state, focus, ...).
	state map[string]any

	// Layout geometry - set by the host
	geometry *ElementGeometry
}

type attribute struct {
	name  string
	value string
}

// documentData holds data specific to Document nodes.
type documentData struct {
	contentType  string
	url          string
	readyState   string
	activeElem   *Element
	hoveredElems map[*Node]bool
	reportError  func(error)
	onSubmit     func(form *Element)
}

// newNode creates a new node with the given type and name.
func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	return &Node{
		nodeType: nodeType,
		nodeName: nodeName,
		ownerDoc: ownerDoc,
	}
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node.
// For elements, this is the tag name in uppercase.
func (n *Node) NodeName() string {
	return n.nodeName
}

// NodeValue returns the value of the node.
// For text and comment nodes, this is the character data.
func (n *Node) NodeValue() string {
	switch n.nodeType {
	case TextNode, CommentNode:
		return n.data
	}
	return ""
}

// SetNodeValue sets the value of text and comment nodes. It is a no-op for
// other node types.
func (n *Node) SetNodeValue(value string) {
	switch n.nodeType {
	case TextNode, CommentNode:
		n.data = value
	}
}

// OwnerDocument returns the Document that owns this node.
// For Document nodes, this returns nil.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// ParentNode returns the parent of this node.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// ParentElement returns the parent Element, or nil if the parent is not an element.
func (n *Node) ParentElement() *Element {
	if n.parentNode != nil && n.parentNode.nodeType == ElementNode {
		return (*Element)(n.parentNode)
	}
	return nil
}

// ChildNodes returns a snapshot of the child nodes.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		out = append(out, c)
	}
	return out
}

// FirstChild returns the first child node, or nil if there are no children.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child node, or nil if there are no children.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PreviousSibling returns the previous sibling node.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// NextSibling returns the next sibling node.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// IsConnected returns true if the node's root is a document.
func (n *Node) IsConnected() bool {
	root := n.GetRootNode()
	return root != nil && root.nodeType == DocumentNode
}

// AsElement returns the node as an Element, or nil if it is not one.
func (n *Node) AsElement() *Element {
	if n == nil || n.nodeType != ElementNode {
		return nil
	}
	return (*Element)(n)
}

// TextContent returns the text content of the node and its descendants.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode:
		return ""
	case TextNode, CommentNode:
		return n.data
	default:
		var sb strings.Builder
		n.collectTextContent(&sb)
		return sb.String()
	}
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		switch child.nodeType {
		case TextNode:
			sb.WriteString(child.data)
		case ElementNode, DocumentFragmentNode:
			child.collectTextContent(sb)
		}
	}
}

// SetTextContent sets the text content of the node.
// For elements and fragments, this replaces all children with a single text node.
func (n *Node) SetTextContent(value string) {
	switch n.nodeType {
	case DocumentNode:
		return
	case TextNode, CommentNode:
		n.data = value
	default:
		n.removeAllChildren()
		if value != "" {
			n.AppendChild(n.ownerDoc.CreateTextNode(value))
		}
	}
}

func (n *Node) removeAllChildren() {
	for n.firstChild != nil {
		n.removeChildInternal(n.firstChild)
	}
}

// AppendChild adds a node to the end of the list of children of this node.
// For error-returning version, use AppendChildWithError.
func (n *Node) AppendChild(child *Node) *Node {
	result, _ := n.AppendChildWithError(child)
	return result
}

// AppendChildWithError adds a node to the end of the list of children of this node.
// Returns an error if the operation violates DOM hierarchy constraints.
func (n *Node) AppendChildWithError(child *Node) (*Node, error) {
	return n.InsertBeforeWithError(child, nil)
}

// InsertBefore inserts a node before a reference child node.
// If refChild is nil, the node is appended to the end.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	result, _ := n.InsertBeforeWithError(newChild, refChild)
	return result
}

// InsertBeforeWithError inserts a node before a reference child node.
func (n *Node) InsertBeforeWithError(newChild, refChild *Node) (*Node, error) {
	if newChild == nil {
		return nil, ErrHierarchyRequest("The node to be inserted is null.")
	}
	if !n.canHaveChildren() {
		return nil, ErrHierarchyRequest("This node type does not support children.")
	}
	if newChild.nodeType == DocumentNode {
		return nil, ErrHierarchyRequest("A document cannot be inserted.")
	}
	if newChild.Contains(n) {
		return nil, ErrHierarchyRequest("The new child element contains the parent.")
	}
	if refChild != nil && refChild.parentNode != n {
		return nil, ErrNotFound("The node before which the new node is to be inserted is not a child of this node.")
	}
	return n.insertBefore(newChild, refChild), nil
}

func (n *Node) canHaveChildren() bool {
	switch n.nodeType {
	case ElementNode, DocumentNode, DocumentFragmentNode:
		return true
	}
	return false
}

func (n *Node) insertBefore(newChild, refChild *Node) *Node {
	// A fragment inserts its children and ends up empty.
	if newChild.nodeType == DocumentFragmentNode {
		for _, child := range newChild.ChildNodes() {
			n.insertBeforeInternal(child, refChild)
		}
		return newChild
	}
	if newChild == refChild {
		return newChild
	}
	n.insertBeforeInternal(newChild, refChild)
	return newChild
}

func (n *Node) insertBeforeInternal(newChild, refChild *Node) {
	if newChild.parentNode != nil {
		newChild.parentNode.removeChildInternal(newChild)
	}
	newChild.parentNode = n

	if n.nodeType == DocumentNode {
		adoptNode(newChild, (*Document)(n))
	} else if n.ownerDoc != nil && newChild.ownerDoc != n.ownerDoc {
		adoptNode(newChild, n.ownerDoc)
	}

	if refChild == nil {
		newChild.prevSibling = n.lastChild
		newChild.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		n.lastChild = newChild
		return
	}

	newChild.prevSibling = refChild.prevSibling
	newChild.nextSibling = refChild
	if refChild.prevSibling != nil {
		refChild.prevSibling.nextSibling = newChild
	} else {
		n.firstChild = newChild
	}
	refChild.prevSibling = newChild
}

func adoptNode(node *Node, doc *Document) {
	node.ownerDoc = doc
	for c := node.firstChild; c != nil; c = c.nextSibling {
		adoptNode(c, doc)
	}
}

// RemoveChild removes a child node from this node.
func (n *Node) RemoveChild(child *Node) *Node {
	result, _ := n.RemoveChildWithError(child)
	return result
}

// RemoveChildWithError removes a child node, returning NotFoundError when
// child is not a child of n.
func (n *Node) RemoveChildWithError(child *Node) (*Node, error) {
	if child == nil || child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}
	n.removeChildInternal(child)
	return child, nil
}

func (n *Node) removeChildInternal(child *Node) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}
	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

// ReplaceChild replaces oldChild with newChild and returns oldChild.
func (n *Node) ReplaceChild(newChild, oldChild *Node) *Node {
	result, _ := n.ReplaceChildWithError(newChild, oldChild)
	return result
}

// ReplaceChildWithError replaces oldChild with newChild.
func (n *Node) ReplaceChildWithError(newChild, oldChild *Node) (*Node, error) {
	if oldChild == nil || oldChild.parentNode != n {
		return nil, ErrNotFound("The node to be replaced is not a child of this node.")
	}
	if newChild == oldChild {
		return oldChild, nil
	}
	ref := oldChild.nextSibling
	if ref == newChild {
		ref = newChild.nextSibling
	}
	n.removeChildInternal(oldChild)
	if _, err := n.InsertBeforeWithError(newChild, ref); err != nil {
		return nil, err
	}
	return oldChild, nil
}

// Remove detaches the node from its parent.
func (n *Node) Remove() {
	if n.parentNode != nil {
		n.parentNode.removeChildInternal(n)
	}
}

// CloneNode clones the node. Event listeners and IDL state are not copied.
func (n *Node) CloneNode(deep bool) *Node {
	clone := n.shallowClone()
	if deep {
		for child := n.firstChild; child != nil; child = child.nextSibling {
			clone.insertBeforeInternal(child.CloneNode(true), nil)
		}
	}
	return clone
}

func (n *Node) shallowClone() *Node {
	clone := newNode(n.nodeType, n.nodeName, n.ownerDoc)
	clone.data = n.data

	switch n.nodeType {
	case ElementNode:
		if n.elementData != nil {
			clone.elementData = &elementData{
				localName:    n.elementData.localName,
				namespaceURI: n.elementData.namespaceURI,
				tagName:      n.elementData.tagName,
				attributes:   append([]attribute(nil), n.elementData.attributes...),
			}
		}
	case DocumentNode:
		clone.documentData = &documentData{contentType: "text/html", readyState: "complete"}
		clone.ownerDoc = (*Document)(clone)
	}
	return clone
}

// Contains returns true if the given node is an inclusive descendant of this node.
func (n *Node) Contains(other *Node) bool {
	if other == nil {
		return false
	}
	for node := other; node != nil; node = node.parentNode {
		if node == n {
			return true
		}
	}
	return false
}

// GetRootNode returns the root of the tree containing this node.
func (n *Node) GetRootNode() *Node {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root
}

// newTextNode creates a detached text node owned by doc.
func newTextNode(doc *Document, data string) *Node {
	n := newNode(TextNode, "#text", doc)
	n.data = data
	return n
}

func newCommentNode(doc *Document, data string) *Node {
	n := newNode(CommentNode, "#comment", doc)
	n.data = data
	return n
}
