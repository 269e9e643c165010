// Package dom is the in-process document model domman operates on: nodes
// and elements, events with capture and bubble phases, selectors, inline
// style and the element properties scripts can read and write.
package dom

// NodeType is the kind of a Node. The values are the DOM nodeType
// constants; only the kinds this package creates are defined.
type NodeType uint16

const (
	ElementNode          NodeType = 1
	TextNode             NodeType = 3
	CommentNode          NodeType = 8
	DocumentNode         NodeType = 9
	DocumentFragmentNode NodeType = 11
)

var nodeTypeNames = map[NodeType]string{
	ElementNode:          "element",
	TextNode:             "text",
	CommentNode:          "comment",
	DocumentNode:         "document",
	DocumentFragmentNode: "fragment",
}

func (nt NodeType) String() string {
	if name, ok := nodeTypeNames[nt]; ok {
		return name
	}
	return "unknown"
}
