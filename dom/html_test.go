package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndSerialize(t *testing.T) {
	doc := buildTree(t, `<!DOCTYPE html><html><head><title>T</title></head><body><p class="x">a &amp; b<br></p><script>if (a < b) {}</script></body></html>`)

	require.NotNil(t, doc.Body())
	require.NotNil(t, doc.Head())
	assert.Equal(t, `<p class="x">a &amp; b<br></p><script>if (a < b) {}</script>`, doc.Body().InnerHTML())
	assert.Equal(t, "<!DOCTYPE html><html><head><title>T</title></head><body>"+doc.Body().InnerHTML()+"</body></html>", Serialize(doc.AsNode()))
}

func TestSetInnerAndOuterHTML(t *testing.T) {
	doc := buildTree(t, `<div id="box"><b>old</b></div>`)
	box := doc.GetElementById("box")

	require.NoError(t, box.SetInnerHTML(`<i>new</i> text`))
	assert.Equal(t, `<i>new</i> text`, box.InnerHTML())
	assert.Equal(t, "new text", box.TextContent())

	i := box.QuerySelector("i")
	require.NoError(t, i.SetOuterHTML(`<em>1</em><em>2</em>`))
	assert.Equal(t, `<em>1</em><em>2</em> text`, box.InnerHTML())
	assert.Nil(t, i.ParentElement())
}

func TestParseSVGFragment(t *testing.T) {
	doc := NewHTMLDocument()
	nodes, err := doc.ParseFragment(`<svg viewBox="0 0 10 10"><circle r="4"></circle></svg>`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	svg := nodes[0].AsElement()
	require.NotNil(t, svg)
	assert.Equal(t, SVGNamespace, svg.NamespaceURI())
	assert.Equal(t, "0 0 10 10", svg.GetAttribute("viewBox"))
	assert.Equal(t, SVGNamespace, svg.FirstElementChild().NamespaceURI())
}

func TestCloneDropsListeners(t *testing.T) {
	doc := buildTree(t, `<div id="a" class="c"><span>x</span></div>`)
	a := doc.GetElementById("a")
	a.AsNode().AddEventListener("click", NewListener(func(*Event) {}), ListenerOptions{})

	clone := a.CloneNode(true)
	assert.Equal(t, a.OuterHTML(), clone.OuterHTML())
	assert.Zero(t, clone.AsNode().ListenerCount("click"))
	assert.Nil(t, clone.ParentElement())

	shallow := a.CloneNode(false)
	assert.Equal(t, `<div id="a" class="c"></div>`, shallow.OuterHTML())
}

func TestChildNodeHelpers(t *testing.T) {
	doc := buildTree(t, `<ul><li id="b">b</li></ul>`)
	b := doc.GetElementById("b")
	mk := func(id string) *Node {
		li := doc.CreateElement("li")
		li.SetId(id)
		return li.AsNode()
	}

	b.Before(mk("a"))
	b.After(mk("c"))
	b.ParentElement().Prepend(mk("first"))
	b.ParentElement().Append(mk("last"))
	assert.Equal(t, []string{"first", "a", "b", "c", "last"}, ids(b.ParentElement().Children()))

	b.ReplaceWith(mk("x"), mk("y"))
	assert.Equal(t, []string{"first", "a", "x", "y", "c", "last"}, ids(doc.QuerySelectorAll("li")))

	frag := doc.CreateDocumentFragment()
	frag.AppendChild(mk("f1"))
	frag.AppendChild(mk("f2"))
	doc.QuerySelector("ul").Append(frag)
	assert.False(t, frag.HasChildNodes())
	assert.Equal(t, 8, doc.QuerySelector("ul").ChildElementCount())
}

func TestHierarchyErrors(t *testing.T) {
	doc := buildTree(t, `<div id="p"><div id="c"></div></div>`)
	p := doc.GetElementById("p").AsNode()
	c := doc.GetElementById("c").AsNode()

	_, err := c.AppendChildWithError(p)
	assert.True(t, IsDOMError(err, "HierarchyRequestError"))

	_, err = p.RemoveChildWithError(doc.CreateElement("i").AsNode())
	assert.True(t, IsDOMError(err, "NotFoundError"))
}
