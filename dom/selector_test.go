package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectorFixture = `<html><body>
<ul id="list" class="menu main">
  <li class="item first" data-page="1">One <span class="label">a</span></li>
  <li class="item" data-page="2">Two</li>
  <li class="item last" lang="en-US">Three</li>
</ul>
<form id="f">
  <input id="name" name="name" required>
  <input id="agree" type="checkbox" checked>
  <input id="off" disabled>
</form>
<p></p>
</body></html>`

func ids(els []*Element) []string {
	var out []string
	for _, el := range els {
		if id := el.Id(); id != "" {
			out = append(out, id)
		} else {
			out = append(out, el.LocalName())
		}
	}
	return out
}

func TestQuerySelectorAll(t *testing.T) {
	doc := buildTree(t, selectorFixture)

	tests := []struct {
		selector string
		want     int
	}{
		{"li", 3},
		{"ul > li", 3},
		{"#list .item", 3},
		{"ul li span", 1},
		{"li.item.first", 1},
		{"li:first-child", 1},
		{"li:last-child", 1},
		{"li:nth-child(odd)", 2},
		{"li:nth-child(2n)", 1},
		{"li:nth-last-child(1)", 1},
		{"li:not(.first)", 2},
		{"li + li", 2},
		{"li.first ~ li", 2},
		{"[data-page]", 2},
		{"[data-page=2]", 1},
		{`[lang|="en"]`, 1},
		{`[class^="it"]`, 3},
		{`[class$="last"]`, 1},
		{`[class*="te"]`, 3},
		{`[class~="menu"]`, 1},
		{"input:required", 1},
		{"input:checked", 1},
		{"input:disabled", 1},
		{"input:enabled", 2},
		{"p:empty", 1},
		{"html:root", 1},
		{"li, p", 4},
		{"*", 13},
	}
	for _, tc := range tests {
		els, err := doc.QuerySelectorAllWithError(tc.selector)
		require.NoError(t, err, tc.selector)
		assert.Len(t, els, tc.want, tc.selector)
	}
}

func TestSelectorBacktracksDescendants(t *testing.T) {
	doc := buildTree(t, `<div class="a"><div class="b"><div class="a"><i id="x"></i></div></div></div>`)
	x := doc.GetElementById("x")
	assert.True(t, x.Matches(".a .b i"))
	assert.False(t, x.Matches(".b > i"))
}

func TestInvalidSelectors(t *testing.T) {
	doc := buildTree(t, selectorFixture)
	for _, sel := range []string{"", "li[", "li >", "::before", ":nope", "li:nth-child(x)", "#1a", "a,,b"} {
		_, err := doc.QuerySelectorAllWithError(sel)
		require.Error(t, err, sel)
		assert.True(t, IsDOMError(err, "SyntaxError"), sel)
	}
	assert.Nil(t, doc.QuerySelector("li["))
}

func TestClosestAndHover(t *testing.T) {
	doc := buildTree(t, selectorFixture)
	span := doc.QuerySelector("span.label")
	require.NotNil(t, span)

	li := span.Closest("li")
	require.NotNil(t, li)
	assert.True(t, li.ClassList().Contains("first"))
	assert.Equal(t, span, span.Closest("span"))
	assert.Nil(t, span.Closest("table"))

	assert.False(t, li.Matches("li:hover"))
	doc.SetHovered(li, true)
	assert.True(t, li.Matches("li:hover"))
	assert.Equal(t, []string{"li"}, ids(doc.QuerySelectorAll(":hover")))
}

func TestParseNth(t *testing.T) {
	tests := []struct {
		in   string
		a, b int
	}{
		{"odd", 2, 1},
		{"even", 2, 0},
		{"3", 0, 3},
		{"n", 1, 0},
		{"-n+3", -1, 3},
		{"2n + 1", 2, 1},
	}
	for _, tc := range tests {
		a, b, ok := parseNth(tc.in)
		require.True(t, ok, tc.in)
		assert.Equal(t, [2]int{tc.a, tc.b}, [2]int{a, b}, tc.in)
	}
}
