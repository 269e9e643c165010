package dom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPropertyDependsOnElementKind(t *testing.T) {
	doc := NewHTMLDocument()
	img := doc.CreateElement("img")
	div := doc.CreateElement("div")
	audio := doc.CreateElement("audio")
	svg := doc.CreateElementNS(SVGNamespace, "svg")

	assert.True(t, img.HasProperty("src"))
	assert.False(t, div.HasProperty("src"))
	assert.True(t, audio.HasProperty("volume"))
	assert.False(t, div.HasProperty("volume"))
	assert.True(t, div.HasProperty("textContent"))
	assert.False(t, svg.HasProperty("innerText"))
	assert.False(t, div.HasProperty("nonsense"))
}

func TestGetSetProperty(t *testing.T) {
	doc := NewHTMLDocument()
	img := doc.CreateElement("img")

	require.NoError(t, img.SetProperty("src", "/a.png"))
	v, ok := img.GetProperty("src")
	require.True(t, ok)
	assert.Equal(t, "/a.png", v)
	assert.Equal(t, "/a.png", img.GetAttribute("src"))

	require.NoError(t, img.SetProperty("hidden", true))
	assert.True(t, img.HasAttribute("hidden"))
	require.NoError(t, img.SetProperty("hidden", false))
	assert.False(t, img.HasAttribute("hidden"))

	require.NoError(t, img.SetProperty("tagName", "B"), "read-only assignments are ignored")
	assert.Equal(t, "IMG", img.TagName())
	assert.True(t, img.IsReadOnlyProperty("tagName"))

	v, _ = img.GetProperty("draggable")
	assert.Equal(t, true, v)
	v, _ = img.GetProperty("tabIndex")
	assert.Equal(t, -1, v)

	audio := doc.CreateElement("audio")
	require.NoError(t, audio.SetProperty("volume", "0.5"))
	v, _ = audio.GetProperty("volume")
	assert.Equal(t, 0.5, v)
	v, _ = audio.GetProperty("duration")
	assert.True(t, math.IsNaN(v.(float64)))
}

func TestCoercion(t *testing.T) {
	assert.Equal(t, "3", ToString(3.0))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "", ToString(nil))
	assert.True(t, ToBool("x"))
	assert.False(t, ToBool(0.0))
	assert.Equal(t, 12.0, ToFloat(" 12 "))
	assert.True(t, math.IsNaN(ToFloat("abc")))
}
