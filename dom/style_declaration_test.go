package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSSStyleDeclarationSetProperty(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	sd := el.Style()

	require.Equal(t, 0, sd.Length())
	sd.SetProperty("color", "red")

	assert.Equal(t, 1, sd.Length())
	assert.Equal(t, "red", sd.GetPropertyValue("color"))
	assert.Equal(t, "color", sd.Item(0))
	assert.Equal(t, "color: red", sd.CSSText())
	assert.Equal(t, "color: red", el.GetAttribute("style"))
}

func TestCSSStyleDeclarationCamelCase(t *testing.T) {
	doc := NewDocument()
	sd := doc.CreateElement("div").Style()

	sd.SetProperty("backgroundColor", "#fff")

	assert.Equal(t, "#fff", sd.GetPropertyValue("background-color"))
	assert.Equal(t, "#fff", sd.GetPropertyValue("backgroundColor"))
	assert.Equal(t, "background-color: #fff", sd.CSSText())
}

func TestCSSStyleDeclarationRemoveProperty(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	sd := el.Style()

	sd.SetProperty("color", "blue")
	sd.SetProperty("width", "100px")
	require.Equal(t, 2, sd.Length())

	assert.Equal(t, "blue", sd.RemoveProperty("color"))
	assert.Equal(t, 1, sd.Length())
	assert.Equal(t, "", sd.GetPropertyValue("color"))
	assert.Equal(t, "100px", sd.GetPropertyValue("width"))

	sd.SetProperty("width", "")
	assert.False(t, el.HasAttribute("style"), "empty block drops the attribute")
}

func TestCSSStyleDeclarationImportant(t *testing.T) {
	doc := NewDocument()
	sd := doc.CreateElement("div").Style()

	sd.SetCSSText("color: green; background: yellow ! important; font-size: 14px")

	assert.Equal(t, 3, sd.Length())
	assert.Equal(t, "yellow", sd.GetPropertyValue("background"))
	assert.Equal(t, "important", sd.GetPropertyPriority("background"))
	assert.Equal(t, "color: green; background: yellow !important; font-size: 14px", sd.CSSText())
}

func TestCSSStyleDeclarationTracksAttribute(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	el.SetAttribute("style", "margin: 10px; padding: 5px")

	sd := el.Style()
	assert.Equal(t, []string{"margin", "padding"}, sd.PropertyNames())

	el.SetAttribute("style", "--accent: red")
	assert.Equal(t, "red", sd.GetPropertyValue("--accent"))
	assert.Equal(t, "", sd.GetPropertyValue("margin"))
}

func TestPropertyNameConversion(t *testing.T) {
	tests := []struct {
		camel, kebab string
	}{
		{"color", "color"},
		{"backgroundColor", "background-color"},
		{"marginTop", "margin-top"},
		{"fontSize", "font-size"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.kebab, NormalizePropertyName(tc.camel))
		assert.Equal(t, tc.camel, CamelCasePropertyName(tc.kebab))
	}
	assert.Equal(t, "--Brand", NormalizePropertyName("--Brand"))
	assert.Equal(t, "background-color", NormalizePropertyName("Background-Color"))
}
