package css

import (
	"strings"

	"github.com/chrisuehlinger/domman/dom"
)

// PropertyDefault is the initial value of a property and whether it inherits.
type PropertyDefault struct {
	InitialValue string
	Inherited    bool
}

// PropertyDefaults lists the longhands ComputedStyle resolves, with initial
// values written the way getComputedStyle reports them.
var PropertyDefaults = map[string]PropertyDefault{
	"display":    {InitialValue: "inline"},
	"position":   {InitialValue: "static"},
	"float":      {InitialValue: "none"},
	"clear":      {InitialValue: "none"},
	"overflow":   {InitialValue: "visible"},
	"overflow-x": {InitialValue: "visible"},
	"overflow-y": {InitialValue: "visible"},
	"visibility": {InitialValue: "visible", Inherited: true},
	"z-index":    {InitialValue: "auto"},
	"box-sizing": {InitialValue: "content-box"},

	"width":      {InitialValue: "auto"},
	"height":     {InitialValue: "auto"},
	"min-width":  {InitialValue: "0px"},
	"min-height": {InitialValue: "0px"},
	"max-width":  {InitialValue: "none"},
	"max-height": {InitialValue: "none"},

	"margin-top":     {InitialValue: "0px"},
	"margin-right":   {InitialValue: "0px"},
	"margin-bottom":  {InitialValue: "0px"},
	"margin-left":    {InitialValue: "0px"},
	"padding-top":    {InitialValue: "0px"},
	"padding-right":  {InitialValue: "0px"},
	"padding-bottom": {InitialValue: "0px"},
	"padding-left":   {InitialValue: "0px"},

	"border-top-width":    {InitialValue: "0px"},
	"border-right-width":  {InitialValue: "0px"},
	"border-bottom-width": {InitialValue: "0px"},
	"border-left-width":   {InitialValue: "0px"},
	"border-style":        {InitialValue: "none"},
	"border-color":        {InitialValue: "currentcolor"},
	"border-radius":       {InitialValue: "0px"},

	"top":    {InitialValue: "auto"},
	"right":  {InitialValue: "auto"},
	"bottom": {InitialValue: "auto"},
	"left":   {InitialValue: "auto"},

	"color":           {InitialValue: "rgb(0, 0, 0)", Inherited: true},
	"font-family":     {InitialValue: "serif", Inherited: true},
	"font-size":       {InitialValue: "16px", Inherited: true},
	"font-style":      {InitialValue: "normal", Inherited: true},
	"font-weight":     {InitialValue: "400", Inherited: true},
	"line-height":     {InitialValue: "normal", Inherited: true},
	"letter-spacing":  {InitialValue: "normal", Inherited: true},
	"text-align":      {InitialValue: "start", Inherited: true},
	"text-decoration": {InitialValue: "none"},
	"text-transform":  {InitialValue: "none", Inherited: true},
	"white-space":     {InitialValue: "normal", Inherited: true},
	"vertical-align":  {InitialValue: "baseline"},
	"direction":       {InitialValue: "ltr", Inherited: true},
	"cursor":          {InitialValue: "auto", Inherited: true},

	"background-color": {InitialValue: "rgba(0, 0, 0, 0)"},
	"background-image": {InitialValue: "none"},
	"list-style-type":  {InitialValue: "disc", Inherited: true},

	"opacity":             {InitialValue: "1"},
	"transform":           {InitialValue: "none"},
	"transition-property": {InitialValue: "all"},
	"transition-duration": {InitialValue: "0s"},
	"animation-name":      {InitialValue: "none"},
	"pointer-events":      {InitialValue: "auto", Inherited: true},
	"flex-direction":      {InitialValue: "row"},
	"justify-content":     {InitialValue: "normal"},
	"align-items":         {InitialValue: "normal"},
	"gap":                 {InitialValue: "normal"},
	"outline":             {InitialValue: "none"},
	"content":             {InitialValue: "normal"},
}

// otherProperties are names a CSSStyleDeclaration accepts that
// ComputedStyle leaves unresolved. src and volume are kept for parity with
// engines that still expose the @font-face and aural descriptors.
var otherProperties = []string{
	"all", "animation", "animation-delay", "animation-direction", "animation-duration",
	"animation-fill-mode", "animation-iteration-count", "animation-play-state",
	"animation-timing-function", "appearance", "aspect-ratio", "backdrop-filter",
	"backface-visibility", "background", "background-attachment", "background-clip",
	"background-origin", "background-position", "background-repeat", "background-size",
	"border", "border-bottom", "border-bottom-color", "border-bottom-left-radius",
	"border-bottom-right-radius", "border-bottom-style", "border-collapse", "border-left",
	"border-left-color", "border-left-style", "border-right", "border-right-color",
	"border-right-style", "border-spacing", "border-top", "border-top-color",
	"border-top-left-radius", "border-top-right-radius", "border-top-style", "border-width",
	"box-shadow", "caption-side", "caret-color", "clip", "clip-path", "column-count",
	"column-gap", "columns", "contain", "counter-increment", "counter-reset", "empty-cells",
	"fill", "filter", "flex", "flex-basis", "flex-flow", "flex-grow", "flex-shrink",
	"flex-wrap", "font", "font-variant", "grid", "grid-area", "grid-column",
	"grid-template-areas", "grid-template-columns", "grid-template-rows", "grid-row",
	"inset", "isolation", "justify-items", "justify-self", "align-content", "align-self",
	"list-style", "list-style-image", "list-style-position", "margin", "mask",
	"mix-blend-mode", "object-fit", "object-position", "order", "outline-color",
	"outline-offset", "outline-style", "outline-width", "overflow-wrap", "padding",
	"perspective", "place-items", "quotes", "resize", "row-gap", "scroll-behavior",
	"src", "stroke", "stroke-width", "table-layout", "text-indent", "text-overflow",
	"text-shadow", "touch-action", "transform-origin", "transition",
	"transition-delay", "transition-timing-function", "translate", "rotate", "scale",
	"unicode-bidi", "user-select", "volume", "will-change", "word-break", "word-spacing",
	"word-wrap", "writing-mode", "zoom",
}

var knownProperties = func() map[string]bool {
	m := make(map[string]bool, len(PropertyDefaults)+len(otherProperties))
	for name := range PropertyDefaults {
		m[name] = true
	}
	for _, name := range otherProperties {
		m[name] = true
	}
	return m
}()

// IsStyleProperty reports whether name (camelCase or kebab-case) is a
// property of an element's style declaration.
func IsStyleProperty(name string) bool {
	if name == "" || strings.HasPrefix(name, "--") {
		return false
	}
	if name == "cssFloat" {
		return true
	}
	if strings.Contains(name, "-") && strings.ToLower(name) != name {
		return false
	}
	return knownProperties[dom.NormalizePropertyName(name)]
}

// CamelToKebab converts backgroundColor to background-color.
func CamelToKebab(name string) string {
	if name == "cssFloat" {
		return "float"
	}
	return dom.NormalizePropertyName(name)
}

// KebabToCamel converts background-color to backgroundColor.
func KebabToCamel(name string) string {
	return dom.CamelCasePropertyName(name)
}

func isColorProperty(name string) bool {
	return name == "color" || strings.HasSuffix(name, "-color") || name == "fill" || name == "stroke"
}
