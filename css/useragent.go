package css

import "sync"

// userAgentCSS holds the default HTML rendering rules ComputedStyle starts from.
const userAgentCSS = `
html, body, div, article, aside, footer, header, nav, section, main, figure,
figcaption, blockquote, pre, address, p, h1, h2, h3, h4, h5, h6, ul, ol, dl, dt, dd,
form, fieldset, legend, details, summary, hr, hgroup, dialog { display: block; }

head, meta, link, style, script, title, noscript, template, rp { display: none; }
[hidden] { display: none; }
dialog:not([open]) { display: none; }

body { margin: 8px; }
h1, h2, h3, h4, h5, h6, th, strong, b { font-weight: bold; }
h1 { font-size: 2em; margin-top: 0.67em; margin-bottom: 0.67em; }
h2 { font-size: 1.5em; margin-top: 0.83em; margin-bottom: 0.83em; }
h3 { font-size: 1.17em; margin-top: 1em; margin-bottom: 1em; }
p, pre, ul, ol, dl { margin-top: 1em; margin-bottom: 1em; }
ul, ol { padding-left: 40px; }
ol { list-style-type: decimal; }
li { display: list-item; }
dd { margin-left: 40px; }
blockquote, figure { margin-top: 1em; margin-bottom: 1em; margin-left: 40px; margin-right: 40px; }
pre, code, kbd, samp, tt { font-family: monospace; }
pre { white-space: pre; }
em, i, cite, var, dfn, address { font-style: italic; }
a:link { color: blue; text-decoration: underline; cursor: pointer; }
u, ins { text-decoration: underline; }
s, strike, del { text-decoration: line-through; }
mark { background-color: yellow; color: black; }

table { display: table; border-collapse: separate; }
caption { display: table-caption; text-align: center; }
thead { display: table-header-group; }
tbody { display: table-row-group; }
tfoot { display: table-footer-group; }
tr { display: table-row; }
td, th { display: table-cell; padding: 1px; }
th { text-align: center; }

input, button, select, textarea, meter, progress { display: inline-block; }
button { text-align: center; }
`

var (
	uaOnce  sync.Once
	uaSheet *Stylesheet
)

func userAgentSheet() *Stylesheet {
	uaOnce.Do(func() {
		uaSheet = ParseStylesheet(userAgentCSS)
	})
	return uaSheet
}
