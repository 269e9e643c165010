package css

import (
	"strings"

	"github.com/chrisuehlinger/domman/dom"
)

// Rule is one style rule.
type Rule struct {
	Selector     *dom.Selector
	Declarations []dom.Declaration
}

// Stylesheet is a flat list of style rules in source order. At-rules are
// skipped, as are rules whose selector does not parse.
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses CSS text.
func ParseStylesheet(text string) *Stylesheet {
	text = stripComments(text)
	ss := &Stylesheet{}
	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			return ss
		}
		prelude := strings.TrimSpace(text[:open])
		end := matchingBrace(text, open)
		if end < 0 {
			end = len(text)
		}
		body := text[open+1 : end]
		if end < len(text) {
			text = text[end+1:]
		} else {
			text = ""
		}
		if strings.HasPrefix(prelude, "@") {
			continue
		}
		sel, err := dom.ParseSelector(prelude)
		if err != nil {
			continue
		}
		ss.Rules = append(ss.Rules, Rule{Selector: sel, Declarations: dom.ParseDeclarations(body)})
	}
}

func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func stripComments(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])
		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			return b.String()
		}
		s = s[start+2+end+2:]
	}
}

// documentSheets parses every <style> element of doc in tree order.
func documentSheets(doc *dom.Document) []*Stylesheet {
	var out []*Stylesheet
	for _, el := range doc.QuerySelectorAll("style") {
		out = append(out, ParseStylesheet(el.TextContent()))
	}
	return out
}
