package dom

import (
	"strconv"
	"strings"
)

// Combinator joins two compound selectors.
type Combinator byte

const (
	CombinatorNone       Combinator = 0
	CombinatorDescendant Combinator = ' '
	CombinatorChild      Combinator = '>'
	CombinatorNext       Combinator = '+'
	CombinatorSubsequent Combinator = '~'
)

// Selector is a parsed selector list.
type Selector struct {
	text    string
	complex []complexSelector
}

type complexSelector struct {
	// compounds[i].combinator joins compounds[i] to compounds[i+1]
	compounds []compoundSelector
}

type compoundSelector struct {
	tag        string
	ids        []string
	classes    []string
	attrs      []attrMatcher
	pseudos    []pseudoClass
	combinator Combinator
}

type attrMatcher struct {
	name  string
	op    string // "", "=", "~=", "|=", "^=", "$=", "*="
	value string
	fold  bool
}

type pseudoClass struct {
	name string
	a, b int
	not  *Selector
}

// String returns the source text of the selector.
func (s *Selector) String() string {
	return s.text
}

// ParseSelector parses a selector list. Malformed input yields a SyntaxError.
func ParseSelector(text string) (*Selector, error) {
	p := &selectorParser{src: text}
	sel, err := p.parseList(false)
	if err != nil {
		return nil, err
	}
	sel.text = text
	return sel, nil
}

// Match reports whether el matches any selector in the list.
func (s *Selector) Match(el *Element) bool {
	for i := range s.complex {
		cs := &s.complex[i]
		if cs.match(el, len(cs.compounds)-1) {
			return true
		}
	}
	return false
}

// MatchSpecificity reports whether el matches and, if so, the highest
// specificity among the matching selectors of the list, packed as
// ids<<16 | classes<<8 | types.
func (s *Selector) MatchSpecificity(el *Element) (int, bool) {
	best, ok := 0, false
	for i := range s.complex {
		cs := &s.complex[i]
		if cs.match(el, len(cs.compounds)-1) {
			ok = true
			best = max(best, cs.specificity())
		}
	}
	return best, ok
}

func (cs *complexSelector) specificity() int {
	var ids, classes, types int
	for _, c := range cs.compounds {
		if c.tag != "" && c.tag != "*" {
			types++
		}
		ids += len(c.ids)
		classes += len(c.classes) + len(c.attrs)
		for _, pc := range c.pseudos {
			if pc.not != nil {
				inner := 0
				for j := range pc.not.complex {
					inner = max(inner, pc.not.complex[j].specificity())
				}
				ids += inner >> 16
				classes += (inner >> 8) & 0xff
				types += inner & 0xff
			} else {
				classes++
			}
		}
	}
	return min(ids, 0xff)<<16 | min(classes, 0xff)<<8 | min(types, 0xff)
}

func (cs *complexSelector) match(el *Element, i int) bool {
	if !cs.compounds[i].match(el) {
		return false
	}
	if i == 0 {
		return true
	}
	switch cs.compounds[i-1].combinator {
	case CombinatorChild:
		parent := el.ParentElement()
		return parent != nil && cs.match(parent, i-1)
	case CombinatorDescendant:
		for a := el.ParentElement(); a != nil; a = a.ParentElement() {
			if cs.match(a, i-1) {
				return true
			}
		}
	case CombinatorNext:
		prev := el.PreviousElementSibling()
		return prev != nil && cs.match(prev, i-1)
	case CombinatorSubsequent:
		for s := el.PreviousElementSibling(); s != nil; s = s.PreviousElementSibling() {
			if cs.match(s, i-1) {
				return true
			}
		}
	}
	return false
}

func (c *compoundSelector) match(el *Element) bool {
	if c.tag != "" && c.tag != "*" {
		if el.IsHTML() {
			if !strings.EqualFold(el.LocalName(), c.tag) {
				return false
			}
		} else if el.LocalName() != c.tag {
			return false
		}
	}
	for _, id := range c.ids {
		if el.Id() != id {
			return false
		}
	}
	for _, class := range c.classes {
		if !el.ClassList().Contains(class) {
			return false
		}
	}
	for _, am := range c.attrs {
		if !am.match(el) {
			return false
		}
	}
	for _, pc := range c.pseudos {
		if !pc.match(el) {
			return false
		}
	}
	return true
}

func (am attrMatcher) match(el *Element) bool {
	if !el.HasAttribute(am.name) {
		return false
	}
	got, want := el.GetAttribute(am.name), am.value
	if am.fold {
		got, want = strings.ToLower(got), strings.ToLower(want)
	}
	switch am.op {
	case "":
		return true
	case "=":
		return got == want
	case "~=":
		for _, f := range strings.Fields(got) {
			if f == want {
				return true
			}
		}
		return false
	case "|=":
		return got == want || strings.HasPrefix(got, want+"-")
	case "^=":
		return want != "" && strings.HasPrefix(got, want)
	case "$=":
		return want != "" && strings.HasSuffix(got, want)
	case "*=":
		return want != "" && strings.Contains(got, want)
	}
	return false
}

func (pc pseudoClass) match(el *Element) bool {
	switch pc.name {
	case "first-child":
		return el.PreviousElementSibling() == nil
	case "last-child":
		return el.NextElementSibling() == nil
	case "only-child":
		return el.PreviousElementSibling() == nil && el.NextElementSibling() == nil
	case "nth-child":
		return nthMatch(pc.a, pc.b, elementIndex(el, false, false))
	case "nth-last-child":
		return nthMatch(pc.a, pc.b, elementIndex(el, true, false))
	case "nth-of-type":
		return nthMatch(pc.a, pc.b, elementIndex(el, false, true))
	case "first-of-type":
		return elementIndex(el, false, true) == 1
	case "last-of-type":
		return elementIndex(el, true, true) == 1
	case "not":
		return !pc.not.Match(el)
	case "empty":
		for c := el.AsNode().firstChild; c != nil; c = c.nextSibling {
			if c.nodeType == ElementNode || (c.nodeType == TextNode && c.data != "") {
				return false
			}
		}
		return true
	case "root":
		p := el.AsNode().parentNode
		return p != nil && p.nodeType == DocumentNode
	case "checked":
		return el.Checked() || (el.LocalName() == "option" && el.Selected())
	case "disabled":
		return el.Disabled()
	case "enabled":
		return isFormControl(el) && !el.Disabled()
	case "required":
		return isFormControl(el) && el.HasAttribute("required")
	case "optional":
		return isFormControl(el) && !el.HasAttribute("required")
	case "hover":
		doc := el.OwnerDocument()
		return doc != nil && doc.isHovered(el)
	case "focus":
		doc := el.OwnerDocument()
		return doc != nil && doc.ActiveElement() == el
	case "link", "any-link":
		return (el.LocalName() == "a" || el.LocalName() == "area") && el.HasAttribute("href")
	}
	return false
}

func nthMatch(a, b, index int) bool {
	if a == 0 {
		return index == b
	}
	n := index - b
	return n%a == 0 && n/a >= 0
}

// elementIndex returns the 1-based position of el among its element siblings.
func elementIndex(el *Element, fromEnd, sameType bool) int {
	index := 1
	step := (*Element).PreviousElementSibling
	if fromEnd {
		step = (*Element).NextElementSibling
	}
	for s := step(el); s != nil; s = step(s) {
		if !sameType || s.LocalName() == el.LocalName() {
			index++
		}
	}
	return index
}

type selectorParser struct {
	src string
	pos int
}

func (p *selectorParser) fail(msg string) error {
	return ErrSyntax("'" + p.src + "' is not a valid selector: " + msg)
}

func (p *selectorParser) eof() bool { return p.pos >= len(p.src) }

func (p *selectorParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *selectorParser) skipSpace() bool {
	start := p.pos
	for !p.eof() && isSelectorSpace(p.src[p.pos]) {
		p.pos++
	}
	return p.pos > start
}

func isSelectorSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *selectorParser) ident() (string, error) {
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		if c == '\\' && p.pos+1 < len(p.src) {
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
			continue
		}
		if !isIdentChar(c) {
			break
		}
		b.WriteByte(c)
		p.pos++
	}
	s := b.String()
	if s == "" || s == "-" || (s[0] >= '0' && s[0] <= '9') {
		return "", p.fail("expected identifier")
	}
	return s, nil
}

// parseList parses a comma separated list. Inside :not() it stops at ')'.
func (p *selectorParser) parseList(nested bool) (*Selector, error) {
	sel := &Selector{}
	for {
		p.skipSpace()
		cs, err := p.parseComplex()
		if err != nil {
			return nil, err
		}
		sel.complex = append(sel.complex, cs)
		p.skipSpace()
		switch {
		case p.peek() == ',':
			p.pos++
		case nested && p.peek() == ')':
			return sel, nil
		case p.eof() && !nested:
			return sel, nil
		default:
			return nil, p.fail("unexpected character")
		}
	}
}

func (p *selectorParser) parseComplex() (complexSelector, error) {
	var cs complexSelector
	for {
		compound, err := p.parseCompound()
		if err != nil {
			return cs, err
		}
		cs.compounds = append(cs.compounds, compound)

		hadSpace := p.skipSpace()
		switch c := p.peek(); c {
		case '>', '+', '~':
			p.pos++
			p.skipSpace()
			cs.compounds[len(cs.compounds)-1].combinator = Combinator(c)
		case ',', ')', 0:
			return cs, nil
		default:
			if !hadSpace {
				return cs, p.fail("unexpected character")
			}
			cs.compounds[len(cs.compounds)-1].combinator = CombinatorDescendant
		}
	}
}

func (p *selectorParser) parseCompound() (compoundSelector, error) {
	var c compoundSelector
	start := p.pos
	if p.peek() == '*' {
		c.tag = "*"
		p.pos++
	} else if isIdentChar(p.peek()) {
		tag, err := p.ident()
		if err != nil {
			return c, err
		}
		c.tag = tag
	}
	for !p.eof() {
		switch p.peek() {
		case '#':
			p.pos++
			id, err := p.ident()
			if err != nil {
				return c, err
			}
			c.ids = append(c.ids, id)
		case '.':
			p.pos++
			class, err := p.ident()
			if err != nil {
				return c, err
			}
			c.classes = append(c.classes, class)
		case '[':
			am, err := p.parseAttr()
			if err != nil {
				return c, err
			}
			c.attrs = append(c.attrs, am)
		case ':':
			pc, err := p.parsePseudo()
			if err != nil {
				return c, err
			}
			c.pseudos = append(c.pseudos, pc)
		default:
			if p.pos == start {
				return c, p.fail("expected selector")
			}
			return c, nil
		}
	}
	if p.pos == start {
		return c, p.fail("expected selector")
	}
	return c, nil
}

func (p *selectorParser) parseAttr() (attrMatcher, error) {
	var am attrMatcher
	p.pos++ // [
	p.skipSpace()
	name, err := p.ident()
	if err != nil {
		return am, err
	}
	am.name = strings.ToLower(name)
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return am, nil
	}
	switch {
	case p.peek() == '=':
		am.op = "="
		p.pos++
	case strings.ContainsRune("~|^$*", rune(p.peek())) && p.pos+1 < len(p.src) && p.src[p.pos+1] == '=':
		am.op = p.src[p.pos : p.pos+2]
		p.pos += 2
	default:
		return am, p.fail("bad attribute operator")
	}
	p.skipSpace()
	if q := p.peek(); q == '"' || q == '\'' {
		end := strings.IndexByte(p.src[p.pos+1:], q)
		if end < 0 {
			return am, p.fail("unterminated string")
		}
		am.value = p.src[p.pos+1 : p.pos+1+end]
		p.pos += end + 2
	} else {
		start := p.pos
		v, err := p.ident()
		if err != nil {
			// unquoted numbers are common in the wild: [data-page=2]
			p.pos = start
			for !p.eof() && isIdentChar(p.src[p.pos]) {
				p.pos++
			}
			if p.pos == start {
				return am, err
			}
			v = p.src[start:p.pos]
		}
		am.value = v
	}
	p.skipSpace()
	if c := p.peek(); c == 'i' || c == 'I' {
		am.fold = true
		p.pos++
		p.skipSpace()
	}
	if p.peek() != ']' {
		return am, p.fail("unterminated attribute selector")
	}
	p.pos++
	return am, nil
}

func (p *selectorParser) parsePseudo() (pseudoClass, error) {
	var pc pseudoClass
	p.pos++ // :
	if p.peek() == ':' {
		return pc, p.fail("pseudo-elements are not supported")
	}
	name, err := p.ident()
	if err != nil {
		return pc, err
	}
	pc.name = strings.ToLower(name)
	switch pc.name {
	case "first-child", "last-child", "only-child", "first-of-type", "last-of-type",
		"empty", "root", "checked", "disabled", "enabled", "required", "optional",
		"hover", "focus", "link", "any-link":
		return pc, nil
	case "nth-child", "nth-last-child", "nth-of-type":
		arg, err := p.parenArg()
		if err != nil {
			return pc, err
		}
		a, b, ok := parseNth(arg)
		if !ok {
			return pc, p.fail("bad nth expression")
		}
		pc.a, pc.b = a, b
		return pc, nil
	case "not":
		if p.peek() != '(' {
			return pc, p.fail("expected (")
		}
		p.pos++
		inner, err := p.parseList(true)
		if err != nil {
			return pc, err
		}
		p.pos++ // )
		pc.not = inner
		return pc, nil
	}
	return pc, p.fail("unknown pseudo-class :" + pc.name)
}

func (p *selectorParser) parenArg() (string, error) {
	if p.peek() != '(' {
		return "", p.fail("expected (")
	}
	end := strings.IndexByte(p.src[p.pos:], ')')
	if end < 0 {
		return "", p.fail("expected )")
	}
	arg := p.src[p.pos+1 : p.pos+end]
	p.pos += end + 1
	return strings.TrimSpace(arg), nil
}

// parseNth parses an+b, odd and even.
func parseNth(s string) (a, b int, ok bool) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	switch s {
	case "odd":
		return 2, 1, true
	case "even":
		return 2, 0, true
	}
	n := strings.IndexByte(s, 'n')
	if n < 0 {
		v, err := strconv.Atoi(s)
		return 0, v, err == nil
	}
	switch coef := s[:n]; coef {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		v, err := strconv.Atoi(coef)
		if err != nil {
			return 0, 0, false
		}
		a = v
	}
	if rest := s[n+1:]; rest != "" {
		v, err := strconv.Atoi(rest)
		if err != nil {
			return 0, 0, false
		}
		b = v
	}
	return a, b, true
}
