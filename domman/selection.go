package domman

import (
	"strings"

	"github.com/chrisuehlinger/domman/animation"
	"github.com/chrisuehlinger/domman/dom"
	"github.com/chrisuehlinger/domman/observe"
)

// Selection is an ordered view over zero or more elements. It does not own
// them; duplicates are kept unless an operation says otherwise.
//
// Observers and animations started through a selection are remembered by
// that selection so Unobserve and the animation controls can reach them.
type Selection struct {
	dm    *DomMan
	elems []*dom.Element

	intersections []*observe.IntersectionObserver
	resizes       []*observe.ResizeObserver
	animations    []*animation.Animation
}

// DomMan returns the factory that created s.
func (s *Selection) DomMan() *DomMan { return s.dm }

// Len returns the number of selected elements.
func (s *Selection) Len() int { return len(s.elems) }

// First returns the first element, or nil.
func (s *Selection) First() *dom.Element {
	if len(s.elems) == 0 {
		return nil
	}
	return s.elems[0]
}

// Get returns the element at i, or nil when out of range.
func (s *Selection) Get(i int) *dom.Element {
	if i < 0 || i >= len(s.elems) {
		return nil
	}
	return s.elems[i]
}

// ToArray returns a copy of the selected elements.
func (s *Selection) ToArray() []*dom.Element {
	return append([]*dom.Element(nil), s.elems...)
}

// Each calls fn with the index and element of every selected element.
func (s *Selection) Each(fn func(i int, el *dom.Element)) *Selection {
	if fn == nil {
		return s
	}
	for i, el := range s.ToArray() {
		fn(i, el)
	}
	return s
}

// Tap calls fn with the selection and its elements, then returns s.
func (s *Selection) Tap(fn func(s *Selection, els []*dom.Element)) *Selection {
	if fn != nil {
		fn(s, s.ToArray())
	}
	return s
}

// Find selects the descendants of the first element matching selector.
// With no element or selector it returns s. An invalid selector is logged
// and gives an empty selection.
func (s *Selection) Find(selector string) *Selection {
	first := s.First()
	if first == nil || selector == "" {
		return s
	}
	els, err := first.QuerySelectorAllWithError(selector)
	if err != nil {
		s.dm.debugError("find", err, "invalid selector")
		return s.dm.Wrap()
	}
	return s.dm.Wrap(els...)
}

// FindOne selects the first descendant of the first element matching
// selector.
func (s *Selection) FindOne(selector string) *Selection {
	first := s.First()
	if first == nil || selector == "" {
		return s.dm.Wrap()
	}
	el, err := first.QuerySelectorWithError(selector)
	if err != nil {
		s.dm.debugError("findOne", err, "invalid selector")
	}
	return s.dm.Wrap(el)
}

func dedupe(els []*dom.Element, exclude map[*dom.Element]bool) []*dom.Element {
	seen := make(map[*dom.Element]bool, len(els))
	out := make([]*dom.Element, 0, len(els))
	for _, el := range els {
		if el == nil || seen[el] || exclude[el] {
			continue
		}
		seen[el] = true
		out = append(out, el)
	}
	return out
}

// Parent selects the distinct parent elements.
func (s *Selection) Parent() *Selection {
	if len(s.elems) == 0 {
		return s
	}
	var parents []*dom.Element
	for _, el := range s.elems {
		parents = append(parents, el.ParentElement())
	}
	return s.dm.Wrap(dedupe(parents, nil)...)
}

// Children selects the child elements of every element, in order and
// without removing duplicates.
func (s *Selection) Children() *Selection {
	if len(s.elems) == 0 {
		return s
	}
	var kids []*dom.Element
	for _, el := range s.elems {
		kids = append(kids, el.Children()...)
	}
	return s.dm.Wrap(kids...)
}

// Siblings selects the distinct siblings of the selected elements,
// excluding the selected elements themselves.
func (s *Selection) Siblings() *Selection {
	selected := make(map[*dom.Element]bool, len(s.elems))
	for _, el := range s.elems {
		selected[el] = true
	}
	var sibs []*dom.Element
	for _, el := range s.elems {
		if p := el.ParentElement(); p != nil {
			sibs = append(sibs, p.Children()...)
		}
	}
	return s.dm.Wrap(dedupe(sibs, selected)...)
}

// Next selects the distinct next element siblings.
func (s *Selection) Next() *Selection {
	var out []*dom.Element
	for _, el := range s.elems {
		out = append(out, el.NextElementSibling())
	}
	return s.dm.Wrap(dedupe(out, nil)...)
}

// Prev selects the distinct previous element siblings.
func (s *Selection) Prev() *Selection {
	var out []*dom.Element
	for _, el := range s.elems {
		out = append(out, el.PreviousElementSibling())
	}
	return s.dm.Wrap(dedupe(out, nil)...)
}

// IsEmpty reports whether the first element has no markup other than
// whitespace. An empty selection is empty.
func (s *Selection) IsEmpty() bool {
	first := s.First()
	if first == nil {
		return true
	}
	return strings.TrimSpace(first.InnerHTML()) == ""
}

// OnReady runs fn once the document is ready; see DomMan.Ready.
func (s *Selection) OnReady(fn func()) *Selection {
	s.dm.Ready(fn)
	return s
}
