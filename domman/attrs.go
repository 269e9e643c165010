package domman

import (
	"github.com/chrisuehlinger/domman/dom"
)

// Attr returns an attribute of the first element. ok is false when the
// selection is empty or the attribute is absent.
func (s *Selection) Attr(name string) (value string, ok bool) {
	first := s.First()
	if first == nil || !first.HasAttribute(name) {
		return "", false
	}
	return first.GetAttribute(name), true
}

// SetAttr sets an attribute on every element. Invalid names are logged
// and skipped.
func (s *Selection) SetAttr(name, value string) *Selection {
	for _, el := range s.elems {
		if err := el.SetAttributeWithError(name, value); err != nil {
			s.dm.debugError("setAttribute", err, "cannot set attribute")
			return s
		}
	}
	return s
}

// RemoveAttr removes an attribute from every element.
func (s *Selection) RemoveAttr(name string) *Selection {
	for _, el := range s.elems {
		el.RemoveAttribute(name)
	}
	return s
}

// HasAttr reports whether the first element carries the attribute.
func (s *Selection) HasAttr(name string) bool {
	first := s.First()
	return first != nil && first.HasAttribute(name)
}

// Prop reads an element property of the first element, such as value,
// checked or volume.
func (s *Selection) Prop(name string) (any, bool) {
	first := s.First()
	if first == nil {
		return nil, false
	}
	return first.GetProperty(name)
}

// SetProp writes an element property on every element that has it.
func (s *Selection) SetProp(name string, value any) *Selection {
	for _, el := range s.elems {
		if err := el.SetProperty(name, value); err != nil {
			s.dm.debugError("prop", err, "cannot set "+name)
		}
	}
	return s
}

// AddClass adds class names to every element.
func (s *Selection) AddClass(names ...string) *Selection {
	for _, el := range s.elems {
		if err := el.ClassList().Add(names...); err != nil {
			s.dm.debugError("addClass", err, "invalid class name")
			return s
		}
	}
	return s
}

// RemoveClass removes class names from every element.
func (s *Selection) RemoveClass(names ...string) *Selection {
	for _, el := range s.elems {
		if err := el.ClassList().Remove(names...); err != nil {
			s.dm.debugError("removeClass", err, "invalid class name")
			return s
		}
	}
	return s
}

// ToggleClass flips a class on every element. With force, the class is
// added when force[0] is true and removed otherwise.
func (s *Selection) ToggleClass(name string, force ...bool) *Selection {
	for _, el := range s.elems {
		if _, err := el.ClassList().Toggle(name, force...); err != nil {
			s.dm.debugError("toggleClass", err, "invalid class name")
			return s
		}
	}
	return s
}

// ReplaceClass swaps oldName for newName on every element that has it.
func (s *Selection) ReplaceClass(oldName, newName string) *Selection {
	for _, el := range s.elems {
		if _, err := el.ClassList().Replace(oldName, newName); err != nil {
			s.dm.debugError("replaceClass", err, "invalid class name")
			return s
		}
	}
	return s
}

// HasClass reports whether the first element has the class.
func (s *Selection) HasClass(name string) bool {
	first := s.First()
	return first != nil && first.ClassList().Contains(name)
}

// Matches reports whether the first element matches selector.
func (s *Selection) Matches(selector string) bool {
	first := s.First()
	if first == nil {
		return false
	}
	ok, err := first.MatchesWithError(selector)
	if err != nil {
		s.dm.debugError("matches", err, "invalid selector")
	}
	return ok
}

// Closest returns the nearest inclusive ancestor of the first element
// matching selector, or nil.
func (s *Selection) Closest(selector string) *dom.Element {
	first := s.First()
	if first == nil {
		return nil
	}
	el, err := first.ClosestWithError(selector)
	if err != nil {
		s.dm.debugError("closest", err, "invalid selector")
	}
	return el
}
