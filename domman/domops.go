package domman

import (
	"github.com/chrisuehlinger/domman/dom"
)

// Element methods applied across a selection. Side-effecting methods run
// on every element and return the selection; queries read the first
// element.

// Focus focuses every element; the last focusable one ends up focused.
func (s *Selection) Focus() *Selection {
	for _, el := range s.elems {
		el.Focus()
	}
	return s
}

// Blur removes focus from every element.
func (s *Selection) Blur() *Selection {
	for _, el := range s.elems {
		el.Blur()
	}
	return s
}

// Click clicks every element, running activation behavior.
func (s *Selection) Click() *Selection {
	for _, el := range s.elems {
		el.Click()
	}
	return s
}

// ScrollIntoView scrolls each element into view.
func (s *Selection) ScrollIntoView() *Selection {
	for _, el := range s.elems {
		el.ScrollIntoView()
	}
	return s
}

// ScrollTo sets the scroll offsets of every element.
func (s *Selection) ScrollTo(x, y float64) *Selection {
	for _, el := range s.elems {
		el.ScrollTo(x, y)
	}
	return s
}

// ScrollBy moves the scroll offsets of every element.
func (s *Selection) ScrollBy(dx, dy float64) *Selection {
	for _, el := range s.elems {
		el.ScrollBy(dx, dy)
	}
	return s
}

// Submit requests submission of every selected form, firing submit and
// validating first.
func (s *Selection) Submit() *Selection {
	for _, el := range s.elems {
		if el.LocalName() == "form" {
			el.RequestSubmit()
		}
	}
	return s
}

// Reset resets every selected form.
func (s *Selection) Reset() *Selection {
	for _, el := range s.elems {
		if el.LocalName() == "form" {
			el.Reset()
		}
	}
	return s
}

// CheckValidity validates the first element if it is a form; otherwise
// it reports false.
func (s *Selection) CheckValidity() bool {
	first := s.First()
	return first != nil && first.LocalName() == "form" && first.CheckValidity()
}

// ReportValidity is CheckValidity.
func (s *Selection) ReportValidity() bool {
	first := s.First()
	return first != nil && first.LocalName() == "form" && first.ReportValidity()
}

// Play starts every media element.
func (s *Selection) Play() *Selection {
	for _, el := range s.elems {
		el.Play()
	}
	return s
}

// Pause pauses every media element.
func (s *Selection) Pause() *Selection {
	for _, el := range s.elems {
		el.Pause()
	}
	return s
}

// Load reloads every media element.
func (s *Selection) Load() *Selection {
	for _, el := range s.elems {
		el.Load()
	}
	return s
}

func (s *Selection) canvas() *dom.Element {
	if first := s.First(); first != nil && first.IsHTML() && first.LocalName() == "canvas" {
		return first
	}
	return nil
}

// GetContext returns the rendering context of the first element if it is
// a canvas.
func (s *Selection) GetContext(id string) any {
	if c := s.canvas(); c != nil {
		return c.GetContext(id)
	}
	return nil
}

// ToDataURL returns the image of the first element if it is a canvas.
func (s *Selection) ToDataURL() (string, bool) {
	if c := s.canvas(); c != nil {
		return c.ToDataURL(), true
	}
	return "", false
}

// GetBoundingClientRect returns the rectangle of the first element, or
// nil.
func (s *Selection) GetBoundingClientRect() *dom.DOMRect {
	if first := s.First(); first != nil {
		return first.GetBoundingClientRect()
	}
	return nil
}
