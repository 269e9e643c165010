package dom

// DOMRect is an axis-aligned box in viewport coordinates.
type DOMRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewDOMRect creates a new DOMRect with the given dimensions.
func NewDOMRect(x, y, width, height float64) *DOMRect {
	return &DOMRect{X: x, Y: y, Width: width, Height: height}
}

func (r *DOMRect) Top() float64 {
	if r.Height < 0 {
		return r.Y + r.Height
	}
	return r.Y
}

func (r *DOMRect) Right() float64 {
	if r.Width < 0 {
		return r.X
	}
	return r.X + r.Width
}

func (r *DOMRect) Bottom() float64 {
	if r.Height < 0 {
		return r.Y
	}
	return r.Y + r.Height
}

func (r *DOMRect) Left() float64 {
	if r.Width < 0 {
		return r.X + r.Width
	}
	return r.X
}

// Intersection returns the overlap of r and o, or nil when they do not overlap.
func (r *DOMRect) Intersection(o *DOMRect) *DOMRect {
	left := max(r.Left(), o.Left())
	top := max(r.Top(), o.Top())
	right := min(r.Right(), o.Right())
	bottom := min(r.Bottom(), o.Bottom())
	if right < left || bottom < top {
		return nil
	}
	return NewDOMRect(left, top, right-left, bottom-top)
}

// Area returns the absolute area of the box.
func (r *DOMRect) Area() float64 {
	a := r.Width * r.Height
	if a < 0 {
		return -a
	}
	return a
}
