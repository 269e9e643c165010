package dom

import (
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// isFormControl reports whether el is a listed, submittable form control.
func isFormControl(el *Element) bool {
	if !el.IsHTML() {
		return false
	}
	switch el.LocalName() {
	case "input", "select", "textarea", "button", "fieldset", "output", "object":
		return true
	}
	return false
}

// Value returns the current value of a form control. Other elements report
// their value attribute.
func (e *Element) Value() string {
	switch e.LocalName() {
	case "input":
		if v, ok := e.state("value"); ok {
			return v.(string)
		}
		if !e.HasAttribute("value") && (e.inputType() == "checkbox" || e.inputType() == "radio") {
			return "on"
		}
		return e.GetAttribute("value")
	case "textarea":
		if v, ok := e.state("value"); ok {
			return v.(string)
		}
		return e.TextContent()
	case "select":
		for _, opt := range e.Options() {
			if opt.Selected() {
				return opt.Value()
			}
		}
		return ""
	case "option":
		if e.HasAttribute("value") {
			return e.GetAttribute("value")
		}
		return strings.Join(strings.Fields(e.TextContent()), " ")
	}
	return e.GetAttribute("value")
}

// SetValue sets the value of a form control. For select elements the first
// option with a matching value becomes selected.
func (e *Element) SetValue(v string) {
	switch e.LocalName() {
	case "input", "textarea":
		e.setState("value", v)
	case "select":
		for _, opt := range e.Options() {
			opt.setState("selected", opt.Value() == v)
		}
	default:
		e.SetAttribute("value", v)
	}
}

// DefaultValue returns the value attribute (text content for textarea).
func (e *Element) DefaultValue() string {
	if e.LocalName() == "textarea" {
		return e.TextContent()
	}
	return e.GetAttribute("value")
}

func (e *Element) inputType() string {
	t := strings.ToLower(e.GetAttribute("type"))
	if t == "" {
		return "text"
	}
	return t
}

// Type returns the control type ("text", "checkbox", "submit", ...).
func (e *Element) Type() string {
	switch e.LocalName() {
	case "input":
		return e.inputType()
	case "button":
		if t := strings.ToLower(e.GetAttribute("type")); t == "reset" || t == "button" {
			return t
		}
		return "submit"
	case "select":
		if e.HasAttribute("multiple") {
			return "select-multiple"
		}
		return "select-one"
	case "textarea":
		return "textarea"
	}
	return e.GetAttribute("type")
}

// Checked reports the checkedness of a checkbox or radio input.
func (e *Element) Checked() bool {
	if e.LocalName() != "input" {
		return false
	}
	if v, ok := e.state("checked"); ok {
		return v.(bool)
	}
	return e.HasAttribute("checked")
}

// SetChecked sets checkedness. Checking a radio unchecks the others in its group.
func (e *Element) SetChecked(checked bool) {
	if e.LocalName() != "input" {
		return
	}
	e.setState("checked", checked)
	if checked && e.inputType() == "radio" && e.GetAttribute("name") != "" {
		for _, other := range e.radioGroup() {
			if other != e {
				other.setState("checked", false)
			}
		}
	}
}

func (e *Element) radioGroup() []*Element {
	name := e.GetAttribute("name")
	var scope *Node
	if form := e.Form(); form != nil {
		scope = form.AsNode()
	} else {
		scope = e.AsNode().GetRootNode()
	}
	var out []*Element
	walkElements(scope, func(el *Element) bool {
		if el.LocalName() == "input" && el.inputType() == "radio" && el.GetAttribute("name") == name {
			out = append(out, el)
		}
		return true
	})
	return out
}

// Selected reports whether an option is selected.
func (e *Element) Selected() bool {
	if e.LocalName() != "option" {
		return false
	}
	if v, ok := e.state("selected"); ok {
		return v.(bool)
	}
	if e.HasAttribute("selected") {
		return true
	}
	// a single select with nothing explicitly selected shows its first option
	if sel := e.owningSelect(); sel != nil && !sel.HasAttribute("multiple") {
		for _, opt := range sel.Options() {
			if _, ok := opt.state("selected"); ok || opt.HasAttribute("selected") {
				return false
			}
		}
		opts := sel.Options()
		return len(opts) > 0 && opts[0] == e
	}
	return false
}

// SetSelected selects or deselects an option.
func (e *Element) SetSelected(selected bool) {
	if e.LocalName() != "option" {
		return
	}
	if sel := e.owningSelect(); sel != nil && selected && !sel.HasAttribute("multiple") {
		for _, opt := range sel.Options() {
			opt.setState("selected", false)
		}
	}
	e.setState("selected", selected)
}

func (e *Element) owningSelect() *Element {
	for p := e.ParentElement(); p != nil; p = p.ParentElement() {
		if p.LocalName() == "select" {
			return p
		}
		if p.LocalName() != "optgroup" {
			return nil
		}
	}
	return nil
}

// Options returns the option elements of a select or datalist.
func (e *Element) Options() []*Element {
	var out []*Element
	walkElements(e.AsNode(), func(el *Element) bool {
		if el.LocalName() == "option" {
			out = append(out, el)
		}
		return true
	})
	return out
}

// SelectedOptions returns the selected options of a select.
func (e *Element) SelectedOptions() []*Element {
	var out []*Element
	for _, opt := range e.Options() {
		if opt.Selected() {
			out = append(out, opt)
		}
	}
	return out
}

// SelectedIndex returns the index of the first selected option, or -1.
func (e *Element) SelectedIndex() int {
	for i, opt := range e.Options() {
		if opt.Selected() {
			return i
		}
	}
	return -1
}

// SetSelectedIndex selects the option at index.
func (e *Element) SetSelectedIndex(index int) {
	for i, opt := range e.Options() {
		opt.setState("selected", i == index)
	}
}

// Disabled reports whether the control is disabled, including through an
// ancestor fieldset.
func (e *Element) Disabled() bool {
	if !isFormControl(e) && e.LocalName() != "option" && e.LocalName() != "optgroup" {
		return false
	}
	if e.HasAttribute("disabled") {
		return true
	}
	for p := e.ParentElement(); p != nil; p = p.ParentElement() {
		if p.LocalName() == "fieldset" && p.HasAttribute("disabled") {
			return true
		}
	}
	return false
}

// Form returns the form owner of a control.
func (e *Element) Form() *Element {
	if id := e.GetAttribute("form"); id != "" {
		if doc := e.OwnerDocument(); doc != nil {
			if f := doc.GetElementById(id); f != nil && f.LocalName() == "form" {
				return f
			}
		}
	}
	for p := e.ParentElement(); p != nil; p = p.ParentElement() {
		if p.LocalName() == "form" {
			return p
		}
	}
	return nil
}

// Elements returns the listed controls owned by a form, in tree order.
func (e *Element) Elements() []*Element {
	if e.LocalName() != "form" {
		return nil
	}
	var out []*Element
	walkElements(e.AsNode().GetRootNode(), func(el *Element) bool {
		if isFormControl(el) && el.Form() == e {
			out = append(out, el)
		}
		return true
	})
	return out
}

func isFocusable(el *Element) bool {
	if el.HasAttribute("tabindex") || el.GetAttribute("contenteditable") == "true" {
		return true
	}
	switch el.LocalName() {
	case "input", "select", "textarea", "button":
		return !el.Disabled()
	case "a", "area":
		return el.HasAttribute("href")
	}
	return false
}

// Focus makes el the active element and fires focus and focusin.
func (e *Element) Focus() {
	doc := e.OwnerDocument()
	if doc == nil || !isFocusable(e) || !e.AsNode().IsConnected() {
		return
	}
	prev := doc.ActiveElement()
	if prev == e {
		return
	}
	if prev != nil {
		prev.Blur()
	}
	doc.AsNode().documentData.activeElem = e
	e.AsNode().DispatchEvent(trusted(NewEvent("focus", EventInit{})))
	e.AsNode().DispatchEvent(trusted(NewEvent("focusin", EventInit{Bubbles: true})))
}

// Blur removes focus from el and fires blur and focusout.
func (e *Element) Blur() {
	doc := e.OwnerDocument()
	if doc == nil || doc.AsNode().documentData.activeElem != e {
		return
	}
	doc.AsNode().documentData.activeElem = nil
	e.AsNode().DispatchEvent(trusted(NewEvent("blur", EventInit{})))
	e.AsNode().DispatchEvent(trusted(NewEvent("focusout", EventInit{Bubbles: true})))
}

func trusted(ev *Event) *Event {
	ev.IsTrusted = true
	return ev
}

// Click fires a click event and runs the activation behavior of the element
// unless the event was canceled.
func (e *Element) Click() {
	if e.Disabled() {
		return
	}
	var restore func()
	if e.LocalName() == "input" {
		switch e.inputType() {
		case "checkbox":
			was := e.Checked()
			e.SetChecked(!was)
			restore = func() { e.setState("checked", was) }
		case "radio":
			var was *Element
			for _, r := range e.radioGroup() {
				if r.Checked() {
					was = r
				}
			}
			e.SetChecked(true)
			restore = func() {
				if was != nil {
					was.SetChecked(true)
				} else {
					e.setState("checked", false)
				}
			}
		}
	}
	ev := NewEvent("click", EventInit{Bubbles: true, Cancelable: true, Composed: true})
	if !e.AsNode().DispatchEvent(ev) {
		if restore != nil {
			restore()
		}
		return
	}
	if restore != nil {
		e.AsNode().DispatchEvent(NewEvent("input", EventInit{Bubbles: true, Composed: true}))
		e.AsNode().DispatchEvent(NewEvent("change", EventInit{Bubbles: true}))
		return
	}
	form := e.Form()
	if form == nil {
		return
	}
	switch {
	case e.LocalName() == "button" && e.Type() == "submit",
		e.LocalName() == "input" && (e.inputType() == "submit" || e.inputType() == "image"):
		form.requestSubmit(e)
	case e.Type() == "reset":
		form.Reset()
	}
}

// RequestSubmit validates the form, fires a cancelable submit event, and
// submits if it was not canceled.
func (e *Element) RequestSubmit() {
	e.requestSubmit(nil)
}

func (e *Element) requestSubmit(submitter *Element) {
	if e.LocalName() != "form" {
		return
	}
	novalidate := e.HasAttribute("novalidate") || (submitter != nil && submitter.HasAttribute("formnovalidate"))
	if !novalidate && !e.ReportValidity() {
		return
	}
	ev := NewEvent("submit", EventInit{Bubbles: true, Cancelable: true})
	if submitter != nil {
		ev.RelatedTarget = submitter.AsNode()
	}
	if e.AsNode().DispatchEvent(ev) {
		e.Submit()
	}
}

// Submit submits the form without firing submit or validating. The
// document's submit handler, if any, receives the form.
func (e *Element) Submit() {
	if e.LocalName() != "form" {
		return
	}
	n, _ := e.state("submissions")
	count, _ := n.(int)
	e.setState("submissions", count+1)
	if doc := e.OwnerDocument(); doc != nil && doc.AsNode().documentData.onSubmit != nil {
		doc.AsNode().documentData.onSubmit(e)
	}
}

// Submissions returns how many times the form has been submitted.
func (e *Element) Submissions() int {
	n, _ := e.state("submissions")
	count, _ := n.(int)
	return count
}

// SetSubmitHandler installs fn to observe form submissions.
func (d *Document) SetSubmitHandler(fn func(form *Element)) {
	d.AsNode().documentData.onSubmit = fn
}

// Reset fires a cancelable reset event and restores control defaults.
func (e *Element) Reset() {
	if e.LocalName() != "form" {
		return
	}
	if !e.AsNode().DispatchEvent(NewEvent("reset", EventInit{Bubbles: true, Cancelable: true})) {
		return
	}
	for _, el := range e.Elements() {
		el.clearState("value")
		el.clearState("checked")
		for _, opt := range el.Options() {
			opt.clearState("selected")
		}
	}
}

// ValidityState mirrors the constraint validation flags of a control.
type ValidityState struct {
	ValueMissing    bool
	TypeMismatch    bool
	PatternMismatch bool
	TooLong         bool
	TooShort        bool
	RangeUnderflow  bool
	RangeOverflow   bool
	CustomError     bool
}

// Valid reports whether no flag is set.
func (v ValidityState) Valid() bool {
	return v == ValidityState{}
}

// WillValidate reports whether the element is a candidate for constraint validation.
func (e *Element) WillValidate() bool {
	if !isFormControl(e) || e.Disabled() || e.HasAttribute("readonly") {
		return false
	}
	switch e.LocalName() {
	case "fieldset", "output", "object":
		return false
	case "button":
		return e.Type() == "submit"
	case "input":
		switch e.inputType() {
		case "hidden", "reset", "button":
			return false
		}
	}
	return true
}

// Validity computes the validity state of a control.
func (e *Element) Validity() ValidityState {
	var v ValidityState
	if !e.WillValidate() {
		return v
	}
	if msg, ok := e.state("customValidity"); ok && msg.(string) != "" {
		v.CustomError = true
	}
	value := e.Value()
	if e.HasAttribute("required") {
		switch {
		case e.LocalName() == "input" && (e.inputType() == "checkbox"):
			v.ValueMissing = !e.Checked()
		case e.LocalName() == "input" && e.inputType() == "radio":
			checked := false
			for _, r := range e.radioGroup() {
				checked = checked || r.Checked()
			}
			v.ValueMissing = !checked
		default:
			v.ValueMissing = value == ""
		}
	}
	if value == "" || e.LocalName() == "select" {
		return v
	}
	if e.LocalName() == "input" {
		switch e.inputType() {
		case "email":
			_, err := mail.ParseAddress(value)
			v.TypeMismatch = err != nil || strings.ContainsAny(value, " <>")
		case "url":
			u, err := url.Parse(value)
			v.TypeMismatch = err != nil || u.Scheme == "" || !u.IsAbs()
		case "number", "range":
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				v.TypeMismatch = true
				break
			}
			if m, err := strconv.ParseFloat(e.GetAttribute("min"), 64); err == nil && n < m {
				v.RangeUnderflow = true
			}
			if m, err := strconv.ParseFloat(e.GetAttribute("max"), 64); err == nil && n > m {
				v.RangeOverflow = true
			}
		}
		if p := e.GetAttribute("pattern"); p != "" {
			if re, err := regexp.Compile("^(?:" + p + ")$"); err == nil && !re.MatchString(value) {
				v.PatternMismatch = true
			}
		}
	}
	length := len([]rune(value))
	if n, err := strconv.Atoi(e.GetAttribute("maxlength")); err == nil && length > n {
		v.TooLong = true
	}
	if n, err := strconv.Atoi(e.GetAttribute("minlength")); err == nil && length < n {
		v.TooShort = true
	}
	return v
}

// SetCustomValidity sets a custom validation message; "" clears it.
func (e *Element) SetCustomValidity(msg string) {
	e.setState("customValidity", msg)
}

// ValidationMessage describes the first failing constraint.
func (e *Element) ValidationMessage() string {
	v := e.Validity()
	switch {
	case v.CustomError:
		msg, _ := e.state("customValidity")
		return msg.(string)
	case v.ValueMissing:
		return "Please fill out this field."
	case v.TypeMismatch:
		return "Please enter a valid value."
	case v.PatternMismatch:
		return "Please match the requested format."
	case v.TooLong:
		return "Please shorten this text."
	case v.TooShort:
		return "Please lengthen this text."
	case v.RangeUnderflow:
		return "Value must be greater than or equal to " + e.GetAttribute("min") + "."
	case v.RangeOverflow:
		return "Value must be less than or equal to " + e.GetAttribute("max") + "."
	}
	return ""
}

// CheckValidity reports whether the control, or every control of a form, is
// valid. Invalid controls receive a cancelable invalid event.
func (e *Element) CheckValidity() bool {
	controls := []*Element{e}
	if e.LocalName() == "form" {
		controls = e.Elements()
	}
	ok := true
	for _, c := range controls {
		if !c.Validity().Valid() {
			ok = false
			c.AsNode().DispatchEvent(NewEvent("invalid", EventInit{Cancelable: true}))
		}
	}
	return ok
}

// ReportValidity is CheckValidity; there is no user agent UI to report to.
func (e *Element) ReportValidity() bool {
	return e.CheckValidity()
}

// IsMedia reports whether el is an audio or video element.
func (e *Element) IsMedia() bool {
	return e.IsHTML() && (e.LocalName() == "audio" || e.LocalName() == "video")
}

func (e *Element) mediaFloat(key string, def float64) float64 {
	if v, ok := e.state(key); ok {
		return v.(float64)
	}
	return def
}

// Paused reports the media paused flag.
func (e *Element) Paused() bool {
	if v, ok := e.state("paused"); ok {
		return v.(bool)
	}
	return true
}

// Play starts playback and fires play.
func (e *Element) Play() {
	if !e.IsMedia() || !e.Paused() {
		return
	}
	e.setState("paused", false)
	e.AsNode().DispatchEvent(NewEvent("play", EventInit{}))
}

// Pause pauses playback and fires pause.
func (e *Element) Pause() {
	if !e.IsMedia() || e.Paused() {
		return
	}
	e.setState("paused", true)
	e.AsNode().DispatchEvent(NewEvent("pause", EventInit{}))
}

// Load resets the media element and fires loadstart.
func (e *Element) Load() {
	if !e.IsMedia() {
		return
	}
	e.setState("paused", true)
	e.setState("currentTime", 0.0)
	e.AsNode().DispatchEvent(NewEvent("loadstart", EventInit{}))
}

// Volume returns the media volume in [0, 1].
func (e *Element) Volume() float64 {
	return e.mediaFloat("volume", 1)
}

// SetVolume sets the media volume, returning IndexSizeError when out of range.
func (e *Element) SetVolume(v float64) error {
	if v < 0 || v > 1 {
		return &DOMError{Name: "IndexSizeError", Message: "The volume provided is outside the range [0, 1]."}
	}
	e.setState("volume", v)
	e.AsNode().DispatchEvent(NewEvent("volumechange", EventInit{}))
	return nil
}

// ScrollTo sets the scroll offsets and fires scroll.
func (e *Element) ScrollTo(x, y float64) {
	g := e.ensureGeometry()
	g.ScrollLeft, g.ScrollTop = max(x, 0), max(y, 0)
	e.AsNode().DispatchEvent(NewEvent("scroll", EventInit{}))
}

// ScrollBy offsets the scroll position.
func (e *Element) ScrollBy(dx, dy float64) {
	g := e.ensureGeometry()
	e.ScrollTo(g.ScrollLeft+dx, g.ScrollTop+dy)
}

// ScrollIntoView scrolls the nearest scrollable ancestor so el's top is visible.
func (e *Element) ScrollIntoView() {
	for p := e.ParentElement(); p != nil; p = p.ParentElement() {
		if g := p.Geometry(); g != nil && g.ScrollHeight > g.ClientHeight {
			var top float64
			if eg := e.Geometry(); eg != nil {
				top = eg.OffsetTop
			}
			p.ScrollTo(g.ScrollLeft, top)
			return
		}
	}
}

func (e *Element) ensureGeometry() *ElementGeometry {
	if e.elementData.geometry == nil {
		e.elementData.geometry = &ElementGeometry{}
	}
	return e.elementData.geometry
}

// GetContext returns nil; canvas rendering contexts are not provided.
func (e *Element) GetContext(contextID string) any {
	return nil
}

// ToDataURL returns the data URL of an empty canvas.
func (e *Element) ToDataURL() string {
	return "data:,"
}
