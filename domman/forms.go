package domman

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/chrisuehlinger/domman/network"
	"github.com/pkg/errors"
)

// FormFormat selects the output of SerializeFormAs.
type FormFormat string

const (
	FormObject     FormFormat = "object"
	FormJSON       FormFormat = "json"
	FormURLEncoded FormFormat = "urlencoded"
)

type formEntry struct {
	name, value string
}

// formData builds the entry list a form would submit, in tree order.
func formData(form *dom.Element) []formEntry {
	var out []formEntry
	for _, el := range form.Elements() {
		name := el.GetAttribute("name")
		if name == "" || el.Disabled() {
			continue
		}
		switch el.LocalName() {
		case "button", "fieldset", "output", "object":
			continue
		case "select":
			for _, opt := range el.SelectedOptions() {
				out = append(out, formEntry{name, opt.Value()})
			}
			continue
		case "input":
			switch el.Type() {
			case "submit", "button", "reset", "image", "file":
				continue
			case "checkbox", "radio":
				if !el.Checked() {
					continue
				}
			}
		}
		out = append(out, formEntry{name, el.Value()})
	}
	return out
}

func (s *Selection) form(method string) *dom.Element {
	first := s.First()
	if first == nil || first.LocalName() != "form" {
		s.dm.debugError(method, nil, method+" requires a form element")
		return nil
	}
	return first
}

// SerializeForm returns the fields of the first element, which must be a
// form. Names with several values map to a []string, others to a string.
func (s *Selection) SerializeForm() map[string]any {
	out := make(map[string]any)
	form := s.form("serializeForm")
	if form == nil {
		return out
	}
	for _, e := range formData(form) {
		switch prev := out[e.name].(type) {
		case nil:
			out[e.name] = e.value
		case string:
			out[e.name] = []string{prev, e.value}
		case []string:
			out[e.name] = append(prev, e.value)
		}
	}
	return out
}

// SerializeFormAs renders SerializeForm as JSON or as a urlencoded string.
// FormObject renders JSON too.
func (s *Selection) SerializeFormAs(format FormFormat) (string, error) {
	if format != FormURLEncoded {
		b, err := json.Marshal(s.SerializeForm())
		return string(b), errors.Wrap(err, "encode form")
	}
	form := s.form("serializeForm")
	if form == nil {
		return "", nil
	}
	return encodeForm(formData(form)), nil
}

// encodeForm keeps each name's values together, ordered by first
// appearance.
func encodeForm(entries []formEntry) string {
	var order []string
	grouped := make(map[string][]string)
	for _, e := range entries {
		if _, ok := grouped[e.name]; !ok {
			order = append(order, e.name)
		}
		grouped[e.name] = append(grouped[e.name], e.value)
	}
	var parts []string
	for _, name := range order {
		for _, v := range grouped[name] {
			parts = append(parts, url.QueryEscape(name)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

// SubmitForm submits the first element, which must be a form, without
// firing submit or validating.
func (s *Selection) SubmitForm() *Selection {
	if form := s.form("submitForm"); form != nil {
		form.Submit()
	}
	return s
}

// SubmitFormAjax sends the form fields to the form's action with its
// method, GET by default. GET requests carry the fields in the query
// string, others as a urlencoded body. Non-2xx responses are returned
// without error.
func (s *Selection) SubmitFormAjax(ctx context.Context) (*network.Response, error) {
	form := s.form("submitForm")
	if form == nil {
		return nil, errors.New("domman: submitForm requires a form element")
	}
	method := strings.ToUpper(form.GetAttribute("method"))
	if method == "" {
		method = http.MethodGet
	}
	action, err := network.ResolveURL(s.dm.baseURL(), form.GetAttribute("action"))
	if err != nil {
		return nil, err
	}
	body := encodeForm(formData(form))
	client, err := s.dm.httpClient()
	if err != nil {
		return nil, err
	}
	req := &network.Request{Method: method, URL: action}
	if method == http.MethodGet {
		values, err := url.ParseQuery(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode form")
		}
		if req.URL, err = network.AppendQuery(action, values); err != nil {
			return nil, err
		}
	} else {
		req.Headers = map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
		req.Body = []byte(body)
	}
	return client.Do(ctx, req)
}

// ResetForm restores the first element, which must be a form, to its
// default values.
func (s *Selection) ResetForm() *Selection {
	if form := s.form("resetForm"); form != nil {
		form.Reset()
	}
	return s
}

func isField(el *dom.Element) bool {
	switch el.LocalName() {
	case "input", "select", "textarea", "button":
		return true
	}
	return false
}

// owningForm returns the first element if it is a form, else its nearest
// form ancestor.
func (s *Selection) owningForm() *dom.Element {
	first := s.First()
	if first == nil {
		return nil
	}
	if first.LocalName() == "form" {
		return first
	}
	return first.Closest("form")
}

// namedFields returns the controls of form whose name or id is name.
func namedFields(form *dom.Element, name string) []*dom.Element {
	var out []*dom.Element
	for _, el := range form.Elements() {
		if el.GetAttribute("name") == name || el.Id() == name {
			out = append(out, el)
		}
	}
	return out
}

// FormValue reads a form value. On a field it returns the field's value
// and ignores name. On a form, or inside one, it returns the named
// field's value: a bool for checkboxes, the checked value of a radio
// group, the value otherwise. An empty name returns SerializeForm of the
// form.
func (s *Selection) FormValue(name string) (any, bool) {
	first := s.First()
	if first == nil {
		return nil, false
	}
	if isField(first) {
		return first.Value(), true
	}
	form := s.owningForm()
	if form == nil {
		return nil, false
	}
	if name == "" {
		return s.dm.Wrap(form).SerializeForm(), true
	}
	fields := namedFields(form, name)
	if len(fields) == 0 {
		return nil, false
	}
	field := fields[0]
	switch {
	case field.Type() == "radio":
		for _, r := range fields {
			if r.Checked() {
				return r.Value(), true
			}
		}
		return nil, false
	case field.Type() == "checkbox":
		return field.Checked(), true
	}
	return field.Value(), true
}

// SetFormValue writes a form value. On a field it sets the field's value.
// On a form it checks the radio whose value matches, sets checkbox
// checkedness from value's truthiness, or sets the field's value.
func (s *Selection) SetFormValue(name string, value any) *Selection {
	first := s.First()
	if first == nil {
		return s
	}
	if isField(first) {
		first.SetValue(dom.ToString(value))
		return s
	}
	form := s.owningForm()
	if form == nil || name == "" {
		return s
	}
	fields := namedFields(form, name)
	if len(fields) == 0 {
		return s
	}
	field := fields[0]
	switch field.Type() {
	case "radio":
		want := dom.ToString(value)
		for _, r := range fields {
			r.SetChecked(r.Value() == want)
		}
	case "checkbox":
		field.SetChecked(dom.ToBool(value))
	default:
		field.SetValue(dom.ToString(value))
	}
	return s
}
