package domman

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/chrisuehlinger/domman/dom"
)

// ValidationPatterns are the named patterns a Rule may refer to.
var ValidationPatterns = map[string]*regexp.Regexp{
	"email": regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),
	"url":   regexp.MustCompile(`(?i)^(https?://)?([\w-]+\.)+[\w-]+(/[\w\-._~:/?#\[\]@!$&'()*+,;=%]*)?$`),
	"tel":   regexp.MustCompile(`^[+()\d\s.-]{6,}$`),
}

// patternSources are the patterns as written into pattern attributes.
var patternSources = map[string]string{
	"email": `[^\s@]+@[^\s@]+\.[^\s@]+`,
	"url":   `(https?:\/\/)?([\w-]+\.)+[\w-]+(\/[\w\-._~:/?#[\]@!$&'()*+,;=%]*)?`,
	"tel":   `[+()\d\s.-]{6,}`,
}

// Rule constrains one field. Checks run in order and the first failure
// wins: Required, Pattern, MinLength, MaxLength, Min, Max, Check. Zero
// values disable a check. Message replaces the default message.
type Rule struct {
	Required  bool
	Pattern   string // a ValidationPatterns name or a regular expression
	MinLength int
	MaxLength int
	Min       *float64
	Max       *float64
	// Check returns "" for a valid value, else the error message.
	Check   func(value string, form *dom.Element) string
	Message string
}

// ValidateOptions control how failures are shown. The zero value shows
// errors with the "error" and "error-message" classes.
type ValidateOptions struct {
	HideErrors        bool
	ErrorClass        string
	ErrorMessageClass string
	ValidateOnBlur    bool
}

// ValidationResult maps field names to error messages.
type ValidationResult struct {
	Valid  bool
	Errors map[string]string
}

func (r Rule) message(def string) string {
	if r.Message != "" {
		return r.Message
	}
	return def
}

func (r Rule) pattern() (*regexp.Regexp, error) {
	if re, ok := ValidationPatterns[r.Pattern]; ok {
		return re, nil
	}
	return regexp.Compile(r.Pattern)
}

func (r Rule) check(value string, form *dom.Element) (string, error) {
	if r.Required && strings.TrimSpace(value) == "" {
		return r.message("This field is required"), nil
	}
	if r.Pattern != "" && value != "" {
		re, err := r.pattern()
		if err != nil {
			return "", err
		}
		if !re.MatchString(value) {
			return r.message("Invalid format"), nil
		}
	}
	n := len([]rune(value))
	switch {
	case r.MinLength > 0 && n < r.MinLength:
		return r.message(fmt.Sprintf("Minimum length is %d characters", r.MinLength)), nil
	case r.MaxLength > 0 && n > r.MaxLength:
		return r.message(fmt.Sprintf("Maximum length is %d characters", r.MaxLength)), nil
	case r.Min != nil && parseFloat(value) < *r.Min:
		return r.message("Minimum value is " + dom.ToString(*r.Min)), nil
	case r.Max != nil && parseFloat(value) > *r.Max:
		return r.message("Maximum value is " + dom.ToString(*r.Max)), nil
	}
	if r.Check != nil {
		return r.Check(value, form), nil
	}
	return "", nil
}

// parseFloat returns NaN for unparsable input, which fails neither bound.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Validate checks the fields of the first element's form against rules.
// Failing fields get the error class and an error message element after
// them unless opts.HideErrors is set.
func (s *Selection) Validate(rules map[string]Rule, opts ...ValidateOptions) ValidationResult {
	if s.First() == nil {
		return ValidationResult{Errors: map[string]string{"general": "No element found"}}
	}
	form := s.owningForm()
	if form == nil {
		return ValidationResult{Errors: map[string]string{"general": "No form element found"}}
	}
	var o ValidateOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.ErrorClass == "" {
		o.ErrorClass = "error"
	}
	if o.ErrorMessageClass == "" {
		o.ErrorMessageClass = "error-message"
	}

	result := ValidationResult{Valid: true, Errors: make(map[string]string)}
	names := sortedKeys(rules)
	if o.ValidateOnBlur {
		for _, name := range names {
			fields := namedFields(form, name)
			if len(fields) == 0 {
				continue
			}
			field, rule := fields[0], rules[name]
			field.AsNode().AddEventListener("blur", dom.NewListener(func(*dom.Event) {
				s.validateField(form, field, rule, o, nil)
			}), dom.ListenerOptions{})
		}
	}
	for _, name := range names {
		fields := namedFields(form, name)
		if len(fields) == 0 {
			continue
		}
		if !s.validateField(form, fields[0], rules[name], o, result.Errors) {
			result.Valid = false
		}
	}
	return result
}

func (s *Selection) validateField(form, field *dom.Element, rule Rule, o ValidateOptions, errs map[string]string) bool {
	name := field.GetAttribute("name")
	if !o.HideErrors {
		field.ClassList().Remove(o.ErrorClass)
		for _, el := range form.QuerySelectorAll("." + o.ErrorMessageClass) {
			if el.GetAttribute("data-for") == name {
				el.Remove()
			}
		}
	}
	msg, err := rule.check(field.Value(), form)
	if err != nil {
		s.dm.debugError("validate", err, "invalid pattern for "+name)
		return true
	}
	if msg == "" {
		return true
	}
	if !o.HideErrors {
		field.ClassList().Add(o.ErrorClass)
		errEl := s.dm.doc.CreateElement("div")
		errEl.SetClassName(o.ErrorMessageClass)
		errEl.SetAttribute("data-for", name)
		errEl.SetTextContent(msg)
		if parent := field.AsNode().ParentNode(); parent != nil {
			parent.InsertBefore(errEl.AsNode(), field.AsNode().NextSibling())
		}
	}
	if errs != nil {
		errs[name] = msg
	}
	return false
}

// ApplyValidationAttributes mirrors rules onto the HTML constraint
// attributes of the first element's fields. It must be a form.
func (s *Selection) ApplyValidationAttributes(rules map[string]Rule) *Selection {
	form := s.form("applyValidationAttributes")
	if form == nil {
		return s
	}
	for _, name := range sortedKeys(rules) {
		fields := namedFields(form, name)
		if len(fields) == 0 {
			continue
		}
		field, rule := fields[0], rules[name]
		if rule.Required {
			field.SetAttribute("required", "")
		}
		if src, ok := patternSources[rule.Pattern]; ok {
			field.SetAttribute("pattern", src)
		}
		switch field.Type() {
		case "number", "range":
			if rule.Min != nil {
				field.SetAttribute("min", dom.ToString(*rule.Min))
			}
			if rule.Max != nil {
				field.SetAttribute("max", dom.ToString(*rule.Max))
			}
		case "text", "password", "search", "email", "tel", "url":
			if rule.MinLength > 0 {
				field.SetAttribute("minlength", strconv.Itoa(rule.MinLength))
			}
			if rule.MaxLength > 0 {
				field.SetAttribute("maxlength", strconv.Itoa(rule.MaxLength))
			}
		}
	}
	return s
}
