package domman

import (
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/pkg/errors"
)

// ErrUnsupportedClone is returned by DeepClone for values it cannot copy.
var ErrUnsupportedClone = errors.New("domman: unable to copy value, its type isn't supported")

// DeepClone copies scalars, times, nodes (deeply), and slices and maps of
// those. Anything else fails with ErrUnsupportedClone.
func DeepClone(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return t, nil
	case time.Time:
		return t, nil
	case *dom.Node:
		return t.CloneNode(true), nil
	case *dom.Element:
		return t.CloneNode(true), nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			c, err := DeepClone(item)
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", i)
			}
			out[i] = c
		}
		return out, nil
	case []string:
		return append([]string(nil), t...), nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			c, err := DeepClone(item)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", k)
			}
			out[k] = c
		}
		return out, nil
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedClone, "%T", v)
}

var selectorShape = regexp.MustCompile(`^(?:#([\w-]+)|(\w+)|\.([\w-]+)|(\w+[\w\s>+~.#-]*|\[\w+[\^$*]?=.+\]))$`)

// IsValidSelector reports whether selector has one of the simple shapes
// domman treats as safe: #id, tag, .class, a tag-led compound or an
// attribute test. It is a syntactic check, narrower than what
// QuerySelectorAll accepts.
func IsValidSelector(selector string) bool {
	return selectorShape.MatchString(selector)
}

// Method is a plugin method. It receives the selection it is called on.
type Method func(s *Selection, args ...any) any

// Extend registers plugin methods. A name that is already a built-in or
// registered method is refused with a debug warning. It returns d.
func (d *DomMan) Extend(methods map[string]Method) *DomMan {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, name := range sortedKeys(methods) {
		fn := methods[name]
		if fn == nil {
			continue
		}
		if _, builtin := builtinMethods[name]; builtin {
			d.debugWarn("extend", "Cannot extend domMan: Method '%s' already exists.", name)
			continue
		}
		if _, exists := d.plugins[name]; exists {
			d.debugWarn("extend", "Cannot extend domMan: Method '%s' already exists.", name)
			continue
		}
		d.plugins[name] = fn
	}
	return d
}

func (d *DomMan) plugin(name string) (Method, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.plugins[name]
	return m, ok
}

// PageRenderer draws one page of items.
type PageRenderer func(items []any, page, totalPages int)

// Paginate renders content page by page. It draws First, Previous,
// numbered and Next, Last buttons into every ".pagination-controls"
// element, handles clicks on them through delegation on s, and records
// the current page in the document URL's "page" parameter. At most
// maxPageNumbers numbered buttons are shown, 5 by default.
func (s *Selection) Paginate(content []any, perPage int, render PageRenderer, maxPageNumbers ...int) *Selection {
	if perPage <= 0 || render == nil {
		s.dm.debugError("paginate", nil, "Invalid arguments for paginate method")
		return s
	}
	maxNumbers := 5
	if len(maxPageNumbers) > 0 && maxPageNumbers[0] > 0 {
		maxNumbers = maxPageNumbers[0]
	}
	total := (len(content) + perPage - 1) / perPage
	current := 1

	var renderPage func(page int)
	renderPage = func(page int) {
		start := min((page-1)*perPage, len(content))
		end := min(start+perPage, len(content))
		render(content[start:end], page, total)
		s.dm.setPageParam(page)
		s.dm.renderPageControls(page, total, maxNumbers)
	}
	goTo := func(page int) {
		if page >= 1 && page <= total && page != current {
			current = page
			renderPage(current)
		}
	}

	s.Delegate(".pagination-first", "click", NewHandler(func(*dom.Event, *dom.Element) { goTo(1) }))
	s.Delegate(".pagination-last", "click", NewHandler(func(*dom.Event, *dom.Element) { goTo(total) }))
	s.Delegate(".pagination-next", "click", NewHandler(func(*dom.Event, *dom.Element) { goTo(current + 1) }))
	s.Delegate(".pagination-prev", "click", NewHandler(func(*dom.Event, *dom.Element) { goTo(current - 1) }))
	s.Delegate(".pagination-page", "click", NewHandler(func(e *dom.Event, _ *dom.Element) {
		if target := e.TargetElement(); target != nil {
			if page, err := strconv.Atoi(target.TextContent()); err == nil {
				goTo(page)
			}
		}
	}))

	renderPage(current)
	return s
}

func (d *DomMan) renderPageControls(page, total, maxNumbers int) {
	controls := d.Select(".pagination-controls")
	controls.SetHTML("")
	button := func(class, label string) *dom.Element {
		b := d.CreateElement("button", Attrs{"class": class})
		b.SetTextContent(label)
		return b
	}
	controls.Append(button("pagination-first", "First"))
	controls.Append(button("pagination-prev", "Previous"))
	start := max(1, page-maxNumbers/2)
	end := min(total, start+maxNumbers-1)
	for i := start; i <= end; i++ {
		b := button("pagination-page", strconv.Itoa(i))
		if i == page {
			b.ClassList().Add("active")
		}
		controls.Append(b)
	}
	controls.Append(button("pagination-next", "Next"))
	controls.Append(button("pagination-last", "Last"))
}

func (d *DomMan) setPageParam(page int) {
	u, err := url.Parse(d.doc.URL())
	if err != nil {
		d.debugError("paginate", err, "cannot update page URL")
		return
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	d.doc.SetURL(u.String())
}
