package domman

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/chrisuehlinger/domman/network"
	"github.com/pkg/errors"
)

// AjaxOptions describe one request. Data may be nil, a string or []byte
// sent as is, url.Values sent urlencoded (or as the query string of a
// GET), or any other value sent as JSON. ResponseType "json" decodes the
// body and "text" returns it as a string; left empty, JSON media types are
// decoded and anything else is returned as text. NoCache bypasses cached
// GET responses.
type AjaxOptions struct {
	Method       string
	URL          string
	Data         any
	Headers      map[string]string
	ResponseType string
	NoCache      bool
}

// AjaxError reports a failed request. Status is 0 when no response was
// received.
type AjaxError struct {
	Status     int
	StatusText string
	Response   any
	Err        error
}

func (e *AjaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ajax: %v", e.Err)
	}
	return fmt.Sprintf("ajax: %d %s", e.Status, e.StatusText)
}

func (e *AjaxError) Unwrap() error { return e.Err }

// Ajax performs a request relative to the document URL and returns the
// decoded response body. Non-2xx responses yield an *AjaxError carrying
// the decoded body.
func (d *DomMan) Ajax(ctx context.Context, opts AjaxOptions) (any, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}
	target, err := network.ResolveURL(d.baseURL(), opts.URL)
	if err != nil {
		return nil, &AjaxError{Err: err}
	}
	if !network.IsAbsoluteURL(target) {
		return nil, &AjaxError{Err: errors.Errorf("cannot resolve %q without a document URL", opts.URL)}
	}
	req := &network.Request{Method: method, URL: target, Headers: map[string]string{}, NoCache: opts.NoCache}
	if err := encodeAjaxBody(req, opts.Data); err != nil {
		return nil, &AjaxError{Err: err}
	}
	for k, v := range opts.Headers {
		req.Headers[k] = v
	}

	client, err := d.httpClient()
	if err != nil {
		return nil, &AjaxError{Err: err}
	}
	resp, err := client.Do(ctx, req)
	if err != nil {
		d.debugError("ajax", err, "request failed")
		return nil, &AjaxError{Err: err}
	}
	body := decodeAjaxBody(resp.Body, resp.ContentType, opts.ResponseType)
	if !resp.OK() {
		return nil, &AjaxError{Status: resp.StatusCode, StatusText: resp.StatusText(), Response: body}
	}
	return body, nil
}

func encodeAjaxBody(req *network.Request, data any) error {
	switch v := data.(type) {
	case nil:
	case url.Values:
		if req.Method == http.MethodGet {
			u, err := network.AppendQuery(req.URL, v)
			if err != nil {
				return err
			}
			req.URL = u
			return nil
		}
		req.Headers["Content-Type"] = "application/x-www-form-urlencoded"
		req.Body = []byte(v.Encode())
	case string:
		req.Body = []byte(v)
	case []byte:
		req.Body = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		req.Headers["Content-Type"] = "application/json"
		req.Body = b
	}
	return nil
}

// decodeAjaxBody returns nil for a json response that does not parse, as
// an XMLHttpRequest with responseType json does.
func decodeAjaxBody(body []byte, contentType, responseType string) any {
	switch responseType {
	case "text":
		return string(body)
	case "":
		if !network.IsJSONContentType(contentType) {
			return string(body)
		}
	}
	if len(body) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil
	}
	return v
}

// Get is Ajax with method GET. data becomes the query string.
func (d *DomMan) Get(ctx context.Context, rawURL string, data url.Values, opts ...AjaxOptions) (any, error) {
	o := firstAjax(opts)
	o.Method, o.URL = http.MethodGet, rawURL
	if data != nil {
		o.Data = data
	}
	return d.Ajax(ctx, o)
}

// Post is Ajax with method POST.
func (d *DomMan) Post(ctx context.Context, rawURL string, data any, opts ...AjaxOptions) (any, error) {
	o := firstAjax(opts)
	o.Method, o.URL, o.Data = http.MethodPost, rawURL, data
	return d.Ajax(ctx, o)
}

func firstAjax(opts []AjaxOptions) AjaxOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return AjaxOptions{}
}

// baseURL is the document URL when it is hierarchical, else "" so that
// requests are not resolved against about:blank.
func (d *DomMan) baseURL() string {
	u, err := url.Parse(d.doc.URL())
	if err != nil || u.Host == "" {
		return ""
	}
	return u.String()
}
