// Package network provides the HTTP client behind ajax requests and page
// loading.
package network

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// DefaultUserAgent is sent when no WithUserAgent option is given.
const DefaultUserAgent = "domman/1.0"

// Client is an HTTP client with cookie support and an optional response
// cache for GET requests.
type Client struct {
	httpClient     *http.Client
	cookieJar      http.CookieJar
	cache          *Cache
	timeout        time.Duration
	maxRedirects   int
	userAgent      string
	followRedirect bool
	transport      http.RoundTripper
	log            logrus.FieldLogger

	mu sync.RWMutex
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxRedirects sets the maximum number of redirects to follow.
func WithMaxRedirects(n int) ClientOption {
	return func(c *Client) { c.maxRedirects = n }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithFollowRedirect enables or disables redirect following.
func WithFollowRedirect(follow bool) ClientOption {
	return func(c *Client) { c.followRedirect = follow }
}

// WithCache serves fresh GET responses from cache.
func WithCache(cache *Cache) ClientOption {
	return func(c *Client) { c.cache = cache }
}

// WithTransport replaces the default transport.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) { c.transport = rt }
}

// WithLogger sets the logger requests are traced to at debug level.
func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Client) { c.log = log }
}

func newJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar, errors.Wrap(err, "create cookie jar")
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts ...ClientOption) (*Client, error) {
	jar, err := newJar()
	if err != nil {
		return nil, err
	}

	c := &Client{
		cookieJar:      jar,
		timeout:        30 * time.Second,
		maxRedirects:   10,
		userAgent:      DefaultUserAgent,
		followRedirect: true,
		log:            logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		c.transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}

	c.httpClient = &http.Client{
		Transport: c.transport,
		Jar:       jar,
		Timeout:   c.timeout,
	}
	if c.followRedirect {
		c.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= c.maxRedirects {
				return errors.Errorf("stopped after %d redirects", c.maxRedirects)
			}
			return nil
		}
	} else {
		c.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return c, nil
}

// Request is an outgoing HTTP request. NoCache skips the cache lookup;
// the response is still stored.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	NoCache bool
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode    int
	Status        string
	Headers       http.Header
	Body          []byte
	ContentType   string
	ContentLength int64
	URL           *url.URL // final URL after redirects
	Cached        bool
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusText returns the reason phrase, e.g. "Not Found".
func (r *Response) StatusText() string {
	if _, text, ok := strings.Cut(r.Status, " "); ok {
		return text
	}
	return http.StatusText(r.StatusCode)
}

// Get performs an HTTP GET request.
func (c *Client) Get(ctx context.Context, urlStr string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: urlStr})
}

// Post performs an HTTP POST request.
func (c *Client) Post(ctx context.Context, urlStr, contentType string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:  http.MethodPost,
		URL:     urlStr,
		Headers: map[string]string{"Content-Type": contentType},
		Body:    body,
	})
}

// Do performs an HTTP request. Non-2xx statuses are not errors.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	cacheable := c.cache != nil && method == http.MethodGet
	if cacheable && !req.NoCache {
		if entry, ok := c.cache.Get(req.URL); ok && !entry.IsExpired() {
			resp := *entry.Response
			resp.Cached = true
			return &resp, nil
		}
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "*/*")
	httpReq.Header.Set("Accept-Encoding", "gzip")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	c.mu.RLock()
	hc := c.httpClient
	c.mu.RUnlock()

	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, req.URL)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "create gzip reader")
		}
		defer gz.Close()
		reader = gz
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	out := &Response{
		StatusCode:    resp.StatusCode,
		Status:        resp.Status,
		Headers:       resp.Header,
		Body:          data,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		URL:           resp.Request.URL,
	}
	c.log.WithFields(logrus.Fields{"method": method, "url": req.URL, "status": resp.StatusCode}).Debug("http request")

	switch {
	case cacheable && out.OK():
		c.cache.Set(req.URL, out, resp.Header)
	case c.cache != nil && !safeMethod(method) && out.StatusCode < 400:
		// a successful write makes the cached representation stale
		c.cache.Delete(req.URL)
	}
	return out, nil
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// SetCookies sets cookies for a URL.
func (c *Client) SetCookies(u *url.URL, cookies []*http.Cookie) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.cookieJar.SetCookies(u, cookies)
}

// Cookies returns the cookies for a URL.
func (c *Client) Cookies(u *url.URL) []*http.Cookie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cookieJar.Cookies(u)
}

// ParseContentType splits a Content-Type header into media type and charset.
func ParseContentType(contentType string) (mediaType string, charset string) {
	if contentType == "" {
		return "application/octet-stream", ""
	}
	parts := strings.Split(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(parts[0]))
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToLower(part), "charset=") {
			charset = strings.ToLower(strings.Trim(part[8:], `"`))
			break
		}
	}
	return mediaType, charset
}

// IsJSONContentType reports application/json and +json media types.
func IsJSONContentType(contentType string) bool {
	mediaType, _ := ParseContentType(contentType)
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// IsHTMLContentType reports an HTML media type.
func IsHTMLContentType(contentType string) bool {
	mediaType, _ := ParseContentType(contentType)
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
