package network

import (
	"encoding/base64"
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// ResolveURL resolves ref against base. Absolute, data:, javascript: and
// mailto: references are returned unchanged.
func ResolveURL(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}
	lower := strings.ToLower(ref)
	for _, scheme := range []string{"data:", "javascript:", "mailto:"} {
		if strings.HasPrefix(lower, scheme) {
			return ref, nil
		}
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrap(err, "invalid reference URL")
	}
	if refURL.IsAbs() || base == "" {
		return refURL.String(), nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrap(err, "invalid base URL")
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// AppendQuery adds params to the query string of rawURL.
func AppendQuery(rawURL string, params url.Values) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, "invalid URL")
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// IsAbsoluteURL reports whether urlStr has a scheme.
func IsAbsoluteURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.IsAbs()
}

// IsDataURL reports whether urlStr is a data: URL.
func IsDataURL(urlStr string) bool {
	return strings.HasPrefix(strings.ToLower(urlStr), "data:")
}

// DataURL is a parsed data: URL.
type DataURL struct {
	MediaType string
	Charset   string
	Base64    bool
	Data      []byte
}

// ParseDataURL parses data:[<mediatype>][;base64],<data>.
func ParseDataURL(urlStr string) (*DataURL, error) {
	if !IsDataURL(urlStr) {
		return nil, errors.New("not a data URL")
	}
	meta, data, ok := strings.Cut(urlStr[5:], ",")
	if !ok {
		return nil, errors.New("invalid data URL: missing comma")
	}
	out := &DataURL{MediaType: "text/plain", Charset: "US-ASCII"}
	for i, part := range strings.Split(meta, ";") {
		switch {
		case part == "base64":
			out.Base64 = true
		case strings.HasPrefix(strings.ToLower(part), "charset="):
			out.Charset = part[8:]
		case i == 0 && part != "":
			out.MediaType = part
		}
	}
	if out.Base64 {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, errors.Wrap(err, "decode base64 data")
		}
		out.Data = decoded
		return out, nil
	}
	decoded, err := url.PathUnescape(data)
	if err != nil {
		return nil, errors.Wrap(err, "unescape data")
	}
	out.Data = []byte(decoded)
	return out, nil
}

// GuessContentType guesses a media type from the path extension.
func GuessContentType(urlStr string) string {
	p := urlStr
	if u, err := url.Parse(urlStr); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(strings.TrimPrefix(path.Ext(p), ".")) {
	case "html", "htm":
		return "text/html"
	case "css":
		return "text/css"
	case "js", "mjs":
		return "text/javascript"
	case "json":
		return "application/json"
	case "xml":
		return "application/xml"
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
