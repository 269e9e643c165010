package network

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Resource is a loaded page or script.
type Resource struct {
	URL         string
	Content     []byte
	ContentType string
	Charset     string
	StatusCode  int
}

// Loader reads resources from local files, file:// and data: URLs, or
// over HTTP.
type Loader struct {
	client *Client
}

// NewLoader creates a loader that fetches remote resources with client.
func NewLoader(client *Client) *Loader {
	return &Loader{client: client}
}

// Load fetches ref. Plain paths are read from disk. The returned URL is
// the document URL the resource should be given.
func (l *Loader) Load(ctx context.Context, ref string) (*Resource, error) {
	switch {
	case IsDataURL(ref):
		d, err := ParseDataURL(ref)
		if err != nil {
			return nil, err
		}
		return &Resource{URL: ref, Content: d.Data, ContentType: d.MediaType, Charset: strings.ToLower(d.Charset), StatusCode: 200}, nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		if l.client == nil {
			return nil, errors.Errorf("load %s: no http client", ref)
		}
		resp, err := l.client.Get(ctx, ref)
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			return nil, errors.Errorf("load %s: %s", ref, resp.Status)
		}
		mediaType, charset := ParseContentType(resp.ContentType)
		return &Resource{URL: resp.URL.String(), Content: resp.Body, ContentType: mediaType, Charset: charset, StatusCode: resp.StatusCode}, nil
	}

	path := ref
	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return nil, errors.Wrap(err, "invalid file URL")
		}
		path = u.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	fileURL := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	return &Resource{URL: fileURL, Content: content, ContentType: GuessContentType(abs), StatusCode: 200}, nil
}
