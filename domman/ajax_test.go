package domman

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ajaxServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"q":"`+r.URL.Query().Get("q")+`"}`)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"method":      r.Method,
			"contentType": r.Header.Get("Content-Type"),
			"token":       r.Header.Get("X-Token"),
			"body":        string(b),
		})
	})
	mux.HandleFunc("/fail", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})
	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "plain words")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAjaxGet(t *testing.T) {
	srv := ajaxServer(t)
	dm, doc := setup(t, `<p></p>`)
	doc.SetURL(srv.URL + "/app/index.html")

	v, err := dm.Get(context.Background(), "/json", url.Values{"q": {"x y"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true, "q": "x y"}, v)

	v, err = dm.Ajax(context.Background(), AjaxOptions{URL: srv.URL + "/text", ResponseType: "text"})
	require.NoError(t, err)
	assert.Equal(t, "plain words", v)

	v, err = dm.Get(context.Background(), "/text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain words", v, "non-JSON media types come back as text")

	v, err = dm.Get(context.Background(), "/text", nil, AjaxOptions{ResponseType: "json"})
	require.NoError(t, err)
	assert.Nil(t, v, "unparsable json decodes to nil")
}

func TestDecodeAjaxBody(t *testing.T) {
	body := []byte(`{"a":1}`)
	assert.Equal(t, map[string]any{"a": float64(1)}, decodeAjaxBody(body, "application/json", ""))
	assert.Equal(t, map[string]any{"a": float64(1)}, decodeAjaxBody(body, "application/ld+json; charset=utf-8", ""))
	assert.Equal(t, `{"a":1}`, decodeAjaxBody(body, "text/html", ""))
	assert.Equal(t, `{"a":1}`, decodeAjaxBody(body, "application/json", "text"))
	assert.Equal(t, map[string]any{"a": float64(1)}, decodeAjaxBody(body, "text/plain", "json"))
	assert.Nil(t, decodeAjaxBody(nil, "application/json", ""))
}

func TestAjaxCachesGets(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "max-age=60")
		_, _ = io.WriteString(w, strconv.Itoa(int(n)))
	}))
	t.Cleanup(srv.Close)
	dm, _ := setup(t, `<p></p>`)

	for range 3 {
		v, err := dm.Get(context.Background(), srv.URL+"/n", nil)
		require.NoError(t, err)
		assert.Equal(t, float64(1), v)
	}
	v, err := dm.Get(context.Background(), srv.URL+"/n", nil, AjaxOptions{NoCache: true})
	require.NoError(t, err)
	assert.Equal(t, float64(2), v)
	assert.Equal(t, int32(2), hits.Load())

	cfg := DefaultConfig()
	cfg.HTTPCacheSize = 0
	uncached := New(dom.NewHTMLDocument(), WithConfig(cfg))
	for range 2 {
		_, err := uncached.Get(context.Background(), srv.URL+"/n", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(4), hits.Load())
}

func TestAjaxRedirectLimit(t *testing.T) {
	srv := ajaxServer(t)
	mux := http.NewServeMux()
	mux.Handle("/moved", http.RedirectHandler(srv.URL+"/json", http.StatusFound))
	redirector := httptest.NewServer(mux)
	t.Cleanup(redirector.Close)

	dm, _ := setup(t, `<p></p>`)
	v, err := dm.Get(context.Background(), redirector.URL+"/moved", nil)
	require.NoError(t, err)
	assert.Equal(t, true, v.(map[string]any)["ok"])

	cfg := DefaultConfig()
	cfg.MaxRedirects = 0
	stay := New(dom.NewHTMLDocument(), WithConfig(cfg))
	_, err = stay.Get(context.Background(), redirector.URL+"/moved", nil)
	var ajaxErr *AjaxError
	require.True(t, errors.As(err, &ajaxErr))
	assert.Equal(t, http.StatusFound, ajaxErr.Status)
}

func TestAjaxRelativeURLNeedsDocumentURL(t *testing.T) {
	dm, _ := setup(t, `<p></p>`)
	_, err := dm.Get(context.Background(), "/json", nil)
	var ajaxErr *AjaxError
	require.True(t, errors.As(err, &ajaxErr))
	assert.Contains(t, err.Error(), "without a document URL")
}

func TestAjaxPostBodies(t *testing.T) {
	srv := ajaxServer(t)
	dm, _ := setup(t, `<p></p>`)

	v, err := dm.Post(context.Background(), srv.URL+"/echo", map[string]any{"a": 1},
		AjaxOptions{Headers: map[string]string{"X-Token": "t1"}})
	require.NoError(t, err)
	echo := v.(map[string]any)
	assert.Equal(t, "POST", echo["method"])
	assert.Equal(t, "application/json", echo["contentType"])
	assert.Equal(t, "t1", echo["token"])
	assert.JSONEq(t, `{"a":1}`, echo["body"].(string))

	v, err = dm.Post(context.Background(), srv.URL+"/echo", url.Values{"a": {"1"}, "b": {"2"}})
	require.NoError(t, err)
	echo = v.(map[string]any)
	assert.Equal(t, "application/x-www-form-urlencoded", echo["contentType"])
	assert.Equal(t, "a=1&b=2", echo["body"])

	v, err = dm.Ajax(context.Background(), AjaxOptions{Method: "put", URL: srv.URL + "/echo", Data: "raw"})
	require.NoError(t, err)
	echo = v.(map[string]any)
	assert.Equal(t, "PUT", echo["method"])
	assert.Equal(t, "raw", echo["body"])
}

func TestAjaxErrors(t *testing.T) {
	srv := ajaxServer(t)
	dm, _ := setup(t, `<p></p>`)

	_, err := dm.Get(context.Background(), srv.URL+"/fail", nil)
	var ajaxErr *AjaxError
	require.True(t, errors.As(err, &ajaxErr))
	assert.Equal(t, http.StatusInternalServerError, ajaxErr.Status)
	assert.Equal(t, map[string]any{"error": "boom"}, ajaxErr.Response)
	assert.Contains(t, err.Error(), "500")

	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	_, err = dm.Get(context.Background(), dead.URL+"/json", nil)
	require.True(t, errors.As(err, &ajaxErr))
	assert.Zero(t, ajaxErr.Status)
	assert.NotNil(t, errors.Unwrap(ajaxErr))

	_, err = dm.Post(context.Background(), srv.URL+"/echo", make(chan int))
	require.True(t, errors.As(err, &ajaxErr))
	assert.Zero(t, ajaxErr.Status)
}

func TestAjaxCanceledContext(t *testing.T) {
	srv := ajaxServer(t)
	dm, _ := setup(t, `<p></p>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := dm.Get(ctx, srv.URL+"/json", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
