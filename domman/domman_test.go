package domman

import (
	"bytes"
	"testing"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, markup string, opts ...Option) (*DomMan, *dom.Document) {
	t.Helper()
	doc, err := dom.ParseHTMLString(markup)
	require.NoError(t, err)
	return New(doc, opts...), doc
}

// debugLogger captures diagnostics of a DomMan in debug mode.
func debugLogger() (Option, Option, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logrus.New()
	log.Out = &buf
	log.Formatter = &logrus.TextFormatter{DisableColors: true, DisableTimestamp: true}
	cfg := DefaultConfig()
	cfg.Debug = true
	return WithConfig(cfg), WithLogger(log), &buf
}

func fire(el *dom.Element, eventType string) {
	el.AsNode().DispatchEvent(dom.NewEvent(eventType, dom.EventInit{Bubbles: true, Cancelable: true}))
}

func ids(s *Selection) []string {
	var out []string
	for _, el := range s.ToArray() {
		out = append(out, el.Id())
	}
	return out
}

func TestSelectAndWrap(t *testing.T) {
	dm, doc := setup(t, `<p id="a" class="x"></p><p id="b" class="x"></p><p id="c"></p>`)

	assert.Equal(t, []string{"a", "b"}, ids(dm.Select(".x")))
	assert.Equal(t, 0, dm.Select("").Len())
	assert.Equal(t, 0, dm.Select("p[").Len(), "invalid selectors select nothing")

	_, err := dm.SelectWithError("p[")
	assert.Error(t, err)

	s := dm.Wrap(doc.GetElementById("c"), nil)
	assert.Equal(t, 1, s.Len())
	assert.Same(t, doc.GetElementById("c"), s.First())
	assert.Nil(t, s.Get(3))
	assert.Nil(t, dm.Wrap().First())
}

func TestFrom(t *testing.T) {
	dm, doc := setup(t, `<p id="a"></p><p id="b"></p>`)
	a, b := doc.GetElementById("a"), doc.GetElementById("b")

	assert.Equal(t, []string{"a", "b"}, ids(dm.From("p")))
	assert.Equal(t, []string{"a"}, ids(dm.From(a)))
	assert.Equal(t, []string{"b"}, ids(dm.From(b.AsNode())))
	assert.Equal(t, []string{"a", "b"}, ids(dm.From([]*dom.Element{a, b})))
	assert.Equal(t, []string{"b"}, ids(dm.From(dm.Select("#b"))))
	assert.Zero(t, dm.From(nil).Len())
	assert.Zero(t, dm.From(42).Len())
}

func TestReady(t *testing.T) {
	dm, doc := setup(t, `<p></p>`)
	ran := 0
	dm.Ready(func() { ran++ })
	assert.Equal(t, 1, ran, "a complete document runs the callback at once")

	doc.SetReadyState(dom.ReadyStateLoading)
	dm.Select("p").OnReady(func() { ran++ })
	assert.Equal(t, 1, ran)
	doc.SetReadyState(dom.ReadyStateInteractive)
	assert.Equal(t, 2, ran)
	doc.SetReadyState(dom.ReadyStateComplete)
	assert.Equal(t, 2, ran)
}

func TestIsElement(t *testing.T) {
	dm, doc := setup(t, `<p id="a">text</p>`)
	a := doc.GetElementById("a")
	assert.True(t, IsElement(a))
	assert.True(t, IsElement(a.AsNode()))
	assert.False(t, IsElement(a.AsNode().FirstChild()))
	assert.False(t, IsElement("p"))
	assert.False(t, IsElement(dm.Select("p")))
}

func TestDebugDiagnosticsAreOptIn(t *testing.T) {
	quiet, _ := setup(t, `<p></p>`)
	assert.Equal(t, MemberUndefined, quiet.Select("p").Resolve("nope").Kind)

	cfg, logger, buf := debugLogger()
	dm, _ := setup(t, `<p></p>`, cfg, logger)
	dm.Select("p").Resolve("nope")
	assert.Contains(t, buf.String(), "Attempting to access undefined property 'nope'")
}
