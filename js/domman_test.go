package js

import (
	"bytes"
	"testing"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/chrisuehlinger/domman/domman"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<ul id="list"><li class="item" id="a">A</li><li class="item" id="b">B</li></ul>
<p id="out"></p>
<input id="name" value="x">
</body></html>`

func bound(t *testing.T) (*Runtime, *dom.Document, *bytes.Buffer) {
	t.Helper()
	doc, err := dom.ParseHTMLString(page)
	require.NoError(t, err)
	r, out := newTestRuntime(t)
	Bind(r, domman.New(doc, domman.WithLoop(r.Loop())))
	return r, doc, out
}

func TestSelectionFromScript(t *testing.T) {
	r, doc, _ := bound(t)

	assert.EqualValues(t, 2, eval(t, r, `$d(".item").length`))
	assert.EqualValues(t, 0, eval(t, r, `domMan(".none").length`))
	assert.Equal(t, "A", eval(t, r, `$d("#a").text()`))
	assert.Equal(t, true, eval(t, r, `var s = $d(".item"); s.addClass("on") === s`))
	assert.Equal(t, "item on", doc.GetElementById("b").GetAttribute("class"))
	assert.Equal(t, true, eval(t, r, `"addClass" in $d("#a") && "0" in $d("#a") && !("1" in $d("#a"))`))
}

func TestIndexAccess(t *testing.T) {
	r, _, _ := bound(t)

	assert.Equal(t, "b", eval(t, r, `$d(".item")[1].id`))
	assert.Equal(t, true, eval(t, r, `$d(".item")[5] === undefined`))
	assert.Equal(t, true, eval(t, r, `$d(".item")[0] === $d("#a")[0]`))
	assert.Equal(t, "A", eval(t, r, `$d(".item")[0].textContent`))
	assert.Equal(t, true, eval(t, r, `$d([$d("#a")[0], $d("#b")[0]]).length === 2`))
	assert.Equal(t, "a", eval(t, r, `$d($d("#a")[0]).attr("id")`))
}

func TestUndefinedMember(t *testing.T) {
	r, _, _ := bound(t)

	assert.Equal(t, "undefined", eval(t, r, `typeof $d("#a").noSuchThing`))
	assert.Equal(t, false, eval(t, r, `"noSuchThing" in $d("#a")`))
}

func TestEventsFromScript(t *testing.T) {
	r, doc, _ := bound(t)

	eval(t, r, `
		var hits = [];
		function record(e) { hits.push(this.id + ":" + e.type); }
		$d(".item").on("click", record);
		$d("#a").click();
		$d(".item").off("click", record);
		$d("#a").click();
	`)
	assert.Equal(t, "a:click", eval(t, r, `hits.join(",")`))

	eval(t, r, `
		var delegated = [];
		$d("#list").on("click", ".item", function (e) {
			delegated.push(this.id);
			e.preventDefault();
		});
	`)
	fire := dom.NewEvent("click", dom.EventInit{Bubbles: true, Cancelable: true})
	doc.GetElementById("b").AsNode().DispatchEvent(fire)
	assert.Equal(t, "b", eval(t, r, `delegated.join(",")`))
	assert.True(t, fire.DefaultPrevented())
}

func TestEventShorthandFromScript(t *testing.T) {
	r, _, _ := bound(t)

	eval(t, r, `
		var n = 0;
		$d("#b").click(function () { n++; });
		$d("#b").over(function () { n += 10; });
		$d("#b")[0].click();
		$d("#b").trigger("mouseover");
	`)
	assert.EqualValues(t, 11, eval(t, r, `n`))
}

func TestPropertyAndStyleAccess(t *testing.T) {
	r, doc, _ := bound(t)

	assert.Equal(t, "x", eval(t, r, `$d("#name").value()`))
	eval(t, r, `$d("#name").value = "y"`)
	assert.Equal(t, "y", eval(t, r, `$d("#name")[0].value`))

	eval(t, r, `$d("#out")[0].textContent = "hello"`)
	assert.Equal(t, "hello", doc.GetElementById("out").TextContent())

	eval(t, r, `$d("#out").color = "red"`)
	assert.Contains(t, doc.GetElementById("out").GetAttribute("style"), "red")
}

func TestEachFromScript(t *testing.T) {
	r, _, _ := bound(t)

	assert.Equal(t, "0a,1b", eval(t, r, `
		var seen = [];
		$d(".item").each(function (i, el) { seen.push(i + this.id); });
		seen.join(",")
	`))
}

func TestExtendFromScript(t *testing.T) {
	r, doc, _ := bound(t)

	assert.Equal(t, true, eval(t, r, `$d.extend({}) === $d`))
	assert.Equal(t, true, eval(t, r, `
		$d.extend({
			highlight: function (color) {
				this.css("color", color);
				return this;
			}
		});
		var s = $d("#a");
		s.highlight("blue") === s
	`))
	assert.Contains(t, doc.GetElementById("a").GetAttribute("style"), "blue")
}

func TestStaticsFromScript(t *testing.T) {
	r, doc, _ := bound(t)

	assert.Equal(t, true, eval(t, r, `$d.isValidSelector("#ok")`))
	assert.Equal(t, `{"a":[1,2]}`, eval(t, r, `JSON.stringify($d.deepClone({a: [1, 2]}))`))

	eval(t, r, `$d("#out").append($d.create("span", {textContent: "hi"}))`)
	out := doc.GetElementById("out")
	require.NotNil(t, out.QuerySelector("span"))
	assert.Equal(t, "hi", out.QuerySelector("span").TextContent())

	eval(t, r, `$d.setLocalStorage("prefs", {dark: true})`)
	assert.Equal(t, true, eval(t, r, `$d.getLocalStorage("prefs").dark`))
	assert.Equal(t, `{"dark":true}`, eval(t, r, `localStorage.getItem("prefs")`))
}

func TestErrorsThrowIntoScript(t *testing.T) {
	r, _, _ := bound(t)

	_, err := r.Execute(`$d.deepClone(function () {})`)
	assert.Error(t, err)

	_, err = r.Execute(`$d("#a")[0].matches("[[")`)
	assert.Error(t, err)

	assert.Equal(t, "caught", eval(t, r, `
		var r;
		try { $d.deepClone(function () {}); r = "missed"; } catch (e) { r = "caught"; }
		r
	`))
}

func TestNoConflict(t *testing.T) {
	doc, err := dom.ParseHTMLString(page)
	require.NoError(t, err)
	r, _ := newTestRuntime(t)
	eval(t, r, `var $d = "earlier";`)
	Bind(r, domman.New(doc, domman.WithLoop(r.Loop())))

	assert.Equal(t, true, eval(t, r, `var dm = $d.noConflict(); dm === domMan`))
	assert.Equal(t, "earlier", eval(t, r, `$d`))
	assert.Equal(t, "A", eval(t, r, `dm("#a").text()`))

	assert.Equal(t, true, eval(t, r, `dm.noConflict(true) === dm`))
	assert.Equal(t, "undefined", eval(t, r, `typeof domMan`))
	assert.Equal(t, "earlier", eval(t, r, `$d`))
}
