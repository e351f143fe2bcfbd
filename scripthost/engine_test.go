package scripthost

import (
	"testing"

	"gocko/html"
)

func buildDOM(t *testing.T, src string) *html.Node {
	t.Helper()
	tok := html.NewTokenizer([]byte(src), nil)
	tb := html.NewTreeBuilder(tok, nil)
	return tb.Build()
}

func TestGetElementByIdAndTextContent(t *testing.T) {
	root := buildDOM(t, `<div id="box">hello</div>`)
	e := New(root, nil)
	v, err := e.Run(`document.getElementById("box").textContent`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.String() != "hello" {
		t.Errorf("textContent = %q, want %q", v.String(), "hello")
	}
}

func TestSetTextContentReplacesChildren(t *testing.T) {
	root := buildDOM(t, `<div id="box">old</div>`)
	e := New(root, nil)
	if _, err := e.Run(`document.getElementById("box").textContent = "new"`); err != nil {
		t.Fatalf("run: %v", err)
	}
	node := root.FindElementByID("box")
	if got := node.TextContent(); got != "new" {
		t.Errorf("TextContent() = %q, want %q", got, "new")
	}
}

func TestQuerySelectorMatchesRealSelectorEngine(t *testing.T) {
	root := buildDOM(t, `<article><div class="intro"><p>inside</p></div></article><p>outside</p>`)
	e := New(root, nil)
	v, err := e.Run(`document.querySelector("article .intro p").textContent`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.String() != "inside" {
		t.Errorf("querySelector result textContent = %q, want %q", v.String(), "inside")
	}
}

func TestAddEventListenerAndClick(t *testing.T) {
	root := buildDOM(t, `<button id="btn">go</button>`)
	e := New(root, nil)
	_, err := e.Run(`
		var clicked = false;
		document.getElementById("btn").addEventListener("click", function(evt) {
			clicked = evt.type === "click";
		});
	`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	btn := root.FindElementByID("btn")
	e.DispatchClick(btn)
	v, err := e.Run(`clicked`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !v.ToBoolean() {
		t.Error("expected the click listener to have fired")
	}
}

func TestCreateElementAndAppendChild(t *testing.T) {
	root := buildDOM(t, `<div id="parent"></div>`)
	e := New(root, nil)
	_, err := e.Run(`
		var el = document.createElement("span");
		el.textContent = "child";
		document.getElementById("parent").appendChild(el);
	`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	parent := root.FindElementByID("parent")
	children := parent.Children()
	if len(children) != 1 || children[0].Tag != "span" {
		t.Fatalf("expected one span child, got %#v", children)
	}
	if got := children[0].TextContent(); got != "child" {
		t.Errorf("appended child textContent = %q, want %q", got, "child")
	}
}

func TestEvaluateReportsMutations(t *testing.T) {
	root := buildDOM(t, `<div id="parent"><span id="box">old</span></div>`)
	e := New(root, nil)

	muts, err := e.Evaluate(`
		var box = document.getElementById("box");
		box.textContent = "new";
		box.setAttribute("data-seen", "yes");
	`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(muts) != 2 {
		t.Fatalf("got %d mutations, want 2: %#v", len(muts), muts)
	}
	if muts[0].Kind != MutationSetText || muts[0].NodeRef != "#box" || muts[0].Value != "new" {
		t.Errorf("mutation 0 = %#v, want set_text on #box = %q", muts[0], "new")
	}
	if muts[1].Kind != MutationSetAttribute || muts[1].Name != "data-seen" || muts[1].Value != "yes" {
		t.Errorf("mutation 1 = %#v, want set_attribute data-seen = %q", muts[1], "yes")
	}

	// A second Evaluate call starts its own mutation log rather than
	// accumulating across calls.
	muts2, err := e.Evaluate(`document.getElementById("parent").appendChild(document.createElement("p"));`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(muts2) != 1 || muts2[0].Kind != MutationAppendChild {
		t.Fatalf("second evaluate mutations = %#v, want one append_child", muts2)
	}
}

func TestEngineSatisfiesScriptEngineInterface(t *testing.T) {
	var _ ScriptEngine = New(nil, nil)
}

func TestGetSetAttribute(t *testing.T) {
	root := buildDOM(t, `<div id="box" data-x="1"></div>`)
	e := New(root, nil)
	v, err := e.Run(`
		var box = document.getElementById("box");
		box.setAttribute("data-x", "2");
		box.getAttribute("data-x");
	`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.String() != "2" {
		t.Errorf("getAttribute after set = %q, want %q", v.String(), "2")
	}
}
