package html

import (
	"strings"
	"testing"
)

func parse(t *testing.T, src string) *Node {
	t.Helper()
	tok := NewTokenizer([]byte(src), nil)
	tb := NewTreeBuilder(tok, nil)
	return tb.Build()
}

func TestTokenizerBasicTags(t *testing.T) {
	tok := NewTokenizer([]byte(`<div class="a b">hi &amp; bye</div>`), nil)
	var got []TokenType
	for {
		tt := tok.NextToken()
		got = append(got, tt.Type)
		if tt.Type == TokenEOF {
			break
		}
	}
	want := []TokenType{TokenStartTag, TokenCharacter, TokenEndTag, TokenEOF}
	if len(got) != len(want) {
		t.Fatalf("got %v tokens, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEntityDecoding(t *testing.T) {
	tok := NewTokenizer([]byte(`&amp;&lt;&gt;&nbsp;&unknownxyz;`), nil)
	tt := tok.NextToken()
	if tt.Type != TokenCharacter {
		t.Fatalf("expected character token, got %v", tt.Type)
	}
	if !strings.Contains(tt.Data, "&<> ") {
		t.Errorf("unexpected decoded data: %q", tt.Data)
	}
	if !strings.Contains(tt.Data, "&unknownxyz;") {
		t.Errorf("unknown entity should pass through literally, got %q", tt.Data)
	}
}

func TestTreeBuilderNestedBlocks(t *testing.T) {
	doc := parse(t, `<html><body><div id="outer"><p>hello <b>world</b></p></div></body></html>`)
	outer := doc.FindElementByID("outer")
	if outer == nil {
		t.Fatal("expected #outer to exist")
	}
	p := outer.FindElement("p")
	if p == nil {
		t.Fatal("expected nested <p>")
	}
	if p.FindElement("b") == nil {
		t.Fatal("expected nested <b> inside <p>")
	}
	if got := p.TextContent(); got != "hello world" {
		t.Errorf("text content = %q, want %q", got, "hello world")
	}
}

func TestImpliedHTMLHeadBody(t *testing.T) {
	doc := parse(t, `<p>no wrapper tags</p>`)
	html := doc.FindElement("html")
	if html == nil {
		t.Fatal("expected an implied <html> element")
	}
	if html.FindElement("body") == nil {
		t.Fatal("expected an implied <body> element")
	}
	if html.FindElement("p") == nil {
		t.Fatal("expected <p> to have been inserted under the implied tree")
	}
}

func TestAutoClosingParagraph(t *testing.T) {
	doc := parse(t, `<body><p>one<p>two</body>`)
	body := doc.FindElement("body")
	ps := body.Children()
	if len(ps) != 2 {
		t.Fatalf("expected 2 sibling <p> elements, got %d", len(ps))
	}
	if ps[0].TextContent() != "one" || ps[1].TextContent() != "two" {
		t.Errorf("unexpected paragraph contents: %q %q", ps[0].TextContent(), ps[1].TextContent())
	}
	// The first <p> must not contain the second as a child (auto-close,
	// not nesting).
	if ps[0].FindElement("p") != nil {
		t.Error("second <p> should have closed the first, not nested inside it")
	}
}

func TestListItemAutoClose(t *testing.T) {
	doc := parse(t, `<body><ul><li>a<li>b<li>c</ul></body>`)
	ul := doc.FindElement("ul")
	items := ul.Children()
	if len(items) != 3 {
		t.Fatalf("expected 3 <li> siblings, got %d", len(items))
	}
}

func TestTableFosterParenting(t *testing.T) {
	doc := parse(t, `<body><table>stray text<tr><td>cell</td></tr></table></body>`)
	body := doc.FindElement("body")
	table := body.FindElement("table")
	if table == nil {
		t.Fatal("expected a <table> element")
	}
	// Stray character data inside <table> before any cell must be foster
	// parented out of the table, landing as a previous sibling of it.
	foundStrayOutsideTable := false
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == TextNode && strings.Contains(c.Data, "stray text") {
			foundStrayOutsideTable = true
		}
	}
	if !foundStrayOutsideTable {
		t.Error("expected foster-parented text to appear as a sibling of <table>")
	}
	td := table.FindElement("td")
	if td == nil || td.TextContent() != "cell" {
		t.Errorf("expected <td>cell</td>, got %#v", td)
	}
}

func TestRawTextScriptNotParsed(t *testing.T) {
	doc := parse(t, `<body><script>if (1 < 2) { document.write("<div>"); }</script><p>after</p></body>`)
	body := doc.FindElement("body")
	script := body.FindElement("script")
	if script == nil {
		t.Fatal("expected <script> element")
	}
	if !strings.Contains(script.TextContent(), "document.write") {
		t.Errorf("script contents should be raw text, got %q", script.TextContent())
	}
	if script.FindElement("div") != nil {
		t.Error("script's raw text must not be parsed as markup")
	}
	if body.FindElement("p") == nil {
		t.Error("expected sibling <p> after the script to still parse")
	}
}

func TestCommentAndDoctype(t *testing.T) {
	doc := parse(t, `<!DOCTYPE html><!-- top level --><html><body></body></html>`)
	if doc.FirstChild == nil || doc.FirstChild.Type != DoctypeNode {
		t.Fatal("expected a leading doctype node")
	}
	foundComment := false
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == CommentNode && strings.TrimSpace(c.Data) == "top level" {
			foundComment = true
		}
	}
	if !foundComment {
		t.Error("expected the top-level comment to be preserved")
	}
}

func TestVoidElementsHaveNoChildren(t *testing.T) {
	doc := parse(t, `<body><img src="a.png"><p>text</p></body>`)
	body := doc.FindElement("body")
	img := body.FindElement("img")
	if img == nil {
		t.Fatal("expected <img>")
	}
	if img.FirstChild != nil {
		t.Error("void element must not accumulate children")
	}
	if body.FindElement("p") == nil {
		t.Error("content after a void element must still parse")
	}
}
