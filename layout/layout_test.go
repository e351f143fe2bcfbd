package layout

import (
	"testing"

	"gocko/cssom"
	"gocko/html"
)

func parseAndStyle(t *testing.T, src string, sheet string, vw, vh float64) *html.Node {
	t.Helper()
	tok := html.NewTokenizer([]byte(src), nil)
	tb := html.NewTreeBuilder(tok, nil)
	doc := tb.Build()
	r := cssom.NewResolver(vw, vh)
	if sheet != "" {
		r.Sheets = []*cssom.Stylesheet{cssom.ParseStylesheet(sheet)}
	}
	r.ResolveTree(doc)
	return doc
}

func TestNestedBlocksUnderPadding(t *testing.T) {
	doc := parseAndStyle(t, `<div style="padding:30px"><div style="padding:10px"><div style="height:20px"></div></div></div>`, "", 800, 600)
	e := NewEngine(800, 600, nil, nil)
	root := e.Layout(doc)

	if root.Geometry.Width != 800 {
		t.Errorf("root width = %v, want 800", root.Geometry.Width)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 child under root, got %d", len(root.Children))
	}
	first := root.Children[0]
	if first.Geometry.Width != 740 {
		t.Errorf("first child width = %v, want 740", first.Geometry.Width)
	}
	if len(first.Children) != 1 {
		t.Fatalf("expected 1 grandchild, got %d", len(first.Children))
	}
	grandchild := first.Children[0]
	if grandchild.Geometry.Width != 720 {
		t.Errorf("grandchild width = %v, want 720", grandchild.Geometry.Width)
	}
	if grandchild.Geometry.Height != 20 {
		t.Errorf("grandchild height = %v, want 20", grandchild.Geometry.Height)
	}
	if root.Geometry.Height < 80 {
		t.Errorf("root height = %v, want >= 80", root.Geometry.Height)
	}
}

func TestFlexGrowDistribution(t *testing.T) {
	doc := parseAndStyle(t,
		`<div id="parent"><div id="a"></div><div id="b"></div></div>`,
		`#parent { display: flex; width: 800px; }
		 #a { flex-basis: 100px; flex-grow: 1; }
		 #b { flex-basis: 100px; flex-grow: 3; }`,
		800, 600)
	e := NewEngine(800, 600, nil, nil)
	root := e.Layout(doc)
	parent := root.FindElementBox("parent")
	if parent == nil {
		t.Fatal("did not find #parent box")
	}
	if len(parent.Children) != 2 {
		t.Fatalf("expected 2 flex children, got %d", len(parent.Children))
	}
	a, b := parent.Children[0], parent.Children[1]
	if a.Geometry.Width != 250 {
		t.Errorf("item a width = %v, want 250", a.Geometry.Width)
	}
	if b.Geometry.Width != 550 {
		t.Errorf("item b width = %v, want 550", b.Geometry.Width)
	}
}

func TestMarginBoxWidthInvariant(t *testing.T) {
	g := Geometry{
		Width:   100,
		Height:  50,
		Margin:  Edges{Top: 5, Right: 5, Bottom: 5, Left: 5},
		Border:  Edges{Top: 1, Right: 1, Bottom: 1, Left: 1},
		Padding: Edges{Top: 2, Right: 2, Bottom: 2, Left: 2},
	}
	want := g.Margin.Left + g.Border.Left + g.Padding.Left + g.Width + g.Padding.Right + g.Border.Right + g.Margin.Right
	if g.MarginBoxWidth() != want {
		t.Errorf("MarginBoxWidth = %v, want %v", g.MarginBoxWidth(), want)
	}
}
