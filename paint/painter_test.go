package paint

import (
	"testing"

	"gocko/cssom"
	"gocko/html"
	"gocko/layout"
)

func buildTree(t *testing.T, src, sheet string, vw, vh float64) *layout.LayoutNode {
	t.Helper()
	tok := html.NewTokenizer([]byte(src), nil)
	tb := html.NewTreeBuilder(tok, nil)
	doc := tb.Build()
	r := cssom.NewResolver(vw, vh)
	if sheet != "" {
		r.Sheets = []*cssom.Stylesheet{cssom.ParseStylesheet(sheet)}
	}
	r.ResolveTree(doc)
	e := layout.NewEngine(vw, vh, nil, nil)
	return e.Layout(doc)
}

func TestDisplayListBalance(t *testing.T) {
	root := buildTree(t, `<div style="overflow:hidden;transform:rotate(10deg)"><p>hi</p></div>`, "", 400, 300)
	p := NewPainter(nil, nil)
	dl := p.PaintTree(root)
	if !dl.Balanced() {
		t.Fatalf("display list not balanced: %#v", dl.Commands)
	}
}

func TestLinkRegionEmitted(t *testing.T) {
	root := buildTree(t, `<a href="https://example.com">click</a>`, "", 400, 300)
	p := NewPainter(nil, nil)
	dl := p.PaintTree(root)
	if len(dl.LinkRegions) == 0 {
		t.Fatal("expected at least one link region")
	}
	found := false
	for _, lr := range dl.LinkRegions {
		if lr.Href == "https://example.com" {
			found = true
		}
	}
	if !found {
		t.Errorf("link region href mismatch: %#v", dl.LinkRegions)
	}
}

func TestDetailsToggleRegion(t *testing.T) {
	root := buildTree(t, `<details><summary>More</summary><p>content</p></details>`, "", 400, 300)
	p := NewPainter(nil, nil)
	dl := p.PaintTree(root)
	if len(dl.DetailsToggleRegions) != 1 {
		t.Fatalf("expected 1 details-toggle region, got %d", len(dl.DetailsToggleRegions))
	}
	if dl.DetailsToggleRegions[0].DetailsID == "" {
		t.Error("details_id must be non-empty")
	}
}

func TestFormSubmitRegion(t *testing.T) {
	root := buildTree(t, `<button type="submit">Go</button><input type="submit" value="Send">`, "", 400, 300)
	p := NewPainter(nil, nil)
	dl := p.PaintTree(root)
	if len(dl.FormSubmitRegions) != 2 {
		t.Fatalf("expected 2 form-submit regions, got %d", len(dl.FormSubmitRegions))
	}
}

func TestBackgroundColorFillRectEmitted(t *testing.T) {
	root := buildTree(t, `<div id="box">x</div>`, `#box { background-color: #ff0000; width: 50px; height: 50px; }`, 400, 300)
	p := NewPainter(nil, nil)
	dl := p.PaintTree(root)
	foundRed := false
	for _, cmd := range dl.Commands {
		if fr, ok := cmd.(FillRect); ok && fr.Color.String() == "#ff0000" {
			foundRed = true
		}
	}
	if !foundRed {
		t.Error("expected a red FillRect command for #box's background-color")
	}
}

func TestParseBoxShadow(t *testing.T) {
	sv := parseBoxShadow("2px 4px 10px 0px rgba(0, 0, 0, 0.50)")
	if sv == nil {
		t.Fatal("expected non-nil box-shadow")
	}
	if sv.OffsetX != 2 || sv.OffsetY != 4 || sv.Blur != 10 || sv.Spread != 0 {
		t.Errorf("unexpected offsets/blur/spread: %+v", sv)
	}
	if sv.Inset {
		t.Error("expected non-inset shadow")
	}
}

func TestParseLinearGradient(t *testing.T) {
	g, ok := parseGradient("linear-gradient(45deg, red, blue)")
	if !ok {
		t.Fatal("expected gradient to parse")
	}
	if g.Kind != "linear" || g.Angle != 45 {
		t.Errorf("unexpected kind/angle: %+v", g)
	}
	if len(g.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(g.Stops))
	}
}
