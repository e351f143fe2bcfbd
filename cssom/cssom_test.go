package cssom

import (
	"testing"

	"gocko/cssom/values"
	"gocko/html"
)

func parseDoc(t *testing.T, src string) *html.Node {
	t.Helper()
	tok := html.NewTokenizer([]byte(src), nil)
	tb := html.NewTreeBuilder(tok, nil)
	return tb.Build()
}

func TestSpecificityOrdering(t *testing.T) {
	list := ParseSelectorList("#id, .class, div, div.class, *")
	want := []Specificity{
		{A: 1}, {B: 1}, {C: 1}, {B: 1, C: 1}, {},
	}
	if len(list.Items) != len(want) {
		t.Fatalf("got %d selectors, want %d", len(list.Items), len(want))
	}
	for i, cs := range list.Items {
		got := ComplexSpecificity(cs)
		if got != want[i] {
			t.Errorf("selector %d specificity = %+v, want %+v", i, got, want[i])
		}
	}
}

func TestDescendantCombinatorMatching(t *testing.T) {
	doc := parseDoc(t, `<html><body><div id="outer"><p class="target">x</p></div></body></html>`)
	p := doc.FindElement("p")
	list := ParseSelectorList("div p")
	if !list.Matches(NewElementView(p)) {
		t.Error("expected 'div p' to match the nested <p>")
	}
	list2 := ParseSelectorList("span p")
	if list2.Matches(NewElementView(p)) {
		t.Error("expected 'span p' not to match")
	}
}

func TestChildCombinatorMatching(t *testing.T) {
	doc := parseDoc(t, `<html><body><div><section><p>x</p></section></div></body></html>`)
	p := doc.FindElement("p")
	if ParseSelectorList("div > p").Matches(NewElementView(p)) {
		t.Error("'div > p' must not match a grandchild")
	}
	if !ParseSelectorList("section > p").Matches(NewElementView(p)) {
		t.Error("'section > p' should match the direct child")
	}
}

func TestNthChildOdd(t *testing.T) {
	doc := parseDoc(t, `<html><body><ul>`+
		`<li>1</li><li>2</li><li>3</li><li>4</li><li>5</li>`+
		`<li>6</li><li>7</li><li>8</li><li>9</li><li>10</li>`+
		`</ul></body></html>`)
	ul := doc.FindElement("ul")
	items := ul.Children()
	if len(items) != 10 {
		t.Fatalf("expected 10 <li>, got %d", len(items))
	}
	list := ParseSelectorList("li:nth-child(odd)")
	var matchedIdx []int
	for i, li := range items {
		if list.Matches(NewElementView(li)) {
			matchedIdx = append(matchedIdx, i+1)
		}
	}
	want := []int{1, 3, 5, 7, 9}
	if len(matchedIdx) != len(want) {
		t.Fatalf("matched indices = %v, want %v", matchedIdx, want)
	}
	for i := range want {
		if matchedIdx[i] != want[i] {
			t.Errorf("matched[%d] = %d, want %d", i, matchedIdx[i], want[i])
		}
	}
}

func TestCascadeSpecificityTieBreakBySourceOrder(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>hi</p></body></html>`)
	p := doc.FindElement("p")
	sheet := ParseStylesheet(`p { color: red } p { color: blue }`)
	r := NewResolver(1024, 768)
	r.Sheets = []*Stylesheet{sheet}
	style := r.ComputeStyle(p, nil)
	if style.Color.String() != "#0000ff" {
		t.Errorf("computed color = %v, want blue (#0000ff)", style.Color)
	}
}

func TestImportantBeatsSpecificity(t *testing.T) {
	doc := parseDoc(t, `<html><body><p id="x">hi</p></body></html>`)
	p := doc.FindElement("p")
	sheet := ParseStylesheet(`p { color: red !important } p#x { color: blue }`)
	r := NewResolver(1024, 768)
	r.Sheets = []*Stylesheet{sheet}
	style := r.ComputeStyle(p, nil)
	if style.Color.String() != "#ff0000" {
		t.Errorf("computed color = %v, want red (!important should win over higher specificity)", style.Color)
	}
}

func TestInheritancePropagatesColor(t *testing.T) {
	doc := parseDoc(t, `<html><body><div><span>hi</span></div></body></html>`)
	span := doc.FindElement("span")
	sheet := ParseStylesheet(`div { color: green }`)
	r := NewResolver(1024, 768)
	r.Sheets = []*Stylesheet{sheet}
	r.ResolveTree(doc)
	spanStyle := span.ComputedStyle.(*ComputedStyle)
	if spanStyle.Color.String() != "#008000" {
		t.Errorf("span should inherit color from div, got %v", spanStyle.Color)
	}
}

func TestCalcExprEvaluation(t *testing.T) {
	l, err := values.ParseLength("calc(100% - 20px)")
	if err != nil {
		t.Fatal(err)
	}
	ctx := values.DefaultContext()
	ctx.ParentWidth = 200
	got := l.Resolve(ctx)
	if got != 180 {
		t.Errorf("calc(100%% - 20px) with parent width 200 = %v, want 180", got)
	}
}

func TestAttributeSelector(t *testing.T) {
	doc := parseDoc(t, `<html><body><input type="checkbox" checked></body></html>`)
	input := doc.FindElement("input")
	if !ParseSelectorList(`input[type="checkbox"]`).Matches(NewElementView(input)) {
		t.Error("expected attribute selector to match")
	}
	if !ParseSelectorList(`input:checked`).Matches(NewElementView(input)) {
		t.Error("expected :checked to match a checked input")
	}
}
