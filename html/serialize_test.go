package html

import "testing"

func TestOuterHTMLRoundTripsSimpleElement(t *testing.T) {
	n := NewElement("div")
	n.SetAttribute("id", "box")
	n.AppendChild(NewText("hi & bye"))

	got := n.OuterHTML()
	want := `<div id="box">hi &amp; bye</div>`
	if got != want {
		t.Errorf("OuterHTML() = %q, want %q", got, want)
	}
}

func TestOuterHTMLOmitsClosingTagForVoidElements(t *testing.T) {
	n := NewElement("br")
	if got := n.OuterHTML(); got != "<br>" {
		t.Errorf("OuterHTML() = %q, want %q", got, "<br>")
	}
}

func TestInnerHTMLSerializesOnlyChildren(t *testing.T) {
	parent := NewElement("p")
	parent.AppendChild(NewText("a"))
	child := NewElement("b")
	child.AppendChild(NewText("bold"))
	parent.AppendChild(child)

	if got, want := parent.InnerHTML(), "a<b>bold</b>"; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
}
