package gocko

import "testing"

func TestRenderHTMLProducesPixelsAndTitle(t *testing.T) {
	e := NewEngine(nil, nil, nil, nil)
	result, err := e.RenderHTML(`
		<html><head><title>Hello</title></head>
		<body><div id="box">content</div></body></html>
	`, []string{`#box { width: 100px; height: 50px; background: #ff0000; }`}, 800, 600)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if result.Pixels == nil {
		t.Fatal("expected non-nil pixel buffer")
	}
	if result.PageTitle != "Hello" {
		t.Errorf("PageTitle = %q, want %q", result.PageTitle, "Hello")
	}
	if result.FaviconURL != "/favicon.ico" {
		t.Errorf("FaviconURL = %q, want default", result.FaviconURL)
	}
	if y, ok := result.IDPositions["box"]; !ok {
		t.Error("expected an id_positions entry for #box")
	} else if y < 0 {
		t.Errorf("unexpected negative Y offset %v for #box", y)
	}
}

func TestRenderHTMLFallsBackToFirstH1Title(t *testing.T) {
	e := NewEngine(nil, nil, nil, nil)
	result, err := e.RenderHTML(`<html><body><h1>Fallback</h1></body></html>`, nil, 400, 300)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if result.PageTitle != "Fallback" {
		t.Errorf("PageTitle = %q, want %q", result.PageTitle, "Fallback")
	}
}

func TestRenderHTMLParsesMetaRefresh(t *testing.T) {
	e := NewEngine(nil, nil, nil, nil)
	result, err := e.RenderHTML(
		`<html><head><meta http-equiv="refresh" content="5; url=https://example.com/next"></head><body></body></html>`,
		nil, 400, 300)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !result.HasMetaRefresh {
		t.Fatal("expected HasMetaRefresh = true")
	}
	if result.MetaRefreshDelay != 5 {
		t.Errorf("MetaRefreshDelay = %v, want 5", result.MetaRefreshDelay)
	}
	if result.MetaRefreshURL != "https://example.com/next" {
		t.Errorf("MetaRefreshURL = %q, want %q", result.MetaRefreshURL, "https://example.com/next")
	}
}

func TestRenderHTMLReadsSelectionColors(t *testing.T) {
	e := NewEngine(nil, nil, nil, nil)
	result, err := e.RenderHTML(`<html><body><p>hi</p></body></html>`,
		[]string{`::selection { color: #ffffff; background-color: #0000ff; }`}, 400, 300)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !result.HasSelectionRule {
		t.Fatal("expected HasSelectionRule = true")
	}
	if result.SelectionColor.R != 0xff || result.SelectionColor.G != 0xff || result.SelectionColor.B != 0xff {
		t.Errorf("SelectionColor = %+v, want white", result.SelectionColor)
	}
	if result.SelectionBgColor.B != 0xff {
		t.Errorf("SelectionBgColor = %+v, want blue", result.SelectionBgColor)
	}
}
