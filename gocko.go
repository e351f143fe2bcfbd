// Package gocko wires the tokenizer, cascade, layout, paint, and
// rasterizer stages into the single entry point spec §6 describes:
// render_html(html, base_url, viewport_w, viewport_h) -> RenderResult,
// running once per call on the caller's goroutine with no internal
// suspension (§6's "single-threaded cooperative inside a render").
package gocko

import (
	"fmt"
	"image"
	"strings"

	"go.uber.org/zap"

	"gocko/cssom"
	"gocko/cssom/values"
	"gocko/html"
	"gocko/layout"
	"gocko/paint"
	"gocko/raster"
)

// StickyElement is one sticky-positioned box reported so the shell can
// composite it against live scroll state (spec §6's "sticky_elements").
// PixelSnapshot is left for the shell to fill in after a scroll, since
// only it knows the viewport's current scroll offset; render_html emits
// the box's own static geometry, not a pre-rendered bitmap.
type StickyElement struct {
	AbsY            float64
	Height          float64
	TopOffset       float64
	ContainerTop    float64
	ContainerBottom float64
	PixelSnapshot   image.Image
}

// RenderResult is the render core's full output (spec §6).
type RenderResult struct {
	Pixels *image.RGBA

	PageTitle  string
	FaviconURL string

	Links              []paint.LinkRegion
	CursorRegions      []paint.CursorRegion
	FormSubmitRegions  []paint.FormSubmitRegion
	DetailsToggles     []paint.DetailsToggleRegion
	SelectClickRegions []paint.SelectRegion
	ElementRegions     []paint.ElementRegion

	IDPositions map[string]float64

	MetaRefreshDelay float64
	MetaRefreshURL   string
	HasMetaRefresh   bool

	SelectionColor   values.Color
	SelectionBgColor values.Color
	HasSelectionRule bool

	StickyElements []StickyElement
}

// Engine bundles the dependencies render_html needs across calls:
// a measurer/text renderer (normally rfont's, or a caller's own font
// backend) and a shared logger, so repeated renders of the same page
// (e.g. after a script mutation) don't re-resolve these every time.
type Engine struct {
	MeasureText layout.MeasureTextFunc
	TextRender  raster.TextRenderer
	LoadImage   paint.ImageLoader
	Log         *zap.Logger
}

// NewEngine builds an Engine from the callbacks a shell provides; any
// nil callback falls back to the package defaults layout/paint already
// apply (a char-count heuristic, a no-op image loader, nothing drawn
// for text).
func NewEngine(measure layout.MeasureTextFunc, textRender raster.TextRenderer, loadImage paint.ImageLoader, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{MeasureText: measure, TextRender: textRender, LoadImage: loadImage, Log: log}
}

// RenderHTML parses src, cascades cssText (author-origin, in source
// order) over the user-agent sheet, lays the result out against
// viewportW x viewportH, paints it to a display list, and rasterizes
// that list to pixels — spec §6's render_html, minus network/script
// collaborators, which the caller completes before calling this (the
// same "no mid-render suspension" boundary §6 describes).
func (e *Engine) RenderHTML(src string, cssText []string, viewportW, viewportH float64) (*RenderResult, error) {
	tok := html.NewTokenizer([]byte(src), e.Log)
	tb := html.NewTreeBuilder(tok, e.Log)
	doc := tb.Build()

	resolver := cssom.NewResolver(viewportW, viewportH)
	for _, css := range cssText {
		resolver.Sheets = append(resolver.Sheets, cssom.ParseStylesheet(css))
	}
	resolver.ResolveTree(doc)

	layoutEngine := layout.NewEngine(viewportW, viewportH, e.MeasureText, e.Log)
	root := layoutEngine.Layout(doc)

	painter := paint.NewPainter(e.LoadImage, e.Log)
	dl := painter.PaintTree(root)

	rast := raster.New(int(viewportW), int(viewportH), e.TextRender, e.Log)
	if err := rast.Execute(dl); err != nil {
		return nil, fmt.Errorf("gocko: rasterizing display list: %w", err)
	}

	result := &RenderResult{
		Pixels:             rast.Image(),
		PageTitle:          pageTitle(doc),
		FaviconURL:         faviconURL(doc),
		Links:              dl.LinkRegions,
		CursorRegions:      dl.CursorRegions,
		FormSubmitRegions:  dl.FormSubmitRegions,
		DetailsToggles:     dl.DetailsToggleRegions,
		SelectClickRegions: dl.SelectRegions,
		ElementRegions:     dl.ElementRegions,
		IDPositions:        idPositions(root),
		StickyElements:     stickyElements(root),
	}
	result.MetaRefreshDelay, result.MetaRefreshURL, result.HasMetaRefresh = metaRefresh(doc)
	result.SelectionColor, result.SelectionBgColor, result.HasSelectionRule = selectionColors(resolver)
	return result, nil
}

// pageTitle implements spec §6's "from <title> or first <h1>" rule.
func pageTitle(doc *html.Node) string {
	if title := doc.FindElement("title"); title != nil {
		if t := strings.TrimSpace(title.TextContent()); t != "" {
			return t
		}
	}
	if h1 := doc.FindElement("h1"); h1 != nil {
		return strings.TrimSpace(h1.TextContent())
	}
	return ""
}

// faviconURL implements spec §6's "from <link rel=icon> or default
// /favicon.ico" rule.
func faviconURL(doc *html.Node) string {
	found := ""
	doc.Walk(func(n *html.Node) {
		if found != "" || n.Type != html.ElementNode || n.Tag != "link" {
			return
		}
		rel := strings.ToLower(n.Attr("rel"))
		if rel == "icon" || rel == "shortcut icon" {
			found = n.Attr("href")
		}
	})
	if found == "" {
		return "/favicon.ico"
	}
	return found
}

// metaRefresh reads <meta http-equiv=refresh content="N; url=...">.
func metaRefresh(doc *html.Node) (delay float64, url string, ok bool) {
	doc.Walk(func(n *html.Node) {
		if ok || n.Type != html.ElementNode || n.Tag != "meta" {
			return
		}
		if !strings.EqualFold(n.Attr("http-equiv"), "refresh") {
			return
		}
		content := n.Attr("content")
		parts := strings.SplitN(content, ";", 2)
		var d float64
		if _, err := fmt.Sscanf(strings.TrimSpace(parts[0]), "%f", &d); err != nil {
			return
		}
		u := ""
		if len(parts) > 1 {
			if i := strings.Index(strings.ToLower(parts[1]), "url="); i >= 0 {
				u = strings.TrimSpace(parts[1][i+4:])
				u = strings.Trim(u, `"'`)
			}
		}
		delay, url, ok = d, u, true
	})
	return
}

// idPositions implements spec §6's "map from element id to Y offset"
// for anchor scrolling.
func idPositions(root *layout.LayoutNode) map[string]float64 {
	out := make(map[string]float64)
	root.Walk(func(n *layout.LayoutNode) {
		if n.DOMNode == nil {
			return
		}
		if id := n.DOMNode.ID(); id != "" {
			out[id] = n.Geometry.Y
		}
	})
	return out
}

// selectionColors scans the resolved stylesheets for a `::selection`
// rule (spec §6's "selection_color, selection_bg_color from
// ::selection"). Later-declared rules win, matching the cascade's
// source-order tiebreak for equal specificity; gocko's cascade doesn't
// run pseudo-element rules through ComputeStyle at all (there is no
// element to compute a style for), so this reads them directly off the
// parsed stylesheets instead.
func selectionColors(r *cssom.Resolver) (color, bg values.Color, ok bool) {
	sheets := append([]*cssom.Stylesheet{r.UserAgent}, r.Sheets...)
	for _, sheet := range sheets {
		if sheet == nil {
			continue
		}
		for _, rule := range sheet.Rules {
			if !selectsSelectionPseudo(rule.Selectors) {
				continue
			}
			for _, decl := range rule.Declarations {
				switch decl.Property {
				case "color":
					if c, err := values.ParseColor(decl.Value); err == nil {
						color, ok = c, true
					}
				case "background-color", "background":
					if c, err := values.ParseColor(decl.Value); err == nil {
						bg, ok = c, true
					}
				}
			}
		}
	}
	return
}

func selectsSelectionPseudo(list *cssom.SelectorList) bool {
	if list == nil {
		return false
	}
	for _, cs := range list.Items {
		if len(cs.Parts) == 0 {
			continue
		}
		subject := cs.Parts[len(cs.Parts)-1].Compound
		for _, s := range subject.Simples {
			if s.Kind == cssom.SimplePseudoElement && s.Name == "selection" {
				return true
			}
		}
	}
	return false
}

// stickyElements walks the box tree for PositionSticky boxes, reporting
// their static in-flow geometry; the shell fills in PixelSnapshot once
// it knows the live scroll offset.
func stickyElements(root *layout.LayoutNode) []StickyElement {
	var out []StickyElement
	root.Walk(func(n *layout.LayoutNode) {
		if n.Position != layout.PositionSticky {
			return
		}
		containerTop, containerBottom := 0.0, 0.0
		if n.Parent != nil {
			containerTop = n.Parent.Geometry.ContentTop()
			containerBottom = containerTop + n.Parent.Geometry.Height
		}
		out = append(out, StickyElement{
			AbsY:            n.Geometry.Y,
			Height:          n.Geometry.MarginBoxHeight(),
			TopOffset:       n.OffsetTop,
			ContainerTop:    containerTop,
			ContainerBottom: containerBottom,
		})
	})
	return out
}
