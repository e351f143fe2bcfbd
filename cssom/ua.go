package cssom

// userAgentCSS is the minimal default stylesheet every resolver starts
// from (spec §3's ComputedStyle needs a display default per tag since
// the cascade has no other source for it). Ported from the teacher's
// isBlockElement/getElementSpacing tag tables in gocko/layout/layout.go,
// expressed as actual CSS rather than a Go switch.
const userAgentCSS = `
html, body, div, p, section, article, header, footer, nav, main, aside,
ul, ol, li, form, fieldset, table, tr, pre, blockquote,
h1, h2, h3, h4, h5, h6, figure, figcaption, details, summary { display: block; }
tbody, thead, tfoot { display: table-row-group; }
thead tr, tbody tr, tfoot tr { display: table-row; }
td, th { display: table-cell; }
script, style, head, title, template { display: none; }
img, input, button, select, textarea { display: inline-block; }
input, button, select, textarea { cursor: default; }
a { color: #0000ee; text-decoration: underline; cursor: pointer; }
b, strong { font-weight: 700; }
i, em { font-style: italic; }
h1 { font-size: 32px; font-weight: 700; }
h2 { font-size: 24px; font-weight: 700; }
h3 { font-size: 18.72px; font-weight: 700; }
p, ul, ol { margin-top: 16px; margin-bottom: 16px; }
h1, h2, h3 { margin-top: 20px; margin-bottom: 12px; }
li { margin-top: 4px; margin-bottom: 4px; }
`

// UserAgentStylesheet returns the parsed default stylesheet.
func UserAgentStylesheet() *Stylesheet {
	return ParseStylesheet(userAgentCSS)
}
