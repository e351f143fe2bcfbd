package html

import (
	"strings"

	"go.uber.org/zap"
)

// InsertionMode is the tree builder's insertion-mode state (spec §4.2).
type InsertionMode int

const (
	ModeInitial InsertionMode = iota
	ModeBeforeHTML
	ModeBeforeHead
	ModeInHead
	ModeAfterHead
	ModeInBody
	ModeText
	ModeInTable
	ModeInTableBody
	ModeInRow
	ModeInCell
	ModeAfterBody
	ModeAfterAfterBody
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func isVoidElement(tag string) bool { return voidElements[tag] }

var formattingElements = map[string]bool{
	"a": true, "b": true, "big": true, "code": true, "em": true, "font": true,
	"i": true, "nobr": true, "s": true, "small": true, "strike": true,
	"strong": true, "tt": true, "u": true,
}

var rcdataTags = map[string]bool{"title": true, "textarea": true}
var rawtextTags = map[string]bool{
	"style": true, "xmp": true, "iframe": true, "noembed": true,
	"noframes": true, "noscript": true,
}
var scriptTags = map[string]bool{"script": true}

var impliedEndTagSet = map[string]bool{
	"li": true, "dd": true, "dt": true, "p": true, "rb": true, "rp": true,
	"rt": true, "optgroup": true, "option": true, "tr": true, "td": true,
	"th": true,
}

var defaultScopeLimiters = map[string]bool{
	"html": true, "table": true, "template": true, "caption": true,
	"td": true, "th": true, "button": true, "marquee": true, "object": true,
}

var tableScopeLimiters = map[string]bool{
	"html": true, "table": true, "template": true,
}

// discardsWhitespace reports the modes where leading whitespace characters are
// discarded rather than becoming text nodes (spec §4.2).
func discardsWhitespace(m InsertionMode) bool {
	switch m {
	case ModeInitial, ModeBeforeHTML, ModeBeforeHead, ModeAfterHead, ModeAfterBody:
		return true
	}
	return false
}

// TreeBuilder consumes a token stream and builds a DOM tree. Construction
// is destructive — a TreeBuilder is single-use (spec §4.2).
type TreeBuilder struct {
	tok  *Tokenizer
	log  *zap.Logger
	doc  *Node
	open []*Node

	head *Node
	body *Node

	mode         InsertionMode
	originalMode InsertionMode

	// simplified active-formatting list: tags opened by a formatting
	// start tag that are still open, most recent last.
	formatting []*Node

	fosterParenting bool
	quirks          bool
}

// NewTreeBuilder creates a builder over tok. log may be nil.
func NewTreeBuilder(tok *Tokenizer, log *zap.Logger) *TreeBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	return &TreeBuilder{tok: tok, log: log, doc: NewDocument(), mode: ModeInitial}
}

// Build runs the tokenizer to completion and returns the parsed document.
func (tb *TreeBuilder) Build() *Node {
	for {
		tok := tb.tok.NextToken()
		tb.dispatchLoop(tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return tb.doc
}

func (tb *TreeBuilder) dispatchLoop(tok Token) {
	for {
		if !tb.dispatch(tok) {
			return
		}
	}
}

// dispatch processes tok under the current mode. It returns true when the
// caller should reprocess the SAME token because the mode changed without
// consuming it (the standard "anything else: switch mode and reprocess").
func (tb *TreeBuilder) dispatch(tok Token) bool {
	switch tb.mode {
	case ModeInitial:
		return tb.inInitial(tok)
	case ModeBeforeHTML:
		return tb.inBeforeHTML(tok)
	case ModeBeforeHead:
		return tb.inBeforeHead(tok)
	case ModeInHead:
		return tb.inHead(tok)
	case ModeAfterHead:
		return tb.inAfterHead(tok)
	case ModeInBody:
		return tb.inBody(tok)
	case ModeText:
		return tb.inText(tok)
	case ModeInTable:
		return tb.inTable(tok)
	case ModeInTableBody:
		return tb.inTableBody(tok)
	case ModeInRow:
		return tb.inRow(tok)
	case ModeInCell:
		return tb.inCell(tok)
	case ModeAfterBody:
		return tb.inAfterBody(tok)
	case ModeAfterAfterBody:
		return tb.inAfterAfterBody(tok)
	}
	return false
}

func (tb *TreeBuilder) current() *Node {
	if len(tb.open) == 0 {
		return nil
	}
	return tb.open[len(tb.open)-1]
}

func (tb *TreeBuilder) push(n *Node) { tb.open = append(tb.open, n) }

func (tb *TreeBuilder) pop() *Node {
	if len(tb.open) == 0 {
		return nil
	}
	n := tb.open[len(tb.open)-1]
	tb.open = tb.open[:len(tb.open)-1]
	return n
}

func (tb *TreeBuilder) popUntilTagPopped(tag string) {
	for len(tb.open) > 0 {
		n := tb.pop()
		if n.Tag == tag {
			return
		}
	}
}

func (tb *TreeBuilder) isWhitespace(s string) bool {
	return strings.TrimFunc(s, isHTMLSpace) == ""
}

func isHTMLSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r'
}

func (tb *TreeBuilder) insertionTarget() *Node {
	if tb.fosterParenting {
		if cur := tb.current(); cur != nil {
			switch cur.Tag {
			case "table", "tbody", "tfoot", "thead", "tr":
				for i := len(tb.open) - 1; i >= 0; i-- {
					if tb.open[i].Tag == "table" {
						table := tb.open[i]
						if table.Parent != nil {
							return table.Parent
						}
					}
				}
			}
		}
	}
	return tb.current()
}

// insertNode inserts n at the appropriate place, applying the
// foster-parenting rule when non-table content arrives inside InTable
// (spec §4.2).
func (tb *TreeBuilder) insertNode(n *Node) {
	target := tb.insertionTarget()
	if target == nil {
		tb.doc.AppendChild(n)
		return
	}
	if tb.fosterParenting && target != tb.current() {
		// target is the table's parent: insert n as the table's previous
		// sibling.
		for i := len(tb.open) - 1; i >= 0; i-- {
			if tb.open[i].Tag == "table" {
				target.InsertBefore(n, tb.open[i])
				return
			}
		}
	}
	target.AppendChild(n)
}

func (tb *TreeBuilder) insertText(data string) {
	if data == "" {
		return
	}
	if discardsWhitespace(tb.mode) && tb.isWhitespace(data) {
		return
	}
	target := tb.insertionTarget()
	if target == nil {
		return
	}
	// Coalesce with a trailing text node when possible.
	if tb.fosterParenting {
		if last := target.LastChild; last != nil && last.Type == TextNode {
			last.Data += data
			return
		}
	} else if last := tb.current(); last != nil {
		if lc := last.LastChild; lc != nil && lc.Type == TextNode {
			lc.Data += data
			return
		}
	}
	tb.insertNode(NewText(data))
}

func (tb *TreeBuilder) insertComment(data string) {
	tb.insertNode(NewComment(data))
}

func (tb *TreeBuilder) insertElementFromToken(tok Token) *Node {
	el := NewElement(tok.TagName)
	el.SetAttributes(tok.Attributes)
	tb.insertNode(el)
	if !isVoidElement(tok.TagName) {
		tb.push(el)
	}
	if formattingElements[tok.TagName] {
		tb.formatting = append(tb.formatting, el)
	}
	return el
}

func (tb *TreeBuilder) hasElementInScope(tag string, limiters map[string]bool) bool {
	for i := len(tb.open) - 1; i >= 0; i-- {
		n := tb.open[i]
		if n.Tag == tag {
			return true
		}
		if limiters[n.Tag] {
			return false
		}
	}
	return false
}

// generateImpliedEndTags closes li/dd/dt/p/rb/rp/rt/optgroup/option/tr/td/th
// elements currently open, except the one named by except (spec §4.2).
func (tb *TreeBuilder) generateImpliedEndTags(except string) {
	for {
		cur := tb.current()
		if cur == nil || cur.Tag == except || !impliedEndTagSet[cur.Tag] {
			return
		}
		tb.pop()
	}
}

func (tb *TreeBuilder) closePElementIfInButtonScope() {
	limiters := map[string]bool{}
	for k, v := range defaultScopeLimiters {
		limiters[k] = v
	}
	limiters["button"] = true
	if tb.hasElementInScope("p", limiters) {
		tb.generateImpliedEndTags("p")
		tb.popUntilTagPopped("p")
	}
}

func setupRawMode(tb *TreeBuilder, tag string) {
	switch {
	case rcdataTags[tag]:
		tb.tok.SetState(StateRCDATA)
	case rawtextTags[tag]:
		tb.tok.SetState(StateRAWTEXT)
	case scriptTags[tag]:
		tb.tok.SetState(StateScriptData)
	default:
		return
	}
	tb.tok.SetLastStartTag(tag)
	tb.originalMode = tb.mode
	tb.mode = ModeText
}

// ---- Initial ----

func (tb *TreeBuilder) inInitial(tok Token) bool {
	switch tok.Type {
	case TokenDoctype:
		d := &Node{Type: DoctypeNode, Data: tok.Name, PublicID: tok.PublicID, SystemID: tok.SystemID, ForceQuirks: tok.ForceQuirks}
		tb.doc.AppendChild(d)
		tb.quirks = tok.ForceQuirks
		tb.mode = ModeBeforeHTML
		return false
	case TokenComment:
		tb.doc.AppendChild(NewComment(tok.Data))
		return false
	case TokenCharacter:
		if tb.isWhitespace(tok.Data) {
			return false
		}
	}
	tb.mode = ModeBeforeHTML
	return true
}

// ---- BeforeHTML ----

func (tb *TreeBuilder) inBeforeHTML(tok Token) bool {
	switch tok.Type {
	case TokenComment:
		tb.doc.AppendChild(NewComment(tok.Data))
		return false
	case TokenCharacter:
		if tb.isWhitespace(tok.Data) {
			return false
		}
	case TokenStartTag:
		if tok.TagName == "html" {
			el := NewElement("html")
			el.SetAttributes(tok.Attributes)
			tb.doc.AppendChild(el)
			tb.push(el)
			tb.mode = ModeBeforeHead
			return false
		}
	case TokenEndTag:
		switch tok.TagName {
		case "head", "body", "html", "br":
		default:
			return false
		}
	case TokenEOF:
		tb.ensureHTML()
		tb.mode = ModeBeforeHead
		return true
	}
	tb.ensureHTML()
	tb.mode = ModeBeforeHead
	return true
}

func (tb *TreeBuilder) ensureHTML() {
	if len(tb.open) == 0 {
		el := NewElement("html")
		tb.doc.AppendChild(el)
		tb.push(el)
	}
}

// ---- BeforeHead ----

func (tb *TreeBuilder) inBeforeHead(tok Token) bool {
	switch tok.Type {
	case TokenCharacter:
		if tb.isWhitespace(tok.Data) {
			return false
		}
	case TokenComment:
		tb.insertComment(tok.Data)
		return false
	case TokenStartTag:
		switch tok.TagName {
		case "html":
			return tb.delegateToBody(tok)
		case "head":
			el := tb.insertElementFromToken(tok)
			tb.head = el
			tb.mode = ModeInHead
			return false
		}
	case TokenEndTag:
		switch tok.TagName {
		case "head", "body", "html", "br":
		default:
			return false
		}
	}
	el := &Node{Type: ElementNode, Tag: "head"}
	tb.insertNode(el)
	tb.push(el)
	tb.head = el
	tb.mode = ModeInHead
	return true
}

// ---- InHead ----

func (tb *TreeBuilder) inHead(tok Token) bool {
	switch tok.Type {
	case TokenCharacter:
		if tb.isWhitespace(tok.Data) {
			tb.insertText(tok.Data)
			return false
		}
	case TokenComment:
		tb.insertComment(tok.Data)
		return false
	case TokenStartTag:
		switch tok.TagName {
		case "meta", "link", "base", "basefont", "bgsound":
			tb.insertElementFromToken(tok)
			return false
		case "title":
			tb.insertElementFromToken(tok)
			setupRawMode(tb, "title")
			return false
		case "style", "noframes", "noscript", "script":
			tb.insertElementFromToken(tok)
			setupRawMode(tb, tok.TagName)
			return false
		case "head":
			return false
		}
	case TokenEndTag:
		if tok.TagName == "head" {
			tb.pop()
			tb.mode = ModeAfterHead
			return false
		}
		switch tok.TagName {
		case "body", "html", "br":
		default:
			return false
		}
	}
	tb.pop()
	tb.mode = ModeAfterHead
	return true
}

// ---- AfterHead ----

func (tb *TreeBuilder) inAfterHead(tok Token) bool {
	switch tok.Type {
	case TokenCharacter:
		if tb.isWhitespace(tok.Data) {
			return false
		}
	case TokenComment:
		tb.insertComment(tok.Data)
		return false
	case TokenStartTag:
		if tok.TagName == "body" {
			el := tb.insertElementFromToken(tok)
			tb.body = el
			tb.mode = ModeInBody
			return false
		}
		if tok.TagName == "head" {
			return false
		}
	case TokenEndTag:
		switch tok.TagName {
		case "body", "html", "br":
		default:
			return false
		}
	}
	el := &Node{Type: ElementNode, Tag: "body"}
	tb.insertNode(el)
	tb.push(el)
	tb.body = el
	tb.mode = ModeInBody
	return true
}

// ---- InBody ----

var inBodyBlockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"details": true, "div": true, "dl": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "header": true,
	"hgroup": true, "main": true, "menu": true, "nav": true, "ol": true,
	"p": true, "section": true, "summary": true, "ul": true, "center": true,
	"dd": true, "dt": true, "li": true, "pre": true, "form": true,
}

func (tb *TreeBuilder) inBody(tok Token) bool {
	switch tok.Type {
	case TokenCharacter:
		tb.insertText(tok.Data)
		return false
	case TokenComment:
		tb.insertComment(tok.Data)
		return false
	case TokenStartTag:
		return tb.inBodyStartTag(tok)
	case TokenEndTag:
		return tb.inBodyEndTag(tok)
	case TokenEOF:
		return false
	}
	return false
}

func (tb *TreeBuilder) inBodyStartTag(tok Token) bool {
	switch {
	case tok.TagName == "table":
		tb.closePElementIfInButtonScope()
		tb.insertElementFromToken(tok)
		tb.mode = ModeInTable
		return false
	case inBodyBlockTags[tok.TagName]:
		if tok.TagName == "p" {
			tb.closePElementIfInButtonScope()
		}
		if tok.TagName == "li" {
			tb.closeListItem()
		}
		if (tok.TagName == "dd" || tok.TagName == "dt") && tb.hasElementInScope(tok.TagName, defaultScopeLimiters) {
			tb.generateImpliedEndTags("")
		}
		tb.insertElementFromToken(tok)
		return false
	case tok.TagName == "br" || tok.TagName == "img" || tok.TagName == "input" ||
		tok.TagName == "hr" || tok.TagName == "area" || tok.TagName == "wbr" ||
		tok.TagName == "embed" || tok.TagName == "col" || tok.TagName == "source" ||
		tok.TagName == "track" || tok.TagName == "param" || tok.TagName == "base" ||
		tok.TagName == "link" || tok.TagName == "meta":
		tb.insertElementFromToken(tok)
		return false
	case formattingElements[tok.TagName]:
		tb.insertElementFromToken(tok)
		return false
	case rcdataTags[tok.TagName] || rawtextTags[tok.TagName] || scriptTags[tok.TagName]:
		tb.insertElementFromToken(tok)
		setupRawMode(tb, tok.TagName)
		return false
	default:
		tb.insertElementFromToken(tok)
		return false
	}
}

func (tb *TreeBuilder) closeListItem() {
	limiters := map[string]bool{
		"html": true, "ul": true, "ol": true,
	}
	for k, v := range defaultScopeLimiters {
		limiters[k] = v
	}
	if tb.hasElementInScope("li", limiters) {
		tb.generateImpliedEndTags("li")
		tb.popUntilTagPopped("li")
	}
}

func (tb *TreeBuilder) inBodyEndTag(tok Token) bool {
	switch tok.TagName {
	case "body":
		tb.mode = ModeAfterBody
		return false
	case "html":
		tb.mode = ModeAfterBody
		return true
	case "p":
		tb.closePElementIfInButtonScope()
		return false
	case "li":
		limiters := map[string]bool{"html": true, "ul": true, "ol": true}
		for k, v := range defaultScopeLimiters {
			limiters[k] = v
		}
		if tb.hasElementInScope("li", limiters) {
			tb.generateImpliedEndTags("li")
			tb.popUntilTagPopped("li")
		}
		return false
	case "dd", "dt":
		if tb.hasElementInScope(tok.TagName, defaultScopeLimiters) {
			tb.generateImpliedEndTags(tok.TagName)
			tb.popUntilTagPopped(tok.TagName)
		}
		return false
	}
	if formattingElements[tok.TagName] {
		tb.closeFormattingElement(tok.TagName)
		return false
	}
	if !tb.hasElementInScope(tok.TagName, defaultScopeLimiters) {
		return false // scope law: no-op when tag not in scope (spec §8)
	}
	tb.generateImpliedEndTags("")
	tb.popUntilTagPopped(tok.TagName)
	tb.removeFromFormatting(tok.TagName)
	return false
}

// closeFormattingElement implements the spec's "simplified adoption-agency
// behavior sufficient for well-formed input: an end tag pops down to the
// matching formatting element."
func (tb *TreeBuilder) closeFormattingElement(tag string) {
	found := false
	for i := len(tb.open) - 1; i >= 0; i-- {
		if tb.open[i].Tag == tag {
			found = true
			break
		}
	}
	if !found {
		return
	}
	tb.popUntilTagPopped(tag)
	tb.removeFromFormatting(tag)
}

func (tb *TreeBuilder) removeFromFormatting(tag string) {
	for i := len(tb.formatting) - 1; i >= 0; i-- {
		if tb.formatting[i].Tag == tag {
			tb.formatting = append(tb.formatting[:i], tb.formatting[i+1:]...)
			return
		}
	}
}

// ---- Text (RCDATA/RAWTEXT/script content) ----

func (tb *TreeBuilder) inText(tok Token) bool {
	switch tok.Type {
	case TokenCharacter:
		tb.insertText(tok.Data)
		return false
	case TokenEndTag:
		tb.pop()
		tb.mode = tb.originalMode
		return false
	case TokenEOF:
		tb.pop()
		tb.mode = tb.originalMode
		return true
	}
	return false
}

// ---- InTable ----

func (tb *TreeBuilder) inTable(tok Token) bool {
	switch tok.Type {
	case TokenCharacter:
		if tb.isWhitespace(tok.Data) {
			tb.insertText(tok.Data)
			return false
		}
		tb.fosterParenting = true
		tb.insertText(tok.Data)
		tb.fosterParenting = false
		return false
	case TokenStartTag:
		switch tok.TagName {
		case "tbody", "tfoot", "thead":
			tb.insertElementFromToken(tok)
			tb.mode = ModeInTableBody
			return false
		case "tr":
			el := &Node{Type: ElementNode, Tag: "tbody"}
			tb.insertNode(el)
			tb.push(el)
			tb.mode = ModeInTableBody
			return true
		case "td", "th":
			el := &Node{Type: ElementNode, Tag: "tbody"}
			tb.insertNode(el)
			tb.push(el)
			tb.mode = ModeInTableBody
			return true
		case "col", "colgroup", "caption":
			tb.insertElementFromToken(tok)
			return false
		}
		tb.fosterParenting = true
		reprocess := tb.inBodyStartTag(tok)
		tb.fosterParenting = false
		return reprocess
	case TokenEndTag:
		if tok.TagName == "table" {
			tb.popUntilTagPopped("table")
			tb.mode = ModeInBody
			return false
		}
		return false
	}
	tb.fosterParenting = true
	r := tb.inBody(tok)
	tb.fosterParenting = false
	return r
}

// ---- InTableBody ----

func (tb *TreeBuilder) inTableBody(tok Token) bool {
	switch tok.Type {
	case TokenStartTag:
		if tok.TagName == "tr" {
			tb.insertElementFromToken(tok)
			tb.mode = ModeInRow
			return false
		}
		if tok.TagName == "td" || tok.TagName == "th" {
			el := &Node{Type: ElementNode, Tag: "tr"}
			tb.insertNode(el)
			tb.push(el)
			tb.mode = ModeInRow
			return true
		}
		if tok.TagName == "tbody" || tok.TagName == "tfoot" || tok.TagName == "thead" || tok.TagName == "table" {
			tb.popUntilTagPopped(tb.current().Tag)
			tb.mode = ModeInTable
			return true
		}
	case TokenEndTag:
		switch tok.TagName {
		case "tbody", "tfoot", "thead":
			if tb.current() != nil && tb.current().Tag == tok.TagName {
				tb.pop()
			}
			tb.mode = ModeInTable
			return false
		case "table":
			tb.mode = ModeInTable
			return true
		}
	}
	tb.mode = ModeInTable
	return true
}

// ---- InRow ----

func (tb *TreeBuilder) inRow(tok Token) bool {
	switch tok.Type {
	case TokenStartTag:
		if tok.TagName == "td" || tok.TagName == "th" {
			tb.insertElementFromToken(tok)
			tb.mode = ModeInCell
			return false
		}
		if tok.TagName == "tr" || tok.TagName == "tbody" || tok.TagName == "tfoot" || tok.TagName == "thead" || tok.TagName == "table" {
			if tb.current() != nil && tb.current().Tag == "tr" {
				tb.pop()
			}
			tb.mode = ModeInTableBody
			return true
		}
	case TokenEndTag:
		if tok.TagName == "tr" {
			if tb.current() != nil && tb.current().Tag == "tr" {
				tb.pop()
			}
			tb.mode = ModeInTableBody
			return false
		}
		if tok.TagName == "table" || tok.TagName == "tbody" || tok.TagName == "tfoot" || tok.TagName == "thead" {
			tb.mode = ModeInTableBody
			return true
		}
	}
	tb.mode = ModeInTableBody
	return true
}

// ---- InCell ----

func (tb *TreeBuilder) inCell(tok Token) bool {
	switch tok.Type {
	case TokenEndTag:
		if tok.TagName == "td" || tok.TagName == "th" {
			if tb.hasElementInScope(tok.TagName, defaultScopeLimiters) {
				tb.generateImpliedEndTags(tok.TagName)
				tb.popUntilTagPopped(tok.TagName)
			}
			tb.mode = ModeInRow
			return false
		}
		if tok.TagName == "table" || tok.TagName == "tbody" || tok.TagName == "tfoot" || tok.TagName == "thead" || tok.TagName == "tr" {
			cell := tb.closestCellTag()
			if cell != "" {
				tb.popUntilTagPopped(cell)
			}
			tb.mode = ModeInRow
			return true
		}
	}
	return tb.inBody(tok)
}

func (tb *TreeBuilder) closestCellTag() string {
	for i := len(tb.open) - 1; i >= 0; i-- {
		if tb.open[i].Tag == "td" || tb.open[i].Tag == "th" {
			return tb.open[i].Tag
		}
	}
	return ""
}

// ---- AfterBody / AfterAfterBody ----

func (tb *TreeBuilder) inAfterBody(tok Token) bool {
	switch tok.Type {
	case TokenCharacter:
		if tb.isWhitespace(tok.Data) {
			tb.fosterParenting = false
			tb.insertTextIntoBody(tok.Data)
			return false
		}
	case TokenComment:
		tb.doc.AppendChild(NewComment(tok.Data))
		return false
	case TokenEndTag:
		if tok.TagName == "html" {
			tb.mode = ModeAfterAfterBody
			return false
		}
	case TokenEOF:
		return false
	}
	tb.mode = ModeInBody
	return true
}

func (tb *TreeBuilder) insertTextIntoBody(data string) {
	if tb.body != nil {
		tb.body.AppendChild(NewText(data))
	}
}

func (tb *TreeBuilder) inAfterAfterBody(tok Token) bool {
	switch tok.Type {
	case TokenComment:
		tb.doc.AppendChild(NewComment(tok.Data))
		return false
	case TokenCharacter:
		if tb.isWhitespace(tok.Data) {
			return false
		}
	case TokenEOF:
		return false
	}
	tb.mode = ModeInBody
	return true
}

func (tb *TreeBuilder) delegateToBody(tok Token) bool {
	tb.mode = ModeInBody
	return true
}
