package main

import (
	"go.uber.org/zap"

	"gocko/html"
)

// parseForScripting builds a standalone DOM tree from htmlSrc for
// --eval to mutate, independent of RenderHTML's own parse (which runs
// again afterward on the serialized result).
func parseForScripting(htmlSrc string, log *zap.Logger) *html.Node {
	tok := html.NewTokenizer([]byte(htmlSrc), log)
	tb := html.NewTreeBuilder(tok, log)
	return tb.Build()
}

// serializeDocument renders root back to HTML text for re-parsing.
func serializeDocument(root *html.Node) string {
	return root.OuterHTML()
}
