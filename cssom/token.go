// Package cssom implements the CSS tokenizer, selector/rule parser,
// selector matcher, cascade, and style resolver (spec §4.3, §4.4).
package cssom

// TokenType tags a CSS token (spec §4.3).
type TokenType int

const (
	TokIdent TokenType = iota
	TokFunction
	TokAtKeyword
	TokHash
	TokString
	TokNumber
	TokPercentage
	TokDimension
	TokWhitespace
	TokColon
	TokSemicolon
	TokComma
	TokLBrace
	TokRBrace
	TokLParen
	TokRParen
	TokLBracket
	TokRBracket
	TokDelim
	TokCDO
	TokCDC
	TokEOF
)

// Token is one lexical unit of a CSS token stream.
type Token struct {
	Type      TokenType
	Value     string  // ident/function/at-keyword/hash/string text, or the delim rune as a string
	Unit      string  // dimension unit
	Number    float64 // number/percentage/dimension numeric value
	IsInteger bool    // numeric tokens distinguish integer vs non-integer (spec §4.3)
}
