package html

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// State is a tokenizer state (spec §4.1: ~30 states driving the scan).
type State int

const (
	StateData State = iota
	StateRCDATA
	StateRAWTEXT
	StateScriptData
	StatePlaintext
	StateTagOpen
	StateEndTagOpen
	StateTagName
	StateRCDATALessThanSign
	StateRCDATAEndTagOpen
	StateRCDATAEndTagName
	StateRAWTEXTLessThanSign
	StateRAWTEXTEndTagOpen
	StateRAWTEXTEndTagName
	StateScriptDataLessThanSign
	StateScriptDataEndTagOpen
	StateScriptDataEndTagName
	StateBeforeAttributeName
	StateAttributeName
	StateAfterAttributeName
	StateBeforeAttributeValue
	StateAttributeValueDoubleQuoted
	StateAttributeValueSingleQuoted
	StateAttributeValueUnquoted
	StateAfterAttributeValueQuoted
	StateSelfClosingStartTag
	StateBogusComment
	StateMarkupDeclarationOpen
	StateCommentStart
	StateCommentStartDash
	StateComment
	StateCommentEndDash
	StateCommentEnd
	StateCommentEndBang
	StateDoctype
	StateBeforeDoctypeName
	StateDoctypeName
	StateAfterDoctypeName
	StateBogusDoctype
	StateCDATASection
	StateCharacterReference
)

var lowerCaser = cases.Lower(language.Und)

func asciiLower(s string) string {
	// Tag/attribute names are ASCII in well-formed markup; cases.Lower
	// handles the general Unicode case too for malformed-but-decodable input.
	return lowerCaser.String(s)
}

// Tokenizer turns a byte stream into a Token sequence, never aborting on
// malformed input (spec §7).
type Tokenizer struct {
	src []byte
	pos int

	state       State
	returnState State

	lastStartTag string

	tok         Token
	attrName    strings.Builder
	attrValue   strings.Builder
	haveAttr    bool
	tempBuf     strings.Builder
	pending     strings.Builder
	closeMatch  strings.Builder

	eofSent bool
	log     *zap.Logger
}

// NewTokenizer creates a tokenizer over src. log may be nil.
func NewTokenizer(src []byte, log *zap.Logger) *Tokenizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tokenizer{src: src, state: StateData, log: log}
}

// SetState switches the tokenizer's state; the tree builder calls this
// after emitting certain start tags to enter RCDATA/RAWTEXT/script modes.
func (t *Tokenizer) SetState(s State) { t.state = s }

// SetLastStartTag records the tag name used to recognize the matching end
// tag while in RAWTEXT/RCDATA/script-data modes.
func (t *Tokenizer) SetLastStartTag(name string) { t.lastStartTag = asciiLower(name) }

func (t *Tokenizer) eof() bool { return t.pos >= len(t.src) }

func (t *Tokenizer) nextByte() (byte, bool) {
	if t.eof() {
		return 0, false
	}
	b := t.src[t.pos]
	t.pos++
	return b, true
}

func (t *Tokenizer) peekByte() (byte, bool) {
	if t.eof() {
		return 0, false
	}
	return t.src[t.pos], true
}

func (t *Tokenizer) unread() {
	if t.pos > 0 {
		t.pos--
	}
}

func (t *Tokenizer) reset() {
	t.tok = Token{}
	t.attrName.Reset()
	t.attrValue.Reset()
	t.haveAttr = false
	t.tempBuf.Reset()
}

func (t *Tokenizer) finishAttr() {
	if t.haveAttr {
		name := asciiLower(t.attrName.String())
		// First attribute with a given name wins; later duplicates are
		// parsed (so tag structure is preserved) but discarded (spec §4.1).
		dup := false
		for _, a := range t.tok.Attributes {
			if a.Name == name {
				dup = true
				break
			}
		}
		if !dup {
			t.tok.Attributes = append(t.tok.Attributes, Attribute{Name: name, Value: t.attrValue.String()})
		}
		t.attrName.Reset()
		t.attrValue.Reset()
		t.haveAttr = false
	}
}

// NextToken produces the next token; on exhaustion it returns EndOfFile
// indefinitely.
func (t *Tokenizer) NextToken() Token {
	if t.eofSent {
		return Token{Type: TokenEOF}
	}
	for {
		switch t.state {
		case StateData:
			if tok, ok := t.scanData(false, false); ok {
				return tok
			}
		case StateRCDATA:
			if tok, ok := t.scanRawtextLike(true); ok {
				return tok
			}
		case StateRAWTEXT:
			if tok, ok := t.scanRawtextLike(false); ok {
				return tok
			}
		case StateScriptData:
			if tok, ok := t.scanRawtextLike(false); ok {
				return tok
			}
		case StatePlaintext:
			if tok, ok := t.scanPlaintext(); ok {
				return tok
			}
		case StateTagOpen:
			if tok, ok, done := t.scanTagOpen(); done {
				return tok
			} else if ok {
				continue
			}
		default:
			if tok, ok := t.scanMisc(); ok {
				return tok
			}
		}
		if t.eof() && !t.eofSent {
			t.eofSent = true
			return Token{Type: TokenEOF}
		}
	}
}

// scanData accumulates a run of character data (Data state) until '<' or
// EOF, always decoding character references (decodeEntities and inAttr
// are not consulted).
func (t *Tokenizer) scanData(decodeEntities bool, inAttr bool) (Token, bool) {
	_ = inAttr
	var buf strings.Builder
	for {
		b, ok := t.peekByte()
		if !ok {
			if buf.Len() > 0 {
				return Token{Type: TokenCharacter, Data: buf.String()}, true
			}
			return Token{}, false
		}
		if b == '<' {
			if buf.Len() > 0 {
				return Token{Type: TokenCharacter, Data: buf.String()}, true
			}
			t.state = StateTagOpen
			t.pos++
			return Token{}, false
		}
		if b == '&' {
			t.pos++
			buf.WriteString(t.consumeCharRef())
			continue
		}
		r, size := t.decodeRune()
		buf.WriteRune(r)
		t.pos += size
	}
}

// decodeRune decodes the rune at the current position without advancing
// pos (the caller advances). Malformed UTF-8 passes through as the single
// raw byte (spec §4.1: "assumed UTF-8; malformed sequences pass through as
// individual code units").
func (t *Tokenizer) decodeRune() (rune, int) {
	r, size := utf8.DecodeRune(t.src[t.pos:])
	if r == utf8.RuneError && size <= 1 {
		return rune(t.src[t.pos]), 1
	}
	return r, size
}

// consumeCharRef consumes a character reference just after '&' and returns
// its literal replacement text. Unknown references return '&' followed by
// whatever was buffered, literally (spec §4.1).
func (t *Tokenizer) consumeCharRef() string {
	start := t.pos
	if t.eof() {
		return "&"
	}
	b, _ := t.peekByte()
	if b == '#' {
		t.pos++
		hex := false
		if b2, ok := t.peekByte(); ok && (b2 == 'x' || b2 == 'X') {
			hex = true
			t.pos++
		}
		numStart := t.pos
		for {
			c, ok := t.peekByte()
			if !ok {
				break
			}
			if hex && isHexDigit(c) {
				t.pos++
				continue
			}
			if !hex && c >= '0' && c <= '9' {
				t.pos++
				continue
			}
			break
		}
		numStr := string(t.src[numStart:t.pos])
		if numStr == "" {
			t.pos = start
			return "&"
		}
		if c, ok := t.peekByte(); ok && c == ';' {
			t.pos++
		}
		base := 10
		if hex {
			base = 16
		}
		v, err := strconv.ParseUint(numStr, base, 32)
		if err != nil {
			return "&#" + numStr + ";"
		}
		return decodeNumericRef(uint32(v))
	}
	// Named reference: longest match against the rest of the buffer.
	rest := string(t.src[t.pos:])
	if repl, consumed, ok := longestNamedEntityPrefix(rest); ok {
		t.pos += consumed
		return repl
	}
	return "&"
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// decodeNumericRef maps a numeric character reference code point to its
// replacement, substituting the Windows-1252 fixups the HTML5 spec
// requires for the C1 control range and guarding against surrogates/
// out-of-range values with U+FFFD.
func decodeNumericRef(v uint32) string {
	if fix, ok := cp1252Fixups[v]; ok {
		return string(fix)
	}
	if v == 0 || (v >= 0xD800 && v <= 0xDFFF) || v > 0x10FFFF {
		return "�"
	}
	return string(rune(v))
}

var cp1252Fixups = map[uint32]rune{
	0x80: '€', 0x82: '‚', 0x83: 'ƒ', 0x84: '„',
	0x85: '…', 0x86: '†', 0x87: '‡', 0x88: 'ˆ',
	0x89: '‰', 0x8A: 'Š', 0x8B: '‹', 0x8C: 'Œ',
	0x8E: 'Ž', 0x91: '‘', 0x92: '’', 0x93: '“',
	0x94: '”', 0x95: '•', 0x96: '–', 0x97: '—',
	0x98: '˜', 0x99: '™', 0x9A: 'š', 0x9B: '›',
	0x9C: 'œ', 0x9E: 'ž', 0x9F: 'Ÿ',
}

// scanRawtextLike handles RCDATA/RAWTEXT/script-data: character data that
// recognizes only the matching "</lastStartTag" end tag as a way out.
func (t *Tokenizer) scanRawtextLike(decodeEntities bool) (Token, bool) {
	var buf strings.Builder
	for {
		b, ok := t.peekByte()
		if !ok {
			if buf.Len() > 0 {
				return Token{Type: TokenCharacter, Data: buf.String()}, true
			}
			return Token{}, false
		}
		if b == '<' {
			if _, name, ok := t.matchEndTag(); ok {
				if buf.Len() > 0 {
					// '<' was only peeked, not consumed: flush the pending
					// run and let the next call re-match the end tag.
					return Token{Type: TokenCharacter, Data: buf.String()}, true
				}
				_ = name
				t.state = StateData
				return t.finishTagFromRaw(), true
			}
			buf.WriteByte(b)
			t.pos++
			continue
		}
		if decodeEntities && b == '&' {
			t.pos++
			buf.WriteString(t.consumeCharRef())
			continue
		}
		r, size := t.decodeRune()
		buf.WriteRune(r)
		t.pos += size
	}
}

// matchEndTag peeks at "</name" starting at the current '<' and reports
// whether name case-insensitively equals lastStartTag. end is the number
// of bytes that would be consumed through the tag name (not committed).
func (t *Tokenizer) matchEndTag() (end int, name string, ok bool) {
	rest := t.src[t.pos:]
	if len(rest) < 2 || rest[0] != '<' || rest[1] != '/' {
		return 0, "", false
	}
	i := 2
	for i < len(rest) && isTagNameByte(rest[i]) {
		i++
	}
	if i == 2 {
		return 0, "", false
	}
	name = asciiLower(string(rest[2:i]))
	if name != t.lastStartTag {
		return 0, "", false
	}
	return i, name, true
}

func isTagNameByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '-'
}

// finishTagFromRaw consumes the already-matched "</name" and parses any
// trailing attributes/self-closing slash through the ordinary attribute
// states (real end tags inside RAWTEXT carry no attributes per HTML, but
// we parse permissively and discard them).
func (t *Tokenizer) finishTagFromRaw() Token {
	t.pos += 2 // consume "</"
	nameStart := t.pos
	for !t.eof() && isTagNameByte(t.src[t.pos]) {
		t.pos++
	}
	name := asciiLower(string(t.src[nameStart:t.pos]))
	for !t.eof() && t.src[t.pos] != '>' {
		t.pos++
	}
	if !t.eof() {
		t.pos++ // consume '>'
	}
	return Token{Type: TokenEndTag, TagName: name}
}

func (t *Tokenizer) scanPlaintext() (Token, bool) {
	var buf strings.Builder
	for !t.eof() {
		r, size := t.decodeRune()
		buf.WriteRune(r)
		t.pos += size
	}
	if buf.Len() > 0 {
		return Token{Type: TokenCharacter, Data: buf.String()}, true
	}
	return Token{}, false
}

// scanTagOpen decides, right after consuming '<', what kind of
// construct follows: a start tag, end tag, comment, doctype, or — on
// anything unrecognized — a literal '<' character (spec §4.1 fallback).
// The second return reports whether the state machine should just loop
// again (state changed, nothing to emit yet); done reports a token is
// ready in the first return value.
func (t *Tokenizer) scanTagOpen() (Token, bool, bool) {
	b, ok := t.peekByte()
	if !ok {
		t.state = StateData
		return Token{Type: TokenCharacter, Data: "<"}, false, true
	}
	switch {
	case b == '!':
		t.pos++
		return t.scanMarkupDeclaration()
	case b == '/':
		t.pos++
		return t.scanEndTagOpen()
	case isAsciiAlpha(b):
		t.reset()
		t.tok.Type = TokenStartTag
		return t.scanTagName()
	case b == '?':
		// Bogus comment: XML processing instructions are not supported.
		t.tempBuf.Reset()
		t.tempBuf.WriteByte('?')
		t.pos++
		return t.scanBogusComment()
	default:
		t.state = StateData
		return Token{Type: TokenCharacter, Data: "<"}, false, true
	}
}

func isAsciiAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

func (t *Tokenizer) scanEndTagOpen() (Token, bool, bool) {
	b, ok := t.peekByte()
	if !ok {
		t.state = StateData
		return Token{Type: TokenComment, Data: ""}, false, true
	}
	if isAsciiAlpha(b) {
		t.reset()
		t.tok.Type = TokenEndTag
		return t.scanTagName()
	}
	if b == '>' {
		t.pos++
		t.state = StateData
		return Token{}, true, false
	}
	t.tempBuf.Reset()
	return t.scanBogusComment()
}

func (t *Tokenizer) scanTagName() (Token, bool, bool) {
	var name strings.Builder
	for {
		b, ok := t.peekByte()
		if !ok {
			t.tok.TagName = asciiLower(name.String())
			t.state = StateData
			return t.tok, false, true
		}
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\f' || b == '\r':
			t.pos++
			t.tok.TagName = asciiLower(name.String())
			t.state = StateBeforeAttributeName
			return Token{}, true, false
		case b == '/':
			t.pos++
			t.tok.TagName = asciiLower(name.String())
			t.state = StateSelfClosingStartTag
			return Token{}, true, false
		case b == '>':
			t.pos++
			t.tok.TagName = asciiLower(name.String())
			tok := t.tok
			t.afterTagEmitted(tok)
			return tok, false, true
		default:
			r, size := t.decodeRune()
			name.WriteRune(r)
			t.pos += size
		}
	}
}

// afterTagEmitted records a start tag's name as lastStartTag and returns
// to the Data state. It never switches into RAWTEXT/RCDATA itself: the
// tree builder does that via SetState, so a standalone tokenizer scans
// <script>/<style> contents as ordinary markup.
func (t *Tokenizer) afterTagEmitted(tok Token) {
	if tok.Type == TokenStartTag {
		t.lastStartTag = tok.TagName
	}
	t.state = StateData
}

func (t *Tokenizer) scanMarkupDeclaration() (Token, bool, bool) {
	rest := t.src[t.pos:]
	switch {
	case hasFold(rest, "--"):
		t.pos += 2
		t.tempBuf.Reset()
		t.state = StateCommentStart
		return Token{}, true, false
	case hasFold(rest, "doctype"):
		t.pos += 7
		t.state = StateDoctype
		return Token{}, true, false
	case hasFold(rest, "[cdata["):
		t.pos += 7
		return t.scanCDATA()
	default:
		t.tempBuf.Reset()
		return t.scanBogusComment()
	}
}

func hasFold(b []byte, s string) bool {
	if len(b) < len(s) {
		return false
	}
	return asciiLower(string(b[:len(s)])) == s
}

func (t *Tokenizer) scanCDATA() (Token, bool, bool) {
	idx := indexFold(t.src[t.pos:], "]]>")
	if idx < 0 {
		data := string(t.src[t.pos:])
		t.pos = len(t.src)
		return Token{Type: TokenComment, Data: data}, false, true
	}
	data := string(t.src[t.pos : t.pos+idx])
	t.pos += idx + 3
	t.state = StateData
	return Token{Type: TokenComment, Data: data}, false, true
}

func indexFold(b []byte, s string) int {
	return strings.Index(string(b), s)
}

func (t *Tokenizer) scanBogusComment() (Token, bool, bool) {
	for {
		b, ok := t.peekByte()
		if !ok {
			t.state = StateData
			return Token{Type: TokenComment, Data: t.tempBuf.String()}, false, true
		}
		if b == '>' {
			t.pos++
			t.state = StateData
			return Token{Type: TokenComment, Data: t.tempBuf.String()}, false, true
		}
		r, size := t.decodeRune()
		t.tempBuf.WriteRune(r)
		t.pos += size
	}
}

// scanMisc drives every state not handled by the fast paths above
// (attributes, comments, doctype, self-closing). It is a straight
// character-driven state machine; unterminated constructs at EOF emit
// whatever was buffered (spec §7, "end-of-file is a terminator").
func (t *Tokenizer) scanMisc() (Token, bool) {
	for {
		b, ok := t.peekByte()
		switch t.state {
		case StateBeforeAttributeName:
			if !ok || b == '>' {
				t.finishAttr()
				if ok {
					t.pos++
				}
				t.state = StateData
				tok := t.tok
				t.afterTagEmitted(tok)
				return tok, true
			}
			if b == ' ' || b == '\t' || b == '\n' || b == '\f' || b == '\r' {
				t.pos++
				continue
			}
			if b == '/' {
				t.pos++
				t.finishAttr()
				t.state = StateSelfClosingStartTag
				continue
			}
			t.finishAttr()
			t.haveAttr = true
			t.state = StateAttributeName
			continue

		case StateAttributeName:
			if !ok || b == ' ' || b == '\t' || b == '\n' || b == '\f' || b == '\r' || b == '/' || b == '>' {
				t.state = StateAfterAttributeName
				continue
			}
			if b == '=' {
				t.pos++
				t.state = StateBeforeAttributeValue
				continue
			}
			r, size := t.decodeRune()
			t.attrName.WriteRune(r)
			t.pos += size

		case StateAfterAttributeName:
			if !ok || b == '>' {
				t.finishAttr()
				if ok {
					t.pos++
				}
				t.state = StateData
				tok := t.tok
				t.afterTagEmitted(tok)
				return tok, true
			}
			if b == ' ' || b == '\t' || b == '\n' || b == '\f' || b == '\r' {
				t.pos++
				continue
			}
			if b == '/' {
				t.pos++
				t.finishAttr()
				t.state = StateSelfClosingStartTag
				continue
			}
			if b == '=' {
				t.pos++
				t.state = StateBeforeAttributeValue
				continue
			}
			t.finishAttr()
			t.haveAttr = true
			t.state = StateAttributeName
			continue

		case StateBeforeAttributeValue:
			if !ok {
				t.state = StateData
				continue
			}
			if b == ' ' || b == '\t' || b == '\n' || b == '\f' || b == '\r' {
				t.pos++
				continue
			}
			if b == '"' {
				t.pos++
				t.state = StateAttributeValueDoubleQuoted
				continue
			}
			if b == '\'' {
				t.pos++
				t.state = StateAttributeValueSingleQuoted
				continue
			}
			t.state = StateAttributeValueUnquoted
			continue

		case StateAttributeValueDoubleQuoted:
			if !ok {
				t.finishAttr()
				t.state = StateData
				tok := t.tok
				return tok, true
			}
			if b == '"' {
				t.pos++
				t.finishAttr()
				t.state = StateBeforeAttributeName
				continue
			}
			if b == '&' {
				t.pos++
				t.attrValue.WriteString(t.consumeCharRef())
				continue
			}
			r, size := t.decodeRune()
			t.attrValue.WriteRune(r)
			t.pos += size

		case StateAttributeValueSingleQuoted:
			if !ok {
				t.finishAttr()
				t.state = StateData
				tok := t.tok
				return tok, true
			}
			if b == '\'' {
				t.pos++
				t.finishAttr()
				t.state = StateBeforeAttributeName
				continue
			}
			if b == '&' {
				t.pos++
				t.attrValue.WriteString(t.consumeCharRef())
				continue
			}
			r, size := t.decodeRune()
			t.attrValue.WriteRune(r)
			t.pos += size

		case StateAttributeValueUnquoted:
			if !ok || b == '>' {
				t.finishAttr()
				if ok {
					t.pos++
				}
				t.state = StateData
				tok := t.tok
				t.afterTagEmitted(tok)
				return tok, true
			}
			if b == ' ' || b == '\t' || b == '\n' || b == '\f' || b == '\r' {
				t.pos++
				t.finishAttr()
				t.state = StateBeforeAttributeName
				continue
			}
			if b == '&' {
				t.pos++
				t.attrValue.WriteString(t.consumeCharRef())
				continue
			}
			r, size := t.decodeRune()
			t.attrValue.WriteRune(r)
			t.pos += size

		case StateSelfClosingStartTag:
			if !ok {
				t.state = StateData
				tok := t.tok
				return tok, true
			}
			if b == '>' {
				t.pos++
				t.tok.SelfClosing = true
				t.state = StateData
				tok := t.tok
				t.afterTagEmitted(tok)
				return tok, true
			}
			t.state = StateBeforeAttributeName
			continue

		case StateCommentStart:
			if !ok {
				t.state = StateData
				return Token{Type: TokenComment, Data: t.tempBuf.String()}, true
			}
			if b == '-' {
				t.pos++
				t.state = StateCommentStartDash
				continue
			}
			if b == '>' {
				t.pos++
				t.state = StateData
				return Token{Type: TokenComment, Data: t.tempBuf.String()}, true
			}
			t.state = StateComment
			continue

		case StateCommentStartDash:
			if !ok {
				t.state = StateData
				return Token{Type: TokenComment, Data: t.tempBuf.String()}, true
			}
			if b == '-' {
				t.pos++
				t.state = StateCommentEnd
				continue
			}
			if b == '>' {
				t.pos++
				t.state = StateData
				return Token{Type: TokenComment, Data: t.tempBuf.String()}, true
			}
			t.tempBuf.WriteByte('-')
			t.state = StateComment
			continue

		case StateComment:
			if !ok {
				t.state = StateData
				return Token{Type: TokenComment, Data: t.tempBuf.String()}, true
			}
			if b == '-' {
				t.pos++
				t.state = StateCommentEndDash
				continue
			}
			r, size := t.decodeRune()
			t.tempBuf.WriteRune(r)
			t.pos += size

		case StateCommentEndDash:
			if !ok {
				t.state = StateData
				return Token{Type: TokenComment, Data: t.tempBuf.String()}, true
			}
			if b == '-' {
				t.pos++
				t.state = StateCommentEnd
				continue
			}
			t.tempBuf.WriteByte('-')
			t.state = StateComment
			continue

		case StateCommentEnd:
			if !ok {
				t.state = StateData
				return Token{Type: TokenComment, Data: t.tempBuf.String()}, true
			}
			if b == '>' {
				t.pos++
				t.state = StateData
				return Token{Type: TokenComment, Data: t.tempBuf.String()}, true
			}
			if b == '-' {
				t.pos++
				t.tempBuf.WriteByte('-')
				continue
			}
			if b == '!' {
				t.pos++
				t.state = StateCommentEndBang
				continue
			}
			t.tempBuf.WriteString("--")
			t.state = StateComment
			continue

		case StateCommentEndBang:
			if !ok {
				t.state = StateData
				return Token{Type: TokenComment, Data: t.tempBuf.String()}, true
			}
			if b == '-' {
				t.pos++
				t.tempBuf.WriteString("--!")
				t.state = StateCommentEndDash
				continue
			}
			if b == '>' {
				t.pos++
				t.state = StateData
				return Token{Type: TokenComment, Data: t.tempBuf.String()}, true
			}
			t.tempBuf.WriteString("--!")
			t.state = StateComment
			continue

		case StateDoctype:
			if !ok {
				t.state = StateData
				return Token{Type: TokenDoctype, ForceQuirks: true}, true
			}
			if b == ' ' || b == '\t' || b == '\n' || b == '\f' || b == '\r' {
				t.pos++
				t.state = StateBeforeDoctypeName
				continue
			}
			t.state = StateBeforeDoctypeName
			continue

		case StateBeforeDoctypeName:
			if !ok {
				t.state = StateData
				return Token{Type: TokenDoctype, ForceQuirks: true}, true
			}
			if b == ' ' || b == '\t' || b == '\n' || b == '\f' || b == '\r' {
				t.pos++
				continue
			}
			if b == '>' {
				t.pos++
				t.state = StateData
				return Token{Type: TokenDoctype, ForceQuirks: true}, true
			}
			t.tempBuf.Reset()
			t.state = StateDoctypeName
			continue

		case StateDoctypeName:
			if !ok {
				t.state = StateData
				return Token{Type: TokenDoctype, Name: asciiLower(t.tempBuf.String()), ForceQuirks: true}, true
			}
			if b == ' ' || b == '\t' || b == '\n' || b == '\f' || b == '\r' {
				t.pos++
				t.state = StateAfterDoctypeName
				continue
			}
			if b == '>' {
				t.pos++
				t.state = StateData
				return Token{Type: TokenDoctype, Name: asciiLower(t.tempBuf.String())}, true
			}
			r, size := t.decodeRune()
			t.tempBuf.WriteRune(r)
			t.pos += size

		case StateAfterDoctypeName, StateBogusDoctype:
			name := asciiLower(t.tempBuf.String())
			if !ok {
				t.state = StateData
				return Token{Type: TokenDoctype, Name: name, ForceQuirks: true}, true
			}
			if b == '>' {
				t.pos++
				t.state = StateData
				return Token{Type: TokenDoctype, Name: name}, true
			}
			t.pos++
			t.state = StateBogusDoctype
			continue

		case StateCDATASection:
			// Only reached via scanMarkupDeclaration, which already returns
			// a full token; present for completeness of the state set.
			t.state = StateData
			continue

		default:
			t.state = StateData
			continue
		}
	}
}
