package html

import "strings"

// namedEntities is a practical subset of the HTML5 named character
// reference table — enough to decode the references that occur in real
// markup without shipping the full multi-thousand-entry spec table.
// Unknown names fall back to the "emit '&' plus buffered text" rule
// (spec §4.1).
var namedEntities = map[string]rune{
	"amp":     '&',
	"lt":      '<',
	"gt":      '>',
	"quot":    '"',
	"apos":    '\'',
	"nbsp":    ' ',
	"copy":    '©',
	"reg":     '®',
	"trade":   '™',
	"hellip":  '…',
	"mdash":   '—',
	"ndash":   '–',
	"lsquo":   '‘',
	"rsquo":   '’',
	"ldquo":   '“',
	"rdquo":   '”',
	"euro":    '€',
	"pound":   '£',
	"yen":     '¥',
	"cent":    '¢',
	"sect":    '§',
	"para":    '¶',
	"middot":  '·',
	"laquo":   '«',
	"raquo":   '»',
	"deg":     '°',
	"plusmn":  '±',
	"times":   '×',
	"divide":  '÷',
	"frasl":   '⁄',
	"bull":    '•',
	"dagger":  '†',
	"Dagger":  '‡',
	"permil":  '‰',
	"infin":   '∞',
	"ne":      '≠',
	"le":      '≤',
	"ge":      '≥',
	"larr":    '←',
	"uarr":    '↑',
	"rarr":    '→',
	"darr":    '↓',
	"sup1":    '¹',
	"sup2":    '²',
	"sup3":    '³',
	"frac12":  '½',
	"frac14":  '¼',
	"frac34":  '¾',
	"AElig":   'Æ',
	"aelig":   'æ',
	"szlig":   'ß',
	"ccedil":  'ç',
	"ntilde":  'ñ',
	"oslash":  'ø',
	"shy":     '­',
	"curren":  '¤',
	"not":     '¬',
	"micro":   'µ',
	"iexcl":   '¡',
	"iquest":  '¿',
	"star":    '☆',
	"check":   '✓',
	"cross":   '✗',
	"spades":  '♠',
	"clubs":   '♣',
	"hearts":  '♥',
	"diams":   '♦',
	"lowast":  '∗',
	"prop":    '∝',
	"part":    '∂',
	"nabla":   '∇',
	"isin":    '∈',
	"notin":   '∉',
	"sum":     '∑',
	"prod":    '∏',
	"radic":   '√',
	"oline":   '‾',
	"int":     '∫',
}

// decodeNamedEntity looks up a case-sensitive entity name (without the
// leading '&' or trailing ';') and returns its replacement rune.
func decodeNamedEntity(name string) (rune, bool) {
	r, ok := namedEntities[name]
	return r, ok
}

// longestNamedEntityPrefix scans s (which starts right after '&') for the
// longest prefix that names a known entity, honoring an optional trailing
// ';'. Returns the replacement text and the number of input bytes consumed
// (not including the leading '&'); ok is false when nothing matched.
func longestNamedEntityPrefix(s string) (replacement string, consumed int, ok bool) {
	limit := len(s)
	if limit > 32 {
		limit = 32
	}
	for end := limit; end > 0; end-- {
		cand := s[:end]
		name := strings.TrimSuffix(cand, ";")
		if r, found := decodeNamedEntity(name); found {
			return string(r), end, true
		}
	}
	return "", 0, false
}
