package cssom

import (
	"strconv"
	"strings"
)

// MatchKind tags an attribute-selector comparison (spec §3).
type MatchKind int

const (
	AttrExists MatchKind = iota
	AttrExact
	AttrIncludes // [attr~=val]
	AttrDashMatch
	AttrPrefix
	AttrSuffix
	AttrSubstring
)

// SimpleKind tags one simple selector within a compound selector.
type SimpleKind int

const (
	SimpleType SimpleKind = iota
	SimpleClass
	SimpleID
	SimpleUniversal
	SimpleAttribute
	SimplePseudoClass
	SimplePseudoElement
)

// SimpleSelector is one atom of a compound selector.
type SimpleSelector struct {
	Kind SimpleKind

	Name string // type name, class name, id, pseudo-class/element name

	AttrName  string
	AttrValue string
	AttrMatch MatchKind

	// Args is the raw, paren-balanced argument text for functional
	// pseudo-classes (:nth-child(2n+1), :not(.x), :lang(en), ...).
	Args string
	// ArgSelectors holds the parsed selector list for :not/:is/:where/
	// :matches/:has, filled in by parseCompoundSelector at parse time.
	ArgSelectors *SelectorList
}

// CompoundSelector is a sequence of simple selectors with implicit AND.
type CompoundSelector struct {
	Simples []SimpleSelector
}

// Combinator tags how one compound selector relates to the next.
type Combinator int

const (
	CombinatorNone Combinator = iota
	CombinatorDescendant
	CombinatorChild
	CombinatorNextSibling
	CombinatorSubsequentSibling
)

// complexPart pairs a compound with the combinator that precedes it
// (CombinatorNone for the first / subject part).
type complexPart struct {
	Combinator Combinator
	Compound   CompoundSelector
}

// ComplexSelector is an ordered list of combinator+compound pairs, subject
// last (spec §4.4 matches right-to-left, so Parts[len-1] is the subject).
type ComplexSelector struct {
	Parts []complexPart
}

func (c ComplexSelector) subject() CompoundSelector {
	return c.Parts[len(c.Parts)-1].Compound
}

// SelectorList is a comma-separated selector group.
type SelectorList struct {
	Items []ComplexSelector
}

// Specificity is the (a, b, c) triple: IDs, classes/attrs/pseudo-classes,
// type/pseudo-elements (spec §3).
type Specificity struct {
	A, B, C int
}

func (s Specificity) Less(o Specificity) bool {
	if s.A != o.A {
		return s.A < o.A
	}
	if s.B != o.B {
		return s.B < o.B
	}
	return s.C < o.C
}

func (s Specificity) Add(o Specificity) Specificity {
	return Specificity{s.A + o.A, s.B + o.B, s.C + o.C}
}

func maxSpecificity(list *SelectorList) Specificity {
	var max Specificity
	if list == nil {
		return max
	}
	for _, cs := range list.Items {
		sp := ComplexSpecificity(cs)
		if max.Less(sp) {
			max = sp
		}
	}
	return max
}

// SimpleSpecificity returns one simple selector's specificity contribution.
func SimpleSpecificity(s SimpleSelector) Specificity {
	switch s.Kind {
	case SimpleID:
		return Specificity{A: 1}
	case SimpleClass, SimpleAttribute:
		return Specificity{B: 1}
	case SimplePseudoClass:
		switch s.Name {
		case "where":
			return Specificity{}
		case "is", "not", "matches", "has":
			return maxSpecificity(s.ArgSelectors)
		default:
			return Specificity{B: 1}
		}
	case SimpleType:
		return Specificity{C: 1}
	case SimplePseudoElement:
		return Specificity{C: 1}
	}
	return Specificity{}
}

func CompoundSpecificity(c CompoundSelector) Specificity {
	var sp Specificity
	for _, s := range c.Simples {
		sp = sp.Add(SimpleSpecificity(s))
	}
	return sp
}

func ComplexSpecificity(c ComplexSelector) Specificity {
	var sp Specificity
	for _, part := range c.Parts {
		sp = sp.Add(CompoundSpecificity(part.Compound))
	}
	return sp
}

// ---- Parsing ----

// ParseSelectorList parses a comma-separated selector group.
func ParseSelectorList(text string) *SelectorList {
	list := &SelectorList{}
	for _, part := range splitTopLevelCommas(text) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if cs, ok := parseComplexSelector(part); ok {
			list.Items = append(list.Items, cs)
		}
	}
	return list
}

func splitTopLevelCommas(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

func parseComplexSelector(text string) (ComplexSelector, bool) {
	toks := lexSelectorParts(text)
	if len(toks) == 0 {
		return ComplexSelector{}, false
	}
	var cs ComplexSelector
	combinator := CombinatorNone
	for _, tok := range toks {
		switch tok {
		case ">":
			combinator = CombinatorChild
		case "+":
			combinator = CombinatorNextSibling
		case "~":
			combinator = CombinatorSubsequentSibling
		default:
			compound := parseCompoundSelector(tok)
			c := combinator
			if len(cs.Parts) > 0 && c == CombinatorNone {
				c = CombinatorDescendant
			}
			cs.Parts = append(cs.Parts, complexPart{Combinator: c, Compound: compound})
			combinator = CombinatorNone
		}
	}
	if len(cs.Parts) == 0 {
		return cs, false
	}
	return cs, true
}

// lexSelectorParts splits a complex-selector string into compound-selector
// chunks and bare combinator tokens (">", "+", "~"), honoring bracket/paren
// nesting so attribute selectors and functional pseudo-class arguments are
// never split on internal whitespace.
func lexSelectorParts(text string) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '[' || r == '(':
			depth++
			cur.WriteRune(r)
		case r == ']' || r == ')':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case depth > 0:
			cur.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		case r == '>' || r == '+' || r == '~':
			flush()
			out = append(out, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// parseCompoundSelector parses one compound (e.g. "div.foo#bar:hover").
func parseCompoundSelector(text string) CompoundSelector {
	var c CompoundSelector
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		switch {
		case runes[i] == '*':
			c.Simples = append(c.Simples, SimpleSelector{Kind: SimpleUniversal, Name: "*"})
			i++
		case runes[i] == '.':
			j := i + 1
			for j < len(runes) && isIdentChar(runes[j]) {
				j++
			}
			c.Simples = append(c.Simples, SimpleSelector{Kind: SimpleClass, Name: string(runes[i+1 : j])})
			i = j
		case runes[i] == '#':
			j := i + 1
			for j < len(runes) && isIdentChar(runes[j]) {
				j++
			}
			c.Simples = append(c.Simples, SimpleSelector{Kind: SimpleID, Name: string(runes[i+1 : j])})
			i = j
		case runes[i] == '[':
			j := i + 1
			depth := 1
			for j < len(runes) && depth > 0 {
				if runes[j] == '[' {
					depth++
				} else if runes[j] == ']' {
					depth--
				}
				if depth > 0 {
					j++
				}
			}
			c.Simples = append(c.Simples, parseAttributeSelector(string(runes[i+1:j])))
			i = j + 1
		case runes[i] == ':':
			isPseudoElement := i+1 < len(runes) && runes[i+1] == ':'
			if isPseudoElement {
				i += 2
			} else {
				i++
			}
			j := i
			for j < len(runes) && isIdentChar(runes[j]) {
				j++
			}
			name := strings.ToLower(string(runes[i:j]))
			var args string
			if j < len(runes) && runes[j] == '(' {
				depth := 1
				k := j + 1
				for k < len(runes) && depth > 0 {
					if runes[k] == '(' {
						depth++
					} else if runes[k] == ')' {
						depth--
					}
					if depth > 0 {
						k++
					}
				}
				args = string(runes[j+1 : k])
				j = k + 1
			}
			kind := SimplePseudoClass
			// A handful of legacy pseudo-elements are written with one
			// colon (spec §4.3's "::before"/"::after", but also allow
			// the legacy single-colon spelling).
			switch name {
			case "before", "after", "first-line", "first-letter":
				if !isPseudoElement {
					kind = SimplePseudoElement
				}
			}
			if isPseudoElement {
				kind = SimplePseudoElement
			}
			s := SimpleSelector{Kind: kind, Name: name, Args: args}
			if kind == SimplePseudoClass {
				switch name {
				case "not", "is", "where", "matches", "has":
					s.ArgSelectors = ParseSelectorList(args)
				}
			}
			c.Simples = append(c.Simples, s)
			i = j
		default:
			j := i
			for j < len(runes) && isIdentChar(runes[j]) {
				j++
			}
			if j == i {
				i++
				continue
			}
			c.Simples = append(c.Simples, SimpleSelector{Kind: SimpleType, Name: strings.ToLower(string(runes[i:j]))})
			i = j
		}
	}
	return c
}

func parseAttributeSelector(content string) SimpleSelector {
	content = strings.TrimSpace(content)
	ops := []struct {
		op   string
		kind MatchKind
	}{
		{"~=", AttrIncludes}, {"|=", AttrDashMatch}, {"^=", AttrPrefix},
		{"$=", AttrSuffix}, {"*=", AttrSubstring}, {"=", AttrExact},
	}
	for _, o := range ops {
		if idx := strings.Index(content, o.op); idx != -1 {
			name := strings.TrimSpace(content[:idx])
			val := strings.TrimSpace(content[idx+len(o.op):])
			val = strings.Trim(val, `"'`)
			return SimpleSelector{Kind: SimpleAttribute, AttrName: name, AttrValue: val, AttrMatch: o.kind}
		}
	}
	return SimpleSelector{Kind: SimpleAttribute, AttrName: content, AttrMatch: AttrExists}
}

// ParseAnB parses An+B micro-syntax ("odd", "even", "3", "2n+1", "-n+3").
func ParseAnB(s string) (a, b int, ok bool) {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	switch s {
	case "odd":
		return 2, 1, true
	case "even":
		return 2, 0, true
	case "":
		return 0, 0, false
	}
	nIdx := strings.IndexByte(s, 'n')
	if nIdx == -1 {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, false
		}
		return 0, n, true
	}
	aPart := s[:nIdx]
	switch aPart {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		v, err := strconv.Atoi(aPart)
		if err != nil {
			return 0, 0, false
		}
		a = v
	}
	bPart := strings.TrimSpace(s[nIdx+1:])
	if bPart == "" {
		return a, 0, true
	}
	v, err := strconv.Atoi(bPart)
	if err != nil {
		return 0, 0, false
	}
	return a, v, true
}
