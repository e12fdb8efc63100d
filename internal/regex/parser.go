// SPDX-License-Identifier: Apache-2.0
package regex

import "fmt"

// SyntaxError reports a malformed pattern. Pos is a rune offset into the
// pattern text.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("regex syntax error at position %d: %s", e.Pos, e.Msg)
}

// Parse converts a pattern string into a regex AST.
//
// The dialect covers alternation, concatenation, groups (no capture
// semantics), character classes with ranges and negation, '.', the escape
// sequences \n \r \t \f \v \b \a \xHH \uHHHH (unknown escapes pass the
// character through literally), and the quantifiers * + ? {m} {m,} {m,n}.
// A trailing '?' after a quantifier is accepted and ignored: the engine has
// no backtracking notion of greediness. '^' and '$' are ordinary literals
// because the lexer always matches from the current position.
func Parse(pattern string) (Node, error) {
	p := &parser{input: []rune(pattern)}
	node, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.input) {
		return nil, p.errorf("unexpected %q", p.input[p.pos])
	}
	return node, nil
}

type parser struct {
	input []rune
	pos   int
}

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parser) next() (rune, bool) {
	ch, ok := p.peek()
	if ok {
		p.pos++
	}
	return ch, ok
}

func (p *parser) parseAlternation() (Node, error) {
	var options []Node
	for {
		term, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		options = append(options, term)
		if ch, ok := p.peek(); !ok || ch != '|' {
			break
		}
		p.pos++
	}
	if len(options) == 1 {
		return options[0], nil
	}
	return &Alternation{Options: options}, nil
}

func (p *parser) parseSequence() (Node, error) {
	var children []Node
	for {
		ch, ok := p.peek()
		if !ok || ch == '|' || ch == ')' {
			break
		}
		factor, err := p.parseQuantified()
		if err != nil {
			return nil, err
		}
		if _, isEmpty := factor.(*Empty); isEmpty {
			continue
		}
		children = append(children, factor)
	}
	switch len(children) {
	case 0:
		return &Empty{}, nil
	case 1:
		return children[0], nil
	}
	return &Sequence{Children: children}, nil
}

func (p *parser) parseQuantified() (Node, error) {
	node, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		ch, ok := p.peek()
		if !ok {
			return node, nil
		}
		var min, max int
		switch ch {
		case '*':
			p.pos++
			min, max = 0, Unbounded
		case '+':
			p.pos++
			min, max = 1, Unbounded
		case '?':
			p.pos++
			min, max = 0, 1
		case '{':
			p.pos++
			min, max, err = p.parseBounds()
			if err != nil {
				return nil, err
			}
		default:
			return node, nil
		}
		// Non-greedy marker: tolerated, meaningless under maximal munch.
		if ch, ok := p.peek(); ok && ch == '?' {
			p.pos++
		}
		node = &Repeat{Child: node, Min: min, Max: max}
	}
}

// parseBounds parses the interior of {m}, {m,} or {m,n}. The opening brace
// is already consumed.
func (p *parser) parseBounds() (min, max int, err error) {
	min, ok, err := p.parseNumber()
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, p.errorf("missing quantifier bound")
	}
	ch, chOK := p.next()
	switch {
	case !chOK:
		return 0, 0, p.errorf("unterminated quantifier")
	case ch == '}':
		return min, min, nil
	case ch != ',':
		p.pos--
		return 0, 0, p.errorf("invalid quantifier bound %q", ch)
	}
	max, ok, err = p.parseNumber()
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		max = Unbounded
	}
	if ch, chOK := p.next(); !chOK || ch != '}' {
		return 0, 0, p.errorf("unterminated quantifier")
	}
	if max != Unbounded && max < min {
		return 0, 0, p.errorf("quantifier maximum %d below minimum %d", max, min)
	}
	return min, max, nil
}

func (p *parser) parseNumber() (value int, found bool, err error) {
	start := p.pos
	for {
		ch, ok := p.peek()
		if !ok || ch < '0' || ch > '9' {
			break
		}
		value = value*10 + int(ch-'0')
		if value > 1<<20 {
			return 0, false, p.errorf("quantifier bound too large")
		}
		p.pos++
	}
	return value, p.pos > start, nil
}

func (p *parser) parseFactor() (Node, error) {
	ch, ok := p.next()
	if !ok {
		return &Empty{}, nil
	}
	switch ch {
	case '(':
		node, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		if ch, ok := p.next(); !ok || ch != ')' {
			return nil, p.errorf("unterminated group")
		}
		return node, nil
	case '[':
		return p.parseCharClass()
	case '.':
		return &AnyChar{}, nil
	case '\\':
		return p.parseEscape()
	case '*', '+', '?':
		p.pos--
		return nil, p.errorf("quantifier %q with nothing to repeat", ch)
	default:
		// '^' and '$' fall through here as plain literals.
		return &Literal{Value: ch}, nil
	}
}

func (p *parser) parseCharClass() (Node, error) {
	class := &CharClass{}
	if ch, ok := p.peek(); ok && ch == '^' {
		class.Negated = true
		p.pos++
	}
	first := true
	for {
		ch, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated character class")
		}
		if ch == ']' && !first {
			p.pos++
			return class, nil
		}
		lo, ranges, err := p.parseClassMember()
		if err != nil {
			return nil, err
		}
		first = false
		if ranges != nil {
			// Shorthand like \d contributes its ranges and cannot anchor a
			// range expression.
			class.Ranges = append(class.Ranges, ranges...)
			continue
		}
		if ch, ok := p.peek(); ok && ch == '-' {
			p.pos++
			if ch, ok := p.peek(); ok && ch == ']' {
				class.Ranges = append(class.Ranges, Range{Lo: lo, Hi: lo}, Range{Lo: '-', Hi: '-'})
				continue
			}
			hi, hiRanges, err := p.parseClassMember()
			if err != nil {
				return nil, err
			}
			if hiRanges != nil {
				return nil, p.errorf("invalid range end")
			}
			if hi < lo {
				return nil, p.errorf("invalid range %q-%q", lo, hi)
			}
			class.Ranges = append(class.Ranges, Range{Lo: lo, Hi: hi})
			continue
		}
		class.Ranges = append(class.Ranges, Range{Lo: lo, Hi: lo})
	}
}

// parseClassMember consumes one class element: either a single codepoint
// (returned as lo) or a shorthand escape contributing whole ranges.
func (p *parser) parseClassMember() (lo rune, ranges []Range, err error) {
	ch, ok := p.next()
	if !ok {
		return 0, nil, p.errorf("unterminated character class")
	}
	if ch != '\\' {
		return ch, nil, nil
	}
	esc, ok := p.next()
	if !ok {
		return 0, nil, p.errorf("dangling escape")
	}
	if ranges := shorthandRanges(esc); ranges != nil {
		return 0, ranges, nil
	}
	value, err := p.decodeEscapeChar(esc)
	if err != nil {
		return 0, nil, err
	}
	return value, nil, nil
}

func (p *parser) parseEscape() (Node, error) {
	esc, ok := p.next()
	if !ok {
		return nil, p.errorf("dangling escape")
	}
	switch esc {
	case 'd':
		return &CharClass{Ranges: digitRanges}, nil
	case 'D':
		return &CharClass{Ranges: digitRanges, Negated: true}, nil
	case 's':
		return &CharClass{Ranges: spaceRanges}, nil
	case 'S':
		return &CharClass{Ranges: spaceRanges, Negated: true}, nil
	case 'w':
		return &CharClass{Ranges: wordRanges}, nil
	case 'W':
		return &CharClass{Ranges: wordRanges, Negated: true}, nil
	}
	value, err := p.decodeEscapeChar(esc)
	if err != nil {
		return nil, err
	}
	return &Literal{Value: value}, nil
}

var (
	digitRanges = []Range{{'0', '9'}}
	spaceRanges = []Range{{' ', ' '}, {'\t', '\t'}, {'\r', '\r'}, {'\n', '\n'}, {'\f', '\f'}, {'\v', '\v'}}
	wordRanges  = []Range{{'0', '9'}, {'a', 'z'}, {'A', 'Z'}, {'_', '_'}}
)

func shorthandRanges(esc rune) []Range {
	switch esc {
	case 'd':
		return digitRanges
	case 's':
		return spaceRanges
	case 'w':
		return wordRanges
	}
	return nil
}

// decodeEscapeChar resolves a single-character escape. Unrecognized escapes
// pass the character through unchanged.
func (p *parser) decodeEscapeChar(esc rune) (rune, error) {
	switch esc {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case 'b':
		return '\b', nil
	case 'a':
		return '\a', nil
	case 'x':
		return p.parseHex(2)
	case 'u':
		return p.parseHex(4)
	default:
		return esc, nil
	}
}

func (p *parser) parseHex(digits int) (rune, error) {
	var value rune
	for i := 0; i < digits; i++ {
		ch, ok := p.next()
		if !ok {
			return 0, p.errorf("incomplete hex escape")
		}
		digit, ok := hexValue(ch)
		if !ok {
			p.pos--
			return 0, p.errorf("invalid hex digit %q", ch)
		}
		value = value<<4 | rune(digit)
	}
	return value, nil
}

func hexValue(ch rune) (int, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0'), true
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10, true
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10, true
	}
	return 0, false
}
