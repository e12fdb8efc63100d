// SPDX-License-Identifier: Apache-2.0
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"scriptum/token"
)

// Config controls runtime lexer behaviour. The zero value skips ignorable
// tokens (whitespace, comments), matching the production default.
type Config struct {
	// KeepIgnored emits WHITESPACE/COMMENT tokens instead of dropping them.
	KeepIgnored bool
}

// Error is a lexical failure: no pattern matches at Pos. Char is the
// offending character, or "EOF" at end of input.
type Error struct {
	Pos    int
	Line   int
	Column int
	Char   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("unexpected character %q at line %d, column %d", e.Char, e.Line, e.Column)
}

// Lexer tokenizes source text by walking a compiled DFA table with maximal
// munch. The underlying Runtime is read-only, so a single Lexer may serve
// concurrent Tokenize calls.
type Lexer struct {
	runtime *Runtime
	config  Config
}

// New wraps a compiled runtime table.
func New(runtime *Runtime, config Config) *Lexer {
	return &Lexer{runtime: runtime, config: config}
}

// NewFromTable compiles the table and wraps it.
func NewFromTable(table *Table, config Config) (*Lexer, error) {
	runtime, err := table.Compile()
	if err != nil {
		return nil, err
	}
	return New(runtime, config), nil
}

// Tokenize scans the whole source, returning the token stream terminated by
// one EOF token. The first unmatched position aborts the call; there is no
// resynchronization, since silently skipping input would corrupt downstream
// offsets.
func (l *Lexer) Tokenize(source string) ([]token.Token, error) {
	var result []token.Token
	pos := 0
	for pos < len(source) {
		accept, end, ok := l.match(source, pos)
		if !ok {
			return nil, l.unexpected(source, pos)
		}
		lexeme := source[pos:end]
		span := token.Span{Start: pos, End: end}
		pos = end

		if accept.Ignore && !l.config.KeepIgnored {
			continue
		}

		kind := accept.Kind
		if kind == token.IDENTIFIER && token.IsKeyword(lexeme) {
			kind = token.KEYWORD
		}

		result = append(result, token.Token{
			Kind:    kind,
			Lexeme:  lexeme,
			Span:    span,
			Value:   decodeValue(kind, lexeme),
			Pattern: accept.Name,
		})
	}
	result = append(result, token.Token{
		Kind: token.EOF,
		Span: token.Span{Start: len(source), End: len(source)},
	})
	return result, nil
}

// match walks the DFA from start as long as transitions exist, recording
// the best accepting candidate seen: longest end position first, then
// priority, then declaration order. Entering the sink stops the walk early
// since the sink can never improve the candidate.
func (l *Lexer) match(source string, start int) (*acceptEntry, int, bool) {
	states := l.runtime.states
	state := l.runtime.start
	pos := start
	var best *acceptEntry
	bestEnd := start

	for pos < len(source) {
		symbol, size := utf8.DecodeRuneInString(source[pos:])
		next, ok := states[state].transitions[int(symbol)]
		if !ok || states[next].sink {
			break
		}
		state = next
		pos += size
		accept := states[state].accept
		if accept == nil {
			continue
		}
		if best == nil || pos > bestEnd ||
			(pos == bestEnd && (accept.Priority > best.Priority ||
				(accept.Priority == best.Priority && accept.Index < best.Index))) {
			best = accept
			bestEnd = pos
		}
	}
	if best == nil || bestEnd == start {
		return nil, start, false
	}
	return best, bestEnd, true
}

func (l *Lexer) unexpected(source string, pos int) *Error {
	char := "EOF"
	if pos < len(source) {
		r, _ := utf8.DecodeRuneInString(source[pos:])
		char = string(r)
	}
	line := 1 + strings.Count(source[:pos], "\n")
	lineStart := strings.LastIndexByte(source[:pos], '\n') + 1
	return &Error{
		Pos:    pos,
		Line:   line,
		Column: pos - lineStart + 1,
		Char:   char,
	}
}

// decodeValue computes Token.Value for literal kinds: numbers lose their
// underscore separators and become int64 or float64; strings lose the
// surrounding quotes and have their backslash escapes decoded, falling back
// to the raw inner text when decoding fails.
func decodeValue(kind token.Kind, lexeme string) any {
	switch kind {
	case token.NUMBER_LITERAL:
		sanitized := strings.ReplaceAll(lexeme, "_", "")
		if strings.ContainsAny(sanitized, ".eE") {
			if value, err := strconv.ParseFloat(sanitized, 64); err == nil {
				return value
			}
			return sanitized
		}
		if value, err := strconv.ParseInt(sanitized, 10, 64); err == nil {
			return value
		}
		return sanitized
	case token.STRING_LITERAL:
		if len(lexeme) < 2 {
			return lexeme
		}
		inner := lexeme[1 : len(lexeme)-1]
		decoded, err := decodeEscapes(inner)
		if err != nil {
			return inner
		}
		return decoded
	default:
		return nil
	}
}

func decodeEscapes(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); {
		ch := s[i]
		if ch != '\\' {
			sb.WriteByte(ch)
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("dangling backslash")
		}
		esc := s[i+1]
		i += 2
		switch esc {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case 'a':
			sb.WriteByte('\a')
		case '0':
			sb.WriteByte(0)
		case '\\', '\'', '"', '/':
			sb.WriteByte(esc)
		case 'x', 'u':
			digits := 2
			if esc == 'u' {
				digits = 4
			}
			if i+digits > len(s) {
				return "", fmt.Errorf("incomplete \\%c escape", esc)
			}
			value, err := strconv.ParseUint(s[i:i+digits], 16, 32)
			if err != nil {
				return "", err
			}
			sb.WriteRune(rune(value))
			i += digits
		default:
			// Unknown escapes pass through verbatim.
			sb.WriteByte('\\')
			sb.WriteByte(esc)
		}
	}
	return sb.String(), nil
}
