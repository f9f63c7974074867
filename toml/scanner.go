// Package toml is a dependency-free TOML subset codec covering the
// constructs the tile formats use: tables, arrays of tables, inline
// tables, nested arrays, strings, integers, floats and booleans.
// Datetimes and multiline strings are not supported.
package toml

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokError tokenKind = iota
	tokEOF
	tokNewline
	tokBare    // unquoted key, true/false excluded
	tokString  // "quoted"
	tokInteger // 42, -7, 0x1F
	tokFloat   // 3.5, 1e-3
	tokBool    // true, false
	tokEqual
	tokDot
	tokComma
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
)

type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokNewline:
		return "newline"
	case tokError:
		return t.text
	}
	return fmt.Sprintf("%q", t.text)
}

// scanner walks the input byte by byte. TOML files here are ASCII
// apart from string contents, where arbitrary UTF-8 passes through
// untouched.
type scanner struct {
	input []byte
	pos   int
	line  int
}

func newScanner(input []byte) *scanner {
	return &scanner{input: input, line: 1}
}

func (s *scanner) next() token {
	s.skipSpace()

	if s.pos >= len(s.input) {
		return token{kind: tokEOF, line: s.line}
	}

	c := s.input[s.pos]
	switch {
	case c == '\n':
		s.pos++
		s.line++
		return token{kind: tokNewline, line: s.line - 1}
	case c == '#':
		for s.pos < len(s.input) && s.input[s.pos] != '\n' {
			s.pos++
		}
		return s.next()
	case c == '=':
		return s.op(tokEqual, "=")
	case c == '.':
		return s.op(tokDot, ".")
	case c == ',':
		return s.op(tokComma, ",")
	case c == '[':
		return s.op(tokLBracket, "[")
	case c == ']':
		return s.op(tokRBracket, "]")
	case c == '{':
		return s.op(tokLBrace, "{")
	case c == '}':
		return s.op(tokRBrace, "}")
	case c == '"':
		return s.scanString()
	case isBareChar(c) || c == '+':
		return s.scanBareOrNumber()
	}

	s.pos++
	return token{kind: tokError, text: fmt.Sprintf("unexpected character %q", c), line: s.line}
}

func (s *scanner) op(kind tokenKind, text string) token {
	s.pos++
	return token{kind: kind, text: text, line: s.line}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.input) {
		switch s.input[s.pos] {
		case ' ', '\t', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) scanString() token {
	s.pos++ // opening quote
	var b strings.Builder
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		switch c {
		case '\n':
			return token{kind: tokError, text: "newline in string", line: s.line}
		case '"':
			s.pos++
			return token{kind: tokString, text: b.String(), line: s.line}
		case '\\':
			s.pos++
			if s.pos >= len(s.input) {
				return token{kind: tokError, text: "unterminated escape", line: s.line}
			}
			switch s.input[s.pos] {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				return token{kind: tokError, text: fmt.Sprintf("unknown escape \\%c", s.input[s.pos]), line: s.line}
			}
			s.pos++
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	return token{kind: tokError, text: "unterminated string", line: s.line}
}

// scanBareOrNumber reads a run of key/number characters and
// classifies it afterwards. Bare keys and numbers share an alphabet,
// so the distinction is in the shape of the run, not its first byte.
func (s *scanner) scanBareOrNumber() token {
	start := s.pos
	sawDot := false
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		if isBareChar(c) || c == '+' {
			s.pos++
			continue
		}
		// A dot ends a key (dotted path) but continues a float
		if c == '.' && !sawDot && s.pos > start && looksNumeric(s.input[start:s.pos]) {
			sawDot = true
			s.pos++
			continue
		}
		break
	}
	text := string(s.input[start:s.pos])

	switch {
	case text == "true" || text == "false":
		return token{kind: tokBool, text: text, line: s.line}
	case sawDot || isFloatLit(text):
		return token{kind: tokFloat, text: text, line: s.line}
	case looksNumeric([]byte(text)):
		return token{kind: tokInteger, text: text, line: s.line}
	}
	return token{kind: tokBare, text: text, line: s.line}
}

func isBareChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '-'
}

// looksNumeric reports whether the run parses as an integer: optional
// sign, then digits, with hex/octal/binary prefixes allowed
func looksNumeric(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if b[0] == '+' || b[0] == '-' {
		b = b[1:]
	}
	if len(b) == 0 {
		return false
	}
	if len(b) > 2 && b[0] == '0' {
		switch b[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			return true
		}
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// isFloatLit catches exponent-form floats without a dot, e.g. 1e-3
func isFloatLit(text string) bool {
	i := strings.IndexAny(text, "eE")
	if i <= 0 {
		return false
	}
	return looksNumeric([]byte(text[:i])) && looksNumeric([]byte(text[i+1:]))
}
