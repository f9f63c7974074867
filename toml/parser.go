package toml

import (
	"fmt"
	"strconv"
	"strings"
)

// parser turns the token stream into nested map[string]any values.
// Tables become maps, arrays of tables become []map[string]any,
// inline arrays become []any.
type parser struct {
	sc    *scanner
	cur   token
	peek  token
	root  map[string]any
	scope map[string]any // table the next key = value lands in
}

func newParser(input []byte) *parser {
	p := &parser{sc: newScanner(input), root: make(map[string]any)}
	p.scope = p.root
	p.advance()
	p.advance()
	return p
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.sc.next()
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("toml: line %d: %s", p.cur.line, fmt.Sprintf(format, args...))
}

func (p *parser) parse() (map[string]any, error) {
	for p.cur.kind != tokEOF {
		switch p.cur.kind {
		case tokNewline:
			p.advance()
		case tokLBracket:
			if err := p.parseHeader(); err != nil {
				return nil, err
			}
		case tokBare, tokString:
			if err := p.parsePair(p.scope); err != nil {
				return nil, err
			}
		case tokError:
			return nil, p.errf("%s", p.cur.text)
		default:
			return nil, p.errf("unexpected %s", p.cur)
		}
	}
	return p.root, nil
}

// parseHeader handles [table] and [[array.of.tables]] lines, moving
// the key scope accordingly
func (p *parser) parseHeader() error {
	isArray := p.peek.kind == tokLBracket
	p.advance()
	if isArray {
		p.advance()
	}

	path, err := p.parseKeyPath()
	if err != nil {
		return err
	}

	for i := 0; i < 1+boolToInt(isArray); i++ {
		if p.cur.kind != tokRBracket {
			return p.errf("expected ] closing table header, got %s", p.cur)
		}
		p.advance()
	}

	// Walk the path from root; intermediate array-of-tables segments
	// resolve to their last element
	cursor := p.root
	for i, key := range path {
		last := i == len(path)-1
		existing, ok := cursor[key]

		if last && isArray {
			var list []map[string]any
			if ok {
				list, ok = existing.([]map[string]any)
				if !ok {
					return p.errf("key %q is not an array of tables", key)
				}
			}
			next := make(map[string]any)
			cursor[key] = append(list, next)
			p.scope = next
			return nil
		}

		if !ok {
			next := make(map[string]any)
			cursor[key] = next
			cursor = next
			continue
		}
		switch v := existing.(type) {
		case map[string]any:
			cursor = v
		case []map[string]any:
			if len(v) == 0 {
				return p.errf("key %q is an empty array of tables", key)
			}
			cursor = v[len(v)-1]
		default:
			return p.errf("key %q is not a table", key)
		}
	}
	p.scope = cursor
	return nil
}

func (p *parser) parsePair(scope map[string]any) error {
	path, err := p.parseKeyPath()
	if err != nil {
		return err
	}
	if p.cur.kind != tokEqual {
		return p.errf("expected = after key %q, got %s", strings.Join(path, "."), p.cur)
	}
	p.advance()

	val, err := p.parseValue()
	if err != nil {
		return err
	}

	cursor := scope
	for _, key := range path[:len(path)-1] {
		if existing, ok := cursor[key]; ok {
			m, ok := existing.(map[string]any)
			if !ok {
				return p.errf("key %q is not a table", key)
			}
			cursor = m
			continue
		}
		next := make(map[string]any)
		cursor[key] = next
		cursor = next
	}
	leaf := path[len(path)-1]
	if _, dup := cursor[leaf]; dup {
		return p.errf("duplicate key %q", leaf)
	}
	cursor[leaf] = val
	return nil
}

func (p *parser) parseKeyPath() ([]string, error) {
	var path []string
	for {
		if p.cur.kind != tokBare && p.cur.kind != tokString && p.cur.kind != tokInteger {
			return nil, p.errf("expected key, got %s", p.cur)
		}
		path = append(path, p.cur.text)
		p.advance()
		if p.cur.kind != tokDot {
			return path, nil
		}
		p.advance()
	}
}

func (p *parser) parseValue() (any, error) {
	switch p.cur.kind {
	case tokString:
		v := p.cur.text
		p.advance()
		return v, nil
	case tokInteger:
		v, err := strconv.ParseInt(p.cur.text, 0, 64)
		if err != nil {
			return nil, p.errf("bad integer %q", p.cur.text)
		}
		p.advance()
		return v, nil
	case tokFloat:
		v, err := strconv.ParseFloat(p.cur.text, 64)
		if err != nil {
			return nil, p.errf("bad float %q", p.cur.text)
		}
		p.advance()
		return v, nil
	case tokBool:
		v := p.cur.text == "true"
		p.advance()
		return v, nil
	case tokLBracket:
		return p.parseArray()
	case tokLBrace:
		return p.parseInlineTable()
	case tokError:
		return nil, p.errf("%s", p.cur.text)
	}
	return nil, p.errf("expected value, got %s", p.cur)
}

func (p *parser) parseArray() ([]any, error) {
	p.advance() // [
	arr := []any{}
	for {
		for p.cur.kind == tokNewline {
			p.advance()
		}
		if p.cur.kind == tokRBracket {
			p.advance()
			return arr, nil
		}

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)

		for p.cur.kind == tokNewline {
			p.advance()
		}
		switch p.cur.kind {
		case tokComma:
			p.advance()
		case tokRBracket:
		default:
			return nil, p.errf("expected , or ] in array, got %s", p.cur)
		}
	}
}

func (p *parser) parseInlineTable() (map[string]any, error) {
	p.advance() // {
	m := make(map[string]any)
	for {
		if p.cur.kind == tokRBrace {
			p.advance()
			return m, nil
		}
		if err := p.parsePair(m); err != nil {
			return nil, err
		}
		switch p.cur.kind {
		case tokComma:
			p.advance()
		case tokRBrace:
		default:
			return nil, p.errf("expected , or } in inline table, got %s", p.cur)
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
