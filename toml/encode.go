package toml

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Marshal returns the TOML encoding of v, which must be a struct or
// map (or pointer to one). Scalar fields print before sub-tables so
// the output reparses into the same shape; map keys and struct fields
// print in sorted order for deterministic files. Fields tagged
// `toml:"-"` and nil pointers are skipped, `omitempty` skips zero
// values.
func Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("toml: marshal of nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("toml: marshal root must be a struct or map, got %s", rv.Kind())
	}

	var buf bytes.Buffer
	if err := writeTable(&buf, rv, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type member struct {
	key string
	val reflect.Value
}

// members lists the printable fields of a struct or map in sorted key
// order, with pointers and interfaces unwrapped
func members(rv reflect.Value) ([]member, error) {
	var out []member

	switch rv.Kind() {
	case reflect.Map:
		for _, k := range rv.MapKeys() {
			if k.Kind() != reflect.String {
				return nil, fmt.Errorf("toml: map key type must be string")
			}
			out = append(out, member{key: k.String(), val: unwrap(rv.MapIndex(k))})
		}
	case reflect.Struct:
		typ := rv.Type()
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if field.PkgPath != "" {
				continue
			}
			key := fieldKey(field)
			if key == "-" {
				continue
			}
			val := unwrap(rv.Field(i))
			if !val.IsValid() {
				continue
			}
			if strings.Contains(field.Tag.Get("toml"), ",omitempty") && val.IsZero() {
				continue
			}
			out = append(out, member{key: key, val: val})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out, nil
}

func unwrap(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// isTable reports whether v prints as a [header] or [[header]] block
// rather than an inline value
func isTable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Struct, reflect.Map:
		return true
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return false
		}
		first := unwrap(v.Index(0))
		return first.IsValid() && (first.Kind() == reflect.Struct || first.Kind() == reflect.Map)
	}
	return false
}

func writeTable(buf *bytes.Buffer, rv reflect.Value, prefix string) error {
	ms, err := members(rv)
	if err != nil {
		return err
	}

	for _, m := range ms {
		if isTable(m.val) {
			continue
		}
		writeKey(buf, m.key)
		buf.WriteString(" = ")
		if err := writeValue(buf, m.val); err != nil {
			return fmt.Errorf("toml: key %q: %w", m.key, err)
		}
		buf.WriteByte('\n')
	}

	for _, m := range ms {
		if !isTable(m.val) {
			continue
		}
		full := m.key
		if prefix != "" {
			full = prefix + "." + m.key
		}
		switch m.val.Kind() {
		case reflect.Struct, reflect.Map:
			fmt.Fprintf(buf, "\n[%s]\n", full)
			if err := writeTable(buf, m.val, full); err != nil {
				return err
			}
		case reflect.Slice, reflect.Array:
			for i := 0; i < m.val.Len(); i++ {
				elem := unwrap(m.val.Index(i))
				if !elem.IsValid() {
					continue
				}
				fmt.Fprintf(buf, "\n[[%s]]\n", full)
				if err := writeTable(buf, elem, full); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeValue(buf *bytes.Buffer, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		buf.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.String:
		writeString(buf, v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		s := strconv.FormatFloat(v.Float(), 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		buf.WriteString(s)
	case reflect.Slice, reflect.Array:
		buf.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				buf.WriteString(", ")
			}
			elem := unwrap(v.Index(i))
			if !elem.IsValid() {
				return fmt.Errorf("nil array element")
			}
			if err := writeValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unsupported value kind %s", v.Kind())
	}
	return nil
}

func writeKey(buf *bytes.Buffer, key string) {
	if isBareKey(key) {
		buf.WriteString(key)
		return
	}
	writeString(buf, key)
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04X`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// isBareKey reports whether key round-trips unquoted: the scanner
// must classify it as a bare key, not a number or boolean
func isBareKey(key string) bool {
	if key == "" || key == "true" || key == "false" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if !isBareChar(key[i]) {
			return false
		}
	}
	return !looksNumeric([]byte(key))
}
