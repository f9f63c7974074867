package toml

import (
	"fmt"
	"reflect"
	"strings"
)

// Unmarshal parses data and stores the result in the struct or map
// pointed to by v. Struct fields map through their `toml` tag when
// present, the field name otherwise; a tag of "-" skips the field.
func Unmarshal(data []byte, v any) error {
	parsed, err := newParser(data).parse()
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("toml: unmarshal target must be a non-nil pointer")
	}
	return decodeValue(parsed, rv.Elem())
}

func decodeValue(data any, dst reflect.Value) error {
	if data == nil {
		return nil
	}

	switch dst.Kind() {
	case reflect.Ptr:
		next := reflect.New(dst.Type().Elem())
		if err := decodeValue(data, next.Elem()); err != nil {
			return err
		}
		dst.Set(next)
		return nil

	case reflect.Struct:
		m, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("toml: expected table for %s, got %T", dst.Type(), data)
		}
		return decodeStruct(m, dst)

	case reflect.Slice:
		return decodeSlice(data, dst)

	case reflect.Map:
		if dst.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("toml: map key type must be string")
		}
		m, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("toml: expected table for %s, got %T", dst.Type(), data)
		}
		out := reflect.MakeMapWithSize(dst.Type(), len(m))
		for k, v := range m {
			elem := reflect.New(dst.Type().Elem()).Elem()
			if err := decodeValue(v, elem); err != nil {
				return fmt.Errorf("toml: key %q: %w", k, err)
			}
			out.SetMapIndex(reflect.ValueOf(k), elem)
		}
		dst.Set(out)
		return nil

	case reflect.Interface:
		dst.Set(reflect.ValueOf(data))
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := asInt64(data)
		if !ok {
			return fmt.Errorf("toml: cannot store %T in %s", data, dst.Type())
		}
		if dst.OverflowInt(n) {
			return fmt.Errorf("toml: %d overflows %s", n, dst.Type())
		}
		dst.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := asInt64(data)
		if !ok || n < 0 {
			return fmt.Errorf("toml: cannot store %T in %s", data, dst.Type())
		}
		if dst.OverflowUint(uint64(n)) {
			return fmt.Errorf("toml: %d overflows %s", n, dst.Type())
		}
		dst.SetUint(uint64(n))
		return nil

	case reflect.Float32, reflect.Float64:
		switch n := data.(type) {
		case float64:
			dst.SetFloat(n)
		case int64:
			dst.SetFloat(float64(n))
		default:
			return fmt.Errorf("toml: cannot store %T in %s", data, dst.Type())
		}
		return nil

	case reflect.String:
		s, ok := data.(string)
		if !ok {
			return fmt.Errorf("toml: cannot store %T in string", data)
		}
		dst.SetString(s)
		return nil

	case reflect.Bool:
		b, ok := data.(bool)
		if !ok {
			return fmt.Errorf("toml: cannot store %T in bool", data)
		}
		dst.SetBool(b)
		return nil
	}
	return fmt.Errorf("toml: unsupported target kind %s", dst.Kind())
}

func decodeSlice(data any, dst reflect.Value) error {
	var items []any
	switch src := data.(type) {
	case []any:
		items = src
	case []map[string]any:
		items = make([]any, len(src))
		for i, m := range src {
			items[i] = m
		}
	default:
		return fmt.Errorf("toml: expected array for %s, got %T", dst.Type(), data)
	}

	out := reflect.MakeSlice(dst.Type(), len(items), len(items))
	for i, item := range items {
		if err := decodeValue(item, out.Index(i)); err != nil {
			return fmt.Errorf("toml: element %d: %w", i, err)
		}
	}
	dst.Set(out)
	return nil
}

func decodeStruct(data map[string]any, dst reflect.Value) error {
	typ := dst.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		key := fieldKey(field)
		if key == "-" {
			continue
		}
		if v, ok := data[key]; ok {
			if err := decodeValue(v, dst.Field(i)); err != nil {
				return fmt.Errorf("toml: field %s: %w", field.Name, err)
			}
		}
	}
	return nil
}

func fieldKey(field reflect.StructField) string {
	tag := field.Tag.Get("toml")
	if tag == "" {
		return field.Name
	}
	if i := strings.IndexByte(tag, ','); i >= 0 {
		if i == 0 {
			return field.Name
		}
		return tag[:i]
	}
	return tag
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}
