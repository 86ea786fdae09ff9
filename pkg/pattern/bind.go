package pattern

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Bind copies parameters into the fields of the struct target points to.
// Fields are selected with a `param:"name"` tag; untagged fields and
// parameters that are absent are left alone.
//
// Numbers bind to integer fields only when they have no fractional part.
// A []string field receives the value split on "/", which suits the rest
// parameter ("/a/b" binds as ["a", "b"]).
func (p Params) Bind(target any) error {
	if target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer, got %s", v.Kind())
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct, got pointer to %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("param")
		if name == "" {
			continue
		}
		value, ok := p[name]
		if !ok {
			continue
		}
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if err := setField(fv, value); err != nil {
			return fmt.Errorf("binding param %q: %w", name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, value any) error {
	text := func() string {
		s, _ := Params{"v": value}.String("v")
		return s
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(text())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, ok := value.(float64)
		if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
			return fmt.Errorf("invalid integer: %v", value)
		}
		if field.OverflowInt(int64(f)) {
			return fmt.Errorf("integer out of range: %v", value)
		}
		field.SetInt(int64(f))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f, ok := value.(float64)
		if !ok || f < 0 || f != math.Trunc(f) || math.IsInf(f, 0) {
			return fmt.Errorf("invalid unsigned integer: %v", value)
		}
		if field.OverflowUint(uint64(f)) {
			return fmt.Errorf("unsigned integer out of range: %v", value)
		}
		field.SetUint(uint64(f))

	case reflect.Float32, reflect.Float64:
		f, ok := value.(float64)
		if !ok {
			return fmt.Errorf("invalid float: %v", value)
		}
		field.SetFloat(f)

	case reflect.Bool:
		switch x := value.(type) {
		case bool:
			field.SetBool(x)
		case string:
			b, err := strconv.ParseBool(x)
			if err != nil {
				return fmt.Errorf("invalid boolean: %s", x)
			}
			field.SetBool(b)
		default:
			return fmt.Errorf("invalid boolean: %v", value)
		}

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		var parts []string
		if s := strings.Trim(text(), "/"); s != "" {
			parts = strings.Split(s, "/")
		}
		field.Set(reflect.ValueOf(parts))

	default:
		return fmt.Errorf("unsupported type: %s", field.Kind())
	}
	return nil
}
