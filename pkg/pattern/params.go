package pattern

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Params holds route parameters. Values are string, float64 or bool.
type Params map[string]any

// String returns the parameter formatted as text.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

// Float returns a numeric parameter.
func (p Params) Float(key string) (float64, bool) {
	f, ok := p[key].(float64)
	return f, ok
}

// Int returns a numeric parameter that has no fractional part.
func (p Params) Int(key string) (int, bool) {
	f, ok := p.Float(key)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// Bool returns a boolean parameter.
func (p Params) Bool(key string) (bool, bool) {
	b, ok := p[key].(bool)
	return b, ok
}

var decimalNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

// Coerce converts a decoded parameter value: "" stays "", text that reads as
// a number becomes a float64, "true" and "false" become bools and anything
// else stays a string.
//
// Numbers follow browser Number() parsing: surrounding whitespace is
// ignored, whitespace-only text is 0, and 0x, 0o, 0b and Infinity forms are
// accepted.
func Coerce(value string) any {
	if value == "" {
		return value
	}
	if f, ok := parseNumber(value); ok {
		return f
	}
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseRadix(s[2:], base)
		}
	}
	if !decimalNumber.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out of range values saturate to ±Inf, as ParseFloat reports them.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}

func parseRadix(digits string, base int) (float64, bool) {
	if strings.ContainsAny(digits, "_+-") {
		return 0, false
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0, false
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f, true
}
