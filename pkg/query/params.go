// Package query implements ordered query parameters and the rules for
// carrying parameters of the current URL over to a new one.
//
// net/url.Values is a map, so it loses the order parameters were written in;
// hrefs built by the router must keep it ("?plus=another&extra=thing").
package query

import (
	"net/url"
	"strings"
)

// Pair is one key/value occurrence.
type Pair struct {
	Key   string
	Value string
}

// Params is an ordered multi-map of query parameters. Duplicate keys are
// allowed and kept in insertion order.
type Params []Pair

// Parse reads a raw query string, with or without the leading "?".
// Malformed escapes are kept verbatim.
func Parse(raw string) Params {
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return nil
	}
	var out Params
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		out = append(out, Pair{Key: unescape(k), Value: unescape(v)})
	}
	return out
}

func unescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return u
}

// Len returns the number of pairs.
func (p Params) Len() int {
	return len(p)
}

// Get returns the first value stored for key.
func (p Params) Get(key string) (string, bool) {
	for _, pair := range p {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

// GetAll returns every value stored for key, in order.
func (p Params) GetAll(key string) []string {
	var out []string
	for _, pair := range p {
		if pair.Key == key {
			out = append(out, pair.Value)
		}
	}
	return out
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Keys returns the distinct keys in order of first appearance.
func (p Params) Keys() []string {
	seen := make(map[string]bool, len(p))
	var keys []string
	for _, pair := range p {
		if !seen[pair.Key] {
			seen[pair.Key] = true
			keys = append(keys, pair.Key)
		}
	}
	return keys
}

// Append returns p with key=value added at the end.
func (p Params) Append(key, value string) Params {
	return append(p, Pair{Key: key, Value: value})
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	copy(out, p)
	return out
}

// Values converts to url.Values. Order between keys is lost.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for _, pair := range p {
		v.Add(pair.Key, pair.Value)
	}
	return v
}

// Encode serializes the pairs in order using form encoding.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, pair := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(pair.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(pair.Value))
	}
	return sb.String()
}

// String returns Encode prefixed with "?" or "" when empty.
func (p Params) String() string {
	if len(p) == 0 {
		return ""
	}
	return "?" + p.Encode()
}
