// Package pattern compiles route patterns such as "/users/:id", "/:lang?/docs"
// or "/files/*" into anchored regular expressions, and extracts typed
// parameters from the paths they match.
//
// Compilation escapes the regexp metacharacters . + ^ $ { } ( ) | [ ] and \,
// turns every ":name" into a named group matching one path segment, makes
// ":name?" optional together with its leading slash, and turns a trailing
// "/*" into the "rest" group. "*" and "?" elsewhere keep their regexp meaning.
package pattern

import (
	"regexp"
	"strings"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/routepath"
)

// RestParam is the name of the parameter produced by a trailing "/*".
const RestParam = "rest"

// Predicate is an extra condition evaluated against the parameters of a
// matching path. params is nil when the pattern has no named groups.
type Predicate func(params Params) bool

// RouteInfo describes a route.
type RouteInfo struct {
	// Path is the route pattern. It is joined to the router's base path.
	// An empty Path with a nil Regexp matches every path.
	Path string

	// Regexp, when set, is used verbatim and Path is ignored.
	Regexp *regexp.Regexp

	// And is evaluated only after the pattern matched.
	And Predicate

	// CaseSensitive disables the default case-insensitive matching.
	CaseSensitive bool

	// IgnoreForFallback excludes the route from fallback calculation.
	IgnoreForFallback bool
}

// Compiled is the matchable form of a RouteInfo.
type Compiled struct {
	// Regexp is nil for routes that match every path.
	Regexp            *regexp.Regexp
	And               Predicate
	IgnoreForFallback bool
}

var (
	metaChars     = regexp.MustCompile(`[.+^${}()|\[\]\\]`)
	identifier    = regexp.MustCompile(`(/)?:([a-zA-Z_]\w*)(\?)?`)
	restSuffix    = regexp.MustCompile(`/\*$`)
	paramValueRe  = `[^/]+`
	restReplaceRe = `(?P<` + RestParam + `>/.*)`
)

// escape backslash-escapes the metacharacters the pattern syntax treats
// literally.
func escape(s string) string {
	return metaChars.ReplaceAllString(s, `\$0`)
}

// Source returns the regular expression source a pattern compiles to,
// without the case-insensitivity flag.
func Source(path, basePath string) string {
	if basePath == "" {
		basePath = "/"
	}
	if path == "/" {
		path = ""
	}
	full := escape(routepath.JoinPaths(basePath, path))

	var sb strings.Builder
	last := 0
	for _, m := range identifier.FindAllStringSubmatchIndex(full, -1) {
		sb.WriteString(full[last:m[0]])
		slash := m[2] >= 0
		name := full[m[4]:m[5]]
		optional := m[6] >= 0

		group := `(?P<` + name + `>` + paramValueRe + `)`
		if slash {
			sb.WriteByte('/')
			if optional {
				sb.WriteByte('?')
			}
		}
		if optional {
			group = `(?:` + group + `)?`
		}
		sb.WriteString(group)
		last = m[1]
	}
	sb.WriteString(full[last:])

	src := restSuffix.ReplaceAllLiteralString(sb.String(), restReplaceRe)
	return "^" + src + "$"
}

// Compile turns info into its matchable form. basePath defaults to "/".
func Compile(info RouteInfo, basePath string) (Compiled, error) {
	c := Compiled{
		And:               info.And,
		IgnoreForFallback: info.IgnoreForFallback,
	}
	if info.Regexp != nil {
		c.Regexp = info.Regexp
		return c, nil
	}
	if info.Path == "" {
		return c, nil
	}

	src := Source(info.Path, basePath)
	if !info.CaseSensitive {
		src = "(?i)" + src
	}
	re, err := compileRegexp(src)
	if err != nil {
		return Compiled{}, rerrors.Newf(rerrors.CodeInvalidPattern,
			"Route pattern %q does not compile: %v", info.Path, err).Wrap(err)
	}
	if name := duplicateGroup(re); name != "" {
		return Compiled{}, rerrors.Newf(rerrors.CodeInvalidPattern,
			"Route pattern %q declares parameter %q more than once.", info.Path, name)
	}
	c.Regexp = re
	return c, nil
}

// duplicateGroup returns the first group name re uses twice, or "".
func duplicateGroup(re *regexp.Regexp) string {
	seen := make(map[string]bool)
	for _, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		if seen[name] {
			return name
		}
		seen[name] = true
	}
	return ""
}

// Exec matches testPath against the compiled pattern and returns the
// decoded, coerced values of the named groups that participated.
// A nil Regexp always matches with nil params.
func (c Compiled) Exec(testPath string) (bool, Params) {
	if c.Regexp == nil {
		return true, nil
	}
	m := c.Regexp.FindStringSubmatchIndex(testPath)
	if m == nil {
		return false, nil
	}

	var params Params
	for i, name := range c.Regexp.SubexpNames() {
		if name == "" {
			continue
		}
		if params == nil {
			params = Params{}
		}
		if m[2*i] < 0 {
			continue
		}
		params[name] = Coerce(routepath.DecodeComponent(testPath[m[2*i]:m[2*i+1]]))
	}
	return true, params
}

// Test is Exec followed by the And predicate.
func (c Compiled) Test(testPath string) (bool, Params) {
	matched, params := c.Exec(testPath)
	if matched && c.And != nil {
		matched = c.And(params)
	}
	return matched, params
}
