// Package routepath holds the string helpers shared by the href calculator,
// the location and the pattern compiler: joining path segments, trimming
// trailing slashes, splitting hrefs and rejecting absolute targets.
package routepath

import (
	"regexp"
	"strings"
)

var (
	multiSlash  = regexp.MustCompile(`/{2,}`)
	driveLetter = regexp.MustCompile(`^/[A-Za-z]:`)
)

// JoinPaths joins the non-empty parts with "/", collapses repeated slashes and
// removes the trailing slash (except for the root path "/").
// No leading slash is added: JoinPaths("a", "b") is "a/b".
func JoinPaths(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	joined := multiSlash.ReplaceAllString(strings.Join(kept, "/"), "/")
	return NoTrailingSlash(joined)
}

// NoTrailingSlash removes one trailing slash unless path is "/".
func NoTrailingSlash(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return path[:len(path)-1]
	}
	return path
}

// StripDriveLetter removes a Windows drive prefix ("/C:") from the pathname
// of a file: URL.
func StripDriveLetter(path string) string {
	if loc := driveLetter.FindStringIndex(path); loc != nil {
		return path[loc[1]:]
	}
	return path
}

// SplitHref splits a relative href into its path, query and fragment.
// The query and fragment are returned without "?" and "#".
func SplitHref(href string) (path, query, fragment string) {
	rest, fragment, _ := strings.Cut(href, "#")
	path, query, _ = strings.Cut(rest, "?")
	return path, query, fragment
}

// SplitPathAndQuery splits a path into path and query components.
// The query is returned without the leading "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}
