package routepath

import (
	"net/url"
	"regexp"

	rerrors "github.com/vango-dev/routekit/internal/errors"
)

// absoluteHref matches a scheme ("https://", "custom-protocol://") or a
// protocol-relative prefix ("//").
var absoluteHref = regexp.MustCompile(`^(?:[a-zA-Z][a-zA-Z0-9+.-]*:)?//`)

// ValidateRelative rejects hrefs that carry a protocol, host or port.
// Hrefs built by the router are always relative to the current origin.
func ValidateRelative(href string) error {
	if absoluteHref.MatchString(href) {
		return rerrors.Newf(rerrors.CodeAbsoluteHref,
			"HREF cannot contain protocol, host, or port. Received: %q", href)
	}
	return nil
}

// DecodeComponent decodes percent escapes the way a browser decodes a URI
// component: "+" is kept and every escape, including "%2F", is decoded.
// Text with a malformed escape is returned unchanged.
func DecodeComponent(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
