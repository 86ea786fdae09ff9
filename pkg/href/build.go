package href

import (
	"net/url"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/query"
)

// Build combines the path of pathPiece with the fragment of hashPiece.
// Queries of both pieces are merged, followed by the parameters of the
// current URL selected by preserve.
//
// It serves cross-universe redirections: the path piece comes from one
// Calculate call and the hash piece from another, so neither universe is
// reset.
func Build(view View, pathPiece, hashPiece string, preserve query.Preserve) (string, error) {
	base := view.URL()
	pp, err := resolve(base, pathPiece)
	if err != nil {
		return "", err
	}
	hp, err := resolve(base, hashPiece)
	if err != nil {
		return "", err
	}

	merged := query.Merge(query.Parse(pp.RawQuery), query.Parse(hp.RawQuery))
	merged = query.MergePreserved(merged, query.Parse(base.RawQuery), preserve)

	out := pp.EscapedPath() + merged.String()
	if frag := hp.EscapedFragment(); frag != "" {
		out += "#" + frag
	}
	return out, nil
}

// PreserveQueryInURL resolves target against the current origin and appends
// the parameters of the current URL selected by preserve.
func PreserveQueryInURL(view View, target string, preserve query.Preserve) (string, error) {
	current := view.URL()
	origin := &url.URL{Scheme: current.Scheme, Host: current.Host}
	u, err := resolve(origin, target)
	if err != nil {
		return "", err
	}
	if preserve.IsZero() {
		return u.String(), nil
	}
	merged := query.MergePreserved(query.Parse(u.RawQuery), query.Parse(current.RawQuery), preserve)
	u.RawQuery = merged.Encode()
	return u.String(), nil
}

func resolve(base *url.URL, ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, rerrors.Newf(rerrors.CodeInvalidURL, "Cannot parse %q: %v", ref, err).Wrap(err)
	}
	return base.ResolveReference(r), nil
}
