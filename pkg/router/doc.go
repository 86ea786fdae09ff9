// Package router derives route matches from the current location.
//
// An Engine owns a set of named routes and a base path. It exposes the
// match status of every route and whether none of them matched (the
// fallback condition) as reactive values that recompute when the URL,
// the routes or the base path change.
//
//	r, err := router.New(kernel.Active(), router.Options{})
//	if err != nil {
//	    return err
//	}
//	defer r.Dispose()
//
//	_ = r.SetRoute("user", pattern.RouteInfo{Path: "/user/:id"})
//	if st := r.RouteStatus()["user"]; st.Match {
//	    id, _ := st.Params.Int("id")
//	    ...
//	}
//
// Engines form a hierarchy: a child inherits its parent's routing
// universe and its base path is joined to the parent's.
//
// RouteHelper is the matching primitive shared by engines and the
// redirect package. It resolves the test path of one routing universe:
// the pathname for path routing, the whole fragment for single hash
// routing, or one named entry of the fragment for multi hash routing.
package router
