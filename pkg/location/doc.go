// Package location abstracts the browser location for the router.
//
// A Location exposes the current URL, the pathname used by path routing and
// the hash paths used by hash routing as reactive values, keeps one history
// state slot per routing universe, and performs navigation.
//
// Lite is the Location used by default. It drives a HistoryAPI capability;
// MemoryHistory implements that capability in memory for tests, command line
// tools and servers.
//
//	history, _ := location.NewMemoryHistory("http://localhost/")
//	loc, _ := location.NewLite(history, options.NewRegistry())
//	defer loc.Dispose()
//
//	_ = loc.Navigate("/users/42", location.NavigateOptions{})
//	loc.Path() // "/users/42"
//
// Only one Lite may be alive at a time: it stands for the single browser
// location of an application.
package location
