package playground

import (
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/pattern"
	"github.com/vango-dev/routekit/pkg/router"
)

// Snapshot is the observable state of the kernel.
type Snapshot struct {
	URL       string            `json:"url"`
	Path      string            `json:"path"`
	HashPaths map[string]string `json:"hashPaths,omitempty"`
	State     location.State    `json:"state"`
	History   []string          `json:"history"`
	Index     int               `json:"index"`
	Routers   []RouterSnapshot  `json:"routers"`
}

// RouterSnapshot describes one router.
type RouterSnapshot struct {
	ID       string                 `json:"id,omitempty"`
	Hash     string                 `json:"hash"`
	BasePath string                 `json:"basePath"`
	TestPath string                 `json:"testPath"`
	Routes   map[string]RouteResult `json:"routes"`
	Fallback bool                   `json:"fallback"`
}

// RouteResult is the match state of one route.
type RouteResult struct {
	Match  bool           `json:"match"`
	Params pattern.Params `json:"params,omitempty"`
}

// snapshot reads every reactive value it reports, so calling it inside an
// effect subscribes the effect to all of them.
func (s *Server) snapshot() Snapshot {
	loc := s.lite
	u := loc.URL()
	snap := Snapshot{
		URL:     u.String(),
		Path:    loc.Path(),
		State:   s.history.State(),
		History: s.history.Entries(),
		Index:   s.history.Index(),
		Routers: make([]RouterSnapshot, 0, len(s.inst.Routers)),
	}
	if paths := loc.HashPaths(); len(paths) > 0 {
		snap.HashPaths = paths.Map()
	}
	for _, e := range s.inst.Routers {
		snap.Routers = append(snap.Routers, routerSnapshot(e))
	}
	return snap
}

func routerSnapshot(e *router.Engine) RouterSnapshot {
	status := e.RouteStatus()
	rs := RouterSnapshot{
		ID:       e.ID(),
		Hash:     e.ResolvedHash().String(),
		BasePath: e.BasePath(),
		TestPath: e.TestPath(),
		Routes:   make(map[string]RouteResult, len(status)),
		Fallback: e.Fallback(),
	}
	for name, st := range status {
		rs.Routes[name] = RouteResult{Match: st.Match, Params: st.Params}
	}
	return rs
}
