package playground

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/href"
	"github.com/vango-dev/routekit/pkg/kernel"
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/query"
)

type navigateRequest struct {
	Href          string `json:"href"`
	Hash          any    `json:"hash"`
	Replace       bool   `json:"replace"`
	PreserveQuery any    `json:"preserveQuery"`
	State         any    `json:"state"`
}

type goToRequest struct {
	Href          string          `json:"href"`
	Replace       bool            `json:"replace"`
	PreserveQuery any             `json:"preserveQuery"`
	State         *location.State `json:"state"`
}

type goRequest struct {
	Delta int `json:"delta"`
}

type hrefResponse struct {
	Href string `json:"href"`
}

type routersResponse struct {
	Tree    []*kernel.TraceNode `json:"tree,omitempty"`
	Routers []RouterSnapshot    `json:"routers"`
}

type errorResponse struct {
	Code     string `json:"code,omitempty"`
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
	Detail   string `json:"detail,omitempty"`
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	var snap Snapshot
	err := s.locked(func() error {
		snap = s.snapshot()
		return nil
	})
	s.respond(w, snap, err)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !decode(w, r, &req) {
		return
	}
	h, err := hash.FromValue(req.Hash)
	if err != nil {
		badRequest(w, err)
		return
	}
	preserve, err := query.PreserveFrom(req.PreserveQuery)
	if err != nil {
		badRequest(w, err)
		return
	}

	var snap Snapshot
	err = s.locked(func() error {
		if err := s.lite.Navigate(req.Href, location.NavigateOptions{
			Hash:          h,
			Replace:       req.Replace,
			PreserveQuery: preserve,
			State:         req.State,
		}); err != nil {
			return err
		}
		snap = s.snapshot()
		return nil
	})
	s.respond(w, snap, err)
}

func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	var req goToRequest
	if !decode(w, r, &req) {
		return
	}
	preserve, err := query.PreserveFrom(req.PreserveQuery)
	if err != nil {
		badRequest(w, err)
		return
	}

	var snap Snapshot
	err = s.locked(func() error {
		if err := s.lite.GoTo(req.Href, location.GoToOptions{
			Replace:       req.Replace,
			PreserveQuery: preserve,
			State:         req.State,
		}); err != nil {
			return err
		}
		snap = s.snapshot()
		return nil
	})
	s.respond(w, snap, err)
}

func (s *Server) handleTraverse(delta int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.traverse(w, delta)
	}
}

func (s *Server) handleGo(w http.ResponseWriter, r *http.Request) {
	var req goRequest
	if !decode(w, r, &req) {
		return
	}
	s.traverse(w, req.Delta)
}

func (s *Server) traverse(w http.ResponseWriter, delta int) {
	var snap Snapshot
	err := s.locked(func() error {
		s.lite.Go(delta)
		snap = s.snapshot()
		return nil
	})
	s.respond(w, snap, err)
}

func (s *Server) handleHref(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := href.Options{
		Hash:          parseHash(q.Get("hash")),
		PreserveQuery: parsePreserve(q.Get("preserveQuery")),
	}
	opts.PreserveHash, _ = strconv.ParseBool(q.Get("preserveHash"))

	var resp hrefResponse
	err := s.locked(func() error {
		out, err := href.Calculate(s.lite, s.k.Options, opts, q["path"]...)
		resp.Href = out
		return err
	})
	s.respond(w, resp, err)
}

func (s *Server) handleRouters(w http.ResponseWriter, r *http.Request) {
	var resp routersResponse
	err := s.locked(func() error {
		resp.Tree = s.k.Trace.Tree()
		for _, e := range s.inst.Routers {
			resp.Routers = append(resp.Routers, routerSnapshot(e))
		}
		return nil
	})
	s.respond(w, resp, err)
}

// parseHash maps "" to Unset, "true"/"false" to Single/Path and anything
// else to a named universe.
func parseHash(v string) hash.Hash {
	if b, err := strconv.ParseBool(v); err == nil {
		return hash.FromBool(b)
	}
	return hash.Named(v)
}

// parsePreserve maps "true" to every key, "false" or "" to none and
// anything else to a comma-separated key list.
func parsePreserve(v string) query.Preserve {
	if b, err := strconv.ParseBool(v); err == nil {
		if b {
			return query.PreserveAll()
		}
		return query.PreserveNone()
	}
	if v == "" {
		return query.PreserveNone()
	}
	return query.PreserveKeys(strings.Split(v, ",")...)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, err)
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		s.logger.Debug("playground: request failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
}

func writeError(w http.ResponseWriter, err error) {
	var re *rerrors.RouteError
	if !errors.As(err, &re) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: err.Error()})
		return
	}
	status := http.StatusBadRequest
	switch re.Category {
	case rerrors.CategoryLifecycle:
		status = http.StatusConflict
	case rerrors.CategoryUnsupported:
		status = http.StatusNotImplemented
	}
	writeJSON(w, status, errorResponse{
		Code:     re.Code,
		Category: string(re.Category),
		Message:  re.Message,
		Detail:   re.Detail,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
