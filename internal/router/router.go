package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/healthscan/backend/internal/web"
)

// Route is one typed descriptor in the dispatch table: method, a segmented
// path pattern relative to /api/, and the handler. Patterns use {name} for
// a parameter segment, which matches digits only.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Router dispatches (method, path) against an ordered table. Earlier rows
// win, so static paths are listed before parametrized ones. A path that
// matches with the wrong method yields 405, no match at all 404.
type Router struct {
	routes []compiledRoute
}

type compiledRoute struct {
	method   string
	segments []string
	handler  http.HandlerFunc
}

func New(routes []Route) *Router {
	r := &Router{}
	for _, rt := range routes {
		r.routes = append(r.routes, compiledRoute{
			method:   rt.Method,
			segments: splitPath(rt.Pattern),
			handler:  rt.Handler,
		})
	}
	return r
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path, ok := strings.CutPrefix(req.URL.Path, "/api/")
	if !ok {
		web.Error(w, http.StatusNotFound, "Endpoint not found")
		return
	}
	segs := splitPath(path)

	pathMatched := false
	for _, route := range rt.routes {
		params, ok := match(route.segments, segs)
		if !ok {
			continue
		}
		if req.Method != route.method {
			pathMatched = true
			continue
		}
		ctx := req.Context()
		if len(params) > 0 {
			ctx = context.WithValue(ctx, ctxParamsKey, params)
		}
		route.handler(w, req.WithContext(ctx))
		return
	}
	if pathMatched {
		web.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	web.Error(w, http.StatusNotFound, "Endpoint not found")
}

// match walks pattern and path segments in lockstep. Parameter segments
// accept digit runs only, keeping matching total with no backtracking.
func match(pattern, segs []string) (map[string]int64, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params map[string]int64
	for i, p := range pattern {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			id, ok := parseID(segs[i])
			if !ok {
				return nil, false
			}
			if params == nil {
				params = make(map[string]int64, 1)
			}
			params[p[1:len(p)-1]] = id
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

func parseID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	var n int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
		if n < 0 { // overflow
			return 0, false
		}
	}
	return n, true
}

type contextKey string

const ctxParamsKey contextKey = "routeParams"

// IDParam returns the numeric path parameter captured as {id}, or false
// when the route had none.
func IDParam(r *http.Request) (int64, bool) {
	return Param(r, "id")
}

// Param returns a named numeric path parameter.
func Param(r *http.Request, name string) (int64, bool) {
	params, _ := r.Context().Value(ctxParamsKey).(map[string]int64)
	id, ok := params[name]
	return id, ok
}
