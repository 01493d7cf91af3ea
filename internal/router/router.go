package router

import (
	"net/http"
	"slices"
	"sort"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Router registers method-qualified ServeMux patterns behind a middleware
// chain. Groups share the mux and the route table of their parent.
type Router struct {
	mux    *http.ServeMux
	chain  []Middleware
	routes *[]string
}

// New creates a router whose routes all run through middleware, outermost first.
func New(middleware ...Middleware) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		chain:  middleware,
		routes: new([]string),
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Get registers a GET route.
func (r *Router) Get(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodGet, pattern, handler, middleware...)
}

// Post registers a POST route.
func (r *Router) Post(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPost, pattern, handler, middleware...)
}

// Handle registers handler for method and pattern. Path wildcards such as
// {id} are read with r.PathValue.
func (r *Router) Handle(method, pattern string, handler http.Handler, middleware ...Middleware) {
	route := method + " " + pattern
	r.mux.Handle(route, chain(handler, slices.Concat(r.chain, middleware)))
	*r.routes = append(*r.routes, route)
}

// Group returns a router on the same mux that adds middleware after this
// router's chain.
func (r *Router) Group(middleware ...Middleware) *Router {
	return &Router{
		mux:    r.mux,
		chain:  slices.Concat(r.chain, middleware),
		routes: r.routes,
	}
}

// Routes lists every registered "METHOD /pattern", sorted by pattern.
func (r *Router) Routes() []string {
	out := slices.Clone(*r.routes)
	sort.SliceStable(out, func(i, j int) bool {
		return routePath(out[i]) < routePath(out[j])
	})
	return out
}

func routePath(route string) string {
	for i := 0; i < len(route); i++ {
		if route[i] == ' ' {
			return route[i+1:]
		}
	}
	return route
}

func chain(h http.Handler, middleware []Middleware) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
