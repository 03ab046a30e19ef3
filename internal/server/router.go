package server

import (
	"net/http"
	"sort"
	"strings"
	"sync"
)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses [http.ServeMux] internally for path matching and dispatches on method per path,
// answering 405 with an Allow header for unregistered methods.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware

	mu     sync.Mutex
	routes map[string]*methodTable
}

type methodTable struct {
	mu       sync.RWMutex
	handlers map[string]http.Handler
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
		routes:      map[string]*methodTable{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
//
// Middleware only wraps handlers registered after the call.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a [Handler] for the specified HTTP method and path.
//
// The first registration for a path wraps the path's method table with all registered middleware,
// so rejected methods are logged too. Several methods may share a path.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	method = strings.ToUpper(method)

	r.mu.Lock()
	table, ok := r.routes[path]
	if !ok {
		table = &methodTable{handlers: map[string]http.Handler{}}
		r.routes[path] = table
		r.mux.Handle(path, r.Apply(table))
	}
	r.mu.Unlock()

	table.mu.Lock()
	table.handlers[method] = handler
	if method == http.MethodGet {
		if _, ok := table.handlers[http.MethodHead]; !ok {
			table.handlers[http.MethodHead] = handler
		}
	}
	table.mu.Unlock()
}

// HandleFunc registers a handler function for the specified HTTP method and path.
func (r *BasicRouter) HandleFunc(method, path string, fn http.HandlerFunc) {
	r.Handle(method, path, fn)
}

// Handler registers a custom Handler implementation.
//
// All routes returned by [Handler.Routes] are registered with this handler for every method.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}

func (t *methodTable) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	t.mu.RLock()
	handler, ok := t.handlers[strings.ToUpper(req.Method)]
	allowed := t.allowed()
	t.mu.RUnlock()

	if !ok {
		w.Header().Set("Allow", allowed)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	handler.ServeHTTP(w, req)
}

func (t *methodTable) allowed() string {
	methods := make([]string, 0, len(t.handlers))
	for m := range t.handlers {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
