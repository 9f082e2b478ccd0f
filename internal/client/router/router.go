// Package router keeps track of the view the client is showing.
package router

import "sync"

// Route names a client view.
type Route string

const (
	RouteHome     Route = "/"
	RouteRegister Route = "/register"
	RouteLogin    Route = "/login"
	RouteProfile  Route = "/profile"
)

// Navigator is the only thing the session manager knows about routing.
type Navigator interface {
	Navigate(route Route)
}

// Router is the in-process Navigator used by the CLI. The listener, if set,
// is called after every navigation with the new route.
type Router struct {
	mu       sync.Mutex
	current  Route
	history  []Route
	listener func(Route)
}

// New returns a Router positioned on the landing view.
func New() *Router {
	return &Router{current: RouteHome}
}

// OnNavigate sets the listener called after each navigation.
func (r *Router) OnNavigate(fn func(Route)) {
	r.mu.Lock()
	r.listener = fn
	r.mu.Unlock()
}

func (r *Router) Navigate(route Route) {
	r.mu.Lock()
	r.current = route
	r.history = append(r.history, route)
	fn := r.listener
	r.mu.Unlock()

	if fn != nil {
		fn(route)
	}
}

// Current returns the route shown last.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns every route navigated to, oldest first.
func (r *Router) History() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Route(nil), r.history...)
}
