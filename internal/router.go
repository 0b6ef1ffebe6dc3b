package internal

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// Router is the route declaration surface handed to Handler.Routes. Pages
// are plain HTML forms, so only GET and POST exist.
//
// Handlers register full paths such as "/catalog/books/{id:[0-9]+}".
// Several handlers share the /catalog prefix, and guards are applied with
// Group and Use.
type Router interface {
	GET(path string, h HandlerFunc, mw ...Middleware)
	POST(path string, h HandlerFunc, mw ...Middleware)

	// Group shares middleware between routes without adding a prefix.
	Group(fn func(r Router))
	Use(mw ...Middleware)
}

type routerAdapter struct {
	router chi.Router
	app    *App
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Method(http.MethodGet, path, r.wrap(h, mw))
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Method(http.MethodPost, path, r.wrap(h, mw))
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.router.Use(r.app.adaptMiddleware(m))
	}
}

// wrap applies route middleware; the first listed runs outermost.
func (r *routerAdapter) wrap(h HandlerFunc, mw []Middleware) http.HandlerFunc {
	for _, m := range slices.Backward(mw) {
		h = m(h)
	}
	return r.app.wrapHandler(h)
}

// adaptMiddleware turns a Middleware into chi middleware. next receives the
// request as the middleware left it, so values stored with c.Set carry on.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := newContext(w, r, a)
			h := mw(func(c Context) error {
				next.ServeHTTP(c.Response(), c.Request())
				return nil
			})
			if err := h(c); err != nil {
				a.handleError(c, err)
			}
		})
	}
}
