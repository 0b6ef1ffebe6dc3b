package internal

// Handler declares routes on a router.
type Handler interface {
	Routes(r Router)
}

// HandlerFunc handles a request. A returned error goes to the ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc.
//
//	func RequireStaff(next internal.HandlerFunc) internal.HandlerFunc {
//		return func(c internal.Context) error {
//			if !c.Can("catalog.can_mark_returned") {
//				return c.Error(http.StatusForbidden, "Forbidden")
//			}
//			return next(c)
//		}
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error
