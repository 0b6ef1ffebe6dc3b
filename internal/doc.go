// Package internal is the application's web core: a chi-backed App, the
// per-request Context handed to handlers, server-side sessions, cookies,
// role-based permissions and background job access.
//
// Handlers implement Handler and declare routes on a Router:
//
//	func (h *Books) Routes(r internal.Router) {
//		r.GET("/catalog/books/", h.list)
//		r.GET("/catalog/book/{id}", h.detail)
//	}
//
// A HandlerFunc returns an error instead of writing failures itself; the
// App hands it to the configured ErrorHandler unless the response was
// already written.
//
// Sessions load lazily on the first Session, UserID or Can call and are
// saved right before the response headers are sent. Every Context created
// for one request shares the loaded session, so middleware and handler see
// the same state.
package internal
