// Package middlewares holds the HTTP middleware used by the application.
//
// RequestID tags each request with an ID, read from X-Request-ID when the
// proxy already set one. RequestIDExtractor and UserIDExtractor add the
// request and user IDs to every log line:
//
//	log := logger.New(cfg, middlewares.RequestIDExtractor(), middlewares.UserIDExtractor())
//
// Recover and Timeout turn panics and slow handlers into PanicError and
// TimeoutError for the app's ErrorHandler.
//
// RequireAuth and RequirePermission guard routes at registration:
//
//	r.GET("/catalog/borrowed/", h.borrowed,
//		middlewares.RequirePermission(catalog.PermCanMarkReturned))
//
// RateLimit throttles a route per client IP with a token bucket.
package middlewares
