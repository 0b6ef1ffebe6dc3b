package htmx

import "net/http"

// IsHTMX reports whether r was issued by htmx.
// Boosted navigations count as full page loads.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderHXRequest) == "true" && r.Header.Get(HeaderHXBoosted) != "true"
}

// Target returns the id of the element htmx will swap into, if any.
func Target(r *http.Request) string {
	return r.Header.Get(HeaderHXTarget)
}
