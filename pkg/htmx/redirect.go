package htmx

import "net/http"

// RedirectWithStatus redirects regular requests with status and htmx
// requests through the HX-Redirect header, since htmx ignores 3xx
// responses it cannot follow into a full page load.
func RedirectWithStatus(w http.ResponseWriter, r *http.Request, targetURL string, status int) {
	if IsHTMX(r) {
		w.Header().Set(HeaderHXRedirect, targetURL)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, targetURL, status)
}
