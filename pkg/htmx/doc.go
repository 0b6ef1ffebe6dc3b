// Package htmx holds the small set of htmx helpers the web core needs:
// request detection, redirects that survive htmx requests and response
// header options for partial renders.
package htmx
