package internal

import "strconv"

// ContextValue returns the request-scoped value stored under key, or T's
// zero value.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// QueryInt parses a positive integer query parameter. It returns def when
// the parameter is absent and ok=false when it is present but not a
// positive integer.
func QueryInt(c Context, name string, def int) (n int, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
