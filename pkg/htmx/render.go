package htmx

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// Renderable matches templ.Component.
type Renderable interface {
	Render(ctx context.Context, w io.Writer) error
}

// SwapStrategy is an hx-swap value.
type SwapStrategy string

const (
	SwapInnerHTML SwapStrategy = "innerHTML"
	SwapOuterHTML SwapStrategy = "outerHTML"
	SwapNone      SwapStrategy = "none"
)

// Config collects response headers and out-of-band fragments for a
// partial render.
type Config struct {
	OOBComponents []Renderable
	Retarget      string
	Reswap        SwapStrategy
	PushURL       string
	Triggers      []string
	Refresh       bool
}

// RenderOption configures a partial render.
type RenderOption func(*Config)

func NewConfig(opts ...RenderOption) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ApplyHeaders writes the configured HX-* headers. Must run before WriteHeader.
func (c *Config) ApplyHeaders(w http.ResponseWriter) {
	if c == nil {
		return
	}
	h := w.Header()
	if c.Retarget != "" {
		h.Set(HeaderHXRetarget, c.Retarget)
	}
	if c.Reswap != "" {
		h.Set(HeaderHXReswap, string(c.Reswap))
	}
	if c.PushURL != "" {
		h.Set(HeaderHXPushURL, c.PushURL)
	}
	if len(c.Triggers) > 0 {
		h.Set(HeaderHXTrigger, strings.Join(c.Triggers, ", "))
	}
	if c.Refresh {
		h.Set(HeaderHXRefresh, "true")
	}
}

// WithOOB appends fragments carrying hx-swap-oob to the response.
func WithOOB(components ...Renderable) RenderOption {
	return func(c *Config) { c.OOBComponents = append(c.OOBComponents, components...) }
}

func WithRetarget(selector string) RenderOption {
	return func(c *Config) { c.Retarget = selector }
}

func WithReswap(s SwapStrategy) RenderOption {
	return func(c *Config) { c.Reswap = s }
}

// WithPushURL records url in browser history after the swap.
func WithPushURL(url string) RenderOption {
	return func(c *Config) { c.PushURL = url }
}

// WithTrigger fires client-side events once the response arrives.
func WithTrigger(events ...string) RenderOption {
	return func(c *Config) { c.Triggers = append(c.Triggers, events...) }
}

func WithRefresh() RenderOption {
	return func(c *Config) { c.Refresh = true }
}
