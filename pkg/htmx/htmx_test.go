package htmx_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/locallibrary/pkg/htmx"
)

func TestIsHTMX(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/catalog/books/?page=2", nil)
	assert.False(t, htmx.IsHTMX(r))

	r.Header.Set(htmx.HeaderHXRequest, "true")
	r.Header.Set(htmx.HeaderHXTarget, "book-list")
	assert.True(t, htmx.IsHTMX(r))
	assert.Equal(t, "book-list", htmx.Target(r))

	r.Header.Set(htmx.HeaderHXBoosted, "true")
	assert.False(t, htmx.IsHTMX(r))
}

func TestRedirectWithStatus(t *testing.T) {
	t.Parallel()

	t.Run("regular request", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		htmx.RedirectWithStatus(rec, httptest.NewRequest(http.MethodPost, "/", nil), "/catalog/borrowed/", http.StatusSeeOther)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/catalog/borrowed/", rec.Header().Get("Location"))
	})

	t.Run("htmx request", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.Header.Set(htmx.HeaderHXRequest, "true")
		rec := httptest.NewRecorder()
		htmx.RedirectWithStatus(rec, r, "/catalog/borrowed/", http.StatusSeeOther)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/catalog/borrowed/", rec.Header().Get(htmx.HeaderHXRedirect))
		assert.Empty(t, rec.Header().Get("Location"))
	})
}

type fragment struct{}

func (fragment) Render(context.Context, io.Writer) error { return nil }

func TestConfig_ApplyHeaders(t *testing.T) {
	t.Parallel()

	cfg := htmx.NewConfig(
		htmx.WithPushURL("/catalog/books/?page=2"),
		htmx.WithTrigger("flash", "list-updated"),
		htmx.WithReswap(htmx.SwapOuterHTML),
		htmx.WithRetarget("#books"),
		htmx.WithOOB(fragment{}),
		htmx.WithRefresh(),
	)
	rec := httptest.NewRecorder()
	cfg.ApplyHeaders(rec)

	h := rec.Header()
	assert.Equal(t, "/catalog/books/?page=2", h.Get(htmx.HeaderHXPushURL))
	assert.Equal(t, "flash, list-updated", h.Get(htmx.HeaderHXTrigger))
	assert.Equal(t, "outerHTML", h.Get(htmx.HeaderHXReswap))
	assert.Equal(t, "#books", h.Get(htmx.HeaderHXRetarget))
	assert.Equal(t, "true", h.Get(htmx.HeaderHXRefresh))
	assert.Len(t, cfg.OOBComponents, 1)

	var nilCfg *htmx.Config
	assert.NotPanics(t, func() { nilCfg.ApplyHeaders(httptest.NewRecorder()) })
}
