package internal

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/locallibrary/pkg/logger"
	"github.com/dmitrymomot/locallibrary/pkg/session"
)

const (
	defaultSessionCookieName = "sessionid"
	defaultSessionMaxAge     = 14 * 24 * 60 * 60
)

// SessionManager ties the session store to the session cookie.
type SessionManager struct {
	store      session.Store
	logger     *slog.Logger
	cookieName string
	domain     string
	path       string
	maxAge     int
	sameSite   http.SameSite
	secure     bool
	httpOnly   bool
}

type SessionOption func(*SessionManager)

func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		logger:     logger.NewNope(),
		cookieName: defaultSessionCookieName,
		maxAge:     defaultSessionMaxAge,
		path:       "/",
		httpOnly:   true,
		sameSite:   http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionMaxAge sets the cookie and session lifetime.
func WithSessionMaxAge(d time.Duration) SessionOption {
	return func(sm *SessionManager) {
		if d > 0 {
			sm.maxAge = int(d.Seconds())
		}
	}
}

func WithSessionDomain(domain string) SessionOption {
	return func(sm *SessionManager) { sm.domain = domain }
}

func WithSessionSecure(secure bool) SessionOption {
	return func(sm *SessionManager) { sm.secure = secure }
}

func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return func(sm *SessionManager) { sm.sameSite = sameSite }
}

func (sm *SessionManager) SetLogger(l *slog.Logger) {
	if l != nil {
		sm.logger = l
	}
}

// LoadSession returns the session named by the request cookie, or nil when
// there is no cookie or the stored session is gone or expired.
func (sm *SessionManager) LoadSession(ctx context.Context, r *http.Request) (*session.Session, error) {
	ck, err := r.Cookie(sm.cookieName)
	if err != nil || ck.Value == "" {
		return nil, nil
	}

	sess, err := sm.store.Get(ctx, ck.Value)
	switch {
	case err == nil:
		return sess, nil
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired), errors.Is(err, session.ErrInvalidToken):
		sm.logger.DebugContext(ctx, "session cookie ignored", slog.Any("reason", err))
		return nil, nil
	default:
		return nil, err
	}
}

// CreateSession persists a fresh anonymous session for r.
func (sm *SessionManager) CreateSession(ctx context.Context, r *http.Request) (*session.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	sess := session.New(uuid.NewString(), token, time.Now().Add(time.Duration(sm.maxAge)*time.Second))
	sess.IP = ClientIP(r)
	sess.UserAgent = r.UserAgent()

	if err := sm.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	sess.ClearNew()
	sess.ClearDirty()
	return sess, nil
}

func (sm *SessionManager) SaveSession(w http.ResponseWriter, sess *session.Session) {
	http.SetCookie(w, sm.cookie(sess.Token, sm.maxAge))
}

func (sm *SessionManager) DeleteSession(w http.ResponseWriter) {
	http.SetCookie(w, sm.cookie("", -1))
}

// RotateToken issues a new token for sess and persists it. The old token
// stops resolving.
func (sm *SessionManager) RotateToken(ctx context.Context, sess *session.Session) error {
	oldToken := sess.Token
	token, err := generateToken()
	if err != nil {
		return err
	}
	sess.Token = token
	sess.MarkDirty()
	if err := sm.store.Update(ctx, sess); err != nil {
		sess.Token = oldToken
		return err
	}
	sess.ClearDirty()
	return nil
}

func (sm *SessionManager) Store() session.Store {
	return sm.store
}

func (sm *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookieName,
		Value:    value,
		Path:     sm.path,
		Domain:   sm.domain,
		MaxAge:   maxAge,
		Secure:   sm.secure,
		HttpOnly: sm.httpOnly,
		SameSite: sm.sameSite,
	}
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ClientIP returns the request's remote IP. chi's RealIP middleware has
// already resolved proxy headers into RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
