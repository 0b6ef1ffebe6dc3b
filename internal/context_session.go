package internal

import (
	"errors"
	"log/slog"

	"github.com/dmitrymomot/locallibrary/pkg/session"
)

// registerSessionHook saves a dirty session right before the response
// headers go out.
func (c *requestContext) registerSessionHook() {
	if c.state.hookRegistered {
		return
	}
	c.state.hookRegistered = true
	c.responseWriter.OnBeforeWrite(func() {
		sess := c.state.session
		if sess == nil || !sess.IsDirty() {
			return
		}
		if err := c.app.sessionManager.Store().Update(c.Context(), sess); err != nil {
			c.LogError("failed to save session", slog.Any("error", err))
			return
		}
		sess.ClearDirty()
	})
}

func (c *requestContext) Session() (*session.Session, error) {
	sm := c.app.sessionManager
	if sm == nil {
		return nil, session.ErrNotConfigured
	}
	c.registerSessionHook()

	if c.state.sessionLoaded {
		return c.state.session, nil
	}

	sess, err := sm.LoadSession(c.Context(), c.request)
	if err != nil {
		return nil, err
	}
	c.state.session = sess
	c.state.sessionLoaded = true
	return sess, nil
}

func (c *requestContext) InitSession() error {
	sm := c.app.sessionManager
	if sm == nil {
		return session.ErrNotConfigured
	}
	c.registerSessionHook()

	sess, err := sm.CreateSession(c.Context(), c.request)
	if err != nil {
		return err
	}
	c.state.session = sess
	c.state.sessionLoaded = true
	c.state.role = nil
	sm.SaveSession(c.responseWriter, sess)
	return nil
}

// ensureSession returns the current session, creating one when missing.
func (c *requestContext) ensureSession() (*session.Session, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}
	if err := c.InitSession(); err != nil {
		return nil, err
	}
	return c.state.session, nil
}

func (c *requestContext) AuthenticateSession(userID string) error {
	sess, err := c.ensureSession()
	if err != nil {
		return err
	}
	sess.SetUser(userID)
	c.state.role = nil

	sm := c.app.sessionManager
	if err := sm.RotateToken(c.Context(), sess); err != nil {
		return err
	}
	sm.SaveSession(c.responseWriter, sess)
	return nil
}

// SessionValue returns nil, nil for a missing key.
func (c *requestContext) SessionValue(key string) (any, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, session.ErrNotFound
	}
	val, _ := sess.GetValue(key)
	return val, nil
}

// SetSessionValue starts a session for anonymous visitors when needed.
func (c *requestContext) SetSessionValue(key string, val any) error {
	sess, err := c.ensureSession()
	if err != nil {
		return err
	}
	sess.SetValue(key, val)
	return nil
}

func (c *requestContext) DeleteSessionValue(key string) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	if sess == nil {
		return session.ErrNotFound
	}
	sess.DeleteValue(key)
	return nil
}

func (c *requestContext) DestroySession() error {
	sm := c.app.sessionManager
	if sm == nil {
		return session.ErrNotConfigured
	}
	sess, err := c.Session()
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return err
	}
	if sess != nil {
		if err := sm.Store().Delete(c.Context(), sess.ID); err != nil && !errors.Is(err, session.ErrNotFound) {
			return err
		}
	}
	sm.DeleteSession(c.responseWriter)
	c.state.session = nil
	c.state.sessionLoaded = true
	c.state.role = nil
	return nil
}
