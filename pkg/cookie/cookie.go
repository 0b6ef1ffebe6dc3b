package cookie

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrNotFound  = errors.New("cookie: not found")
	ErrNoSecret  = errors.New("cookie: secret required")
	ErrBadSecret = errors.New("cookie: secret must be 32+ bytes")
	ErrBadSig    = errors.New("cookie: invalid signature")
	ErrDecrypt   = errors.New("cookie: decryption failed")
)

// MinSecretLength is the shortest accepted secret.
const MinSecretLength = 32

// Manager reads and writes cookies with shared attributes. With a secret it
// also signs (HMAC-SHA256) and encrypts (XChaCha20-Poly1305) values using
// independent keys derived from the secret with HKDF.
type Manager struct {
	signKey  []byte
	aead     aeadCipher
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

type aeadCipher interface {
	NonceSize() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a Manager. Defaults: path "/", HttpOnly, SameSite=Lax.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ValidateSecret returns ErrBadSecret for secrets shorter than MinSecretLength.
func ValidateSecret(secret string) error {
	if len(secret) < MinSecretLength {
		return ErrBadSecret
	}
	return nil
}

// WithSecret enables signed and encrypted cookies. Secrets shorter than
// MinSecretLength are ignored, leaving those operations to fail with
// ErrNoSecret.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if ValidateSecret(secret) != nil {
			return
		}
		m.signKey = deriveKey(secret, "cookie-sign", sha256.Size)
		// Key length matches chacha20poly1305.KeySize, so NewX cannot fail.
		m.aead, _ = chacha20poly1305.NewX(deriveKey(secret, "cookie-encrypt", chacha20poly1305.KeySize))
	}
}

func deriveKey(secret, info string, n int) []byte {
	key := make([]byte, n)
	_, _ = io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key)
	return key
}

func WithDomain(domain string) Option {
	return func(m *Manager) { m.domain = domain }
}

func WithPath(path string) Option {
	return func(m *Manager) { m.path = path }
}

func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) { m.httpOnly = httpOnly }
}

func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.sameSite = ss }
}

// Get returns a plain cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Set writes a plain cookie. maxAge follows http.Cookie semantics.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.cookie(name, value, maxAge))
}

// Delete expires a cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

// GetSigned returns the value of a cookie written by SetSigned.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if m.signKey == nil {
		return "", ErrNoSecret
	}
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	enc, encSig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSig
	}
	value, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return "", ErrBadSig
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil || !hmac.Equal(sig, m.sign(name, value)) {
		return "", ErrBadSig
	}
	return string(value), nil
}

// SetSigned writes a tamper-evident cookie: base64(value).base64(mac).
// The cookie name is part of the MAC so values cannot be moved between cookies.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge int) error {
	if m.signKey == nil {
		return ErrNoSecret
	}
	encoded := base64.RawURLEncoding.EncodeToString([]byte(value)) +
		"." + base64.RawURLEncoding.EncodeToString(m.sign(name, []byte(value)))
	http.SetCookie(w, m.cookie(name, encoded, maxAge))
	return nil
}

func (m *Manager) sign(name string, value []byte) []byte {
	mac := hmac.New(sha256.New, m.signKey)
	mac.Write([]byte(name))
	mac.Write([]byte{0})
	mac.Write(value)
	return mac.Sum(nil)
}

// GetEncrypted returns the plaintext of a cookie written by SetEncrypted.
func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	if m.aead == nil {
		return "", ErrNoSecret
	}
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil || len(data) < m.aead.NonceSize() {
		return "", ErrDecrypt
	}
	nonce, ciphertext := data[:m.aead.NonceSize()], data[m.aead.NonceSize():]
	plaintext, err := m.aead.Open(nil, nonce, ciphertext, []byte(name))
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}

// SetEncrypted writes a confidential cookie bound to its name.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, maxAge int) error {
	if m.aead == nil {
		return ErrNoSecret
	}
	nonce := make([]byte, m.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	sealed := m.aead.Seal(nonce, nonce, []byte(value), []byte(name))
	http.SetCookie(w, m.cookie(name, base64.RawURLEncoding.EncodeToString(sealed), maxAge))
	return nil
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}
