// Package cookie manages HTTP cookies with shared attributes, optional
// HMAC signing, authenticated encryption and one-shot flash messages.
//
//	m := cookie.New(cookie.WithSecret(secret), cookie.WithSecure(true))
//	_ = m.SetFlash(w, "message", Flash{Level: "success", Text: "Book renewed."})
//	// next request
//	var f Flash
//	if err := m.Flash(w, r, "message", &f); err == nil { … }
//
// Signing and encryption keys are derived from the secret with HKDF, and
// both bind the cookie name into the MAC/AEAD so a valid value cannot be
// replayed under another cookie name.
package cookie
