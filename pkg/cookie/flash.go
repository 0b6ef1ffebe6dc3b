package cookie

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

const flashPrefix = "flash_"

// Flash decodes the flash message stored under key into dest and expires
// the cookie so the message is shown once.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	name := flashPrefix + key
	raw, err := m.GetEncrypted(r, name)
	if err != nil {
		return err
	}
	m.Delete(w, name)
	return jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(raw, dest)
}

// SetFlash stores value as an encrypted session cookie under key.
func (m *Manager) SetFlash(w http.ResponseWriter, key string, value any) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(value)
	if err != nil {
		return err
	}
	return m.SetEncrypted(w, flashPrefix+key, data, 0)
}
