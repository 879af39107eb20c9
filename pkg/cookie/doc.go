// Package cookie reads and writes HTTP cookies with shared attribute
// defaults and optional signing or encryption.
//
// Plain cookies work without a secret:
//
//	m := cookie.New()
//	m.Set(w, "theme", "dark", 86400)
//	theme, err := m.Get(r, "theme")
//
// A secret of 32 bytes or more enables HMAC-SHA256 signed cookies and
// AES-256-GCM encrypted cookies:
//
//	m := cookie.New(cookie.WithSecret(secret), cookie.WithSecure(true))
//	err := m.SetEncrypted(w, "prefs", prefs, 86400)
//	prefs, err := m.GetEncrypted(r, "prefs")
//
// SetJSON and GetJSON carry structured values. The session and flash cookie
// stores are built on them: the payload is encrypted when the manager has a
// secret and base64 encoded otherwise.
//
// Defaults are path "/", HttpOnly and SameSite=Lax.
package cookie
