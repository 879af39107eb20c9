// Package csrf issues and verifies double-submit authenticity tokens.
//
// A token is stored in a cookie and echoed back by forms in a parameter of
// the same name. A request is authentic when the cookie is present and
// byte-equal to the submitted parameter.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
)

// TokenName is both the cookie name and the form parameter name.
const TokenName = "authenticity_token"

// tokenBytes is the amount of entropy per token.
const tokenBytes = 16

// ErrInvalidToken is returned by Verify when the submitted token does not
// match the cookie.
var ErrInvalidToken = errors.New("csrf: invalid authenticity token")

// GenerateToken returns a fresh random token in unpadded URL-safe base64.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate authenticity token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Verify fails closed: an empty cookie never matches, whatever was submitted.
func Verify(cookieToken, submitted string) error {
	if cookieToken == "" {
		return ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(submitted)) != 1 {
		return ErrInvalidToken
	}
	return nil
}
