package internal

import (
	"net/http"

	"github.com/dmitrymomot/actionpack/pkg/csrf"
)

// csrfBindingName is the template binding holding the form token.
const csrfBindingName = csrf.TokenName

// checkForgery runs the CSRF gate. Protected controllers verify every
// non-GET request; all other requests get a token issued.
func (c *Controller) checkForgery() error {
	if c.typ.ProtectsFromForgery() && c.req.Method != http.MethodGet {
		return c.verifyAuthenticityToken()
	}
	_, err := c.AuthenticityToken()
	return err
}

// verifyAuthenticityToken compares the token cookie with the submitted
// parameter. A missing cookie or parameter fails.
func (c *Controller) verifyAuthenticityToken() error {
	var cookieToken string
	if ck, err := c.req.Cookie(csrf.TokenName); err == nil {
		cookieToken = ck.Value
	}
	return csrf.Verify(cookieToken, c.params.Get(csrf.TokenName))
}

// AuthenticityToken returns the form token of this request. The first call
// generates it and sets the token cookie on the response, so it returns
// ErrResponseFinalized once the response is finalized and no token was
// issued before.
func (c *Controller) AuthenticityToken() (string, error) {
	if c.token != "" {
		return c.token, nil
	}
	if c.guard.Finalized() {
		return "", ErrResponseFinalized
	}

	token, err := csrf.GenerateToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(c.res, &http.Cookie{
		Name:     csrf.TokenName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.req.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	c.token = token
	return token, nil
}
