package auth

import (
	"net/http"
	"strings"
)

const (
	TokenQueryParam = "token"
	// SessionKey holds the credential in the cookie session.
	SessionKey = "credential"
	// ContextKey holds the raw credential on the request context.
	ContextKey = "credential"
)

// CredentialFromRequest returns the bearer token from the Authorization
// header, falling back to the token query parameter. Browsers cannot set
// headers on a WebSocket upgrade.
func CredentialFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		if token := StripBearer(h); token != "" {
			return token, nil
		}
	}
	if token := r.URL.Query().Get(TokenQueryParam); token != "" {
		return token, nil
	}
	return "", ErrMissingCredentials
}

// StripBearer removes an optional "Bearer " prefix.
func StripBearer(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 6 && strings.EqualFold(v[:6], "bearer") && (len(v) == 6 || v[6] == ' ') {
		v = strings.TrimSpace(v[6:])
	}
	return v
}
