// Package auth validates the signed, time-bound credential a client
// presents when it opens a signal connection.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrEmptySecret        = errors.New("empty signing secret")
)

// Claims is the payload issued by the login flow: user id and display name.
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// NewAuthenticator builds an HS256 authenticator. An empty issuer disables
// the issuer check.
func NewAuthenticator(secret, issuer string, leeway time.Duration) (*Authenticator, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Authenticator{
		secret: []byte(secret),
		issuer: issuer,
		leeway: leeway,
		now:    time.Now,
	}, nil
}

// Authenticate checks signature, expiry and identity claims. Every error
// wraps core.ErrAuthentication.
func (a *Authenticator) Authenticate(token string) (*domain.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrAuthentication, ErrMissingCredentials)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(a.leeway),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrAuthentication, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: %w", core.ErrAuthentication, jwt.ErrSignatureInvalid)
	}

	user, err := domain.NewUser(claims.ID, claims.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrAuthentication, err)
	}
	return user, nil
}

// Issue signs a credential for user valid for ttl. The relay itself never
// logs anyone in; this serves tests and the token CLI.
func (a *Authenticator) Issue(user domain.User, ttl time.Duration) (string, error) {
	now := a.now()
	claims := &Claims{
		ID:       string(user.ID),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    a.issuer,
			Subject:   string(user.ID),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}
