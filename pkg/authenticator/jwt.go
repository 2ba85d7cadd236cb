package authenticator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenEngine issues and verifies the signed bearer credentials that bind a
// request or a live connection to a user identity.
type TokenEngine interface {
	Generate(sub string) (string, error)
	Verify(token string) (string, error)
}

type jwtEngine struct {
	secret     string
	expiration time.Duration
}

func NewTokenEngine(secret string, expiration time.Duration) TokenEngine {
	return &jwtEngine{secret: secret, expiration: expiration}
}

func (e *jwtEngine) Generate(sub string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(e.expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(e.secret))
}

// Verify returns the subject of a valid token. The cause of a failure
// (malformed, expired, bad signature, wrong algorithm) is reported to the
// caller for logging only; clients always see a uniform denial.
func (e *jwtEngine) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(e.secret), nil
		},
	)
	if err != nil {
		return "", err
	}

	return claims.Subject, nil
}
