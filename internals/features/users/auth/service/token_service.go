// internals/features/users/auth/service/token_service.go
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// IssueAccessToken signs an HS256 token carrying the user id and expiry.
// jti keeps two logins in the same second from producing the same (possibly blacklisted) token.
func IssueAccessToken(secret string, userID uuid.UUID, now time.Time, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("JWT_SECRET is not set")
	}
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"id":  userID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// ParseAccessToken verifies signature and expiry and returns the user id and expiry.
func ParseAccessToken(secret, raw string) (uuid.UUID, time.Time, error) {
	if secret == "" {
		return uuid.Nil, time.Time{}, errors.New("JWT_SECRET is not set")
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	rawID, _ := claims["id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	exp, _ := claims["exp"].(float64)
	if exp == 0 {
		return uuid.Nil, time.Time{}, fmt.Errorf("%w: missing exp", ErrInvalidToken)
	}
	return id, time.Unix(int64(exp), 0), nil
}
