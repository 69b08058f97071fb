package authenticator

import (
	"fmt"
	"time"

	"github.com/bskmt/backend/config"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type tokenClaims[T any] struct {
	jwt.RegisteredClaims
	Payload T `json:"payload,omitempty"`
}

// jwtTokenEngine signs and verifies HS256 tokens carrying an arbitrary
// payload next to the registered claims.
type jwtTokenEngine[T any] struct {
	secret     []byte
	expiration time.Duration
}

func NewTokenEngine[T any](secret string, cfg config.TokenConfigs) TokenEngine[T] {
	return &jwtTokenEngine[T]{secret: []byte(secret), expiration: cfg.Expiration}
}

func (e *jwtTokenEngine[T]) Generate(sub string, obj T) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims[T]{
		Payload: obj,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(e.expiration)),
		},
	})

	return token.SignedString(e.secret)
}

func (e *jwtTokenEngine[T]) Verify(token string) (T, error) {
	var claims tokenClaims[T]
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return e.secret, nil
	})
	if err != nil {
		var empty T
		return empty, err
	}

	return claims.Payload, nil
}
