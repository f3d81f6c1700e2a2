// Package auth issues and resolves the signed session tokens that identify
// an acting child or parent on ledger requests.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"kindnest/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const actorKindClaim = "actor_kind"

// Tokens signs and verifies actor session tokens with an HMAC secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens returns a Tokens using the given signing secret. ttl bounds how
// long an issued token stays valid.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given actor. The subject claim carries the
// actor's numeric ID and actor_kind distinguishes child from parent sessions.
func (t *Tokens) Issue(actor models.Actor) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":          strconv.FormatUint(uint64(actor.ID), 10),
		actorKindClaim: string(actor.Kind),
		"iat":          now.Unix(),
		"exp":          now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Resolve verifies a signed token and returns the actor it identifies.
func (t *Tokens) Resolve(tokenString string) (models.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Actor{}, models.NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Actor{}, models.NewUnauthorizedError("invalid token claims")
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return models.Actor{}, models.NewUnauthorizedError("missing token subject")
	}
	id, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return models.Actor{}, models.NewUnauthorizedError("invalid token subject")
	}

	kindStr, ok := claims[actorKindClaim].(string)
	if !ok {
		return models.Actor{}, models.NewUnauthorizedError("missing actor kind")
	}
	kind, err := models.ParseActorKind(kindStr)
	if err != nil {
		return models.Actor{}, models.NewUnauthorizedError("invalid actor kind")
	}

	return models.Actor{Kind: kind, ID: uint(id)}, nil
}
