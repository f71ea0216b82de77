package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The backend is the only party able to verify; the client uses the claim
// solely to avoid sending a token it already knows is dead. ok is false for
// opaque tokens and JWTs without exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the snapshot's token carries an exp claim that
// lies before now.
func (s Session) Expired(now time.Time) bool {
	if !s.SignedIn() {
		return false
	}
	exp, ok := TokenExpiry(s.Token)
	return ok && !now.Before(exp)
}
