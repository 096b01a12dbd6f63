package jwtfactory

import (
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

const (
	UserIDClaim = "user_id"
	RoleClaim   = "role"
)

type TokenFactory struct {
	tokenAuth           *jwtauth.JWTAuth
	tokenExpirationTime time.Duration
}

func New(tokenAuth *jwtauth.JWTAuth, tokenExpirationTime time.Duration) *TokenFactory {
	return &TokenFactory{
		tokenAuth:           tokenAuth,
		tokenExpirationTime: tokenExpirationTime,
	}
}

// Generate mints a bearer token carrying the caller identity. The user id
// is stored as a string claim to survive JSON number round-trips.
func (tf *TokenFactory) Generate(userID int, role string) (string, error) {
	timeNow := time.Now()
	claims := map[string]any{
		UserIDClaim: strconv.Itoa(userID),
		RoleClaim:   role,
		"exp":       timeNow.Add(tf.tokenExpirationTime).Unix(),
		"iat":       timeNow.Unix(),
	}
	_, tokenString, err := tf.tokenAuth.Encode(claims)
	return tokenString, err
}
