package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// TokenTTL is how long a session token stays valid.
const TokenTTL = 72 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims are the parts of a session token the service reads back.
type Claims struct {
	UserID    int
	TokenID   string
	ExpiresAt time.Time
}

// signs a token embedding userID in the “sub” claim and a random “jti”.
func generateJWT(userID int, secret []byte, now time.Time) (string, Claims, error) {
	claims := Claims{
		UserID:    userID,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(TokenTTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"jti": claims.TokenID,
		"iat": now.Unix(),
		"exp": claims.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, claims, nil
}

// verifies the JWT signature and expiry and returns its claims.
func parseJWT(tokenString string, secret []byte) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, ok := mc["sub"].(float64)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	jti, ok := mc["jti"].(string)
	if !ok || jti == "" {
		return Claims{}, ErrInvalidToken
	}
	exp, _ := mc["exp"].(float64)
	return Claims{
		UserID:    int(sub),
		TokenID:   jti,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
