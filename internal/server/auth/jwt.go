// Package auth verifies bearer tokens issued by the identity provider.
// Tokens are HS256 JWTs signed with the shared project secret; the
// principal id travels in the standard "sub" claim.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/server/models"
)

// GenerateToken mints a token for the given principal. The server itself
// does not issue tokens in production; this exists for tests and local
// development against a stub identity provider.
func GenerateToken(id models.PrincipalID, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   string(id),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// PrincipalFromToken validates tokenString and returns the principal id
// from its subject claim. All validation failures map to
// common.ErrInvalidToken.
func PrincipalFromToken(tokenString string, secretKey []byte) (models.PrincipalID, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", common.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return models.PrincipalID(claims.Subject), nil
}
