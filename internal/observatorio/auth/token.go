package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of issued tokens.
const TokenTTL = 30 * time.Minute

var now = time.Now

// GenerateToken signs claims with HS256, adding iat and exp.
func GenerateToken(claims map[string]any, secret string) (string, error) {
	issued := now()
	mapClaims := jwt.MapClaims{}
	for k, v := range claims {
		mapClaims[k] = v
	}
	mapClaims["iat"] = issued.Unix()
	mapClaims["exp"] = issued.Add(TokenTTL).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString([]byte(secret))
}

// validateToken checks the token signature and returns parsed claims if valid.
func validateToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(now))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token claims")
}

// userID reads the numeric "id" claim.
func userID(claims jwt.MapClaims) (uint, error) {
	raw, ok := claims["id"]
	if !ok {
		return 0, errors.New("id claim missing")
	}
	id, ok := raw.(float64)
	if !ok || id < 1 || id != float64(uint(id)) {
		return 0, fmt.Errorf("invalid id claim %v", raw)
	}
	return uint(id), nil
}
