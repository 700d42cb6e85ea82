// pkg/token/token.go
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "cricbook"

// Claims carries the authenticated principal inside the access token.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ValidateJWT parses, validates, and returns claims from a JWT string.
func ValidateJWT(tokenString string, secretKey string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}
	if secretKey == "" {
		return nil, errors.New("jwt secret key is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.New("token has expired")
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, errors.New("token is not yet valid")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, errors.New("token signature is invalid")
		}
		return nil, fmt.Errorf("could not parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.UserID == 0 {
		return nil, errors.New("user_id claim is missing or zero")
	}
	return claims, nil
}

// GenerateJWT signs an HS256 access token for the given principal.
func GenerateJWT(userID uint, username, role, secretKey string, expiryMinutes int) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiryMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   fmt.Sprint(userID),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}
