package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/iselbouch1/bouchauto-showcase/internal/models"
)

var (
	jwtSecret = []byte("bouchauto-dev-secret")
	tokenTTL  = 15 * time.Minute
)

var ErrMissingToken = errors.New("missing or invalid token")

// Configure sets the signing secret and the lifetime of issued tokens. It must be called
// before the server starts handling requests.
func Configure(secret string, ttl time.Duration) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		tokenTTL = ttl
	}
}

func GenerateToken(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseToken(tokenStr string) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
}

// TokenClaims parses an Authorization header value of the form "Bearer <token>".
func TokenClaims(authorization string) (*jwt.Token, jwt.MapClaims, error) {
	tokenStr, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || tokenStr == "" {
		return nil, nil, ErrMissingToken
	}

	token, err := ParseToken(tokenStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil, errors.New("invalid token claims")
	}
	return token, claims, nil
}
