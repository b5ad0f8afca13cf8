package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andrewpaige1/studypal-api/config"
)

const tokenTTL = 24 * time.Hour

// CreateToken issues an HS256 access token for subject, carrying the nickname
// claim the user sync middleware reads.
func CreateToken(env config.Environment, subject, nickname string) (string, error) {
	if env.JWTSecret == "" {
		return "", errors.New("auth: JWT secret key not set")
	}
	if subject == "" {
		return "", errors.New("auth: subject is required")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"iss":      env.JWTIssuer,
			"aud":      []string{env.JWTAudience},
			"sub":      subject,
			"nickname": nickname,
			"iat":      now.Unix(),
			"exp":      now.Add(tokenTTL).Unix(),
		})

	return token.SignedString([]byte(env.JWTSecret))
}
