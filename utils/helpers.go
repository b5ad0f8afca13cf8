package utils

import (
	"net/http"
	"strconv"
	"strings"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// GetAuth0ID returns the validated token subject, if the request carried one.
func GetAuth0ID(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok || claims.RegisteredClaims.Subject == "" {
		return "", false
	}
	return claims.RegisteredClaims.Subject, true
}

// QueryBool reads a boolean query parameter; "1", "true" and "yes" are true.
func QueryBool(r *http.Request, key string, def bool) bool {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	switch raw {
	case "":
		return def
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// QueryInt reads an integer query parameter clamped to [lo, hi].
func QueryInt(r *http.Request, key string, def, lo, hi int) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return def
	}
	return min(max(n, lo), hi)
}
