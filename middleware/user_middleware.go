package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"gorm.io/gorm"

	"github.com/andrewpaige1/studypal-api/logger"
	"github.com/andrewpaige1/studypal-api/models"
)

type contextKey string

const userKey contextKey = "user"

// SyncUserMiddleware ensures the token's user exists in the DB and attaches it
// to the context. The nickname falls back to the subject when the token has
// none.
func SyncUserMiddleware(db *gorm.DB, log *logger.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
		if !ok || claims.RegisteredClaims.Subject == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		auth0ID := claims.RegisteredClaims.Subject
		nickname := ""
		if customClaims, ok := claims.CustomClaims.(*CustomClaims); ok && customClaims != nil {
			nickname = customClaims.Nickname
		}

		var user models.User
		err := db.Where("auth0_id = ?", auth0ID).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if nickname == "" || nicknameTaken(db, nickname, auth0ID) {
				nickname = auth0ID
			}
			user = models.User{Auth0ID: auth0ID, Nickname: nickname, Tier: models.TierFree}
			if err := db.Create(&user).Error; err != nil {
				log.Error("SyncUserMiddleware: failed to create user", "auth0_id", auth0ID, "error", err.Error())
				writeError(w, http.StatusInternalServerError, "Failed to create user")
				return
			}
			log.Info("SyncUserMiddleware: created user", "nickname", user.Nickname)
		case err != nil:
			log.Error("SyncUserMiddleware: user lookup failed", "auth0_id", auth0ID, "error", err.Error())
			writeError(w, http.StatusInternalServerError, "Failed to load user")
			return
		case nickname != "" && user.Nickname != nickname:
			// A taken nickname keeps the old one.
			if nicknameTaken(db, nickname, auth0ID) {
				log.Debug("SyncUserMiddleware: nickname taken, keeping current", "auth0_id", auth0ID, "nickname", user.Nickname)
				break
			}
			previous := user.Nickname
			if err := db.Model(&user).Update("nickname", nickname).Error; err != nil {
				user.Nickname = previous
				log.Warn("SyncUserMiddleware: failed to update nickname", "auth0_id", auth0ID, "error", err.Error())
			} else {
				log.Info("SyncUserMiddleware: updated nickname", "nickname", nickname)
			}
		}

		ctx := context.WithValue(r.Context(), userKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// nicknameTaken reports whether another user already holds nickname.
func nicknameTaken(db *gorm.DB, nickname, auth0ID string) bool {
	var count int64
	err := db.Model(&models.User{}).
		Where("nickname = ? AND auth0_id <> ?", nickname, auth0ID).
		Count(&count).Error
	return err == nil && count > 0
}

// UserFromContext returns the user attached by SyncUserMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// WithUser attaches user to ctx the same way SyncUserMiddleware does.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
