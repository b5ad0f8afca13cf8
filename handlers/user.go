package handlers

import (
	"net/http"
	"strings"

	"github.com/andrewpaige1/studypal-api/auth"
	"github.com/andrewpaige1/studypal-api/middleware"
	"github.com/andrewpaige1/studypal-api/models"
)

type limitsResponse struct {
	MaxSets          int `json:"max_sets"`
	MaxCardsPerBatch int `json:"max_cards_per_batch"`
}

func (db *DBHandler) userResponse(user *models.User) (map[string]interface{}, error) {
	var saved int64
	if err := db.Model(&models.FlashcardSet{}).Where("user_id = ?", user.ID).Count(&saved).Error; err != nil {
		return nil, err
	}
	var limits *limitsResponse
	if !user.IsPro() {
		limits = &limitsResponse{MaxSets: db.Env.FreeTierMaxSets, MaxCardsPerBatch: db.Env.FreeTierMaxCards}
	}
	return map[string]interface{}{
		"nickname":   user.Nickname,
		"tier":       user.Tier,
		"sets_saved": saved,
		"limits":     limits,
		"created_at": user.CreatedAt,
	}, nil
}

// GET /api/users/me
func (db *DBHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	resp, err := db.userResponse(user)
	if err != nil {
		db.fail(w, "GetCurrentUser", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/users registers a nickname for the token's subject. The user row
// itself is created by SyncUserMiddleware.
func (db *DBHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Nickname string `json:"nickname"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" || len(nickname) > 100 {
		writeError(w, http.StatusBadRequest, "Nickname must be between 1 and 100 characters")
		return
	}

	if nickname != user.Nickname {
		var taken int64
		if err := db.Model(&models.User{}).Where("nickname = ? AND id <> ?", nickname, user.ID).Count(&taken).Error; err != nil {
			db.fail(w, "RegisterUser", err)
			return
		}
		if taken > 0 {
			writeError(w, http.StatusConflict, "Nickname already taken")
			return
		}
		if err := db.Model(user).Update("nickname", nickname).Error; err != nil {
			db.fail(w, "RegisterUser", err)
			return
		}
		user.Nickname = nickname
		db.Log.Info("RegisterUser: nickname set", "user_id", user.ID, "nickname", nickname)
	}

	resp, err := db.userResponse(user)
	if err != nil {
		db.fail(w, "RegisterUser", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/auth/token issues a local access token. Only routed in
// development.
func (db *DBHandler) IssueDevToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject  string `json:"subject"`
		Nickname string `json:"nickname"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		writeError(w, http.StatusBadRequest, "Subject is required")
		return
	}

	token, err := auth.CreateToken(db.Env, strings.TrimSpace(req.Subject), strings.TrimSpace(req.Nickname))
	if err != nil {
		db.fail(w, "IssueDevToken", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "Bearer",
	})
}
