package handlers

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/andrewpaige1/studypal-api/generator"
	"github.com/andrewpaige1/studypal-api/models"
	"github.com/andrewpaige1/studypal-api/utils"
)

const (
	serviceVersion  = "1.0.0"
	minTextChars    = 20
	defaultNumCards = 5
)

// GET /api/status
func (db *DBHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "StudyPal API is running",
		"version":     serviceVersion,
		"storage":     db.StorageType,
		"ai_enabled":  db.Generator.AIEnabled(),
		"ai_provider": db.Env.AIProvider,
		"endpoints": map[string]string{
			"generate": "/api/generate-flashcards",
			"save":     "/api/flashcards",
			"get":      "/api/flashcards",
			"delete":   "/api/flashcards/{setID}",
			"me":       "/api/users/me",
			"payments": "/api/payments/intents",
		},
	})
}

// GET /api/health
func (db *DBHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if sqlDB, err := db.DB.DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status":     status,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"storage":    db.StorageType,
		"ai_enabled": db.Generator.AIEnabled(),
	})
}

// POST /api/generate-flashcards
func (db *DBHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		NumCards *int   `json:"num_cards"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}
	textLen := utf8.RuneCountInString(text)
	if textLen < minTextChars {
		writeError(w, http.StatusBadRequest, "Text is too short. Please provide at least 20 characters.")
		return
	}

	numCards := defaultNumCards
	if req.NumCards != nil {
		numCards = *req.NumCards
	}
	if numCards < generator.MinCards || numCards > generator.MaxCards {
		writeError(w, http.StatusBadRequest, "Number of cards must be between 1 and 10")
		return
	}
	if limit := db.cardLimit(r); limit > 0 && numCards > limit {
		db.Log.Info("GenerateFlashcards: capping card count for free tier", "requested", numCards, "limit", limit)
		numCards = limit
	}

	db.Log.Info("GenerateFlashcards: generating", "num_cards", numCards, "text_length", textLen)
	cards := db.Generator.Generate(r.Context(), text, numCards)
	if len(cards) == 0 {
		writeError(w, http.StatusBadRequest, "Unable to generate flashcards from the provided text")
		return
	}

	db.Log.Info("GenerateFlashcards: generated", "total", len(cards))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flashcards":         cards,
		"total_generated":    len(cards),
		"source_text_length": textLen,
		"generated_at":       time.Now().UTC().Format(time.RFC3339),
	})
}

// cardLimit is the per-request card ceiling for the caller. Anonymous callers
// count as free tier; zero means no limit.
func (db *DBHandler) cardLimit(r *http.Request) int {
	if auth0ID, ok := utils.GetAuth0ID(r); ok {
		var user models.User
		if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err == nil && user.IsPro() {
			return 0
		}
	}
	return db.Env.FreeTierMaxCards
}
