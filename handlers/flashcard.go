package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/andrewpaige1/studypal-api/generator"
	"github.com/andrewpaige1/studypal-api/middleware"
	"github.com/andrewpaige1/studypal-api/models"
	"github.com/andrewpaige1/studypal-api/utils"
)

func findCard(db *gorm.DB, set *models.FlashcardSet, cardID string) (*models.Flashcard, error) {
	var card models.Flashcard
	err := db.Where("public_id = ? AND set_id = ?", cardID, set.ID).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("flashcard %s: %w", cardID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load flashcard %s: %w", cardID, err)
	}
	return &card, nil
}

// GET /api/flashcards/{setID}/cards/{cardID}
func (db *DBHandler) GetFlashcardByID(w http.ResponseWriter, r *http.Request) {
	setID, cardID := r.PathValue("setID"), r.PathValue("cardID")
	set, err := findSet(db.DB, setID)
	if err != nil {
		db.fail(w, "GetFlashcardByID", err)
		return
	}
	auth0ID, _ := utils.GetAuth0ID(r)
	if !set.IsPublic && !set.OwnedBy(auth0ID) {
		db.fail(w, "GetFlashcardByID", fmt.Errorf("flashcard set %s: %w", setID, models.ErrNotFound))
		return
	}

	card, err := findCard(db.DB, set, cardID)
	if err != nil {
		db.fail(w, "GetFlashcardByID", err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponses([]models.Flashcard{*card})[0])
}

// PUT /api/flashcards/{setID}/cards/{cardID}
func (db *DBHandler) UpdateFlashcardByID(w http.ResponseWriter, r *http.Request) {
	setID, cardID := r.PathValue("setID"), r.PathValue("cardID")
	user, _ := middleware.UserFromContext(r.Context())

	set, err := findOwnedSet(db.DB, setID, user.Auth0ID)
	if err != nil {
		db.fail(w, "UpdateFlashcardByID", err)
		return
	}
	card, err := findCard(db.DB, set, cardID)
	if err != nil {
		db.fail(w, "UpdateFlashcardByID", err)
		return
	}

	var req struct {
		Question *string `json:"question"`
		Answer   *string `json:"answer"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Question != nil {
		card.Question = strings.TrimSpace(*req.Question)
	}
	if req.Answer != nil {
		card.Answer = strings.TrimSpace(*req.Answer)
	}
	if card.Question == "" || card.Answer == "" {
		writeError(w, http.StatusBadRequest, "Flashcard must have a question and answer")
		return
	}
	card.Difficulty = string(generator.Rate(card.Question, card.Answer))

	if err := db.Omit("FlashcardSet").Save(card).Error; err != nil {
		db.fail(w, "UpdateFlashcardByID", fmt.Errorf("save flashcard %s: %w", cardID, err))
		return
	}
	db.Log.Info("UpdateFlashcardByID: updated card", "set_id", setID, "card_id", cardID)
	writeJSON(w, http.StatusOK, toCardResponses([]models.Flashcard{*card})[0])
}

// DELETE /api/flashcards/{setID}/cards/{cardID}
func (db *DBHandler) DeleteFlashcardByID(w http.ResponseWriter, r *http.Request) {
	setID, cardID := r.PathValue("setID"), r.PathValue("cardID")
	user, _ := middleware.UserFromContext(r.Context())

	set, err := findOwnedSet(db.DB, setID, user.Auth0ID)
	if err != nil {
		db.fail(w, "DeleteFlashcardByID", err)
		return
	}
	card, err := findCard(db.DB, set, cardID)
	if err != nil {
		db.fail(w, "DeleteFlashcardByID", err)
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(card).Error; err != nil {
			return err
		}
		return tx.Model(&models.FlashcardSet{}).Where("id = ?", set.ID).
			Update("total_cards", gorm.Expr("total_cards - 1")).Error
	})
	if err != nil {
		db.fail(w, "DeleteFlashcardByID", fmt.Errorf("delete flashcard %s: %w", cardID, err))
		return
	}
	db.Log.Info("DeleteFlashcardByID: deleted card", "set_id", setID, "card_id", cardID)
	w.WriteHeader(http.StatusNoContent)
}
