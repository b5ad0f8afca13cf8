package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrewpaige1/studypal-api/models"
)

type cardResponse struct {
	ID         string `json:"id"`
	CardKey    string `json:"card_key"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"`
	Type       string `json:"type"`
}

type setSummary struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	TotalCards       int            `json:"total_cards"`
	IsPublic         bool           `json:"is_public"`
	CreatedAt        time.Time      `json:"created_at"`
	Flashcards       []cardResponse `json:"flashcards,omitempty"`
	FlashcardPreview []cardResponse `json:"flashcard_preview,omitempty"`
}

type setDetail struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Owner        string          `json:"owner"`
	IsOwner      bool            `json:"is_owner"`
	IsPublic     bool            `json:"is_public"`
	TotalCards   int             `json:"total_cards"`
	OriginalText string          `json:"original_text"`
	CardStatuses json.RawMessage `json:"card_statuses"`
	Flashcards   []cardResponse  `json:"flashcards"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toCardResponses(cards []models.Flashcard) []cardResponse {
	out := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardResponse{
			ID:         c.PublicID,
			CardKey:    c.CardKey,
			Question:   c.Question,
			Answer:     c.Answer,
			Difficulty: c.Difficulty,
			Type:       c.Type,
		})
	}
	return out
}

func toSetDetail(set *models.FlashcardSet, isOwner bool) setDetail {
	statuses := json.RawMessage(set.CardStatuses)
	if len(statuses) == 0 {
		statuses = json.RawMessage("[]")
	}
	return setDetail{
		ID:           set.PublicID,
		Title:        set.Title,
		Owner:        set.User.Nickname,
		IsOwner:      isOwner,
		IsPublic:     set.IsPublic,
		TotalCards:   set.TotalCards,
		OriginalText: set.OriginalText,
		CardStatuses: statuses,
		Flashcards:   toCardResponses(set.Flashcards),
		CreatedAt:    set.CreatedAt,
		UpdatedAt:    set.UpdatedAt,
	}
}

func orderedCards(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

// findSet loads a set by public id with its owner and ordered cards.
func findSet(db *gorm.DB, publicID string) (*models.FlashcardSet, error) {
	var set models.FlashcardSet
	err := db.Preload("User").Preload("Flashcards", orderedCards).
		Where("public_id = ?", publicID).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("flashcard set %s: %w", publicID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load flashcard set %s: %w", publicID, err)
	}
	return &set, nil
}

// findOwnedSet is findSet restricted to sets the caller owns.
func findOwnedSet(db *gorm.DB, publicID, auth0ID string) (*models.FlashcardSet, error) {
	set, err := findSet(db, publicID)
	if err != nil {
		return nil, err
	}
	if !set.OwnedBy(auth0ID) {
		return nil, fmt.Errorf("flashcard set %s: %w", publicID, models.ErrForbidden)
	}
	return set, nil
}
