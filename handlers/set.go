package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewpaige1/studypal-api/generator"
	"github.com/andrewpaige1/studypal-api/middleware"
	"github.com/andrewpaige1/studypal-api/models"
	"github.com/andrewpaige1/studypal-api/utils"
)

const maxPreview = 50

// POST /api/flashcards
func (db *DBHandler) SaveFlashcardSet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Title        string                `json:"title"`
		Flashcards   []generator.Flashcard `json:"flashcards"`
		OriginalText string                `json:"original_text"`
		CardStatuses json.RawMessage       `json:"card_statuses"`
		IsPublic     bool                  `json:"is_public"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if len(req.Flashcards) == 0 {
		writeError(w, http.StatusBadRequest, "Flashcards are required")
		return
	}
	for _, c := range req.Flashcards {
		if strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
			writeError(w, http.StatusBadRequest, "Each flashcard must have a question and answer")
			return
		}
	}

	if !user.IsPro() && db.Env.FreeTierMaxSets > 0 {
		var saved int64
		if err := db.Model(&models.FlashcardSet{}).Where("user_id = ?", user.ID).Count(&saved).Error; err != nil {
			db.fail(w, "SaveFlashcardSet", err)
			return
		}
		if saved >= int64(db.Env.FreeTierMaxSets) {
			db.Log.Info("SaveFlashcardSet: free tier set limit reached", "user_id", user.ID, "saved", saved)
			db.fail(w, "SaveFlashcardSet", fmt.Errorf("free tier allows %d saved sets: %w", db.Env.FreeTierMaxSets, models.ErrTierLimit))
			return
		}
	}

	publicID, err := gonanoid.New()
	if err != nil {
		db.fail(w, "SaveFlashcardSet", fmt.Errorf("generate public id: %w", err))
		return
	}
	set := models.FlashcardSet{
		PublicID:     publicID,
		Title:        title,
		UserID:       user.ID,
		OriginalText: req.OriginalText,
		TotalCards:   len(req.Flashcards),
		IsPublic:     req.IsPublic,
		CardStatuses: cardStatuses(req.CardStatuses),
	}

	tx := db.Begin()
	if tx.Error != nil {
		db.fail(w, "SaveFlashcardSet", tx.Error)
		return
	}
	if err := tx.Create(&set).Error; err != nil {
		tx.Rollback()
		db.fail(w, "SaveFlashcardSet", fmt.Errorf("create set: %w", err))
		return
	}
	for i, c := range req.Flashcards {
		card, err := newCard(set.ID, i, c)
		if err != nil {
			tx.Rollback()
			db.fail(w, "SaveFlashcardSet", err)
			return
		}
		if err := tx.Create(&card).Error; err != nil {
			tx.Rollback()
			db.fail(w, "SaveFlashcardSet", fmt.Errorf("create card: %w", err))
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		db.fail(w, "SaveFlashcardSet", fmt.Errorf("commit: %w", err))
		return
	}

	db.Log.Info("SaveFlashcardSet: saved set", "public_id", publicID, "user_id", user.ID, "total_cards", set.TotalCards)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":      "Flashcard set saved successfully",
		"id":           set.PublicID,
		"title":        set.Title,
		"total_cards":  set.TotalCards,
		"storage_type": db.StorageType,
	})
}

// GET /api/flashcards
func (db *DBHandler) GetFlashcardSets(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	includeCards := utils.QueryBool(r, "include_cards", false)
	preview := utils.QueryInt(r, "preview", 0, 0, maxPreview)

	query := db.Where("user_id = ?", user.ID).Order("created_at DESC, id DESC")
	if includeCards || preview > 0 {
		query = query.Preload("Flashcards", orderedCards)
	}
	var sets []models.FlashcardSet
	if err := query.Find(&sets).Error; err != nil {
		db.fail(w, "GetFlashcardSets", fmt.Errorf("list sets: %w", err))
		return
	}

	summaries := make([]setSummary, 0, len(sets))
	for _, s := range sets {
		summary := setSummary{
			ID:         s.PublicID,
			Title:      s.Title,
			TotalCards: s.TotalCards,
			IsPublic:   s.IsPublic,
			CreatedAt:  s.CreatedAt,
		}
		if includeCards || preview > 0 {
			summary.Flashcards = toCardResponses(s.Flashcards)
		}
		if preview > 0 {
			summary.FlashcardPreview = summary.Flashcards[:min(preview, len(summary.Flashcards))]
		}
		summaries = append(summaries, summary)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flashcard_sets": summaries,
		"total_sets":     len(summaries),
		"storage_type":   db.StorageType,
		"include_cards":  includeCards,
		"preview_count":  preview,
	})
}

// GET /api/flashcards/{setID}
func (db *DBHandler) GetSetByID(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	set, err := findSet(db.DB, setID)
	if err != nil {
		db.fail(w, "GetSetByID", err)
		return
	}

	auth0ID, _ := utils.GetAuth0ID(r)
	isOwner := set.OwnedBy(auth0ID)
	if !set.IsPublic && !isOwner {
		// Private sets are indistinguishable from missing ones.
		db.Log.Info("GetSetByID: hidden private set", "public_id", setID)
		db.fail(w, "GetSetByID", fmt.Errorf("flashcard set %s: %w", setID, models.ErrNotFound))
		return
	}

	writeJSON(w, http.StatusOK, toSetDetail(set, isOwner))
}

type flashcardUpdate struct {
	ID           string `json:"id"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Difficulty   string `json:"difficulty"`
	Type         string `json:"type"`
	ShouldDelete bool   `json:"should_delete"`
	ShouldUpdate bool   `json:"should_update"`
	ShouldCreate bool   `json:"should_create"`
}

// PUT /api/flashcards/{setID}
func (db *DBHandler) UpdateSetByID(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	user, _ := middleware.UserFromContext(r.Context())

	set, err := findOwnedSet(db.DB, setID, user.Auth0ID)
	if err != nil {
		db.fail(w, "UpdateSetByID", err)
		return
	}

	var req struct {
		Title        *string           `json:"title,omitempty"`
		IsPublic     *bool             `json:"is_public,omitempty"`
		CardStatuses json.RawMessage   `json:"card_statuses,omitempty"`
		Flashcards   []flashcardUpdate `json:"flashcards,omitempty"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title cannot be empty")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if req.Title != nil {
			set.Title = strings.TrimSpace(*req.Title)
		}
		if req.IsPublic != nil {
			set.IsPublic = *req.IsPublic
		}
		if len(req.CardStatuses) > 0 {
			set.CardStatuses = cardStatuses(req.CardStatuses)
		}
		if err := applyCardUpdates(tx, set, req.Flashcards); err != nil {
			return err
		}

		var total int64
		if err := tx.Model(&models.Flashcard{}).Where("set_id = ?", set.ID).Count(&total).Error; err != nil {
			return err
		}
		set.TotalCards = int(total)
		return tx.Omit(clause.Associations).Save(set).Error
	})
	if err != nil {
		db.fail(w, "UpdateSetByID", err)
		return
	}

	updated, err := findSet(db.DB, setID)
	if err != nil {
		db.fail(w, "UpdateSetByID", err)
		return
	}
	db.Log.Info("UpdateSetByID: updated set", "public_id", setID, "total_cards", updated.TotalCards)
	writeJSON(w, http.StatusOK, toSetDetail(updated, true))
}

// applyCardUpdates handles the should_delete, should_update and should_create
// flags. Unknown card ids are skipped.
func applyCardUpdates(tx *gorm.DB, set *models.FlashcardSet, updates []flashcardUpdate) error {
	position := len(set.Flashcards)
	for _, fc := range updates {
		switch {
		case fc.ID != "" && fc.ShouldDelete:
			if err := tx.Where("public_id = ? AND set_id = ?", fc.ID, set.ID).Delete(&models.Flashcard{}).Error; err != nil {
				return fmt.Errorf("delete card %s: %w", fc.ID, err)
			}
		case fc.ID != "" && fc.ShouldUpdate:
			if strings.TrimSpace(fc.Question) == "" || strings.TrimSpace(fc.Answer) == "" {
				continue
			}
			q, a := strings.TrimSpace(fc.Question), strings.TrimSpace(fc.Answer)
			err := tx.Model(&models.Flashcard{}).
				Where("public_id = ? AND set_id = ?", fc.ID, set.ID).
				Updates(map[string]interface{}{
					"question":   q,
					"answer":     a,
					"difficulty": string(generator.Rate(q, a)),
				}).Error
			if err != nil {
				return fmt.Errorf("update card %s: %w", fc.ID, err)
			}
		case fc.ID == "" && fc.ShouldCreate:
			if strings.TrimSpace(fc.Question) == "" || strings.TrimSpace(fc.Answer) == "" {
				continue
			}
			card, err := newCard(set.ID, position, generator.Flashcard{
				Question:   fc.Question,
				Answer:     fc.Answer,
				Difficulty: generator.Difficulty(fc.Difficulty),
				Type:       fc.Type,
			})
			if err != nil {
				return err
			}
			if err := tx.Create(&card).Error; err != nil {
				return fmt.Errorf("create card: %w", err)
			}
			position++
		}
	}
	return nil
}

// DELETE /api/flashcards/{setID}
func (db *DBHandler) DeleteSetByID(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	user, _ := middleware.UserFromContext(r.Context())

	set, err := findOwnedSet(db.DB, setID, user.Auth0ID)
	if err != nil {
		db.Log.Info("DeleteSetByID: refused", "public_id", setID, "error", err.Error())
		db.fail(w, "DeleteSetByID", err)
		return
	}

	tx := db.Begin()
	if err := tx.Where("set_id = ?", set.ID).Delete(&models.Flashcard{}).Error; err != nil {
		tx.Rollback()
		db.fail(w, "DeleteSetByID", fmt.Errorf("delete cards: %w", err))
		return
	}
	if err := tx.Delete(set).Error; err != nil {
		tx.Rollback()
		db.fail(w, "DeleteSetByID", fmt.Errorf("delete set: %w", err))
		return
	}
	if err := tx.Commit().Error; err != nil {
		db.fail(w, "DeleteSetByID", fmt.Errorf("commit: %w", err))
		return
	}

	db.Log.Info("DeleteSetByID: deleted set", "public_id", setID)
	writeJSON(w, http.StatusOK, map[string]string{
		"message":       "Flashcard set deleted successfully",
		"deleted_title": set.Title,
	})
}

// newCard builds the stored form of a generated card at position.
func newCard(setID uint, position int, c generator.Flashcard) (models.Flashcard, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return models.Flashcard{}, fmt.Errorf("generate card id: %w", err)
	}
	q, a := strings.TrimSpace(c.Question), strings.TrimSpace(c.Answer)
	key := c.ID
	if key == "" {
		key = strconv.Itoa(position + 1)
	}
	difficulty := c.Difficulty
	switch difficulty {
	case generator.DifficultyEasy, generator.DifficultyMedium, generator.DifficultyHard:
	default:
		difficulty = generator.Rate(q, a)
	}
	cardType := c.Type
	if cardType == "" {
		cardType = "manual"
	}
	return models.Flashcard{
		PublicID:   publicID,
		SetID:      setID,
		CardKey:    key,
		Question:   q,
		Answer:     a,
		Difficulty: string(difficulty),
		Type:       cardType,
		Position:   position,
	}, nil
}

func cardStatuses(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}
