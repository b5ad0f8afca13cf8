package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/andrewpaige1/studypal-api/middleware"
	"github.com/andrewpaige1/studypal-api/models"
)

const intentCurrency = "usd"

type intentResponse struct {
	ID          string               `json:"id"`
	Tier        models.Tier          `json:"tier"`
	AmountCents int64                `json:"amount_cents"`
	Currency    string               `json:"currency"`
	Status      models.PaymentStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	ConfirmedAt *time.Time           `json:"confirmed_at,omitempty"`
	CanceledAt  *time.Time           `json:"canceled_at,omitempty"`
}

func toIntentResponse(p *models.PaymentIntent) intentResponse {
	return intentResponse{
		ID:          p.PublicID,
		Tier:        p.Tier,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		ConfirmedAt: p.ConfirmedAt,
		CanceledAt:  p.CanceledAt,
	}
}

// POST /api/payments/intents
func (db *DBHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Tier string `json:"tier"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	tier, ok := models.ParseTier(strings.ToLower(strings.TrimSpace(req.Tier)))
	if !ok || tier != models.TierPro {
		writeError(w, http.StatusBadRequest, "Only the pro tier can be purchased")
		return
	}
	if user.IsPro() {
		writeError(w, http.StatusConflict, "User is already on the pro tier")
		return
	}

	id, err := gonanoid.New()
	if err != nil {
		db.fail(w, "CreatePaymentIntent", fmt.Errorf("generate intent id: %w", err))
		return
	}
	intent := models.PaymentIntent{
		PublicID:    "pi_" + id,
		UserID:      user.ID,
		Tier:        tier,
		AmountCents: db.Env.ProPriceCents,
		Currency:    intentCurrency,
		Status:      models.PaymentPending,
	}
	if err := db.Create(&intent).Error; err != nil {
		db.fail(w, "CreatePaymentIntent", fmt.Errorf("create intent: %w", err))
		return
	}

	db.Log.Info("CreatePaymentIntent: created intent", "intent_id", intent.PublicID, "user_id", user.ID, "amount_cents", intent.AmountCents)
	writeJSON(w, http.StatusCreated, toIntentResponse(&intent))
}

// GET /api/payments/intents
func (db *DBHandler) GetPaymentIntents(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var intents []models.PaymentIntent
	if err := db.Where("user_id = ?", user.ID).Order("created_at DESC, id DESC").Find(&intents).Error; err != nil {
		db.fail(w, "GetPaymentIntents", fmt.Errorf("list intents: %w", err))
		return
	}
	out := make([]intentResponse, 0, len(intents))
	for i := range intents {
		out = append(out, toIntentResponse(&intents[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"payment_intents": out,
		"total":           len(out),
	})
}

// POST /api/payments/intents/{intentID}/confirm
func (db *DBHandler) ConfirmPaymentIntent(w http.ResponseWriter, r *http.Request) {
	db.transitionIntent(w, r, "ConfirmPaymentIntent", func(tx *gorm.DB, intent *models.PaymentIntent, now time.Time) error {
		if err := intent.Confirm(now); err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", intent.UserID).Update("tier", intent.Tier).Error
	})
}

// POST /api/payments/intents/{intentID}/cancel
func (db *DBHandler) CancelPaymentIntent(w http.ResponseWriter, r *http.Request) {
	db.transitionIntent(w, r, "CancelPaymentIntent", func(tx *gorm.DB, intent *models.PaymentIntent, now time.Time) error {
		return intent.Cancel(now)
	})
}

// transitionIntent loads the caller's intent, applies change and saves it in
// one transaction.
func (db *DBHandler) transitionIntent(w http.ResponseWriter, r *http.Request, fn string,
	change func(tx *gorm.DB, intent *models.PaymentIntent, now time.Time) error) {
	intentID := r.PathValue("intentID")
	user, _ := middleware.UserFromContext(r.Context())

	var intent models.PaymentIntent
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("public_id = ? AND user_id = ?", intentID, user.ID).First(&intent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("payment intent %s: %w", intentID, models.ErrNotFound)
		}
		if err != nil {
			return err
		}
		if err := change(tx, &intent, time.Now().UTC()); err != nil {
			return err
		}
		return tx.Save(&intent).Error
	})
	if err != nil {
		db.fail(w, fn, err)
		return
	}

	db.Log.Info(fn+": intent updated", "intent_id", intentID, "status", string(intent.Status))
	writeJSON(w, http.StatusOK, toIntentResponse(&intent))
}
