package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentCanceled  PaymentStatus = "canceled"
)

// PaymentIntent records a user's request to move to a paid tier. No gateway
// is involved; confirming an intent is what grants the tier.
type PaymentIntent struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex"`
	UserID   uint   `gorm:"not null;index"`
	User     User   `gorm:"foreignKey:UserID" json:"-"`

	Tier        Tier          `gorm:"not null;size:20"`
	AmountCents int64         `gorm:"not null"`
	Currency    string        `gorm:"not null;size:3;default:usd"`
	Status      PaymentStatus `gorm:"not null;size:20;default:pending"`
	ConfirmedAt *time.Time    `gorm:"default:null"`
	CanceledAt  *time.Time    `gorm:"default:null"`
}

// Confirm moves a pending intent to succeeded.
func (p *PaymentIntent) Confirm(now time.Time) error {
	if p.Status != PaymentPending {
		return fmt.Errorf("confirm %s intent %s: %w", p.Status, p.PublicID, ErrInvalidTransition)
	}
	p.Status = PaymentSucceeded
	p.ConfirmedAt = &now
	return nil
}

// Cancel moves a pending intent to canceled.
func (p *PaymentIntent) Cancel(now time.Time) error {
	if p.Status != PaymentPending {
		return fmt.Errorf("cancel %s intent %s: %w", p.Status, p.PublicID, ErrInvalidTransition)
	}
	p.Status = PaymentCanceled
	p.CanceledAt = &now
	return nil
}
