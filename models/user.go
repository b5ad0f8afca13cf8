package models

import "gorm.io/gorm"

type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// ParseTier accepts a tier name from a request body.
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case TierFree, TierPro:
		return Tier(s), true
	}
	return "", false
}

// User represents an account, keyed by the subject of its access token
type User struct {
	gorm.Model
	Auth0ID        string          `gorm:"uniqueIndex;not null;size:255"`
	Nickname       string          `gorm:"unique;not null;size:100"`
	Tier           Tier            `gorm:"not null;size:20;default:free"`
	FlashcardSets  []FlashcardSet  `gorm:"foreignKey:UserID" json:"-"`
	PaymentIntents []PaymentIntent `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) IsPro() bool {
	return u.Tier == TierPro
}
