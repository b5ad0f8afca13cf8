package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FlashcardSet represents a saved, titled collection of generated flashcards
type FlashcardSet struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex"`
	Title    string `gorm:"not null;size:200"`
	UserID   uint   `gorm:"not null;index"`
	User     User   `gorm:"foreignKey:UserID" json:"-"`

	OriginalText string `gorm:"type:text"`
	TotalCards   int    `gorm:"not null;default:0"`
	IsPublic     bool   `gorm:"default:false"`

	// Client-side study progress keyed by card id, stored as-is.
	CardStatuses datatypes.JSON

	Flashcards []Flashcard `gorm:"foreignKey:SetID"`
}

// OwnedBy reports whether the set belongs to the user with the given subject.
// The User association must be loaded.
func (s *FlashcardSet) OwnedBy(auth0ID string) bool {
	return auth0ID != "" && s.User.Auth0ID == auth0ID
}
