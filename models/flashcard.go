package models

import "gorm.io/gorm"

// Flashcard represents one question/answer card inside a set
type Flashcard struct {
	gorm.Model
	PublicID     string       `gorm:"size:100;uniqueIndex"`
	SetID        uint         `gorm:"not null;index"`
	FlashcardSet FlashcardSet `gorm:"foreignKey:SetID" json:"-"`

	// CardKey is the id the generator assigned ("1", "2", ...).
	CardKey    string `gorm:"size:20"`
	Question   string `gorm:"not null;size:500"`
	Answer     string `gorm:"not null;size:1000"`
	Difficulty string `gorm:"size:10"`
	Type       string `gorm:"size:40"`
	Position   int    `gorm:"not null;default:0"`
}
