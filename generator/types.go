package generator

// Source tags the strategy that produced a candidate pair.
type Source string

const (
	SourceAI                Source = "ai_generated"
	SourcePatternDefinition Source = "pattern_definition"
	SourcePatternProcess    Source = "pattern_process"
	SourcePatternLocation   Source = "pattern_location"
	SourcePatternEquation   Source = "pattern_equation"
	SourceTemplate          Source = "template"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// CandidatePair is an unvalidated question/answer draft.
type CandidatePair struct {
	Question  string
	Answer    string
	Source    Source
	ModelName string
}

// Flashcard is the accepted, numbered output of a generation call. This is
// the shape the storage and HTTP layers serialize.
type Flashcard struct {
	ID         string     `json:"id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Difficulty Difficulty `json:"difficulty"`
	Type       string     `json:"type"`
}
