package generator

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	stopwordPattern    = regexp.MustCompile(`\b(?:what|is|the|a|an|how|does|do|are)\b`)
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// NormalizeKey is the comparison key used to detect duplicate questions. The
// stopword list is fixed.
func NormalizeKey(question string) string {
	key := stopwordPattern.ReplaceAllString(strings.ToLower(question), "")
	key = punctuationPattern.ReplaceAllString(key, "")
	return collapseWhitespace(key)
}

// Assemble walks the pool in order and returns at most target flashcards that
// pass Accept and have distinct normalization keys. Ids start at "1".
func Assemble(pool []CandidatePair, target int) []Flashcard {
	cards := make([]Flashcard, 0, max(target, 0))
	if target <= 0 {
		return cards
	}
	seen := make(map[string]struct{}, len(pool))
	for _, c := range pool {
		if !Accept(c.Question, c.Answer) {
			continue
		}
		key := NormalizeKey(c.Question)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cards = append(cards, Flashcard{
			ID:         strconv.Itoa(len(cards) + 1),
			Question:   c.Question,
			Answer:     c.Answer,
			Difficulty: Rate(c.Question, c.Answer),
			Type:       string(c.Source),
		})
		if len(cards) >= target {
			break
		}
	}
	return cards
}
