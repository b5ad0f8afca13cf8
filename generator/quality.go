package generator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	interrogatives  = []string{"what", "how", "why", "when", "where", "which", "who"}
	analyticalStems = []string{"how", "why", "analyze", "compare"}

	technicalTerm = regexp.MustCompile(`(?i)\b\w*(?:tion|ism|ology|ment|ity|ness)\b`)
	abstractNoun  = regexp.MustCompile(`(?i)\b(?:concept|theory|principle|system|process|mechanism)\b`)
)

// Accept reports whether a question/answer pair clears the quality rubric.
// Word checks are substring checks on the lowercased question.
func Accept(question, answer string) bool {
	qLen := utf8.RuneCountInString(question)
	aLen := utf8.RuneCountInString(answer)
	switch {
	case qLen < 10 || qLen > 150:
		return false
	case aLen < 15 || aLen > 500:
		return false
	case !strings.HasSuffix(question, "?"):
		return false
	case !containsAny(strings.ToLower(question), interrogatives):
		return false
	case question == answer:
		return false
	case len(strings.Fields(question)) < 3:
		return false
	case len(strings.Fields(answer)) < 4:
		return false
	}
	return true
}

// Rate scores six binary complexity signals over question+answer.
func Rate(question, answer string) Difficulty {
	text := question + " " + answer
	words := strings.Fields(text)

	longWords := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) > 7 {
			longWords++
		}
	}
	separators := strings.Count(text, ",") + strings.Count(text, ";") + strings.Count(text, ":")

	signals := []bool{
		len(words) > 25,
		longWords > 2,
		len(technicalTerm.FindAllStringIndex(text, -1)) > 1,
		separators > 1,
		abstractNoun.MatchString(text),
		containsAny(strings.ToLower(question), analyticalStems),
	}
	score := 0
	for _, s := range signals {
		if s {
			score++
		}
	}

	switch {
	case score <= 2:
		return DifficultyEasy
	case score <= 4:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
