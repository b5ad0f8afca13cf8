package generator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minSentenceChars = 25
	minSentenceWords = 5

	abbreviationMask = "●"
)

var (
	abbreviationPattern = regexp.MustCompile(`\b(?:Dr|Mr|Ms|Mrs|Prof|Inc|Ltd|etc|vs|e\.g|i\.e)\.`)
	sentenceBreak       = regexp.MustCompile(`[.!?]\s+[A-Z]`)
	paragraphBreak      = regexp.MustCompile(`\n[ \t\r\f\v]*\n`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// StudyText is the raw input of one generation request together with its
// sentence and paragraph views, computed once.
type StudyText struct {
	Raw        string
	Sentences  []string
	Paragraphs []string
}

func NewStudyText(raw string) *StudyText {
	trimmed := strings.TrimSpace(raw)
	return &StudyText{
		Raw:        trimmed,
		Sentences:  splitSentences(trimmed),
		Paragraphs: splitParagraphs(trimmed),
	}
}

func splitSentences(text string) []string {
	if text == "" {
		return nil
	}
	masked := abbreviationPattern.ReplaceAllStringFunc(text, func(m string) string {
		return strings.ReplaceAll(m, ".", abbreviationMask)
	})

	var fragments []string
	start := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(masked, -1) {
		fragments = append(fragments, masked[start:loc[0]+1])
		// the capital letter that closed the match opens the next sentence
		start = loc[1] - 1
	}
	fragments = append(fragments, masked[start:])

	sentences := make([]string, 0, len(fragments))
	for _, f := range fragments {
		s := strings.ReplaceAll(f, abbreviationMask, ".")
		s = collapseWhitespace(s)
		if utf8.RuneCountInString(s) < minSentenceChars || len(strings.Fields(s)) < minSentenceWords {
			continue
		}
		sentences = append(sentences, s)
	}
	return sentences
}

func splitParagraphs(text string) []string {
	if text == "" {
		return nil
	}
	var paragraphs []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) == 0 {
		return []string{text}
	}
	return paragraphs
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
