package generator

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	fallbackMinChars = 100
	fallbackMaxChars = 150
)

type rule struct {
	source  Source
	pattern *regexp.Regexp
	build   func(m []string) (question, answer string)
}

var definitionRules = []rule{
	{
		source:  SourcePatternDefinition,
		pattern: regexp.MustCompile(`\b([A-Z][\w-]*(?:\s+[\w-]+){0,3})\s+(?:is|are)\s+((?:a|an|the)\s+[^.!?]+)[.!?]`),
		build:   defineTerm,
	},
	{
		source:  SourcePatternDefinition,
		pattern: regexp.MustCompile(`\b([A-Z][\w-]*(?:\s+[\w-]+){0,3})\s+refers\s+to\s+([^.!?]+)[.!?]`),
		build:   defineTerm,
	},
	{
		source:  SourcePatternDefinition,
		pattern: regexp.MustCompile(`\b([A-Z][\w-]*(?:\s+[\w-]+){0,3})\s+means\s+([^.!?]+)[.!?]`),
		build:   defineTerm,
	},
}

var structuredRules = []rule{
	{
		source:  SourcePatternProcess,
		pattern: regexp.MustCompile(`(?i)\b(?:involves|consists\s+of|occurs\s+in)\s+(\w+)\s+(?:main\s+)?(stages|steps|phases)\s*:\s*([^.!?]+)[.!?]`),
		build: func(m []string) (string, string) {
			count, unit, list := clean(m[1]), strings.ToLower(m[2]), clean(m[3])
			return fmt.Sprintf("How many main %s are involved in this process?", unit),
				fmt.Sprintf("This process involves %s main %s: %s.", count, unit, list)
		},
	},
	{
		source:  SourcePatternLocation,
		pattern: regexp.MustCompile(`(?i)\b(?:occurs|takes\s+place|happens)\s+in\s+([^.!?,;:]+?)(?:\s+and\s+|\s*[.!?,;:]|$)`),
		build: func(m []string) (string, string) {
			return "Where does this process occur?",
				fmt.Sprintf("This process occurs in %s.", clean(m[1]))
		},
	},
	{
		source:  SourcePatternEquation,
		pattern: regexp.MustCompile(`(?i)\bequation\s+is:\s*([^\n]+?)(?:\.\s|\.$|\n|$)`),
		build: func(m []string) (string, string) {
			return "What is the overall equation for this process?",
				fmt.Sprintf("The overall equation is: %s.", clean(m[1]))
		},
	},
}

func defineTerm(m []string) (string, string) {
	term, body := clean(m[1]), clean(m[2])
	return fmt.Sprintf("What is %s?", term), fmt.Sprintf("%s is %s.", term, body)
}

var (
	listSentence      = regexp.MustCompile(`:\s*\w|\w+,\s*\w+(?:\s+\w+)*,?\s+(?:and|or)\s+\w+`)
	processVerb       = regexp.MustCompile(`(?i)\b(?:occurs?|happens?|involves?|converts?|transforms?|changes?|undergoes?|begins?)\b`)
	productionVerb    = regexp.MustCompile(`(?i)\b(?:produces?|produced|creates?|generates?|forms?|releases?|yields?|results?\s+in)\b`)
	templateQuestions = []string{
		"What is the main process described?",
		"What are the key components mentioned?",
		"What happens during this process?",
		"What is produced by this process?",
	}
)

// Extractor produces candidate pairs from rule matches over the raw text.
// Identical input always yields identical output.
type Extractor struct{}

// Extract returns up to needed candidates. Candidates failing Accept, or whose
// normalization key is already in exclude or already emitted, are skipped.
func (Extractor) Extract(st *StudyText, needed int, exclude map[string]struct{}) []CandidatePair {
	if st == nil || st.Raw == "" || needed <= 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(exclude))
	for k := range exclude {
		seen[k] = struct{}{}
	}

	var out []CandidatePair
	add := func(source Source, question, answer string) bool {
		if !Accept(question, answer) {
			return false
		}
		key := NormalizeKey(question)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		out = append(out, CandidatePair{Question: question, Answer: answer, Source: source})
		return len(out) >= needed
	}

	for _, rules := range [][]rule{definitionRules, structuredRules} {
		for _, r := range rules {
			for _, m := range r.pattern.FindAllStringSubmatch(st.Raw, -1) {
				q, a := r.build(m)
				if add(r.source, q, a) {
					return out
				}
			}
		}
	}

	answers := []string{
		firstSentence(st),
		firstMatching(st, listSentence, ""),
		firstMatching(st, processVerb, ""),
		firstMatching(st, productionVerb, lastSentence(st)),
	}
	for i, q := range templateQuestions {
		a := answers[i]
		if a == "" {
			a = truncateContent(st.Raw)
		}
		if add(SourceTemplate, q, a) {
			return out
		}
	}
	return out
}

func firstSentence(st *StudyText) string {
	if len(st.Sentences) == 0 {
		return ""
	}
	return st.Sentences[0]
}

func lastSentence(st *StudyText) string {
	if len(st.Sentences) == 0 {
		return ""
	}
	return st.Sentences[len(st.Sentences)-1]
}

func firstMatching(st *StudyText, pattern *regexp.Regexp, fallback string) string {
	for _, s := range st.Sentences {
		if pattern.MatchString(s) {
			return s
		}
	}
	return fallback
}

// truncateContent returns the leading 100-150 characters of text, cut on a
// word boundary when one exists in that window.
func truncateContent(text string) string {
	text = collapseWhitespace(text)
	runes := []rune(text)
	if len(runes) <= fallbackMaxChars {
		return text
	}
	cut := fallbackMaxChars
	for i := fallbackMaxChars; i >= fallbackMinChars; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	return strings.TrimSpace(string(runes[:cut])) + "..."
}

func clean(s string) string {
	s = collapseWhitespace(s)
	return strings.TrimRight(s, " .")
}
