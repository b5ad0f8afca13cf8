package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/andrewpaige1/studypal-api/logger"
)

const (
	promptContentLimit = 1500

	DefaultTimeout     = 30 * time.Second
	DefaultMaxAttempts = 3
	DefaultBackoff     = time.Second
	maxBackoff         = 10 * time.Second
)

var (
	fencedJSONBlock       = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	flashcardsObject      = regexp.MustCompile(`(?s)\{.*"flashcards".*\}`)
	errNoStructuredOutput = errors.New("no structured output in response")
)

// Requester turns study text into AI-sourced candidates. It never fails: any
// transport, status or parse problem degrades to fewer candidates.
type Requester struct {
	provider    Provider
	log         *logger.Logger
	timeout     time.Duration
	maxAttempts int
	backoff     time.Duration
}

func NewRequester(provider Provider, log *logger.Logger) *Requester {
	if log == nil {
		log = logger.Nop()
	}
	return &Requester{
		provider:    provider,
		log:         log.With("provider", provider.Name()),
		timeout:     DefaultTimeout,
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
	}
}

// Request tries each model in priority order and stops at the first one that
// yields at least one accepted candidate. Candidates sharing a normalization
// key count once.
func (r *Requester) Request(ctx context.Context, text string, numCards int) []CandidatePair {
	if numCards <= 0 || strings.TrimSpace(text) == "" {
		return nil
	}
	prompt := BuildPrompt(text, numCards)

	for _, model := range r.provider.Models() {
		body, err := r.generateWithRetry(ctx, model, prompt)
		if err != nil {
			r.log.Warn("AI generation failed", "model", model, "error", err.Error())
			continue
		}
		pairs, err := ParseResponse(body)
		if err != nil {
			r.log.Warn("AI response unparseable", "model", model, "error", err.Error())
			continue
		}

		var accepted []CandidatePair
		seen := make(map[string]struct{}, len(pairs))
		for _, p := range pairs {
			q, a := strings.TrimSpace(p.Question), strings.TrimSpace(p.Answer)
			if !Accept(q, a) {
				continue
			}
			key := NormalizeKey(q)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			accepted = append(accepted, CandidatePair{Question: q, Answer: a, Source: SourceAI, ModelName: model})
			if len(accepted) >= numCards {
				break
			}
		}
		if len(accepted) > 0 {
			r.log.Info("AI generation succeeded", "model", model, "accepted", len(accepted), "returned", len(pairs))
			return accepted
		}
		r.log.Warn("AI returned no usable flashcards", "model", model, "returned", len(pairs))
	}
	return nil
}

func (r *Requester) generateWithRetry(ctx context.Context, model, prompt string) (string, error) {
	backoff := r.backoff
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		body, err := r.generateOnce(ctx, model, prompt)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var se *StatusError
		if !errors.As(err, &se) || !se.Retryable() || attempt == r.maxAttempts {
			return "", err
		}
		sleepFor := backoff
		if se.RetryAfter > 0 {
			sleepFor = se.RetryAfter
		}
		if sleepFor > maxBackoff {
			sleepFor = maxBackoff
		}
		sleepFor = jitter(sleepFor)
		r.log.Warn("AI request retrying",
			"model", model,
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"status", se.Code,
			"sleep", sleepFor.String(),
		)
		if err := sleep(ctx, sleepFor); err != nil {
			return "", err
		}
		backoff *= 2
	}
	return "", lastErr
}

func (r *Requester) generateOnce(ctx context.Context, model, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.provider.Generate(attemptCtx, model, prompt)
}

// BuildPrompt embeds up to the first 1500 characters of text and asks for
// exactly numCards flashcards as JSON.
func BuildPrompt(text string, numCards int) string {
	content := text
	if runes := []rune(content); len(runes) > promptContentLimit {
		content = string(runes[:promptContentLimit])
	}
	return fmt.Sprintf(`Based on the following study material, generate exactly %d flashcards.

Study Material:
%s

Requirements:
1. Each flashcard should have a clear question and answer.
2. Questions test understanding, not just memorization.
3. Answers concise (50-200 words), cover key concepts.
4. Use varied question types: What, How, Why, When, Where.

Respond ONLY with valid JSON:
{ "flashcards": [{ "question": "Q?", "answer": "A." }] }
`, numCards, content)
}

// ParsedPair is one decoded entry of the provider's "flashcards" list.
type ParsedPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ParseResponse extracts the flashcard list from free-form model output. A
// ```json fenced block wins; otherwise the outermost object mentioning
// "flashcards" is decoded.
func ParseResponse(text string) ([]ParsedPair, error) {
	var block string
	if m := fencedJSONBlock.FindStringSubmatch(text); m != nil {
		block = m[1]
	} else if m := flashcardsObject.FindString(text); m != "" {
		block = m
	} else {
		return nil, errNoStructuredOutput
	}

	var parsed struct {
		Flashcards []ParsedPair `json:"flashcards"`
	}
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		return nil, fmt.Errorf("decode flashcards: %w", err)
	}
	return parsed.Flashcards, nil
}

func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := float64(base) * 0.2
	return time.Duration(float64(base) - delta + rand.Float64()*2*delta)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
