package generator

import (
	"context"
	"time"

	"github.com/andrewpaige1/studypal-api/logger"
)

const (
	MinCards = 1
	MaxCards = 10
)

type Option func(*Generator)

func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if g.requester != nil && d > 0 {
			g.requester.timeout = d
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if g.requester != nil && n > 0 {
			g.requester.maxAttempts = n
		}
	}
}

func WithBackoff(d time.Duration) Option {
	return func(g *Generator) {
		if g.requester != nil && d >= 0 {
			g.requester.backoff = d
		}
	}
}

// Generator runs the full pipeline: segment, ask the AI provider, fill the
// shortfall from pattern rules, then assemble. A Generator holds no
// per-request state and may be shared.
type Generator struct {
	requester *Requester
	extractor Extractor
	log       *logger.Logger
}

// New builds a generator. A nil provider disables the AI path.
func New(provider Provider, log *logger.Logger, options ...Option) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	g := &Generator{log: log}
	if provider != nil {
		g.requester = NewRequester(provider, log)
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *Generator) AIEnabled() bool {
	return g.requester != nil
}

// Generate returns at most numCards flashcards for text. It never fails; an
// empty or unusable text yields an empty slice.
func (g *Generator) Generate(ctx context.Context, text string, numCards int) []Flashcard {
	st := NewStudyText(text)
	if st.Raw == "" || numCards <= 0 {
		return []Flashcard{}
	}

	var pool []CandidatePair
	if g.requester != nil {
		pool = append(pool, g.requester.Request(ctx, st.Raw, numCards)...)
	}

	if remaining := numCards - len(pool); remaining > 0 {
		exclude := make(map[string]struct{}, len(pool))
		for _, c := range pool {
			exclude[NormalizeKey(c.Question)] = struct{}{}
		}
		pool = append(pool, g.extractor.Extract(st, remaining, exclude)...)
	}

	cards := Assemble(pool, numCards)
	g.log.Debug("Flashcards generated",
		"requested", numCards,
		"returned", len(cards),
		"sentences", len(st.Sentences),
		"paragraphs", len(st.Paragraphs),
	)
	return cards
}
