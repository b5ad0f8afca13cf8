package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Provider is a generative text service: prompt in, generated text out. A
// non-2xx reply is reported as a *StatusError.
type Provider interface {
	Name() string
	// Models lists candidate models in priority order.
	Models() []string
	Generate(ctx context.Context, model, prompt string) (string, error)
}

const maxErrorBodyRunes = 200

type StatusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	body := e.Body
	if runes := []rune(body); len(runes) > maxErrorBodyRunes {
		body = string(runes[:maxErrorBodyRunes])
	}
	return fmt.Sprintf("provider returned status %d: %s", e.Code, body)
}

// Retryable reports whether the status means "rate limited" or "model
// warming up".
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code == http.StatusServiceUnavailable
}

// ProviderOptions selects and configures a concrete provider.
type ProviderOptions struct {
	Name    string
	APIKey  string
	BaseURL string
	Models  []string
	Timeout time.Duration
}

// NewProvider returns nil when the provider is "none" or has no credentials,
// which disables the AI path.
func NewProvider(opts ProviderOptions) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(opts.Name))
	if name == "" || name == "none" || opts.APIKey == "" {
		return nil, nil
	}
	switch name {
	case "gemini":
		g, err := NewGemini(opts)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "huggingface", "hf":
		return NewHuggingFace(opts), nil
	case "openai":
		return NewOpenAI(opts), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", opts.Name)
	}
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Code:       resp.StatusCode,
			Body:       string(raw),
			RetryAfter: retryAfter(resp),
		}
	}
	return raw, nil
}

func retryAfter(resp *http.Response) time.Duration {
	ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if ra == "" {
		return 0
	}
	if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func orDefault(models, def []string) []string {
	if len(models) == 0 {
		return def
	}
	return models
}
