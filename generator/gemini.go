package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

var (
	defaultGeminiModels  = []string{"gemini-1.5-flash-latest"}
	geminiHarmCategories = []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
)

// Gemini calls generateContent through the Gen AI SDK against the Gemini API
// backend.
type Gemini struct {
	client *genai.Client
	models []string
}

func NewGemini(opts ProviderOptions) (*Gemini, error) {
	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(base, "/") + "/"}
	}
	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{
		client: client,
		models: orDefault(opts.Models, defaultGeminiModels),
	}, nil
}

func (g *Gemini) Name() string     { return "gemini" }
func (g *Gemini) Models() []string { return g.models }

func (g *Gemini) Generate(ctx context.Context, model, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		TopK:             genai.Ptr[float32](40),
		TopP:             genai.Ptr[float32](0.95),
		MaxOutputTokens:  2048,
		ResponseMIMEType: "application/json",
	}
	for _, c := range geminiHarmCategories {
		config.SafetySettings = append(config.SafetySettings, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", geminiStatusError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			out.WriteString(part.Text)
		}
	}
	return out.String(), nil
}

// geminiStatusError maps SDK API errors onto StatusError so the retry policy
// sees the HTTP status.
func geminiStatusError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &StatusError{Code: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code != 0 {
		return &StatusError{Code: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return err
}
