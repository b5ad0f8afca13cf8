package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"
	maxWarmupWait             = 10 * time.Second
)

var defaultHuggingFaceModels = []string{
	"microsoft/DialoGPT-medium",
	"facebook/bart-large-cnn",
	"google/flan-t5-large",
}

// HuggingFace calls the hosted Inference API. Cold models answer 503 with an
// estimated load time, which becomes the retry delay.
type HuggingFace struct {
	token   string
	baseURL string
	models  []string
	client  *http.Client
}

func NewHuggingFace(opts ProviderOptions) *HuggingFace {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = defaultHuggingFaceBaseURL
	}
	return &HuggingFace{
		token:   opts.APIKey,
		baseURL: base,
		models:  orDefault(opts.Models, defaultHuggingFaceModels),
		client:  &http.Client{Timeout: opts.Timeout},
	}
}

func (h *HuggingFace) Name() string     { return "huggingface" }
func (h *HuggingFace) Models() []string { return h.models }

type hfRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		MaxNewTokens   int     `json:"max_new_tokens"`
		Temperature    float64 `json:"temperature"`
		ReturnFullText bool    `json:"return_full_text"`
	} `json:"parameters"`
	Options struct {
		WaitForModel bool `json:"wait_for_model"`
	} `json:"options"`
}

type hfOutput struct {
	GeneratedText string `json:"generated_text"`
	SummaryText   string `json:"summary_text"`
}

func (h *HuggingFace) Generate(ctx context.Context, model, prompt string) (string, error) {
	var req hfRequest
	req.Inputs = prompt
	req.Parameters.MaxNewTokens = 1024
	req.Parameters.Temperature = 0.7

	raw, err := postJSON(ctx, h.client, h.baseURL+"/models/"+model,
		map[string]string{"Authorization": "Bearer " + h.token}, req)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusServiceUnavailable && se.RetryAfter == 0 {
			se.RetryAfter = estimatedLoadTime(se.Body)
		}
		return "", err
	}

	var outputs []hfOutput
	if err := json.Unmarshal(raw, &outputs); err != nil {
		var single hfOutput
		if err2 := json.Unmarshal(raw, &single); err2 != nil {
			return "", fmt.Errorf("decode huggingface response: %w", err)
		}
		outputs = []hfOutput{single}
	}
	if len(outputs) == 0 {
		return "", nil
	}
	if outputs[0].GeneratedText != "" {
		return outputs[0].GeneratedText, nil
	}
	return outputs[0].SummaryText, nil
}

func estimatedLoadTime(body string) time.Duration {
	var loading struct {
		EstimatedTime float64 `json:"estimated_time"`
	}
	if err := json.Unmarshal([]byte(body), &loading); err != nil || loading.EstimatedTime <= 0 {
		return 0
	}
	d := time.Duration(loading.EstimatedTime * float64(time.Second))
	if d > maxWarmupWait {
		d = maxWarmupWait
	}
	return d
}
