package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/rss-digest/app/errs"
	"github.com/lysyi3m/rss-digest/app/feed"
)

const (
	DefaultHuggingFaceURL  = "https://api-inference.huggingface.co/models"
	DefaultProviderTimeout = 15 * time.Second
)

var DefaultHuggingFaceModels = []string{
	"facebook/bart-large-cnn",
	"t5-base",
	"google/pegasus-xsum",
}

// HuggingFace calls the hosted inference API, trying each model in turn.
type HuggingFace struct {
	httpClient *http.Client
	token      string
	baseURL    string
	models     []string
	timeout    time.Duration
}

func NewHuggingFace(httpClient *http.Client, token string) *HuggingFace {
	return &HuggingFace{
		httpClient: httpClient,
		token:      token,
		baseURL:    DefaultHuggingFaceURL,
		models:     DefaultHuggingFaceModels,
		timeout:    DefaultProviderTimeout,
	}
}

func (h *HuggingFace) WithBaseURL(baseURL string) *HuggingFace {
	h.baseURL = strings.TrimRight(baseURL, "/")
	return h
}

func (h *HuggingFace) WithModels(models ...string) *HuggingFace {
	h.models = models
	return h
}

func (h *HuggingFace) Method() feed.SummaryMethod {
	return feed.MethodHuggingFace
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxLength int `json:"max_length"`
	MinLength int `json:"min_length"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
	Error       string `json:"error,omitempty"`
}

func (h *HuggingFace) Attempt(ctx context.Context, input Input) (string, error) {
	if h.token == "" {
		return "", errs.ErrNotConfigured
	}

	text := truncate(input.Content, MaxInputLength)

	for _, model := range h.models {
		summary, err := h.summarize(ctx, model, text)
		if err != nil {
			slog.Debug("Hugging Face model failed", "model", model, "error", err)
			continue
		}
		if summary != "" {
			return summary, nil
		}
	}

	return "", errs.Provider("huggingface summarize", fmt.Errorf("no model produced a summary"))
}

func (h *HuggingFace) summarize(ctx context.Context, model, text string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	jsonData, err := json.Marshal(hfRequest{
		Inputs:     text,
		Parameters: hfParameters{MaxLength: 150, MinLength: 50},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodPost, h.baseURL+"/"+model, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.token)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %s", resp.Status)
	}

	return parseHFResponse(respBody)
}

// parseHFResponse accepts either a list of summaries or a single object.
func parseHFResponse(body []byte) (string, error) {
	body = bytes.TrimSpace(body)

	var result hfSummary
	if bytes.HasPrefix(body, []byte("[")) {
		var list []hfSummary
		if err := json.Unmarshal(body, &list); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
		if len(list) == 0 {
			return "", fmt.Errorf("empty response")
		}
		result = list[0]
	} else if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Error != "" {
		return "", fmt.Errorf("API error: %s", result.Error)
	}
	return strings.TrimSpace(result.SummaryText), nil
}
