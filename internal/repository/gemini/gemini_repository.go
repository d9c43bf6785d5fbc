package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"smartShop/domain"
	"smartShop/pkg/logger"
	"sort"
	"strings"
	"time"
)

type GeminiConfig struct {
	APIKey  string
	BaseURL string

	// optional overrides; when empty the built-in configuration chain is
	// tried in order
	Model      string
	APIVersion string
	Method     string

	Mock     bool
	Disabled bool
}

// modelConfig is one (model, API version) pair of the fallback chain.
type modelConfig struct {
	model   string
	version string
}

var defaultModelConfigs = []modelConfig{
	{model: "gemini-2.0-flash", version: "v1"},
	{model: "gemini-2.0-flash-001", version: "v1"},
	{model: "gemini-2.5-flash", version: "v1"},
	{model: "gemini-2.5-pro", version: "v1"},
}

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultMethod  = "generateContent"

	maxRetries            = 2
	defaultAttemptTimeout = 15 * time.Second
	defaultRetryBaseDelay = 500 * time.Millisecond
)

type GeminiRepository struct {
	geminiConfig GeminiConfig
	client       *http.Client
	configs      []modelConfig

	// tunable in tests
	attemptTimeout time.Duration
	retryBaseDelay time.Duration
}

func NewGeminiRepository(cfg GeminiConfig) *GeminiRepository {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	return &GeminiRepository{
		geminiConfig:   cfg,
		client:         &http.Client{},
		configs:        defaultModelConfigs,
		attemptTimeout: defaultAttemptTimeout,
		retryBaseDelay: defaultRetryBaseDelay,
	}
}

// FallbackExplanation is the templated text used whenever no generated text
// could be obtained.
func FallbackExplanation(productName, productCategory string) string {
	return fmt.Sprintf(
		"We think you'd like %s because it matches your interests in %s and similar items you've viewed.",
		productName, productCategory,
	)
}

// ---- wire types ----

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// ---- attempt state machine ----

type attemptOutcome int

const (
	outcomeSucceeded attemptOutcome = iota
	// response parsed but carried no text; served with the fallback, never
	// retried
	outcomeEmptyText
	// the remote resource for this configuration does not exist; the whole
	// configuration is dead, no backoff is spent on it
	outcomeNotFound
	// transient: rate-limited, server error, or network failure
	outcomeRetryable
	outcomeTimedOut
	outcomeNonRetryable
)

// Explain returns a justification for recommending the product. It never
// returns an error from a live call: every failure path degrades to the
// fallback template.
func (r *GeminiRepository) Explain(
	ctx context.Context,
	productName string,
	productCategory string,
	history []domain.HistoryItem,
) (string, error) {

	fallback := FallbackExplanation(productName, productCategory)

	if r.geminiConfig.Mock {
		return fallback, nil
	}

	if r.geminiConfig.Disabled {
		logger.Info("gemini disabled via configuration, using fallback explanation")
		ExplanationFallbacksTotal.WithLabelValues("disabled").Inc()
		return fallback, nil
	}

	if r.geminiConfig.APIKey == "" {
		logger.Warn("gemini api key not set, using fallback explanation")
		ExplanationFallbacksTotal.WithLabelValues("missing_key").Inc()
		return fallback, nil
	}

	prompt := buildPrompt(productName, history)

	// Walk the configuration chain as an explicit state machine over
	// (configuration index, attempt index, last outcome).
	cfgIdx, attempt := 0, 0
	for cfgIdx < len(r.configs) {
		text, outcome := r.attemptOnce(ctx, r.configs[cfgIdx], attempt, prompt)

		switch outcome {
		case outcomeSucceeded:
			return text, nil

		case outcomeEmptyText:
			logger.Warn("no explanation text in gemini response, using fallback",
				"model", r.configs[cfgIdx].model,
			)
			ExplanationFallbacksTotal.WithLabelValues("empty_response").Inc()
			return fallback, nil

		case outcomeNotFound:
			logger.Debug("model not found, trying next configuration",
				"model", r.configs[cfgIdx].model,
			)
			cfgIdx++
			attempt = 0

		case outcomeRetryable, outcomeTimedOut:
			if attempt < maxRetries {
				if !r.waitBackoff(ctx, attempt) {
					ExplanationFallbacksTotal.WithLabelValues("canceled").Inc()
					return fallback, nil
				}
				attempt++
				continue
			}
			cfgIdx++
			attempt = 0

		case outcomeNonRetryable:
			if attempt < maxRetries {
				if !r.waitBackoff(ctx, attempt) {
					ExplanationFallbacksTotal.WithLabelValues("canceled").Inc()
					return fallback, nil
				}
				attempt++
				continue
			}
			logger.Error("gemini request failed permanently, using fallback",
				"model", r.configs[cfgIdx].model,
			)
			ExplanationFallbacksTotal.WithLabelValues("exhausted").Inc()
			return fallback, nil
		}
	}

	ExplanationFallbacksTotal.WithLabelValues("exhausted").Inc()
	return fallback, nil
}

// attemptOnce runs a single bounded call against one configuration and
// classifies the result.
func (r *GeminiRepository) attemptOnce(
	ctx context.Context,
	cfg modelConfig,
	attempt int,
	prompt string,
) (string, attemptOutcome) {

	model := cfg.model
	if r.geminiConfig.Model != "" {
		model = r.geminiConfig.Model
	}
	// accept both "models/gemini-2.0-flash" and "gemini-2.0-flash"
	model = strings.TrimPrefix(model, "models/")

	version := cfg.version
	if r.geminiConfig.APIVersion != "" {
		version = r.geminiConfig.APIVersion
	}

	method := defaultMethod
	if r.geminiConfig.Method != "" {
		method = r.geminiConfig.Method
	}

	url := fmt.Sprintf("%s/%s/models/%s:%s", r.geminiConfig.BaseURL, version, model, method)

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 50,
		},
	})
	if err != nil {
		return "", outcomeNonRetryable
	}

	attemptCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", outcomeNonRetryable
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", r.geminiConfig.APIKey)

	logger.Debug("calling gemini",
		"model", model,
		"version", version,
		"attempt", attempt+1,
	)

	res, err := r.client.Do(req)
	if err != nil {
		if attemptCtx.Err() != nil {
			logger.Warn("gemini request aborted (timeout)", "model", model)
			return "", outcomeTimedOut
		}
		return "", outcomeRetryable
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return "", outcomeNotFound
	case res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500:
		return "", outcomeRetryable
	case res.StatusCode != http.StatusOK:
		return "", outcomeNonRetryable
	}

	var parsed geminiResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", outcomeEmptyText
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", outcomeEmptyText
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", outcomeEmptyText
	}

	return text, outcomeSucceeded
}

// waitBackoff sleeps 500ms * 2^attempt, honoring cancellation. Returns false
// when the context ended first.
func (r *GeminiRepository) waitBackoff(ctx context.Context, attempt int) bool {
	delay := r.retryBaseDelay * (1 << attempt)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// buildPrompt folds derived history signals (dominant categories, purchase
// presence) into the generation prompt. History never changes control flow.
func buildPrompt(productName string, history []domain.HistoryItem) string {
	prompt := fmt.Sprintf("Why recommend %s? Answer in one sentence.", productName)

	if len(history) == 0 {
		return prompt
	}

	counts := make(map[string]int)
	hasPurchase := false
	for _, h := range history {
		if h.Category != "" {
			counts[h.Category]++
		}
		if h.Action == domain.ActionPurchase {
			hasPurchase = true
		}
	}

	topCategories := make([]string, 0, len(counts))
	for cat := range counts {
		topCategories = append(topCategories, cat)
	}
	sort.Slice(topCategories, func(i, j int) bool {
		if counts[topCategories[i]] != counts[topCategories[j]] {
			return counts[topCategories[i]] > counts[topCategories[j]]
		}
		return topCategories[i] < topCategories[j]
	})
	if len(topCategories) > 3 {
		topCategories = topCategories[:3]
	}

	if len(topCategories) > 0 {
		prompt += fmt.Sprintf(" The shopper browses %s mostly.", strings.Join(topCategories, ", "))
	}
	if hasPurchase {
		prompt += " They have purchased before."
	}

	return prompt
}
