package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/retry"
	"github.com/desertthunder/lyrx/internal/shared"
)

const (
	defaultEmotionURL   = "https://api-inference.huggingface.co"
	defaultEmotionModel = "j-hartmann/emotion-english-distilroberta-base"
)

type emotionRequest struct {
	Inputs string `json:"inputs"`
}

// EmotionClient implements [sentiment.Classifier] against the Hugging Face inference API.
type EmotionClient struct {
	api   *APIService
	model string
	token string
}

// NewEmotionClient creates a client for cfg with the given request timeout.
func NewEmotionClient(cfg shared.EmotionConfig, timeout time.Duration) *EmotionClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	base := cfg.URL
	if base == "" {
		base = defaultEmotionURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultEmotionModel
	}

	api := NewAPIService(base, nil)
	api.httpClient.Timeout = timeout
	if cfg.APIToken != "" {
		api.SetHeader("Authorization", "Bearer "+cfg.APIToken)
	}

	return &EmotionClient{api: api, model: model, token: cfg.APIToken}
}

// Classify returns every emotion label the model scored for text.
func (c *EmotionClient) Classify(ctx context.Context, text string) ([]models.EmotionLabel, error) {
	if c.token == "" {
		return nil, &retry.Failure{Kind: retry.ClientError, Err: shared.ErrMissingCredentials}
	}

	resp, err := c.api.Post(ctx, "/models/"+modelPath(c.model), mustJSON(emotionRequest{Inputs: text}))
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	labels, err := parseEmotionLabels(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return labels, nil
}

// parseEmotionLabels accepts both the nested [[{label,score}]] and flat [{label,score}] shapes.
func parseEmotionLabels(body []byte) ([]models.EmotionLabel, error) {
	var nested [][]models.EmotionLabel
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}

	var flat []models.EmotionLabel
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return flat, nil
}

// modelPath escapes each segment of an "owner/name" model id.
func modelPath(model string) string {
	return (&url.URL{Path: model}).EscapedPath()
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("failed to encode %T: %v", v, err))
	}
	return data
}
