package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/desertthunder/lyrx/internal/retry"
	"github.com/desertthunder/lyrx/internal/shared"
)

const (
	defaultTranslateURL = "http://127.0.0.1:5000"
	targetLanguage      = "en"
)

type translateRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
	APIKey string   `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText []string `json:"translatedText"`
}

// Language is a language supported by the translation service.
type Language struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Targets []string `json:"targets,omitempty"`
}

// TranslateClient implements [lyrics.Translator] against a LibreTranslate-compatible API.
type TranslateClient struct {
	api    *APIService
	apiKey string
}

// NewTranslateClient creates a client for cfg.
//
// When client-credentials are configured the HTTP client attaches bearer tokens from a
// cached [RetryingTokenSource]; ctx bounds those token fetches.
func NewTranslateClient(ctx context.Context, cfg shared.TranslateConfig, timeout time.Duration, policy retry.Policy, logger *log.Logger) *TranslateClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	base := &http.Client{Timeout: timeout}

	httpClient := base
	if cfg.UsesOAuth() {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, base)
		source := NewRetryingTokenSource(tokenCtx, cc.TokenSource(tokenCtx), policy, logger)

		httpClient = oauth2.NewClient(tokenCtx, oauth2.ReuseTokenSource(nil, source))
		httpClient.Timeout = timeout
	}

	url := cfg.URL
	if url == "" {
		url = defaultTranslateURL
	}

	return &TranslateClient{api: NewAPIService(url, httpClient), apiKey: cfg.APIKey}
}

// TranslateBatch translates lines to English in one request.
func (c *TranslateClient) TranslateBatch(ctx context.Context, lines []string, sourceLang string) ([]string, error) {
	if sourceLang == "" {
		sourceLang = "auto"
	}

	req := translateRequest{Q: lines, Source: sourceLang, Target: targetLanguage, Format: "text", APIKey: c.apiKey}

	var resp translateResponse
	if err := c.api.PostJSON(ctx, "/translate", req, &resp); err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	return resp.TranslatedText, nil
}

// Languages lists the languages the service supports.
func (c *TranslateClient) Languages(ctx context.Context) ([]Language, error) {
	var langs []Language
	if err := c.api.GetJSON(ctx, "/languages", &langs); err != nil {
		return nil, fmt.Errorf("languages: %w", err)
	}
	return langs, nil
}
