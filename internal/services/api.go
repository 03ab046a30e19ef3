// API service for JSON requests to external HTTP services
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/lyrx/internal/retry"
)

const (
	DefaultRequestTimeout = 30 * time.Second
	maxResponseSize       = 10 * 1024 * 1024
)

// APIService performs JSON requests against a base URL and tags failures for the retry wrapper.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
}

// NewAPIService creates a new API service instance for baseURL.
//
// A nil client gets a client with [DefaultRequestTimeout].
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if client == nil {
		client = &http.Client{Timeout: DefaultRequestTimeout}
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		headers:    http.Header{},
	}
}

// SetHeader sets a header sent with every request.
func (a *APIService) SetHeader(key, value string) {
	a.headers.Set(key, value)
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

// GetJSON performs a GET request and decodes a successful response into result.
func (a *APIService) GetJSON(ctx context.Context, path string, result any) error {
	resp, err := a.Get(ctx, path)
	if err != nil {
		return err
	}
	return resp.decode(result)
}

// PostJSON encodes payload, posts it and decodes a successful response into result.
func (a *APIService) PostJSON(ctx context.Context, path string, payload, result any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := a.Post(ctx, path, data)
	if err != nil {
		return err
	}
	return resp.decode(result)
}

// do sends the request. Transport failures and error statuses come back as [retry.Failure].
func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range a.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, retry.FromTransport(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, retry.FromTransport(fmt.Errorf("failed to read response: %w", err))
	}

	if err := retry.FromStatus(resp.StatusCode, resp.Header, respBody); err != nil {
		return nil, err
	}

	return &APIResponse{StatusCode: resp.StatusCode, Headers: resp.Header, Body: respBody}, nil
}

func (r *APIResponse) decode(result any) error {
	if result == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
