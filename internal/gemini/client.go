// Package gemini is a minimal client for the Google generative language
// REST API. Only synchronous text completion is used; streaming, tool
// calling and file uploads are out of scope.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/krishiguru/apiserver/config"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultModel      = "gemini-2.0-flash"
	defaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	maxRetries        = 2
	retryBaseInterval = time.Second
)

// ErrProvider wraps any failure of the upstream generative-AI call.
var ErrProvider = errors.New("gemini provider error")

// Client calls the Gemini generateContent endpoint over HTTP.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a Client from config, applying defaults for the
// base URL and model.
func NewClient(cfg config.GeminiConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// GenerateText sends a user prompt with a system instruction and returns
// the concatenated text of the first candidate.
func (c *Client) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.generate(ctx, systemPrompt, userPrompt, "")
}

// GenerateJSON is GenerateText with the response MIME type pinned to JSON,
// used when the caller intends to parse the answer as a structured record.
func (c *Client) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.generate(ctx, systemPrompt, userPrompt, "application/json")
}

func (c *Client) generate(ctx context.Context, systemPrompt, userPrompt, responseMimeType string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: API key not configured", ErrProvider)
	}

	reqBody := generateRequest{
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: userPrompt}},
			},
		},
		GenerationConfig: generationConfig{
			Temperature:      0.7,
			ResponseMimeType: responseMimeType,
		},
	}
	if strings.TrimSpace(systemPrompt) != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: systemPrompt}}}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrProvider, ctx.Err())
			case <-time.After(retryBaseInterval << uint(attempt-1)):
			}
		}

		text, retryable, err := c.doRequest(ctx, url, jsonData)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", lastErr
		}
	}
	return "", lastErr
}

func (c *Client) doRequest(ctx context.Context, url string, body []byte) (text string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("%w: read response: %v", ErrProvider, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", true, fmt.Errorf("%w: rate limit exceeded (429)", ErrProvider)
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, respBody)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", false, fmt.Errorf("%w: parse response: %v", ErrProvider, err)
	}
	if genResp.Error != nil {
		return "", false, fmt.Errorf("%w: %s", ErrProvider, genResp.Error.Message)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", false, fmt.Errorf("%w: no completion returned", ErrProvider)
	}

	var result strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		result.WriteString(p.Text)
	}
	return strings.TrimSpace(result.String()), false, nil
}
