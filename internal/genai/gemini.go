package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Default Gemini settings.
const (
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultTimeout       = 60 * time.Second
)

// GeminiClient is a minimal client for the Gemini generateContent API.
type GeminiClient struct {
	hc      *http.Client
	baseURL string
	model   string
	apiKey  string
}

var _ Generator = (*GeminiClient)(nil)

// GeminiOption configures a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithGeminiModel overrides the default model.
func WithGeminiModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithGeminiBaseURL overrides the API base URL. Used by tests.
func WithGeminiBaseURL(baseURL string) GeminiOption {
	return func(c *GeminiClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithGeminiTimeout overrides the HTTP client timeout.
func WithGeminiTimeout(timeout time.Duration) GeminiOption {
	return func(c *GeminiClient) {
		if timeout > 0 {
			c.hc.Timeout = timeout
		}
	}
}

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient(apiKey string, opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		hc:      &http.Client{Timeout: DefaultTimeout},
		baseURL: DefaultGeminiBaseURL,
		model:   DefaultGeminiModel,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt to the generateContent endpoint and returns the
// trimmed response text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encoding gemini request: %w", err)
	}

	targetURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", targetURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding gemini response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", result.Error.Code, result.Error.Message)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}
