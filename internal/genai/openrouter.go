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

// Default OpenRouter settings.
const (
	DefaultOpenRouterModel   = "x-ai/grok-4-fast:free"
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenRouterClient is a minimal client for the OpenRouter chat completions
// API. Requests carry an optional system prompt alongside the user prompt.
type OpenRouterClient struct {
	hc           *http.Client
	baseURL      string
	model        string
	apiKey       string
	systemPrompt string
	temperature  float64
}

var _ Generator = (*OpenRouterClient)(nil)

// OpenRouterOption configures an OpenRouterClient.
type OpenRouterOption func(*OpenRouterClient)

// WithOpenRouterModel overrides the default model.
func WithOpenRouterModel(model string) OpenRouterOption {
	return func(c *OpenRouterClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithOpenRouterBaseURL overrides the API base URL. Used by tests.
func WithOpenRouterBaseURL(baseURL string) OpenRouterOption {
	return func(c *OpenRouterClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithSystemPrompt sets the system message sent with every request.
func WithSystemPrompt(prompt string) OpenRouterOption {
	return func(c *OpenRouterClient) {
		c.systemPrompt = prompt
	}
}

// WithOpenRouterTimeout overrides the HTTP client timeout.
func WithOpenRouterTimeout(timeout time.Duration) OpenRouterOption {
	return func(c *OpenRouterClient) {
		if timeout > 0 {
			c.hc.Timeout = timeout
		}
	}
}

// NewOpenRouterClient creates a new OpenRouter API client.
func NewOpenRouterClient(apiKey string, opts ...OpenRouterOption) *OpenRouterClient {
	c := &OpenRouterClient{
		hc:          &http.Client{Timeout: DefaultTimeout},
		baseURL:     DefaultOpenRouterBaseURL,
		model:       DefaultOpenRouterModel,
		apiKey:      apiKey,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type openRouterMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type openRouterTextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type openRouterRequest struct {
	Model       string              `json:"model"`
	Messages    []openRouterMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
}

type openRouterResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt to the chat completions endpoint and returns the
// trimmed response text.
func (c *OpenRouterClient) Generate(ctx context.Context, prompt string) (string, error) {
	messages := make([]openRouterMessage, 0, 2)
	if c.systemPrompt != "" {
		messages = append(messages, openRouterMessage{Role: "system", Content: c.systemPrompt})
	}
	messages = append(messages, openRouterMessage{
		Role:    "user",
		Content: []openRouterTextPart{{Type: "text", Text: prompt}},
	})

	body, err := json.Marshal(openRouterRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding openrouter request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", "http://localhost")
	req.Header.Set("X-Title", "Marine Health AI")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling openrouter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openrouter returned status %d", resp.StatusCode)
	}

	var result openRouterResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding openrouter response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("openrouter error %d: %s", result.Error.Code, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}

	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openrouter returned empty text")
	}
	return text, nil
}
