package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
)

// DefaultXBaseURL is the X API v2 endpoint base.
const DefaultXBaseURL = "https://api.twitter.com"

// XCredentials holds the OAuth 1.0a user-context credentials for the X API.
type XCredentials struct {
	APIKey            string
	APIKeySecret      string
	AccessToken       string
	AccessTokenSecret string
}

// complete reports whether all four credential parts are present.
func (c XCredentials) complete() bool {
	return c.APIKey != "" && c.APIKeySecret != "" &&
		c.AccessToken != "" && c.AccessTokenSecret != ""
}

// XPublisher posts tweets via POST /2/tweets, signed with OAuth 1.0a.
type XPublisher struct {
	hc      *http.Client
	baseURL string
	logger  *slog.Logger
}

var _ Publisher = (*XPublisher)(nil)

// XOption configures an XPublisher.
type XOption func(*XPublisher)

// WithXBaseURL overrides the API base URL. Used by tests.
func WithXBaseURL(baseURL string) XOption {
	return func(p *XPublisher) {
		if baseURL != "" {
			p.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// NewXPublisher creates a publisher for the X channel. With incomplete
// credentials it returns a publisher whose Publish always reports skipped.
func NewXPublisher(creds XCredentials, logger *slog.Logger, opts ...XOption) *XPublisher {
	if logger == nil {
		logger = slog.Default()
	}

	p := &XPublisher{
		baseURL: DefaultXBaseURL,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}

	if !creds.complete() {
		logger.Warn("X credentials incomplete, publisher will skip delivery")
		return p
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APIKeySecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	p.hc = config.Client(oauth1.NoContext, token)
	p.hc.Timeout = 15 * time.Second
	return p
}

// Publish posts the content as a tweet. Exactly one attempt, never an error.
func (p *XPublisher) Publish(ctx context.Context, content string) Outcome {
	if p.hc == nil {
		return skipped("no X client configured")
	}
	if strings.TrimSpace(content) == "" {
		return skipped("empty content")
	}

	body, err := json.Marshal(map[string]string{"text": content})
	if err != nil {
		return failed(fmt.Sprintf("encoding tweet: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return failed(fmt.Sprintf("building request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	log := runLogger(ctx, p.logger)

	resp, err := p.hc.Do(req)
	if err != nil {
		log.Error("tweet delivery failed", "error", err)
		return failed(fmt.Sprintf("calling X API: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		log.Error("tweet rejected", "status", resp.StatusCode)
		return failed(fmt.Sprintf("X API returned status %d", resp.StatusCode))
	}

	log.Info("tweet delivered")
	return delivered()
}
