package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultGraphBaseURL is the Facebook Graph API endpoint base.
const DefaultGraphBaseURL = "https://graph.facebook.com"

// FacebookPublisher posts to a page feed via the Graph API.
type FacebookPublisher struct {
	hc          *http.Client
	baseURL     string
	pageID      string
	accessToken string
	logger      *slog.Logger
}

var _ Publisher = (*FacebookPublisher)(nil)

// FacebookOption configures a FacebookPublisher.
type FacebookOption func(*FacebookPublisher)

// WithGraphBaseURL overrides the Graph API base URL. Used by tests.
func WithGraphBaseURL(baseURL string) FacebookOption {
	return func(p *FacebookPublisher) {
		if baseURL != "" {
			p.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// NewFacebookPublisher creates a publisher for a Facebook page feed. With no
// access token it returns a publisher whose Publish always reports skipped.
// An empty pageID posts to the token owner's own feed.
func NewFacebookPublisher(pageID, accessToken string, logger *slog.Logger, opts ...FacebookOption) *FacebookPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	if pageID == "" {
		pageID = "me"
	}

	p := &FacebookPublisher{
		baseURL:     DefaultGraphBaseURL,
		pageID:      pageID,
		accessToken: accessToken,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}

	if accessToken == "" {
		logger.Warn("Facebook access token missing, publisher will skip delivery")
		return p
	}

	p.hc = &http.Client{Timeout: 15 * time.Second}
	return p
}

// Publish posts the content to the page feed. Exactly one attempt, never an
// error.
func (p *FacebookPublisher) Publish(ctx context.Context, content string) Outcome {
	if p.hc == nil {
		return skipped("no Facebook client configured")
	}
	if strings.TrimSpace(content) == "" {
		return skipped("empty content")
	}

	vals := url.Values{}
	vals.Set("message", content)
	vals.Set("access_token", p.accessToken)

	targetURL := fmt.Sprintf("%s/%s/feed", p.baseURL, p.pageID)
	req, err := http.NewRequestWithContext(ctx, "POST", targetURL, strings.NewReader(vals.Encode()))
	if err != nil {
		return failed(fmt.Sprintf("building request: %v", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log := runLogger(ctx, p.logger)

	resp, err := p.hc.Do(req)
	if err != nil {
		log.Error("post delivery failed", "error", err)
		return failed(fmt.Sprintf("calling Graph API: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("post rejected", "status", resp.StatusCode)
		return failed(fmt.Sprintf("Graph API returned status %d", resp.StatusCode))
	}

	log.Info("post delivered", "page", p.pageID)
	return delivered()
}
