package azdo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
	"github.com/custodia-labs/azdo-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/azdo-mcp/internal/logger"
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 * 1024

// HeaderSession carries the activity id of a call.
const HeaderSession = "X-TFS-Session"

// Ensure Client implements the driven ports.
var (
	_ driven.SearchClient   = (*Client)(nil)
	_ driven.ContentFetcher = (*Client)(nil)
)

// Client is an Azure DevOps REST client for one organization.
type Client struct {
	cfg         Config
	http        *http.Client
	rateLimiter *RateLimiter
	userAgent   atomic.Value // string
}

// NewClient creates a client for cfg authenticated by tokens.
func NewClient(cfg Config, tokens driven.TokenProvider) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	var transport http.RoundTripper = http.DefaultTransport
	if tokens != nil && tokens.AuthMethod() != domain.AuthMethodNone {
		transport = &oauth2.Transport{
			Source: &tokenSource{provider: tokens},
			Base:   http.DefaultTransport,
		}
	}

	return NewClientWithHTTPClient(cfg, &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	})
}

// NewClientWithHTTPClient creates a client using a custom http.Client.
// The caller is responsible for authentication.
func NewClientWithHTTPClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	c := &Client{
		cfg:         cfg,
		http:        httpClient,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
	}
	c.userAgent.Store(cfg.UserAgent)
	return c, nil
}

// SetUserAgent replaces the User-Agent sent with subsequent requests.
// Safe for concurrent use.
func (c *Client) SetUserAgent(ua string) {
	if ua != "" {
		c.userAgent.Store(ua)
	}
}

// UserAgent returns the current User-Agent.
func (c *Client) UserAgent() string {
	return c.userAgent.Load().(string)
}

// Organization returns the configured organization.
func (c *Client) Organization() string {
	return c.cfg.Organization
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// do sends a request with an optional JSON body and returns the response
// body. Non-2xx responses become *RemoteServiceError.
func (c *Client) do(ctx context.Context, operation, method, rawURL string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", operation, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", operation, err)
	}

	activityID := domain.ActivityID(ctx)
	if activityID == "" {
		activityID = uuid.NewString()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent())
	req.Header.Set(HeaderSession, activityID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	log := logger.With("activity_id", activityID, "operation", operation)
	log.Debug("request", "method", method, "url", rawURL)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	c.rateLimiter.UpdateFromResponse(resp)
	if delay := c.rateLimiter.Delay(); delay > 0 {
		log.Debug("response", "status", resp.StatusCode, "throttle_delay", delay)
	} else {
		log.Debug("response", "status", resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.remoteError(operation, rawURL, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", operation, err)
	}
	return data, nil
}

// remoteError converts a failed response, reading the service's message
// from the body when it is a JSON error document.
func (c *Client) remoteError(operation, rawURL string, resp *http.Response) error {
	remote := &RemoteServiceError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		URL:        rawURL,
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var doc struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &doc) == nil {
		remote.Message = doc.Message
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAt := c.rateLimiter.RetryAt()
		if reset := c.rateLimiter.ResetTime(); retryAt.IsZero() && reset.After(time.Now()) {
			retryAt = reset
		}
		return &RateLimitError{
			RetryAt:            retryAt,
			RemoteServiceError: remote,
		}
	}
	return remote
}

// statusText returns the reason phrase of resp, e.g. "Not Found".
func statusText(resp *http.Response) string {
	prefix := fmt.Sprintf("%d ", resp.StatusCode)
	if text, ok := strings.CutPrefix(resp.Status, prefix); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// tokenSource adapts a driven.TokenProvider to oauth2.TokenSource.
type tokenSource struct {
	provider driven.TokenProvider
}

func (s *tokenSource) Token() (*oauth2.Token, error) {
	token, err := s.provider.GetToken(context.Background())
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}
	if token == "" {
		return nil, domain.ErrAuthRequired
	}

	if s.provider.AuthMethod() == domain.AuthMethodPAT {
		// Personal access tokens use basic auth with an empty user name.
		return &oauth2.Token{
			AccessToken: base64.StdEncoding.EncodeToString([]byte(":" + token)),
			TokenType:   "Basic",
		}, nil
	}

	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
