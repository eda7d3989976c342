package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fixnear/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// TokenSource yields the current bearer token, or "" when no session exists.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, mostly for tests and the seeder.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Client is the single HTTP client for the FixNear backend. All views go
// through it; it owns JSON encoding, bearer auth, request correlation and
// failure classification.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration

	onUnauthorized func(token string)
}

// NewClient constructs a client for baseURL. tokens may be nil for
// unauthenticated use.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
	}
}

// SetTokenSource replaces the token source. Used to break the construction
// cycle between client and session manager.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// OnUnauthorized registers a hook invoked with the bearer token of any
// request the backend answered with 401, whichever endpoint it hit.
func (c *Client) OnUnauthorized(fn func(token string)) {
	c.onUnauthorized = fn
}

// UseRateLimit caps outbound request rate client-side.
func (c *Client) UseRateLimit(rps float64, burst int) {
	if rps <= 0 {
		return
	}
	if burst <= 0 {
		burst = 5
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// UseRedisCache configures optional Redis caching for public GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

func (c *Client) doGet(ctx context.Context, endpoint, name string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, name, out)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint, name string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, name, out)
}

func (c *Client) doDelete(ctx context.Context, endpoint, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, name, nil)
}

// do executes the request and classifies the outcome:
// 401 is ErrUnauthorized, other non-2xx is a StatusError carrying the
// backend message, a transport failure wraps ErrUnreachable. A 204 or an
// unparsable body counts as a null payload, not an error.
func (c *Client) do(req *http.Request, name string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return err
		}
	}
	token := c.addHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncAPIRequest(name, "unreachable")
		c.logger.Warn().Err(err).Str("endpoint", name).Msg("request failed")
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.IncAPIRequest(name, "unauthorized")
		if c.onUnauthorized != nil && token != "" {
			c.onUnauthorized(token)
		}
		return ErrUnauthorized
	}

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		metrics.IncAPIRequest(name, "error")
		return &StatusError{Code: resp.StatusCode, Message: serverMessage(body)}
	}

	metrics.IncAPIRequest(name, "ok")

	if out == nil || resp.StatusCode == http.StatusNoContent || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Debug().Str("endpoint", name).Msg("unparsable response body, treating as null payload")
	}
	return nil
}

func (c *Client) addHeaders(req *http.Request) string {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens == nil {
		return ""
	}
	tok := c.tokens.Token()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return tok
}

// serverMessage extracts the backend's error message from a JSON body.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}
