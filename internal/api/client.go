package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/currency"

	"github.com/medikart/storefront/internal/domain"
)

// TokenSource supplies the bearer token of the current session, if
// one is active.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

type Config struct {
	BaseURL      string
	PhotoBaseURL string
	Currency     currency.Unit
	Timeout      time.Duration
}

// Client talks to the pharmacy backend. It implements the catalog,
// order and auth ports. Catalog reads go through a circuit breaker
// and are deduplicated across concurrent callers; order submission is
// always a single attempt.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens TokenSource
	logger *zap.Logger

	catalogBreaker *gobreaker.CircuitBreaker[[]domain.Product]
	sfg            singleflight.Group
}

func NewClient(cfg Config, tokens TokenSource, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	c := &Client{
		cfg:    cfg,
		tokens: tokens,
		logger: logger,
	}

	c.http = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &headerTransport{
			next:   otelhttp.NewTransport(http.DefaultTransport),
			tokens: tokens,
		},
	}

	c.catalogBreaker = gobreaker.NewCircuitBreaker[[]domain.Product](gobreaker.Settings{
		Name:    "catalog",
		Timeout: 30 * time.Second,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c, nil
}

// headerTransport stamps every outbound request with a request ID and
// the session's bearer token.
type headerTransport struct {
	next   http.RoundTripper
	tokens TokenSource
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if t.tokens != nil {
		if token, ok := t.tokens.Token(req.Context()); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return t.next.RoundTrip(req)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var msg messageDTO
		_ = json.Unmarshal(data, &msg) // body may not be JSON

		return &Error{StatusCode: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return nil
}
