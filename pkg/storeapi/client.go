package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL points at the public Fake Store API.
const DefaultBaseURL = "https://fakestoreapi.com"

// Client loads the raw collections backing the dashboard.
type Client interface {
	Products(ctx context.Context) ([]Product, error)
	Carts(ctx context.Context) ([]Cart, error)
	Users(ctx context.Context) ([]User, error)
}

// HTTPConfig configures the HTTP store client.
type HTTPConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	// RequestsPerSecond throttles outgoing requests; zero disables throttling.
	RequestsPerSecond float64
	Burst             int
	Logger            *zap.Logger
}

// HTTPClient talks to the store REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewHTTPClient builds a client for the configured base URL.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 3
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: base,
		client:  httpClient,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Products fetches GET /products.
func (c *HTTPClient) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.get(ctx, "products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Carts fetches GET /carts.
func (c *HTTPClient) Carts(ctx context.Context) ([]Cart, error) {
	var out []Cart
	if err := c.get(ctx, "carts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Users fetches GET /users.
func (c *HTTPClient) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.get(ctx, "users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) get(ctx context.Context, collection string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Collection: collection, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+collection, nil)
	if err != nil {
		return &FetchError{Collection: collection, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("store request failed", zap.String("collection", collection), zap.Error(err))
		return &FetchError{Collection: collection, Err: err}
	}
	defer resp.Body.Close()
	c.logger.Debug("store request",
		zap.String("collection", collection),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &FetchError{
			Collection: collection,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("remote error: %s", strings.TrimSpace(buf.String())),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &FetchError{Collection: collection, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
