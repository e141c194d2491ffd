package rapidapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
)

const (
	// maxResponseBytes caps how much of a response body is read
	maxResponseBytes = 10 << 20

	// maxErrorBodyBytes is how much of a failed response is kept for logs
	maxErrorBodyBytes = 512

	searchPath = "/search-v2"
	userAgent  = "PriceLens/1.0"
)

// Config holds the request settings for the product search API
type Config struct {
	BaseURL  string
	Host     string
	Country  string
	Language string
	Limit    int
	SortBy   string
	Timeout  time.Duration
}

// KeyFunc returns the API key at call time; "" means not configured
type KeyFunc func() string

// Client talks to the RapidAPI real-time product search endpoint.
// Every SearchProducts call makes exactly one request.
type Client struct {
	httpClient *http.Client
	cfg        Config
	apiKey     KeyFunc
	logger     *zap.Logger
}

// NewClient creates a new product search client
func NewClient(cfg Config, apiKey KeyFunc, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg:    cfg,
		apiKey: apiKey,
		logger: logger.With(zap.String("component", "rapidapi")),
	}
}

// SearchProducts returns data.products for query in upstream order
func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.RawProduct, error) {
	key := ""
	if c.apiKey != nil {
		key = c.apiKey()
	}
	if key == "" {
		return nil, &domain.ConfigurationError{Setting: "rapidapi.api_key", Err: domain.ErrMissingAPIKey}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", key)
	req.Header.Set("X-RapidAPI-Host", c.cfg.Host)
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", zap.String("query", query), zap.Error(err))
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := body
		if len(snippet) > maxErrorBodyBytes {
			snippet = snippet[:maxErrorBodyBytes]
		}
		c.logger.Error("api error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		return nil, &domain.UpstreamError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if !gjson.ValidBytes(body) {
		return nil, domain.ErrInvalidResponse
	}

	products := domain.ParseProducts(body)
	c.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("products", len(products)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return products, nil
}

func (c *Client) searchURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("country", c.cfg.Country)
	params.Set("language", c.cfg.Language)
	params.Set("limit", strconv.Itoa(c.cfg.Limit))
	params.Set("sort_by", c.cfg.SortBy)

	return fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, searchPath, params.Encode())
}

// readLimitedBody reads at most limit bytes; anything beyond is dropped
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
