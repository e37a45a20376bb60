package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"catalog-sync/core/httpclient"

	"go.uber.org/zap"
)

// Client reads the complete course catalog page by page.
type Client struct {
	cfg    Config
	http   *httpclient.Client
	logger *zap.Logger
}

// NewClient creates a catalog client from the configuration.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 500
	}

	hc, err := httpclient.New(httpclient.Config{
		Name:           "catalog",
		BaseURL:        cfg.BaseURL,
		TimeoutSeconds: cfg.TimeoutSeconds,
		MaxRetries:     cfg.MaxRetries,
		RetryBackoff:   cfg.RetryBackoff(),
	}, logger)
	if err != nil {
		return nil, err
	}

	return &Client{cfg: cfg, http: hc, logger: logger}, nil
}

// FetchAll returns every course of the catalog in page order.
// A page with fewer items than the page size (or none) ends the walk.
// Any failing page fails the whole fetch so that a partial catalog never reaches the reconciler.
func (c *Client) FetchAll(ctx context.Context) ([]Course, error) {
	var courses []Course

	for pageNum := 1; ; pageNum++ {
		if pageNum > c.cfg.MaxPages {
			return nil, fmt.Errorf("%w: exceeded %d pages without reaching the end", ErrMalformedPage, c.cfg.MaxPages)
		}

		items, err := c.fetchPage(ctx, pageNum)
		if err != nil {
			return nil, err
		}

		courses = append(courses, items...)
		c.logger.Debug("Fetched catalog page",
			zap.Int("page", pageNum),
			zap.Int("items", len(items)),
			zap.Int("total", len(courses)))

		if len(items) < c.cfg.PageSize {
			break
		}
	}

	c.logger.Info("Retrieved course catalog", zap.Int("courses", len(courses)))
	return courses, nil
}

func (c *Client) fetchPage(ctx context.Context, pageNum int) ([]Course, error) {
	query := url.Values{}
	query.Set("featured-only", strconv.Itoa(c.cfg.FeaturedOnly))
	query.Set("page_size", strconv.Itoa(c.cfg.PageSize))
	query.Set("page", strconv.Itoa(pageNum))

	var body page
	err := c.http.Do(ctx, httpclient.Request{Method: http.MethodGet, Query: query}, &body)
	if err != nil {
		if errors.Is(err, httpclient.ErrDecode) {
			return nil, fmt.Errorf("%w: page %d: %v", ErrMalformedPage, pageNum, err)
		}
		return nil, fmt.Errorf("%w: page %d: %w", ErrUpstreamUnavailable, pageNum, err)
	}

	if body.Items == nil {
		return nil, fmt.Errorf("%w: page %d has no items field", ErrMalformedPage, pageNum)
	}

	return *body.Items, nil
}
