package hubdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"catalog-sync/core/httpclient"

	"go.uber.org/zap"
)

const tablesPath = "/cms/v3/hubdb/tables"

// Client talks to the HubDB v3 API with a private app token.
type Client struct {
	cfg    Config
	http   *httpclient.Client
	logger *zap.Logger
}

// NewClient creates a HubDB client. It fails with ErrMissingToken before any network call
// when the token is empty.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.PrivateAppToken == "" {
		return nil, ErrMissingToken
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}

	hc, err := httpclient.New(httpclient.Config{
		Name:              "hubdb",
		BaseURL:           cfg.BaseURL,
		Token:             cfg.PrivateAppToken,
		TimeoutSeconds:    cfg.TimeoutSeconds,
		MaxRetries:        cfg.MaxRetries,
		RetryBackoff:      cfg.RetryBackoff(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		BreakerFailures:   cfg.BreakerFailures,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &Client{cfg: cfg, http: hc, logger: logger}, nil
}

// Ping verifies the token and connectivity by listing tables.
func (c *Client) Ping(ctx context.Context) error {
	query := url.Values{"limit": {"1"}}
	if err := c.http.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: tablesPath, Query: query}, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// GetTable returns the table metadata including its columns.
func (c *Client) GetTable(ctx context.Context, tableID string) (*Table, error) {
	var table Table
	if err := c.http.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: tablePath(tableID)}, &table); err != nil {
		return nil, fmt.Errorf("%w: get table %s: %w", ErrStoreUnavailable, tableID, err)
	}
	return &table, nil
}

// ListRows returns every row of the table in store order.
func (c *Client) ListRows(ctx context.Context, tableID string) ([]Row, error) {
	var rows []Row
	limit := c.cfg.PageSize

	for offset := 0; ; offset += limit {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(limit))
		query.Set("offset", strconv.Itoa(offset))

		var page rowsPage
		if err := c.http.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: rowsPath(tableID), Query: query}, &page); err != nil {
			return nil, fmt.Errorf("%w: list rows of %s at offset %d: %w", ErrStoreUnavailable, tableID, offset, err)
		}

		batch := page.rows()
		rows = append(rows, batch...)
		if len(batch) < limit {
			break
		}
	}

	c.logger.Debug("Listed table rows", zap.String("table_id", tableID), zap.Int("rows", len(rows)))
	return rows, nil
}

// FindRowByKey returns the first row whose key column equals key, or nil.
func (c *Client) FindRowByKey(ctx context.Context, tableID, key string) (*Row, error) {
	query := url.Values{}
	query.Set(KeyColumn+"__eq", key)

	var page rowsPage
	if err := c.http.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: rowsPath(tableID), Query: query}, &page); err != nil {
		return nil, fmt.Errorf("%w: find row %q in %s: %w", ErrStoreUnavailable, key, tableID, err)
	}

	rows := page.rows()
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CreateRow inserts a draft row and returns it with its assigned id.
func (c *Client) CreateRow(ctx context.Context, tableID string, input RowInput) (*Row, error) {
	var row Row
	if err := c.http.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: rowsPath(tableID), Body: input}, &row); err != nil {
		return nil, &WriteError{Op: "create", Target: fmt.Sprintf("table %s", tableID), Err: err}
	}
	return &row, nil
}

// UpdateRow replaces the values of a draft row.
func (c *Client) UpdateRow(ctx context.Context, tableID, rowID string, input RowInput) error {
	if err := c.http.Do(ctx, httpclient.Request{Method: http.MethodPut, Path: rowPath(tableID, rowID), Body: input}, nil); err != nil {
		return &WriteError{Op: "update", Target: fmt.Sprintf("row %s of table %s", rowID, tableID), Err: err}
	}
	return nil
}

// DeleteRow removes a draft row.
func (c *Client) DeleteRow(ctx context.Context, tableID, rowID string) error {
	if err := c.http.Do(ctx, httpclient.Request{Method: http.MethodDelete, Path: rowPath(tableID, rowID)}, nil); err != nil {
		return &WriteError{Op: "delete", Target: fmt.Sprintf("row %s of table %s", rowID, tableID), Err: err}
	}
	return nil
}

// PublishTable pushes the draft version of the table live.
func (c *Client) PublishTable(ctx context.Context, tableID string) error {
	path := tablePath(tableID) + "/draft/publish"
	if err := c.http.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: path, Body: struct{}{}, Idempotent: true}, nil); err != nil {
		return fmt.Errorf("%w: table %s: %w", ErrPublishFailed, tableID, err)
	}
	c.logger.Info("Published table", zap.String("table_id", tableID))
	return nil
}

// Table binds the client to one table for reconciliation.
func (c *Client) Table(tableID string) *TableStore {
	return &TableStore{client: c, tableID: tableID}
}

func tablePath(tableID string) string {
	return tablesPath + "/" + url.PathEscape(tableID)
}

func rowsPath(tableID string) string {
	return tablePath(tableID) + "/rows"
}

func rowPath(tableID, rowID string) string {
	return rowsPath(tableID) + "/" + url.PathEscape(rowID)
}
