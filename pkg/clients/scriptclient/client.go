package scriptclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/pkg/db"
)

const (
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"
)

var _ db.RecordStore = (*Client)(nil)

// Client talks to an Apps Script web app that fronts the records spreadsheet.
// Writes are fire-and-forget: only transport failures are reported.
type Client struct {
	scriptURL  string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a client for the deployed script URL
func NewClient(scriptURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		scriptURL:  scriptURL,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// GetRecords fetches every record. The t parameter defeats intermediate caches.
func (c *Client) GetRecords(ctx context.Context) ([]db.ApplicationRecord, error) {
	u, err := url.Parse(c.scriptURL)
	if err != nil {
		return nil, fmt.Errorf("invalid script url: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch failed: status %d", resp.StatusCode)
	}

	var wire []wireRecord
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	records := make([]db.ApplicationRecord, 0, len(wire))
	for _, w := range wire {
		records = append(records, w.toRecord())
	}

	c.logger.Debug("Fetched records", zap.Int("count", len(records)))
	return records, nil
}

// InsertRecord posts a create action
func (c *Client) InsertRecord(ctx context.Context, record *db.ApplicationRecord) error {
	return c.post(ctx, mutation{Action: actionCreate, wireRecord: fromRecord(record)})
}

// UpdateRecord posts an update action with every field
func (c *Client) UpdateRecord(ctx context.Context, record *db.ApplicationRecord) error {
	return c.post(ctx, mutation{Action: actionUpdate, wireRecord: fromRecord(record)})
}

// UpdateRecordStatus posts an update action carrying only the status
func (c *Client) UpdateRecordStatus(ctx context.Context, id, status string) error {
	return c.post(ctx, statusMutation{Action: actionUpdate, ID: id, Status: status})
}

// DeleteRecord posts a delete action
func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	return c.post(ctx, statusMutation{Action: actionDelete, ID: id})
}

func (c *Client) post(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scriptURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	// Apps Script reads the raw body; text/plain avoids a CORS preflight for browser callers too
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("Script endpoint responded", zap.Int("status", resp.StatusCode))
	return nil
}
