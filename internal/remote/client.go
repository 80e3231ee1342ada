// Package remote provides a ledger.Store and ledger.Identity backed by the
// hosted mealbook HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/mealbook/internal/api"
	"github.com/theirongolddev/mealbook/internal/ledger"
	"github.com/theirongolddev/mealbook/internal/model"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 8 << 20 // 8 MB
)

// ErrResponseTooLarge indicates the server sent more than maxBodySize bytes.
var ErrResponseTooLarge = errors.New("remote: response too large")

// ErrRateLimited indicates the backend rejected the request with 429. It
// also matches ledger.ErrStoreUnavailable.
var ErrRateLimited = fmt.Errorf("remote: rate limited: %w", ledger.ErrStoreUnavailable)

// Client talks to a mealbook server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	maxBody int64
}

var (
	_ ledger.Store    = (*Client)(nil)
	_ ledger.Identity = (*Client)(nil)
)

// NewClient creates a client for the server at baseURL using a bearer token.
func NewClient(baseURL, token string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("remote: empty backend url")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("remote: backend url: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(token),
		http:    &http.Client{},
		maxBody: maxBodySize,
	}, nil
}

// CurrentUser returns the owner id the backend associates with the token.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	if c.token == "" {
		return "", ledger.ErrUnauthenticated
	}
	var u api.UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/auth/user", nil, nil, &u); err != nil {
		return "", err
	}
	if u.ID == "" {
		return "", ledger.ErrUnauthenticated
	}
	return u.ID, nil
}

// Select fetches the caller's rows. The owner argument must match the token.
func (c *Client) Select(ctx context.Context, _ string, r *model.Range) ([]model.MealRecord, error) {
	var rows []api.Row
	if err := c.doJSON(ctx, http.MethodGet, "/v1/meals", rangeValues(r), nil, &rows); err != nil {
		return nil, err
	}
	recs, err := api.Records(rows)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	return recs, nil
}

// Insert creates rows and returns their ids in order.
func (c *Client) Insert(ctx context.Context, rows []model.MealRecord) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	var resp api.InsertResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/meals", nil, api.FromRecords(rows), &resp); err != nil {
		return nil, err
	}
	if len(resp.IDs) != len(rows) {
		return nil, fmt.Errorf("remote: inserted %d rows, got %d ids", len(rows), len(resp.IDs))
	}
	return resp.IDs, nil
}

// Update applies p to one row.
func (c *Client) Update(ctx context.Context, _, id string, p model.Patch) error {
	if p.Empty() {
		return nil
	}
	return c.doJSON(ctx, http.MethodPatch, "/v1/meals/"+url.PathEscape(id), nil, api.FromPatch(p), nil)
}

// Delete removes rows within r, or all of the caller's rows when r is nil.
func (c *Client) Delete(ctx context.Context, _ string, r *model.Range) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/meals", rangeValues(r), nil, nil)
}

// Events returns ledger changes recorded by the server after event id since.
func (c *Client) Events(ctx context.Context, since int64) ([]api.Event, error) {
	q := url.Values{}
	q.Set("since", strconv.FormatInt(since, 10))
	var evs []api.Event
	if err := c.doJSON(ctx, http.MethodGet, "/v1/events", q, nil, &evs); err != nil {
		return nil, err
	}
	return evs, nil
}

func rangeValues(r *model.Range) url.Values {
	q := url.Values{}
	for k, v := range api.RangeQuery(r) {
		q.Set(k, v)
	}
	return q
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	data, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("remote: parsing %s %s: %w", method, path, err)
	}
	return nil
}

// do performs an authenticated request and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) ([]byte, error) {
	if c.token == "" {
		return nil, ledger.ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("remote: creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/mealbook/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrStoreUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ledger.ErrStoreUnavailable, err)
	}
	if int64(len(data)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s %s exceeds %d bytes", ErrResponseTooLarge, method, path, c.maxBody)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}
	return nil, statusError(resp.StatusCode, data)
}

// statusError maps a non-2xx reply onto ledger sentinels.
func statusError(code int, body []byte) error {
	msg := http.StatusText(code)
	var er api.ErrorResponse
	if json.Unmarshal(body, &er) == nil && er.Error != "" {
		msg = er.Error
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ledger.ErrUnauthenticated, msg)
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ledger.ErrNotFound, msg)
	case code == http.StatusConflict:
		return fmt.Errorf("%w: %s", ledger.ErrConflict, msg)
	case code == http.StatusBadRequest:
		return fmt.Errorf("remote: bad request: %s", msg)
	case code >= 500:
		return fmt.Errorf("%w: status %d: %s", ledger.ErrStoreUnavailable, code, msg)
	}
	return fmt.Errorf("remote: unexpected status %d: %s", code, msg)
}
