// Package adminclient talks to the board's administrative HTTP API.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/eventboard/internal/domain/model"
)

const (
	eventsPath           = "/admin/events"
	idempotencyKeyHeader = "Idempotency-Key"
)

// Client wraps http.Client with the board's base URL.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client for baseURL with a per-request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Export returns the board's events document.
func (c *Client) Export(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, eventsPath+"/export", nil, http.StatusOK)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Import replaces the board's collection with doc.
func (c *Client) Import(ctx context.Context, doc []byte) error {
	_, err := c.do(ctx, http.MethodPost, eventsPath+"/import", doc, http.StatusNoContent)
	return err
}

// Add stores rec and returns it with its assigned id. The request carries a
// fresh idempotency key and is retried once on a transport error, so a lost
// response never stores rec twice.
func (c *Client) Add(ctx context.Context, rec model.Record) (model.Record, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return model.Record{}, fmt.Errorf("marshal record: %w", err)
	}
	key := uuid.NewString()
	body, err := c.send(ctx, http.MethodPost, eventsPath, data, key, http.StatusCreated, http.StatusOK)
	var transport *transportError
	if errors.As(err, &transport) && ctx.Err() == nil {
		body, err = c.send(ctx, http.MethodPost, eventsPath, data, key, http.StatusCreated, http.StatusOK)
	}
	if err != nil {
		return model.Record{}, err
	}
	return decodeRecord(body)
}

// Update merges patch onto event id.
func (c *Client) Update(ctx context.Context, id int, patch model.Patch) (model.Record, error) {
	data, err := json.Marshal(patch)
	if err != nil {
		return model.Record{}, fmt.Errorf("marshal patch: %w", err)
	}
	return c.recordCall(ctx, http.MethodPatch, eventPath(id), data, http.StatusOK)
}

// Delete removes event id and returns it.
func (c *Client) Delete(ctx context.Context, id int) (model.Record, error) {
	return c.recordCall(ctx, http.MethodDelete, eventPath(id), nil, http.StatusOK)
}

func (c *Client) recordCall(ctx context.Context, method, path string, payload []byte, want int) (model.Record, error) {
	body, err := c.do(ctx, method, path, payload, want)
	if err != nil {
		return model.Record{}, err
	}
	return decodeRecord(body)
}

func decodeRecord(body []byte) (model.Record, error) {
	var rec model.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return model.Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, want int) ([]byte, error) {
	return c.send(ctx, method, path, payload, "", want)
}

// send issues one request and accepts any of the wanted statuses.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, key string, want ...int) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &transportError{op: method + " " + path, err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !slices.Contains(want, resp.StatusCode) {
		return nil, newStatusError(resp.StatusCode, body)
	}
	return body, nil
}

func eventPath(id int) string {
	return eventsPath + "/" + strconv.Itoa(id)
}
