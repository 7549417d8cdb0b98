// Package usersapi calls the remote Users API:
//
//	GET    {base}?skip={n}&limit={m} -> {"users": [...], "total": n}
//	POST   {base}                    -> created record
//	DELETE {base}/{id}
package usersapi

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

	domain "user-admin/internal/domain/user"
	"user-admin/pkg/logger"
)

// maxErrorBody bounds how much of a failed response is kept for logs.
const maxErrorBody = 4 << 10

// StatusError is returned when the Users API answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("users api %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Client is a thin JSON client for the Users API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a new Client for the collection at baseURL.
// A zero timeout keeps the transport defaults.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// NewClientWithHTTP creates a new Client that sends requests through hc.
func NewClientWithHTTP(baseURL string, hc *http.Client, log *zap.Logger) *Client {
	return &Client{baseURL: baseURL, http: hc, log: log}
}

// List fetches the window of users described by p.
func (c *Client) List(ctx context.Context, p domain.PageRequest) (domain.Page, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.Page{}, fmt.Errorf("invalid users api url: %w", err)
	}
	q := u.Query()
	q.Set("skip", strconv.Itoa(p.Skip()))
	q.Set("limit", strconv.Itoa(p.Limit()))
	u.RawQuery = q.Encode()

	var page domain.Page
	if err := c.do(ctx, http.MethodGet, u.String(), nil, &page); err != nil {
		return domain.Page{}, err
	}
	if page.Users == nil {
		page.Users = []domain.Record{}
	}
	return page, nil
}

// Create posts r without its ID and returns the record assigned by the server.
func (c *Client) Create(ctx context.Context, r domain.Record) (domain.Record, error) {
	r.ID = ""

	var created domain.Record
	if err := c.do(ctx, http.MethodPost, c.baseURL, r, &created); err != nil {
		return domain.Record{}, err
	}
	return created, nil
}

// Delete removes the user with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.baseURL+"/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set(logger.RequestIDHeader, id)
	}
	if id := logger.GetSessionID(ctx); id != "" {
		req.Header.Set(logger.SessionIDHeader, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("users api %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	logger.WithContext(ctx, c.log).Debug("users api call",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, URL: target, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("users api %s %s: failed to decode response: %w", method, target, err)
	}
	return nil
}
