// Package api is the HTTP boundary to the Curio marketplace backend.
//
// It owns credential attachment (and 401-triggered purge), the single typed
// error shape for all failures, and normalization of the backend's
// dual-shape responses. Nothing above this package inspects raw HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"curio/cmd/internal/secrets"
)

const maxResponseBytes = 4 << 20 // 4 MiB

// Client issues authenticated REST calls against the marketplace API.
type Client struct {
	base string
	http *http.Client
	log  *slog.Logger

	Auth     *AuthService
	Groups   *GroupsService
	Auctions *AuctionsService
	Cards    *CardsService
	Orders   *OrdersService
}

// NewClient constructs a Client for the given base URL. All requests go
// through the bearer interceptor backed by store.
func NewClient(baseURL string, timeout time.Duration, store secrets.Store, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		log:  log,
		http: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				next:  http.DefaultTransport,
				store: store,
				log:   log,
			},
		},
	}

	c.Auth = &AuthService{c: c}
	c.Groups = &GroupsService{c: c}
	c.Auctions = &AuctionsService{c: c}
	c.Cards = &CardsService{c: c}
	c.Orders = &OrdersService{c: c}
	return c
}

// do issues one request and returns the raw response body for 2xx, or the
// typed boundary error otherwise.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		httpRequests.WithLabelValues(method, "error").Inc()
		return nil, &Error{Kind: KindTransport, Message: "network failure: " + err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	httpRequests.WithLabelValues(method, statusClass(resp.StatusCode)).Inc()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "read response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp.StatusCode, data)
	}
	return data, nil
}

// doJSON issues a request and decodes the 2xx body into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindMalformed, Message: "decode response: " + err.Error()}
	}
	return nil
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
