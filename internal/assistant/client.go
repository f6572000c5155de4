// Package assistant proxies chat messages to an external maintenance
// advice service. The service is optional; without configuration every
// request reports ErrNotConfigured.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/autotrack/autotrack/internal/model"
	"github.com/autotrack/autotrack/internal/notify"
)

// ErrNotConfigured is returned when no assistant endpoint is set.
var ErrNotConfigured = errors.New("assistant is not configured")

const maxReplyBytes = 64 * 1024

// Client talks to the assistant API. The request carries the user's message
// plus a compact snapshot of the car so the service can tailor its answer.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// New creates a Client. An empty endpoint yields a client that always
// returns ErrNotConfigured.
func New(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   notify.NewHTTPClient(),
	}
}

// Configured reports whether an endpoint is set.
func (c *Client) Configured() bool {
	return c.endpoint != ""
}

type chatRequest struct {
	Message string   `json:"message"`
	Car     *carInfo `json:"car,omitempty"`
}

type carInfo struct {
	Make    string `json:"make"`
	Model   string `json:"model"`
	Year    int    `json:"year"`
	Mileage int64  `json:"mileage"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Ask sends a chat message, optionally with car context, and returns the
// assistant's reply.
func (c *Client) Ask(ctx context.Context, message string, car *model.Car) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	req := chatRequest{Message: message}
	if car != nil {
		req.Car = &carInfo{
			Make:    car.Make,
			Model:   car.Model,
			Year:    car.Year,
			Mileage: car.CurrentMileage,
		}
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("assistant request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("assistant returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReplyBytes)).Decode(&out); err != nil {
		return "", fmt.Errorf("decode assistant reply: %w", err)
	}
	return out.Reply, nil
}
