// Package client talks to the order intake server on behalf of a form.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const fallbackMessage = "Failed to submit order"

// SubmitOrderRequest is the wire payload of POST /api/submit-order.
type SubmitOrderRequest struct {
	GuestName       string   `json:"guestName"`
	Proteins        []string `json:"proteins"`
	AdditionalNotes string   `json:"additionalNotes"`
}

// SubmitOrderResponse is the 200 body of POST /api/submit-order.
type SubmitOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"orderId"`
	Data    struct {
		GuestName       string   `json:"guestName"`
		Proteins        []string `json:"proteins"`
		AdditionalNotes string   `json:"additionalNotes"`
		SubmittedAt     string   `json:"submittedAt"`
	} `json:"data"`
}

// Catalog is the body of GET /api/catalog. Amounts are decimal strings.
type Catalog struct {
	BasePrice string `json:"basePrice"`
	Currency  string `json:"currency"`
	Proteins  []struct {
		Value string `json:"value"`
		Label string `json:"label"`
		Price string `json:"price"`
	} `json:"proteins"`
}

// APIError is a non-2xx answer. Message is the server's error text verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// Client calls the intake server.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New creates a Client for baseURL, e.g. http://localhost:8081.
// A nil hc gets a client with a 30s timeout.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

// SubmitOrder posts one order.
func (c *Client) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (*SubmitOrderResponse, error) {
	var resp SubmitOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/submit-order", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Catalog fetches the menu the server prices against.
func (c *Client) Catalog(ctx context.Context) (*Catalog, error) {
	var cat Catalog
	if err := c.do(ctx, http.MethodGet, "/api/catalog", nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallbackMessage}
		var er struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &er) == nil && er.Error != "" {
			apiErr.Message = er.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
