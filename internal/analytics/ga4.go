package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultGA4Endpoint is the GA4 Measurement Protocol collection endpoint.
const DefaultGA4Endpoint = "https://www.google-analytics.com/mp/collect"

// GA4Client forwards events to Google Analytics 4 over the Measurement
// Protocol.
type GA4Client struct {
	measurementID string
	apiSecret     string
	clientID      string
	endpoint      string
	httpc         *http.Client
}

// NewGA4Client creates a GA4 client for the given measurement ID. The API
// secret is a deployment setting, not part of the tenant app request.
func NewGA4Client(measurementID, apiSecret, clientID string) *GA4Client {
	return &GA4Client{
		measurementID: measurementID,
		apiSecret:     apiSecret,
		clientID:      clientID,
		endpoint:      DefaultGA4Endpoint,
		httpc:         &http.Client{Timeout: 10 * time.Second},
	}
}

// SetEndpoint overrides the collection endpoint. Used in tests.
func (c *GA4Client) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// Name identifies the provider in logs and metrics.
func (c *GA4Client) Name() string { return "ga4" }

type ga4Payload struct {
	ClientID string     `json:"client_id"`
	UserID   string     `json:"user_id,omitempty"`
	Events   []ga4Event `json:"events"`
}

type ga4Event struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Send posts one event to the Measurement Protocol endpoint.
func (c *GA4Client) Send(ctx context.Context, ev Event) error {
	payload := ga4Payload{
		ClientID: c.clientID,
		UserID:   ev.UserID,
		Events:   []ga4Event{{Name: ev.Name, Params: ev.Params}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal ga4 payload: %w", err)
	}

	url := fmt.Sprintf("%s?measurement_id=%s&api_secret=%s", c.endpoint, c.measurementID, c.apiSecret)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build ga4 request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("send ga4 event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("ga4 collect returned status %d", resp.StatusCode)
	}
	return nil
}
