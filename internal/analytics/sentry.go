package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SentryClient forwards error-class events to a Sentry project using the
// store API derived from the tenant's DSN.
type SentryClient struct {
	publicKey string
	projectID string
	endpoint  string
	httpc     *http.Client
}

// NewSentryClient parses a DSN of the form
// https://<publicKey>@<host>/<projectID> and returns a client posting to the
// project's store endpoint. An unparsable DSN is a configuration error.
func NewSentryClient(dsn string) (*SentryClient, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse sentry dsn: %w", err)
	}
	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("sentry dsn %q has no public key", dsn)
	}
	projectID := strings.Trim(u.Path, "/")
	if projectID == "" {
		return nil, fmt.Errorf("sentry dsn %q has no project id", dsn)
	}

	return &SentryClient{
		publicKey: u.User.Username(),
		projectID: projectID,
		endpoint:  fmt.Sprintf("%s://%s/api/%s/store/", u.Scheme, u.Host, projectID),
		httpc:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// SetEndpoint overrides the store endpoint. Used in tests.
func (c *SentryClient) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// Name identifies the provider in logs and metrics.
func (c *SentryClient) Name() string { return "sentry" }

type sentryEvent struct {
	EventID   string         `json:"event_id"`
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Platform  string         `json:"platform"`
	Extra     map[string]any `json:"extra,omitempty"`
	User      *sentryUser    `json:"user,omitempty"`
}

type sentryUser struct {
	ID string `json:"id"`
}

// Send posts one event to the store endpoint.
func (c *SentryClient) Send(ctx context.Context, ev Event) error {
	payload := sentryEvent{
		EventID:   strings.ReplaceAll(uuid.New().String(), "-", ""),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     ev.Level,
		Message:   ev.Message,
		Platform:  "other",
		Extra:     ev.Params,
	}
	if payload.Message == "" {
		payload.Message = ev.Name
	}
	if ev.UserID != "" {
		payload.User = &sentryUser{ID: ev.UserID}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sentry event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sentry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Sentry-Auth", fmt.Sprintf(
		"Sentry sentry_version=7, sentry_client=appcore/1.0, sentry_key=%s", c.publicKey))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("send sentry event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sentry store returned status %d", resp.StatusCode)
	}
	return nil
}
