package push

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/storeforge/appcore/internal/appconfig"
)

// DefaultAPNSEndpoint is the production APNS provider API host.
const DefaultAPNSEndpoint = "https://api.push.apple.com"

// Provider tokens are valid for one hour; refresh comfortably before that.
const apnsTokenLifetime = 50 * time.Minute

// APNSClient delivers notifications through the APNS provider API using
// ES256 provider-token authentication.
type APNSClient struct {
	keyID    string
	teamID   string
	bundleID string
	key      *ecdsa.PrivateKey
	endpoint string
	token    string
	httpc    *http.Client

	mu          sync.Mutex
	bearerToken string
	bearerUntil time.Time
}

// NewAPNSClient fetches the tenant's p8 signing key from cfg.P8URL and
// builds a client for the configured key/team/bundle. Any failure to obtain
// or parse the key is a configuration error.
func NewAPNSClient(ctx context.Context, cfg appconfig.APNSPush) (*APNSClient, error) {
	if cfg.KeyID == "" || cfg.TeamID == "" {
		return nil, fmt.Errorf("apns key id and team id are required")
	}

	pemBytes, err := fetchP8(ctx, cfg.P8URL)
	if err != nil {
		return nil, err
	}
	key, err := parseP8(pemBytes)
	if err != nil {
		return nil, err
	}

	return &APNSClient{
		keyID:    cfg.KeyID,
		teamID:   cfg.TeamID,
		bundleID: cfg.BundleID,
		key:      key,
		endpoint: DefaultAPNSEndpoint,
		token:    uuid.New().String(),
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// fetchP8 downloads the p8 key material.
func fetchP8(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("apns p8 url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build p8 request: %w", err)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch p8 key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch p8 key: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parseP8 decodes the PEM-encoded PKCS#8 ECDSA private key Apple issues.
func parseP8(pemBytes []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("p8 key is not PEM encoded")
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse p8 key: %w", err)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("p8 key is not an ECDSA key")
	}
	return key, nil
}

// SetEndpoint overrides the provider API host. Used in tests.
func (c *APNSClient) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// Name identifies the provider in logs and metrics.
func (c *APNSClient) Name() string { return "apns" }

// Token returns the device token stand-in for this runtime.
func (c *APNSClient) Token() string { return c.token }

// providerToken returns a cached ES256 provider token, minting a fresh one
// when the cached token is close to expiry.
func (c *APNSClient) providerToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if c.bearerToken != "" && now.Before(c.bearerUntil) {
		return c.bearerToken, nil
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": c.teamID,
		"iat": now.Unix(),
	})
	tok.Header["kid"] = c.keyID

	signed, err := tok.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign apns provider token: %w", err)
	}

	c.bearerToken = signed
	c.bearerUntil = now.Add(apnsTokenLifetime)
	return signed, nil
}

type apnsPayload struct {
	APS  apnsAPS           `json:"aps"`
	Data map[string]string `json:"data,omitempty"`
}

type apnsAPS struct {
	Alert apnsAlert `json:"alert"`
	Sound string    `json:"sound,omitempty"`
}

type apnsAlert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send posts one notification to the device endpoint.
func (c *APNSClient) Send(ctx context.Context, n Notification) error {
	device := n.DeviceToken
	if device == "" {
		device = c.token
	}

	payload := apnsPayload{
		APS:  apnsAPS{Alert: apnsAlert{Title: n.Title, Body: n.Body}, Sound: "default"},
		Data: n.Data,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal apns payload: %w", err)
	}

	bearer, err := c.providerToken()
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/3/device/%s", c.endpoint, device)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build apns request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "bearer "+bearer)
	req.Header.Set("apns-topic", c.bundleID)
	req.Header.Set("apns-push-type", "alert")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("send apns notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("apns returned status %d", resp.StatusCode)
	}
	return nil
}

// SubscribeToTopic is simulated for APNS: there is no native topic
// primitive, so the subscription is recorded in the log and reported as
// success. Callers must treat iOS topic filtering as best-effort.
func (c *APNSClient) SubscribeToTopic(_ context.Context, topic string) error {
	log.Info().Str("topic", topic).Msg("APNS topic subscription simulated")
	return nil
}

// UnsubscribeFromTopic is simulated, mirroring SubscribeToTopic.
func (c *APNSClient) UnsubscribeFromTopic(_ context.Context, topic string) error {
	log.Info().Str("topic", topic).Msg("APNS topic unsubscription simulated")
	return nil
}
