package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Default FCM endpoints (legacy HTTP API).
const (
	DefaultFCMSendEndpoint  = "https://fcm.googleapis.com/fcm/send"
	DefaultFCMTopicEndpoint = "https://iid.googleapis.com/iid/v1"
)

// FCMClient delivers notifications through Firebase Cloud Messaging using
// the tenant's server key.
type FCMClient struct {
	serverKey     string
	sendEndpoint  string
	topicEndpoint string
	token         string
	httpc         *http.Client
}

// NewFCMClient creates an FCM client. The registration token is minted at
// construction, standing in for the token the device SDK would produce.
func NewFCMClient(serverKey string) (*FCMClient, error) {
	if serverKey == "" {
		return nil, fmt.Errorf("fcm server key is empty")
	}
	return &FCMClient{
		serverKey:     serverKey,
		sendEndpoint:  DefaultFCMSendEndpoint,
		topicEndpoint: DefaultFCMTopicEndpoint,
		token:         uuid.New().String(),
		httpc:         &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// SetEndpoints overrides the FCM endpoints. Used in tests.
func (c *FCMClient) SetEndpoints(send, topic string) {
	c.sendEndpoint = send
	c.topicEndpoint = topic
}

// Name identifies the provider in logs and metrics.
func (c *FCMClient) Name() string { return "fcm" }

// Token returns the registration token.
func (c *FCMClient) Token() string { return c.token }

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send posts one notification. A Topic targets "/topics/<name>"; otherwise
// the message goes to the explicit device token, falling back to this
// client's own registration token.
func (c *FCMClient) Send(ctx context.Context, n Notification) error {
	to := n.DeviceToken
	if n.Topic != "" {
		to = "/topics/" + n.Topic
	}
	if to == "" {
		to = c.token
	}

	msg := fcmMessage{
		To:           to,
		Notification: fcmNotification{Title: n.Title, Body: n.Body},
		Data:         n.Data,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal fcm message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sendEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build fcm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("send fcm message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fcm send returned status %d", resp.StatusCode)
	}
	return nil
}

// SubscribeToTopic adds this client's token to an FCM topic through the
// instance ID API.
func (c *FCMClient) SubscribeToTopic(ctx context.Context, topic string) error {
	return c.topicCall(ctx, http.MethodPost, topic)
}

// UnsubscribeFromTopic removes this client's token from an FCM topic.
func (c *FCMClient) UnsubscribeFromTopic(ctx context.Context, topic string) error {
	return c.topicCall(ctx, http.MethodDelete, topic)
}

func (c *FCMClient) topicCall(ctx context.Context, method, topic string) error {
	if topic == "" {
		return fmt.Errorf("fcm topic is empty")
	}

	url := fmt.Sprintf("%s/%s/rel/topics/%s", c.topicEndpoint, c.token, topic)
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return fmt.Errorf("build fcm topic request: %w", err)
	}
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("fcm topic %s: %w", topic, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fcm topic %s returned status %d", topic, resp.StatusCode)
	}
	return nil
}
