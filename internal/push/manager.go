package push

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/storeforge/appcore/internal/metrics"
)

// Notification is a single push message. Topic takes precedence over
// DeviceToken when both are set; with neither, the provider targets its own
// registration token.
type Notification struct {
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Data        map[string]string `json:"data,omitempty"`
	DeviceToken string            `json:"device_token,omitempty"`
	Topic       string            `json:"topic,omitempty"`
}

// Provider is a concrete push backend (FCM or APNS).
type Provider interface {
	Name() string
	Token() string
	Send(ctx context.Context, n Notification) error
	SubscribeToTopic(ctx context.Context, topic string) error
	UnsubscribeFromTopic(ctx context.Context, topic string) error
}

// Status reports which provider, if any, the manager initialized.
type Status struct {
	FCMInitialized  bool   `json:"fcm_initialized"`
	APNSInitialized bool   `json:"apns_initialized"`
	Platform        string `json:"platform"`
}

// Manager selects and drives at most one push provider based on the runtime
// platform: FCM on android, APNS on ios. Send and topic operations before
// Initialize are logged no-ops.
type Manager struct {
	platform string

	mu          sync.Mutex
	initialized bool
	provider    Provider
}

// NewManager creates a manager for the given platform OS ("android" or
// "ios"). Any other value leaves the manager without a provider.
func NewManager(platform string) *Manager {
	return &Manager{platform: platform}
}

// Initialize picks the provider matching the platform and the supplied
// credentials. A platform with no matching credentials is not an error: push
// simply stays disabled. Provider construction failures (such as an
// unreachable p8 key) are returned and leave the manager uninitialized.
func (m *Manager) Initialize(ctx context.Context, cfg appconfig.Push) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		log.Warn().Msg("Push manager already initialized")
		return nil
	}

	switch m.platform {
	case "android":
		if cfg.FCMServerKey == "" {
			log.Info().Msg("No FCM server key configured, push disabled")
			break
		}
		client, err := NewFCMClient(cfg.FCMServerKey)
		if err != nil {
			return err
		}
		m.provider = client
		log.Info().Str("token", client.Token()).Msg("FCM push initialized")

	case "ios":
		if cfg.APNS.KeyID == "" || cfg.APNS.TeamID == "" {
			log.Info().Msg("No APNS credentials configured, push disabled")
			break
		}
		client, err := NewAPNSClient(ctx, cfg.APNS)
		if err != nil {
			return err
		}
		m.provider = client
		log.Info().Str("token", client.Token()).Msg("APNS push initialized")

	default:
		log.Info().Str("platform", m.platform).Msg("Unknown platform, push disabled")
	}

	m.initialized = true
	return nil
}

// ready returns the active provider, or nil when sends should be dropped.
func (m *Manager) ready() Provider {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return nil
	}
	return m.provider
}

// SendNotification delivers a notification through the active provider.
// Calls before Initialize, or with push disabled, are dropped with a warning.
func (m *Manager) SendNotification(ctx context.Context, n Notification) error {
	p := m.ready()
	if p == nil {
		log.Warn().Str("title", n.Title).Msg("Push not initialized, dropping notification")
		return nil
	}

	if err := p.Send(ctx, n); err != nil {
		metrics.RecordPushNotification(p.Name(), "error")
		log.Error().Err(err).Str("provider", p.Name()).Msg("Failed to send push notification")
		return err
	}
	metrics.RecordPushNotification(p.Name(), "success")
	return nil
}

// SubscribeToTopic subscribes this runtime's token to a topic.
func (m *Manager) SubscribeToTopic(ctx context.Context, topic string) error {
	p := m.ready()
	if p == nil {
		log.Warn().Str("topic", topic).Msg("Push not initialized, skipping topic subscribe")
		return nil
	}
	return p.SubscribeToTopic(ctx, topic)
}

// UnsubscribeFromTopic removes this runtime's token from a topic.
func (m *Manager) UnsubscribeFromTopic(ctx context.Context, topic string) error {
	p := m.ready()
	if p == nil {
		log.Warn().Str("topic", topic).Msg("Push not initialized, skipping topic unsubscribe")
		return nil
	}
	return p.UnsubscribeFromTopic(ctx, topic)
}

// SubscribeDefaults applies the tenant's configured topic subscriptions.
// Failures are logged per topic and do not abort the batch.
func (m *Manager) SubscribeDefaults(ctx context.Context, cfg appconfig.AndroidPush) {
	if !cfg.Enable {
		return
	}
	if cfg.TopicOrders != "" {
		if err := m.SubscribeToTopic(ctx, cfg.TopicOrders); err != nil {
			log.Error().Err(err).Str("topic", cfg.TopicOrders).Msg("Topic subscribe failed")
		}
	}
	if cfg.TopicPromotions != "" {
		if err := m.SubscribeToTopic(ctx, cfg.TopicPromotions); err != nil {
			log.Error().Err(err).Str("topic", cfg.TopicPromotions).Msg("Topic subscribe failed")
		}
	}
}

// Token returns the active provider's registration token, or "" when push
// is not initialized.
func (m *Manager) Token() string {
	p := m.ready()
	if p == nil {
		return ""
	}
	return p.Token()
}

// GetStatus reports the current provider state.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Status{Platform: m.platform}
	if m.provider != nil {
		switch m.provider.Name() {
		case "fcm":
			s.FCMInitialized = true
		case "apns":
			s.APNSInitialized = true
		}
	}
	return s
}

// Reset clears provider state so a subsequent Initialize starts fresh.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = false
	m.provider = nil
}
