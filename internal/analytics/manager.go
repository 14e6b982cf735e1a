// Package analytics multiplexes app analytics over the configured providers.
// GA4 and Sentry are independently optional: GA4 receives every event,
// Sentry only error-class events. Facade calls before initialization are
// dropped with a warning, never an error.
package analytics

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/storeforge/appcore/internal/metrics"
)

// Event levels.
const (
	LevelInfo  = "info"
	LevelError = "error"
)

// Event is one analytics event in provider-neutral form.
type Event struct {
	Name    string
	Level   string
	Message string
	UserID  string
	Params  map[string]any
}

// Provider is one concrete analytics backend.
type Provider interface {
	Name() string
	Send(ctx context.Context, ev Event) error
}

// Settings are deployment-level provider settings that are not part of the
// tenant app request.
type Settings struct {
	// GA4APISecret authenticates Measurement Protocol calls.
	GA4APISecret string
	// ClientID identifies this app instance to GA4.
	ClientID string
}

// Status reports which providers are active.
type Status struct {
	Initialized bool `json:"initialized"`
	GA4         bool `json:"ga4"`
	Sentry      bool `json:"sentry"`
}

// Manager fans events out to the enabled providers.
type Manager struct {
	settings Settings

	mu          sync.RWMutex
	initialized bool
	ga4         Provider
	sentry      Provider
	userID      string
}

// NewManager creates an uninitialized Manager.
func NewManager(settings Settings) *Manager {
	return &Manager{settings: settings}
}

// Initialize builds providers from the tenant analytics keys. A present but
// unparsable Sentry DSN is a hard error; the initializer treats it as fatal.
// Calling Initialize again overwrites the previous providers.
func (m *Manager) Initialize(_ context.Context, cfg appconfig.Analytics) error {
	var ga4, sentry Provider

	if cfg.GA4ID != "" {
		ga4 = NewGA4Client(cfg.GA4ID, m.settings.GA4APISecret, m.settings.ClientID)
	}
	if cfg.SentryDSN != "" {
		client, err := NewSentryClient(cfg.SentryDSN)
		if err != nil {
			return err
		}
		sentry = client
	}

	m.mu.Lock()
	m.ga4 = ga4
	m.sentry = sentry
	m.initialized = true
	m.mu.Unlock()

	log.Info().
		Bool("ga4", ga4 != nil).
		Bool("sentry", sentry != nil).
		Msg("Analytics manager initialized")
	return nil
}

// ready returns the active providers, or false when uninitialized.
func (m *Manager) ready(method string) (ga4, sentry Provider, userID string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized {
		log.Warn().Str("method", method).Msg("Analytics manager not initialized, dropping call")
		return nil, nil, "", false
	}
	return m.ga4, m.sentry, m.userID, true
}

// dispatch forwards the event to one provider, best-effort.
func dispatch(ctx context.Context, p Provider, ev Event) {
	if err := p.Send(ctx, ev); err != nil {
		metrics.RecordAnalyticsEvent(p.Name(), "error")
		log.Warn().Str("provider", p.Name()).Str("event", ev.Name).Err(err).
			Msg("Failed to forward analytics event")
		return
	}
	metrics.RecordAnalyticsEvent(p.Name(), "sent")
}

// TrackEvent forwards a named event. Sentry is skipped for non-error events.
func (m *Manager) TrackEvent(ctx context.Context, name string, params map[string]any) {
	ga4, _, userID, ok := m.ready("TrackEvent")
	if !ok {
		return
	}

	ev := Event{Name: name, Level: LevelInfo, UserID: userID, Params: params}
	if ga4 != nil {
		dispatch(ctx, ga4, ev)
	}
}

// TrackScreen forwards a screen view event.
func (m *Manager) TrackScreen(ctx context.Context, screenName string) {
	m.TrackEvent(ctx, "screen_view", map[string]any{"screen_name": screenName})
}

// TrackError forwards an error to every enabled provider.
func (m *Manager) TrackError(ctx context.Context, err error, fields map[string]any) {
	ga4, sentry, userID, ok := m.ready("TrackError")
	if !ok || err == nil {
		return
	}

	ev := Event{
		Name:    "app_error",
		Level:   LevelError,
		Message: err.Error(),
		UserID:  userID,
		Params:  fields,
	}
	if ga4 != nil {
		dispatch(ctx, ga4, ev)
	}
	if sentry != nil {
		dispatch(ctx, sentry, ev)
	}
}

// SetUser attaches a user identifier to subsequent events.
func (m *Manager) SetUser(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		log.Warn().Str("method", "SetUser").Msg("Analytics manager not initialized, dropping call")
		return
	}
	m.userID = userID
}

// GetStatus reports the active providers.
func (m *Manager) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{Initialized: m.initialized, GA4: m.ga4 != nil, Sentry: m.sentry != nil}
}

// Reset returns the manager to its uninitialized state.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = false
	m.ga4 = nil
	m.sentry = nil
	m.userID = ""
}
