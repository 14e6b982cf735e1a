package push

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu           sync.Mutex
	name         string
	sendErr      error
	sent         []Notification
	subscribed   []string
	unsubscribed []string
}

func (f *fakeProvider) Name() string  { return f.name }
func (f *fakeProvider) Token() string { return "fake-token" }

func (f *fakeProvider) Send(_ context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeProvider) SubscribeToTopic(_ context.Context, topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, topic)
	return nil
}

func (f *fakeProvider) UnsubscribeFromTopic(_ context.Context, topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, topic)
	return nil
}

func withProvider(m *Manager, p Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = true
	m.provider = p
}

func TestManager_InitializeDisabled(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		cfg      appconfig.Push
	}{
		{name: "android without server key", platform: "android", cfg: appconfig.Push{}},
		{name: "ios without apns credentials", platform: "ios", cfg: appconfig.Push{}},
		{name: "unknown platform", platform: "web", cfg: appconfig.Push{FCMServerKey: "key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.platform)
			require.NoError(t, m.Initialize(context.Background(), tt.cfg))

			status := m.GetStatus()
			assert.False(t, status.FCMInitialized)
			assert.False(t, status.APNSInitialized)
			assert.Equal(t, tt.platform, status.Platform)
			assert.Empty(t, m.Token())
		})
	}
}

func TestManager_InitializeFCM(t *testing.T) {
	m := NewManager("android")
	require.NoError(t, m.Initialize(context.Background(), appconfig.Push{FCMServerKey: "server-key"}))

	status := m.GetStatus()
	assert.True(t, status.FCMInitialized)
	assert.False(t, status.APNSInitialized)
	assert.NotEmpty(t, m.Token())
}

func TestManager_InitializeTwice(t *testing.T) {
	m := NewManager("android")
	require.NoError(t, m.Initialize(context.Background(), appconfig.Push{FCMServerKey: "server-key"}))
	token := m.Token()

	require.NoError(t, m.Initialize(context.Background(), appconfig.Push{FCMServerKey: "other-key"}))
	assert.Equal(t, token, m.Token())
}

func TestManager_SendBeforeInitialize(t *testing.T) {
	m := NewManager("android")

	assert.NoError(t, m.SendNotification(context.Background(), Notification{Title: "hi"}))
	assert.NoError(t, m.SubscribeToTopic(context.Background(), "orders"))
	assert.NoError(t, m.UnsubscribeFromTopic(context.Background(), "orders"))
}

func TestManager_SendNotification(t *testing.T) {
	m := NewManager("android")
	fake := &fakeProvider{name: "fcm"}
	withProvider(m, fake)

	err := m.SendNotification(context.Background(), Notification{Title: "Order shipped"})
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "Order shipped", fake.sent[0].Title)
}

func TestManager_SendNotificationError(t *testing.T) {
	m := NewManager("android")
	fake := &fakeProvider{name: "fcm", sendErr: errors.New("fcm unavailable")}
	withProvider(m, fake)

	assert.Error(t, m.SendNotification(context.Background(), Notification{Title: "hi"}))
}

func TestManager_SubscribeDefaults(t *testing.T) {
	m := NewManager("android")
	fake := &fakeProvider{name: "fcm"}
	withProvider(m, fake)

	m.SubscribeDefaults(context.Background(), appconfig.AndroidPush{
		Enable:          true,
		TopicOrders:     "orders",
		TopicPromotions: "promotions",
	})
	assert.Equal(t, []string{"orders", "promotions"}, fake.subscribed)

	fake.subscribed = nil
	m.SubscribeDefaults(context.Background(), appconfig.AndroidPush{
		TopicOrders: "orders",
	})
	assert.Empty(t, fake.subscribed)
}

func TestManager_Reset(t *testing.T) {
	m := NewManager("android")
	withProvider(m, &fakeProvider{name: "fcm"})

	m.Reset()

	status := m.GetStatus()
	assert.False(t, status.FCMInitialized)
	assert.Empty(t, m.Token())
}
