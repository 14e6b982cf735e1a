// Package notification provides local, in-process notification scheduling.
// It is always available regardless of whether remote push is configured.
package notification

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Local is a single scheduled local notification.
type Local struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Data    map[string]string `json:"data,omitempty"`
	FireAt  time.Time         `json:"fire_at"`
	Created time.Time         `json:"created"`
}

// Service schedules and tracks local notifications. It must be initialized
// before scheduling; this mirrors the permission handshake a device would
// require before notifications can be shown.
type Service struct {
	mu          sync.Mutex
	initialized bool
	pending     map[string]Local
}

func NewService() *Service {
	return &Service{pending: make(map[string]Local)}
}

// Initialize marks the service ready. It is idempotent.
func (s *Service) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	log.Info().Msg("Local notification service initialized")
	return nil
}

// Initialized reports whether the service is ready.
func (s *Service) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// ScheduleLocal registers a notification to fire at the given time and
// returns its id. Scheduling before Initialize is an error.
func (s *Service) ScheduleLocal(title, body string, fireAt time.Time, data map[string]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return "", fmt.Errorf("notification service not initialized")
	}
	if title == "" {
		return "", fmt.Errorf("notification title is empty")
	}

	n := Local{
		ID:      uuid.New().String(),
		Title:   title,
		Body:    body,
		Data:    data,
		FireAt:  fireAt,
		Created: time.Now(),
	}
	s.pending[n.ID] = n
	return n.ID, nil
}

// Cancel removes a pending notification. Cancelling an unknown id is a
// no-op.
func (s *Service) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// Pending returns the scheduled notifications ordered by fire time.
func (s *Service) Pending() []Local {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Local, 0, len(s.pending))
	for _, n := range s.pending {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}

// Reset drops all pending notifications and returns the service to its
// uninitialized state.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = false
	s.pending = make(map[string]Local)
}
