package shipping

import (
	"fmt"
	"sync"
	"time"

	"github.com/turboost/turboost-backend/pkg/metrics"
)

// Manager keeps one quote session per storefront session id.
type Manager struct {
	mu       sync.Mutex
	fetcher  RateFetcher
	timeout  time.Duration
	metrics  *metrics.StorefrontMetrics
	sessions map[string]*Session
}

// NewManager builds the registry. Metrics may be nil.
func NewManager(fetcher RateFetcher, timeout time.Duration, m *metrics.StorefrontMetrics) (*Manager, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("rate fetcher required")
	}
	return &Manager{
		fetcher:  fetcher,
		timeout:  timeout,
		metrics:  m,
		sessions: make(map[string]*Session),
	}, nil
}

// Get returns the session's quote state, creating it in Idle on first
// access.
func (m *Manager) Get(sessionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		session = newSession(m.fetcher, m.timeout, m.metrics)
		m.sessions[sessionID] = session
	}
	return session
}

// Invalidate marks the session's quotes stale after a cart mutation.
// Unknown sessions are ignored; a session created later starts Idle.
func (m *Manager) Invalidate(sessionID string) {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if ok {
		session.Invalidate()
	}
}

// Drop forgets the session's quote state.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}
