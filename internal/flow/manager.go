package flow

import (
	"sync"

	"github.com/google/uuid"
)

// Manager owns one Flow per browser session
type Manager struct {
	mu        sync.Mutex
	flows     map[string]*Flow
	confirmer EnrollmentConfirmer
	opts      []Option
}

// NewManager creates a flow manager. Every flow it creates shares the
// same confirmer and options.
func NewManager(confirmer EnrollmentConfirmer, opts ...Option) *Manager {
	return &Manager{
		flows:     make(map[string]*Flow),
		confirmer: confirmer,
		opts:      opts,
	}
}

// Get returns the flow for a session, creating it on first use. An empty
// session ID allocates a new session; the resolved ID is returned so the
// handler can echo it back to the client.
func (m *Manager) Get(sessionID string) (*Flow, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	f, ok := m.flows[sessionID]
	if !ok {
		f = New(m.confirmer, m.opts...)
		m.flows[sessionID] = f
	}
	return f, sessionID
}

// Drop discards a session's flow
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, sessionID)
}
