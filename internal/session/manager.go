package session

import (
	"sync"

	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/domain"
)

// Manager hands out independent sessions that share one engine and table.
type Manager struct {
	engine *calculation.CalculationEngine
	table  *domain.CoefficientTable

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a manager with no sessions.
func NewManager(engine *calculation.CalculationEngine, table *domain.CoefficientTable) *Manager {
	return &Manager{
		engine:   engine,
		table:    table,
		sessions: make(map[string]*Session),
	}
}

// Open starts a new session.
func (m *Manager) Open() *Session {
	s := NewSession(m.engine, m.table)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close forgets a session and its saved scenarios.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
