package session

import (
	"time"

	"github.com/google/uuid"

	"pillsee-be/internal/entity"
	"pillsee-be/internal/pkg/logger"
	"pillsee-be/internal/repository/memory"
)

// Manager owns the lifecycle of anonymous conversation sessions. Expiry is
// evaluated lazily on access against the injected clock; there is no
// background sweep, which keeps the timeout fully testable.
type Manager struct {
	store   *memory.SessionRepository
	logger  logger.ILogger
	timeout time.Duration
	clock   func() time.Time
}

func NewManager(store *memory.SessionRepository, log logger.ILogger, timeout time.Duration, clock func() time.Time) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		store:   store,
		logger:  log,
		timeout: timeout,
		clock:   clock,
	}
}

// Create starts a fresh session with a random opaque identifier. The id
// carries no client-identifying information.
func (m *Manager) Create() *entity.Session {
	now := m.clock()
	session := &entity.Session{
		Id:           uuid.NewString(),
		CreatedAt:    now,
		LastActivity: now,
	}
	m.store.Save(session)
	return session
}

// Load returns the session if it exists and is still active. An expired
// session is discarded on access and reported as absent, never as stale
// messages.
func (m *Manager) Load(sessionID string) (*entity.Session, bool) {
	session, found := m.store.Get(sessionID)
	if !found {
		return nil, false
	}
	if m.expired(session) {
		m.store.Delete(sessionID)
		m.logger.Debug("session", "expired session discarded", map[string]interface{}{"session_id": sessionID})
		return nil, false
	}
	return session, true
}

// Record appends one user/assistant exchange to the session and refreshes
// its activity timestamp. An unknown or expired session id starts a new
// session so the conversation survives a client-side id mismatch.
func (m *Manager) Record(sessionID, query, answer string) *entity.Session {
	session, found := m.Load(sessionID)
	if !found {
		session = m.Create()
	}

	now := m.clock()
	session.Messages = append(session.Messages,
		entity.SessionMessage{Role: entity.SessionRoleUser, Content: query, CreatedAt: now},
		entity.SessionMessage{Role: entity.SessionRoleAssistant, Content: answer, CreatedAt: now},
	)
	session.QueryCount++
	session.LastActivity = now
	m.store.Save(session)
	return session
}

// Clear removes the session immediately regardless of its age.
func (m *Manager) Clear(sessionID string) {
	m.store.Delete(sessionID)
}

func (m *Manager) expired(session *entity.Session) bool {
	return m.clock().Sub(session.LastActivity) > m.timeout
}
