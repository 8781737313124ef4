package Session

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Manager hands out sessions by id. Sessions live in memory until swept;
// their tokens live in storage until they expire there.
type Manager struct {
	storage fiber.Storage
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(storage fiber.Storage, ttl time.Duration) *Manager {
	return &Manager{
		storage:  storage,
		ttl:      ttl,
		now:      time.Now,
		sessions: map[string]*Session{},
	}
}

// Resolve returns the session for id, creating one when id is unknown or
// not a valid session id. The bool is true when a new id was issued.
func (m *Manager) Resolve(id string) (*Session, bool) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.touch(now)
		return s, false
	}

	issued := false
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		issued = true
	}
	s := newSession(id, m.storage, m.ttl, now)
	m.sessions[id] = s
	return s, issued
}

// Rotate replaces old with a session under a fresh id and forgets old,
// dropping any token stored for it. Callers rotate right before a login
// stores its token, so an id planted before login never carries one.
func (m *Manager) Rotate(old *Session) *Session {
	now := m.now()
	if err := m.storage.Delete(old.key()); err != nil {
		log.Printf("session %s: drop token: %v", old.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, old.ID)
	s := newSession(uuid.NewString(), m.storage, m.ttl, now)
	m.sessions[s.ID] = s
	return s
}

// Sweep forgets sessions idle for longer than idle and returns their ids.
// Stored tokens are left alone, so a returning browser is still logged in.
func (m *Manager) Sweep(idle time.Duration) []string {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	var evicted []string
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) Storage() fiber.Storage {
	return m.storage
}
