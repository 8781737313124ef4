package Session

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var ErrNoToken = errors.New("session: no token")

type EventKind int

const (
	LoggedIn EventKind = iota
	LoggedOut
	Expired
)

type Event struct {
	Kind EventKind
}

// Claims are the display fields read from the token. The signature is not
// checked here; the REST service does that on every call.
type Claims struct {
	Subject string
	Name    string
	Email   string
}

// Session is the one place the bearer token lives for a browser. Everything
// that cares about login state subscribes to it.
type Session struct {
	ID string

	storage fiber.Storage
	ttl     time.Duration

	mu          sync.Mutex
	subscribers map[int]func(Event)
	nextID      int
	expired     bool
	lastSeen    time.Time
}

func newSession(id string, storage fiber.Storage, ttl time.Duration, now time.Time) *Session {
	return &Session{
		ID:          id,
		storage:     storage,
		ttl:         ttl,
		subscribers: map[int]func(Event){},
		lastSeen:    now,
	}
}

func (s *Session) key() string {
	return "session:" + s.ID + ":token"
}

// Token returns the stored token, or "" when there is none.
func (s *Session) Token() string {
	value, err := s.storage.Get(s.key())
	if err != nil {
		log.Printf("session %s: read token: %v", s.ID, err)
		return ""
	}
	return string(value)
}

func (s *Session) HasToken() bool {
	return s.Token() != ""
}

func (s *Session) SetToken(token string) error {
	if token == "" {
		return ErrNoToken
	}
	if err := s.storage.Set(s.key(), []byte(token), s.ttl); err != nil {
		return err
	}
	s.mu.Lock()
	s.expired = false
	s.mu.Unlock()
	s.publish(Event{Kind: LoggedIn})
	return nil
}

func (s *Session) ClearToken() error {
	if err := s.storage.Delete(s.key()); err != nil {
		return err
	}
	s.publish(Event{Kind: LoggedOut})
	return nil
}

// Expire drops a token the server rejected. The next request sees
// TakeExpired report true so it can tell the user why they were logged out.
func (s *Session) Expire() {
	if err := s.storage.Delete(s.key()); err != nil {
		log.Printf("session %s: drop token: %v", s.ID, err)
	}
	s.mu.Lock()
	s.expired = true
	s.mu.Unlock()
	s.publish(Event{Kind: Expired})
}

// TakeExpired reports whether the session expired since the last call.
func (s *Session) TakeExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expired := s.expired
	s.expired = false
	return expired
}

// Subscribe registers fn for login, logout and expiry events.
func (s *Session) Subscribe(fn func(Event)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Session) publish(event Event) {
	s.mu.Lock()
	listeners := make([]func(Event), 0, len(s.subscribers))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(event)
	}
}

// Claims decodes the token payload without verifying it.
func (s *Session) Claims() (Claims, error) {
	token := s.Token()
	if token == "" {
		return Claims{}, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Claims{}, err
	}
	return Claims{
		Subject: stringClaim(claims, "sub", "id", "_id", "userId"),
		Name:    stringClaim(claims, "name"),
		Email:   stringClaim(claims, "email"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, names ...string) string {
	for _, name := range names {
		if value, ok := claims[name].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
