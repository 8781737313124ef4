package Session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLifecycle(t *testing.T) {
	manager := NewManager(NewMemoryStorage(), time.Hour)
	s, issued := manager.Resolve("")
	require.True(t, issued)

	var events []EventKind
	cancel := s.Subscribe(func(e Event) { events = append(events, e.Kind) })

	assert.False(t, s.HasToken())
	require.NoError(t, s.SetToken("abc"))
	assert.Equal(t, "abc", s.Token())

	require.NoError(t, s.ClearToken())
	assert.Empty(t, s.Token())

	cancel()
	require.NoError(t, s.SetToken("again"))

	assert.Equal(t, []EventKind{LoggedIn, LoggedOut}, events)
}

func TestSetEmptyToken(t *testing.T) {
	s, _ := NewManager(NewMemoryStorage(), time.Hour).Resolve("")
	assert.ErrorIs(t, s.SetToken(""), ErrNoToken)
}

func TestExpireNotifiesEverySubscriber(t *testing.T) {
	s, _ := NewManager(NewMemoryStorage(), time.Hour).Resolve("")
	require.NoError(t, s.SetToken("abc"))

	var first, second int
	s.Subscribe(func(e Event) {
		if e.Kind == Expired {
			first++
		}
	})
	s.Subscribe(func(e Event) {
		if e.Kind == Expired {
			second++
		}
	})

	s.Expire()

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.False(t, s.HasToken())
	assert.True(t, s.TakeExpired())
	assert.False(t, s.TakeExpired())
}

func TestResolveKeepsKnownSession(t *testing.T) {
	manager := NewManager(NewMemoryStorage(), time.Hour)
	s, _ := manager.Resolve("not-a-uuid")
	require.NotEqual(t, "not-a-uuid", s.ID)

	again, issued := manager.Resolve(s.ID)
	assert.False(t, issued)
	assert.Same(t, s, again)
}

func TestRotateIssuesFreshID(t *testing.T) {
	manager := NewManager(NewMemoryStorage(), time.Hour)
	planted := "0b5a4f7e-3c1d-4f2a-9e8b-7d6c5b4a3f21"
	old, issued := manager.Resolve(planted)
	require.False(t, issued)
	require.NoError(t, old.SetToken("stale"))

	fresh := manager.Rotate(old)
	assert.NotEqual(t, planted, fresh.ID)
	assert.False(t, fresh.HasToken())
	assert.False(t, old.HasToken())
	assert.Equal(t, 1, manager.Len())

	require.NoError(t, fresh.SetToken("abc"))
	back, _ := manager.Resolve(planted)
	assert.NotSame(t, old, back)
	assert.False(t, back.HasToken())

	again, issued := manager.Resolve(fresh.ID)
	assert.False(t, issued)
	assert.Same(t, fresh, again)
	assert.Equal(t, "abc", again.Token())
}

func TestTokenSurvivesSweep(t *testing.T) {
	storage := NewMemoryStorage()
	manager := NewManager(storage, time.Hour)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	s, _ := manager.Resolve("")
	require.NoError(t, s.SetToken("abc"))

	now = now.Add(3 * time.Hour)
	evicted := manager.Sweep(2 * time.Hour)
	assert.Equal(t, []string{s.ID}, evicted)
	assert.Zero(t, manager.Len())

	back, issued := manager.Resolve(s.ID)
	assert.False(t, issued)
	assert.NotSame(t, s, back)
	assert.Equal(t, "abc", back.Token())
}

func TestClaims(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    "u1",
		"name":  "Asha",
		"email": "asha@example.com",
	}).SignedString([]byte("anything"))
	require.NoError(t, err)

	s, _ := NewManager(NewMemoryStorage(), time.Hour).Resolve("")
	require.NoError(t, s.SetToken(token))

	claims, err := s.Claims()
	require.NoError(t, err)
	assert.Equal(t, Claims{Subject: "u1", Name: "Asha", Email: "asha@example.com"}, claims)
}

func TestClaimsWithoutToken(t *testing.T) {
	s, _ := NewManager(NewMemoryStorage(), time.Hour).Resolve("")
	_, err := s.Claims()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestMemoryStorageExpiry(t *testing.T) {
	storage := NewMemoryStorage()
	now := time.Now()
	storage.now = func() time.Time { return now }

	require.NoError(t, storage.Set("k", []byte("v"), time.Minute))
	value, _ := storage.Get("k")
	assert.Equal(t, []byte("v"), value)

	now = now.Add(time.Minute)
	value, _ = storage.Get("k")
	assert.Nil(t, value)
}

func TestBadgerStorage(t *testing.T) {
	storage, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	defer storage.Close()

	value, err := storage.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, storage.Set("session:x:token", []byte("abc"), time.Hour))
	value, err = storage.Get("session:x:token")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), value)

	require.NoError(t, storage.Delete("session:x:token"))
	value, err = storage.Get("session:x:token")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, storage.Set("a", []byte("1"), 0))
	require.NoError(t, storage.Reset())
	value, _ = storage.Get("a")
	assert.Nil(t, value)

	assert.NoError(t, storage.CollectGarbage())
}

func TestBadgerInMemory(t *testing.T) {
	storage, err := OpenBadger("")
	require.NoError(t, err)
	defer storage.Close()

	s, _ := NewManager(storage, time.Hour).Resolve("")
	require.NoError(t, s.SetToken("abc"))
	assert.Equal(t, "abc", s.Token())
	assert.NoError(t, storage.CollectGarbage())
}
