package Session

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStorage is a fiber.Storage backed by badger.
type BadgerStorage struct {
	db *badger.DB
}

// OpenBadger opens (or creates) the store in dir. An empty dir keeps
// everything in memory.
func OpenBadger(dir string) (*BadgerStorage, error) {
	options := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		options = options.WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &BadgerStorage{db: db}, nil
}

// Get returns nil, nil for a missing or expired key.
func (s *BadgerStorage) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

func (s *BadgerStorage) Set(key string, value []byte, exp time.Duration) error {
	if key == "" || len(value) == 0 {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if exp > 0 {
			entry = entry.WithTTL(exp)
		}
		return txn.SetEntry(entry)
	})
}

func (s *BadgerStorage) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *BadgerStorage) Reset() error {
	return s.db.DropAll()
}

func (s *BadgerStorage) Close() error {
	return s.db.Close()
}

// CollectGarbage rewrites value log files until badger reports nothing
// left to reclaim.
func (s *BadgerStorage) CollectGarbage() error {
	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// MemoryStorage is a map based fiber.Storage.
type MemoryStorage struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: map[string]memoryEntry{}, now: time.Now}
}

func (m *MemoryStorage) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		delete(m.entries, key)
		return nil, nil
	}
	return append([]byte(nil), entry.value...), nil
}

func (m *MemoryStorage) Set(key string, value []byte, exp time.Duration) error {
	if key == "" || len(value) == 0 {
		return nil
	}
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if exp > 0 {
		entry.expires = m.now().Add(exp)
	}
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Reset() error {
	m.mu.Lock()
	m.entries = map[string]memoryEntry{}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
