package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"shelf/internal/domain"
)

var bucketLibrary = []byte("library")

// storageKey is the fixed name the entry snapshot is stored under.
const storageKey = "entries"

// Snapshot implements domain.Cache using BoltDB. It holds the last
// successfully refreshed entry list so the library survives a restart
// between refreshes.
type Snapshot struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory copy

	// In-memory copy for hot-path reads (promoted on access)
	mem map[string][]byte
}

func NewSnapshot(baseCacheDir, serverURL string) (*Snapshot, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &Snapshot{mem: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "shelf.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLibrary)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Snapshot{db: db, mem: make(map[string][]byte)}, nil
}

// hashServerURL keys the cache directory by server so switching backends
// never serves another server's snapshot.
func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *Snapshot) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Snapshot) get(key string, dest interface{}) bool {
	s.mu.RLock()
	if data, ok := s.mem[key]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLibrary)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory
	s.mu.Lock()
	s.mem[key] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *Snapshot) set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.mem[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLibrary)
		return b.Put([]byte(key), data)
	})
}

// GetEntries returns the cached entry list, if one was ever saved.
func (s *Snapshot) GetEntries() ([]domain.Entry, bool) {
	var entries []domain.Entry
	ok := s.get(storageKey, &entries)
	return entries, ok
}

// SaveEntries overwrites the snapshot with the given list.
func (s *Snapshot) SaveEntries(entries []domain.Entry) error {
	return s.set(storageKey, entries)
}

// Clear drops the snapshot from memory and disk.
func (s *Snapshot) Clear() error {
	s.mu.Lock()
	s.mem = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLibrary)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(storageKey))
	})
}
