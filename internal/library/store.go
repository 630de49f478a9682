package library

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"shelf/internal/domain"
)

// Store is the single source of truth for the entry list shown in the
// library view. All mutations are server-confirmed before local state
// changes, except rename, which is local-only (the service exposes no
// rename endpoint).
type Store struct {
	client domain.FileService
	cache  domain.Cache
	logger *slog.Logger

	mu         sync.Mutex
	entries    []domain.Entry
	refreshing bool
	subs       []func()
}

// NewStore creates a new library store.
func NewStore(client domain.FileService, cache domain.Cache, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, cache: cache, logger: logger}
}

// Subscribe registers fn to run after every accepted mutation.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Entries returns a copy of the current list, in server order.
func (s *Store) Entries() []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the current entry count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// LoadCached seeds the list from the durable snapshot. The snapshot is
// never authoritative; the next successful Refresh replaces it.
func (s *Store) LoadCached() bool {
	if s.cache == nil {
		return false
	}
	entries, ok := s.cache.GetEntries()
	if !ok {
		return false
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	s.logger.Debug("seeded library from cache", "count", len(entries))
	s.notify()
	return true
}

// Refresh fetches the full list and replaces local state entirely.
// Refreshes are serialized: a call while one is in flight returns
// immediately without fetching, so a stale response can never overwrite
// a newer one. On failure the previous list is retained.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		s.logger.Debug("refresh already in flight, skipping")
		return nil
	}
	s.refreshing = true
	s.mu.Unlock()

	entries, err := s.client.List(ctx)

	s.mu.Lock()
	s.refreshing = false
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("refresh failed", "error", err)
		return fmt.Errorf("refresh: %w", err)
	}
	s.entries = entries
	s.mu.Unlock()

	s.saveSnapshot(entries)
	s.logger.Debug("refreshed library", "count", len(entries))
	s.notify()
	return nil
}

// AddEntries merges newly uploaded entries, then re-fetches the full
// list so local state converges on the server's view (append-then-refresh;
// costs one extra round trip). An entry whose id is already present
// replaces the old one in place, so a re-upload never duplicates an id.
// A failed follow-up refresh leaves the optimistic merge standing until
// the next successful refresh.
func (s *Store) AddEntries(ctx context.Context, entries []domain.Entry) {
	if len(entries) == 0 {
		return
	}

	s.mu.Lock()
	for _, e := range entries {
		replaced := false
		for i := range s.entries {
			if s.entries[i].ID == e.ID {
				s.entries[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			s.entries = append(s.entries, e)
		}
	}
	snapshot := make([]domain.Entry, len(s.entries))
	copy(snapshot, s.entries)
	s.mu.Unlock()

	s.saveSnapshot(snapshot)
	s.logger.Debug("merged uploaded entries", "count", len(entries))
	s.notify()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("post-upload refresh failed, keeping appended state", "error", err)
	}
}

// Remove requests deletion from the service and drops the entry from
// local state only after the service confirms. On failure local state is
// left unchanged so the caller can retry.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, id); err != nil {
		s.logger.Error("delete failed", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	snapshot := make([]domain.Entry, len(s.entries))
	copy(snapshot, s.entries)
	s.mu.Unlock()

	s.saveSnapshot(snapshot)
	s.logger.Info("deleted entry", "id", id)
	s.notify()
	return nil
}

// Rename updates an entry's display name. Local-only: the service has no
// rename endpoint, so the change lives until the entry is re-listed under
// its server name. Concurrent rename and delete on one id are
// last-writer-wins under the store lock.
func (s *Store) Rename(ctx context.Context, id, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domain.ErrInvalidName
	}

	s.mu.Lock()
	found := false
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Name = newName
			found = true
			break
		}
	}
	var snapshot []domain.Entry
	if found {
		snapshot = make([]domain.Entry, len(s.entries))
		copy(snapshot, s.entries)
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}

	s.saveSnapshot(snapshot)
	s.logger.Info("renamed entry", "id", id, "name", newName)
	s.notify()
	return nil
}

// saveSnapshot writes through to the durable cache. Cache failures are
// logged, never fatal.
func (s *Store) saveSnapshot(entries []domain.Entry) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveEntries(entries); err != nil {
		s.logger.Error("failed to save library snapshot", "error", err)
	}
}
