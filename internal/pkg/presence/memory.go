package presence

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is the single-instance fallback used when REDIS_ADDR is empty.
type MemoryStore struct {
	mu   sync.RWMutex
	seen map[string]map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]map[string]time.Time)}
}

func (m *MemoryStore) Touch(ctx context.Context, businessID, staffID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seen[businessID] == nil {
		m.seen[businessID] = make(map[string]time.Time)
	}
	if prev, ok := m.seen[businessID][staffID]; !ok || at.After(prev) {
		m.seen[businessID][staffID] = at
	}
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, businessID, staffID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.seen[businessID], staffID)
	if len(m.seen[businessID]) == 0 {
		delete(m.seen, businessID)
	}
	return nil
}

func (m *MemoryStore) Online(ctx context.Context, businessID string, since time.Time) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]Entry, 0, len(m.seen[businessID]))
	for staffID, at := range m.seen[businessID] {
		if at.Before(since) {
			continue
		}
		entries = append(entries, Entry{StaffID: staffID, LastActiveAt: at})
	}
	sortEntries(entries)
	return entries, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].LastActiveAt.Equal(entries[j].LastActiveAt) {
			return entries[i].StaffID < entries[j].StaffID
		}
		return entries[i].LastActiveAt.After(entries[j].LastActiveAt)
	})
}
