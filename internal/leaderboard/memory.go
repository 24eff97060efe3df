package leaderboard

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu      sync.RWMutex
	size    int
	entries []Entry
}

func NewMemoryStore(size int) *MemoryStore {
	return &MemoryStore{
		size:    size,
		entries: make([]Entry, 0, size+1),
	}
}

func (ms *MemoryStore) Record(_ context.Context, entry Entry) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.entries = append(ms.entries, entry)
	sortEntries(ms.entries)

	if len(ms.entries) > ms.size {
		ms.entries = ms.entries[:ms.size]
	}

	return nil
}

func (ms *MemoryStore) Top(_ context.Context, n int) ([]Entry, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if n <= 0 || n > len(ms.entries) {
		n = len(ms.entries)
	}

	out := make([]Entry, n)
	copy(out, ms.entries[:n])

	return out, nil
}

func (ms *MemoryStore) Close() error {
	return nil
}
