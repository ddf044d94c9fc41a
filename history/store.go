// Package history - bounded retention of diagnosis records.
//
// The diagnosis pipeline neither knows about nor depends on this package; it
// is the storage collaborator the surrounding application hands results to.
package history

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/leaflens-ai/go-diagnose/diagnosis"
)

// Record is one stored diagnosis.
type Record struct {
	ID     string
	Result *diagnosis.Result
}

// Store accepts diagnosis results keyed by identifier and returns them.
// Implementations independently enforce their retention policy.
type Store interface {
	// Put stores a result under id.
	Put(id string, result *diagnosis.Result) error
	// Get returns the stored result, and whether it was found.
	Get(id string) (*diagnosis.Result, bool)
	// Recent returns up to n records, newest first.
	Recent(n int) []Record
	// Len returns the number of stored records.
	Len() int
}

// MemoryStore keeps the most recent N records in memory; when full, the
// oldest record is evicted first. Reads do not refresh a record's position,
// so eviction order stays insertion order.
type MemoryStore struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *diagnosis.Result]
}

// NewMemoryStore creates a store retaining at most capacity records.
func NewMemoryStore(capacity int) (*MemoryStore, error) {
	if capacity <= 0 {
		return nil, errors.Errorf("history: capacity must be positive, got %d", capacity)
	}
	cache, err := lru.New[string, *diagnosis.Result](capacity)
	if err != nil {
		return nil, errors.Wrap(err, "history: creating cache")
	}
	return &MemoryStore{cache: cache}, nil
}

// Put stores a result, evicting the oldest record when the store is full.
func (s *MemoryStore) Put(id string, result *diagnosis.Result) error {
	if id == "" {
		return errors.New("history: empty record id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(id, result)
	return nil
}

// Get returns a stored result without affecting its retention position.
func (s *MemoryStore) Get(id string) (*diagnosis.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Peek(id)
}

// Recent returns up to n records, newest first.
func (s *MemoryStore) Recent(n int) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.cache.Keys() // oldest first
	if n > len(keys) {
		n = len(keys)
	}
	records := make([]Record, 0, n)
	for i := len(keys) - 1; i >= 0 && len(records) < n; i-- {
		if result, ok := s.cache.Peek(keys[i]); ok {
			records = append(records, Record{ID: keys[i], Result: result})
		}
	}
	return records
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

var _ Store = (*MemoryStore)(nil)
