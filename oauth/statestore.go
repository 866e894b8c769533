package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultStateTTL bounds how long an issued state remains consumable.
const DefaultStateTTL = 10 * time.Minute

// MemoryStateStore keeps issued states in process memory.
type MemoryStateStore struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	issued map[string]time.Time
}

// NewMemoryStateStore creates a state store with the given TTL. A
// non-positive TTL uses DefaultStateTTL.
func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &MemoryStateStore{
		ttl:    ttl,
		now:    time.Now,
		issued: make(map[string]time.Time),
	}
}

// Issue creates a fresh one-shot state value.
func (s *MemoryStateStore) Issue(_ context.Context) (string, error) {
	state := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[state] = s.now().Add(s.ttl)
	return state, nil
}

// Consume validates and invalidates state.
func (s *MemoryStateStore) Consume(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.issued[state]
	if !ok {
		return ErrInvalidState
	}
	delete(s.issued, state)
	if s.now().After(expiry) {
		return ErrInvalidState
	}
	return nil
}

// FileStateStore persists issued states as files under a base directory so
// multiple processes behind one redirect URI can share them.
type FileStateStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileStateStore creates a file-backed state store rooted at dir.
func NewFileStateStore(dir string, ttl time.Duration) (*FileStateStore, error) {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("oauth: creating state dir: %w", err)
	}
	return &FileStateStore{dir: dir, ttl: ttl, now: time.Now}, nil
}

type stateRecord struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// Issue creates a fresh one-shot state value.
func (s *FileStateStore) Issue(_ context.Context) (string, error) {
	state := uuid.NewString()
	data, err := json.Marshal(stateRecord{ExpiresAt: s.now().Add(s.ttl)})
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(s.path(state), data, 0o600); err != nil {
		return "", fmt.Errorf("oauth: writing state: %w", err)
	}
	return state, nil
}

// Consume validates and invalidates state.
func (s *FileStateStore) Consume(_ context.Context, state string) error {
	if uuid.Validate(state) != nil {
		// Reject anything that is not one of our own ids before it reaches
		// the filesystem.
		return ErrInvalidState
	}

	path := s.path(state)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrInvalidState
	}
	if err != nil {
		return fmt.Errorf("oauth: reading state: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("oauth: consuming state: %w", err)
	}

	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return ErrInvalidState
	}
	if s.now().After(rec.ExpiresAt) {
		return ErrInvalidState
	}
	return nil
}

func (s *FileStateStore) path(state string) string {
	return filepath.Join(s.dir, "state-"+state+".json")
}
