package oauth

import (
	"context"
	"sync"
)

// MemoryInstallationStore keeps installations in process memory. Suitable for
// tests and single-process apps that can re-install after a restart.
type MemoryInstallationStore struct {
	mu            sync.RWMutex
	installations map[string]*Installation
	latest        map[string]*Installation
	bots          map[string]*Bot
}

// NewMemoryInstallationStore creates an empty in-memory installation store.
func NewMemoryInstallationStore() *MemoryInstallationStore {
	return &MemoryInstallationStore{
		installations: make(map[string]*Installation),
		latest:        make(map[string]*Installation),
		bots:          make(map[string]*Bot),
	}
}

// SaveInstallation stores inst and refreshes the workspace's bot record.
func (s *MemoryInstallationStore) SaveInstallation(_ context.Context, inst *Installation) error {
	q := queryFor(inst)
	cp := *inst

	s.mu.Lock()
	defer s.mu.Unlock()
	s.installations[q.userKey()] = &cp
	s.latest[q.workspaceKey()] = &cp
	s.bots[q.workspaceKey()] = cp.ToBot()
	return nil
}

// FindInstallation returns the grant matching q, falling back to the
// workspace's latest installation when no user id is given.
func (s *MemoryInstallationStore) FindInstallation(_ context.Context, q Query) (*Installation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var inst *Installation
	if q.UserID != "" {
		inst = s.installations[q.userKey()]
	} else {
		inst = s.latest[q.workspaceKey()]
	}
	if inst == nil {
		return nil, ErrInstallationNotFound
	}
	cp := *inst
	return &cp, nil
}

// FindBot returns the workspace's bot grant.
func (s *MemoryInstallationStore) FindBot(_ context.Context, q Query) (*Bot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bot := s.bots[q.workspaceKey()]
	if bot == nil {
		return nil, ErrBotNotFound
	}
	cp := *bot
	return &cp, nil
}

// DeleteInstallation removes the grant matching q.
func (s *MemoryInstallationStore) DeleteInstallation(_ context.Context, q Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.installations, q.userKey())
	return nil
}

// DeleteBot removes the workspace's bot record.
func (s *MemoryInstallationStore) DeleteBot(_ context.Context, q Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bots, q.workspaceKey())
	delete(s.latest, q.workspaceKey())
	return nil
}
