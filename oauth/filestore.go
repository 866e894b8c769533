package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileInstallationStore persists installations as JSON files under a base
// directory: one file per installing user plus per-workspace latest and bot
// files.
type FileInstallationStore struct {
	dir string
}

// NewFileInstallationStore creates a file-backed installation store rooted
// at dir.
func NewFileInstallationStore(dir string) (*FileInstallationStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("oauth: creating installation dir: %w", err)
	}
	return &FileInstallationStore{dir: dir}, nil
}

// SaveInstallation writes the user grant, the workspace's latest grant and
// the bot projection.
func (s *FileInstallationStore) SaveInstallation(_ context.Context, inst *Installation) error {
	q := queryFor(inst)
	if err := s.write(s.installerPath(q), inst); err != nil {
		return err
	}
	if err := s.write(s.latestPath(q), inst); err != nil {
		return err
	}
	return s.write(s.botPath(q), inst.ToBot())
}

// FindInstallation returns the grant matching q, falling back to the
// workspace's latest installation when no user id is given.
func (s *FileInstallationStore) FindInstallation(_ context.Context, q Query) (*Installation, error) {
	path := s.latestPath(q)
	if q.UserID != "" {
		path = s.installerPath(q)
	}

	inst := &Installation{}
	if err := s.read(path, inst, ErrInstallationNotFound); err != nil {
		return nil, err
	}
	return inst, nil
}

// FindBot returns the workspace's bot grant.
func (s *FileInstallationStore) FindBot(_ context.Context, q Query) (*Bot, error) {
	bot := &Bot{}
	if err := s.read(s.botPath(q), bot, ErrBotNotFound); err != nil {
		return nil, err
	}
	return bot, nil
}

// DeleteInstallation removes the grant matching q.
func (s *FileInstallationStore) DeleteInstallation(_ context.Context, q Query) error {
	return s.remove(s.installerPath(q))
}

// DeleteBot removes the workspace's bot record.
func (s *FileInstallationStore) DeleteBot(_ context.Context, q Query) error {
	if err := s.remove(s.botPath(q)); err != nil {
		return err
	}
	return s.remove(s.latestPath(q))
}

func (s *FileInstallationStore) write(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("oauth: encoding installation: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("oauth: writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *FileInstallationStore) read(path string, v any, notFound error) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("oauth: reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("oauth: decoding %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *FileInstallationStore) remove(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("oauth: removing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *FileInstallationStore) installerPath(q Query) string {
	return filepath.Join(s.dir, "installer-"+q.userKey()+".json")
}

func (s *FileInstallationStore) latestPath(q Query) string {
	return filepath.Join(s.dir, "installer-"+q.workspaceKey()+"-latest.json")
}

func (s *FileInstallationStore) botPath(q Query) string {
	return filepath.Join(s.dir, "bot-"+q.workspaceKey()+".json")
}
