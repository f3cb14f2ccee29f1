// Package file stores session saves as JSON documents in a local directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/cory-johannsen/donut/internal/game/session"
)

// SaveStore implements session.Store with one file per session.
type SaveStore struct {
	dir string
}

var _ session.Store = (*SaveStore)(nil)

// NewSaveStore creates the directory if needed and returns a SaveStore.
//
// Postcondition: Returns a usable store or an error if dir cannot be created.
func NewSaveStore(dir string) (*SaveStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save directory: %w", err)
	}
	return &SaveStore{dir: dir}, nil
}

// path maps an ID to its file. Only UUIDs are accepted so an ID can never
// escape the save directory.
func (s *SaveStore) path(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", session.ErrNotFound
	}
	return filepath.Join(s.dir, u.String()+".json"), nil
}

// Get implements session.Store.
func (s *SaveStore) Get(_ context.Context, id string) (*session.Session, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("reading save %q: %w", id, err)
	}
	sess, err := session.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding save %q: %w", id, err)
	}
	return sess, nil
}

// Put implements session.Store. The file is replaced atomically.
func (s *SaveStore) Put(_ context.Context, sess *session.Session) error {
	p, err := s.path(sess.ID)
	if err != nil {
		return fmt.Errorf("save id %q is not a UUID", sess.ID)
	}
	data, err := session.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding save %q: %w", sess.ID, err)
	}
	tmp, err := os.CreateTemp(s.dir, ".save-*")
	if err != nil {
		return fmt.Errorf("writing save %q: %w", sess.ID, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing save %q: %w", sess.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing save %q: %w", sess.ID, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("writing save %q: %w", sess.ID, err)
	}
	return nil
}

// Delete implements session.Store.
func (s *SaveStore) Delete(_ context.Context, id string) error {
	p, err := s.path(id)
	if err != nil {
		return nil
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting save %q: %w", id, err)
	}
	return nil
}
