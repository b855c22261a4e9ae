package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSStore persists artifacts as plain files under a root directory, one
// subdirectory per session:
//
//	<root>/<sessionID>/<artifactID>
//
// Artifacts survive process restarts and can be inspected with ordinary file
// tools, which pairs well with a file-backed event ledger. Session and
// artifact ids are used as path components and must not contain separators.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if necessary and returns the store.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root: %w", err)
	}
	return &FSStore{root: root}, nil
}

func (a *FSStore) path(sessionID, artifactID string) (string, error) {
	for _, part := range []string{sessionID, artifactID} {
		if part == "" || strings.ContainsAny(part, `/\`) || part == "." || part == ".." {
			return "", fmt.Errorf("invalid artifact path component %q", part)
		}
	}
	return filepath.Join(a.root, sessionID, artifactID), nil
}

// Save writes the artifact bytes, creating the session directory on demand.
func (a *FSStore) Save(sessionID, artifactID string, data []byte) error {
	p, err := a.path(sessionID, artifactID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(p, data, 0o644)
}

// Get reads the artifact bytes or returns ErrNotFound.
func (a *FSStore) Get(sessionID, artifactID string) ([]byte, error) {
	p, err := a.path(sessionID, artifactID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// List returns the artifact ids stored for the session.
func (a *FSStore) List(sessionID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(a.root, sessionID))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// Delete removes the artifact file or returns ErrNotFound.
func (a *FSStore) Delete(sessionID, artifactID string) error {
	p, err := a.path(sessionID, artifactID)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
