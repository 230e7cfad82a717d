package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/core/ports"
)

// FileStore keeps the profile document in a single JSON file. Saves go to a
// sibling temp file that replaces the target, so readers never see half a file.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

var _ ports.ProfileStore = (*FileStore)(nil)

// NewFileStore returns a store for path. The directory is created on the first save.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With("component", "file_store", "path", path),
	}
}

// Load reads the document. A missing file is an empty document; an unreadable one
// is an error so a later save cannot overwrite it.
func (s *FileStore) Load(_ context.Context) (map[kernel.UserID]profile.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[kernel.UserID]profile.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	if len(data) == 0 {
		return map[kernel.UserID]profile.Snapshot{}, nil
	}

	profiles, skipped, err := DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	for key, cause := range skipped {
		s.logger.Warn("skipping profile entry", "key", key, "error", cause)
	}
	return profiles, nil
}

// Save replaces the file with the given document.
func (s *FileStore) Save(ctx context.Context, profiles map[kernel.UserID]profile.Snapshot) error {
	data, err := EncodeDocument(profiles)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := writeSynced(tmp, data); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace profiles: %w", err)
	}
	return nil
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	return f.Close()
}
