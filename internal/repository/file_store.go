package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

// FileStore persists keys as a single JSON object on disk. Writes go to a
// temporary file that is renamed over the target, so a reader sees either the
// old or the new content.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore ensures the parent directory exists and returns a handle.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store requires a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path exposes the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", appErrors.ErrKeyNotFound
	}
	return v, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, _, err := s.loadForWrite()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *FileStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, reset, err := s.loadForWrite()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok && !reset {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

var errCorrupt = errors.New("undecodable store file")

// loadForWrite treats an undecodable file as empty so the next write
// replaces it. Reads still report the corruption.
func (s *FileStore) loadForWrite() (values map[string]string, reset bool, err error) {
	values, err = s.load()
	if errors.Is(err, errCorrupt) {
		return make(map[string]string), true, nil
	}
	return values, false, err
}

func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	values := make(map[string]string)
	if len(raw) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", s.path, errCorrupt, err)
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	payload, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
