// Package seen is a small file-backed idempotency store. It keeps the keys
// of events already delivered so restarts do not re-post them.
package seen

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const defaultKeepLast = 5000

type Store struct {
	path     string
	keepLast int

	mu    sync.Mutex
	keys  map[string]struct{}
	order []string
}

// NewStore loads the store from path. A missing or corrupt file starts an
// empty store rather than failing.
func NewStore(path string) *Store {
	s := &Store{
		path:     path,
		keepLast: defaultKeepLast,
		keys:     make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return s
	}

	for _, key := range keys {
		if _, ok := s.keys[key]; ok {
			continue
		}
		s.keys[key] = struct{}{}
		s.order = append(s.order, key)
	}
	return s
}

// Seen reports whether key was already recorded.
func (s *Store) Seen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

// Add records key, trimming the oldest entries past the retention bound.
func (s *Store) Add(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[key]; ok {
		return
	}
	s.keys[key] = struct{}{}
	s.order = append(s.order, key)

	if len(s.order) > s.keepLast {
		drop := s.order[:len(s.order)-s.keepLast]
		for _, old := range drop {
			delete(s.keys, old)
		}
		s.order = append([]string(nil), s.order[len(s.order)-s.keepLast:]...)
	}
}

// Flush persists the store to its file.
func (s *Store) Flush() error {
	s.mu.Lock()
	keys := append([]string(nil), s.order...)
	s.mu.Unlock()

	data, err := json.Marshal(keys)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}
