// Package config stores redi-pgconf settings in a YAML file and locates
// the connection string to use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is a read/write key/value configuration store. Keys are
// dot-separated paths such as "database.dsn".
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string)
	Keys() []string
	Save() error
}

// YAMLStore is a Store backed by a YAML document on disk.
type YAMLStore struct {
	mu   sync.RWMutex
	path string
	root map[string]any
}

// Open reads the YAML file at path. A missing file yields an empty store
// that is created on Save.
func Open(path string) (*YAMLStore, error) {
	s := &YAMLStore{path: path, root: map[string]any{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &s.root); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if s.root == nil {
		s.root = map[string]any{}
	}
	return s, nil
}

// Path returns the file backing the store
func (s *YAMLStore) Path() string {
	return s.path
}

// Get returns the scalar at key. Maps and sequences are not returned.
func (s *YAMLStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node := any(s.root)
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		if node, ok = m[part]; !ok {
			return "", false
		}
	}

	switch v := node.(type) {
	case nil:
		return "", false
	case map[string]any, []any:
		return "", false
	case string:
		return v, true
	default:
		return fmt.Sprint(v), true
	}
}

// Set stores value at key, creating intermediate maps. It fails when a
// path segment already holds a scalar.
func (s *YAMLStore) Set(key, value string) error {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("invalid config key %q", key)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.root
	for _, part := range parts[:len(parts)-1] {
		next, exists := m[part]
		if !exists || next == nil {
			child := map[string]any{}
			m[part] = child
			m = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("config key %q: %q is not a section", key, part)
		}
		m = child
	}
	m[parts[len(parts)-1]] = value
	return nil
}

// Delete removes key if present
func (s *YAMLStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.Split(key, ".")
	m := s.root
	for _, part := range parts[:len(parts)-1] {
		child, ok := m[part].(map[string]any)
		if !ok {
			return
		}
		m = child
	}
	delete(m, parts[len(parts)-1])
}

// Keys returns every scalar key in sorted order
func (s *YAMLStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			full := k
			if prefix != "" {
				full = prefix + "." + k
			}
			if child, ok := v.(map[string]any); ok {
				walk(full, child)
				continue
			}
			keys = append(keys, full)
		}
	}
	walk("", s.root)
	sort.Strings(keys)
	return keys
}

// Save writes the store back to disk through a temporary file. The file
// may hold credentials and is written with 0600 permissions.
func (s *YAMLStore) Save() error {
	s.mu.RLock()
	data, err := yaml.Marshal(s.root)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}
