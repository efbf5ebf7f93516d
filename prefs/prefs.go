/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package prefs provides small string preference stores kept outside the tree.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is a string key/value preference store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Memory is a Store held in memory.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// File is a Store persisted as a flat YAML mapping. Every Set rewrites the file.
type File struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

// OpenFile loads the preferences stored at path. A missing file is an empty store; it is
// created on the first Set.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", path, err)
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	return f, nil
}

// Path returns the file the store persists to.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.values[key]
	f.values[key] = value
	if err := f.save(); err != nil {
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

// save writes to a temporary file in the same directory and renames it over the target.
func (f *File) save() error {
	data, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*")
	if err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
