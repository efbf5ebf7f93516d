/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStores(t *testing.T) {
	file, err := OpenFile(filepath.Join(t.TempDir(), "nested", "prefs.yaml"))
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}

	stores := map[string]Store{
		"memory": NewMemory(),
		"file":   file,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			if _, ok := store.Get("missing"); ok {
				t.Error("Expected missing key")
			}
			if err := store.Set("theme", "dark"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			store.Set("theme", "light")
			if v, ok := store.Get("theme"); !ok || v != "light" {
				t.Errorf("Expected light, got %q, %v", v, ok)
			}
			store.Set("empty", "")
			if v, ok := store.Get("empty"); !ok || v != "" {
				t.Errorf("Empty values are stored, got %q, %v", v, ok)
			}
		})
	}
}

func TestFilePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	first, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	first.Set("UserIntegrationKey", "abc123")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "UserIntegrationKey: abc123") {
		t.Errorf("Unexpected file content:\n%s", data)
	}

	second, err := OpenFile(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	if v, _ := second.Get("UserIntegrationKey"); v != "abc123" {
		t.Errorf("Expected persisted value, got %q", v)
	}
}

func TestFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	os.WriteFile(path, []byte("- just\n- a list\n"), 0o644)
	if _, err := OpenFile(path); err == nil {
		t.Error("Expected parse error")
	}
}
