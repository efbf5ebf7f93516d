/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suparena/pathstore/errors"
)

type cli struct {
	t    *testing.T
	base []string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	return &cli{t: t, base: []string{"--backend", "bolt", "--bolt-file", filepath.Join(dir, "test.db")}}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	err := execute(append(args, c.base...), &out, &errOut)
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("pathstore %v failed: %v", args, err)
	}
	return out
}

func TestSetGetUpdateDelete(t *testing.T) {
	c := newCLI(t)

	c.mustRun("set", "users/u1", `{"name":"Alice","tags":["a","b"]}`)
	out := c.mustRun("get", "/users//u1")
	if !strings.Contains(out, `"name": "Alice"`) || !strings.Contains(out, `"a"`) {
		t.Errorf("Unexpected get output:\n%s", out)
	}

	c.mustRun("update", "users/u1", `{"name":null,"age":31}`)
	out = c.mustRun("get", "users/u1")
	if strings.Contains(out, "Alice") || !strings.Contains(out, `"age": 31`) {
		t.Errorf("Unexpected output after update:\n%s", out)
	}

	if _, err := c.run("update", "users/u1", `[1,2]`); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if _, err := c.run("set", "users/u1", `{bad json`); err == nil {
		t.Error("Expected JSON error")
	}

	c.mustRun("delete", "users/u1")
	if _, err := c.run("get", "users/u1"); !errors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestPushAndList(t *testing.T) {
	c := newCLI(t)

	var keys []string
	for _, hour := range []string{"7", "12", "9"} {
		key := strings.TrimSpace(c.mustRun("push", "alarms", `{"hour":`+hour+`}`))
		if key == "" {
			t.Fatal("Expected a key")
		}
		keys = append(keys, key)
	}

	out := c.mustRun("list", "alarms")
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 3 || !strings.HasPrefix(lines[0], keys[0]+"\t") {
		t.Errorf("Expected children in key order, got:\n%s", out)
	}

	out = c.mustRun("list", "alarms", "--order-by", "hour", "--desc", "--limit", "2")
	expected := keys[1] + "\t{\"hour\":12}\n" + keys[2] + "\t{\"hour\":9}\n"
	if out != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, out)
	}

	out = c.mustRun("list", "alarms", "--order-by", "hour", "--start", "8", "--end", "10")
	if !strings.HasPrefix(out, keys[2]+"\t") || strings.Count(out, "\n") != 1 {
		t.Errorf("Unexpected range output:\n%s", out)
	}

	if out := c.mustRun("list", "alarms", "--limit", "0"); out != "" {
		t.Errorf("Limit 0 should print nothing, got:\n%s", out)
	}
	if _, err := c.run("list", "alarms", "--start", "5"); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for a numeric key bound, got %v", err)
	}
}

func TestKeyAndVars(t *testing.T) {
	c := newCLI(t)

	uuid := strings.TrimSpace(c.mustRun("key", "alarms", "--keygen", "uuid"))
	if len(uuid) != 36 {
		t.Errorf("Expected a UUID, got %q", uuid)
	}
	if _, err := c.run("key", "alarms", "--keygen", "serial"); err == nil {
		t.Error("Expected unknown generator error")
	}

	c.mustRun("set", "private/users/{uid}/settings", `{"theme":"dark"}`, "--var", "uid=u7")
	out := c.mustRun("get", "private/users/u7/settings/theme")
	if strings.TrimSpace(out) != `"dark"` {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestIntegrationKeyCommands(t *testing.T) {
	c := newCLI(t)
	prefsFile := filepath.Join(t.TempDir(), "prefs.yaml")

	key := strings.TrimSpace(c.mustRun("integration-key", "register", "u1", "--prefs-file", prefsFile))
	if key == "" {
		t.Fatal("Expected a key")
	}

	out := c.mustRun("get", "@user-integration-key", "--var", "uid=u1")
	if strings.TrimSpace(out) != `"`+key+`"` {
		t.Errorf("Expected the key under the user, got %q", out)
	}

	shown := strings.TrimSpace(c.mustRun("integration-key", "show", "--uid", "u1"))
	if shown != key {
		t.Errorf("Expected %q from the store, got %q", key, shown)
	}

	if _, err := c.run("integration-key", "show"); !errors.IsIdentityMissing(err) {
		t.Errorf("Expected identity missing, got %v", err)
	}
}

func TestMetricsAndVersion(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("set", "a", `"b"`, "--metrics")
	if !strings.Contains(out, `pathstore_ops_total{op="write",backend="bolt"} 1`) {
		t.Errorf("Expected metrics output, got:\n%s", out)
	}

	var buf bytes.Buffer
	if err := execute([]string{"version"}, &buf, &buf); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "pathstore v") {
		t.Errorf("Unexpected version output %q", buf.String())
	}

	if err := execute([]string{"get", "a", "--backend", "redis"}, &buf, &buf); err == nil {
		t.Error("Expected unknown backend error")
	}
}

func TestBackendRegistry(t *testing.T) {
	if err := backends.register("mem", nil); err == nil {
		t.Error("Duplicate registration should fail")
	}
	names := backends.names()
	if strings.Join(names, ",") != "bolt,ddb,mem" {
		t.Errorf("Unexpected backends %v", names)
	}
}
