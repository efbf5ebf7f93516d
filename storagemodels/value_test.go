/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/suparena/pathstore/errors"
)

type sampleStatus string

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{"nil", nil, nil},
		{"int", 42, int64(42)},
		{"int8", int8(-3), int64(-3)},
		{"uint32", uint32(7), int64(7)},
		{"float32", float32(1.5), 1.5},
		{"named string", sampleStatus("active"), "active"},
		{"json number int", json.Number("12"), int64(12)},
		{"json number float", json.Number("1.25"), 1.25},
		{"pointer", func() any { s := "x"; return &s }(), "x"},
		{"nil pointer", (*string)(nil), nil},
		{"typed map", map[string]int{"a": 1}, map[string]any{"a": int64(1)}},
		{"typed slice", []string{"a", "b"}, []any{"a", "b"}},
		{"empty map collapses", map[string]any{}, nil},
		{"empty slice collapses", []int{}, nil},
		{"nil entries dropped", map[string]any{"a": nil, "b": true}, map[string]any{"b": true}},
		{"all-nil map collapses", map[string]any{"a": nil}, nil},
		{"raw json", json.RawMessage(`{"n":1}`), map[string]any{"n": int64(1)}},
		{
			"nested",
			map[string]any{"tags": []any{"x", map[string]any{}}, "meta": map[string]any{"k": uint8(2)}},
			map[string]any{"tags": []any{"x", nil}, "meta": map[string]any{"k": int64(2)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %#v, got %#v", tt.expected, got)
			}
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		for _, v := range []any{math.NaN(), math.Inf(1), make(chan int), func() {}, map[int]string{1: "a"}} {
			_, err := Normalize(v)
			if !errors.IsMalformedPayload(err) {
				t.Errorf("Expected malformed payload for %T, got %v", v, err)
			}
		}
	})

	t.Run("invalid keys", func(t *testing.T) {
		for _, v := range []any{map[string]any{"": 1}, map[string]any{"a/b": 1}} {
			_, err := Normalize(v)
			if !errors.IsValidationError(err) {
				t.Errorf("Expected validation error for %v, got %v", v, err)
			}
		}
	})
}

func TestNormalizeMerge(t *testing.T) {
	got, err := NormalizeMerge(map[string]any{"name": "Bob", "nickname": nil})
	if err != nil {
		t.Fatalf("NormalizeMerge failed: %v", err)
	}
	expected := map[string]any{"name": "Bob", "nickname": nil}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	if _, err := NormalizeMerge("scalar"); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for scalar merge, got %v", err)
	}
	if _, err := NormalizeMerge(map[string]any{"a/b": 1}); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for bad key, got %v", err)
	}
}

func TestParseJSON(t *testing.T) {
	v, err := ParseJSON([]byte(`{"id": 9007199254740993, "ratio": 0.5, "ok": true, "list": [1, "two"]}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	expected := map[string]any{
		"id":    int64(9007199254740993),
		"ratio": 0.5,
		"ok":    true,
		"list":  []any{int64(1), "two"},
	}
	if !reflect.DeepEqual(v, expected) {
		t.Errorf("Expected %v, got %v", expected, v)
	}

	for _, bad := range []string{`{"a":`, `{} {}`, `not json`, ``} {
		if _, err := ParseJSON([]byte(bad)); !errors.IsMalformedPayload(err) {
			t.Errorf("Expected malformed payload for %q, got %v", bad, err)
		}
	}
}

func TestChildValue(t *testing.T) {
	node := map[string]any{"a": int64(1), "list": []any{"x", "y"}}
	if ChildValue(node, "a") != int64(1) {
		t.Error("Expected mapping entry")
	}
	if ChildValue(node["list"], "1") != "y" {
		t.Error("Expected sequence entry")
	}
	for _, key := range []string{"01", "-1", "5", "x"} {
		if ChildValue(node["list"], key) != nil {
			t.Errorf("Expected nil for sequence key %q", key)
		}
	}
	if ChildValue("scalar", "a") != nil {
		t.Error("Scalars have no children")
	}
}

func TestClone(t *testing.T) {
	orig := map[string]any{"a": map[string]any{"b": int64(1)}, "c": []any{"d"}}
	cp := Clone(orig).(map[string]any)
	cp["a"].(map[string]any)["b"] = int64(2)
	cp["c"].([]any)[0] = "e"
	if orig["a"].(map[string]any)["b"] != int64(1) || orig["c"].([]any)[0] != "d" {
		t.Error("Clone must not share nested storage")
	}
}
