/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec_test

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/suparena/pathstore/codec"
	"github.com/suparena/pathstore/errors"
	"github.com/suparena/pathstore/storagemodels"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusActive
	StatusArchived
)

func (s Status) StorageString() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusArchived:
		return "archived"
	}
	return "unknown"
}

func (s *Status) ParseStorageString(v string) error {
	switch v {
	case "active":
		*s = StatusActive
	case "archived":
		*s = StatusArchived
	case "unknown":
		*s = StatusUnknown
	default:
		return fmt.Errorf("unknown status %q", v)
	}
	return nil
}

type Address struct {
	City string `json:"city"`
	Zip  string `json:"zip,omitempty"`
}

type Profile struct {
	codec.Identity
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Status    Status    `json:"status"`
	Nickname  *string   `json:"nickname,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Address   *Address  `json:"address,omitempty"`
	Level     int8      `json:"level,omitempty"`
	Cache     string    `json:"cache,omitempty"`
	Secret    string    `json:"-"`
}

func (p *Profile) ExcludedFields() []string {
	return []string{"cache"}
}

// ratingSystem mirrors a generated API model with strfmt timestamps.
type ratingSystem struct {
	CreatedAt   *strfmt.DateTime `json:"CreatedAt"`
	Description *string          `json:"Description"`
	Name        *string          `json:"Name"`
	SiteURL     string           `json:"SiteUrl,omitempty"`
	UpdatedAt   strfmt.DateTime  `json:"UpdatedAt"`
}

func strPtr(s string) *string { return &s }

func TestEncodeProfile(t *testing.T) {
	created := time.Unix(1700000000, 0).UTC()
	p := &Profile{Name: "Alice", CreatedAt: created, Status: StatusActive, Cache: "warm", Secret: "pw"}
	p.SetStoreKey("u1")

	rec, err := codec.Encode(p)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	expected := map[string]any{
		"name":      "Alice",
		"createdAt": int64(1700000000),
		"status":    "active",
	}
	if !reflect.DeepEqual(rec, expected) {
		t.Errorf("Expected %v, got %v", expected, rec)
	}
	for _, k := range []string{"key", "Identity", "cache", "Secret", "-"} {
		if _, ok := rec[k]; ok {
			t.Errorf("Record must not contain %q", k)
		}
	}
}

func TestEncodeRejects(t *testing.T) {
	if _, err := codec.Encode("scalar"); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for scalar, got %v", err)
	}
	if _, err := codec.Encode((*Profile)(nil)); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for nil pointer, got %v", err)
	}

	type withChan struct {
		C chan int `json:"c"`
	}
	if _, err := codec.Encode(withChan{C: make(chan int)}); !errors.IsMalformedPayload(err) {
		t.Errorf("Expected malformed payload for chan field, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	created := time.Unix(1700000000, 0).UTC()
	tests := []struct {
		name    string
		profile Profile
	}{
		{"minimal", Profile{Name: "Alice", CreatedAt: created, Status: StatusActive}},
		{"zero time", Profile{Name: "Zed"}},
		{
			"full",
			Profile{
				Name:      "Bob",
				CreatedAt: created,
				Status:    StatusArchived,
				Nickname:  strPtr("bobby"),
				Tags:      []string{"a", "b"},
				Address:   &Address{City: "Oslo", Zip: "0150"},
				Level:     -4,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := tt.profile
			orig.SetStoreKey("k1")

			rec, err := codec.Encode(&orig)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := codec.DecodeWithKey[Profile]("k1", rec)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !reflect.DeepEqual(*got, orig) {
				t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", *got, orig)
			}
			if got.StoreKey() != "k1" {
				t.Errorf("Expected key k1, got %q", got.StoreKey())
			}
		})
	}
}

// Branch embeds Address under a tag; its fields still live at the top level of the record.
type Branch struct {
	Address `json:"address"`
	Name    string `json:"name"`
}

func TestRoundTripEmbedded(t *testing.T) {
	orig := Branch{Address: Address{City: "Oslo", Zip: "0150"}, Name: "north"}
	rec, err := codec.Encode(&orig)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := map[string]any{"city": "Oslo", "zip": "0150", "name": "north"}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("Expected flattened record %v, got %v", want, rec)
	}

	got, err := codec.Decode[Branch](rec)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, orig) {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", got, orig)
	}
}

func TestRoundTripStrfmt(t *testing.T) {
	created := strfmt.DateTime(time.Unix(1600000000, 0).UTC())
	orig := ratingSystem{
		CreatedAt:   &created,
		Description: strPtr("Elo"),
		Name:        strPtr("elo"),
		UpdatedAt:   strfmt.DateTime(time.Unix(1600000100, 0).UTC()),
	}

	rec, err := codec.Encode(orig)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if rec["CreatedAt"] != int64(1600000000) || rec["UpdatedAt"] != int64(1600000100) {
		t.Errorf("Timestamps should encode as epoch seconds: %v", rec)
	}
	if _, ok := rec["SiteUrl"]; ok {
		t.Error("Empty omitempty field should be omitted")
	}

	got, err := codec.Decode[ratingSystem](rec)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, orig) {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", got, orig)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		raw   any
		field string
	}{
		{"missing required", map[string]any{"createdAt": int64(1), "status": "active"}, "name"},
		{"missing nested required", map[string]any{"name": "A", "createdAt": int64(1), "status": "active", "address": map[string]any{"zip": "1"}}, "address.city"},
		{"not a mapping", "just a string", ""},
		{"wrong type", map[string]any{"name": int64(5), "createdAt": int64(1), "status": "active"}, ""},
		{"bad enum", map[string]any{"name": "A", "createdAt": int64(1), "status": "paused"}, ""},
		{"overflow", map[string]any{"name": "A", "createdAt": int64(1), "status": "active", "level": int64(300)}, ""},
		{"fraction", map[string]any{"name": "A", "createdAt": int64(1), "status": "active", "level": 1.5}, ""},
		{"bad timestamp", map[string]any{"name": "A", "createdAt": "yesterday", "status": "active"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode[Profile](tt.raw)
			if !errors.IsDecode(err) {
				t.Fatalf("Expected decode error, got %v", err)
			}
			var de *errors.DecodeError
			if !stderrors.As(err, &de) {
				t.Fatalf("Expected *DecodeError, got %T", err)
			}
			if de.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, de.Field)
			}
			if de.Type != "codec_test.Profile" {
				t.Errorf("Unexpected type name %q", de.Type)
			}
		})
	}
}

func TestDecodeLenient(t *testing.T) {
	raw := map[string]any{
		"name":      "A",
		"createdAt": "2023-11-14T22:13:20Z",
		"status":    "archived",
		"level":     float64(7),
		"unknown":   map[string]any{"x": int64(1)},
	}
	got, err := codec.Decode[Profile](raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.CreatedAt.Unix() != 1700000000 {
		t.Errorf("Expected RFC 3339 timestamp to decode, got %v", got.CreatedAt)
	}
	if got.Status != StatusArchived || got.Level != 7 {
		t.Errorf("Unexpected decode result %+v", got)
	}
}

func TestDecodeNonStruct(t *testing.T) {
	s, err := codec.Decode[string]("hello")
	if err != nil || s != "hello" {
		t.Errorf("Expected hello, got %q, %v", s, err)
	}

	n, err := codec.Decode[int](int64(42))
	if err != nil || n != 42 {
		t.Errorf("Expected 42, got %d, %v", n, err)
	}

	list, err := codec.Decode[[]string]([]any{"a", "b"})
	if err != nil || !reflect.DeepEqual(list, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v, %v", list, err)
	}

	m, err := codec.Decode[map[string]any](map[string]any{"a": int64(1)})
	if err != nil || m["a"] != int64(1) {
		t.Errorf("Expected mapping, got %v, %v", m, err)
	}

	days, err := codec.Decode[map[string]int]([]any{nil, int64(5), int64(6)})
	if err != nil || !reflect.DeepEqual(days, map[string]int{"1": 5, "2": 6}) {
		t.Errorf("Expected indexed mapping, got %v, %v", days, err)
	}

	if err := codec.DecodeInto("x", Profile{}); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for non-pointer target, got %v", err)
	}
}

func TestDecodeChildren(t *testing.T) {
	children := []storagemodels.Child{
		{Key: "k1", Value: map[string]any{"name": "Alice", "createdAt": int64(1), "status": "active"}},
		{Key: "k2", Value: map[string]any{"createdAt": int64(2), "status": "active"}},
		{Key: "k3", Value: map[string]any{"name": "Bob", "createdAt": int64(3), "status": "archived"}},
	}

	items, skipped := codec.DecodeChildren[Profile](children)
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].StoreKey() != "k1" || items[0].Name != "Alice" {
		t.Errorf("Unexpected first item %+v", items[0])
	}
	if items[1].StoreKey() != "k3" || items[1].Name != "Bob" {
		t.Errorf("Unexpected second item %+v", items[1])
	}

	if len(skipped) != 1 {
		t.Fatalf("Expected 1 skipped entry, got %d", len(skipped))
	}
	var de *errors.DecodeError
	if !stderrors.As(skipped[0], &de) || de.Path != "k2" || de.Field != "name" {
		t.Errorf("Unexpected skip error %v", skipped[0])
	}
}

func TestDecodeMap(t *testing.T) {
	node := map[string]any{
		"k1": map[string]any{"name": "Alice", "createdAt": int64(1), "status": "active"},
		"k2": map[string]any{"name": "Bob", "createdAt": int64(2), "status": "active"},
	}
	items, skipped := codec.DecodeMap[Profile](node)
	if len(skipped) != 0 {
		t.Fatalf("Unexpected skips: %v", skipped)
	}
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.StoreKey()
	}
	sort.Strings(keys)
	if !reflect.DeepEqual(keys, []string{"k1", "k2"}) {
		t.Errorf("Expected keys k1 and k2, got %v", keys)
	}
}

func TestIdentityHelpers(t *testing.T) {
	if !codec.Identifies[Profile]() {
		t.Error("Profile embeds Identity")
	}
	if codec.Identifies[Address]() {
		t.Error("Address carries no key")
	}

	p := &Profile{}
	if !codec.SetKey(p, "x") {
		t.Error("SetKey should succeed for an Identifiable")
	}
	if key, ok := codec.KeyOf(p); !ok || key != "x" {
		t.Errorf("Expected key x, got %q", key)
	}
	if codec.SetKey(&Address{}, "x") {
		t.Error("SetKey should report false for a plain struct")
	}
}
