/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/suparena/pathstore/errors"
)

// Normalize converts a JSON-compatible Go value into the canonical value tree used by every
// backend: nil, bool, int64, float64, string, map[string]any and []any.
//
// Typed maps with string keys, slices, arrays, pointers, sized numbers and json.Number are
// converted. json.RawMessage is parsed as JSON text. Empty mappings and sequences collapse to nil
// because an empty node is an absent node, and nil mapping entries are dropped. Map keys must be
// non-empty and must not contain the path separator.
func Normalize(v any) (any, error) {
	switch tv := v.(type) {
	case nil:
		return nil, nil
	case bool, string, int64:
		return tv, nil
	case float64:
		if math.IsNaN(tv) || math.IsInf(tv, 0) {
			return nil, errors.NewMalformedPayloadError("", fmt.Errorf("non-finite number %v", tv))
		}
		return tv, nil
	case int:
		return int64(tv), nil
	case json.Number:
		if i, err := tv.Int64(); err == nil {
			return i, nil
		}
		f, err := tv.Float64()
		if err != nil {
			return nil, errors.NewMalformedPayloadError("", err)
		}
		return Normalize(f)
	case json.RawMessage:
		return ParseJSON(tv)
	case map[string]any:
		return normalizeMap(len(tv), func(yield func(string, any) error) error {
			for k, val := range tv {
				if err := yield(k, val); err != nil {
					return err
				}
			}
			return nil
		})
	case []any:
		return normalizeSlice(len(tv), func(i int) any { return tv[i] })
	}
	return normalizeReflect(reflect.ValueOf(v))
}

func normalizeReflect(rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u), nil
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return Normalize(rv.Float())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, errors.NewMalformedPayloadError("", fmt.Errorf("unsupported map key type %s", rv.Type().Key()))
		}
		return normalizeMap(rv.Len(), func(yield func(string, any) error) error {
			iter := rv.MapRange()
			for iter.Next() {
				if err := yield(iter.Key().String(), iter.Value().Interface()); err != nil {
					return err
				}
			}
			return nil
		})
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		return normalizeSlice(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	}
	return nil, errors.NewMalformedPayloadError("", fmt.Errorf("unsupported value of kind %s", rv.Kind()))
}

func normalizeMap(size int, each func(yield func(string, any) error) error) (any, error) {
	out := make(map[string]any, size)
	err := each(func(k string, val any) error {
		if err := ValidateKey(k); err != nil {
			return err
		}
		nv, err := Normalize(val)
		if err != nil {
			return err
		}
		if nv != nil {
			out[k] = nv
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func normalizeSlice(size int, at func(int) any) (any, error) {
	if size == 0 {
		return nil, nil
	}
	out := make([]any, size)
	present := 0
	for i := 0; i < size; i++ {
		nv, err := Normalize(at(i))
		if err != nil {
			return nil, err
		}
		if nv != nil {
			present++
		}
		out[i] = nv
	}
	if present == 0 {
		return nil, nil
	}
	return out, nil
}

// NormalizeMerge normalizes the payload of a merge write. v must be a mapping; entries whose
// value normalizes to nil are kept as nil and mean "remove this child".
func NormalizeMerge(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, errors.NewValidationError("value", fmt.Sprintf("merge needs a mapping, got %T", v))
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		if err := ValidateKey(k); err != nil {
			return nil, err
		}
		nv, err := Normalize(iter.Value().Interface())
		if err != nil {
			return nil, err
		}
		out[k] = nv
	}
	return out, nil
}

// ValidateKey checks that key can be used as a single path segment.
func ValidateKey(key string) error {
	if key == "" {
		return errors.NewValidationError("key", "must not be empty")
	}
	if strings.Contains(key, Separator) {
		return errors.NewValidationError("key", fmt.Sprintf("%q must not contain %q", key, Separator))
	}
	return nil
}

// ParseJSON parses JSON text into the canonical value tree.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.NewMalformedPayloadError("", err)
	}
	if dec.More() {
		return nil, errors.NewMalformedPayloadError("", fmt.Errorf("trailing data after JSON value"))
	}
	return Normalize(raw)
}

// ChildValue returns the value stored under key inside node, or nil when node is not a mapping
// or sequence or has no such entry.
func ChildValue(node any, key string) any {
	switch tv := node.(type) {
	case map[string]any:
		return tv[key]
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(tv) || strconv.Itoa(i) != key {
			return nil
		}
		return tv[i]
	}
	return nil
}

// Children lists the entries of a mapping or sequence node. Scalars and nil have no children.
// Sequence entries are keyed by their decimal index; nil holes are skipped.
func Children(node any) []Child {
	switch tv := node.(type) {
	case map[string]any:
		out := make([]Child, 0, len(tv))
		for k, v := range tv {
			out = append(out, Child{Key: k, Value: v})
		}
		return out
	case []any:
		out := make([]Child, 0, len(tv))
		for i, v := range tv {
			if v != nil {
				out = append(out, Child{Key: strconv.Itoa(i), Value: v})
			}
		}
		return out
	}
	return nil
}

// Clone returns a deep copy of a canonical value tree.
func Clone(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, val := range tv {
			out[k] = Clone(val)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, val := range tv {
			out[i] = Clone(val)
		}
		return out
	}
	return v
}
