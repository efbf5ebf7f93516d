/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/go-viper/mapstructure/v2"
	"github.com/suparena/pathstore/errors"
	"github.com/suparena/pathstore/storagemodels"
)

// Encode converts a struct, or a pointer to one, into a stored record.
//
// Record field names come from json tags. The embedded Identity, fields tagged "-", unexported
// fields and the names returned by ExcludedFields are left out, as are nil pointers and, for
// omitempty fields, zero values. Timestamps become epoch seconds and StorageStringer values become
// their string. Embedded structs are flattened into the parent record whether or not they carry a
// tag.
func Encode(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, errors.NewValidationError("value", "cannot encode a nil object")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || rv.Type() == timeType || rv.Type() == dateTimeType {
		return nil, errors.NewValidationError("value", fmt.Sprintf("cannot encode %T as a record", v))
	}
	return encodeStruct(rv)
}

func encodeStruct(rv reflect.Value) (map[string]any, error) {
	info := infoFor(rv.Type())
	out := make(map[string]any, len(info.fields))
	for _, f := range info.fields {
		fv := rv.FieldByIndex(f.index)
		if f.omitEmpty && fv.IsZero() {
			continue
		}
		val, err := encodeValue(fv)
		if err != nil {
			return nil, fmt.Errorf("encoding %s.%s: %w", info.name, f.name, err)
		}
		if val != nil {
			out[f.name] = val
		}
	}
	return out, nil
}

func encodeValue(rv reflect.Value) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}
	t := rv.Type()

	if t.Implements(stringerType) {
		if (t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface) && rv.IsNil() {
			return nil, nil
		}
		return rv.Interface().(StorageStringer).StorageString(), nil
	}
	if reflect.PointerTo(t).Implements(stringerType) {
		p := reflect.New(t)
		p.Elem().Set(rv)
		return p.Interface().(StorageStringer).StorageString(), nil
	}

	switch t {
	case timeType:
		return rv.Interface().(time.Time).Unix(), nil
	case dateTimeType:
		return time.Time(rv.Interface().(strfmt.DateTime)).Unix(), nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return encodeValue(rv.Elem())
	case reflect.Struct:
		rec, err := encodeStruct(rv)
		if err != nil || len(rec) == 0 {
			return nil, err
		}
		return rec, nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		seq := make([]any, rv.Len())
		for i := range seq {
			val, err := encodeValue(rv.Index(i))
			if err != nil {
				return nil, err
			}
			seq[i] = val
		}
		return storagemodels.Normalize(seq)
	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		if t.Key().Kind() != reflect.String {
			return storagemodels.Normalize(rv.Interface())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			val, err := encodeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			m[iter.Key().String()] = val
		}
		return storagemodels.Normalize(m)
	}
	return storagemodels.Normalize(rv.Interface())
}

// Decode converts a canonical raw value into a T. Struct targets need a mapping that holds every
// required field; unknown record fields are ignored.
func Decode[T any](raw any) (T, error) {
	var out T
	err := DecodeInto(raw, &out)
	return out, err
}

// DecodeInto decodes raw into the value target points to.
func DecodeInto(raw any, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.NewValidationError("target", fmt.Sprintf("must be a non-nil pointer, got %T", target))
	}
	elem := rv.Elem().Type()
	typeName := elem.String()

	if elem.Kind() == reflect.Struct && elem != timeType && elem != dateTimeType {
		m, ok := raw.(map[string]any)
		if !ok {
			return errors.NewDecodeError("", typeName, "", fmt.Errorf("expected a mapping, got %T", raw))
		}
		if field, ok := missingRequired(infoFor(elem), m, ""); !ok {
			return errors.NewDecodeError("", typeName, field, fmt.Errorf("required field is missing"))
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Squash:     true,
		DecodeHook: decodeHook,
		Result:     target,
	})
	if err != nil {
		return errors.NewDecodeError("", typeName, "", err)
	}
	if err := dec.Decode(raw); err != nil {
		return errors.NewDecodeError("", typeName, "", err)
	}
	return nil
}

// missingRequired walks nested records and returns the dotted name of the first required field
// that m lacks.
func missingRequired(info *typeInfo, m map[string]any, prefix string) (string, bool) {
	for _, f := range info.fields {
		v, present := m[f.name]
		if !present || v == nil {
			if f.required {
				return prefix + f.name, false
			}
			continue
		}
		ft := f.typ
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		nested, isMap := v.(map[string]any)
		if ft.Kind() == reflect.Struct && ft != timeType && ft != dateTimeType && isMap {
			if field, ok := missingRequired(infoFor(ft), nested, prefix+f.name+"."); !ok {
				return field, false
			}
		}
	}
	return "", true
}

// DecodeWithKey decodes raw into a new T and, when *T is Identifiable, sets its store key.
func DecodeWithKey[T any](key string, raw any) (*T, error) {
	out := new(T)
	if err := DecodeInto(raw, out); err != nil {
		return nil, err
	}
	SetKey(any(out), key)
	return out, nil
}

// DecodeChildren decodes every child independently and injects its key. Children that fail to
// decode are left out of items and reported in skipped, located at their key.
func DecodeChildren[T any](children []storagemodels.Child) (items []*T, skipped []error) {
	items = make([]*T, 0, len(children))
	for _, c := range children {
		item, err := DecodeWithKey[T](c.Key, c.Value)
		if err != nil {
			skipped = append(skipped, errors.AtPath(err, c.Key))
			continue
		}
		items = append(items, item)
	}
	return items, skipped
}

// DecodeMap decodes the entries of a mapping node. Iteration order is unspecified.
func DecodeMap[T any](node map[string]any) (items []*T, skipped []error) {
	children := make([]storagemodels.Child, 0, len(node))
	for k, v := range node {
		children = append(children, storagemodels.Child{Key: k, Value: v})
	}
	return DecodeChildren[T](children)
}

// Identifies reports whether values of type T carry a store key.
func Identifies[T any]() bool {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	if t.Kind() == reflect.Struct {
		return infoFor(t).identity
	}
	return reflect.PointerTo(t).Implements(identifiableType)
}
