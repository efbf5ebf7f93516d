/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/go-viper/mapstructure/v2"
)

var decodeHook = mapstructure.ComposeDecodeHookFunc(
	mapstructure.DecodeHookFuncType(indexedMapHook),
	mapstructure.DecodeHookFuncType(timestampHook),
	mapstructure.DecodeHookFuncType(storageStringHook),
	mapstructure.DecodeHookFuncType(exactNumberHook),
)

// indexedMapHook turns a sequence back into a mapping when the target is a map. Reads rebuild
// mappings with dense decimal keys as sequences, so a map field keyed "0", "1" and so on arrives
// as a slice with nil holes for the missing keys.
func indexedMapHook(from, to reflect.Type, data any) (any, error) {
	seq, ok := data.([]any)
	if !ok || to.Kind() != reflect.Map {
		return data, nil
	}
	out := make(map[string]any, len(seq))
	for i, v := range seq {
		if v != nil {
			out[strconv.Itoa(i)] = v
		}
	}
	return out, nil
}

// timestampHook restores time.Time and strfmt.DateTime from epoch seconds.
// RFC 3339 strings are accepted for records written by other clients.
func timestampHook(from, to reflect.Type, data any) (any, error) {
	if to != timeType && to != dateTimeType {
		return data, nil
	}

	var t time.Time
	switch v := data.(type) {
	case int64:
		t = time.Unix(v, 0).UTC()
	case float64:
		sec, frac := math.Modf(v)
		t = time.Unix(int64(sec), int64(frac*1e9)).UTC()
	case string:
		dt, err := strfmt.ParseDateTime(v)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", v, err)
		}
		t = time.Time(dt).UTC()
	case time.Time:
		t = v
	case strfmt.DateTime:
		t = time.Time(v)
	default:
		return nil, fmt.Errorf("expected epoch seconds for %s, got %T", to, data)
	}

	if to == dateTimeType {
		return strfmt.DateTime(t), nil
	}
	return t, nil
}

// storageStringHook restores enumerations implementing StorageStringParser.
func storageStringHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || !reflect.PointerTo(to).Implements(parserType) {
		return data, nil
	}
	target := reflect.New(to)
	if err := target.Interface().(StorageStringParser).ParseStorageString(reflect.ValueOf(data).String()); err != nil {
		return nil, err
	}
	return target.Elem().Interface(), nil
}

// exactNumberHook rejects numeric conversions that would lose information.
func exactNumberHook(from, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		probe := reflect.New(to).Elem()
		switch v := data.(type) {
		case int64:
			if probe.OverflowInt(v) {
				return nil, fmt.Errorf("%d overflows %s", v, to)
			}
		case float64:
			if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 || probe.OverflowInt(int64(v)) {
				return nil, fmt.Errorf("%v is not representable as %s", v, to)
			}
			return int64(v), nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		probe := reflect.New(to).Elem()
		switch v := data.(type) {
		case int64:
			if v < 0 || probe.OverflowUint(uint64(v)) {
				return nil, fmt.Errorf("%d is not representable as %s", v, to)
			}
		case float64:
			if v != math.Trunc(v) || v < 0 || v >= math.MaxUint64 || probe.OverflowUint(uint64(v)) {
				return nil, fmt.Errorf("%v is not representable as %s", v, to)
			}
			return uint64(v), nil
		}
	case reflect.Float32:
		if v, ok := data.(float64); ok && !math.IsInf(v, 0) && math.Abs(v) > math.MaxFloat32 {
			return nil, fmt.Errorf("%v overflows %s", v, to)
		}
	}
	return data, nil
}
