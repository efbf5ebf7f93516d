/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/puzpuzpuz/xsync/v3"
)

var (
	identityType     = reflect.TypeOf(Identity{})
	timeType         = reflect.TypeOf(time.Time{})
	dateTimeType     = reflect.TypeOf(strfmt.DateTime{})
	identifiableType = reflect.TypeOf((*Identifiable)(nil)).Elem()
	excluderType     = reflect.TypeOf((*Excluder)(nil)).Elem()
	stringerType     = reflect.TypeOf((*StorageStringer)(nil)).Elem()
	parserType       = reflect.TypeOf((*StorageStringParser)(nil)).Elem()
)

// fieldInfo describes one stored field of a struct type.
type fieldInfo struct {
	name      string
	index     []int
	typ       reflect.Type
	omitEmpty bool
	required  bool
}

// typeInfo is the reflected layout of a struct type, computed once per type.
type typeInfo struct {
	name     string
	fields   []fieldInfo
	identity bool
}

var typeCache = xsync.NewMapOf[reflect.Type, *typeInfo]()

func infoFor(t reflect.Type) *typeInfo {
	info, _ := typeCache.LoadOrCompute(t, func() *typeInfo {
		return buildTypeInfo(t)
	})
	return info
}

func buildTypeInfo(t reflect.Type) *typeInfo {
	info := &typeInfo{
		name:     t.String(),
		identity: reflect.PointerTo(t).Implements(identifiableType),
	}

	excluded := map[string]bool{}
	if reflect.PointerTo(t).Implements(excluderType) {
		for _, name := range reflect.New(t).Interface().(Excluder).ExcludedFields() {
			excluded[name] = true
		}
	}

	seen := map[string]bool{}
	var walk func(t reflect.Type, index []int)
	walk = func(t reflect.Type, index []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Type == identityType {
				continue
			}
			tag := sf.Tag.Get("json")
			if tag == "-" {
				continue
			}
			name, opts, _ := strings.Cut(tag, ",")
			idx := append(append([]int(nil), index...), i)

			// embedded structs contribute their fields to the parent record, tagged or not,
			// matching how decoding squashes them
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				walk(sf.Type, idx)
				continue
			}
			if !sf.IsExported() {
				continue
			}
			if name == "" {
				name = sf.Name
			}
			if excluded[name] || seen[name] {
				continue
			}
			seen[name] = true

			omitEmpty := strings.Contains(","+opts+",", ",omitempty,")
			info.fields = append(info.fields, fieldInfo{
				name:      name,
				index:     idx,
				typ:       sf.Type,
				omitEmpty: omitEmpty,
				required:  !omitEmpty && isRequiredKind(sf.Type),
			})
		}
	}
	walk(t, nil)
	return info
}

// isRequiredKind reports whether a field of type t always produces a stored value.
// Pointers, collections and nested records may legitimately be absent.
func isRequiredKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Array:
		return false
	case reflect.Struct:
		return t == timeType || t == dateTimeType
	}
	return true
}
