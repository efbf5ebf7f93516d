/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

// Identifiable is implemented by objects that carry the key of the node they were loaded from.
// The key is never part of the stored record.
type Identifiable interface {
	StoreKey() string
	SetStoreKey(key string)
}

// Identity is embedded in domain types to make them Identifiable.
//
//	type Alarm struct {
//	    codec.Identity
//	    Label string `json:"label"`
//	}
type Identity struct {
	key string
}

// StoreKey returns the key the object is stored under, or "" when it has not been stored yet.
func (i *Identity) StoreKey() string {
	return i.key
}

// SetStoreKey records the key the object is stored under.
func (i *Identity) SetStoreKey(key string) {
	i.key = key
}

// Excluder is implemented by types that keep additional fields out of the stored record.
// Names are record field names (the json tag name when present).
type Excluder interface {
	ExcludedFields() []string
}

// StorageStringer is implemented by enumerations that are stored as a string.
type StorageStringer interface {
	StorageString() string
}

// StorageStringParser restores an enumeration from its stored string.
type StorageStringParser interface {
	ParseStorageString(s string) error
}

// KeyOf returns the store key of obj when it is Identifiable.
func KeyOf(obj any) (string, bool) {
	id, ok := obj.(Identifiable)
	if !ok {
		return "", false
	}
	return id.StoreKey(), true
}

// SetKey assigns key to obj when it is Identifiable and reports whether it did.
func SetKey(obj any, key string) bool {
	id, ok := obj.(Identifiable)
	if !ok {
		return false
	}
	id.SetStoreKey(key)
	return true
}
