/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// Child is one entry of a node: the store key it lives under and its canonical value.
type Child struct {
	// Key is the last path segment of the entry.
	Key string
	// Value is the canonical value tree stored under Key.
	Value any
}

// Record is the untyped mapping a domain object is encoded to. The store key is never part of it.
type Record = map[string]any

// Leaf is a scalar stored at a full path. Backends that keep the tree flattened store one leaf per
// scalar and rebuild mappings on read.
type Leaf struct {
	Path  Path
	Value any
}
