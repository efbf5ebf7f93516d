/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"

	"github.com/suparena/pathstore/errors"
	"github.com/suparena/pathstore/storagemodels"
)

// WriteMode selects how a write combines with the node already stored at a path.
type WriteMode int

const (
	// Replace stores the value as the whole node. A nil value removes the node.
	Replace WriteMode = iota
	// Merge sets each entry of a mapping as a child of the node and leaves other children alone.
	// Entries with a nil value remove that child.
	Merge
)

func (m WriteMode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Merge:
		return "merge"
	}
	return fmt.Sprintf("WriteMode(%d)", int(m))
}

// TreeStore is a path-addressed hierarchical key-value tree. Each method is a single round trip.
// Values are canonical value trees (see storagemodels.Normalize).
type TreeStore interface {
	// Read returns the node at path. The boolean is false when nothing is stored there.
	Read(ctx context.Context, path storagemodels.Path) (any, bool, error)

	// Query returns the children of the node at path narrowed by q.
	Query(ctx context.Context, path storagemodels.Path, q storagemodels.Query) ([]storagemodels.Child, error)

	// Write stores value at path according to mode.
	Write(ctx context.Context, path storagemodels.Path, value any, mode WriteMode) error

	// GenerateKey returns a fresh child key for path without writing anything.
	GenerateKey(ctx context.Context, path storagemodels.Path) (string, error)

	// Delete removes the node at path and everything below it. Deleting an absent node succeeds.
	Delete(ctx context.Context, path storagemodels.Path) error
}

// PrepareWrite normalizes the value of a write. For Merge the result is a mapping whose nil
// entries mark children to remove; for Replace it is the canonical value.
func PrepareWrite(value any, mode WriteMode) (any, error) {
	switch mode {
	case Replace:
		return storagemodels.Normalize(value)
	case Merge:
		m, err := storagemodels.NormalizeMerge(value)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, errors.NewValidationError("mode", fmt.Sprintf("unknown write mode %d", int(mode)))
}

// MergeInto applies a prepared merge to node and returns the resulting node.
// node is modified in place when it is already a mapping.
func MergeInto(node any, updates map[string]any) any {
	m, ok := node.(map[string]any)
	if !ok {
		m = make(map[string]any, len(updates))
	}
	for k, v := range updates {
		if v == nil {
			delete(m, k)
			continue
		}
		m[k] = v
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
