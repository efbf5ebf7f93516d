/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"strconv"
)

// Treeify rewrites every sequence in a canonical value as a mapping keyed by decimal index,
// which is how sequences live inside the tree. Nil holes are dropped.
func Treeify(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, val := range tv {
			out[k] = Treeify(val)
		}
		return out
	case []any:
		out := make(map[string]any, len(tv))
		for i, val := range tv {
			if val != nil {
				out[strconv.Itoa(i)] = Treeify(val)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return v
}

// Arrayify turns mappings whose keys are dense decimal indexes back into sequences.
// A mapping qualifies when every key is a canonical non-negative integer and the largest index is
// less than twice the number of entries; missing indexes become nil holes.
func Arrayify(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, val := range m {
		m[k] = Arrayify(val)
	}
	maxIndex := -1
	for k := range m {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || strconv.Itoa(i) != k {
			return m
		}
		if i > maxIndex {
			maxIndex = i
		}
	}
	if maxIndex < 0 || maxIndex >= 2*len(m) {
		return m
	}
	out := make([]any, maxIndex+1)
	for k, val := range m {
		i, _ := strconv.Atoi(k)
		out[i] = val
	}
	return out
}

// Flatten lists the scalar leaves of a canonical value stored at base.
func Flatten(base Path, v any) []Leaf {
	var leaves []Leaf
	var walk func(p Path, v any)
	walk = func(p Path, v any) {
		switch tv := v.(type) {
		case nil:
		case map[string]any:
			for k, val := range tv {
				walk(p.Child(k), val)
			}
		case []any:
			for i, val := range tv {
				walk(p.Child(strconv.Itoa(i)), val)
			}
		default:
			leaves = append(leaves, Leaf{Path: p, Value: tv})
		}
	}
	walk(base, v)
	return leaves
}

// Assemble rebuilds the value stored at base from its leaves. Leaves outside base are ignored.
// When a leaf sits exactly at base and nothing is stored below it, the scalar is returned;
// deeper leaves win over a scalar at the same location. The result is nil when no leaf applies.
func Assemble(base Path, leaves []Leaf) any {
	var scalar any
	var root map[string]any
	for _, leaf := range leaves {
		rel, ok := leaf.Path.Rel(base)
		if !ok {
			continue
		}
		if len(rel) == 0 {
			scalar = leaf.Value
			continue
		}
		if root == nil {
			root = make(map[string]any)
		}
		node := root
		for _, seg := range rel[:len(rel)-1] {
			next, ok := node[seg].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[seg] = next
			}
			node = next
		}
		last := rel[len(rel)-1]
		if _, isMap := node[last].(map[string]any); !isMap {
			node[last] = leaf.Value
		}
	}
	if root != nil {
		return Arrayify(root)
	}
	return scalar
}
