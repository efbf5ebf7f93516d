/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Apply narrows the children of node with q. Children are ordered by key or by the named child
// field, entries outside the inclusive bounds are dropped, and the first (ascending) or last
// (descending) Limit entries are kept. Descending results are returned last-first.
//
// Backends without a native range query use Apply on the node they read.
func Apply(node any, q Query) ([]Child, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	limit := q.Limit()
	if limit == 0 {
		return []Child{}, nil
	}

	children := Children(node)
	start, hasStart := q.StartAt()
	end, hasEnd := q.EndAt()
	if hasStart {
		start, _ = Normalize(start)
	}
	if hasEnd {
		end, _ = Normalize(end)
	}

	field := q.OrderBy()
	sortValue := func(c Child) any { return ChildValue(c.Value, field) }

	if q.ByKey() {
		sort.Slice(children, func(i, j int) bool {
			return CompareKeys(children[i].Key, children[j].Key) < 0
		})
	} else {
		sort.SliceStable(children, func(i, j int) bool {
			if c := CompareValues(sortValue(children[i]), sortValue(children[j])); c != 0 {
				return c < 0
			}
			return CompareKeys(children[i].Key, children[j].Key) < 0
		})
	}

	inRange := make([]Child, 0, len(children))
	for _, c := range children {
		if q.ByKey() {
			if hasStart && CompareKeys(c.Key, start.(string)) < 0 {
				continue
			}
			if hasEnd && CompareKeys(c.Key, end.(string)) > 0 {
				continue
			}
		} else {
			v := sortValue(c)
			if hasStart && CompareValues(v, start) < 0 {
				continue
			}
			if hasEnd && CompareValues(v, end) > 0 {
				continue
			}
		}
		inRange = append(inRange, c)
	}

	if !q.IsDescending() {
		if len(inRange) > limit {
			inRange = inRange[:limit]
		}
		return inRange, nil
	}

	if len(inRange) > limit {
		inRange = inRange[len(inRange)-limit:]
	}
	for i, j := 0, len(inRange)-1; i < j; i, j = i+1, j-1 {
		inRange[i], inRange[j] = inRange[j], inRange[i]
	}
	return inRange, nil
}

// CompareKeys orders store keys: keys that read as 32-bit integers come first in numeric order,
// all other keys follow in byte order.
func CompareKeys(a, b string) int {
	ai, aInt := intKey(a)
	bi, bInt := intKey(b)
	switch {
	case aInt && bInt:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	case aInt:
		return -1
	case bInt:
		return 1
	}
	return strings.Compare(a, b)
}

func intKey(k string) (int64, bool) {
	i, err := strconv.ParseInt(k, 10, 32)
	if err != nil || strconv.FormatInt(i, 10) != k {
		return 0, false
	}
	return i, true
}

// CompareValues orders canonical values: nil, false, true, numbers, strings, then mappings and
// sequences, which compare equal to each other.
func CompareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case rankNumber:
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		// equal as floats; int64 values beyond float precision still need ordering
		ia, aInt := a.(int64)
		ib, bInt := b.(int64)
		if aInt && bInt {
			switch {
			case ia < ib:
				return -1
			case ia > ib:
				return 1
			}
		}
		return 0
	case rankString:
		return strings.Compare(a.(string), b.(string))
	}
	return 0
}

const (
	rankNull = iota
	rankFalse
	rankTrue
	rankNumber
	rankString
	rankObject
)

func rank(v any) int {
	switch tv := v.(type) {
	case nil:
		return rankNull
	case bool:
		if tv {
			return rankTrue
		}
		return rankFalse
	case int64, float64:
		return rankNumber
	case string:
		return rankString
	}
	return rankObject
}

func toFloat(v any) float64 {
	switch tv := v.(type) {
	case int64:
		return float64(tv)
	case float64:
		return tv
	}
	return math.NaN()
}
