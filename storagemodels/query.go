/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"time"

	"github.com/suparena/pathstore/errors"
)

// DefaultLimit is the result-count limit of a query that does not set one.
const DefaultLimit = 20

// Query describes a bounded, ordered read of the children of a node.
//
// A Query is an immutable value: every With* method returns a modified copy and leaves the receiver
// untouched, so a descriptor can be shared and reused. The zero value orders by key, has no bounds,
// is ascending and returns at most DefaultLimit entries.
type Query struct {
	orderBy    string
	start      any
	end        any
	hasStart   bool
	hasEnd     bool
	descending bool
	limit      int
	limitSet   bool
}

// NewQuery returns the default query.
func NewQuery() Query {
	return Query{}
}

// DefaultQuery is the query used for list reads that do not supply one.
func DefaultQuery() Query {
	return Query{}
}

// WithOrderByKey orders children by their store key.
func (q Query) WithOrderByKey() Query {
	q.orderBy = ""
	return q
}

// WithOrderByChild orders children by the value of their field named field.
func (q Query) WithOrderByChild(field string) Query {
	q.orderBy = field
	return q
}

// WithStartAt sets the inclusive lower bound of the ordered range.
func (q Query) WithStartAt(value any) Query {
	q.start, q.hasStart = value, true
	return q
}

// WithEndAt sets the inclusive upper bound of the ordered range.
func (q Query) WithEndAt(value any) Query {
	q.end, q.hasEnd = value, true
	return q
}

// WithBetween sets both inclusive bounds.
func (q Query) WithBetween(start, end any) Query {
	return q.WithStartAt(start).WithEndAt(end)
}

// WithStartAtTime bounds a timestamp field from below. Timestamps are stored as epoch seconds.
func (q Query) WithStartAtTime(t time.Time) Query {
	return q.WithStartAt(t.Unix())
}

// WithEndAtTime bounds a timestamp field from above.
func (q Query) WithEndAtTime(t time.Time) Query {
	return q.WithEndAt(t.Unix())
}

// Since keeps children whose timestamp field is within the last d, relative to now.
func (q Query) Since(d time.Duration) Query {
	return q.WithStartAtTime(time.Now().Add(-d))
}

// WithLimit sets the result-count limit. It must not be negative.
func (q Query) WithLimit(n int) Query {
	q.limit, q.limitSet = n, true
	return q
}

// Ascending keeps the first entries of the ordered range.
func (q Query) Ascending() Query {
	q.descending = false
	return q
}

// Descending keeps the last entries of the ordered range and returns them last-first.
func (q Query) Descending() Query {
	q.descending = true
	return q
}

// Latest is Descending, for time-ordered children.
func (q Query) Latest() Query {
	return q.Descending()
}

// Oldest is Ascending, for time-ordered children.
func (q Query) Oldest() Query {
	return q.Ascending()
}

// OrderBy returns the ordering field, or "" when ordering by key.
func (q Query) OrderBy() string {
	return q.orderBy
}

// ByKey reports whether children are ordered by store key.
func (q Query) ByKey() bool {
	return q.orderBy == ""
}

// StartAt returns the lower bound, if set.
func (q Query) StartAt() (any, bool) {
	return q.start, q.hasStart
}

// EndAt returns the upper bound, if set.
func (q Query) EndAt() (any, bool) {
	return q.end, q.hasEnd
}

// IsDescending reports the direction.
func (q Query) IsDescending() bool {
	return q.descending
}

// Limit returns the effective result-count limit.
func (q Query) Limit() int {
	if !q.limitSet {
		return DefaultLimit
	}
	return q.limit
}

// Validate checks the limit and the bound values.
func (q Query) Validate() error {
	if q.Limit() < 0 {
		return errors.NewValidationError("limit", fmt.Sprintf("must not be negative, got %d", q.Limit()))
	}
	for _, b := range []struct {
		name string
		val  any
		set  bool
	}{{"startAt", q.start, q.hasStart}, {"endAt", q.end, q.hasEnd}} {
		if !b.set {
			continue
		}
		nv, err := Normalize(b.val)
		if err != nil {
			return errors.NewValidationError(b.name, err.Error())
		}
		switch nv.(type) {
		case map[string]any, []any:
			return errors.NewValidationError(b.name, "bound must be a scalar")
		}
		if _, isString := nv.(string); q.ByKey() && !isString {
			return errors.NewValidationError(b.name, fmt.Sprintf("key bounds must be strings, got %T", b.val))
		}
	}
	return nil
}

// String renders the query for logs.
func (q Query) String() string {
	order := "key"
	if !q.ByKey() {
		order = "child:" + q.orderBy
	}
	dir := "asc"
	if q.descending {
		dir = "desc"
	}
	s := fmt.Sprintf("orderBy=%s dir=%s limit=%d", order, dir, q.Limit())
	if q.hasStart {
		s += fmt.Sprintf(" startAt=%v", q.start)
	}
	if q.hasEnd {
		s += fmt.Sprintf(" endAt=%v", q.end)
	}
	return s
}
