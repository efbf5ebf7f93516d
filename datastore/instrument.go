/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/suparena/pathstore/errors"
	"github.com/suparena/pathstore/storagemodels"
)

// Operation names used as the op label.
const (
	OpRead        = "read"
	OpQuery       = "query"
	OpWrite       = "write"
	OpGenerateKey = "generate_key"
	OpDelete      = "delete"
)

// Instrumented decorates a TreeStore with per-operation metrics:
//
//	pathstore_ops_total{op,backend}
//	pathstore_op_errors_total{op,backend}
//	pathstore_op_duration_seconds{op,backend}
//
// Failures that are not already classified are reported as StoreUnavailableError.
type Instrumented struct {
	next    TreeStore
	backend string
	set     *metrics.Set
}

// InstrumentOption configures an Instrumented store.
type InstrumentOption func(*Instrumented)

// WithMetricsSet registers the metrics in set instead of the process-wide default set.
func WithMetricsSet(set *metrics.Set) InstrumentOption {
	return func(s *Instrumented) {
		s.set = set
	}
}

// Instrument wraps next; backend names the store in metric labels.
func Instrument(next TreeStore, backend string, opts ...InstrumentOption) *Instrumented {
	s := &Instrumented{next: next, backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Unwrap returns the decorated store.
func (s *Instrumented) Unwrap() TreeStore {
	return s.next
}

func (s *Instrumented) Read(ctx context.Context, path storagemodels.Path) (any, bool, error) {
	var (
		v     any
		found bool
	)
	err := s.observe(OpRead, path, func() error {
		var err error
		v, found, err = s.next.Read(ctx, path)
		return err
	})
	return v, found, err
}

func (s *Instrumented) Query(ctx context.Context, path storagemodels.Path, q storagemodels.Query) ([]storagemodels.Child, error) {
	var children []storagemodels.Child
	err := s.observe(OpQuery, path, func() error {
		var err error
		children, err = s.next.Query(ctx, path, q)
		return err
	})
	return children, err
}

func (s *Instrumented) Write(ctx context.Context, path storagemodels.Path, value any, mode WriteMode) error {
	return s.observe(OpWrite, path, func() error {
		return s.next.Write(ctx, path, value, mode)
	})
}

func (s *Instrumented) GenerateKey(ctx context.Context, path storagemodels.Path) (string, error) {
	var key string
	err := s.observe(OpGenerateKey, path, func() error {
		var err error
		key, err = s.next.GenerateKey(ctx, path)
		return err
	})
	return key, err
}

func (s *Instrumented) Delete(ctx context.Context, path storagemodels.Path) error {
	return s.observe(OpDelete, path, func() error {
		return s.next.Delete(ctx, path)
	})
}

func (s *Instrumented) observe(op string, path storagemodels.Path, fn func() error) error {
	start := time.Now()
	s.counter("pathstore_ops_total", op).Inc()
	err := fn()
	s.histogram("pathstore_op_duration_seconds", op).UpdateDuration(start)
	if err == nil {
		return nil
	}
	s.counter("pathstore_op_errors_total", op).Inc()
	return classify(op, path, err)
}

func (s *Instrumented) metricName(name, op string) string {
	return fmt.Sprintf(`%s{op=%q,backend=%q}`, name, op, s.backend)
}

func (s *Instrumented) counter(name, op string) *metrics.Counter {
	if s.set != nil {
		return s.set.GetOrCreateCounter(s.metricName(name, op))
	}
	return metrics.GetOrCreateCounter(s.metricName(name, op))
}

func (s *Instrumented) histogram(name, op string) *metrics.Histogram {
	if s.set != nil {
		return s.set.GetOrCreateHistogram(s.metricName(name, op))
	}
	return metrics.GetOrCreateHistogram(s.metricName(name, op))
}

// classify keeps errors from the taxonomy as they are and wraps everything else.
func classify(op string, path storagemodels.Path, err error) error {
	switch {
	case errors.IsStoreUnavailable(err),
		errors.IsValidationError(err),
		errors.IsMalformedPayload(err),
		errors.IsNotFound(err):
		return err
	}
	return errors.NewStoreUnavailableError(op, path.String(), err)
}
