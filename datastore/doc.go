/*
Package datastore defines the contract between the façade and the tree backends.

The main interface is TreeStore, a path-addressed hierarchical key-value tree:

	type TreeStore interface {
	    Read(ctx context.Context, path storagemodels.Path) (any, bool, error)
	    Query(ctx context.Context, path storagemodels.Path, q storagemodels.Query) ([]storagemodels.Child, error)
	    Write(ctx context.Context, path storagemodels.Path, value any, mode WriteMode) error
	    GenerateKey(ctx context.Context, path storagemodels.Path) (string, error)
	    Delete(ctx context.Context, path storagemodels.Path) error
	}

Implementations:
  - mem: in-memory tree for tests and embedded use
  - bolt: single-file embedded store backed by bbolt
  - ddb: DynamoDB single-table layout with one item per scalar leaf

Instrument wraps any TreeStore with VictoriaMetrics counters and histograms and reports backend
failures as StoreUnavailableError.
*/
package datastore
