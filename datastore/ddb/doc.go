/*
Package ddb provides a DynamoDB implementation of the TreeStore interface.

The tree lives in a single table with one item per scalar leaf:

	PK       SK              V
	users    /u1/name        "Alice"
	users    /u1/createdAt   1700000000
	users    /u1/tags/0      "admin"
	config   /               "v2"

Reading a path queries the partition of its first segment with begins_with on the sort key and
reassembles the subtree; reading the root scans the table. Writes remove the leaves of the subtree
being replaced, and any scalar stored at an ancestor, then put the new leaves with BatchWriteItem
in chunks of 25. Unprocessed items are resubmitted with linear backoff up to Config.MaxRetries.

Numbers are stored as N attributes and come back as int64 when integral, float64 otherwise.

Usage:

	cfg := ddb.DefaultConfig("pathstore")
	cfg.Region = "us-east-1"
	store, err := ddb.Open(ctx, cfg)

The client is abstracted behind API, which *dynamodb.Client satisfies, so tests can supply a fake.
*/
package ddb
