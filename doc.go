/*
Package pathstore provides typed access to documents stored in a path-addressed hierarchical
key-value tree.

Paths are slash-separated; empty segments are ignored, so "users/u1", "/users/u1/" and
"users//u1" address the same node. Objects are plain structs encoded by reflection (see the codec
package): json tags name the fields, timestamps are stored as epoch seconds, and types embedding
codec.Identity receive the key of the node they were loaded from.

Key Features:
  - Untyped reads and writes through DB (Get, SetValue, UpdateValues, Push, Delete)
  - Typed repositories with key injection (LoadOne, LoadMany, LoadAll, Set, Add, DeleteObject)
  - Immutable range queries ordered by key or by a child field
  - In-memory, bbolt and DynamoDB backends behind one TreeStore interface
  - Futures for every repository operation through Async
  - Semantic error types and per-operation metrics

Basic Usage:

	type Alarm struct {
	    codec.Identity
	    Label     string    `json:"label"`
	    CreatedAt time.Time `json:"createdAt"`
	}

	db := pathstore.New(mem.New(), pathstore.WithLogger(logger))
	alarms := pathstore.NewRepository[Alarm](db)

	key, err := alarms.Add(ctx, "private/users/u1/alarms", &Alarm{Label: "wake"})

	q := storagemodels.NewQuery().WithOrderByChild("createdAt").Latest().WithLimit(10)
	recent, err := alarms.LoadMany(ctx, "private/users/u1/alarms", &q)

Collections can be registered once per type and opened with For:

	registry.RegisterPath[Alarm]("private/users/{uid}/alarms")
	alarms, err := pathstore.For[Alarm](db, map[string]string{"uid": uid})
	alarm, err := alarms.LoadOne(ctx, key)

A nil result from LoadOne means nothing is stored at the path. Entries that cannot be decoded are
skipped by LoadMany and LoadAll and reported through the logger.
*/
package pathstore
