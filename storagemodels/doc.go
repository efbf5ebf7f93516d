/*
Package storagemodels defines the data structures shared by the façade, the codec and the backends.

Key Types:

Path:
A normalized location in the hierarchical tree. Raw strings are split on "/" and empty segments
are dropped, so equivalent spellings resolve to the same node:

	ParsePath("/users//u1/").Equal(ParsePath("users/u1")) // true
	ExpandPath("private/users/{uid}/alarms", map[string]string{"uid": "u1"})

Canonical values:
Every node holds a JSON-like value tree made of nil, bool, int64, float64, string,
map[string]any and []any. Normalize converts arbitrary JSON-compatible Go values into this form
and reports MalformedPayload errors for anything else.

Query:
An immutable descriptor for range reads over the children of a node:

	q := NewQuery().
	    WithOrderByChild("createdAt").
	    WithStartAtTime(since).
	    Descending().
	    WithLimit(10)

Apply evaluates a Query against a node in memory; backends with native range reads translate it.
*/
package storagemodels
