/*
Package bolt provides a single-file TreeStore backed by bbolt.

Every scalar leaf of the tree is stored under its full path in one bucket:

	users/u1/name       -> msgpack("Alice")
	users/u1/createdAt  -> msgpack(1700000000)
	users/u1/tags/0     -> msgpack("admin")

Reading a path prefix-scans its subtree and reassembles the value; sequences come back as
sequences when their index keys are dense. Writes remove the old subtree and any scalar stored at
an ancestor, then put the new leaves, all in one transaction.

Usage:

	store, err := bolt.Open(bolt.DefaultConfig("data.db"))
	if err != nil {
	    return err
	}
	defer store.Close()
*/
package bolt
