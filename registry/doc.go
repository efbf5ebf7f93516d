/*
Package registry maps Go types and names to collection path templates.

Templates use the {name} macro syntax of storagemodels.ExpandPath:

	registry.RegisterPath[Alarm]("private/users/{uid}/alarms")

	path, err := registry.ResolvePath[Alarm](map[string]string{"uid": uid})

Named templates let tools address well-known locations without the Go type:

	registry.RegisterName("user-integration-key", "private/users/{uid}/integration-key")

	path, err := registry.Expand("@user-integration-key", map[string]string{"uid": uid})

The registry is thread-safe and should be populated during initialization,
typically in init() functions.
*/
package registry
