/*
Package auth resolves the signed-in identity and the integration key linked to it.

An integration key is a store-generated key that third-party sign-in flows use to find the account
they belong to. Registering one writes both directions of the link:

	private/user-integration-keys/<key> = <uid>
	private/users/<uid>/integration-key = <key>

and remembers the key in a preference store so later lookups need no round trip.
*/
package auth
