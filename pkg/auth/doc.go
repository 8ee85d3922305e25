// Package auth holds the session credential type attached to room
// connections.
//
// Credentials are issued and verified by the platform backend; this package
// never validates signatures. It only offers unverified claim introspection
// so the client can log who it is connecting as and warn before dialing with
// a token that is already past its expiry.
package auth
