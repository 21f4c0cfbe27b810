// Package store holds the client-side entity caches.
//
// Each store owns one in-memory slice of a single entity type plus an
// observer list. Mutating methods call the API through the authenticated
// client, apply the server's response to the slice all-or-nothing, and then
// notify subscribers with a snapshot of the full slice. Failures never
// escape to the caller as errors: every method reports them through the
// notifier and returns a nil/false sentinel, leaving the slice untouched.
//
// Stores are built once at application start and shared by reference; the
// mutex on each store keeps Bubble Tea command goroutines from racing the
// UI thread.
package store
