// Package types defines the entity model, derived read models, and standard
// errors shared by the packrat storage engine and its callers.
//
// All entity identifiers are opaque UUID strings assigned at creation time.
// Timestamps are UTC. Expiry and last-used instants are epoch milliseconds to
// match what the surrounding application records.
package types
