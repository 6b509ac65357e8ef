// Package bind pairs a live instance with a member descriptor and exposes
// typed reads and writes against that member.
//
// Bind never fails. The reader and writer are resolved once, when the handle
// is created, and any problem found then is reported by the first Get or Set.
// Handles do no locking; concurrent writes to the same member of the same
// instance must be synchronized by the caller.
package bind
