// Package storage persists the report state as a string key-value store:
// JSON-encoded timetable records under their period keys and the contact
// record under its fixed key. The interface mirrors the per-origin
// key-value semantics the UI expects; implementations decide durability.
package storage

import "context"

// KV is the persistence port injected into the services. Get reports
// absence through ok rather than an error so callers can fall back to
// defaults without inspecting error values.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
	Close() error
}
