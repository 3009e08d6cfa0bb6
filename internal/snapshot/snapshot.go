// Package snapshot provides the key-value snapshot stores that back the
// credential store, the reset-token registry, the report store, and the
// two session tiers. Each component owns one key; writes to one key never
// touch another.
package snapshot

// Keys for the persisted snapshots. The remembered session key lives in
// the durable store, the ephemeral one in a MemStore that dies with the
// process.
const (
	KeyIdentities        = "identities"
	KeyReports           = "reports"
	KeyResetTokens       = "reset_tokens"
	KeySessionRemembered = "session_remembered"
	KeySessionEphemeral  = "session_ephemeral"
)

// Store is a named-key snapshot store. Values are JSON-encoded.
type Store interface {
	// Get decodes the value stored under key into v. Returns false with
	// a nil error when the key is absent.
	Get(key string, v any) (bool, error)
	// Put stores v under key, replacing any previous value.
	Put(key string, v any) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
