// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into audit logs.
package queue

// AuthEventQueue is the broker queue auth events are published to.
const AuthEventQueue = "auth.events"

// Event names carried in AuthEvent.Event.
const (
	EventLogin           = "user.login"
	EventTokenRevoked    = "token.revoked"
	EventTokenUnrevoked  = "token.unrevoked"
	EventLogoutEverywhere = "user.logout_everywhere"
	EventLedgerPruned    = "ledger.pruned"
)

// AuthEvent is published whenever the revocation state of the ledger
// changes or a user authenticates.  It carries enough information for
// downstream consumers to audit-log or alert without querying the
// primary database.
type AuthEvent struct {
	Event        string `json:"event"`
	UserIdentity string `json:"user_identity,omitempty"`
	JTI          string `json:"jti,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Count        int64  `json:"count,omitempty"` // affected rows for bulk operations
	At           string `json:"at"`              // RFC3339 UTC timestamp
}
