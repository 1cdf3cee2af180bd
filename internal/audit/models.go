package audit

import "time"

// Event is an immutable, append-only audit record of a conversation mutation.
//
// Invariants:
// - Events are never updated or deleted.
// - tenant_domain is required for tenancy isolation.
// - request id, ip and actor capture are best-effort; audit failures never fail the mutation.
type Event struct {
	ID           string    `json:"id" db:"id"`
	TenantDomain string    `json:"tenant_domain" db:"tenant_domain"`
	Type         EventType `json:"type" db:"type"`

	ConversationID string `json:"conversation_id,omitempty" db:"conversation_id"`

	// RequestID correlates the event with the request log line.
	RequestID string `json:"request_id,omitempty" db:"request_id"`
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`
	// Actor is the bearer token subject; empty in header mode.
	Actor string `json:"actor,omitempty" db:"actor"`

	Message string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeConversationCreated EventType = "conversation.created"
	EventTypeConversationUpdated EventType = "conversation.updated"
	EventTypeConversationDeleted EventType = "conversation.deleted"
)
