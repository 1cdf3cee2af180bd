package conversations

import (
	"context"

	"telephony-log/internal/audit"
)

// AuditAdapter bridges the service's mutation hook to the shared audit.Service.
type AuditAdapter struct {
	Audit *audit.Service
}

func (a AuditAdapter) LogMutation(ctx context.Context, e MutationEvent) error {
	if a.Audit == nil {
		return nil
	}
	var t audit.EventType
	switch e.Action {
	case MutationCreated:
		t = audit.EventTypeConversationCreated
	case MutationUpdated:
		t = audit.EventTypeConversationUpdated
	case MutationDeleted:
		t = audit.EventTypeConversationDeleted
	default:
		return audit.ErrInvalidEvent
	}
	return a.Audit.LogConversationChange(ctx, e.TenantDomain, e.ConversationID, t)
}
