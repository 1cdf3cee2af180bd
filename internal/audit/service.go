package audit

import (
	"context"
	"errors"
	"time"

	"telephony-log/internal/auth"
	"telephony-log/pkg/logger"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
// It is append-only; there are no Update/Delete methods.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records internal audit information.
// Audit is internal-only and never exposed through the tenant API.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.TenantDomain == "" || e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	if e.RequestID == "" {
		e.RequestID = logger.RequestIDFrom(ctx)
	}
	if e.Actor == "" {
		if claims, ok := auth.ClaimsFrom(ctx); ok {
			e.Actor = claims.Subject
		}
	}
	if e.IPAddress == "" {
		e.IPAddress = ClientIPFromContext(ctx)
	}
	return s.repo.Append(ctx, e)
}

// LogConversationChange records a create/update/delete of one conversation.
func (s *Service) LogConversationChange(ctx context.Context, tenantDomain, conversationID string, t EventType) error {
	return s.Append(ctx, Event{
		TenantDomain:   tenantDomain,
		Type:           t,
		ConversationID: conversationID,
		Message:        string(t),
	})
}
