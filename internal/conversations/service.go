package conversations

import (
	"context"
	"reflect"
	"strings"
	"time"
	"unicode"

	"telephony-log/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Service is the only component with store access.
//
// Tenancy invariant:
// - every store call carries a predicate scoped to the caller's tenant
// - a record under another tenant is indistinguishable from a missing one
//
// Store errors are returned unmodified; nothing here retries.
type Service struct {
	store Store
	audit AuditLogger

	validate *validator.Validate
	// clock and newID are injectable for deterministic tests.
	clock func() time.Time
	newID func() string
}

// AuditLogger receives mutation events. It is optional and best-effort.
type AuditLogger interface {
	LogMutation(ctx context.Context, e MutationEvent) error
}

type MutationAction string

const (
	MutationCreated MutationAction = "created"
	MutationUpdated MutationAction = "updated"
	MutationDeleted MutationAction = "deleted"
)

type MutationEvent struct {
	TenantDomain   string
	ConversationID string
	Action         MutationAction
}

func NewService(store Store, audit AuditLogger) *Service {
	return &Service{
		store:    store,
		audit:    audit,
		validate: newValidator(),
		clock:    time.Now,
		newID:    newConversationID,
	}
}

// List returns one page of the tenant's conversations matching filters.
// An empty result is not an error.
func (s *Service) List(ctx context.Context, tenant string, pagination *Pagination, filters *Filters) (Connection, error) {
	if tenant == "" {
		return Connection{}, invalid("tenantDomain", "required")
	}
	if filters != nil {
		if err := s.validate.Struct(filters); err != nil {
			return Connection{}, fromValidator(err)
		}
	}
	if pagination != nil && (pagination.Page < 0 || pagination.Limit < 0) {
		return Connection{}, invalid("pagination", "gte=0")
	}
	return paginate(ctx, s.store, BuildPredicate(tenant, filters), DefaultSort, pagination)
}

func (s *Service) Get(ctx context.Context, tenant, id string) (Conversation, error) {
	if tenant == "" {
		return Conversation{}, invalid("tenantDomain", "required")
	}
	if !validID(id) {
		return Conversation{}, &NotFoundError{ID: id}
	}
	c, ok, err := s.store.FindOne(ctx, ByID(tenant, id))
	if err != nil {
		return Conversation{}, err
	}
	if !ok {
		return Conversation{}, &NotFoundError{ID: id}
	}
	return c, nil
}

// Create persists a new conversation under in.TenantDomain.
func (s *Service) Create(ctx context.Context, in CreateInput) (Conversation, error) {
	if err := s.validate.Struct(in); err != nil {
		return Conversation{}, fromValidator(err)
	}

	now := s.clock().UTC()
	c := Conversation{
		ID:           s.newID(),
		TenantDomain: in.TenantDomain,
		CallerNumber: in.CallerNumber,
		CallerName:   in.CallerName,
		CalleeNumber: in.CalleeNumber,
		CalleeName:   in.CalleeName,
		Direction:    in.Direction,
		Status:       in.Status,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Duration:     in.Duration,
		RecordingURL: in.RecordingURL,
		Notes:        in.Notes,
		Tags:         in.Tags,
		IsArchived:   false,
		Metadata:     in.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return Conversation{}, err
	}
	s.logMutation(ctx, c.TenantDomain, c.ID, MutationCreated)
	return c, nil
}

// Update merges the allow-listed fields of in into the tenant's record.
func (s *Service) Update(ctx context.Context, tenant, id string, in UpdateInput) (Conversation, error) {
	if tenant == "" {
		return Conversation{}, invalid("tenantDomain", "required")
	}
	if err := s.validate.Struct(in); err != nil {
		return Conversation{}, fromValidator(err)
	}
	if !validID(id) {
		return Conversation{}, &NotFoundError{ID: id}
	}

	c, ok, err := s.store.UpdateOne(ctx, ByID(tenant, id), in, s.clock().UTC())
	if err != nil {
		return Conversation{}, err
	}
	if !ok {
		return Conversation{}, &NotFoundError{ID: id}
	}
	s.logMutation(ctx, tenant, id, MutationUpdated)
	return c, nil
}

// Remove hard-deletes the tenant's record. It reports false, not an error,
// when nothing matched.
func (s *Service) Remove(ctx context.Context, tenant, id string) (bool, error) {
	if tenant == "" {
		return false, invalid("tenantDomain", "required")
	}
	if !validID(id) {
		return false, nil
	}
	deleted, err := s.store.DeleteOne(ctx, ByID(tenant, id))
	if err != nil {
		return false, err
	}
	if deleted {
		s.logMutation(ctx, tenant, id, MutationDeleted)
	}
	return deleted, nil
}

// Stats runs four independent tenant-scoped counts concurrently.
func (s *Service) Stats(ctx context.Context, tenant string) (Stats, error) {
	if tenant == "" {
		return Stats{}, invalid("tenantDomain", "required")
	}

	base := BuildPredicate(tenant, nil)
	preds := [4]Predicate{
		base,
		base.And(Eq{Field: FieldDirection, Value: string(DirectionInbound)}),
		base.And(Eq{Field: FieldDirection, Value: string(DirectionOutbound)}),
		base.And(Eq{Field: FieldStatus, Value: string(StatusMissed)}),
	}

	var counts [4]int
	var g errgroup.Group
	for i, p := range preds {
		g.Go(func() error {
			n, err := s.store.Count(ctx, p)
			if err != nil {
				return err
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalCalls:    counts[0],
		InboundCalls:  counts[1],
		OutboundCalls: counts[2],
		MissedCalls:   counts[3],
	}, nil
}

func (s *Service) logMutation(ctx context.Context, tenant, id string, action MutationAction) {
	if s.audit == nil {
		return
	}
	err := s.audit.LogMutation(ctx, MutationEvent{TenantDomain: tenant, ConversationID: id, Action: action})
	if err != nil {
		logger.From(ctx).Warn("audit append failed", "err", err, "conversation_id", id, "action", string(action))
	}
}

func newConversationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return lowerFirst(f.Name)
		}
		return name
	})
	return v
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
