package conversations

import (
	"context"
	"time"
)

// Store is the document-store contract the service is built on.
//
// IMPORTANT:
// - Callers always pass a predicate that includes the tenant clause.
// - Implementations return their own errors unwrapped; the service does not retry.
type Store interface {
	Insert(ctx context.Context, c Conversation) error
	FindOne(ctx context.Context, p Predicate) (Conversation, bool, error)
	Find(ctx context.Context, p Predicate, opts FindOptions) ([]Conversation, error)
	Count(ctx context.Context, p Predicate) (int, error)

	// UpdateOne merges patch into the first match, sets updated_at to now and
	// returns the updated record. ok is false when nothing matched.
	UpdateOne(ctx context.Context, p Predicate, patch UpdateInput, now time.Time) (c Conversation, ok bool, err error)

	// DeleteOne hard-deletes the first match and reports whether a row was removed.
	DeleteOne(ctx context.Context, p Predicate) (bool, error)
}

// FindOptions controls ordering and windowing. Limit <= 0 means unlimited.
type FindOptions struct {
	Sort   []SortKey
	Offset int
	Limit  int
}

// applyPatch merges the allow-listed fields of patch into c.
func applyPatch(c *Conversation, patch UpdateInput, now time.Time) {
	if patch.CallerName != nil {
		c.CallerName = *patch.CallerName
	}
	if patch.CalleeName != nil {
		c.CalleeName = *patch.CalleeName
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.EndTime != nil {
		t := *patch.EndTime
		c.EndTime = &t
	}
	if patch.Duration != nil {
		d := *patch.Duration
		c.Duration = &d
	}
	if patch.RecordingURL != nil {
		c.RecordingURL = *patch.RecordingURL
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
	if patch.Tags != nil {
		c.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.IsArchived != nil {
		c.IsArchived = *patch.IsArchived
	}
	c.UpdatedAt = now
}
