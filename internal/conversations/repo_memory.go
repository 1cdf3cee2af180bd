package conversations

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and local runs without Postgres.
// Records are copied on the way in and out so callers cannot alias stored state.
type MemoryStore struct {
	mu   sync.Mutex
	rows []Conversation
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Insert(ctx context.Context, c Conversation) error {
	if c.ID == "" || c.TenantDomain == "" {
		return errors.New("conversations: id and tenant_domain required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == c.ID {
			return errors.New("conversations: duplicate id")
		}
	}
	s.rows = append(s.rows, clone(c))
	return nil
}

func (s *MemoryStore) FindOne(ctx context.Context, p Predicate) (Conversation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if p.Match(&s.rows[i]) {
			return clone(s.rows[i]), true, nil
		}
	}
	return Conversation{}, false, nil
}

func (s *MemoryStore) Find(ctx context.Context, p Predicate, opts FindOptions) ([]Conversation, error) {
	s.mu.Lock()
	matched := make([]Conversation, 0)
	for i := range s.rows {
		if p.Match(&s.rows[i]) {
			matched = append(matched, clone(s.rows[i]))
		}
	}
	s.mu.Unlock()

	if len(opts.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool { return less(&matched[i], &matched[j], opts.Sort) })
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []Conversation{}, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (s *MemoryStore) Count(ctx context.Context, p Predicate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.rows {
		if p.Match(&s.rows[i]) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) UpdateOne(ctx context.Context, p Predicate, patch UpdateInput, now time.Time) (Conversation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if p.Match(&s.rows[i]) {
			applyPatch(&s.rows[i], patch, now)
			return clone(s.rows[i]), true, nil
		}
	}
	return Conversation{}, false, nil
}

func (s *MemoryStore) DeleteOne(ctx context.Context, p Predicate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if p.Match(&s.rows[i]) {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Ping always succeeds; it lets the memory store back the readiness probe.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func clone(c Conversation) Conversation {
	out := c
	if c.EndTime != nil {
		t := *c.EndTime
		out.EndTime = &t
	}
	if c.Duration != nil {
		d := *c.Duration
		out.Duration = &d
	}
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.Metadata != nil {
		out.Metadata = maps.Clone(c.Metadata)
	}
	return out
}
