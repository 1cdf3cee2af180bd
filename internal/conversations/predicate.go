package conversations

import (
	"strings"
	"time"
)

// Field names a filterable/sortable conversation attribute.
// The value is the Postgres column name.
type Field string

const (
	FieldID           Field = "id"
	FieldTenantDomain Field = "tenant_domain"
	FieldCallerNumber Field = "caller_number"
	FieldCallerName   Field = "caller_name"
	FieldCalleeNumber Field = "callee_number"
	FieldCalleeName   Field = "callee_name"
	FieldDirection    Field = "direction"
	FieldStatus       Field = "status"
	FieldStartTime    Field = "start_time"
	FieldNotes        Field = "notes"
	FieldIsArchived   Field = "is_archived"
	FieldCreatedAt    Field = "created_at"
)

// Cond is one node of a store predicate. Implementations are interpreted by
// the in-memory store (Match) and rendered to SQL by the Postgres store.
type Cond interface {
	Match(c *Conversation) bool
}

// Eq matches a string or bool field exactly.
type Eq struct {
	Field Field
	Value any
}

// In matches when a string field equals any of Values.
type In struct {
	Field  Field
	Values []string
}

// Between bounds a time field. Both ends are inclusive; a nil end is open.
type Between struct {
	Field Field
	From  *time.Time
	To    *time.Time
}

// Contains is a case-insensitive literal substring match.
type Contains struct {
	Field  Field
	Substr string
}

// AnyOf matches when at least one child matches.
type AnyOf []Cond

// Predicate is a conjunction of conditions.
type Predicate struct {
	Conds []Cond
}

// Where starts a predicate from the given conditions.
func Where(conds ...Cond) Predicate {
	return Predicate{Conds: append([]Cond(nil), conds...)}
}

// And returns a copy of p with conds appended.
func (p Predicate) And(conds ...Cond) Predicate {
	out := make([]Cond, 0, len(p.Conds)+len(conds))
	out = append(out, p.Conds...)
	out = append(out, conds...)
	return Predicate{Conds: out}
}

func (p Predicate) Match(c *Conversation) bool {
	for _, cond := range p.Conds {
		if !cond.Match(c) {
			return false
		}
	}
	return true
}

func (e Eq) Match(c *Conversation) bool {
	switch v := e.Value.(type) {
	case string:
		s, ok := textValue(c, e.Field)
		return ok && s == v
	case bool:
		return e.Field == FieldIsArchived && c.IsArchived == v
	default:
		return false
	}
}

func (in In) Match(c *Conversation) bool {
	s, ok := textValue(c, in.Field)
	if !ok {
		return false
	}
	for _, v := range in.Values {
		if s == v {
			return true
		}
	}
	return false
}

func (b Between) Match(c *Conversation) bool {
	t, ok := timeValue(c, b.Field)
	if !ok {
		return false
	}
	if b.From != nil && t.Before(*b.From) {
		return false
	}
	if b.To != nil && t.After(*b.To) {
		return false
	}
	return true
}

func (ct Contains) Match(c *Conversation) bool {
	s, ok := textValue(c, ct.Field)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(ct.Substr))
}

func (a AnyOf) Match(c *Conversation) bool {
	for _, cond := range a {
		if cond.Match(c) {
			return true
		}
	}
	return false
}

func textValue(c *Conversation, f Field) (string, bool) {
	switch f {
	case FieldID:
		return c.ID, true
	case FieldTenantDomain:
		return c.TenantDomain, true
	case FieldCallerNumber:
		return c.CallerNumber, true
	case FieldCallerName:
		return c.CallerName, true
	case FieldCalleeNumber:
		return c.CalleeNumber, true
	case FieldCalleeName:
		return c.CalleeName, true
	case FieldDirection:
		return string(c.Direction), true
	case FieldStatus:
		return string(c.Status), true
	case FieldNotes:
		return c.Notes, true
	default:
		return "", false
	}
}

func timeValue(c *Conversation, f Field) (time.Time, bool) {
	switch f {
	case FieldStartTime:
		return c.StartTime, true
	case FieldCreatedAt:
		return c.CreatedAt, true
	default:
		return time.Time{}, false
	}
}

// SortKey orders results by one field.
type SortKey struct {
	Field Field
	Desc  bool
}

// DefaultSort is newest-created first. The id tie-break keeps ordering stable;
// ids are UUIDv7, so it follows insertion order.
var DefaultSort = []SortKey{
	{Field: FieldCreatedAt, Desc: true},
	{Field: FieldID, Desc: true},
}

// less reports whether a sorts before b under keys.
func less(a, b *Conversation, keys []SortKey) bool {
	for _, k := range keys {
		cmp := compareField(a, b, k.Field)
		if cmp == 0 {
			continue
		}
		if k.Desc {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

func compareField(a, b *Conversation, f Field) int {
	if ta, ok := timeValue(a, f); ok {
		tb, _ := timeValue(b, f)
		return ta.Compare(tb)
	}
	sa, _ := textValue(a, f)
	sb, _ := textValue(b, f)
	return strings.Compare(sa, sb)
}
