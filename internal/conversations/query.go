package conversations

// searchFields are OR-ed together for the free-text search filter.
var searchFields = []Field{
	FieldCallerNumber,
	FieldCalleeNumber,
	FieldCallerName,
	FieldCalleeName,
	FieldNotes,
}

// BuildPredicate maps filters to a store predicate. The tenant clause is always
// first; each optional clause is folded in only when its input is present.
func BuildPredicate(tenant string, f *Filters) Predicate {
	p := Where(Eq{Field: FieldTenantDomain, Value: tenant})
	if f == nil {
		return p
	}

	if f.Direction != "" {
		p = p.And(Eq{Field: FieldDirection, Value: string(f.Direction)})
	}
	if f.StartDate != nil || f.EndDate != nil {
		p = p.And(Between{Field: FieldStartTime, From: f.StartDate, To: f.EndDate})
	}
	if len(f.Statuses) > 0 {
		values := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			values = append(values, string(s))
		}
		p = p.And(In{Field: FieldStatus, Values: values})
	}
	if f.CallerNumber != "" {
		p = p.And(Contains{Field: FieldCallerNumber, Substr: f.CallerNumber})
	}
	if f.CalleeNumber != "" {
		p = p.And(Contains{Field: FieldCalleeNumber, Substr: f.CalleeNumber})
	}
	if f.Search != "" {
		anyOf := make(AnyOf, 0, len(searchFields))
		for _, field := range searchFields {
			anyOf = append(anyOf, Contains{Field: field, Substr: f.Search})
		}
		p = p.And(anyOf)
	}
	// Explicit false is a constraint; nil is not.
	if f.IsArchived != nil {
		p = p.And(Eq{Field: FieldIsArchived, Value: *f.IsArchived})
	}
	return p
}

// ByID scopes a single-record lookup to its tenant.
func ByID(tenant, id string) Predicate {
	return Where(
		Eq{Field: FieldTenantDomain, Value: tenant},
		Eq{Field: FieldID, Value: id},
	)
}
