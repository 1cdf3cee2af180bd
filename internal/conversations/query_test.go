package conversations

import (
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildPredicate_TenantOnlyWhenNoFilters(t *testing.T) {
	p := BuildPredicate("shop-a.example", nil)
	if len(p.Conds) != 1 {
		t.Fatalf("expected only the tenant clause, got %d", len(p.Conds))
	}
	eq, ok := p.Conds[0].(Eq)
	if !ok || eq.Field != FieldTenantDomain || eq.Value != "shop-a.example" {
		t.Fatalf("unexpected tenant clause: %#v", p.Conds[0])
	}

	if got := BuildPredicate("shop-a.example", &Filters{}); len(got.Conds) != 1 {
		t.Fatalf("expected zero-value filters to add nothing, got %d clauses", len(got.Conds))
	}
}

func TestBuildPredicate_EmptyStatusesImposeNothing(t *testing.T) {
	p := BuildPredicate("t", &Filters{Statuses: []Status{}})
	if len(p.Conds) != 1 {
		t.Fatalf("expected empty statuses to be ignored, got %d clauses", len(p.Conds))
	}
}

func TestBuildPredicate_ExplicitFalseArchivedConstrains(t *testing.T) {
	p := BuildPredicate("t", &Filters{IsArchived: boolPtr(false)})
	if len(p.Conds) != 2 {
		t.Fatalf("expected tenant + isArchived clauses, got %d", len(p.Conds))
	}

	archived := Conversation{TenantDomain: "t", IsArchived: true}
	active := Conversation{TenantDomain: "t"}
	if p.Match(&archived) {
		t.Fatalf("archived record should not match isArchived=false")
	}
	if !p.Match(&active) {
		t.Fatalf("active record should match isArchived=false")
	}
}

func TestBuildPredicate_SearchIsOrAcrossFields(t *testing.T) {
	p := BuildPredicate("t", &Filters{Search: "555"})

	hits := []Conversation{
		{TenantDomain: "t", CallerNumber: "+15550001"},
		{TenantDomain: "t", CalleeNumber: "+1555"},
		{TenantDomain: "t", CallerName: "Room 555"},
		{TenantDomain: "t", CalleeName: "ext555"},
		{TenantDomain: "t", Notes: "call back on 555"},
	}
	for i := range hits {
		if !p.Match(&hits[i]) {
			t.Fatalf("expected match for %+v", hits[i])
		}
	}

	miss := Conversation{TenantDomain: "t", CallerNumber: "+1444", Notes: "nothing"}
	if p.Match(&miss) {
		t.Fatalf("expected no match for %+v", miss)
	}
	other := Conversation{TenantDomain: "other", CallerNumber: "+15550001"}
	if p.Match(&other) {
		t.Fatalf("search must stay tenant-scoped")
	}
}

func TestBuildPredicate_SubstringIsCaseInsensitiveAndLiteral(t *testing.T) {
	p := BuildPredicate("t", &Filters{Search: "ALICE"})
	c := Conversation{TenantDomain: "t", CallerName: "alice smith"}
	if !p.Match(&c) {
		t.Fatalf("expected case-insensitive match")
	}

	p = BuildPredicate("t", &Filters{CallerNumber: "+1.*"})
	c = Conversation{TenantDomain: "t", CallerNumber: "+15550001"}
	if p.Match(&c) {
		t.Fatalf("filter text must not be treated as a pattern")
	}
}

func TestBuildPredicate_DateRangeInclusive(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	p := BuildPredicate("t", &Filters{StartDate: &from, EndDate: &to})

	cases := []struct {
		start time.Time
		want  bool
	}{
		{from, true},
		{to, true},
		{from.Add(-time.Second), false},
		{to.Add(time.Second), false},
		{from.Add(24 * time.Hour), true},
	}
	for _, tc := range cases {
		c := Conversation{TenantDomain: "t", StartTime: tc.start}
		if got := p.Match(&c); got != tc.want {
			t.Fatalf("start %v: expected %v, got %v", tc.start, tc.want, got)
		}
	}

	// Open-ended range.
	p = BuildPredicate("t", &Filters{StartDate: &from})
	c := Conversation{TenantDomain: "t", StartTime: to.AddDate(5, 0, 0)}
	if !p.Match(&c) {
		t.Fatalf("expected open upper bound")
	}
}

func TestBuildPredicate_AndSemantics(t *testing.T) {
	p := BuildPredicate("t", &Filters{
		Direction:    DirectionInbound,
		Statuses:     []Status{StatusMissed, StatusBusy},
		CalleeNumber: "0002",
	})

	match := Conversation{TenantDomain: "t", Direction: DirectionInbound, Status: StatusBusy, CalleeNumber: "+15550002"}
	if !p.Match(&match) {
		t.Fatalf("expected match")
	}
	wrongStatus := match
	wrongStatus.Status = StatusAnswered
	if p.Match(&wrongStatus) {
		t.Fatalf("status outside set should not match")
	}
	wrongDirection := match
	wrongDirection.Direction = DirectionOutbound
	if p.Match(&wrongDirection) {
		t.Fatalf("direction mismatch should not match")
	}
}
