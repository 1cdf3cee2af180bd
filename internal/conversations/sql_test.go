package conversations

import (
	"strings"
	"testing"
	"time"
)

func TestRenderWhere_FullFilters(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	p := BuildPredicate("shop-a.example", &Filters{
		Direction:  DirectionInbound,
		StartDate:  &from,
		EndDate:    &to,
		Statuses:   []Status{StatusMissed, StatusBusy},
		Search:     "50%",
		IsArchived: boolPtr(false),
	})

	var a sqlArgs
	got, err := renderWhere(p, &a)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := `tenant_domain = $1 AND direction = $2 AND start_time >= $3 AND start_time <= $4 AND status = ANY($5) AND ` +
		`(caller_number ILIKE $6 ESCAPE '\' OR callee_number ILIKE $7 ESCAPE '\' OR caller_name ILIKE $8 ESCAPE '\' ` +
		`OR callee_name ILIKE $9 ESCAPE '\' OR notes ILIKE $10 ESCAPE '\') AND is_archived = $11`
	if got != want {
		t.Fatalf("unexpected where clause:\n got: %s\nwant: %s", got, want)
	}
	if len(a.args) != 11 {
		t.Fatalf("expected 11 args, got %d", len(a.args))
	}
	if a.args[0] != "shop-a.example" {
		t.Fatalf("expected tenant first, got %v", a.args[0])
	}
	if a.args[5] != `%50\%%` {
		t.Fatalf("expected escaped like pattern, got %v", a.args[5])
	}
	if a.args[10] != false {
		t.Fatalf("expected explicit false for is_archived, got %v", a.args[10])
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`a_b%c\d`); got != `a\_b\%c\\d` {
		t.Fatalf("unexpected escape: %q", got)
	}
}

func TestBuildSelect_OrderAndWindow(t *testing.T) {
	q, args, err := buildSelect(BuildPredicate("t", nil), FindOptions{Sort: DefaultSort, Offset: 20, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.HasSuffix(q, "WHERE tenant_domain = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3") {
		t.Fatalf("unexpected query: %s", q)
	}
	if len(args) != 3 || args[1] != 10 || args[2] != 20 {
		t.Fatalf("unexpected args: %v", args)
	}

	q, args, err = buildSelect(BuildPredicate("t", nil), FindOptions{Sort: DefaultSort})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if strings.Contains(q, "LIMIT") || strings.Contains(q, "OFFSET") || len(args) != 1 {
		t.Fatalf("expected unpaginated query, got %s %v", q, args)
	}
}

func TestBuildUpdate_OnlyAllowListedFields(t *testing.T) {
	status := StatusVoicemail
	notes := "left message"
	now := time.Unix(1700000000, 0).UTC()

	q, args, err := buildUpdate(ByID("t", "id-1"), UpdateInput{Status: &status, Notes: &notes}, now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	wantPrefix := "UPDATE conversations SET status = $1, notes = $2, updated_at = $3 " +
		"WHERE id = (SELECT id FROM conversations WHERE tenant_domain = $4 AND id = $5 LIMIT 1) RETURNING "
	if !strings.HasPrefix(q, wantPrefix) {
		t.Fatalf("unexpected update:\n got: %s\nwant prefix: %s", q, wantPrefix)
	}
	if len(args) != 5 || args[0] != "voicemail" || args[1] != notes || args[3] != "t" || args[4] != "id-1" {
		t.Fatalf("unexpected args: %v", args)
	}
	for _, col := range []string{"caller_number", "callee_number", "tenant_domain =", "id ="} {
		if strings.Contains(strings.SplitN(q, " WHERE ", 2)[0], col) {
			t.Fatalf("update must not set %s: %s", col, q)
		}
	}
}

func TestRenderCond_RejectsUnknownField(t *testing.T) {
	var a sqlArgs
	if _, err := renderWhere(Where(Eq{Field: Field("1=1; DROP TABLE x"), Value: "v"}), &a); err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if _, err := renderOrderBy([]SortKey{{Field: "nope"}}); err == nil {
		t.Fatalf("expected error for unknown sort field")
	}
}

func TestBuildUpdate_FractionalDuration(t *testing.T) {
	d := 12.5
	q, args, err := buildUpdate(ByID("t", "id-1"), UpdateInput{Duration: &d}, time.Unix(0, 0).UTC())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.HasPrefix(q, "UPDATE conversations SET duration = $1, updated_at = $2 ") {
		t.Fatalf("unexpected update: %s", q)
	}
	if args[0] != 12.5 {
		t.Fatalf("expected float duration arg, got %#v", args[0])
	}
}

func TestNullFloat(t *testing.T) {
	if nullFloat(nil).Valid {
		t.Fatalf("nil duration must be NULL")
	}
	d := 0.5
	if n := nullFloat(&d); !n.Valid || n.Float64 != 0.5 {
		t.Fatalf("unexpected value: %+v", n)
	}
}
