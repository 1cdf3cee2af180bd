package conversations

import (
	"math"
	"testing"
)

func TestNormalizePagination_Defaults(t *testing.T) {
	got := normalizePagination(nil)
	if got.Page != 1 || got.Limit != 10 || got.All {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	got = normalizePagination(&Pagination{Page: 0, Limit: 0, All: true})
	if got.Page != 1 || got.Limit != 10 || !got.All {
		t.Fatalf("expected defaults with all preserved, got %+v", got)
	}
	got = normalizePagination(&Pagination{Page: 3, Limit: 25})
	if got.Page != 3 || got.Limit != 25 {
		t.Fatalf("expected explicit values kept, got %+v", got)
	}
}

func TestPageMetadata_25DocsLimit10(t *testing.T) {
	first := pageMetadata(25, Pagination{Page: 1, Limit: 10})
	if first.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", first.TotalPages)
	}
	if first.PrevPage != nil {
		t.Fatalf("page 1 must not have prevPage, got %d", *first.PrevPage)
	}
	if first.NextPage == nil || *first.NextPage != 2 {
		t.Fatalf("expected nextPage 2, got %v", first.NextPage)
	}

	middle := pageMetadata(25, Pagination{Page: 2, Limit: 10})
	if middle.PrevPage == nil || *middle.PrevPage != 1 || middle.NextPage == nil || *middle.NextPage != 3 {
		t.Fatalf("unexpected middle page navigation: %+v", middle)
	}

	last := pageMetadata(25, Pagination{Page: 3, Limit: 10})
	if last.PrevPage == nil || *last.PrevPage != 2 {
		t.Fatalf("expected prevPage 2, got %v", last.PrevPage)
	}
	if last.NextPage != nil {
		t.Fatalf("last page must not have nextPage, got %d", *last.NextPage)
	}
	if last.TotalDocs != 25 || last.Limit != 10 || last.Page != 3 {
		t.Fatalf("unexpected echo fields: %+v", last)
	}
}

func TestPageMetadata_EmptyResultIsOnePage(t *testing.T) {
	m := pageMetadata(0, Pagination{Page: 1, Limit: 10})
	if m.TotalDocs != 0 || m.TotalPages != 1 || m.PrevPage != nil || m.NextPage != nil {
		t.Fatalf("unexpected metadata for empty result: %+v", m)
	}
}

func TestPageMetadata_ExactMultiple(t *testing.T) {
	m := pageMetadata(20, Pagination{Page: 2, Limit: 10})
	if m.TotalPages != 2 || m.NextPage != nil {
		t.Fatalf("expected 2 pages and no next, got %+v", m)
	}
}

func TestPageMetadata_AllModeIsSinglePage(t *testing.T) {
	m := pageMetadata(25, Pagination{Page: 2, Limit: 10, All: true})
	if m.TotalPages != 1 {
		t.Fatalf("expected totalPages 1 in all mode, got %d", m.TotalPages)
	}
	if m.Page != 2 || m.Limit != 10 {
		t.Fatalf("expected page/limit echoed, got %+v", m)
	}
	if m.PrevPage != nil || m.NextPage != nil {
		t.Fatalf("all mode has no navigation, got %+v", m)
	}
}

func TestPageOffset_Overflow(t *testing.T) {
	if off, ok := pageOffset(3, 10); !ok || off != 20 {
		t.Fatalf("expected offset 20, got %d %v", off, ok)
	}
	if _, ok := pageOffset(math.MaxInt/2+2, 2); ok {
		t.Fatalf("expected overflow to be reported")
	}
	if _, ok := pageOffset(math.MaxInt, math.MaxInt); ok {
		t.Fatalf("expected overflow to be reported")
	}
}
