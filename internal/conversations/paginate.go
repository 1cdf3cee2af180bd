package conversations

import (
	"context"
	"math"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// normalizePagination applies defaults. A nil request means page 1 of 10.
func normalizePagination(p *Pagination) Pagination {
	out := Pagination{Page: DefaultPage, Limit: DefaultLimit}
	if p == nil {
		return out
	}
	if p.Page > 0 {
		out.Page = p.Page
	}
	if p.Limit > 0 {
		out.Limit = p.Limit
	}
	out.All = p.All
	return out
}

// paginate counts and fetches one page of pred in sort order.
func paginate(ctx context.Context, store Store, pred Predicate, sort []SortKey, p *Pagination) (Connection, error) {
	req := normalizePagination(p)

	total, err := store.Count(ctx, pred)
	if err != nil {
		return Connection{}, err
	}

	opts := FindOptions{Sort: sort}
	if !req.All {
		offset, ok := pageOffset(req.Page, req.Limit)
		if !ok || offset >= total {
			return Connection{Data: []Conversation{}, Metadata: pageMetadata(total, req)}, nil
		}
		opts.Offset = offset
		opts.Limit = req.Limit
	}
	docs, err := store.Find(ctx, pred, opts)
	if err != nil {
		return Connection{}, err
	}
	if docs == nil {
		docs = []Conversation{}
	}
	return Connection{Data: docs, Metadata: pageMetadata(total, req)}, nil
}

// pageMetadata derives navigation for a normalized request.
//
// totalPages is ceil(total/limit) with a floor of 1, so an empty result still
// reports a single (empty) page. In "all" mode the result is one page and
// page/limit are echoed as requested.
func pageMetadata(total int, req Pagination) PageMetadata {
	m := PageMetadata{TotalDocs: total, Limit: req.Limit, Page: req.Page}
	if req.All {
		m.TotalPages = 1
		return m
	}

	m.TotalPages = (total + req.Limit - 1) / req.Limit
	if m.TotalPages < 1 {
		m.TotalPages = 1
	}
	if req.Page > 1 {
		prev := req.Page - 1
		m.PrevPage = &prev
	}
	if req.Page < m.TotalPages {
		next := req.Page + 1
		m.NextPage = &next
	}
	return m
}

// pageOffset returns (page-1)*limit, or false when it does not fit in an int.
// Both arguments are positive after normalization.
func pageOffset(page, limit int) (int, bool) {
	if page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}
