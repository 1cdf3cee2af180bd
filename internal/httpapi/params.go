package httpapi

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"telephony-log/internal/conversations"
)

// parseListQuery reads pagination and filters from query parameters.
// Dates are RFC 3339; statuses may repeat or be comma separated.
// Returns nil pagination/filters when the request names none of their keys.
func parseListQuery(q url.Values) (*conversations.Pagination, *conversations.Filters, error) {
	var p *conversations.Pagination
	if has(q, "page", "limit", "all") {
		p = &conversations.Pagination{}
		var err error
		if p.Page, err = intParam(q, "page"); err != nil {
			return nil, nil, err
		}
		if p.Limit, err = intParam(q, "limit"); err != nil {
			return nil, nil, err
		}
		all, err := boolParam(q, "all")
		if err != nil {
			return nil, nil, err
		}
		p.All = all != nil && *all
	}

	if !has(q, "direction", "startDate", "endDate", "search", "statuses", "callerNumber", "calleeNumber", "isArchived") {
		return p, nil, nil
	}

	f := &conversations.Filters{
		Direction:    conversations.Direction(strings.TrimSpace(q.Get("direction"))),
		Search:       q.Get("search"),
		CallerNumber: q.Get("callerNumber"),
		CalleeNumber: q.Get("calleeNumber"),
	}
	var err error
	if f.StartDate, err = timeParam(q, "startDate"); err != nil {
		return nil, nil, err
	}
	if f.EndDate, err = timeParam(q, "endDate"); err != nil {
		return nil, nil, err
	}
	if f.IsArchived, err = boolParam(q, "isArchived"); err != nil {
		return nil, nil, err
	}
	for _, raw := range q["statuses"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.Statuses = append(f.Statuses, conversations.Status(s))
			}
		}
	}
	return p, f, nil
}

func has(q url.Values, keys ...string) bool {
	for _, k := range keys {
		if _, ok := q[k]; ok {
			return true
		}
	}
	return false
}

func badParam(key, rule string) error {
	return &conversations.ValidationError{Fields: []conversations.FieldError{{Field: key, Rule: rule}}}
}

func intParam(q url.Values, key string) (int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badParam(key, "int")
	}
	return n, nil
}

func boolParam(q url.Values, key string) (*bool, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, badParam(key, "boolean")
	}
	return &b, nil
}

func timeParam(q url.Values, key string) (*time.Time, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, badParam(key, "rfc3339")
	}
	return &t, nil
}
