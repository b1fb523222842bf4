package queries

import (
	"fulfillment/internal/pkg/cursor"
	"fulfillment/internal/pkg/errs"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// page holds the pagination inputs shared by the list queries.
type page struct {
	after *cursor.Key
	limit int
}

// newPage decodes token and applies the default limit when limit is zero.
func newPage(token string, limit int) (page, error) {
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 1 || limit > MaxPageLimit {
		return page{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageLimit)
	}

	after, err := cursor.Decode(token)
	if err != nil {
		return page{}, err
	}

	return page{after: after, limit: limit}, nil
}

func (p page) Limit() int {
	return p.limit
}

// After is the position the page starts after, or nil for the first page.
func (p page) After() *cursor.Key {
	return p.after
}
