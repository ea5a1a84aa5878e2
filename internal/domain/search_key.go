package domain

import (
	"fmt"
	"strings"
)

// SearchKey identifies a cached result page. Build it with NewSearchKey so
// that logically identical requests always map to the same key.
type SearchKey struct {
	Query    string
	Location string
	Page     int
	Limit    int
}

// NewSearchKey trims both text parts, collapses inner whitespace to a single
// space and lower-cases them.
func NewSearchKey(query, location string, page, limit int) SearchKey {
	return SearchKey{
		Query:    normalizeKeyPart(query),
		Location: normalizeKeyPart(location),
		Page:     page,
		Limit:    limit,
	}
}

// String renders the key. Text parts are quoted so a separator inside a value
// cannot make two different keys collide.
func (k SearchKey) String() string {
	return fmt.Sprintf("%q|%q|%d|%d", k.Query, k.Location, k.Page, k.Limit)
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
