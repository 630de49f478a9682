package library

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"shelf/internal/domain"
)

// Filter returns the entries whose names fuzzy-match query, best matches
// first. An empty query returns the full list in server order.
func (s *Store) Filter(query string) []domain.Entry {
	entries := s.Entries()

	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	out := make([]domain.Entry, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, entries[r.OriginalIndex])
	}
	return out
}
