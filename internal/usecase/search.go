package usecase

import (
	"strings"

	"docsearch/internal/adapter/cache"
	"docsearch/internal/domain"
	"docsearch/internal/port"
	"docsearch/internal/query"
)

// DefaultLimit is the result cap used when the caller passes none.
const DefaultLimit = 20

// SearchUseCase handles the query path: parse, check the cache, execute.
type SearchUseCase struct {
	searcher port.Searcher
	cache    *cache.HitCache
}

// NewSearchUseCase creates a new search use case. The cache may be nil.
func NewSearchUseCase(searcher port.Searcher, hitCache *cache.HitCache) *SearchUseCase {
	return &SearchUseCase{
		searcher: searcher,
		cache:    hitCache,
	}
}

// Query parses and executes a raw query string. An empty or blank string
// returns no hits without touching the parser or the index; a malformed
// string fails with *query.ParseError, which callers must surface as an
// error state, not as zero results.
func (u *SearchUseCase) Query(raw string, limit int) ([]domain.Hit, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	if u.cache != nil {
		if hits, ok := u.cache.Get(raw, limit); ok {
			return hits, nil
		}
	}

	parsed, err := query.Parse(raw)
	if err != nil {
		return nil, err
	}
	if parsed.Empty() {
		return nil, nil
	}

	hits, err := u.searcher.Search(parsed, limit)
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		u.cache.Put(raw, limit, hits)
	}
	return hits, nil
}
