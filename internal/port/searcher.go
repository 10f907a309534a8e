package port

import "docsearch/internal/domain"

// Searcher executes a parsed query and returns at most limit hits,
// best first.
type Searcher interface {
	Search(q domain.Query, limit int) ([]domain.Hit, error)
}
