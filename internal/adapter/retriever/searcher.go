package retriever

import (
	"fmt"
	"math"
	"sort"

	"docsearch/internal/adapter/store"
	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// Searcher executes parsed queries against the index store. Every call
// runs on a fresh snapshot, so results reflect exactly one committed
// state regardless of concurrent writes.
type Searcher struct {
	store     *store.Store
	tokenizer port.Tokenizer
	k1        float64
	b         float64
}

func NewSearcher(st *store.Store, tokenizer port.Tokenizer, k1, b float64) *Searcher {
	return &Searcher{
		store:     st,
		tokenizer: tokenizer,
		k1:        k1,
		b:         b,
	}
}

// candidate is a page matching all query terms, with the positions of
// each term in query order.
type candidate struct {
	positions [][]int
	tfs       []int
}

// Search returns at most limit hits for the query, best first. Term
// queries are conjunctive; phrase queries additionally require the terms
// to appear adjacent and in order. Zero hits is a successful result.
func (r *Searcher) Search(q domain.Query, limit int) ([]domain.Hit, error) {
	terms := r.normalize(q.Terms)
	if len(terms) == 0 {
		return nil, nil
	}

	snap, err := r.store.Snapshot()
	if err != nil {
		return nil, err
	}
	defer snap.Close()

	stats, err := snap.Stats()
	if err != nil {
		return nil, err
	}
	if stats.TotalPages == 0 {
		return nil, nil
	}

	lists := make([][]domain.Posting, len(terms))
	for i, term := range terms {
		postings, err := snap.Postings(term)
		if err != nil {
			return nil, err
		}
		if len(postings) == 0 {
			// All terms are required, so one missing term ends the query.
			return nil, nil
		}
		lists[i] = postings
	}

	candidates := intersect(lists)
	if q.Phrase && len(terms) > 1 {
		for id, c := range candidates {
			if countPhraseRuns(c.positions) == 0 {
				delete(candidates, id)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	type scored struct {
		info  domain.PageInfo
		score float64
	}
	results := make([]scored, 0, len(candidates))
	for id, c := range candidates {
		info, err := snap.Page(id)
		if err != nil {
			return nil, fmt.Errorf("posting for unknown page: %w", err)
		}
		score := 0.0
		for i := range terms {
			score += r.bm25(c.tfs[i], len(lists[i]), info.Length, stats)
		}
		results = append(results, scored{info: info, score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].info.Seq < results[j].info.Seq
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	hits := make([]domain.Hit, len(results))
	for i, res := range results {
		hits[i] = domain.Hit{
			Title:    res.info.Title,
			Filename: res.info.Filename,
			Page:     res.info.Page,
			Score:    res.score,
		}
	}
	return hits, nil
}

// normalize runs the raw parsed terms through the indexing tokenizer so
// both sides of the index agree on term form.
func (r *Searcher) normalize(raw []string) []string {
	var terms []string
	for _, t := range raw {
		terms = append(terms, r.tokenizer.Tokenize(t)...)
	}
	return terms
}

// bm25 scores one term occurrence in one page.
func (r *Searcher) bm25(tf, docFreq, pageLen int, stats domain.Stats) float64 {
	n := float64(docFreq)
	N := float64(stats.TotalPages)
	idf := math.Log((N-n+0.5)/(n+0.5) + 1)

	dl := float64(pageLen)
	avgDl := stats.AvgPageLen
	if avgDl == 0 {
		avgDl = 1
	}
	f := float64(tf)
	return idf * (f * (r.k1 + 1)) / (f + r.k1*(1-r.b+r.b*dl/avgDl))
}

// intersect keeps only pages present in every posting list.
func intersect(lists [][]domain.Posting) map[string]*candidate {
	candidates := make(map[string]*candidate, len(lists[0]))
	for _, p := range lists[0] {
		c := &candidate{
			positions: make([][]int, len(lists)),
			tfs:       make([]int, len(lists)),
		}
		c.positions[0] = p.Positions
		c.tfs[0] = p.TF
		candidates[p.DocID] = c
	}

	for i := 1; i < len(lists); i++ {
		seen := make(map[string]bool, len(lists[i]))
		for _, p := range lists[i] {
			c, ok := candidates[p.DocID]
			if !ok {
				continue
			}
			c.positions[i] = p.Positions
			c.tfs[i] = p.TF
			seen[p.DocID] = true
		}
		for id := range candidates {
			if !seen[id] {
				delete(candidates, id)
			}
		}
	}
	return candidates
}

// countPhraseRuns counts start positions where every term of the phrase
// occurs at consecutive positions. Co-occurrence alone does not match.
func countPhraseRuns(positions [][]int) int {
	starts := positions[0]
	for i := 1; i < len(positions) && len(starts) > 0; i++ {
		next := make(map[int]bool, len(positions[i]))
		for _, p := range positions[i] {
			next[p] = true
		}
		surviving := make([]int, 0, len(starts))
		for _, s := range starts {
			if next[s+i] {
				surviving = append(surviving, s)
			}
		}
		starts = surviving
	}
	return len(starts)
}
