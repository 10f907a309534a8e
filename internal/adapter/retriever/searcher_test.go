package retriever

import (
	"fmt"
	"path/filepath"
	"testing"

	"docsearch/internal/adapter/analyzer"
	"docsearch/internal/adapter/store"
	"docsearch/internal/domain"
	"docsearch/internal/query"
)

func newTestSearcher(t *testing.T) (*Searcher, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return NewSearcher(st, analyzer.NewTokenizer(), 1.2, 0.75), st
}

func indexPages(t *testing.T, st *store.Store, recs ...domain.PageRecord) {
	t.Helper()
	sess, err := st.Begin()
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range recs {
		if err := sess.Upsert(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := sess.Commit(); err != nil {
		t.Fatal(err)
	}
}

func page(id, filename string, num int, tokens ...string) domain.PageRecord {
	return domain.PageRecord{
		ID:       id,
		Filename: filename,
		Title:    filename,
		Page:     num,
		Tokens:   tokens,
	}
}

func TestSearch_PhrasePrecision(t *testing.T) {
	searcher, st := newTestSearcher(t)

	// alpha and beta co-occur on the first two pages but are adjacent
	// only on the third.
	indexPages(t, st,
		page("p1", "a.pdf", 1, "alpha", "filler", "beta"),
		page("p2", "b.pdf", 1, "beta", "then", "later", "alpha"),
		page("p3", "c.pdf", 1, "intro", "alpha", "beta", "outro"),
	)

	hits, err := searcher.Search(domain.Query{Terms: []string{"alpha", "beta"}, Phrase: true}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected exactly 1 phrase match, got %d", len(hits))
	}
	if hits[0].Filename != "c.pdf" || hits[0].Page != 1 {
		t.Errorf("expected hit on c.pdf page 1, got %s page %d", hits[0].Filename, hits[0].Page)
	}
}

func TestSearch_PhraseOrderMatters(t *testing.T) {
	searcher, st := newTestSearcher(t)

	indexPages(t, st,
		page("p1", "a.pdf", 1, "beta", "alpha"),
	)

	hits, err := searcher.Search(domain.Query{Terms: []string{"alpha", "beta"}, Phrase: true}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("reversed order must not match a phrase, got %d hits", len(hits))
	}
}

func TestSearch_AutoPhraseEqualsExplicit(t *testing.T) {
	searcher, st := newTestSearcher(t)

	indexPages(t, st,
		page("p1", "a.pdf", 1, "alpha", "filler", "beta"),
		page("p2", "b.pdf", 2, "beta", "alpha"),
		page("p3", "c.pdf", 3, "alpha", "beta"),
	)

	auto, err := query.Parse("alpha beta")
	if err != nil {
		t.Fatal(err)
	}
	explicit, err := query.Parse(`"alpha beta"`)
	if err != nil {
		t.Fatal(err)
	}

	autoHits, err := searcher.Search(auto, 10)
	if err != nil {
		t.Fatal(err)
	}
	explicitHits, err := searcher.Search(explicit, 10)
	if err != nil {
		t.Fatal(err)
	}

	if len(autoHits) != len(explicitHits) {
		t.Fatalf("auto-phrase returned %d hits, explicit phrase %d", len(autoHits), len(explicitHits))
	}
	for i := range autoHits {
		if autoHits[i] != explicitHits[i] {
			t.Errorf("hit %d differs: %+v vs %+v", i, autoHits[i], explicitHits[i])
		}
	}
	if len(autoHits) != 1 || autoHits[0].Filename != "c.pdf" {
		t.Errorf("expected the single adjacent page, got %+v", autoHits)
	}
}

func TestSearch_TermConjunction(t *testing.T) {
	searcher, st := newTestSearcher(t)

	indexPages(t, st,
		page("p1", "a.pdf", 1, "alpha", "beta"),
		page("p2", "b.pdf", 1, "alpha"),
	)

	hits, err := searcher.Search(domain.Query{Terms: []string{"alpha", "beta"}, Phrase: false}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Filename != "a.pdf" {
		t.Errorf("conjunctive query should match only the page with all terms, got %+v", hits)
	}
}

func TestSearch_RoundTripStoredFields(t *testing.T) {
	searcher, st := newTestSearcher(t)

	indexPages(t, st,
		page("p1", "report.pdf", 1, "general", "words"),
		page("p2", "report.pdf", 2, "general", "uniqueterm"),
		page("p3", "other.pdf", 7, "general", "content"),
	)

	hits, err := searcher.Search(domain.Query{Terms: []string{"uniqueterm"}}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	h := hits[0]
	if h.Filename != "report.pdf" || h.Page != 2 || h.Title != "report.pdf" {
		t.Errorf("stored fields wrong: %+v", h)
	}
}

func TestSearch_ResultCap(t *testing.T) {
	searcher, st := newTestSearcher(t)

	recs := make([]domain.PageRecord, 0, 30)
	for i := 1; i <= 30; i++ {
		recs = append(recs, page(
			fmt.Sprintf("p%d", i),
			fmt.Sprintf("doc%d.pdf", i),
			1,
			"common", "term",
		))
	}
	indexPages(t, st, recs...)

	hits, err := searcher.Search(domain.Query{Terms: []string{"common"}}, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 20 {
		t.Errorf("expected exactly 20 hits, got %d", len(hits))
	}
}

func TestSearch_RankingAndTieBreak(t *testing.T) {
	searcher, st := newTestSearcher(t)

	// p2 mentions the term more often in the same page length, so it
	// must score higher; p1 and p3 tie and fall back to insertion order.
	indexPages(t, st,
		page("p1", "a.pdf", 1, "alpha", "x", "y", "z"),
		page("p2", "b.pdf", 1, "alpha", "alpha", "y", "z"),
		page("p3", "c.pdf", 1, "alpha", "x", "y", "z"),
	)

	hits, err := searcher.Search(domain.Query{Terms: []string{"alpha"}}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].Filename != "b.pdf" {
		t.Errorf("expected b.pdf first, got %s", hits[0].Filename)
	}
	if hits[1].Filename != "a.pdf" || hits[2].Filename != "c.pdf" {
		t.Errorf("expected tied hits in insertion order a.pdf, c.pdf; got %s, %s",
			hits[1].Filename, hits[2].Filename)
	}
}

func TestSearch_NoMatchesAndEmpty(t *testing.T) {
	searcher, st := newTestSearcher(t)

	indexPages(t, st, page("p1", "a.pdf", 1, "alpha"))

	hits, err := searcher.Search(domain.Query{Terms: []string{"missing"}}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("expected zero hits for unknown term, got %d", len(hits))
	}

	hits, err = searcher.Search(domain.Query{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("expected zero hits for empty query, got %d", len(hits))
	}
}

func TestSearch_NormalizesQueryTerms(t *testing.T) {
	searcher, st := newTestSearcher(t)

	indexPages(t, st, page("p1", "a.pdf", 1, "alpha", "beta"))

	// Mixed case in the query must match lowercased index terms.
	hits, err := searcher.Search(domain.Query{Terms: []string{"Alpha", "BETA"}, Phrase: true}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Errorf("expected case-insensitive match, got %d hits", len(hits))
	}
}
