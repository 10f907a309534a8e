package domain

// PageRecord is one page of a source document, as handed to the writer.
// Tokens is the tokenized content; the raw text itself is never persisted.
type PageRecord struct {
	ID       string
	Filename string
	Title    string
	Page     int
	Tokens   []string
}

// PageInfo is the stored view of an indexed page: everything retrievable
// from the index about a page except its content.
type PageInfo struct {
	ID       string
	Filename string
	Title    string
	Page     int
	Length   int
	Seq      uint64
}

// Posting records one page containing a term, with the 0-based token
// positions the term occurs at. Positions make phrase adjacency checks
// possible without stored content.
type Posting struct {
	DocID     string `json:"doc_id"`
	TF        int    `json:"tf"`
	Positions []int  `json:"positions"`
}

// Query is a parsed search request. A Phrase query requires its terms to
// appear adjacent and in order; a non-phrase query requires all terms to
// be present.
type Query struct {
	Raw    string
	Terms  []string
	Phrase bool
}

// Empty reports whether the query carries no terms at all.
func (q Query) Empty() bool {
	return len(q.Terms) == 0
}

// Hit is a single search result.
type Hit struct {
	Title    string  `json:"title"`
	Filename string  `json:"filename"`
	Page     int     `json:"page"`
	Score    float64 `json:"score"`
}

// Stats holds corpus-wide counters used for ranking.
type Stats struct {
	TotalPages  int
	TotalTokens int
	AvgPageLen  float64
}

// PageText is one page of extracted text, 1-based.
type PageText struct {
	Page int
	Text string
}
