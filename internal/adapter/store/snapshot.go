package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"docsearch/internal/domain"
)

// Snapshot is a consistent read-only view of the index as of the most
// recent commit. It stays unaffected by later writes until closed.
type Snapshot struct {
	tx *bbolt.Tx
}

// Snapshot opens a new read view. The caller must Close it.
func (s *Store) Snapshot() (*Snapshot, error) {
	tx, err := s.db.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	return &Snapshot{tx: tx}, nil
}

// Close releases the snapshot.
func (sn *Snapshot) Close() error {
	return sn.tx.Rollback()
}

// Page returns the stored fields of an indexed page.
func (sn *Snapshot) Page(id string) (domain.PageInfo, error) {
	data := sn.tx.Bucket(bucketPages).Get([]byte(id))
	if data == nil {
		return domain.PageInfo{}, fmt.Errorf("page not found: %s", id)
	}
	var meta pageMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return domain.PageInfo{}, fmt.Errorf("corrupt page meta for %s: %w", id, err)
	}
	return meta.toInfo(id), nil
}

// Postings returns the posting list of a term, or nil for an unknown term.
func (sn *Snapshot) Postings(term string) ([]domain.Posting, error) {
	data := sn.tx.Bucket(bucketTerms).Get([]byte(term))
	if data == nil {
		return nil, nil
	}
	var postings []domain.Posting
	if err := json.Unmarshal(data, &postings); err != nil {
		return nil, fmt.Errorf("corrupt postings for %q: %w", term, err)
	}
	return postings, nil
}

// Stats returns the corpus stats as of the snapshot.
func (sn *Snapshot) Stats() (domain.Stats, error) {
	return readStats(sn.tx.Bucket(bucketStats))
}
