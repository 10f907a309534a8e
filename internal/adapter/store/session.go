package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"docsearch/internal/domain"
)

// ErrSessionClosed means Upsert or Commit was called on a session that
// already committed or rolled back.
var ErrSessionClosed = errors.New("writer session closed")

// Session is an exclusive writer session. Upserts are staged in memory
// and made durable, and visible to new snapshots, by a single Commit.
type Session struct {
	store  *Store
	staged map[string]domain.PageRecord
	order  []string
	closed bool
}

// Begin acquires the writer slot. At most one session is open at a time;
// a concurrent attempt fails fast with ErrWriterBusy rather than queueing.
func (s *Store) Begin() (*Session, error) {
	if !s.writer.TryLock() {
		return nil, ErrWriterBusy
	}
	return &Session{
		store:  s,
		staged: make(map[string]domain.PageRecord),
	}, nil
}

// Upsert stages an insert-or-replace of the record keyed by its ID.
// Staging the same ID twice keeps the later record.
func (sess *Session) Upsert(rec domain.PageRecord) error {
	if sess.closed {
		return ErrSessionClosed
	}
	if _, ok := sess.staged[rec.ID]; !ok {
		sess.order = append(sess.order, rec.ID)
	}
	sess.staged[rec.ID] = rec
	return nil
}

// Rollback discards all staged records and releases the writer slot.
// Safe to call after Commit.
func (sess *Session) Rollback() {
	if sess.closed {
		return
	}
	sess.closed = true
	sess.staged = nil
	sess.store.writer.Unlock()
}

// Commit applies every staged upsert in one database transaction. Either
// the whole batch becomes visible to snapshots opened afterwards, or, on
// failure, none of it does and the prior committed state stands.
func (sess *Session) Commit() error {
	if sess.closed {
		return ErrSessionClosed
	}
	defer sess.Rollback()

	err := sess.store.db.Update(func(tx *bbolt.Tx) error {
		pages := tx.Bucket(bucketPages)
		terms := tx.Bucket(bucketTerms)
		statsB := tx.Bucket(bucketStats)

		stats, err := readStats(statsB)
		if err != nil {
			return err
		}
		seq, err := readSeq(statsB)
		if err != nil {
			return err
		}

		// Postings are rewritten once per touched term, after all staged
		// records have contributed their removals and additions.
		removals := make(map[string]map[string]bool)
		additions := make(map[string][]domain.Posting)

		for _, id := range sess.order {
			rec := sess.staged[id]

			recSeq := seq + 1
			if data := pages.Get([]byte(id)); data != nil {
				var old pageMeta
				if err := json.Unmarshal(data, &old); err != nil {
					return fmt.Errorf("corrupt page meta for %s: %w", id, err)
				}
				for _, term := range old.Terms {
					if removals[term] == nil {
						removals[term] = make(map[string]bool)
					}
					removals[term][id] = true
				}
				stats.TotalPages--
				stats.TotalTokens -= old.Length
				recSeq = old.Seq
			} else {
				seq++
			}

			positions := make(map[string][]int)
			for pos, token := range rec.Tokens {
				positions[token] = append(positions[token], pos)
			}

			uniqueTerms := make([]string, 0, len(positions))
			for term, pos := range positions {
				uniqueTerms = append(uniqueTerms, term)
				additions[term] = append(additions[term], domain.Posting{
					DocID:     id,
					TF:        len(pos),
					Positions: pos,
				})
			}

			meta := pageMeta{
				Filename: rec.Filename,
				Title:    rec.Title,
				Page:     rec.Page,
				Length:   len(rec.Tokens),
				Seq:      recSeq,
				Terms:    uniqueTerms,
			}
			data, err := json.Marshal(meta)
			if err != nil {
				return err
			}
			if err := pages.Put([]byte(id), data); err != nil {
				return err
			}

			stats.TotalPages++
			stats.TotalTokens += len(rec.Tokens)
		}

		touched := make(map[string]bool, len(removals)+len(additions))
		for term := range removals {
			touched[term] = true
		}
		for term := range additions {
			touched[term] = true
		}

		for term := range touched {
			var postings []domain.Posting
			if data := terms.Get([]byte(term)); data != nil {
				if err := json.Unmarshal(data, &postings); err != nil {
					return fmt.Errorf("corrupt postings for %q: %w", term, err)
				}
			}

			if removed := removals[term]; removed != nil {
				filtered := postings[:0]
				for _, p := range postings {
					if !removed[p.DocID] {
						filtered = append(filtered, p)
					}
				}
				postings = filtered
			}
			postings = append(postings, additions[term]...)

			if len(postings) == 0 {
				if err := terms.Delete([]byte(term)); err != nil {
					return err
				}
				continue
			}
			data, err := json.Marshal(postings)
			if err != nil {
				return err
			}
			if err := terms.Put([]byte(term), data); err != nil {
				return err
			}
		}

		if stats.TotalPages > 0 {
			stats.AvgPageLen = float64(stats.TotalTokens) / float64(stats.TotalPages)
		} else {
			stats.AvgPageLen = 0
		}
		if err := writeStats(statsB, stats); err != nil {
			return err
		}
		return writeSeq(statsB, seq)
	})
	if err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func readStats(b *bbolt.Bucket) (domain.Stats, error) {
	var stats domain.Stats
	if data := b.Get(keyStats); data != nil {
		if err := json.Unmarshal(data, &stats); err != nil {
			return stats, fmt.Errorf("corrupt corpus stats: %w", err)
		}
	}
	return stats, nil
}

func writeStats(b *bbolt.Bucket, stats domain.Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return b.Put(keyStats, data)
}

func readSeq(b *bbolt.Bucket) (uint64, error) {
	var seq uint64
	if data := b.Get(keySeq); data != nil {
		if err := json.Unmarshal(data, &seq); err != nil {
			return 0, fmt.Errorf("corrupt insert sequence: %w", err)
		}
	}
	return seq, nil
}

func writeSeq(b *bbolt.Bucket, seq uint64) error {
	data, err := json.Marshal(seq)
	if err != nil {
		return err
	}
	return b.Put(keySeq, data)
}
