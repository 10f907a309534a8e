// Package store owns the persisted inverted index. All reads go through
// point-in-time snapshots and all writes go through a single exclusive
// writer session, so readers never observe a half-committed batch.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.etcd.io/bbolt"

	"docsearch/internal/domain"
	"docsearch/internal/schema"
)

var (
	bucketPages  = []byte("pages")
	bucketTerms  = []byte("terms")
	bucketStats  = []byte("stats")
	bucketSchema = []byte("schema")

	keyStats       = []byte("corpus_stats")
	keySeq         = []byte("insert_seq")
	keyFingerprint = []byte("fingerprint")
	keyFields      = []byte("fields")
)

var (
	// ErrSchemaMismatch means the on-disk index was created with a
	// different field set. The index is unusable until rebuilt.
	ErrSchemaMismatch = errors.New("index schema mismatch")

	// ErrWriterBusy means another writer session is open. The caller may
	// retry once it finishes; writes are never queued.
	ErrWriterBusy = errors.New("index writer busy")
)

// Store is a schema-bound inverted index persisted in a bbolt database.
type Store struct {
	db     *bbolt.DB
	writer sync.Mutex
}

// Open opens the index database at path, creating it if necessary. A new
// database is bound to the fixed schema; an existing one must carry the
// same schema fingerprint or Open fails with ErrSchemaMismatch.
func Open(path string) (*Store, error) {
	// Snapshots hold a read transaction open while the writer commits.
	// Pre-size the mmap so a commit that grows the file never has to
	// remap, which would deadlock against an open read transaction.
	db, err := bbolt.Open(path, 0600, &bbolt.Options{InitialMmapSize: 1 << 30})
	if err != nil {
		return nil, fmt.Errorf("failed to open index db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketPages, bucketTerms, bucketStats, bucketSchema}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}

		sb := tx.Bucket(bucketSchema)
		want := schema.Fingerprint()
		if got := sb.Get(keyFingerprint); got != nil {
			if string(got) != want {
				return fmt.Errorf("%w: index has %s, expected %s", ErrSchemaMismatch, got, want)
			}
			return nil
		}

		fields, err := json.Marshal(schema.Fields())
		if err != nil {
			return err
		}
		if err := sb.Put(keyFields, fields); err != nil {
			return err
		}
		return sb.Put(keyFingerprint, []byte(want))
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// DB exposes the underlying database for tests.
func (s *Store) DB() *bbolt.DB {
	return s.db
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Clear removes all indexed pages, postings, and stats, keeping the
// schema binding. Used for full rebuilds; the only way stale records of
// renamed or removed files ever leave the index.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPages, bucketTerms, bucketStats} {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

// pageMeta is the persisted form of an indexed page. Terms keeps the
// page's unique terms so an upsert can remove the old postings; token
// order is not kept, so content cannot be read back out of the index.
type pageMeta struct {
	Filename string   `json:"filename"`
	Title    string   `json:"title"`
	Page     int      `json:"page"`
	Length   int      `json:"length"`
	Seq      uint64   `json:"seq"`
	Terms    []string `json:"terms"`
}

func (m pageMeta) toInfo(id string) domain.PageInfo {
	return domain.PageInfo{
		ID:       id,
		Filename: m.Filename,
		Title:    m.Title,
		Page:     m.Page,
		Length:   m.Length,
		Seq:      m.Seq,
	}
}
