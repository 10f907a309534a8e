// Package schema holds the fixed field definitions of the page index.
// The field set is versionless and never mutated at runtime; an index is
// bound to it at creation and a differing on-disk schema is a mismatch,
// not a migration.
package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Kind is the storage type of a field.
type Kind string

const (
	KindID      Kind = "id"
	KindText    Kind = "text"
	KindNumeric Kind = "numeric"
	KindStored  Kind = "stored"
)

// Field describes one indexed field.
type Field struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	Unique    bool   `json:"unique"`
	Stored    bool   `json:"stored"`
	Tokenized bool   `json:"tokenized"`
}

// Field names used by writer and searcher.
const (
	FieldDocID    = "doc_id"
	FieldFilename = "filename"
	FieldTitle    = "title"
	FieldPage     = "page"
	FieldContent  = "content"
)

// Fields is the authoritative field set: one record per page of a source
// file. Content is searchable but not stored.
func Fields() []Field {
	return []Field{
		{Name: FieldDocID, Kind: KindID, Unique: true, Stored: true},
		{Name: FieldFilename, Kind: KindStored, Stored: true},
		{Name: FieldTitle, Kind: KindText, Stored: true, Tokenized: true},
		{Name: FieldPage, Kind: KindNumeric, Stored: true},
		{Name: FieldContent, Kind: KindText, Tokenized: true},
	}
}

// Fingerprint returns a stable hex digest of the field set. The store
// persists it at creation and compares it on open.
func Fingerprint() string {
	data, _ := json.Marshal(Fields())
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
