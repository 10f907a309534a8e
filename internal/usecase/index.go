package usecase

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log"
	"path/filepath"
	"strconv"

	"docsearch/internal/adapter/store"
	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// IndexUseCase runs the ingestion pipeline: discover files, extract page
// text, and upsert one record per page into the index store.
type IndexUseCase struct {
	store     *store.Store
	walker    port.FileWalker
	source    port.PageSource
	tokenizer port.Tokenizer
}

// NewIndexUseCase creates a new index use case.
func NewIndexUseCase(
	st *store.Store,
	walker port.FileWalker,
	source port.PageSource,
	tokenizer port.Tokenizer,
) *IndexUseCase {
	return &IndexUseCase{
		store:     st,
		walker:    walker,
		source:    source,
		tokenizer: tokenizer,
	}
}

// IndexResult contains the results of an ingestion run.
type IndexResult struct {
	FilesIndexed int
	FilesSkipped int
	PagesIndexed int
	Warnings     []string
}

// ProgressFunc reports ingestion progress to the caller.
type ProgressFunc func(processed, total int, currentFile string)

// Index ingests every discovered file under root. All upserts of the run
// share one writer session and one commit, so concurrent readers either
// see the corpus as it was before the run or the whole run, never a
// half-indexed state. A file that cannot be read is skipped and the run
// continues; re-running over unchanged content upserts to identical
// records.
func (u *IndexUseCase) Index(root string, progress ProgressFunc) (*IndexResult, error) {
	result := &IndexResult{}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	session, err := u.store.Begin()
	if err != nil {
		return nil, err
	}
	defer session.Rollback()

	for i, file := range files {
		pages, err := u.source.Pages(file.Path)
		if err != nil {
			log.Printf("skipping %s: %v", file.Path, err)
			result.FilesSkipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("skipped %s: %v", file.Path, err))
			continue
		}

		// Folder path is discarded on purpose: records stay portable and
		// the filename doubles as the display title.
		filename := filepath.Base(file.Path)

		for _, page := range pages {
			rec := domain.PageRecord{
				ID:       PageID(filename, page.Page),
				Filename: filename,
				Title:    filename,
				Page:     page.Page,
				Tokens:   u.tokenizer.Tokenize(page.Text),
			}
			if err := session.Upsert(rec); err != nil {
				return nil, err
			}
			result.PagesIndexed++
		}
		result.FilesIndexed++

		if progress != nil {
			progress(i+1, len(files), file.Path)
		}
	}

	if err := session.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// PageID derives the stable identifier of a (filename, page) pair:
// a sha1 digest over the two joined with a fixed separator. It depends
// only on identity, never on content, so re-indexing an edited page
// updates the existing record while a renamed file inserts new ones.
func PageID(filename string, page int) string {
	h := sha1.New()
	h.Write([]byte(filename))
	h.Write([]byte("::"))
	h.Write([]byte(strconv.Itoa(page)))
	return hex.EncodeToString(h.Sum(nil))
}
