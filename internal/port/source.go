package port

import "docsearch/internal/domain"

// PageSource produces the text of each page of a source file, 1-based.
// A page whose text cannot be extracted is returned with empty text;
// only a file that cannot be opened at all yields an error.
type PageSource interface {
	Pages(path string) ([]domain.PageText, error)
}
