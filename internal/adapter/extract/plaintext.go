package extract

import (
	"fmt"
	"os"
	"strings"

	"docsearch/internal/domain"
)

// PlainTextSource treats a text file as a paginated document, one page
// per form-feed-separated section. A file without form feeds is a single
// page.
type PlainTextSource struct{}

func NewPlainTextSource() *PlainTextSource {
	return &PlainTextSource{}
}

func (s *PlainTextSource) Pages(path string) ([]domain.PageText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	sections := strings.Split(string(data), "\f")
	pages := make([]domain.PageText, 0, len(sections))
	for i, section := range sections {
		pages = append(pages, domain.PageText{
			Page: i + 1,
			Text: section,
		})
	}
	return pages, nil
}
