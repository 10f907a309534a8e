package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// CompositeSource routes a file to the page source registered for its
// extension.
type CompositeSource struct {
	sources map[string]port.PageSource
}

// NewCompositeSource returns a source covering the supported formats.
func NewCompositeSource() *CompositeSource {
	plain := NewPlainTextSource()
	return &CompositeSource{
		sources: map[string]port.PageSource{
			".pdf": NewPDFSource(),
			".txt": plain,
			".md":  plain,
		},
	}
}

func (s *CompositeSource) Pages(path string) ([]domain.PageText, error) {
	ext := strings.ToLower(filepath.Ext(path))
	src, ok := s.sources[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
	return src.Pages(path)
}
