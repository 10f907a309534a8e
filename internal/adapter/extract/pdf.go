// Package extract provides page-text sources for the supported document
// formats. A source yields one entry per page, 1-based; a page whose text
// cannot be extracted yields empty text so the rest of the file survives.
package extract

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"docsearch/internal/domain"
)

// PDFSource extracts page text from PDF files.
type PDFSource struct{}

func NewPDFSource() *PDFSource {
	return &PDFSource{}
}

// Pages returns the text of every page of the PDF at path. Extraction
// failures are per-page: a bad page comes back empty, only a file that
// cannot be opened at all is an error.
func (s *PDFSource) Pages(path string) ([]domain.PageText, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	n := reader.NumPage()
	pages := make([]domain.PageText, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, domain.PageText{
			Page: i,
			Text: pageText(reader, i),
		})
	}
	return pages, nil
}

// pageText extracts one page, absorbing both errors and panics from the
// pdf library, which is known to panic on malformed content streams.
func pageText(reader *pdf.Reader, num int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
