package parser

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/docsift/internal/document"
)

// PDFParser extracts PDF text page by page with ledongthuc/pdf. When that
// fails or yields no text, pdftotext is tried if FallbackPdftotext is set.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	tmp, _, cleanup, err := spool(r, "docsift-pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer cleanup()
	tmpPath := tmp.Name()

	pages, err := libraryPages(tmpPath)
	if (err != nil || blank(pages)) && p.FallbackPdftotext {
		if alt, altErr := pdftotextPages(tmpPath); altErr == nil {
			pages, err = alt, nil
		} else if err == nil {
			err = altErr
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	doc := &document.Document{Filename: filename}
	for i, text := range pages {
		if text = strings.TrimSpace(text); text != "" {
			doc.Pages = append(doc.Pages, document.Page{Number: i + 1, Text: text})
		}
	}
	return doc, nil
}

// libraryPages returns one string per PDF page, empty for unreadable pages,
// so page numbers stay aligned.
func libraryPages(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pages := make([]string, reader.NumPage())
	for i := range pages {
		page := reader.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		if text, err := page.GetPlainText(nil); err == nil {
			pages[i] = text
		}
	}
	return pages, nil
}

// pdftotextPages runs poppler's pdftotext, which ends every page with a form feed.
func pdftotextPages(path string) ([]string, error) {
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return strings.Split(string(out), "\f"), nil
}

func blank(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}
