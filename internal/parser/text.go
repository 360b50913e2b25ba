package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/docsift/internal/document"
)

// TextParser handles plain text files. Form feeds separate pages.
// Latin-1 and Windows-1252 files are converted to UTF-8.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	data, err := readText(r)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	doc := &document.Document{Filename: filename}
	for i, page := range strings.Split(text, "\f") {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		doc.Pages = append(doc.Pages, document.Page{Number: i + 1, Text: page})
	}
	return doc, nil
}
