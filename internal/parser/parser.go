package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/dgallion1/docsift/internal/document"
)

// Parser extracts the ordered page text of one uploaded file. Structural
// headings found by format-aware parsers are written as markdown header
// lines so segmentation sees them.
type Parser interface {
	Parse(r io.Reader, filename string) (*document.Document, error)
}

// Options tunes format-specific extraction.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// singlePage wraps flat text as a one page document.
func singlePage(filename, text string) *document.Document {
	doc := &document.Document{Filename: filename}
	if text = strings.TrimSpace(text); text != "" {
		doc.Pages = []document.Page{{Number: 1, Text: text}}
	}
	return doc
}

// blockWriter joins blocks with blank lines and writes headings as markdown.
type blockWriter struct {
	buf strings.Builder
}

func (w *blockWriter) heading(level int, title string) {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return
	}
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	w.block(strings.Repeat("#", level) + " " + title)
}

func (w *blockWriter) block(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if w.buf.Len() > 0 {
		w.buf.WriteString("\n\n")
	}
	w.buf.WriteString(text)
}

func (w *blockWriter) String() string { return w.buf.String() }

// spool copies r into a temp file for libraries that need random access.
// The returned cleanup closes and removes the file.
func spool(r io.Reader, pattern string) (*os.File, int64, func(), error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}
	size, err := io.Copy(tmp, r)
	if err != nil {
		cleanup()
		return nil, 0, nil, fmt.Errorf("write temp file: %w", err)
	}
	return tmp, size, cleanup, nil
}

// readText reads r as UTF-8. Input that is not valid UTF-8 is taken to be
// Windows-1252, a superset of Latin-1.
func readText(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode windows-1252: %w", err)
	}
	return decoded, nil
}
