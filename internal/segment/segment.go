// Package segment splits a document's pages into titled sections.
package segment

import (
	"strings"

	"github.com/dgallion1/docsift/internal/document"
	"github.com/dgallion1/docsift/internal/lex"
)

// IntroductionTitle names the section holding text before the first header.
const IntroductionTitle = "Introduction"

// Config controls segmentation.
type Config struct {
	MinWords int // Sections with fewer body words are dropped.
}

// DefaultConfig returns the standard threshold.
func DefaultConfig() Config {
	return Config{MinWords: 30}
}

// Segmenter applies an ordered detector list to every line of a document.
type Segmenter struct {
	cfg       Config
	detectors []Detector
}

// New returns a Segmenter. With no detectors it uses DefaultDetectors.
func New(cfg Config, detectors ...Detector) *Segmenter {
	if cfg.MinWords <= 0 {
		cfg.MinWords = DefaultConfig().MinWords
	}
	if len(detectors) == 0 {
		detectors = DefaultDetectors()
	}
	return &Segmenter{cfg: cfg, detectors: detectors}
}

type line struct {
	text    string
	page    int  // Extracted page the line came from.
	advance bool // Form feed inside a page; moves to the next page.
}

// Segment returns the document's sections in reading order. The result
// depends only on the document text, the detector list and MinWords.
func (s *Segmenter) Segment(doc *document.Document) []document.Section {
	var sections []document.Section

	title := IntroductionTitle
	page := 1
	if len(doc.Pages) > 0 {
		page = doc.Pages[0].Number
	}
	startPage := page
	var body []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		body = body[:0]
		if text == "" {
			return
		}
		words := lex.WordCount(text)
		if words < s.cfg.MinWords {
			return
		}
		sections = append(sections, document.Section{
			DocumentID:    doc.ID,
			DocumentIndex: doc.Index,
			Filename:      doc.Filename,
			Ordinal:       len(sections),
			Title:         title,
			StartPage:     startPage,
			Body:          text,
			WordCount:     words,
		})
	}

	streamPage := 0
	for _, ln := range splitLines(doc) {
		if ln.page != streamPage {
			streamPage = ln.page
			page = ln.page
		}
		if ln.advance {
			page++
		}
		if h, ok := s.detect(ln.text, page); ok {
			flush()
			if h.Page > 0 {
				page = h.Page
			}
			title = h.Title
			startPage = page
			continue
		}
		body = append(body, ln.text)
	}
	flush()
	return sections
}

func (s *Segmenter) detect(text string, page int) (Header, bool) {
	if text != FormFeed {
		text = strings.TrimSpace(text)
		if text == "" {
			return Header{}, false
		}
	}
	for _, d := range s.detectors {
		if h, ok := d.Detect(text, page); ok {
			return h, true
		}
	}
	return Header{}, false
}

// splitLines flattens the pages into lines. Each page after the first, and
// every form feed inside a page, becomes a FormFeed line.
func splitLines(doc *document.Document) []line {
	var out []line
	for i, p := range doc.Pages {
		if i > 0 {
			out = append(out, line{text: FormFeed, page: p.Number})
		}
		for _, raw := range strings.Split(p.Text, "\n") {
			for k, part := range strings.Split(raw, "\f") {
				if k > 0 {
					out = append(out, line{text: FormFeed, page: p.Number, advance: true})
				}
				out = append(out, line{text: part, page: p.Number})
			}
		}
	}
	return out
}
