package segment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Header is a detected section boundary.
type Header struct {
	Title string
	Page  int // Page the new section starts on; 0 keeps the current page.
}

// Detector recognizes one kind of section boundary in a single trimmed line.
type Detector interface {
	Name() string
	Detect(line string, page int) (Header, bool)
}

// DefaultDetectors is the fixed priority order used by New when no detectors
// are given. The first detector that matches a line wins.
func DefaultDetectors() []Detector {
	return []Detector{
		MarkdownHeader{},
		NumberedHeader{MaxWords: 12},
		UppercaseHeader{MaxWords: 10},
		PageBreak{},
	}
}

// FormFeed is the line the segmenter feeds detectors at a page boundary.
const FormFeed = "\f"

var markdownHeader = regexp.MustCompile(`^#{1,6}\s+(.+?)(?:\s+#+)?\s*$`)

// MarkdownHeader matches "# Title" through "###### Title".
type MarkdownHeader struct{}

func (MarkdownHeader) Name() string { return "markdown" }

func (MarkdownHeader) Detect(line string, _ int) (Header, bool) {
	m := markdownHeader.FindStringSubmatch(line)
	if m == nil {
		return Header{}, false
	}
	title := strings.TrimSpace(m[1])
	if title == "" {
		return Header{}, false
	}
	return Header{Title: title}, true
}

var numberedHeader = regexp.MustCompile(`^\d+\.(?:\d+\.?)*\s+(\p{Lu}.*)$`)

// NumberedHeader matches "2. Results" or "3.1 Data Sources". A lone number
// needs its dot, so "10 Friends arrive" stays body text. The label must be
// short and must not read like a sentence.
type NumberedHeader struct {
	MaxWords int
}

func (NumberedHeader) Name() string { return "numbered" }

func (d NumberedHeader) Detect(line string, _ int) (Header, bool) {
	m := numberedHeader.FindStringSubmatch(line)
	if m == nil {
		return Header{}, false
	}
	label := strings.TrimSpace(m[1])
	if len(strings.Fields(label)) > d.MaxWords {
		return Header{}, false
	}
	if strings.HasSuffix(label, ".") || strings.HasSuffix(label, ",") || strings.HasSuffix(label, ";") {
		return Header{}, false
	}
	return Header{Title: strings.TrimSpace(strings.TrimSuffix(label, ":"))}, true
}

// UppercaseHeader matches short lines with no lowercase letters, such as
// "PACKING LIST" or "TERMS AND CONDITIONS:". The line must start with a
// letter or digit, which leaves "[PAGE n]" markers to PageBreak.
type UppercaseHeader struct {
	MaxWords int
}

func (UppercaseHeader) Name() string { return "uppercase" }

func (d UppercaseHeader) Detect(line string, _ int) (Header, bool) {
	words := len(strings.Fields(line))
	if words == 0 || words > d.MaxWords {
		return Header{}, false
	}
	if first, _ := utf8.DecodeRuneInString(line); !unicode.IsLetter(first) && !unicode.IsDigit(first) {
		return Header{}, false
	}
	letters := 0
	for _, r := range line {
		if unicode.IsLower(r) {
			return Header{}, false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 3 {
		return Header{}, false
	}
	title := strings.TrimSpace(strings.TrimSuffix(line, ":"))
	return Header{Title: title}, true
}

var pageMarker = regexp.MustCompile(`^\[PAGE (\d+)\]$`)

// PageBreak matches the page boundaries emitted by text extraction: a
// "[PAGE n]" marker line or a form feed.
type PageBreak struct{}

func (PageBreak) Name() string { return "page_break" }

func (PageBreak) Detect(line string, page int) (Header, bool) {
	if line == FormFeed {
		return Header{Title: fmt.Sprintf("Page %d", page), Page: page}, true
	}
	m := pageMarker.FindStringSubmatch(line)
	if m == nil {
		return Header{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return Header{}, false
	}
	return Header{Title: fmt.Sprintf("Page %d", n), Page: n}, true
}
