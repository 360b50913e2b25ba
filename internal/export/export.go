// Package export serializes analysis results for download.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/dgallion1/docsift/internal/document"
)

// DefaultFilename is the name JSON results are saved under when no label is given.
const DefaultFilename = "challenge1b_output.json"

// Exporter writes an AnalysisResult in one output format.
type Exporter interface {
	Export(w io.Writer, result *document.AnalysisResult) error
	ContentType() string
	Extension() string
}

// Formats lists the supported format names in display order.
var Formats = []string{"json", "csv", "pdf"}

// ForFormat returns the exporter for a format name. An empty name means json.
func ForFormat(name string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON{}, nil
	case "csv":
		return CSV{}, nil
	case "pdf":
		return PDF{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %q", name)
	}
}

// Filename returns the download name for a result. A label yields
// "<slug>_output". Without one, JSON is saved under DefaultFilename and the
// other formats as "document_analysis_<YYYYMMDD_HHMMSS>".
func Filename(e Exporter, label string, at time.Time) string {
	if slug := Slugify(label); slug != "" {
		return slug + "_output" + e.Extension()
	}
	if e.Extension() == ".json" {
		return DefaultFilename
	}
	return "document_analysis_" + at.Format("20060102_150405") + e.Extension()
}

var (
	nonSlug  = regexp.MustCompile(`[^a-z0-9-]`)
	dashRuns = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a path-safe slug of at most 50 bytes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = strings.TrimRight(s[:50], "-")
	}
	return s
}
