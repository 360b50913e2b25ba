package document

import (
	"fmt"
	"time"
)

// Page is one page of extracted text. Numbers start at 1.
type Page struct {
	Number int
	Text   string
}

// Document is the extracted text of a single upload.
type Document struct {
	ID       string
	Filename string
	Index    int // Upload order, zero based.
	Pages    []Page
}

// Text joins the document's pages with form feeds, the page separator the
// segmenter understands.
func (d *Document) Text() string {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Text) + 1
	}
	buf := make([]byte, 0, n)
	for i, p := range d.Pages {
		if i > 0 {
			buf = append(buf, '\f')
		}
		buf = append(buf, p.Text...)
	}
	return string(buf)
}

// Section is a contiguous span of a document with a detected or synthesized title.
type Section struct {
	DocumentID    string
	DocumentIndex int
	Filename      string
	Ordinal       int
	Title         string
	StartPage     int
	Body          string
	WordCount     int
}

// ScoredSection is a Section with its relevance scores and final rank.
type ScoredSection struct {
	Section
	SemanticScore float64
	KeywordScore  float64
	CombinedScore float64
	Rank          int
}

// Excerpt is the refined text chosen from one ranked section.
type Excerpt struct {
	Document    string
	DocumentID  string
	RefinedText string
	PageNumber  int
}

// IssueKind classifies a per-document problem absorbed during a run.
type IssueKind string

const (
	IssueExtractionFailed  IssueKind = "extraction_failed"
	IssueSegmentationEmpty IssueKind = "segmentation_empty"
)

// Issue records a document that contributed nothing to the ranking.
type Issue struct {
	Document string    `json:"document"`
	Kind     IssueKind `json:"kind"`
	Detail   string    `json:"detail"`
}

// Outcome summarizes how a run finished.
type Outcome string

const (
	OutcomeComplete   Outcome = "complete"
	OutcomePartial    Outcome = "partial"
	OutcomeNoSections Outcome = "no_sections"
)

// Metadata describes the inputs and timing of an analysis run.
type Metadata struct {
	InputDocuments      []string  `json:"input_documents"`
	Persona             string    `json:"persona"`
	Objective           string    `json:"objective"`
	ProcessingTimestamp time.Time `json:"processing_timestamp"`
	ProcessingDuration  string    `json:"processing_duration"`
	RunID               string    `json:"run_id"`
	Strategy            string    `json:"strategy"`
	Outcome             Outcome   `json:"outcome"`
	Issues              []Issue   `json:"issues"`
}

// ExtractedSection is the exported projection of a ranked section.
type ExtractedSection struct {
	Document       string  `json:"document"`
	SectionTitle   string  `json:"section_title"`
	ImportanceRank int     `json:"importance_rank"`
	PageNumber     int     `json:"page_number"`
	RelevanceScore float64 `json:"relevance_score"`
}

// SubsectionAnalysis is the exported projection of an Excerpt.
type SubsectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// AnalysisResult is the terminal artifact of one analysis run.
type AnalysisResult struct {
	Metadata           Metadata             `json:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis"`
}

// FormatDuration renders a processing time as "850ms", "4.2s" or "2m 5.0s".
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 1:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case secs < 60:
		return fmt.Sprintf("%.1fs", secs)
	default:
		mins := int64(secs) / 60
		return fmt.Sprintf("%dm %.1fs", mins, secs-float64(mins*60))
	}
}
