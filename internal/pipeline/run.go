package pipeline

import (
	"crypto/sha256"
	"fmt"

	"github.com/dgallion1/docsift/internal/document"
)

// DocStatus represents the state of one document within a run.
type DocStatus string

const (
	StatusQueued     DocStatus = "queued"
	StatusParsing    DocStatus = "parsing"
	StatusSegmenting DocStatus = "segmenting"
	StatusSegmented  DocStatus = "segmented"
	StatusFailed     DocStatus = "failed"
	StatusEmpty      DocStatus = "empty"
)

// DocState tracks one input file through a run.
type DocState struct {
	Filename string
	DocID    string
	Status   DocStatus
	Sections int
}

// Run tracks the documents and absorbed issues of one analysis run.
// It is confined to the goroutine executing the run.
type Run struct {
	ID     string
	Docs   []*DocState
	issues []document.Issue
}

// NewRun creates a run with one queued state per input filename.
func NewRun(id string, filenames []string) *Run {
	r := &Run{ID: id, Docs: make([]*DocState, len(filenames))}
	for i, name := range filenames {
		r.Docs[i] = &DocState{Filename: name, Status: StatusQueued}
	}
	return r
}

// SetStatus updates the state of document i.
func (r *Run) SetStatus(i int, status DocStatus) {
	r.Docs[i].Status = status
}

// Fail marks document i as failed extraction.
func (r *Run) Fail(i int, detail string) {
	r.Docs[i].Status = StatusFailed
	r.issues = append(r.issues, document.Issue{
		Document: r.Docs[i].Filename,
		Kind:     document.IssueExtractionFailed,
		Detail:   detail,
	})
}

// Segmented records how many sections document i produced. Zero sections
// marks the document empty and records an issue.
func (r *Run) Segmented(i, sections int, detail string) {
	r.Docs[i].Sections = sections
	if sections > 0 {
		r.Docs[i].Status = StatusSegmented
		return
	}
	r.Docs[i].Status = StatusEmpty
	r.issues = append(r.issues, document.Issue{
		Document: r.Docs[i].Filename,
		Kind:     document.IssueSegmentationEmpty,
		Detail:   detail,
	})
}

// Issues returns the absorbed per-document problems in the order they
// occurred. Never nil.
func (r *Run) Issues() []document.Issue {
	out := make([]document.Issue, len(r.issues))
	copy(out, r.issues)
	return out
}

// Outcome derives the run outcome from the ranking size and issues.
func (r *Run) Outcome(ranked int) document.Outcome {
	switch {
	case ranked == 0:
		return document.OutcomeNoSections
	case len(r.issues) > 0:
		return document.OutcomePartial
	default:
		return document.OutcomeComplete
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// DocumentID derives a stable document id from the uploaded bytes.
func DocumentID(data []byte) string {
	return ContentHashHex(data)[:16]
}
