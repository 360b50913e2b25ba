package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/dgallion1/docsift/internal/document"
)

// PDF renders a printable A4 report of the ranked sections and excerpts.
type PDF struct{}

func (PDF) ContentType() string { return "application/pdf" }
func (PDF) Extension() string   { return ".pdf" }

func (PDF) Export(w io.Writer, result *document.AnalysisResult) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle("Document analysis", true)
	pdf.AddPage()

	// Core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	md := result.Metadata

	pdf.SetFont("Arial", "B", 14)
	pdf.Write(7, tr("Document analysis"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 9)
	for _, kv := range [][2]string{
		{"Persona", md.Persona},
		{"Objective", md.Objective},
		{"Documents", fmt.Sprintf("%d", len(md.InputDocuments))},
		{"Processed", md.ProcessingTimestamp.Format("2006-01-02 15:04:05 MST")},
		{"Duration", md.ProcessingDuration},
		{"Outcome", string(md.Outcome)},
	} {
		pdf.SetFont("Arial", "B", 9)
		pdf.Write(5, tr(kv[0]+": "))
		pdf.SetFont("Arial", "", 9)
		pdf.Write(5, tr(kv[1]))
		pdf.Ln(5)
	}
	for _, is := range md.Issues {
		pdf.Write(5, tr(fmt.Sprintf("Skipped %s (%s): %s", is.Document, is.Kind, is.Detail)))
		pdf.Ln(5)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Write(6, "Ranked sections")
	pdf.Ln(8)
	if len(result.ExtractedSections) == 0 {
		pdf.SetFont("Arial", "I", 9)
		pdf.Write(5, "No section met the minimum length in any document.")
		pdf.Ln(5)
	}
	for _, s := range result.ExtractedSections {
		pdf.SetFont("Arial", "B", 9)
		pdf.Write(5, tr(fmt.Sprintf("%d. %s", s.ImportanceRank, s.SectionTitle)))
		pdf.Ln(5)
		pdf.SetFont("Arial", "", 8)
		pdf.Write(4, tr(fmt.Sprintf("%s, page %d, relevance %.4f", s.Document, s.PageNumber, s.RelevanceScore)))
		pdf.Ln(6)
	}

	if len(result.SubsectionAnalysis) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 12)
		pdf.Write(6, "Excerpts")
		pdf.Ln(8)
	}
	for i, a := range result.SubsectionAnalysis {
		pdf.SetFont("Arial", "B", 9)
		pdf.Write(5, tr(fmt.Sprintf("%d. %s, page %d", i+1, a.Document, a.PageNumber)))
		pdf.Ln(5)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, tr(a.RefinedText), "", "L", false)
		pdf.Ln(3)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
