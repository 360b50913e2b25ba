package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dgallion1/docsift/internal/document"
)

// excerptPreview bounds the refined text carried in an Analysis row.
const excerptPreview = 100

var csvHeader = []string{"Type", "Document", "Title", "Persona", "Job_To_Be_Done", "Processing_Time", "Rank", "Page", "Relevance_Score"}

// CSV flattens a result into one Metadata row, one Section row per ranked
// section and one Analysis row per excerpt.
type CSV struct{}

func (CSV) ContentType() string { return "text/csv; charset=utf-8" }
func (CSV) Extension() string   { return ".csv" }

func (CSV) Export(w io.Writer, result *document.AnalysisResult) error {
	md := result.Metadata
	cw := csv.NewWriter(w)
	rows := [][]string{
		csvHeader,
		{"Metadata", "System", "Processing Info", md.Persona, md.Objective, md.ProcessingDuration, "", "", ""},
	}
	for _, s := range result.ExtractedSections {
		rows = append(rows, []string{
			"Section", s.Document, s.SectionTitle, md.Persona, md.Objective, "",
			strconv.Itoa(s.ImportanceRank),
			strconv.Itoa(s.PageNumber),
			strconv.FormatFloat(s.RelevanceScore, 'f', -1, 64),
		})
	}
	for i, a := range result.SubsectionAnalysis {
		rows = append(rows, []string{
			"Analysis", a.Document, fmt.Sprintf("Analysis %d", i+1), md.Persona, preview(a.RefinedText), "",
			"", strconv.Itoa(a.PageNumber), "",
		})
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= excerptPreview {
		return s
	}
	return string(r[:excerptPreview]) + "..."
}
