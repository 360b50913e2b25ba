package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/docsift/internal/document"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(78)
)

func renderText(w io.Writer, res *document.AnalysisResult) {
	md := res.Metadata
	fmt.Fprintln(w, titleStyle.Render(md.Persona+": "+md.Objective))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d documents, %s, strategy %s, outcome %s",
		len(md.InputDocuments), md.ProcessingDuration, md.Strategy, md.Outcome)))
	for _, is := range md.Issues {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("! %s: %s (%s)", is.Document, is.Kind, is.Detail)))
	}
	fmt.Fprintln(w)

	if len(res.ExtractedSections) == 0 {
		fmt.Fprintln(w, "No section met the minimum length in any document.")
		return
	}
	for i, s := range res.ExtractedSections {
		head := fmt.Sprintf("#%d %s", s.ImportanceRank, titleStyle.Render(s.SectionTitle))
		meta := mutedStyle.Render(fmt.Sprintf("%s, page %d", s.Document, s.PageNumber))
		body := head + "  " + scoreStyle.Render(fmt.Sprintf("%.4f", s.RelevanceScore)) + "\n" + meta
		if i < len(res.SubsectionAnalysis) && res.SubsectionAnalysis[i].RefinedText != "" {
			body += "\n\n" + res.SubsectionAnalysis[i].RefinedText
		}
		fmt.Fprintln(w, boxStyle.Render(body))
	}
}
