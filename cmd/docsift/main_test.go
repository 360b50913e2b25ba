package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docsift/internal/document"
)

const guide = `## Packing List

Every one of the ten friends should pack a single carry-on bag for the trip.
Plan the luggage logistics a day ahead. Label each bag, share a checklist and split group gear
such as chargers, first aid kits and snacks. Keep passports and tickets in one folder so the whole
trip runs smoothly and nobody waits at the airport.
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DOCSIFT_CONFIG", "")
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestAnalyze_JSONToFile(t *testing.T) {
	in := writeFile(t, "travel.md", guide)
	outPath := filepath.Join(t.TempDir(), "result.json")

	_, err := execute(t, "analyze", "--persona", "Travel Planner", "--objective", "Plan a trip for friends",
		"--format", "json", "--out", outPath, in)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var res document.AnalysisResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, []string{"travel.md"}, res.Metadata.InputDocuments)
	require.Len(t, res.ExtractedSections, 1)
	assert.Equal(t, "Packing List", res.ExtractedSections[0].SectionTitle)
}

func TestAnalyze_TextOutput(t *testing.T) {
	in := writeFile(t, "travel.md", guide)
	out, err := execute(t, "analyze", "--objective", "Plan a trip", "--sentences", "1", in)
	require.NoError(t, err)
	assert.Contains(t, out, "Custom User: Plan a trip")
	assert.Contains(t, out, "Packing List")
	assert.Contains(t, out, "travel.md, page 1")
}

func TestAnalyze_InvalidFlags(t *testing.T) {
	in := writeFile(t, "travel.md", guide)

	_, err := execute(t, "analyze", "--objective", "Plan a trip", "--max-sections", "0", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_sections")

	_, err = execute(t, "analyze", "--objective", "Plan a trip", "--format", "xml", in)
	require.Error(t, err)

	_, err = execute(t, "analyze", in)
	require.Error(t, err)
}

func TestAnalyze_UnreadableFileBecomesIssue(t *testing.T) {
	in := writeFile(t, "travel.md", guide)
	missing := filepath.Join(t.TempDir(), "missing.txt")

	out, err := execute(t, "analyze", "--persona", "Travel Planner", "--objective", "Plan a trip for friends",
		"--format", "json", in, missing)
	require.NoError(t, err)

	var res document.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"travel.md", "missing.txt"}, res.Metadata.InputDocuments)
	assert.Equal(t, document.OutcomePartial, res.Metadata.Outcome)
	require.Len(t, res.Metadata.Issues, 1)
	assert.Equal(t, "missing.txt", res.Metadata.Issues[0].Document)
	assert.Equal(t, document.IssueExtractionFailed, res.Metadata.Issues[0].Kind)
	require.Len(t, res.ExtractedSections, 1)
	assert.Equal(t, "Packing List", res.ExtractedSections[0].SectionTitle)
}

func TestPersonas(t *testing.T) {
	out, err := execute(t, "personas")
	require.NoError(t, err)
	assert.Contains(t, out, "Travel Planner")
	assert.Contains(t, out, "Project Manager")
	assert.Equal(t, 5*3+1, strings.Count(out, "\n"))
}
