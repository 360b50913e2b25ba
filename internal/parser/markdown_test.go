package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownParser_HeadingsNormalized(t *testing.T) {
	input := `# Title

Intro text.

Section A
---------

Section A content.

### Subsection A1

Subsection A1 content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)

	want := "# Title\n\nIntro text.\n\n## Section A\n\nSection A content.\n\n### Subsection A1\n\nSubsection A1 content."
	assert.Equal(t, want, doc.Pages[0].Text)
}

func TestMarkdownParser_NoDuplicateParagraphText(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader("Just some plain text."), "plain.md")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(doc.Pages[0].Text, "plain text"), doc.Pages[0].Text)
}

func TestMarkdownParser_ListsAndCode(t *testing.T) {
	input := "## Endpoints\n\n- first item\n- second item\n\n```\nGET /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "api.md")
	require.NoError(t, err)
	text := doc.Pages[0].Text
	for _, want := range []string{"first item\nsecond item", "GET /api/users", "More text after code."} {
		assert.Contains(t, text, want)
	}
}

func TestMarkdownParser_Latin1Heading(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader("## Caf\xe9 guide\n\nOpen daily.\n"), "cafe.md")
	require.NoError(t, err)
	assert.Equal(t, "## Café guide\n\nOpen daily.", doc.Pages[0].Text)
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	require.NoError(t, err)
	assert.Empty(t, doc.Pages)
}
