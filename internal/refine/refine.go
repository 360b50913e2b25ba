// Package refine picks the most relevant sentences of a ranked section.
package refine

import (
	"sort"
	"strings"

	"github.com/dgallion1/docsift/internal/document"
	"github.com/dgallion1/docsift/internal/lex"
	"github.com/dgallion1/docsift/internal/score"
)

// MinSentenceWords is the shortest sentence considered for an excerpt when
// longer ones exist.
const MinSentenceWords = 4

// Scorer scores a single sentence against the run's query.
type Scorer interface {
	Score(text string) score.Scores
}

// Extractor builds excerpts of at most Sentences sentences.
type Extractor struct {
	scorer    Scorer
	sentences int
}

// New returns an Extractor. sentences below 1 defaults to 3.
func New(scorer Scorer, sentences int) *Extractor {
	if sentences < 1 {
		sentences = 3
	}
	return &Extractor{scorer: scorer, sentences: sentences}
}

type candidate struct {
	pos   int
	text  string
	score float64
}

// Refine selects the top sentences of the section by combined score, ties
// going to the earlier sentence, and joins them in their original order.
func (e *Extractor) Refine(s document.ScoredSection) document.Excerpt {
	ex := document.Excerpt{
		Document:   s.Filename,
		DocumentID: s.DocumentID,
		PageNumber: s.StartPage,
	}

	sentences := lex.SplitSentences(s.Body)
	var cands []candidate
	for i, sent := range sentences {
		if lex.WordCount(sent) < MinSentenceWords {
			continue
		}
		cands = append(cands, candidate{pos: i, text: sent})
	}
	if len(cands) == 0 {
		for i, sent := range sentences {
			cands = append(cands, candidate{pos: i, text: sent})
		}
	}
	if len(cands) == 0 {
		return ex
	}

	for i := range cands {
		cands[i].score = e.scorer.Score(cands[i].text).Combined
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].pos < cands[j].pos
	})
	if len(cands) > e.sentences {
		cands = cands[:e.sentences]
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].pos < cands[j].pos })

	parts := make([]string, len(cands))
	for i, c := range cands {
		parts[i] = c.text
	}
	ex.RefinedText = strings.Join(parts, " ")
	return ex
}

// RefineAll refines every section in rank order.
func (e *Extractor) RefineAll(sections []document.ScoredSection) []document.Excerpt {
	out := make([]document.Excerpt, len(sections))
	for i, s := range sections {
		out[i] = e.Refine(s)
	}
	return out
}
