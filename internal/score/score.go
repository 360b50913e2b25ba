// Package score measures how relevant text is to a query, relative to the
// corpus it came from.
package score

import (
	"github.com/dgallion1/docsift/internal/document"
	"github.com/dgallion1/docsift/internal/keyword"
	"github.com/dgallion1/docsift/internal/query"
)

// Weights blends the semantic and keyword scores. They sum to 1.
type Weights struct {
	Semantic float64
	Keyword  float64
}

// DefaultWeights returns the standard 0.6/0.4 blend.
func DefaultWeights() Weights {
	return Weights{Semantic: 0.6, Keyword: 0.4}
}

// Scores holds the three relevance scores of one piece of text, each in [0,1].
type Scores struct {
	Semantic float64
	Keyword  float64
	Combined float64
}

// Scorer scores sections with a keyword strategy and a weight blend.
type Scorer struct {
	strategy keyword.Strategy
	weights  Weights
}

// New returns a Scorer. Weights are expected to be validated by the caller.
func New(strategy keyword.Strategy, weights Weights) *Scorer {
	return &Scorer{strategy: strategy, weights: weights}
}

// Relevance is a query fitted into a corpus space. It scores any text
// (a section body or a single sentence) against that query.
type Relevance struct {
	space    *Space
	query    Vector
	keywords []string
	strategy keyword.Strategy
	weights  Weights
}

// Fit builds the term space over every section body plus the query document.
func (s *Scorer) Fit(sections []document.Section, q query.Query) *Relevance {
	corpus := make([]string, 0, len(sections)+1)
	for _, sec := range sections {
		corpus = append(corpus, sec.Body)
	}
	qdoc := q.Document()
	corpus = append(corpus, qdoc)

	space := Fit(corpus, s.strategy)
	return &Relevance{
		space:    space,
		query:    space.Vector(qdoc),
		keywords: q.Keywords,
		strategy: s.strategy,
		weights:  s.weights,
	}
}

// Score fits the space and scores every section. Output order matches input.
func (s *Scorer) Score(sections []document.Section, q query.Query) ([]document.ScoredSection, *Relevance) {
	rel := s.Fit(sections, q)
	out := make([]document.ScoredSection, len(sections))
	for i, sec := range sections {
		sc := rel.Score(sec.Body)
		out[i] = document.ScoredSection{
			Section:       sec,
			SemanticScore: sc.Semantic,
			KeywordScore:  sc.Keyword,
			CombinedScore: sc.Combined,
		}
	}
	return out, rel
}

// Score computes the semantic, keyword and combined scores of text.
func (r *Relevance) Score(text string) Scores {
	semantic := Cosine(r.space.Vector(text), r.query)
	kw := r.keywordScore(text)
	return Scores{
		Semantic: semantic,
		Keyword:  kw,
		Combined: clamp(semantic*r.weights.Semantic + kw*r.weights.Keyword),
	}
}

// keywordScore is the fraction of query keywords present among the text's
// normalized terms. Matching is whole-term, so "art" does not match "party".
func (r *Relevance) keywordScore(text string) float64 {
	if len(r.keywords) == 0 {
		return 0
	}
	terms := make(map[string]struct{})
	for _, t := range r.strategy.Terms(text) {
		terms[t] = struct{}{}
	}
	matched := 0
	for _, k := range r.keywords {
		if _, ok := terms[k]; ok {
			matched++
		}
	}
	return clamp(float64(matched) / float64(len(r.keywords)))
}
