package score

import (
	"math"
	"sort"

	"github.com/dgallion1/docsift/internal/keyword"
)

// Vector is a sparse L2-normalized term vector ordered by term index.
type Vector []Entry

// Entry is one non-zero component of a Vector.
type Entry struct {
	Index  int
	Weight float64
}

// Space is a TF-IDF term-weighting space fitted to one corpus.
type Space struct {
	strategy   keyword.Strategy
	vocabulary map[string]int
	idf        []float64
}

// Fit builds the vocabulary and smoothed IDF weights over corpus.
// Terms are indexed in sorted order so vectors are reproducible.
func Fit(corpus []string, strategy keyword.Strategy) *Space {
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, term := range strategy.Terms(text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	s := &Space{
		strategy:   strategy,
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	n := float64(len(corpus))
	for i, term := range terms {
		s.vocabulary[term] = i
		s.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return s
}

// Size is the number of distinct terms in the space.
func (s *Space) Size() int { return len(s.idf) }

// Vector weights text in the space. Terms outside the vocabulary are ignored.
func (s *Space) Vector(text string) Vector {
	tf := make(map[int]int)
	total := 0
	for _, term := range s.strategy.Terms(text) {
		if idx, ok := s.vocabulary[term]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	vec := make(Vector, 0, len(tf))
	for idx, count := range tf {
		vec = append(vec, Entry{Index: idx, Weight: float64(count) / float64(total) * s.idf[idx]})
	}
	// Sum in index order; map order would make the norm vary in the last bits.
	sort.Slice(vec, func(i, j int) bool { return vec[i].Index < vec[j].Index })
	norm := 0.0
	for _, e := range vec {
		norm += e.Weight * e.Weight
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].Weight /= norm
	}
	return vec
}

// Cosine returns the cosine similarity of two normalized vectors, clamped to [0,1].
func Cosine(a, b Vector) float64 {
	dot := 0.0
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i].Index == b[j].Index:
			dot += a[i].Weight * b[j].Weight
			i++
			j++
		case a[i].Index < b[j].Index:
			i++
		default:
			j++
		}
	}
	return clamp(dot)
}

func clamp(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}
