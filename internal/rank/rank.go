// Package rank orders scored sections across the whole corpus.
package rank

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgallion1/docsift/internal/document"
	"github.com/dgallion1/docsift/internal/lex"
)

// ErrNoSectionsAcrossCorpus reports that no section survived segmentation in
// any document. It describes an empty outcome, not a failure.
var ErrNoSectionsAcrossCorpus = errors.New("no sections across corpus")

// Less reports whether a ranks ahead of b: higher combined score, then lower
// start page, earlier document, shorter body, earlier position in its document.
func Less(a, b document.ScoredSection) bool {
	if a.CombinedScore != b.CombinedScore {
		return a.CombinedScore > b.CombinedScore
	}
	if a.StartPage != b.StartPage {
		return a.StartPage < b.StartPage
	}
	if a.DocumentIndex != b.DocumentIndex {
		return a.DocumentIndex < b.DocumentIndex
	}
	if a.WordCount != b.WordCount {
		return a.WordCount < b.WordCount
	}
	return a.Ordinal < b.Ordinal
}

// Rank sorts, deduplicates and caps scored sections, assigning dense ranks
// 1..K with K = min(maxSections, distinct sections). The input is not modified.
func Rank(scored []document.ScoredSection, maxSections int) ([]document.ScoredSection, error) {
	if maxSections < 1 {
		return nil, fmt.Errorf("max sections must be at least 1, got %d", maxSections)
	}
	if len(scored) == 0 {
		return []document.ScoredSection{}, ErrNoSectionsAcrossCorpus
	}

	sorted := make([]document.ScoredSection, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool { return Less(sorted[i], sorted[j]) })

	out := make([]document.ScoredSection, 0, min(maxSections, len(sorted)))
	seen := make(map[string]struct{}, len(sorted))
	for _, s := range sorted {
		key := strings.ToLower(lex.NormalizeSpace(s.Body))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		s.Rank = len(out) + 1
		out = append(out, s)
		if len(out) == maxSections {
			break
		}
	}
	return out, nil
}
