// Package keyword turns free text into the normalized terms used for
// term weighting and keyword matching.
package keyword

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kljensen/snowball"
	"github.com/pemistahl/lingua-go"

	"github.com/dgallion1/docsift/internal/lex"
)

// MaxKeywords caps how many keywords a query keeps.
const MaxKeywords = 20

// Strategy normalizes text into terms. Scoring code treats every strategy
// the same way; only the terms differ.
type Strategy interface {
	Name() string
	Terms(text string) []string
}

// Names of the built-in strategies.
const (
	BasicName    = "basic"
	EnhancedName = "enhanced"
)

// New returns the strategy with the given name. sample is representative text
// from the run (query plus corpus) and is only used by the enhanced strategy.
func New(name, sample string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BasicName:
		return Basic{}, nil
	case EnhancedName:
		return NewEnhanced(sample), nil
	default:
		return nil, fmt.Errorf("unknown keyword strategy: %q", name)
	}
}

// Keywords returns the distinct terms of text longer than two characters,
// in first-occurrence order, capped at MaxKeywords.
func Keywords(s Strategy, text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, term := range s.Terms(text) {
		if utf8.RuneCountInString(term) <= 2 {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
		if len(out) == MaxKeywords {
			break
		}
	}
	return out
}

// Basic lowercases word tokens and drops stop words.
type Basic struct{}

func (Basic) Name() string { return BasicName }

func (Basic) Terms(text string) []string {
	toks := lex.Tokens(text)
	out := toks[:0]
	for _, t := range toks {
		if lex.IsStopword(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Enhanced detects the corpus language once and reduces every token to its
// Snowball stem, so "planning" matches "plans". Languages without a stemmer
// fall back to Basic terms.
type Enhanced struct {
	language string // snowball language name, empty when unsupported
}

var snowballLanguages = map[lingua.Language]string{
	lingua.English: "english",
	lingua.French:  "french",
	lingua.Spanish: "spanish",
	lingua.Russian: "russian",
	lingua.Swedish: "swedish",
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.French, lingua.German, lingua.Spanish,
				lingua.Swedish, lingua.Russian, lingua.Dutch).
			Build()
	})
	return detector
}

// NewEnhanced builds an Enhanced strategy for the language of sample.
// English is assumed when detection is inconclusive.
func NewEnhanced(sample string) *Enhanced {
	lang := lingua.English
	if strings.TrimSpace(sample) != "" {
		if detected, ok := languageDetector().DetectLanguageOf(sample); ok {
			lang = detected
		}
	}
	return &Enhanced{language: snowballLanguages[lang]}
}

func (e *Enhanced) Name() string { return EnhancedName }

// Language returns the snowball language in use, or "" for the fallback.
func (e *Enhanced) Language() string { return e.language }

func (e *Enhanced) Terms(text string) []string {
	terms := Basic{}.Terms(text)
	if e.language == "" {
		return terms
	}
	for i, t := range terms {
		stem, err := snowball.Stem(t, e.language, false)
		if err != nil || stem == "" {
			continue
		}
		terms[i] = stem
	}
	return terms
}
