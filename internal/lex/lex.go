// Package lex holds the tokenization and sentence rules shared by segmentation,
// scoring and excerpt selection.
package lex

import (
	"regexp"
	"strings"
	"unicode"
)

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on",
		"at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its",
		"this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further",
		"than", "so", "such", "into", "about", "between", "among", "through", "during", "before",
		"after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just",
		"don", "should", "now", "have", "has", "had", "do", "does", "did", "would", "could", "may",
		"might", "must", "not", "no", "nor", "our", "ours", "we", "you", "your", "they", "them",
		"their", "he", "she", "his", "her", "him", "i", "me", "my", "what", "which", "who", "whom",
		"how", "when", "where", "why", "all", "any", "both", "each", "few", "more", "most", "other",
		"some", "only", "also", "there", "here",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// Tokens returns the lowercase word tokens of text in order.
func Tokens(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// IsStopword reports whether a lowercase token carries no topical signal.
func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}

// WordCount counts whitespace separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// NormalizeSpace collapses all runs of whitespace to one space.
func NormalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// SplitSentences splits text into sentences.
//
// Paragraphs (separated by blank lines) never share a sentence. Inside a
// paragraph, whitespace is collapsed and a sentence ends after a run of
// '.', '!' or '?' optionally followed by closing quotes or brackets, when the
// next character is a space and the one after it is an uppercase letter or a
// digit. Everything else stays in the current sentence, so "e.g. the" and
// "3.5 km" do not split.
func SplitSentences(text string) []string {
	var out []string
	for _, para := range Paragraphs(text) {
		out = append(out, splitParagraph(NormalizeSpace(para))...)
	}
	return out
}

// Paragraphs splits text on blank lines and drops empty paragraphs.
func Paragraphs(text string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, "\n"))
			cur = cur[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}

func splitParagraph(p string) []string {
	rs := []rune(p)
	var out []string
	start := 0
	for i := 0; i < len(rs); i++ {
		if !isTerminal(rs[i]) {
			continue
		}
		j := i + 1
		for j < len(rs) && (isTerminal(rs[j]) || isCloser(rs[j])) {
			j++
		}
		if j+1 < len(rs) && rs[j] == ' ' && (unicode.IsUpper(rs[j+1]) || unicode.IsDigit(rs[j+1])) {
			if s := strings.TrimSpace(string(rs[start:j])); s != "" {
				out = append(out, s)
			}
			start = j + 1
		}
		i = j - 1
	}
	if s := strings.TrimSpace(string(rs[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminal(r rune) bool { return r == '.' || r == '!' || r == '?' }

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’', '»':
		return true
	}
	return false
}
