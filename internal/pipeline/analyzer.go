package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/document"
	"github.com/dgallion1/docsift/internal/keyword"
	"github.com/dgallion1/docsift/internal/parser"
	"github.com/dgallion1/docsift/internal/query"
	"github.com/dgallion1/docsift/internal/rank"
	"github.com/dgallion1/docsift/internal/refine"
	"github.com/dgallion1/docsift/internal/score"
	"github.com/dgallion1/docsift/internal/segment"
)

// ErrEmptyCorpus is returned when a run is given no documents at all.
var ErrEmptyCorpus = errors.New("empty corpus: no documents supplied")

// sampleWords bounds how much of each document feeds language detection.
const sampleWords = 200

// File is one uploaded input.
type File struct {
	Name string
	Data []byte
	Err  error // read failure, recorded as an issue
}

// Analyzer runs the extract, segment, score, rank and refine phases.
// It holds no state between runs.
type Analyzer struct {
	cfg       config.Analysis
	parseOpts parser.Options
	log       *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewAnalyzer returns an Analyzer for the given settings.
func NewAnalyzer(cfg config.Analysis, parseOpts parser.Options, log *slog.Logger) *Analyzer {
	return &Analyzer{
		cfg:       cfg,
		parseOpts: parseOpts,
		log:       log,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// WithClock replaces the time source used for timestamps and durations.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// Run analyzes files in upload order against the persona and objective.
// Invalid settings, a blank objective and an empty file list fail before any
// document is read. Per-document failures are recorded in the result.
func (a *Analyzer) Run(ctx context.Context, files []File, persona, objective string) (*document.AnalysisResult, error) {
	start := a.now()
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(objective) == "" {
		return nil, query.ErrEmptyObjective
	}
	if len(files) == 0 {
		return nil, ErrEmptyCorpus
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	run := NewRun(a.newID(), names)
	log := a.log.With("run_id", run.ID)
	log.Info("analysis started", "documents", len(files), "persona", persona, "strategy", a.cfg.Strategy)

	docs, err := a.extract(ctx, run, files, log)
	if err != nil {
		return nil, err
	}
	slots := make([]int, len(docs))
	for i, d := range docs {
		slots[i] = d.Index
	}
	return a.analyze(ctx, run, docs, slots, persona, objective, start, log)
}

// Analyze runs the phases after extraction on already extracted documents.
// Each document's Index must reflect upload order.
func (a *Analyzer) Analyze(ctx context.Context, docs []*document.Document, persona, objective string) (*document.AnalysisResult, error) {
	start := a.now()
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(objective) == "" {
		return nil, query.ErrEmptyObjective
	}
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}
	names := make([]string, len(docs))
	slots := make([]int, len(docs))
	for i, d := range docs {
		names[i] = d.Filename
		slots[i] = i
	}
	run := NewRun(a.newID(), names)
	return a.analyze(ctx, run, docs, slots, persona, objective, start, a.log.With("run_id", run.ID))
}

// extract parses every file. Failed files are recorded on run and left out of
// the returned slice.
func (a *Analyzer) extract(ctx context.Context, run *Run, files []File, log *slog.Logger) ([]*document.Document, error) {
	docs := make([]*document.Document, 0, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extract: %w", err)
		}
		run.SetStatus(i, StatusParsing)
		dlog := log.With("filename", f.Name)

		if f.Err != nil {
			dlog.Warn("read failed", "error", f.Err)
			run.Fail(i, f.Err.Error())
			continue
		}
		p, err := parser.ForFile(f.Name, a.parseOpts)
		if err != nil {
			dlog.Warn("unsupported format", "error", err)
			run.Fail(i, err.Error())
			continue
		}
		doc, err := p.Parse(bytes.NewReader(f.Data), f.Name)
		if err != nil {
			dlog.Warn("extraction failed", "error", err)
			run.Fail(i, err.Error())
			continue
		}
		if len(doc.Pages) == 0 {
			dlog.Warn("no extractable text")
			run.Fail(i, "no extractable text")
			continue
		}
		doc.ID = DocumentID(f.Data)
		doc.Index = i
		run.Docs[i].DocID = doc.ID
		dlog.Info("extracted document", "doc_id", doc.ID, "pages", len(doc.Pages))
		docs = append(docs, doc)
	}
	return docs, nil
}

// analyze runs the core phases. slots[i] is the run state index of docs[i].
func (a *Analyzer) analyze(ctx context.Context, run *Run, docs []*document.Document, slots []int, persona, objective string, start time.Time, log *slog.Logger) (*document.AnalysisResult, error) {
	strategy, err := keyword.New(a.cfg.Strategy, languageSample(objective, docs))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfiguration, err)
	}
	q, err := query.New(persona, objective, strategy)
	if err != nil {
		return nil, err
	}

	// Phase: segment
	seg := segment.New(segment.Config{MinWords: a.cfg.MinSectionWords})
	var sections []document.Section
	for n, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("segment: %w", err)
		}
		i := slots[n]
		run.SetStatus(i, StatusSegmenting)
		found := seg.Segment(doc)
		run.Segmented(i, len(found), fmt.Sprintf("no section reached %d words", a.cfg.MinSectionWords))
		log.Info("segmented document", "filename", doc.Filename, "sections", len(found))
		sections = append(sections, found...)
	}

	// Phase: score and rank
	scorer := score.New(strategy, score.Weights{Semantic: a.cfg.SemanticWeight, Keyword: a.cfg.KeywordWeight})
	scored, rel := scorer.Score(sections, q)
	ranked, err := rank.Rank(scored, a.cfg.MaxSections)
	if err != nil && !errors.Is(err, rank.ErrNoSectionsAcrossCorpus) {
		return nil, err
	}
	if errors.Is(err, rank.ErrNoSectionsAcrossCorpus) {
		log.Warn("no sections across corpus")
	}

	// Phase: refine
	excerpts := refine.New(rel, a.cfg.ExcerptSentences).RefineAll(ranked)

	result := &document.AnalysisResult{
		Metadata: document.Metadata{
			InputDocuments:      inputNames(run),
			Persona:             q.Persona,
			Objective:           q.Objective,
			ProcessingTimestamp: start.UTC(),
			RunID:               run.ID,
			Strategy:            strategy.Name(),
			Outcome:             run.Outcome(len(ranked)),
			Issues:              run.Issues(),
		},
		ExtractedSections:  make([]document.ExtractedSection, len(ranked)),
		SubsectionAnalysis: make([]document.SubsectionAnalysis, len(excerpts)),
	}
	for i, s := range ranked {
		result.ExtractedSections[i] = document.ExtractedSection{
			Document:       s.Filename,
			SectionTitle:   s.Title,
			ImportanceRank: s.Rank,
			PageNumber:     s.StartPage,
			RelevanceScore: round4(s.CombinedScore),
		}
	}
	for i, ex := range excerpts {
		result.SubsectionAnalysis[i] = document.SubsectionAnalysis{
			Document:    ex.Document,
			RefinedText: ex.RefinedText,
			PageNumber:  ex.PageNumber,
		}
	}
	elapsed := a.now().Sub(start)
	result.Metadata.ProcessingDuration = document.FormatDuration(elapsed)

	log.Info("analysis complete",
		"sections", len(sections),
		"ranked", len(ranked),
		"outcome", result.Metadata.Outcome,
		"issues", len(result.Metadata.Issues),
		"duration_ms", elapsed.Milliseconds(),
	)
	return result, nil
}

func inputNames(run *Run) []string {
	out := make([]string, len(run.Docs))
	for i, d := range run.Docs {
		out[i] = d.Filename
	}
	return out
}

// languageSample is the objective plus the opening words of each document.
func languageSample(objective string, docs []*document.Document) string {
	parts := []string{objective}
	for _, d := range docs {
		words := strings.Fields(d.Text())
		if len(words) > sampleWords {
			words = words[:sampleWords]
		}
		parts = append(parts, strings.Join(words, " "))
	}
	return strings.Join(parts, " ")
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
