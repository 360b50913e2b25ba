package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAnalysis_Valid(t *testing.T) {
	require.NoError(t, DefaultAnalysis().Validate())
}

func TestAnalysisValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Analysis)
		field  string
	}{
		{"zero max sections", func(a *Analysis) { a.MaxSections = 0 }, "max_sections"},
		{"negative min words", func(a *Analysis) { a.MinSectionWords = -1 }, "min_section_words"},
		{"weights do not sum", func(a *Analysis) { a.SemanticWeight = 0.7 }, "must equal 1"},
		{"weight out of range", func(a *Analysis) { a.SemanticWeight, a.KeywordWeight = 1.5, -0.5 }, "semantic_weight"},
		{"too many sentences", func(a *Analysis) { a.ExcerptSentences = 11 }, "excerpt_sentences"},
		{"unknown strategy", func(a *Analysis) { a.Strategy = "neural" }, "strategy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := DefaultAnalysis()
			tt.mutate(&a)
			err := a.Validate()
			require.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestAnalysisValidate_WeightRoundingTolerated(t *testing.T) {
	a := DefaultAnalysis()
	a.SemanticWeight, a.KeywordWeight = 0.7, 0.3
	assert.NoError(t, a.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DOCSIFT_CONFIG", "")
	t.Setenv("MAX_SECTIONS", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, 10, cfg.MaxDocuments)
	assert.Equal(t, time.Hour, cfg.StatsWindow)
	assert.Equal(t, DefaultAnalysis(), cfg.Analysis)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsift.yaml")
	yml := "max_sections: 5\nstrategy: enhanced\nexcerpt_sentences: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("DOCSIFT_CONFIG", path)
	t.Setenv("EXCERPT_SENTENCES", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Analysis.MaxSections, "from file")
	assert.Equal(t, "enhanced", cfg.Analysis.Strategy)
	assert.Equal(t, 2, cfg.Analysis.ExcerptSentences, "env overrides file")
	assert.Equal(t, 30, cfg.Analysis.MinSectionWords, "untouched default")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("DOCSIFT_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestConfigValidate_MaxDocuments(t *testing.T) {
	cfg := Config{MaxDocuments: 0, Analysis: DefaultAnalysis()}
	assert.Error(t, cfg.Validate())
}
