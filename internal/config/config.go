package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfiguration wraps every analysis settings validation failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Analysis holds the settings of one analysis run.
type Analysis struct {
	MinSectionWords  int     `json:"min_section_words" yaml:"min_section_words" validate:"gte=1"`
	MaxSections      int     `json:"max_sections" yaml:"max_sections" validate:"gte=1"`
	SemanticWeight   float64 `json:"semantic_weight" yaml:"semantic_weight" validate:"gte=0,lte=1"`
	KeywordWeight    float64 `json:"keyword_weight" yaml:"keyword_weight" validate:"gte=0,lte=1"`
	ExcerptSentences int     `json:"excerpt_sentences" yaml:"excerpt_sentences" validate:"gte=1,lte=10"`
	Strategy         string  `json:"strategy" yaml:"strategy" validate:"oneof=basic enhanced"`
}

// DefaultAnalysis returns the standard analysis settings.
func DefaultAnalysis() Analysis {
	return Analysis{
		MinSectionWords:  30,
		MaxSections:      20,
		SemanticWeight:   0.6,
		KeywordWeight:    0.4,
		ExcerptSentences: 3,
		Strategy:         "basic",
	}
}

// weightTolerance bounds the rounding error allowed in the weight sum.
const weightTolerance = 1e-9

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Validate checks field ranges and that the weights sum to 1.
func (a Analysis) Validate() error {
	var problems []string
	if err := validate.Struct(a); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		}
	}
	if sum := a.SemanticWeight + a.KeywordWeight; math.Abs(sum-1) > weightTolerance {
		problems = append(problems, fmt.Sprintf("semantic_weight + keyword_weight must equal 1 (got %g)", sum))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

type Config struct {
	Port string

	// Auth. Empty disables bearer auth on the API.
	APIKey string

	// Upload limits
	MaxUploadBytes int64
	MaxDocuments   int

	// Latency stats window
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Optional YAML file overlaying Analysis.
	File string

	Analysis Analysis
}

// Load reads the environment, then the optional YAML file named by
// DOCSIFT_CONFIG. Analysis env vars override values from the file.
func Load() (Config, error) {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCSIFT_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		MaxDocuments:   envInt("MAX_DOCUMENTS", 10),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		File:     os.Getenv("DOCSIFT_CONFIG"),
		Analysis: DefaultAnalysis(),
	}

	if cfg.File != "" {
		a, err := LoadAnalysisFile(cfg.File, cfg.Analysis)
		if err != nil {
			return cfg, err
		}
		cfg.Analysis = a
	}

	a := &cfg.Analysis
	a.MinSectionWords = envInt("MIN_SECTION_WORDS", a.MinSectionWords)
	a.MaxSections = envInt("MAX_SECTIONS", a.MaxSections)
	a.SemanticWeight = envFloat("SEMANTIC_WEIGHT", a.SemanticWeight)
	a.KeywordWeight = envFloat("KEYWORD_WEIGHT", a.KeywordWeight)
	a.ExcerptSentences = envInt("EXCERPT_SENTENCES", a.ExcerptSentences)
	a.Strategy = strings.ToLower(envOr("KEYWORD_STRATEGY", a.Strategy))

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg, nil
}

// LoadAnalysisFile overlays the YAML file at path onto base. Keys missing
// from the file keep their base values.
func LoadAnalysisFile(path string, base Analysis) (Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	out := base
	if err := yaml.Unmarshal(data, &out); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return out, nil
}

func (c Config) Validate() error {
	if c.MaxDocuments < 1 {
		return fmt.Errorf("MAX_DOCUMENTS must be at least 1")
	}
	return c.Analysis.Validate()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
