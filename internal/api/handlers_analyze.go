package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/export"
	"github.com/dgallion1/docsift/internal/parser"
	"github.com/dgallion1/docsift/internal/pipeline"
	"github.com/dgallion1/docsift/internal/query"
)

const formOverhead = 1024 * 1024

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*int64(s.cfg.MaxDocuments)+formOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	// Settings are checked before the corpus.
	settings, err := s.analysisSettings(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	exp, err := export.ForFormat(r.FormValue("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		jsonError(w, pipeline.ErrEmptyCorpus.Error(), http.StatusBadRequest)
		return
	}
	if len(headers) > s.cfg.MaxDocuments {
		jsonError(w, fmt.Sprintf("too many files: %d (max %d)", len(headers), s.cfg.MaxDocuments), http.StatusBadRequest)
		return
	}

	files := make([]pipeline.File, 0, len(headers))
	for _, fh := range headers {
		filename := sanitizeFilename(fh.Filename)
		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open file: "+filename, http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, "failed to read file: "+filename, http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("%s exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		if !parser.IsSupportedExtension(filename) {
			s.log.Warn("unsupported upload kept as issue", "filename", filename, "ext", filepath.Ext(filename))
		}
		files = append(files, pipeline.File{Name: filename, Data: data})
	}

	parseOpts := parser.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext}
	analyzer := pipeline.NewAnalyzer(settings, parseOpts, s.log)
	result, err := analyzer.Run(r.Context(), files, r.FormValue("persona"), r.FormValue("objective"))
	if err != nil {
		switch {
		case errors.Is(err, config.ErrInvalidConfiguration),
			errors.Is(err, pipeline.ErrEmptyCorpus),
			errors.Is(err, query.ErrEmptyObjective):
			jsonError(w, err.Error(), http.StatusBadRequest)
		default:
			s.log.Error("analysis failed", "error", err)
			jsonError(w, "analysis failed", http.StatusInternalServerError)
		}
		return
	}
	if s.stats != nil {
		s.stats.Record(time.Since(start).Milliseconds(), string(result.Metadata.Outcome))
	}

	var buf bytes.Buffer
	if err := exp.Export(&buf, result); err != nil {
		s.log.Error("export failed", "run_id", result.Metadata.RunID, "error", err)
		jsonError(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", exp.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(exp, r.FormValue("name"), result.Metadata.ProcessingTimestamp)))
	w.Header().Set("X-Run-ID", result.Metadata.RunID)
	w.Write(buf.Bytes())
}

// analysisSettings applies the request's optional overrides to the
// configured analysis settings.
func (s *Server) analysisSettings(r *http.Request) (config.Analysis, error) {
	a := s.cfg.Analysis
	ints := []struct {
		field string
		dst   *int
	}{
		{"max_sections", &a.MaxSections},
		{"min_section_words", &a.MinSectionWords},
		{"excerpt_sentences", &a.ExcerptSentences},
	}
	for _, it := range ints {
		v := strings.TrimSpace(r.FormValue(it.field))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return a, fmt.Errorf("%w: %s must be an integer", config.ErrInvalidConfiguration, it.field)
		}
		*it.dst = n
	}
	if v := strings.TrimSpace(r.FormValue("strategy")); v != "" {
		a.Strategy = strings.ToLower(v)
	}
	return a, a.Validate()
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
