package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/document"
	"github.com/dgallion1/docsift/internal/stats"
)

const travelGuide = `## Packing List

Every one of the ten friends should pack a single carry-on bag for the trip.
Plan the luggage logistics a day ahead. Label each bag, share a checklist and split group gear
such as chargers, first aid kits and snacks. Keep passports and tickets in one folder so the whole
trip runs smoothly and nobody waits at the airport.
`

func testConfig() config.Config {
	return config.Config{
		Port:           "0",
		MaxUploadBytes: 1 << 20,
		MaxDocuments:   3,
		StatsWindow:    time.Hour,
		Analysis:       config.DefaultAnalysis(),
	}
}

func newTestServer(cfg config.Config) (*Server, *stats.RunStats) {
	st := stats.NewRunStats(cfg.StatsWindow)
	return NewServer(st, slog.New(slog.NewTextHandler(io.Discard, nil)), cfg), st
}

type upload struct {
	name, body string
}

func analyzeRequest(t *testing.T, fields map[string]string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(testConfig())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPersonas(t *testing.T) {
	srv, _ := newTestServer(testConfig())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/personas", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Personas []struct {
			Name string `json:"name"`
		} `json:"personas"`
		Custom   string          `json:"custom"`
		Defaults config.Analysis `json:"defaults"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotEmpty(t, body.Personas)
	assert.Equal(t, "Travel Planner", body.Personas[0].Name)
	assert.Equal(t, "Custom User", body.Custom)
	assert.Equal(t, config.DefaultAnalysis(), body.Defaults)
}

func TestAnalyze_JSON(t *testing.T) {
	srv, st := newTestServer(testConfig())
	req := analyzeRequest(t,
		map[string]string{"persona": "Travel Planner", "objective": "Plan a 4-day trip for 10 friends"},
		upload{"travel.md", travelGuide},
		upload{"../../notes.txt", "Call the hotel."},
	)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "challenge1b_output.json")

	var res document.AnalysisResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, []string{"travel.md", "notes.txt"}, res.Metadata.InputDocuments)
	assert.Equal(t, document.OutcomePartial, res.Metadata.Outcome)
	require.Len(t, res.ExtractedSections, 1)
	assert.Equal(t, "Packing List", res.ExtractedSections[0].SectionTitle)
	assert.Equal(t, res.Metadata.RunID, rec.Header().Get("X-Run-ID"))

	snap := st.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, 1, snap.Outcomes["partial"])
}

func TestAnalyze_CSVWithOverrides(t *testing.T) {
	srv, _ := newTestServer(testConfig())
	req := analyzeRequest(t,
		map[string]string{
			"persona":           "Travel Planner",
			"objective":         "Plan a trip",
			"format":            "csv",
			"min_section_words": "5",
			"excerpt_sentences": "1",
			"name":              "Spring Trip",
		},
		upload{"travel.md", travelGuide},
	)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "spring-trip_output.csv")

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, "Type", rows[0][0])
	assert.Equal(t, "Metadata", rows[1][0])
	assert.Equal(t, "Section", rows[2][0])
}

func TestAnalyze_CSVDefaultName(t *testing.T) {
	srv, _ := newTestServer(testConfig())
	req := analyzeRequest(t,
		map[string]string{"persona": "Travel Planner", "objective": "Plan a trip", "format": "csv"},
		upload{"travel.md", travelGuide},
	)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Regexp(t, `filename="document_analysis_\d{8}_\d{6}\.csv"`, rec.Header().Get("Content-Disposition"))
}

func TestAnalyze_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		files  []upload
		want   string
	}{
		{"no files", map[string]string{"objective": "Plan a trip"}, nil, "empty corpus"},
		{"no files and bad settings", map[string]string{"objective": "Plan a trip", "max_sections": "0"}, nil, "max_sections"},
		{"too many files and bad format", map[string]string{"objective": "x", "format": "xlsx"}, []upload{{"a.txt", "a"}, {"b.txt", "b"}, {"c.txt", "c"}, {"d.txt", "d"}}, "unsupported export format"},
		{"blank objective", map[string]string{"objective": " "}, []upload{{"a.txt", travelGuide}}, "objective is required"},
		{"bad max sections", map[string]string{"objective": "x", "max_sections": "0"}, []upload{{"a.txt", travelGuide}}, "max_sections"},
		{"non-integer", map[string]string{"objective": "x", "excerpt_sentences": "three"}, []upload{{"a.txt", travelGuide}}, "must be an integer"},
		{"unknown strategy", map[string]string{"objective": "x", "strategy": "neural"}, []upload{{"a.txt", travelGuide}}, "strategy"},
		{"unknown format", map[string]string{"objective": "x", "format": "xlsx"}, []upload{{"a.txt", travelGuide}}, "unsupported export format"},
		{"too many files", map[string]string{"objective": "x"}, []upload{{"a.txt", "a"}, {"b.txt", "b"}, {"c.txt", "c"}, {"d.txt", "d"}}, "too many files"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, st := newTestServer(testConfig())
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, analyzeRequest(t, tt.fields, tt.files...))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.want)
			assert.Zero(t, st.Snapshot().Count)
		})
	}
}

func TestAnalyze_FileTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadBytes = 64
	srv, _ := newTestServer(cfg)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, analyzeRequest(t, map[string]string{"objective": "Plan a trip"}, upload{"big.txt", strings.Repeat("word ", 100)}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAuth(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "secret"
	srv, _ := newTestServer(cfg)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/personas", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/personas", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid api key", decodeError(t, rec))

	req = httptest.NewRequest(http.MethodGet, "/api/personas", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalysisStats(t *testing.T) {
	srv, st := newTestServer(testConfig())
	st.Record(120, "complete")
	st.Record(80, "partial")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats/analysis", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Window string         `json:"window"`
		Stats  stats.Snapshot `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "1h0m0s", body.Window)
	assert.Equal(t, 2, body.Stats.Count)
	assert.Equal(t, int64(80), body.Stats.MinMs)
	assert.Equal(t, int64(120), body.Stats.MaxMs)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"../../etc/passwd": "passwd",
		"report.pdf":       "report.pdf",
		"":                 "unnamed",
		`a\b.txt`:          "a_b.txt",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}
