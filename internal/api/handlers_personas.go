package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/docsift/internal/export"
	"github.com/dgallion1/docsift/internal/keyword"
	"github.com/dgallion1/docsift/internal/query"
)

func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"personas":   query.Personas,
		"custom":     query.CustomPersona,
		"strategies": []string{keyword.BasicName, keyword.EnhancedName},
		"formats":    export.Formats,
		"defaults":   s.cfg.Analysis,
	})
}
