package export

import (
	"encoding/json"
	"io"

	"github.com/dgallion1/docsift/internal/document"
)

// JSON writes the result schema with two-space indentation.
type JSON struct{}

func (JSON) ContentType() string { return "application/json" }
func (JSON) Extension() string   { return ".json" }

func (JSON) Export(w io.Writer, result *document.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}
