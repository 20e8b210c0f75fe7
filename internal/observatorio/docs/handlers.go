package docs

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"gopkg.in/yaml.v3"
)

// Handlers serves one compiled document. Renderings are computed once.
type Handlers struct {
	jsonDoc []byte
	yamlDoc []byte
}

func NewHandlers(doc *openapi3.T) (*Handlers, error) {
	jsonDoc, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render openapi json: %w", err)
	}
	// The YAML rendering goes through the JSON tree so both follow the
	// document's JSON field names.
	var tree map[string]any
	if err := json.Unmarshal(jsonDoc, &tree); err != nil {
		return nil, fmt.Errorf("failed to render openapi yaml: %w", err)
	}
	yamlDoc, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to render openapi yaml: %w", err)
	}
	return &Handlers{jsonDoc: jsonDoc, yamlDoc: yamlDoc}, nil
}

func (h *Handlers) JSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(h.jsonDoc)
}

func (h *Handlers) YAML(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(h.yamlDoc)
}

// UI serves Swagger UI, loading the document from specURL. Mount it on a
// wildcard route; the page lives at index.html below the mount point.
func UI(specURL string) http.HandlerFunc {
	return httpSwagger.Handler(httpSwagger.URL(specURL))
}
