package anonymize

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the anonymization API routes.
func RegisterRoutes(r chi.Router, analyzer *Analyzer) {
	r.Post("/api/analyze", handleAnalyze(analyzer))
	r.Post("/api/redact", handleRedact(analyzer))
}

type analyzeRequest struct {
	Text     string   `json:"text"`
	Language string   `json:"language"`
	Entities []string `json:"entities,omitempty"`
}

type redactRequest struct {
	Text      string                    `json:"text"`
	Language  string                    `json:"language"`
	Entities  []string                  `json:"entities,omitempty"`
	Operators map[string]OperatorConfig `json:"operators,omitempty"`
}

func handleAnalyze(analyzer *Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Text == "" {
			http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
			return
		}

		findings := analyzer.Analyze(req.Text, req.Entities)
		if findings == nil {
			findings = []Finding{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(findings)
	}
}

func handleRedact(analyzer *Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req redactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Text == "" {
			http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
			return
		}

		findings := analyzer.Analyze(req.Text, req.Entities)
		result := Anonymize(req.Text, findings, req.Operators)
		if result.Items == nil {
			result.Items = []string{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
