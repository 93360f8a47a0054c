// Package proxy forwards /api/openai/* to the upstream OpenAI-compatible
// API, optionally substituting PII placeholders into chat completion
// bodies on the way out and restoring them on the way back.
package proxy

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// skipHeaders are request headers never forwarded upstream.
var skipHeaders = map[string]bool{
	"host":              true,
	"content-length":    true,
	"transfer-encoding": true,
	"connection":        true,
}

// Proxy forwards API requests to the configured upstream base URL.
type Proxy struct {
	baseURL  string
	client   *http.Client
	redactor *Redactor // nil disables placeholder substitution
}

// New creates a Proxy. redactor may be nil to forward bodies verbatim.
func New(baseURL string, redactor *Redactor) *Proxy {
	return &Proxy{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 120 * time.Second},
		redactor: redactor,
	}
}

// RegisterRoutes mounts the proxy under /api/openai/*.
func (p *Proxy) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/api/openai/*", p.handle)
}

func (p *Proxy) handle(w http.ResponseWriter, r *http.Request) {
	rest := chi.URLParam(r, "*")
	target := p.baseURL + "/" + rest
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"error":"reading request body"}`, http.StatusBadRequest)
		return
	}

	var placeholders map[string]string
	if p.redactor != nil && r.Method == http.MethodPost && strings.HasSuffix(rest, "chat/completions") {
		body, placeholders, err = p.redactor.SubstituteChat(body)
		if err != nil {
			http.Error(w, `{"error":"rewriting request body"}`, http.StatusBadGateway)
			return
		}
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, bytes.NewReader(body))
	if err != nil {
		http.Error(w, `{"error":"building upstream request"}`, http.StatusBadGateway)
		return
	}
	for key, values := range r.Header {
		if skipHeaders[strings.ToLower(key)] {
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("proxy: upstream %s: %v", target, err)
		http.Error(w, `{"error":"upstream request failed"}`, http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		http.Error(w, `{"error":"reading upstream response"}`, http.StatusBadGateway)
		return
	}
	respBody = Restore(respBody, placeholders)

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(resp.StatusCode)
	w.Write(respBody)
}
