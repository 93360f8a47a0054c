package anonymize

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter() chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, NewAnalyzer())
	return r
}

func TestAnalyzeEndpoint(t *testing.T) {
	r := newTestRouter()

	body := `{"text": "reach me at jane@example.com", "language": "en"}`
	req := httptest.NewRequest("POST", "/api/analyze", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var findings []Finding
	if err := json.Unmarshal(w.Body.Bytes(), &findings); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("findings = %+v", findings)
	}
	f := findings[0]
	if f.EntityType != EntityEmail || f.Text != "jane@example.com" {
		t.Errorf("finding = %+v", f)
	}
}

func TestAnalyzeEndpointNoFindingsIsEmptyArray(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("POST", "/api/analyze", strings.NewReader(`{"text": "nothing here"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty JSON array, got %q", w.Body.String())
	}
}

func TestAnalyzeEndpointRejectsEmptyText(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("POST", "/api/analyze", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestRedactEndpoint(t *testing.T) {
	r := newTestRouter()

	body := `{
		"text": "email jane@example.com about the card 4111111111111111",
		"operators": {"CREDIT_CARD": {"type": "mask", "chars_to_mask": 12}}
	}`
	req := httptest.NewRequest("POST", "/api/redact", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var res Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.Text, "jane@example.com") {
		t.Error("email leaked through default operator")
	}
	if !strings.Contains(res.Text, "<EMAIL_ADDRESS>") {
		t.Errorf("text = %q", res.Text)
	}
	if strings.Contains(res.Text, "4111111111111111") {
		t.Error("card number leaked")
	}
	if len(res.Items) != 2 {
		t.Errorf("items = %v", res.Items)
	}
}
