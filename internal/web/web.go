// Package web serves the HTML surface: home, documentation, legal pages and
// the OAuth login/callback routes. All state lives server-side; pages are
// plain rendered HTML with navigation encoded in URLs.
package web

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/plenohq/plenosite/internal/docs"
	"github.com/plenohq/plenosite/internal/session"
)

// settleWait bounds how long the callback handler blocks waiting for the
// token exchange before handing off to the event stream.
const settleWait = 10 * time.Second

// Web renders the site's HTML routes.
type Web struct {
	provider *session.Provider
	library  *docs.Library
	apiRef   *docs.APIReference
	patience time.Duration
	tmpl     *template.Template
}

// New creates the web surface. apiRef may be nil when no OpenAPI document is
// configured; the API reference pane then renders without the endpoint table.
func New(provider *session.Provider, library *docs.Library, apiRef *docs.APIReference, patience time.Duration) (*Web, error) {
	if provider == nil {
		return nil, fmt.Errorf("web: nil session provider")
	}
	if library == nil {
		return nil, fmt.Errorf("web: nil docs library")
	}
	if patience <= 0 {
		patience = 5 * time.Second
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("web: parsing templates: %w", err)
	}
	return &Web{
		provider: provider,
		library:  library,
		apiRef:   apiRef,
		patience: patience,
		tmpl:     tmpl,
	}, nil
}

// RegisterRoutes mounts all HTML routes onto the given router.
func (s *Web) RegisterRoutes(r chi.Router) {
	r.Get("/", s.handleHome)
	r.Get("/docs", s.handleDocsIndex)
	r.Get("/docs/api", s.handleDocsAPI)
	r.Get("/docs/{section}", s.handleDocsSection)
	r.Get("/privacy", s.handlePrivacy)
	r.Get("/terms", s.handleTerms)
	r.Get("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get("/callback", s.handleCallback)
}

// pageData is the common data for every template.
type pageData struct {
	Title         string
	Authenticated bool
	LoginError    string

	// docs page
	Sidebar        []navEntry
	Content        template.HTML
	Anchor         string
	APIRef         *docs.APIReference
	MenuOpen       bool
	MenuToggleHref string
	MenuCloseHref  string

	// callback page
	Error      string
	StripQuery bool
	DeadlineMS int64
}

func (s *Web) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("web: rendering %s: %v", name, err)
	}
}

// authState reads the request's session state. A missing session handle is
// a wiring error and surfaces as an error; callers must stop rendering
// rather than present a page that misreports who the visitor is.
func (s *Web) authState(r *http.Request) (session.AuthState, error) {
	h, err := session.FromContext(r.Context())
	if err != nil {
		return session.AuthState{}, err
	}
	return h.State(r.Context()), nil
}

func (s *Web) handleHome(w http.ResponseWriter, r *http.Request) {
	st, err := s.authState(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.render(w, "home", pageData{
		Title:         "Pleno",
		Authenticated: st.IsAuthenticated(),
		LoginError:    st.Error,
	})
}

func (s *Web) handleDocsIndex(w http.ResponseWriter, r *http.Request) {
	nav := docs.NewNavigator()
	http.Redirect(w, r, navURL(nav), http.StatusFound)
}

func (s *Web) handleDocsAPI(w http.ResponseWriter, r *http.Request) {
	nav := navFromRequest(docs.SecAPIReference, r.URL.Query())
	s.renderDocs(w, r, nav)
}

func (s *Web) handleDocsSection(w http.ResponseWriter, r *http.Request) {
	id := docs.SectionID(chi.URLParam(r, "section"))
	if !docs.Known(id) {
		http.NotFound(w, r)
		return
	}
	nav := navFromRequest(id, r.URL.Query())
	s.renderDocs(w, r, nav)
}

func (s *Web) renderDocs(w http.ResponseWriter, r *http.Request, nav *docs.Navigator) {
	pane, anchor, ok := s.library.Pane(nav.Active())
	if !ok {
		http.NotFound(w, r)
		return
	}

	st, err := s.authState(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data := pageData{
		Title:          pane.Section.Title,
		Authenticated:  st.IsAuthenticated(),
		Sidebar:        buildSidebar(nav),
		Content:        pane.HTML,
		Anchor:         anchor,
		MenuOpen:       nav.MobileMenuOpen(),
		MenuToggleHref: menuURL(nav, !nav.MobileMenuOpen()),
		MenuCloseHref:  menuURL(nav, false),
	}
	if pane.Section.ID == docs.SecAPIReference {
		data.APIRef = s.apiRef
	}
	s.render(w, "docs", data)
}

func (s *Web) handlePrivacy(w http.ResponseWriter, r *http.Request) {
	st, err := s.authState(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.render(w, "legal", pageData{
		Title:         "Privacy Policy",
		Authenticated: st.IsAuthenticated(),
		Content:       privacyHTML,
	})
}

func (s *Web) handleTerms(w http.ResponseWriter, r *http.Request) {
	st, err := s.authState(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.render(w, "legal", pageData{
		Title:         "Terms of Service",
		Authenticated: st.IsAuthenticated(),
		Content:       termsHTML,
	})
}

func (s *Web) handleLogin(w http.ResponseWriter, r *http.Request) {
	h, err := session.FromContext(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	authURL, err := s.provider.BeginLogin(r.Context(), h.SessionID())
	if err != nil {
		log.Printf("web: begin login: %v", err)
		http.Error(w, "could not start login", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (s *Web) handleLogout(w http.ResponseWriter, r *http.Request) {
	h, err := session.FromContext(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.provider.Logout(r.Context(), h.SessionID()); err != nil {
		log.Printf("web: logout: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleCallback finishes the OAuth flow. The exchange runs off the request
// so a closed connection cannot abort it; the handler waits a bounded time
// for the session to settle and answers with a history-replacing redirect.
// If the exchange outlasts the wait, the rendered page watches the session
// event stream and finishes the navigation client-side.
func (s *Web) handleCallback(w http.ResponseWriter, r *http.Request) {
	h, err := session.FromContext(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	state, code, errParam := q.Get("state"), q.Get("code"), q.Get("error")
	if code != "" || errParam != "" {
		go s.provider.CompleteLogin(context.WithoutCancel(r.Context()), h.SessionID(), state, code, errParam)
	}

	ctx, cancel := context.WithTimeout(r.Context(), settleWait)
	defer cancel()
	outcome, st := session.Await(ctx, s.provider, h.SessionID(), s.patience)

	w.Header().Set("Cache-Control", "no-store")
	if target := outcome.Target(); target != "" {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	// Still pending after the wait; the page takes over.
	s.render(w, "callback", pageData{
		Title:      "Signing in",
		Error:      st.Error,
		StripQuery: s.provider.StripQuery() && r.URL.RawQuery != "",
		DeadlineMS: (settleWait + s.patience).Milliseconds(),
	})
}

// privacyHTML and termsHTML are the static legal pages.
var privacyHTML = template.HTML(`
<h1>Privacy Policy</h1>
<p>Pleno processes the text you submit to the analyze, redact and proxy
endpoints solely to produce the response. Submitted text is not stored,
logged or used for training.</p>
<h2 id="data-we-keep">Data we keep</h2>
<p>We keep your account email, an opaque session identifier and access
tokens issued by the identity provider. Sessions expire and are purged
automatically.</p>
<h2 id="third-parties">Third parties</h2>
<p>Requests to the OpenAI proxy are forwarded to the configured upstream
after personal data has been replaced with placeholders. The upstream never
sees the original values.</p>
`)

var termsHTML = template.HTML(`
<h1>Terms of Service</h1>
<p>The service is provided as-is, without warranty of any kind. Automated
PII detection is pattern-based and not exhaustive; you remain responsible
for the data you transmit.</p>
<h2 id="acceptable-use">Acceptable use</h2>
<p>Do not use the service to process data you are not authorized to handle,
or in violation of applicable data-protection law.</p>
<h2 id="availability">Availability</h2>
<p>We may change or discontinue the service at any time. Self-hosted
deployments are governed by their own operator.</p>
`)
