package web

import "html/template"

// parseTemplates builds the template set for all HTML pages.
func parseTemplates() (*template.Template, error) {
	t := template.New("web")
	for _, src := range []string{headTemplate, homeTemplate, docsTemplate, callbackTemplate, legalTemplate} {
		if _, err := t.Parse(src); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// headTemplate is the shared document head and top bar.
const headTemplate = `{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} — Pleno</title>
  <style>` + cssContent + `</style>
</head>
<body>
<header class="top-bar">
  <a href="/" class="brand">Pleno</a>
  <nav class="top-nav">
    <a href="/docs">Docs</a>
    <a href="/privacy">Privacy</a>
    <a href="/terms">Terms</a>
    {{if .Authenticated}}<form method="post" action="/logout" class="inline-form"><button type="submit" class="btn btn-ghost">Sign out</button></form>{{else}}<a href="/login" class="btn btn-primary">Sign in</a>{{end}}
  </nav>
</header>
{{end}}
{{define "foot"}}</body>
</html>{{end}}`

// homeTemplate is the landing page.
const homeTemplate = `{{define "home"}}{{template "head" .}}
<main class="hero">
  <h1>PII detection and redaction, as an API</h1>
  <p>Analyze text for personal data, redact it with configurable operators,
  and proxy OpenAI requests with automatic placeholder substitution.</p>
  {{if .LoginError}}<div class="error-banner">Sign-in failed: {{.LoginError}}</div>{{end}}
  <div class="hero-actions">
    {{if .Authenticated}}<a href="/docs" class="btn btn-primary">Open documentation</a>{{else}}<a href="/login" class="btn btn-primary">Sign in</a>
    <a href="/docs" class="btn btn-ghost">Browse docs</a>{{end}}
  </div>
</main>
{{template "foot" .}}{{end}}`

// docsTemplate renders a documentation pane with the sidebar.
const docsTemplate = `{{define "docs"}}{{template "head" .}}
<div class="docs-layout{{if .MenuOpen}} menu-open{{end}}">
  <a href="{{.MenuToggleHref}}" class="menu-toggle" aria-label="Toggle navigation">&#9776;</a>
  {{if .MenuOpen}}<a href="{{.MenuCloseHref}}" class="sidebar-overlay" aria-label="Close navigation"></a>{{end}}
  <nav class="sidebar">
    <ul class="nav-tree">
      {{range .Sidebar}}
      <li>
        <div class="nav-row{{if .Active}} active{{end}}">
          <a href="{{.Href}}" class="nav-link">{{.Title}}</a>
          {{if .ToggleHref}}<a href="{{.ToggleHref}}" class="nav-chevron{{if .Expanded}} open{{end}}" aria-label="Toggle {{.Title}}">&#9656;</a>{{end}}
        </div>
        {{if .Expanded}}
        <ul class="nav-children">
          {{range .Children}}<li><a href="{{.Href}}" class="nav-link sub{{if .Active}} active{{end}}">{{.Title}}</a></li>{{end}}
        </ul>
        {{end}}
      </li>
      {{end}}
    </ul>
  </nav>
  <main class="pane" {{if .Anchor}}data-anchor="{{.Anchor}}"{{end}}>
    <article class="pane-content">
      {{.Content}}
      {{if .APIRef}}
      <section class="api-ref">
        <h2 id="endpoints">{{.APIRef.Title}} <span class="api-version">v{{.APIRef.Version}}</span></h2>
        <table>
          <thead><tr><th>Method</th><th>Path</th><th>Summary</th></tr></thead>
          <tbody>
          {{range .APIRef.Endpoints}}<tr><td><code>{{.Method}}</code></td><td><code>{{.Path}}</code></td><td>{{.Summary}}</td></tr>
          {{end}}</tbody>
        </table>
      </section>
      {{end}}
    </article>
  </main>
</div>
<script>
(function () {
  var pane = document.querySelector('.pane');
  var anchor = pane && pane.dataset.anchor;
  if (!anchor) return;
  // Scroll after layout settles; a missing anchor is fine.
  requestAnimationFrame(function () {
    var el = document.getElementById(anchor);
    if (el) el.scrollIntoView();
  });
})();
</script>
{{template "foot" .}}{{end}}`

// callbackTemplate is shown while the token exchange is still settling. Its
// script watches the session event stream and finishes the navigation with
// location.replace so the callback URL never lands in history.
const callbackTemplate = `{{define "callback"}}{{template "head" .}}
<main class="callback">
  {{if .Error}}
  <div class="error-banner">{{.Error}}</div>
  <p>Taking you back&hellip;</p>
  {{else}}
  <div class="spinner" aria-hidden="true"></div>
  <p>Completing sign-in&hellip;</p>
  {{end}}
</main>
<script>
(function () {
  {{if .StripQuery}}
  if (location.search) history.replaceState(null, '', location.pathname);
  {{end}}
  var redirected = false;
  function finish(target) {
    if (redirected) return;
    redirected = true;
    location.replace(target);
  }
  var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  var ws = new WebSocket(proto + '//' + location.host + '/api/session/events');
  ws.onmessage = function (ev) {
    var st = JSON.parse(ev.data);
    if (st.is_loading) return;
    finish(st.token ? '/docs' : '/');
  };
  // If the stream never settles, fall back home.
  setTimeout(function () { finish('/'); }, {{.DeadlineMS}});
})();
</script>
{{template "foot" .}}{{end}}`

// legalTemplate renders the privacy and terms pages.
const legalTemplate = `{{define "legal"}}{{template "head" .}}
<main class="legal">
  <article class="pane-content">
    {{.Content}}
  </article>
</main>
{{template "foot" .}}{{end}}`

// cssContent is the site stylesheet, inlined into every page.
const cssContent = `
:root {
  --bg: #ffffff;
  --bg-sidebar: #f6f8fa;
  --text: #1f2328;
  --text-muted: #656d76;
  --border: #d1d9e0;
  --accent: #0969da;
  --accent-light: #ddf4ff;
  --error-bg: #ffebe9;
  --error-border: #ff8182;
}
* { box-sizing: border-box; }
body { margin: 0; font-family: -apple-system, 'Segoe UI', Helvetica, Arial, sans-serif; color: var(--text); background: var(--bg); }
a { color: var(--accent); text-decoration: none; }
code { background: var(--bg-sidebar); padding: 2px 5px; border-radius: 4px; font-size: 0.9em; }
pre { background: var(--bg-sidebar); padding: 12px 16px; border-radius: 6px; overflow-x: auto; }
pre code { background: none; padding: 0; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid var(--border); padding: 6px 12px; text-align: left; }
.top-bar { display: flex; align-items: center; justify-content: space-between; padding: 12px 24px; border-bottom: 1px solid var(--border); }
.brand { font-weight: 700; font-size: 1.1rem; color: var(--text); }
.top-nav { display: flex; align-items: center; gap: 16px; }
.inline-form { display: inline; margin: 0; }
.btn { display: inline-block; padding: 6px 14px; border-radius: 6px; border: 1px solid var(--border); font-size: 0.95rem; cursor: pointer; background: var(--bg); }
.btn-primary { background: var(--accent); border-color: var(--accent); color: #fff; }
.btn-ghost { color: var(--text); }
.hero { max-width: 680px; margin: 80px auto; padding: 0 24px; text-align: center; }
.hero h1 { font-size: 2.2rem; }
.hero p { color: var(--text-muted); font-size: 1.1rem; }
.hero-actions { margin-top: 28px; display: flex; gap: 12px; justify-content: center; }
.error-banner { background: var(--error-bg); border: 1px solid var(--error-border); border-radius: 6px; padding: 10px 16px; margin: 16px 0; }
.docs-layout { display: flex; min-height: calc(100vh - 53px); }
.sidebar { width: 260px; flex-shrink: 0; background: var(--bg-sidebar); border-right: 1px solid var(--border); padding: 16px 0; }
.nav-tree, .nav-children { list-style: none; margin: 0; padding: 0; }
.nav-row { display: flex; align-items: center; justify-content: space-between; padding: 6px 16px; }
.nav-row.active { background: var(--accent-light); }
.nav-row.active .nav-link { font-weight: 600; }
.nav-link { color: var(--text); display: block; }
.nav-link.sub { padding: 4px 16px 4px 32px; font-size: 0.95rem; }
.nav-link.sub.active { background: var(--accent-light); font-weight: 600; }
.nav-chevron { color: var(--text-muted); padding: 0 4px; transition: transform 0.15s; }
.nav-chevron.open { transform: rotate(90deg); }
.pane { flex: 1; min-width: 0; }
.pane-content { max-width: 820px; margin: 0 auto; padding: 32px 40px 64px; }
.api-ref { margin-top: 32px; }
.api-version { color: var(--text-muted); font-size: 0.8em; font-weight: 400; }
.menu-toggle { display: none; position: fixed; top: 10px; right: 16px; font-size: 1.4rem; color: var(--text); z-index: 30; }
.sidebar-overlay { display: none; }
.callback { max-width: 420px; margin: 120px auto; text-align: center; padding: 0 24px; }
.spinner { width: 36px; height: 36px; margin: 0 auto 16px; border: 3px solid var(--border); border-top-color: var(--accent); border-radius: 50%; animation: spin 0.8s linear infinite; }
@keyframes spin { to { transform: rotate(360deg); } }
.legal { max-width: 720px; margin: 0 auto; }
@media (max-width: 768px) {
  .menu-toggle { display: block; }
  .sidebar { position: fixed; top: 0; bottom: 0; left: 0; z-index: 20; transform: translateX(-100%); transition: transform 0.2s; }
  .menu-open .sidebar { transform: translateX(0); }
  .menu-open .sidebar-overlay { display: block; position: fixed; inset: 0; background: rgba(0,0,0,0.35); z-index: 10; }
  .pane-content { padding: 24px 20px 48px; }
}
`
