package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tcorea.dev/internal/config"
	"tcorea.dev/internal/detail"
	"tcorea.dev/internal/models"
	"tcorea.dev/internal/nav"
	"tcorea.dev/internal/render"
	"tcorea.dev/internal/services"
)

var groupLabels = []struct {
	group nav.Group
	label string
}{
	{nav.GroupProjects, "PROJECTS"},
	{nav.GroupCaseStudies, "CASE STUDIES"},
}

// PageHandler renders the HTML pages
type PageHandler struct {
	site      *config.SiteConfig
	projects  *services.ProjectService
	views     *services.ViewService
	renderer  *render.Renderer
	mediaPath string
	about     string
	logger    *zap.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(app *App) *PageHandler {
	site := app.Site
	if site == nil {
		site = config.DefaultSite()
	}
	return &PageHandler{
		site:      site,
		projects:  app.Projects,
		views:     app.Views,
		renderer:  app.Renderer,
		mediaPath: app.MediaPath,
		about:     app.About,
		logger:    app.Logger,
	}
}

// Home handles GET /: the gallery with its initial window
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	page := h.page(r, "")
	res := h.projects.Gallery(r.Context())
	if !res.Ready() {
		h.logger.Error("gallery catalog fetch failed", zap.Error(res.Err))
		page.Body = render.Gallery{Error: res.Message}
		h.renderPage(w, http.StatusBadGateway, "index", page)
		return
	}

	id, snap := h.views.Open(res.Projects())
	page.Body = render.Gallery{Grid: render.Grid{
		ViewID: id,
		Items:  snap.Visible,
		More:   snap.More(),
		Shown:  len(snap.Visible),
	}}
	w.Header().Set("Cache-Control", "no-store")
	h.renderPage(w, http.StatusOK, "index", page)
}

// Project handles GET /projects/{id}
func (h *PageHandler) Project(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v := h.projects.Detail(r.Context(), id)

	switch v.Status {
	case detail.Found:
		page := h.page(r, v.Project.Title)
		page.Body = render.Detail{Project: v.Project, Extra: v.Extra}
		h.renderPage(w, http.StatusOK, "project", page)
	case detail.NotFound:
		h.notice(w, r, http.StatusNotFound, v.Message)
	default:
		h.logger.Error("project catalog fetch failed", zap.String("id", id))
		h.notice(w, r, http.StatusBadGateway, v.Message)
	}
}

// About handles GET /about
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	links := make([]render.Link, 0, len(h.site.Links))
	for _, l := range h.site.Links {
		links = append(links, render.Link{Href: l.URL, Label: l.Label})
	}
	page := render.Page{
		Site:  h.site.Title,
		Title: "About",
		Bare:  true,
		Body: render.About{
			Content: h.renderer.Markdown(h.about),
			Links:   links,
		},
	}
	h.renderPage(w, http.StatusOK, "about", page)
}

// Sidebar handles GET /fragments/sidebar?from=...&open=...
func (h *PageHandler) Sidebar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sb := h.sidebar(r.Context(), localPath(q.Get("from")), nav.ParseMenu(q.Get("open")))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Fragment(w, "sidebar", sb); err != nil {
		h.logger.Error("rendering sidebar", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Media serves files from the media directory for any path no route matched
func (h *PageHandler) Media(w http.ResponseWriter, r *http.Request) {
	if h.mediaPath != "" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		f, err := http.Dir(h.mediaPath).Open(r.URL.Path)
		if err == nil {
			defer f.Close()
			if st, err := f.Stat(); err == nil && !st.IsDir() {
				http.ServeContent(w, r, st.Name(), st.ModTime(), f)
				return
			}
		}
	}
	h.notice(w, r, http.StatusNotFound, "Page not found")
}

func (h *PageHandler) notice(w http.ResponseWriter, r *http.Request, status int, message string) {
	page := h.page(r, message)
	page.Body = render.Notice{Message: message}
	h.renderPage(w, status, "error", page)
}

// page builds the common page frame, including the sidebar's own catalog load
func (h *PageHandler) page(r *http.Request, title string) render.Page {
	menu := nav.ParseMenu(r.URL.Query().Get("open"))
	return render.Page{
		Site:    h.site.Title,
		Title:   title,
		Sidebar: h.sidebar(r.Context(), r.URL.Path, menu),
	}
}

func (h *PageHandler) sidebar(ctx context.Context, path string, menu nav.Menu) render.Sidebar {
	groups, res := h.projects.Navigation(ctx)
	if !res.Ready() {
		h.logger.Warn("sidebar catalog fetch failed", zap.Error(res.Err))
	}

	sb := render.Sidebar{Site: h.site.Title, Path: path}
	for _, p := range h.site.Pinned {
		label := p.Label
		if label == "" {
			label = strings.ToUpper(p.ID)
		}
		sb.Pinned = append(sb.Pinned, render.Link{Href: "/projects/" + url.PathEscape(p.ID), Label: label})
	}

	for _, g := range groupLabels {
		toggled := menu.Toggle(g.group).Encode()
		sb.Groups = append(sb.Groups, render.SidebarGroup{
			Key:          string(g.group),
			Label:        g.label,
			Expanded:     menu.Expanded(g.group),
			Items:        projectLinks(groups.Items(g.group)),
			ToggleHref:   withOpen(path, toggled),
			FragmentHref: "/fragments/sidebar?" + url.Values{"from": {path}, "open": {toggled}}.Encode(),
		})
	}
	return sb
}

func (h *PageHandler) renderPage(w http.ResponseWriter, status int, name string, page render.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.Page(w, name, page); err != nil {
		h.logger.Error("rendering page", zap.String("page", name), zap.Error(err))
	}
}

func projectLinks(projects []models.Project) []render.Link {
	links := make([]render.Link, 0, len(projects))
	for _, p := range projects {
		links = append(links, render.Link{Href: "/projects/" + url.PathEscape(p.ID), Label: p.Title})
	}
	return links
}

func withOpen(path, open string) string {
	if open == "" {
		return path
	}
	return path + "?" + url.Values{"open": {open}}.Encode()
}
