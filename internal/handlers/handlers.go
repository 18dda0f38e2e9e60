package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tcorea.dev/internal/config"
	"tcorea.dev/internal/middleware"
	"tcorea.dev/internal/render"
	"tcorea.dev/internal/services"
)

// App bundles what the routes need
type App struct {
	Site      *config.SiteConfig
	Projects  *services.ProjectService
	Views     *services.ViewService
	Renderer  *render.Renderer
	DataPath  string
	DataURL   string
	MediaPath string
	About     string
	Logger    *zap.Logger
}

// SetupRoutes configures all routes and returns the router
func SetupRoutes(app *App) http.Handler {
	if app.Logger == nil {
		app.Logger = zap.NewNop()
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(app.Logger))
	r.Use(middleware.Logger(app.Logger))

	// Initialize handlers
	pages := NewPageHandler(app)
	projectHandler := NewProjectHandler(app.Projects, app.Logger)
	viewHandler := NewViewHandler(app.Views, app.Projects, app.Renderer, app.Logger)

	// Pages
	r.Get("/", pages.Home)
	r.Get("/about", pages.About)
	r.Get("/projects/{id}", pages.Project)

	// Fragments requested by site.js
	r.Get("/fragments/sidebar", pages.Sidebar)
	r.Post("/views/{id}/more", viewHandler.More)
	r.Post("/views/{id}/close", viewHandler.Close)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", projectHandler.ListProjects)
		r.Get("/projects/{id}", projectHandler.GetProject)
		r.Get("/nav", projectHandler.Navigation)
		r.Post("/playback-errors", projectHandler.PlaybackError)

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	// The static data file
	r.Get("/data.json", func(w http.ResponseWriter, r *http.Request) {
		if app.DataURL != "" {
			http.Redirect(w, r, strings.TrimRight(app.DataURL, "/")+"/data.json", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, app.DataPath)
	})

	// Static files
	fileServer := http.FileServer(http.FS(render.Static()))
	r.Handle("/static/*", http.StripPrefix("/static", fileServer))

	// Anything else is a media asset referenced by the data file, or a 404
	r.NotFound(pages.Media)

	return r
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("error encoding JSON", zap.Error(err))
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// localPath returns p when it is a path on this site, "/" otherwise
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	u, err := url.Parse(p)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return u.Path
}
