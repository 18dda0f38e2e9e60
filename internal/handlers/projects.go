package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tcorea.dev/internal/services"
)

// ProjectHandler handles project-related endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
	logger         *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(ps *services.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projectService: ps, logger: logger}
}

// ListProjects handles GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.GetAll(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		h.logger.Error("listing projects", zap.Error(err))
		respondError(w, http.StatusBadGateway, services.MessageGalleryFailed)
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

// GetProject handles GET /api/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	project, err := h.projectService.GetByID(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		h.logger.Error("loading project", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusBadGateway, "Failed to load project")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// Navigation handles GET /api/nav
func (h *ProjectHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	groups, res := h.projectService.Navigation(r.Context())
	if !res.Ready() {
		h.logger.Error("loading navigation", zap.Error(res.Err))
		respondError(w, http.StatusBadGateway, res.Message)
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

// PlaybackError handles POST /api/playback-errors. A rejected autoplay is only
// logged; the visitor never sees it.
func (h *ProjectHandler) PlaybackError(w http.ResponseWriter, r *http.Request) {
	var report struct {
		Project string `json:"project"`
		Error   string `json:"error"`
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4<<10))
	if err != nil || json.Unmarshal(body, &report) != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.logger.Warn("video playback failed",
		zap.String("project", report.Project),
		zap.String("error", report.Error),
		zap.String("user_agent", r.UserAgent()))
	w.WriteHeader(http.StatusNoContent)
}
