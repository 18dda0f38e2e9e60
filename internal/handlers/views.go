package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tcorea.dev/internal/catalog"
	"tcorea.dev/internal/models"
	"tcorea.dev/internal/render"
	"tcorea.dev/internal/reveal"
	"tcorea.dev/internal/services"
)

// ViewHandler serves the gallery's sentinel requests
type ViewHandler struct {
	views    *services.ViewService
	projects *services.ProjectService
	renderer *render.Renderer
	logger   *zap.Logger
}

// NewViewHandler creates a new ViewHandler
func NewViewHandler(vs *services.ViewService, ps *services.ProjectService, rr *render.Renderer, logger *zap.Logger) *ViewHandler {
	return &ViewHandler{views: vs, projects: ps, renderer: rr, logger: logger}
}

// More handles POST /views/{id}/more?k=N: the sentinel came into view on a
// page that shows N records. A view that expired while the page stayed open
// is resumed at N.
func (h *ViewHandler) More(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	k := shownParam(r)

	added, snap, err := h.views.More(r.Context(), id, k)
	if errors.Is(err, services.ErrViewNotFound) && k >= 0 {
		added, snap, err = h.resume(r, id, k)
	}
	if errors.Is(err, services.ErrViewNotFound) {
		respondError(w, http.StatusNotFound, "View not found")
		return
	}
	if errors.Is(err, catalog.ErrFetch) {
		respondError(w, http.StatusBadGateway, services.MessageGalleryFailed)
		return
	}
	if err != nil {
		// the visitor left before the window settled
		h.logger.Debug("view growth abandoned", zap.String("view", id), zap.Error(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	grid := render.Grid{ViewID: id, Items: added, More: snap.More(), Shown: len(snap.Visible)}
	if err := h.renderer.Fragment(w, "grid-items", grid); err != nil {
		h.logger.Error("rendering grid items", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *ViewHandler) resume(r *http.Request, id string, k int) ([]models.Project, reveal.Snapshot, error) {
	res := h.projects.Gallery(r.Context())
	if !res.Ready() {
		h.logger.Error("resuming view: catalog fetch failed", zap.String("view", id), zap.Error(res.Err))
		return nil, reveal.Snapshot{}, fmt.Errorf("%w: %s", catalog.ErrFetch, res.Message)
	}
	if err := h.views.Resume(id, res.Projects(), k); err != nil {
		return nil, reveal.Snapshot{}, err
	}
	return h.views.More(r.Context(), id, k)
}

// Close handles POST /views/{id}/close: the page was unloaded
func (h *ViewHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.views.Close(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// shownParam reads the k query parameter, -1 when absent or malformed
func shownParam(r *http.Request) int {
	k, err := strconv.Atoi(r.URL.Query().Get("k"))
	if err != nil || k < 0 {
		return -1
	}
	return k
}
