package services

import (
	"context"
	"errors"
	"fmt"

	"tcorea.dev/internal/catalog"
	"tcorea.dev/internal/detail"
	"tcorea.dev/internal/models"
	"tcorea.dev/internal/nav"
)

// Messages shown when a view's catalog fetch fails
const (
	MessageGalleryFailed = "Failed to load projects"
	MessageSidebarFailed = "Failed to load navigation"
)

// ErrNotFound is returned for an id with no matching project
var ErrNotFound = errors.New("project not found")

// ProjectService handles project-related operations. Every call is one view
// loading the catalog on its own, so failures stay local to that view.
type ProjectService struct {
	source  catalog.Source
	bundles map[string]models.MediaBundle
}

// NewProjectService creates a new ProjectService
func NewProjectService(src catalog.Source, bundles map[string]models.MediaBundle) *ProjectService {
	if bundles == nil {
		bundles = map[string]models.MediaBundle{}
	}
	return &ProjectService{source: src, bundles: bundles}
}

// Gallery loads the catalog for the home grid
func (s *ProjectService) Gallery(ctx context.Context) catalog.Result {
	return catalog.Load(ctx, s.source, MessageGalleryFailed)
}

// Navigation loads the catalog for the sidebar and classifies it
func (s *ProjectService) Navigation(ctx context.Context) (nav.Groups, catalog.Result) {
	res := catalog.Load(ctx, s.source, MessageSidebarFailed)
	return nav.Classify(res.Projects()), res
}

// Detail resolves the detail view for id
func (s *ProjectService) Detail(ctx context.Context, id string) detail.View {
	res := catalog.Load(ctx, s.source, detail.MessageFailed)
	if !res.Ready() {
		return detail.Failure()
	}
	return detail.Resolve(res.Catalog, id, s.bundles)
}

// GetAll returns all projects, optionally only those of one type
func (s *ProjectService) GetAll(ctx context.Context, typ string) ([]models.Project, error) {
	list, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if typ == "" {
		return list.Projects, nil
	}
	out := []models.Project{}
	for _, p := range list.Projects {
		if p.Type == typ {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetByID returns a specific project by ID
func (s *ProjectService) GetByID(ctx context.Context, id string) (*models.Project, error) {
	v := s.Detail(ctx, id)
	switch v.Status {
	case detail.Found:
		return v.Project, nil
	case detail.NotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	default:
		return nil, fmt.Errorf("%w: %s", catalog.ErrFetch, v.Message)
	}
}

// Extra returns the media bundle configured for id, if any
func (s *ProjectService) Extra(id string) (models.MediaBundle, bool) {
	b, ok := s.bundles[id]
	return b, ok
}
