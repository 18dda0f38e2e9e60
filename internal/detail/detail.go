// Package detail resolves the project shown on a detail page.
package detail

import (
	"tcorea.dev/internal/models"
)

// Status of a detail lookup
type Status int

const (
	Loading Status = iota
	NotFound
	Found
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case NotFound:
		return "not-found"
	case Found:
		return "found"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Messages shown for the non-found states
const (
	MessageLoading  = "Loading project..."
	MessageNotFound = "Project not found"
	MessageFailed   = "Failed to load project"
)

// View is the resolved detail page
type View struct {
	Status  Status
	Project *models.Project
	Extra   *models.MediaBundle
	Message string
}

// Resolve looks id up in list. A nil list means the catalog has not loaded yet.
// When found, the media bundle configured for the id, if any, is attached.
func Resolve(list *models.ProjectList, id string, bundles map[string]models.MediaBundle) View {
	if list == nil {
		return View{Status: Loading, Message: MessageLoading}
	}

	for i := range list.Projects {
		if list.Projects[i].ID != id {
			continue
		}
		p := list.Projects[i]
		v := View{Status: Found, Project: &p}
		if b, ok := bundles[id]; ok && !b.Empty() {
			v.Extra = &b
		}
		return v
	}

	return View{Status: NotFound, Message: MessageNotFound}
}

// Failure is the view for a catalog that could not be fetched
func Failure() View {
	return View{Status: Failed, Message: MessageFailed}
}
