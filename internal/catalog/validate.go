package catalog

import (
	"fmt"

	"tcorea.dev/internal/models"
)

// Severity of a validation issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one problem found in the data file
type Issue struct {
	Severity Severity
	Index    int
	ID       string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: projects[%d] (%q): %s", i.Severity, i.Index, i.ID, i.Message)
}

// Validate checks the invariants the site relies on. Duplicate or empty ids are
// errors; unrecognized types are warnings since such records stay reachable by id.
func Validate(list *models.ProjectList) []Issue {
	var issues []Issue
	seen := make(map[string]int)

	for i, p := range list.Projects {
		if p.ID == "" {
			issues = append(issues, Issue{SeverityError, i, p.ID, "missing id"})
		} else if first, ok := seen[p.ID]; ok {
			issues = append(issues, Issue{SeverityError, i, p.ID,
				fmt.Sprintf("duplicate id, first used at projects[%d]; lookups resolve to the first", first)})
		} else {
			seen[p.ID] = i
		}

		if !p.Recognized() {
			issues = append(issues, Issue{SeverityWarning, i, p.ID,
				fmt.Sprintf("type %q is not %q or %q; hidden from navigation", p.Type, models.CategoryProject, models.CategoryCaseStudy)})
		}
		if p.Title == "" {
			issues = append(issues, Issue{SeverityWarning, i, p.ID, "missing title"})
		}
	}
	return issues
}

// HasErrors reports whether any issue is an error
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}
