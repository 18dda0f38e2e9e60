// Package nav partitions the catalog into the sidebar's menu groups.
package nav

import (
	"sort"
	"strings"

	"tcorea.dev/internal/models"
)

// Group identifies a sidebar section
type Group string

const (
	GroupProjects    Group = "projects"
	GroupCaseStudies Group = "case-studies"
)

// Groups holds the two partitions in catalog order
type Groups struct {
	Projects    []models.Project `json:"projects"`
	CaseStudies []models.Project `json:"case_studies"`
}

// Classify splits projects by category, keeping their relative order.
// Records with an unrecognized type appear in neither group.
func Classify(projects []models.Project) Groups {
	g := Groups{
		Projects:    []models.Project{},
		CaseStudies: []models.Project{},
	}
	for _, p := range projects {
		switch p.Type {
		case models.CategoryProject:
			g.Projects = append(g.Projects, p)
		case models.CategoryCaseStudy:
			g.CaseStudies = append(g.CaseStudies, p)
		}
	}
	return g
}

// Items returns the records of one group
func (g Groups) Items(group Group) []models.Project {
	switch group {
	case GroupProjects:
		return g.Projects
	case GroupCaseStudies:
		return g.CaseStudies
	}
	return nil
}

// Menu holds the expand flags of the sidebar groups. The zero value has both
// groups collapsed.
type Menu struct {
	Projects    bool
	CaseStudies bool
}

// Expanded reports whether group is open
func (m Menu) Expanded(group Group) bool {
	switch group {
	case GroupProjects:
		return m.Projects
	case GroupCaseStudies:
		return m.CaseStudies
	}
	return false
}

// Toggle returns a copy of m with group flipped
func (m Menu) Toggle(group Group) Menu {
	switch group {
	case GroupProjects:
		m.Projects = !m.Projects
	case GroupCaseStudies:
		m.CaseStudies = !m.CaseStudies
	}
	return m
}

// ParseMenu reads the comma separated list of open groups used in the
// "open" query parameter. Unknown names are ignored.
func ParseMenu(open string) Menu {
	var m Menu
	for _, part := range strings.Split(open, ",") {
		switch Group(strings.TrimSpace(part)) {
		case GroupProjects:
			m.Projects = true
		case GroupCaseStudies:
			m.CaseStudies = true
		}
	}
	return m
}

// Encode is the inverse of ParseMenu
func (m Menu) Encode() string {
	var open []string
	if m.Projects {
		open = append(open, string(GroupProjects))
	}
	if m.CaseStudies {
		open = append(open, string(GroupCaseStudies))
	}
	sort.Strings(open)
	return strings.Join(open, ",")
}
