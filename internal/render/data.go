package render

import (
	"html/template"

	"tcorea.dev/internal/models"
)

// Page is the data every full page template receives
type Page struct {
	Site    string
	Title   string
	Bare    bool
	Sidebar Sidebar
	Body    any
}

// Link is a labelled href
type Link struct {
	Href  string
	Label string
}

// Sidebar is the navigation column
type Sidebar struct {
	Site   string
	Path   string
	Pinned []Link
	Groups []SidebarGroup
}

// SidebarGroup is one collapsible section of the sidebar
type SidebarGroup struct {
	Key          string
	Label        string
	Expanded     bool
	Items        []Link
	ToggleHref   string
	FragmentHref string
}

// Grid is the gallery grid or the slice of it appended by a sentinel request
type Grid struct {
	ViewID string
	Items  []models.Project
	More   bool
	// Shown is how many records the page holds once Items are appended
	Shown int
}

// Gallery is the body of the home page
type Gallery struct {
	Error string
	Grid  Grid
}

// Detail is the body of a project page
type Detail struct {
	Project *models.Project
	Extra   *models.MediaBundle
}

// About is the body of the about page
type About struct {
	Content template.HTML
	Links   []Link
}

// Notice is the body of error and not-found pages
type Notice struct {
	Message string
}
