package models

// Category tags recognized by the navigation sidebar
const (
	CategoryProject   = "project"
	CategoryCaseStudy = "case-study"
)

// Project represents a portfolio project
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
	CoverImage  string   `json:"coverImage"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
}

// ProjectList wraps the array of projects
type ProjectList struct {
	Projects []Project `json:"projects"`
}

// Recognized reports whether the project's type is one of the navigation categories
func (p Project) Recognized() bool {
	return p.Type == CategoryProject || p.Type == CategoryCaseStudy
}
