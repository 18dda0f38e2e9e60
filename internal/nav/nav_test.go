package nav

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"tcorea.dev/internal/models"
)

func project(id, typ string) models.Project {
	return models.Project{ID: id, Title: id, Type: typ}
}

func idsOf(ps []models.Project) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestClassifyPreservesOrder(t *testing.T) {
	catalog := []models.Project{
		project("a", models.CategoryProject),
		project("b", models.CategoryCaseStudy),
		project("c", "sketchbook"),
		project("d", models.CategoryProject),
		project("e", models.CategoryCaseStudy),
		project("f", ""),
		project("g", models.CategoryProject),
	}

	g := Classify(catalog)

	if diff := cmp.Diff([]string{"a", "d", "g"}, idsOf(g.Projects)); diff != "" {
		t.Errorf("projects mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "e"}, idsOf(g.CaseStudies)); diff != "" {
		t.Errorf("case studies mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyUnionIsRecognizedSubset(t *testing.T) {
	catalog := []models.Project{
		project("x1", models.CategoryCaseStudy),
		project("x2", "other"),
		project("x3", models.CategoryProject),
		project("x4", models.CategoryCaseStudy),
		project("x5", models.CategoryProject),
	}
	g := Classify(catalog)

	var want []models.Project
	for _, p := range catalog {
		if p.Recognized() {
			want = append(want, p)
		}
	}

	// merge both groups back into source order
	inGroup := map[string]bool{}
	for _, p := range append(append([]models.Project{}, g.Projects...), g.CaseStudies...) {
		assert.False(t, inGroup[p.ID], "duplicate %s", p.ID)
		inGroup[p.ID] = true
	}
	var got []models.Project
	for _, p := range catalog {
		if inGroup[p.ID] {
			got = append(got, p)
		}
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("union mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyEmpty(t *testing.T) {
	g := Classify(nil)
	assert.NotNil(t, g.Projects)
	assert.NotNil(t, g.CaseStudies)
	assert.Empty(t, g.Projects)
	assert.Empty(t, g.CaseStudies)
}

func TestGroupsItems(t *testing.T) {
	g := Classify([]models.Project{project("a", models.CategoryProject), project("b", models.CategoryCaseStudy)})
	assert.Equal(t, []string{"a"}, idsOf(g.Items(GroupProjects)))
	assert.Equal(t, []string{"b"}, idsOf(g.Items(GroupCaseStudies)))
	assert.Nil(t, g.Items("nope"))
}

func TestMenuTogglesAreIndependent(t *testing.T) {
	var m Menu
	assert.False(t, m.Expanded(GroupProjects))
	assert.False(t, m.Expanded(GroupCaseStudies))

	m = m.Toggle(GroupProjects)
	assert.True(t, m.Expanded(GroupProjects))
	assert.False(t, m.Expanded(GroupCaseStudies))

	m = m.Toggle(GroupCaseStudies)
	assert.True(t, m.Expanded(GroupProjects))
	assert.True(t, m.Expanded(GroupCaseStudies))

	m = m.Toggle(GroupProjects)
	assert.False(t, m.Expanded(GroupProjects))
	assert.True(t, m.Expanded(GroupCaseStudies))

	assert.Equal(t, m, m.Toggle("unknown"))
}

func TestMenuQueryRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want Menu
		enc  string
	}{
		{"", Menu{}, ""},
		{"projects", Menu{Projects: true}, "projects"},
		{"case-studies", Menu{CaseStudies: true}, "case-studies"},
		{"projects, case-studies", Menu{Projects: true, CaseStudies: true}, "case-studies,projects"},
		{"bogus,projects", Menu{Projects: true}, "projects"},
	}
	for _, tt := range tests {
		m := ParseMenu(tt.in)
		assert.Equal(t, tt.want, m, tt.in)
		assert.Equal(t, tt.enc, m.Encode(), tt.in)
		assert.Equal(t, m, ParseMenu(m.Encode()))
	}
}
