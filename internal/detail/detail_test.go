package detail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcorea.dev/internal/models"
)

var list = &models.ProjectList{Projects: []models.Project{
	{ID: "clo3d", Title: "Clo3D", Type: models.CategoryCaseStudy},
	{ID: "fashion-show", Title: "Fashion Show", Type: models.CategoryProject, Images: []string{"/f1.png"}},
	{ID: "fashion-show", Title: "Shadowed duplicate", Type: models.CategoryProject},
	{ID: "zine", Title: "Zine", Type: "print"},
}}

var bundles = map[string]models.MediaBundle{
	"fashion-show": {Video: "/fashionwalk.mp4", VideoType: "video/mp4", Images: []string{"/fashion3.png"}},
	"clo3d":        {},
}

func TestResolveFound(t *testing.T) {
	v := Resolve(list, "clo3d", bundles)
	require.Equal(t, Found, v.Status)
	assert.Equal(t, "Clo3D", v.Project.Title)
	assert.Nil(t, v.Extra, "empty bundle is not attached")
	assert.Empty(t, v.Message)
}

func TestResolveFirstMatchWins(t *testing.T) {
	v := Resolve(list, "fashion-show", bundles)
	require.Equal(t, Found, v.Status)
	assert.Equal(t, "Fashion Show", v.Project.Title)
	require.NotNil(t, v.Extra)
	assert.Equal(t, "/fashionwalk.mp4", v.Extra.Video)
	assert.Equal(t, []string{"/fashion3.png"}, v.Extra.Images)
}

func TestResolveUnrecognizedTypeStillReachable(t *testing.T) {
	v := Resolve(list, "zine", nil)
	require.Equal(t, Found, v.Status)
	assert.Equal(t, "Zine", v.Project.Title)
}

func TestResolveNotFound(t *testing.T) {
	v := Resolve(list, "missing", bundles)
	assert.Equal(t, NotFound, v.Status)
	assert.Nil(t, v.Project)
	assert.Equal(t, MessageNotFound, v.Message)
}

func TestResolveLoadingIsDistinct(t *testing.T) {
	loading := Resolve(nil, "clo3d", bundles)
	assert.Equal(t, Loading, loading.Status)
	assert.Equal(t, MessageLoading, loading.Message)

	empty := Resolve(&models.ProjectList{}, "clo3d", bundles)
	assert.Equal(t, NotFound, empty.Status)
	assert.NotEqual(t, loading.Status, empty.Status)
}

func TestResolveReturnsCopy(t *testing.T) {
	v := Resolve(list, "clo3d", nil)
	v.Project.Title = "mutated"
	assert.Equal(t, "Clo3D", list.Projects[0].Title)
}

func TestFailure(t *testing.T) {
	v := Failure()
	assert.Equal(t, Failed, v.Status)
	assert.Equal(t, MessageFailed, v.Message)
	assert.Equal(t, "failed", v.Status.String())
}
