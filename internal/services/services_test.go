package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"tcorea.dev/internal/catalog"
	"tcorea.dev/internal/detail"
	"tcorea.dev/internal/models"
	"tcorea.dev/internal/reveal"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticSource struct {
	list *models.ProjectList
	err  error
}

func (s staticSource) Fetch(ctx context.Context) (*models.ProjectList, error) {
	return s.list, s.err
}

func makeProjects(n int) []models.Project {
	out := make([]models.Project, n)
	for i := range out {
		typ := models.CategoryProject
		if i%3 == 2 {
			typ = models.CategoryCaseStudy
		}
		out[i] = models.Project{ID: fmt.Sprintf("p%02d", i), Title: fmt.Sprintf("Project %d", i), Type: typ}
	}
	return out
}

func ids(ps []models.Project) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestProjectServiceGallery(t *testing.T) {
	svc := NewProjectService(staticSource{list: &models.ProjectList{Projects: makeProjects(3)}}, nil)
	res := svc.Gallery(context.Background())
	assert.True(t, res.Ready())
	assert.Len(t, res.Projects(), 3)

	failing := NewProjectService(staticSource{err: catalog.ErrFetch}, nil)
	res = failing.Gallery(context.Background())
	assert.False(t, res.Ready())
	assert.Equal(t, MessageGalleryFailed, res.Message)
}

func TestProjectServiceNavigation(t *testing.T) {
	svc := NewProjectService(staticSource{list: &models.ProjectList{Projects: makeProjects(6)}}, nil)
	groups, res := svc.Navigation(context.Background())
	require.True(t, res.Ready())
	assert.Equal(t, []string{"p00", "p01", "p03", "p04"}, ids(groups.Projects))
	assert.Equal(t, []string{"p02", "p05"}, ids(groups.CaseStudies))

	failing := NewProjectService(staticSource{err: errors.New("offline")}, nil)
	groups, res = failing.Navigation(context.Background())
	assert.Equal(t, catalog.StateFailed, res.State)
	assert.Empty(t, groups.Projects)
	assert.Empty(t, groups.CaseStudies)
}

func TestProjectServiceDetail(t *testing.T) {
	bundles := map[string]models.MediaBundle{"p01": {Video: "/walk.mp4"}}
	svc := NewProjectService(staticSource{list: &models.ProjectList{Projects: makeProjects(3)}}, bundles)

	v := svc.Detail(context.Background(), "p01")
	require.Equal(t, detail.Found, v.Status)
	assert.Equal(t, "Project 1", v.Project.Title)
	require.NotNil(t, v.Extra)
	assert.Equal(t, "/walk.mp4", v.Extra.Video)

	assert.Equal(t, detail.NotFound, svc.Detail(context.Background(), "nope").Status)

	failing := NewProjectService(staticSource{err: catalog.ErrFetch}, bundles)
	v = failing.Detail(context.Background(), "p01")
	assert.Equal(t, detail.Failed, v.Status)
	assert.Equal(t, detail.MessageFailed, v.Message)
}

func TestProjectServiceGetAllAndGetByID(t *testing.T) {
	svc := NewProjectService(staticSource{list: &models.ProjectList{Projects: makeProjects(6)}}, nil)

	all, err := svc.GetAll(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	studies, err := svc.GetAll(context.Background(), models.CategoryCaseStudy)
	require.NoError(t, err)
	assert.Equal(t, []string{"p02", "p05"}, ids(studies))

	none, err := svc.GetAll(context.Background(), "sketch")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	p, err := svc.GetByID(context.Background(), "p04")
	require.NoError(t, err)
	assert.Equal(t, "Project 4", p.Title)

	_, err = svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	failing := NewProjectService(staticSource{err: catalog.ErrFetch}, nil)
	_, err = failing.GetByID(context.Background(), "p04")
	assert.ErrorIs(t, err, catalog.ErrFetch)
	_, err = failing.GetAll(context.Background(), "")
	assert.ErrorIs(t, err, catalog.ErrFetch)
}

func newViews(ttl time.Duration) *ViewService {
	return NewViewService(ttl, nil, reveal.WithSettle(time.Millisecond))
}

func TestViewServiceScenario(t *testing.T) {
	svc := newViews(time.Minute)
	defer svc.Shutdown()

	all := makeProjects(10)
	id, snap := svc.Open(all)
	assert.Len(t, snap.Visible, 4)
	assert.Equal(t, 1, svc.Len())

	added, snap, err := svc.More(context.Background(), id, 4)
	require.NoError(t, err)
	assert.Equal(t, ids(all[4:8]), ids(added))
	assert.Len(t, snap.Visible, 8)

	added, snap, err = svc.More(context.Background(), id, 8)
	require.NoError(t, err)
	assert.Equal(t, ids(all[8:10]), ids(added))
	assert.Equal(t, reveal.IdleComplete, snap.State)

	added, snap, err = svc.More(context.Background(), id, 10)
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Len(t, snap.Visible, 10)
}

func TestViewServiceConcurrentMoreNeverDuplicates(t *testing.T) {
	svc := NewViewService(time.Minute, nil, reveal.WithSettle(20*time.Millisecond))
	defer svc.Shutdown()

	id, _ := svc.Open(makeProjects(40))

	var mu sync.Mutex
	seen := map[string]int{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			added, _, err := svc.More(context.Background(), id, -1)
			assert.NoError(t, err)
			mu.Lock()
			for _, p := range added {
				seen[p.ID]++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	for pid, n := range seen {
		assert.Equal(t, 1, n, "record %s delivered twice", pid)
	}
}

func TestViewServiceUnknownAndClosed(t *testing.T) {
	svc := newViews(time.Minute)
	defer svc.Shutdown()

	_, _, err := svc.More(context.Background(), "nope", -1)
	assert.ErrorIs(t, err, ErrViewNotFound)

	id, _ := svc.Open(makeProjects(8))
	assert.True(t, svc.Close(id))
	assert.False(t, svc.Close(id))
	_, _, err = svc.More(context.Background(), id, 4)
	assert.ErrorIs(t, err, ErrViewNotFound)
	assert.Equal(t, 0, svc.Len())
}

func TestViewServiceSweep(t *testing.T) {
	svc := newViews(time.Minute)
	defer svc.Shutdown()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	idle, _ := svc.Open(makeProjects(8))
	now = now.Add(45 * time.Second)
	active, _ := svc.Open(makeProjects(8))

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, svc.Sweep())
	assert.Equal(t, 1, svc.Len())

	_, _, err := svc.More(context.Background(), idle, 4)
	assert.ErrorIs(t, err, ErrViewNotFound)
	_, _, err = svc.More(context.Background(), active, 4)
	assert.NoError(t, err)
}

func TestViewServiceRunClosesViewsOnShutdown(t *testing.T) {
	svc := newViews(time.Minute)
	svc.Open(makeProjects(5))
	svc.Open(makeProjects(5))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()
	cancel()
	<-done
	assert.Equal(t, 0, svc.Len())
}

func TestViewServiceResumeAfterSweep(t *testing.T) {
	svc := newViews(30 * time.Minute)
	defer svc.Shutdown()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	all := makeProjects(10)
	id, snap := svc.Open(all)
	require.Len(t, snap.Visible, 4)

	now = now.Add(31 * time.Minute)
	require.Equal(t, 1, svc.Sweep())

	_, _, err := svc.More(context.Background(), id, 4)
	require.ErrorIs(t, err, ErrViewNotFound)

	require.NoError(t, svc.Resume(id, all, 4))
	added, snap, err := svc.More(context.Background(), id, 4)
	require.NoError(t, err)
	assert.Equal(t, ids(all[4:8]), ids(added))
	assert.True(t, snap.More())

	added, snap, err = svc.More(context.Background(), id, 8)
	require.NoError(t, err)
	assert.Equal(t, ids(all[8:10]), ids(added))
	assert.Equal(t, reveal.IdleComplete, snap.State)
}

func TestViewServiceResendsMissedRecords(t *testing.T) {
	svc := newViews(time.Minute)
	defer svc.Shutdown()

	all := makeProjects(12)
	id, _ := svc.Open(all)

	// the page never received this growth
	_, _, err := svc.More(context.Background(), id, 4)
	require.NoError(t, err)

	added, snap, err := svc.More(context.Background(), id, 4)
	require.NoError(t, err)
	assert.Equal(t, ids(all[4:8]), ids(added))
	assert.Len(t, snap.Visible, 8)

	added, _, err = svc.More(context.Background(), id, 8)
	require.NoError(t, err)
	assert.Equal(t, ids(all[8:12]), ids(added))
}

func TestViewServiceResumeKeepsMountedView(t *testing.T) {
	svc := newViews(time.Minute)
	defer svc.Shutdown()

	all := makeProjects(12)
	id, _ := svc.Open(all)
	_, _, err := svc.More(context.Background(), id, 4)
	require.NoError(t, err)

	require.NoError(t, svc.Resume(id, all, 4))
	assert.Equal(t, 1, svc.Len())
	added, _, err := svc.More(context.Background(), id, 8)
	require.NoError(t, err)
	assert.Equal(t, ids(all[8:12]), ids(added))
}

func TestViewServiceResumeRejectsForeignIDs(t *testing.T) {
	svc := newViews(time.Minute)
	defer svc.Shutdown()

	assert.ErrorIs(t, svc.Resume("not-a-view", makeProjects(4), 0), ErrViewNotFound)
	assert.Equal(t, 0, svc.Len())
}
