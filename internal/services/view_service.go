package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tcorea.dev/internal/models"
	"tcorea.dev/internal/reveal"
)

// ErrViewNotFound is returned for an unknown or already closed view id
var ErrViewNotFound = errors.New("view not found")

// ViewService keeps one reveal controller per mounted gallery view. Views are
// closed explicitly by the page or swept after ttl without activity.
type ViewService struct {
	mu     sync.Mutex
	views  map[string]*view
	ttl    time.Duration
	opts   []reveal.Option
	now    func() time.Time
	logger *zap.Logger
}

type view struct {
	ctrl     *reveal.Controller
	lastSeen time.Time
}

// NewViewService creates a ViewService; opts configure every controller it opens
func NewViewService(ttl time.Duration, logger *zap.Logger, opts ...reveal.Option) *ViewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewService{
		views:  make(map[string]*view),
		ttl:    ttl,
		opts:   opts,
		now:    time.Now,
		logger: logger,
	}
}

// Open mounts a view over projects and returns its id and initial window
func (s *ViewService) Open(projects []models.Project) (string, reveal.Snapshot) {
	ctrl := reveal.New(s.opts...)
	// a fresh controller cannot reject its first catalog
	_ = ctrl.SetCatalog(projects)

	id := uuid.NewString()
	s.mu.Lock()
	s.views[id] = &view{ctrl: ctrl, lastSeen: s.now()}
	s.mu.Unlock()

	snap := ctrl.Snapshot()
	s.logger.Debug("view opened",
		zap.String("view", id),
		zap.Int("visible", len(snap.Visible)),
		zap.Int("total", snap.Total))
	return id, snap
}

// More delivers a proximity signal to the view and waits for the growth to
// settle. It returns only the records this signal appended; a signal that was
// ignored (already loading, or nothing left) yields none.
//
// k is the number of records the page already shows, or -1 when unknown. A
// page that is behind the view gets the records it missed and no growth.
func (s *ViewService) More(ctx context.Context, id string, k int) ([]models.Project, reveal.Snapshot, error) {
	ctrl, err := s.touch(id)
	if err != nil {
		return nil, reveal.Snapshot{}, err
	}

	if k >= 0 {
		if snap := ctrl.Snapshot(); k < len(snap.Visible) {
			s.logger.Debug("view resent records",
				zap.String("view", id),
				zap.Int("from", k),
				zap.Int("to", len(snap.Visible)))
			return snap.Visible[k:], snap, nil
		}
	}

	from, started := ctrl.Signal()
	if !started {
		snap := ctrl.Snapshot()
		if snap.Loading {
			// another request owns this growth; answer once it lands
			if snap, err = ctrl.Wait(ctx); err != nil {
				if errors.Is(err, reveal.ErrClosed) {
					return nil, reveal.Snapshot{}, ErrViewNotFound
				}
				return nil, reveal.Snapshot{}, err
			}
		}
		return []models.Project{}, snap, nil
	}
	// the sentinel that sent this signal is replaced by the response
	defer ctrl.Proximity(false)

	snap, err := ctrl.Wait(ctx)
	if errors.Is(err, reveal.ErrClosed) {
		return nil, reveal.Snapshot{}, ErrViewNotFound
	}
	if err != nil {
		return nil, reveal.Snapshot{}, err
	}
	return snap.Visible[from:], snap, nil
}

// Resume remounts a view that was closed or swept while its page stayed open.
// The view keeps its id and starts from the k records the page shows. An id
// that is still mounted is left as is.
func (s *ViewService) Resume(id string, projects []models.Project, k int) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrViewNotFound
	}

	ctrl := reveal.New(s.opts...)
	if err := ctrl.Resume(projects, k); err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.views[id]; ok {
		s.mu.Unlock()
		ctrl.Close()
		return nil
	}
	s.views[id] = &view{ctrl: ctrl, lastSeen: s.now()}
	s.mu.Unlock()

	s.logger.Info("view resumed", zap.String("view", id), zap.Int("visible", len(ctrl.Snapshot().Visible)))
	return nil
}

// Close unmounts a view. It reports whether the view existed.
func (s *ViewService) Close(id string) bool {
	s.mu.Lock()
	v, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()

	if ok {
		v.ctrl.Close()
		s.logger.Debug("view closed", zap.String("view", id))
	}
	return ok
}

// Len returns the number of mounted views
func (s *ViewService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Sweep closes views idle for longer than ttl and returns how many it closed
func (s *ViewService) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var stale []*view
	for id, v := range s.views {
		if v.lastSeen.Before(cutoff) {
			stale = append(stale, v)
			delete(s.views, id)
		}
	}
	s.mu.Unlock()

	for _, v := range stale {
		v.ctrl.Close()
	}
	if len(stale) > 0 {
		s.logger.Info("swept idle views", zap.Int("closed", len(stale)))
	}
	return len(stale)
}

// Run sweeps periodically until ctx is done, then closes every view
func (s *ViewService) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Shutdown()
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Shutdown closes every mounted view
func (s *ViewService) Shutdown() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*view)
	s.mu.Unlock()

	for _, v := range views {
		v.ctrl.Close()
	}
}

func (s *ViewService) touch(id string) (*reveal.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	v.lastSeen = s.now()
	return v.ctrl, nil
}
