package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tcorea.dev/internal/models"
)

// Shared wraps a Source so that concurrent views share one in-flight fetch and a
// successful result is reused until Invalidate. Failures are never cached.
type Shared struct {
	src    Source
	logger *zap.Logger
	group  singleflight.Group

	mu      sync.RWMutex
	cached  *models.ProjectList
	gen     uint64
	fetches int
}

// NewShared creates a Shared source over src
func NewShared(src Source, logger *zap.Logger) *Shared {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shared{src: src, logger: logger}
}

// Fetch returns the cached catalog or performs one coalesced fetch
func (s *Shared) Fetch(ctx context.Context) (*models.ProjectList, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := s.group.Do("catalog", func() (interface{}, error) {
		s.mu.Lock()
		if s.cached != nil {
			list := s.cached
			s.mu.Unlock()
			return list, nil
		}
		s.fetches++
		gen := s.gen
		s.mu.Unlock()

		// one view leaving early must not fail the others waiting on this fetch
		list, err := s.src.Fetch(context.WithoutCancel(ctx))
		if err != nil {
			s.logger.Warn("catalog fetch failed", zap.Error(err))
			return nil, err
		}

		s.mu.Lock()
		if s.gen == gen {
			s.cached = list
		}
		s.mu.Unlock()
		s.logger.Debug("catalog loaded", zap.Int("projects", len(list.Projects)))
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.ProjectList), nil
}

// Invalidate drops the cached catalog; the next Fetch reads the source again
func (s *Shared) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.gen++
	s.mu.Unlock()
	s.group.Forget("catalog")
}

// Fetches returns how many times the underlying source was read
func (s *Shared) Fetches() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetches
}
