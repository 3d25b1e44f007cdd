package predict

import (
	"sync"

	"clipcast/internal/feature"
	"clipcast/internal/metrics"
	"clipcast/internal/model"
)

// Service owns the current artifact set for a serving session. The set is
// replaced wholesale by a successful training run and never mutated by
// inference, so concurrent reads against a stable set are safe. A failed fit
// leaves the previous set in place.
type Service struct {
	mu      sync.RWMutex
	current *Artifacts
}

// NewService returns a service with no fitted artifacts.
func NewService() *Service { return &Service{} }

// Restore seeds the service with a previously fitted artifact set, e.g. one
// loaded from the artifact store.
func (s *Service) Restore(a *Artifacts) {
	if a == nil {
		return
	}
	s.mu.Lock()
	s.current = a
	s.mu.Unlock()
}

// Artifacts returns the current fitted set, or ErrNotFitted.
func (s *Service) Artifacts() (*Artifacts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotFitted
	}
	return s.current, nil
}

// Fitted reports whether a training run has completed in this session.
func (s *Service) Fitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Train fits a new artifact set and swaps it in atomically on success. On
// error nothing is published and any previous set stays live.
func (s *Service) Train(posts []model.Post, p Params) (*TrainResult, error) {
	res, err := Train(posts, p)
	if err != nil {
		metrics.TrainErrors.Inc()
		return nil, err
	}
	s.mu.Lock()
	s.current = res.Artifacts
	s.mu.Unlock()
	return res, nil
}

// PredictOne scores a single raw record against the current artifact set.
func (s *Service) PredictOne(text, author, music string, duration float64, clk feature.Clock) (int, error) {
	a, err := s.Artifacts()
	if err != nil {
		return 0, err
	}
	metrics.IncPrediction("single")
	return a.PredictOne(text, author, music, duration, clk), nil
}

// PredictBulk scores a batch against the current artifact set, preserving row
// count and order.
func (s *Service) PredictBulk(posts []model.Post) ([]model.Prediction, error) {
	a, err := s.Artifacts()
	if err != nil {
		return nil, err
	}
	metrics.IncPrediction("bulk")
	return a.PredictBulk(posts), nil
}
