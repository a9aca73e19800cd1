package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/simula-fin/simula/internal/observability"
)

// Request is one simulation invocation: an investment, a horizon in periods,
// and the configured line items. Callers must ensure the investment is
// positive and at least one selection is usable; the engine itself degrades
// to the investment-only projection otherwise.
type Request struct {
	Investment float64     `json:"investment" validate:"gt=0"`
	Horizon    int         `json:"horizon" validate:"gte=1"`
	Selections []Selection `json:"selections" validate:"required,min=1,dive"`
}

// Result pairs the projected cash-flow table with the derived metrics.
type Result struct {
	Rows    []PeriodRow `json:"rows"`
	Metrics Metrics     `json:"metrics"`
}

// Service executes simulations behind a versioned result cache. Identical
// concurrent requests are collapsed with singleflight: the advisor's nested
// searches make a cold simulation comparatively expensive.
type Service struct {
	engine  *Engine
	cache   *Cache
	logger  *slog.Logger
	metrics *observability.Metrics
	sf      singleflight.Group
}

// NewService wires the engine with the cache helper.
func NewService(engine *Engine, cache *Cache, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{engine: engine, cache: cache, logger: logger, metrics: metrics}
}

// Run computes (or serves from cache) the projection and metrics for req.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	keyBase, err := requestKey(req)
	if err != nil {
		return Result{}, err
	}

	loader := func(ctx context.Context) (interface{}, error) {
		result := Result{
			Rows:    s.engine.Project(req.Investment, req.Selections, req.Horizon),
			Metrics: s.engine.Calculate(req.Investment, req.Selections, req.Horizon),
		}
		s.observe(result.Metrics)
		return result, nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return Result{}, err
		}
		return value.(Result), nil
	}

	key, err := s.cache.BuildKey(ctx, keyBase)
	if err != nil {
		return Result{}, err
	}

	value, err, _ := s.sf.Do(key, func() (interface{}, error) {
		var result Result
		if err := s.cache.FetchJSON(ctx, key, &result, loader); err != nil {
			return Result{}, err
		}
		return result, nil
	})
	if err != nil {
		return Result{}, err
	}
	return value.(Result), nil
}

// Invalidate drops every cached result by bumping the cache version.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) observe(m Metrics) {
	if s.metrics == nil {
		return
	}
	s.metrics.SimulationsTotal.Inc()
	if m.Suggestions != nil {
		s.metrics.AdvisorRunsTotal.Inc()
		s.metrics.SuggestionsReturned.Add(float64(len(m.Suggestions)))
	}
}

// requestKey hashes the canonical JSON form of the request into a stable
// cache key component.
func requestKey(req Request) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	h := fnv.New64a()
	_, _ = h.Write(raw)
	return fmt.Sprintf("simulation:result:%x", h.Sum64()), nil
}
