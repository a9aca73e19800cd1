package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// CatalogReloader refreshes the in-memory catalog snapshot.
type CatalogReloader interface {
	Reload(ctx context.Context) error
}

// CacheInvalidator drops cached simulation results after a catalog change.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// CatalogRefreshJob reloads the catalog and bumps the simulation cache so
// stale prices never survive a refresh.
type CatalogRefreshJob struct {
	catalog CatalogReloader
	cache   CacheInvalidator
	logger  *slog.Logger
}

// NewCatalogRefreshJob constructs the job.
func NewCatalogRefreshJob(catalog CatalogReloader, cache CacheInvalidator, logger *slog.Logger) *CatalogRefreshJob {
	return &CatalogRefreshJob{catalog: catalog, cache: cache, logger: logger}
}

// Handle processes TaskCatalogRefresh tasks.
func (j *CatalogRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload CatalogRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if err := j.catalog.Reload(ctx); err != nil {
		j.logger.Error("catalog reload", slog.Any("error", err))
		return err
	}
	if j.cache != nil {
		if err := j.cache.Bump(ctx); err != nil {
			j.logger.Warn("simulation cache invalidate", slog.Any("error", err))
		}
	}
	j.logger.Info("catalog snapshot refreshed", slog.String("reason", payload.Reason))
	return nil
}
