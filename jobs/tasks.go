package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogRefresh reloads the catalog snapshot and invalidates
	// cached simulation results.
	TaskCatalogRefresh = "catalog:refresh"
)

// CatalogRefreshPayload parameterizes a catalog refresh run.
type CatalogRefreshPayload struct {
	Reason string `json:"reason"`
}

// NewCatalogRefreshTask constructs an Asynq task.
func NewCatalogRefreshTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(CatalogRefreshPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogRefresh, data), nil
}
