package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRecvAgingWarmup rebuilds the ledger snapshot and pre-warms the
	// report caches so dashboard requests never pay the fetch cost.
	TaskRecvAgingWarmup = "recv:aging:warmup"
)

// AgingWarmupPayload configures a warmup run.
type AgingWarmupPayload struct {
	// WarmDetails also computes the per-bucket drill-downs after the
	// snapshot refresh.
	WarmDetails bool `json:"warm_details"`
}

// NewAgingWarmupTask constructs an Asynq task.
func NewAgingWarmupTask(payload AgingWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRecvAgingWarmup, data), nil
}
