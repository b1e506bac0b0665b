// Package jobs carries the asynchronous work that runs outside the request
// path: periodic stock scans and analytics cache warmups.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeStockScan is the task type for low-stock ledger scans.
	TaskTypeStockScan = "stock:scan"
	// TaskTypeAnalyticsWarmup is the task type for analytics cache warmups.
	TaskTypeAnalyticsWarmup = "analytics:warmup"
)

// StockScanPayload parameterises a stock scan run.
type StockScanPayload struct {
	// Threshold overrides the configured low-stock threshold when positive.
	Threshold int `json:"threshold,omitempty"`
}

// NewStockScanTask constructs a stock scan task.
func NewStockScanTask(payload StockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeStockScan, data), nil
}

// AnalyticsWarmupPayload parameterises a cache warmup run.
type AnalyticsWarmupPayload struct {
	// Views limits the warmup to the named views. Empty means all.
	Views []string `json:"views,omitempty"`
}

// NewAnalyticsWarmupTask constructs an analytics warmup task.
func NewAnalyticsWarmupTask(payload AnalyticsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAnalyticsWarmup, data), nil
}
