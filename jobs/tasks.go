// Package jobs hosts the background worker: task definitions, the Asynq
// server wrapper and the nightly receivables scan.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReceivablesScan is the task type for the overdue-invoice sweep.
	TaskReceivablesScan = "receivables:scan"
)

// ReceivablesScanPayload parametrizes one overdue sweep.
type ReceivablesScanPayload struct {
	ThresholdDays int `json:"threshold_days"`
}

// NewReceivablesScanTask constructs an Asynq task.
func NewReceivablesScanTask(payload ReceivablesScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReceivablesScan, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueReceivablesScan enqueues an overdue sweep.
func (c *Client) EnqueueReceivablesScan(ctx context.Context, payload ReceivablesScanPayload) (*asynq.TaskInfo, error) {
	task, err := NewReceivablesScanTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
