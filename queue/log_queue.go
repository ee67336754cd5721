package queue

import (
	"context"

	"github.com/IfedayoAwe/corp-payment-gateway/utils"
)

// LogQueue records jobs in the service log only. It backs HOLD_QUEUE_BACKEND=none.
type LogQueue struct{}

func NewLogQueue() *LogQueue {
	return &LogQueue{}
}

func (q *LogQueue) Enqueue(ctx context.Context, jobType JobType, payload any) error {
	job, _, err := newJob(ctx, jobType, payload)
	if err != nil {
		return err
	}

	utils.Logger.Info().
		Str("job_id", job.ID).
		Str("job_type", string(jobType)).
		Str("trace_id", job.TraceID).
		RawJSON("payload", job.Payload).
		Msg("job recorded, no queue backend configured")

	return nil
}

func (q *LogQueue) Close() error {
	return nil
}
