package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/google/uuid"
)

type JobType string

const (
	JobTypeNEFTHold JobType = "neft_hold"
)

type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	TraceID   string          `json:"trace_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Queue publishes jobs for consumers outside this service.
type Queue interface {
	Enqueue(ctx context.Context, jobType JobType, payload any) error
	Close() error
}

func newJob(ctx context.Context, jobType JobType, payload any) (*Job, []byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal payload: %w", err)
	}

	job := &Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Payload:   payloadBytes,
		TraceID:   utils.TraceIDFromContext(ctx),
		CreatedAt: time.Now().UTC(),
	}

	jobBytes, err := json.Marshal(job)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal job: %w", err)
	}
	return job, jobBytes, nil
}
