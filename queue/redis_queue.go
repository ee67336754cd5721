package queue

import (
	"context"
	"fmt"

	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/go-redis/redis/v8"
)

type RedisQueue struct {
	client redis.Cmdable
}

func NewRedisQueue(client redis.Cmdable) *RedisQueue {
	return &RedisQueue{
		client: client,
	}
}

func Key(jobType JobType) string {
	return fmt.Sprintf("queue:%s", jobType)
}

func (q *RedisQueue) Enqueue(ctx context.Context, jobType JobType, payload any) error {
	job, jobBytes, err := newJob(ctx, jobType, payload)
	if err != nil {
		return err
	}

	if err := q.client.LPush(ctx, Key(jobType), jobBytes).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}

	utils.Logger.Debug().
		Str("job_id", job.ID).
		Str("job_type", string(jobType)).
		Str("trace_id", job.TraceID).
		Msg("job enqueued to redis")

	return nil
}

// Close leaves the shared client open; its owner closes it.
func (q *RedisQueue) Close() error {
	return nil
}
