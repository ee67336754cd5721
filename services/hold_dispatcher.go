package services

import (
	"context"
	"errors"
	"time"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/queue"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
)

const (
	holdBufferSize     = 256
	holdMaxAttempts    = 5
	holdRetryDelay     = 2 * time.Second
	holdPublishTimeout = 5 * time.Second
)

var ErrHoldBufferFull = errors.New("hold dispatch buffer full")

// HoldDispatcher hands held payments to the next-day scheduler's queue.
// Submit never blocks; publishing happens on the worker.
type HoldDispatcher interface {
	Submit(ctx context.Context, held models.HeldPayment) error
	StartWorker(ctx context.Context) error
}

type holdEntry struct {
	payment models.HeldPayment
	traceID string
}

type holdDispatcher struct {
	queue      queue.Queue
	pending    chan holdEntry
	retryDelay time.Duration
}

func newHoldDispatcher(q queue.Queue, size int, retryDelay time.Duration) *holdDispatcher {
	return &holdDispatcher{
		queue:      q,
		pending:    make(chan holdEntry, size),
		retryDelay: retryDelay,
	}
}

func (hd *holdDispatcher) Submit(ctx context.Context, held models.HeldPayment) error {
	select {
	case hd.pending <- holdEntry{payment: held, traceID: utils.TraceIDFromContext(ctx)}:
		return nil
	default:
		return ErrHoldBufferFull
	}
}

func (hd *holdDispatcher) StartWorker(ctx context.Context) error {
	utils.Logger.Info().Msg("hold dispatcher started")

	for {
		select {
		case <-ctx.Done():
			utils.Logger.Info().Int("pending", len(hd.pending)).Msg("hold dispatcher stopping")
			return ctx.Err()
		case entry := <-hd.pending:
			hd.dispatch(ctx, entry)
		}
	}
}

// dispatch publishes one held payment, retrying up to holdMaxAttempts times
// before dropping it.
func (hd *holdDispatcher) dispatch(ctx context.Context, entry holdEntry) {
	jobCtx := utils.WithTraceID(ctx, entry.traceID)

	for attempt := 1; attempt <= holdMaxAttempts; attempt++ {
		err := hd.publish(jobCtx, entry.payment)
		if err == nil {
			utils.Logger.Info().
				Str("trace_id", entry.traceID).
				Str("tran_id", entry.payment.TranID).
				Int("attempt", attempt).
				Msg("held payment dispatched")
			return
		}

		utils.Logger.Error().
			Err(err).
			Str("trace_id", entry.traceID).
			Str("tran_id", entry.payment.TranID).
			Int("attempt", attempt).
			Msg("error dispatching held payment")

		if attempt == holdMaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(hd.retryDelay):
		}
	}

	utils.Logger.Warn().
		Str("trace_id", entry.traceID).
		Str("tran_id", entry.payment.TranID).
		Int("max_attempts", holdMaxAttempts).
		Msg("held payment exceeded max retries, dropping")
}

func (hd *holdDispatcher) publish(ctx context.Context, held models.HeldPayment) error {
	ctx, cancel := context.WithTimeout(ctx, holdPublishTimeout)
	defer cancel()
	return hd.queue.Enqueue(ctx, queue.JobTypeNEFTHold, held)
}
