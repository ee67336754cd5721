package services

import (
	"context"
	"fmt"
	"time"

	"github.com/IfedayoAwe/corp-payment-gateway/config"
	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/providers"
	"github.com/IfedayoAwe/corp-payment-gateway/queue"
)

type Services struct {
	Config *config.Config

	credentials CredentialStore
	ledger      AccountLedger
	tracker     IdempotencyTracker
	journal     TransactionJournal
	rules       BusinessRuleEngine
	rails       *providers.Processor
	holds       HoldDispatcher
	holdQueue   queue.Queue
	now         func() time.Time
}

type Option func(*Services)

// WithClock replaces the wall clock used for cutoff checks and Txn_Time.
func WithClock(now func() time.Time) Option {
	return func(s *Services) {
		s.now = now
	}
}

func WithIdempotencyTracker(tracker IdempotencyTracker) Option {
	return func(s *Services) {
		s.tracker = tracker
	}
}

func WithHoldQueue(q queue.Queue) Option {
	return func(s *Services) {
		s.holdQueue = q
	}
}

func WithHoldDispatcher(hd HoldDispatcher) Option {
	return func(s *Services) {
		s.holds = hd
	}
}

func WithRails(rails *providers.Processor) Option {
	return func(s *Services) {
		s.rails = rails
	}
}

func WithJournal(journal TransactionJournal) Option {
	return func(s *Services) {
		s.journal = journal
	}
}

func NewServices(cfg *config.Config, seed *models.Seed, opts ...Option) (*Services, error) {
	if seed == nil {
		return nil, fmt.Errorf("seed is required")
	}

	credentials, err := NewCredentialStore(seed.Credentials)
	if err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}

	ledger, err := NewAccountLedger(seed.Accounts)
	if err != nil {
		return nil, fmt.Errorf("account ledger: %w", err)
	}

	rules, err := NewRuleEngine(DefaultModeRules(), cfg.PaymentModes, cfg.NEFTCutoff)
	if err != nil {
		return nil, fmt.Errorf("rule engine: %w", err)
	}

	s := &Services{
		Config:      cfg,
		credentials: credentials,
		ledger:      ledger,
		rules:       rules,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.tracker == nil {
		s.tracker = NewMemoryIdempotencyTracker(cfg.IdempotencyTTL)
	}
	if s.journal == nil {
		s.journal = NewMemoryJournal(cfg.IdempotencyTTL)
	}
	if s.rails == nil {
		s.rails = providers.SetupProcessor()
	}
	if s.holdQueue == nil {
		s.holdQueue = queue.NewLogQueue()
	}
	if s.holds == nil {
		s.holds = newHoldDispatcher(s.holdQueue, holdBufferSize, holdRetryDelay)
	}

	return s, nil
}

// StartWorkers runs the background hold dispatcher until ctx is done.
func (s *Services) StartWorkers(ctx context.Context) {
	go func() {
		_ = s.holds.StartWorker(ctx)
	}()
}

func (s *Services) Ledger() AccountLedger {
	return s.ledger
}

func (s *Services) Rules() BusinessRuleEngine {
	return s.rules
}

func (s *Services) Journal() TransactionJournal {
	return s.journal
}
