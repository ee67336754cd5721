package services

import (
	"sync"
	"time"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
)

// TransactionJournal remembers settled and held payments for status inquiry.
type TransactionJournal interface {
	Record(outcome models.TransactionOutcome) bool
	Lookup(corpID, tranID string) (models.TransactionOutcome, bool)
}

type journalEntry struct {
	outcome    models.TransactionOutcome
	recordedAt time.Time
}

type memoryJournal struct {
	mu      sync.RWMutex
	entries map[string]journalEntry
	ttl     time.Duration
	now     func() time.Time
	records int
}

// NewMemoryJournal keeps outcomes in process. A ttl of zero retains them forever.
func NewMemoryJournal(ttl time.Duration) TransactionJournal {
	return newMemoryJournal(ttl, time.Now)
}

func newMemoryJournal(ttl time.Duration, now func() time.Time) *memoryJournal {
	return &memoryJournal{
		entries: make(map[string]journalEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Record stores SUCCESS and HELD outcomes and reports whether the entry changed.
// A SUCCESS is never replaced and a HELD only lands on an empty slot.
func (j *memoryJournal) Record(outcome models.TransactionOutcome) bool {
	if outcome.Status != models.TransactionStatusSuccess && outcome.Status != models.TransactionStatusHeld {
		return false
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	tranID := outcome.Header.TranID
	if prev, ok := j.entries[tranID]; ok && !j.expired(prev, now) {
		if prev.outcome.Status == models.TransactionStatusSuccess ||
			outcome.Status == models.TransactionStatusHeld {
			return false
		}
	}

	j.entries[tranID] = journalEntry{outcome: outcome, recordedAt: now}
	j.records++
	if j.ttl > 0 && j.records%sweepEvery == 0 {
		for id, e := range j.entries {
			if j.expired(e, now) {
				delete(j.entries, id)
			}
		}
	}
	return true
}

// Lookup only returns outcomes recorded for corpID.
func (j *memoryJournal) Lookup(corpID, tranID string) (models.TransactionOutcome, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	e, ok := j.entries[tranID]
	if !ok || j.expired(e, j.now()) || e.outcome.Header.CorpID != corpID {
		return models.TransactionOutcome{}, false
	}
	return e.outcome, true
}

func (j *memoryJournal) expired(e journalEntry, now time.Time) bool {
	return j.ttl > 0 && now.Sub(e.recordedAt) >= j.ttl
}
