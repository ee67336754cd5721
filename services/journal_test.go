package services

import (
	"testing"
	"time"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func journalled(tranID, corpID string, status models.TransactionStatus) models.TransactionOutcome {
	return models.TransactionOutcome{
		Status: status,
		Header: validHeader(tranID, corpID),
	}
}

func TestMemoryJournal(t *testing.T) {
	t.Run("scoped by corp", func(t *testing.T) {
		j := NewMemoryJournal(0)
		j.Record(journalled("TXN1", "TMW01", models.TransactionStatusSuccess))

		got, ok := j.Lookup("TMW01", "TXN1")
		require.True(t, ok)
		assert.Equal(t, models.TransactionStatusSuccess, got.Status)

		_, ok = j.Lookup("TMW02", "TXN1")
		assert.False(t, ok)
	})

	t.Run("failures are not recorded", func(t *testing.T) {
		j := NewMemoryJournal(0)
		j.Record(journalled("TXN1", "TMW01", models.TransactionStatusFailed))

		_, ok := j.Lookup("TMW01", "TXN1")
		assert.False(t, ok)
	})

	t.Run("held then settled", func(t *testing.T) {
		j := NewMemoryJournal(0)
		j.Record(journalled("TXN1", "TMW01", models.TransactionStatusHeld))
		j.Record(journalled("TXN1", "TMW01", models.TransactionStatusSuccess))

		got, _ := j.Lookup("TMW01", "TXN1")
		assert.Equal(t, models.TransactionStatusSuccess, got.Status)
	})

	t.Run("success is never replaced", func(t *testing.T) {
		j := NewMemoryJournal(0)
		j.Record(journalled("TXN1", "TMW01", models.TransactionStatusSuccess))
		j.Record(journalled("TXN1", "TMW01", models.TransactionStatusHeld))

		got, _ := j.Lookup("TMW01", "TXN1")
		assert.Equal(t, models.TransactionStatusSuccess, got.Status)
	})

	t.Run("reports whether the entry changed", func(t *testing.T) {
		j := NewMemoryJournal(0)
		assert.True(t, j.Record(journalled("TXN1", "TMW01", models.TransactionStatusHeld)))
		assert.False(t, j.Record(journalled("TXN1", "TMW01", models.TransactionStatusHeld)))
		assert.True(t, j.Record(journalled("TXN1", "TMW01", models.TransactionStatusSuccess)))
		assert.False(t, j.Record(journalled("TXN1", "TMW01", models.TransactionStatusHeld)))
		assert.False(t, j.Record(journalled("TXN2", "TMW01", models.TransactionStatusFailed)))
	})

	t.Run("entries expire", func(t *testing.T) {
		now := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
		j := newMemoryJournal(time.Hour, func() time.Time { return now })
		j.Record(journalled("TXN1", "TMW01", models.TransactionStatusSuccess))

		now = now.Add(59 * time.Minute)
		_, ok := j.Lookup("TMW01", "TXN1")
		assert.True(t, ok)

		now = now.Add(time.Minute)
		_, ok = j.Lookup("TMW01", "TXN1")
		assert.False(t, ok)
	})
}
