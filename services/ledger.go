package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/pkg/money"
	"github.com/shopspring/decimal"
)

type AccountLedger interface {
	Exists(acctNo string) bool
	OwnerOf(acctNo string) (string, error)
	Balance(acctNo string) (decimal.Decimal, error)
	Debit(acctNo string, amount decimal.Decimal) (decimal.Decimal, error)
	ListByCorp(corpID string) []models.Account
}

type ledgerEntry struct {
	mu      sync.Mutex
	account models.Account
}

// accountLedger keeps one lock per account. The map itself is never written
// after construction, so lookups need no lock and debits on different
// accounts run in parallel.
type accountLedger struct {
	entries map[string]*ledgerEntry
	byCorp  map[string][]string
}

func NewAccountLedger(accounts []models.Account) (AccountLedger, error) {
	l := &accountLedger{
		entries: make(map[string]*ledgerEntry, len(accounts)),
		byCorp:  make(map[string][]string),
	}

	for _, acct := range accounts {
		if _, exists := l.entries[acct.Number]; exists {
			return nil, fmt.Errorf("duplicate account %s", acct.Number)
		}
		if acct.Balance.IsNegative() {
			return nil, fmt.Errorf("account %s has a negative balance", acct.Number)
		}
		if acct.Currency == "" {
			acct.Currency = money.INR
		}
		l.entries[acct.Number] = &ledgerEntry{account: acct}
		l.byCorp[acct.CorpID] = append(l.byCorp[acct.CorpID], acct.Number)
	}

	for corp := range l.byCorp {
		sort.Strings(l.byCorp[corp])
	}

	return l, nil
}

func (l *accountLedger) Exists(acctNo string) bool {
	_, ok := l.entries[acctNo]
	return ok
}

func (l *accountLedger) OwnerOf(acctNo string) (string, error) {
	entry, ok := l.entries[acctNo]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrAccountNotFound, acctNo)
	}
	// CorpID is immutable after construction.
	return entry.account.CorpID, nil
}

func (l *accountLedger) Balance(acctNo string) (decimal.Decimal, error) {
	entry, ok := l.entries[acctNo]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrAccountNotFound, acctNo)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.account.Balance, nil
}

// Debit checks and subtracts under the account lock. A refused debit leaves
// the balance untouched.
func (l *accountLedger) Debit(acctNo string, amount decimal.Decimal) (decimal.Decimal, error) {
	entry, ok := l.entries[acctNo]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrAccountNotFound, acctNo)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: debit must be positive", ErrInvalidAmount)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	current := money.NewMoney(entry.account.Balance, entry.account.Currency)
	remaining, err := current.Subtract(money.NewMoney(amount, entry.account.Currency))
	if err != nil {
		return decimal.Zero, fmt.Errorf("debit %s: %w", acctNo, err)
	}

	entry.account.Balance = remaining.Amount
	return remaining.Amount, nil
}

// ListByCorp returns snapshots ordered by account number.
func (l *accountLedger) ListByCorp(corpID string) []models.Account {
	numbers := l.byCorp[corpID]
	out := make([]models.Account, 0, len(numbers))

	for _, n := range numbers {
		entry := l.entries[n]
		entry.mu.Lock()
		out = append(out, entry.account)
		entry.mu.Unlock()
	}
	return out
}
