package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/pkg/money"
)

const (
	selectCredentials = `SELECT username, password_hash, corp_id FROM gateway_credentials ORDER BY username`
	selectAccounts    = `SELECT acct_number, balance::text, corp_id, acct_type, currency FROM gateway_accounts ORDER BY acct_number`
)

// Rows is the subset of *sql.Rows the seed loader reads.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (Rows, error)
}

type sqlQuerier struct {
	db *sql.DB
}

func NewQuerier(db *sql.DB) Querier {
	return &sqlQuerier{db: db}
}

func (q *sqlQuerier) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadSeed reads credentials and accounts from Postgres. Balances are read
// once here; the ledger never writes back.
func LoadSeed(ctx context.Context, q Querier) (*models.Seed, error) {
	seed := &models.Seed{}

	credRows, err := q.QueryContext(ctx, selectCredentials)
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	defer credRows.Close()

	for credRows.Next() {
		var c models.Credential
		if err := credRows.Scan(&c.Username, &c.PasswordHash, &c.CorpID); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		seed.Credentials = append(seed.Credentials, c)
	}
	if err := credRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}

	acctRows, err := q.QueryContext(ctx, selectAccounts)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer acctRows.Close()

	for acctRows.Next() {
		var (
			a        models.Account
			balance  string
			currency string
		)
		if err := acctRows.Scan(&a.Number, &balance, &a.CorpID, &a.Type, &currency); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}

		if a.Balance, err = money.ParseBalance(balance); err != nil {
			return nil, fmt.Errorf("account %s: %w", a.Number, err)
		}
		if a.Currency, err = money.ParseCurrency(currency); err != nil {
			return nil, fmt.Errorf("account %s: %w", a.Number, err)
		}
		seed.Accounts = append(seed.Accounts, a)
	}
	if err := acctRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return seed, nil
}
