package seeds

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/pkg/money"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"gopkg.in/yaml.v3"
)

//go:embed gateway.yaml
var defaultProfile []byte

var ErrInvalidSeed = errors.New("invalid seed profile")

type File struct {
	Credentials []CredentialEntry `yaml:"credentials"`
	Accounts    []AccountEntry    `yaml:"accounts"`
}

type CredentialEntry struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
	CorpID       string `yaml:"corp_id"`
}

type AccountEntry struct {
	Number   string `yaml:"number"`
	Balance  string `yaml:"balance"`
	CorpID   string `yaml:"corp_id"`
	Type     string `yaml:"type"`
	Currency string `yaml:"currency"`
}

// Default returns the embedded profile.
func Default(hashCost int) (*models.Seed, error) {
	return Parse(defaultProfile, hashCost)
}

func LoadFile(path string, hashCost int) (*models.Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data, hashCost)
}

func Parse(data []byte, hashCost int) (*models.Seed, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	return file.ToSeed(hashCost)
}

func (f File) ToSeed(hashCost int) (*models.Seed, error) {
	seed := &models.Seed{
		Credentials: make([]models.Credential, 0, len(f.Credentials)),
		Accounts:    make([]models.Account, 0, len(f.Accounts)),
	}

	for i, entry := range f.Credentials {
		hash := entry.PasswordHash
		switch {
		case hash != "":
			if !utils.IsPasswordHash(hash) {
				return nil, fmt.Errorf("%w: credential %d (%s): password_hash is not a bcrypt hash", ErrInvalidSeed, i, entry.Username)
			}
		case entry.Password != "":
			var err error
			hash, err = utils.HashPassword(entry.Password, hashCost)
			if err != nil {
				return nil, fmt.Errorf("%w: credential %d (%s): %v", ErrInvalidSeed, i, entry.Username, err)
			}
		default:
			return nil, fmt.Errorf("%w: credential %d (%s): password or password_hash required", ErrInvalidSeed, i, entry.Username)
		}

		seed.Credentials = append(seed.Credentials, models.Credential{
			Username:     entry.Username,
			PasswordHash: hash,
			CorpID:       entry.CorpID,
		})
	}

	for _, entry := range f.Accounts {
		balance, err := money.ParseBalance(entry.Balance)
		if err != nil {
			return nil, fmt.Errorf("%w: account %s: %v", ErrInvalidSeed, entry.Number, err)
		}

		currency := money.INR
		if entry.Currency != "" {
			if currency, err = money.ParseCurrency(entry.Currency); err != nil {
				return nil, fmt.Errorf("%w: account %s: %v", ErrInvalidSeed, entry.Number, err)
			}
		}

		seed.Accounts = append(seed.Accounts, models.Account{
			Number:   entry.Number,
			Balance:  balance,
			CorpID:   entry.CorpID,
			Type:     entry.Type,
			Currency: currency,
		})
	}

	if err := Validate(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// Validate enforces unique usernames and account numbers, non-negative
// balances and an owning corp on every account, whatever the seed source.
func Validate(seed *models.Seed) error {
	if seed == nil {
		return fmt.Errorf("%w: empty profile", ErrInvalidSeed)
	}

	usernames := make(map[string]struct{}, len(seed.Credentials))
	for _, cred := range seed.Credentials {
		if strings.TrimSpace(cred.Username) == "" {
			return fmt.Errorf("%w: credential with empty username", ErrInvalidSeed)
		}
		if strings.TrimSpace(cred.CorpID) == "" {
			return fmt.Errorf("%w: credential %s has no corp_id", ErrInvalidSeed, cred.Username)
		}
		if _, dup := usernames[cred.Username]; dup {
			return fmt.Errorf("%w: duplicate username %s", ErrInvalidSeed, cred.Username)
		}
		usernames[cred.Username] = struct{}{}
	}

	numbers := make(map[string]struct{}, len(seed.Accounts))
	for _, acct := range seed.Accounts {
		if strings.TrimSpace(acct.Number) == "" {
			return fmt.Errorf("%w: account with empty number", ErrInvalidSeed)
		}
		if strings.TrimSpace(acct.CorpID) == "" {
			return fmt.Errorf("%w: account %s has no corp_id", ErrInvalidSeed, acct.Number)
		}
		if acct.Balance.IsNegative() {
			return fmt.Errorf("%w: account %s has a negative balance", ErrInvalidSeed, acct.Number)
		}
		if !acct.Balance.Equal(acct.Balance.Truncate(money.Scale)) {
			return fmt.Errorf("%w: account %s balance has more than %d decimals", ErrInvalidSeed, acct.Number, money.Scale)
		}
		if _, dup := numbers[acct.Number]; dup {
			return fmt.Errorf("%w: duplicate account %s", ErrInvalidSeed, acct.Number)
		}
		numbers[acct.Number] = struct{}{}
	}

	return nil
}
