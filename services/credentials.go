package services

import (
	"fmt"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"golang.org/x/crypto/bcrypt"
)

type CredentialStore interface {
	Lookup(username string) (models.Credential, bool)
	Verify(username, password string) (models.Credential, error)
}

// credentialStore is read-only after construction and needs no locking.
type credentialStore struct {
	byUsername map[string]models.Credential
	decoyHash  []byte
}

func NewCredentialStore(credentials []models.Credential) (CredentialStore, error) {
	store := &credentialStore{
		byUsername: make(map[string]models.Credential, len(credentials)),
	}

	for _, cred := range credentials {
		if _, exists := store.byUsername[cred.Username]; exists {
			return nil, fmt.Errorf("duplicate username %q", cred.Username)
		}
		store.byUsername[cred.Username] = cred
	}

	// Unknown usernames still pay for one bcrypt comparison.
	decoy, err := bcrypt.GenerateFromPassword([]byte("decoy-password"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("generate decoy hash: %w", err)
	}
	store.decoyHash = decoy

	return store, nil
}

func (s *credentialStore) Lookup(username string) (models.Credential, bool) {
	cred, ok := s.byUsername[username]
	return cred, ok
}

func (s *credentialStore) Verify(username, password string) (models.Credential, error) {
	cred, ok := s.byUsername[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(s.decoyHash, []byte(password))
		return models.Credential{}, ErrInvalidCredentials
	}

	// An unset hash never matches.
	if err := utils.VerifyPassword(cred.PasswordHash, password); err != nil {
		return models.Credential{}, ErrInvalidCredentials
	}

	return cred, nil
}
