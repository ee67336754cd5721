package services

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"
)

const basicScheme = "Basic "

type Authenticator interface {
	// Authenticate returns the caller's corp. expectedCorpID is checked only when non-empty.
	Authenticate(authorization, expectedCorpID string) (string, error)
}

type authenticator struct {
	credentials CredentialStore
}

func (s *Services) Auth() Authenticator {
	return &authenticator{
		credentials: s.credentials,
	}
}

func (a *authenticator) Authenticate(authorization, expectedCorpID string) (string, error) {
	if !strings.HasPrefix(authorization, basicScheme) {
		return "", ErrAuthMissing
	}

	encoded := strings.TrimSpace(authorization[len(basicScheme):])
	if encoded == "" {
		return "", ErrAuthMissing
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Join(ErrAuthBadEncoding, err)
	}
	if !utf8.Valid(decoded) {
		return "", ErrAuthBadEncoding
	}

	payload := string(decoded)
	if strings.Count(payload, ":") != 1 {
		return "", ErrAuthMalformed
	}
	username, password, _ := strings.Cut(payload, ":")

	cred, err := a.credentials.Verify(username, password)
	if err != nil {
		return "", err
	}

	if expectedCorpID != "" && expectedCorpID != cred.CorpID {
		return cred.CorpID, ErrCorpMismatch
	}

	return cred.CorpID, nil
}
