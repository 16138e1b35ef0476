package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "sunless-desktop"
	keyringUser    = "firebase-session"
)

// SessionStore keeps the signed-in session token.
type SessionStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// KeyringStore stores the session token in the OS credential store.
type KeyringStore struct{}

// Save stores token, replacing any previous one.
func (KeyringStore) Save(token string) error {
	return keyring.Set(keyringService, keyringUser, token)
}

// Load returns the stored token, or "" when nobody is signed in.
func (KeyringStore) Load() (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return token, err
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (KeyringStore) Clear() error {
	err := keyring.Delete(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
