// Package keyring stores the daemon's RPC bearer token in the operating
// system keyring, with a 0600 file as the fallback when no keyring service
// is available.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ErrNoToken is returned when no token has been stored yet.
var ErrNoToken = errors.New("no token stored")

// TokenStore persists a single token.
type TokenStore interface {
	GetToken() (string, error)
	// SetToken generates, stores and returns a fresh token.
	SetToken() (string, error)
	DeleteToken() error
}

type Keyring struct {
	Service string
	User    string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

func NewKeyring() *Keyring {
	return &Keyring{
		Service: "habitflash",
		User:    "rpc-token",
	}
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (k *Keyring) SetToken() (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := keyringSet(k.Service, k.User, token); err != nil {
		return "", err
	}
	return token, nil
}

func (k *Keyring) GetToken() (string, error) {
	token, err := keyringGet(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	return token, err
}

func (k *Keyring) DeleteToken() error {
	err := keyringDelete(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Ensure returns the stored token, creating one if none exists. Stores are
// tried in order; a store that fails for any reason other than ErrNoToken
// is skipped.
func Ensure(stores ...TokenStore) (string, error) {
	var errs []error
	for _, s := range stores {
		token, err := s.GetToken()
		if err == nil && token != "" {
			return token, nil
		}
		if err != nil && !errors.Is(err, ErrNoToken) {
			errs = append(errs, err)
			continue
		}
		token, err = s.SetToken()
		if err == nil {
			return token, nil
		}
		errs = append(errs, err)
	}
	return "", fmt.Errorf("no usable token store: %w", errors.Join(errs...))
}

// Lookup returns the first stored token without creating one.
func Lookup(stores ...TokenStore) (string, error) {
	for _, s := range stores {
		if token, err := s.GetToken(); err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrNoToken
}
