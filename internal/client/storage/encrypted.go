package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dentacare/internal/common"
	"github.com/dmitrijs2005/dentacare/internal/cryptox"
)

// ErrUndecryptable is returned by EncryptedStorage.Get when the stored cell
// cannot be opened with the configured passphrase.
var ErrUndecryptable = errors.New("stored token cannot be decrypted")

// EncryptedStorage seals tokens before handing them to the inner backend.
// The stored form is base64url(salt || nonce || ciphertext); a fresh salt is
// drawn for every Set.
type EncryptedStorage struct {
	inner      SessionStorage
	passphrase []byte
}

func NewEncryptedStorage(inner SessionStorage, passphrase string) *EncryptedStorage {
	return &EncryptedStorage{inner: inner, passphrase: []byte(passphrase)}
}

func (s *EncryptedStorage) Get(ctx context.Context) (string, error) {
	stored, err := s.inner.Get(ctx)
	if err != nil || stored == "" {
		return "", err
	}

	raw, err := base64.RawURLEncoding.DecodeString(stored)
	if err != nil || len(raw) <= cryptox.SaltSize {
		return "", ErrUndecryptable
	}

	key := cryptox.DeriveKey(s.passphrase, raw[:cryptox.SaltSize])
	defer common.WipeByteArray(key)

	plain, err := cryptox.Open(raw[cryptox.SaltSize:], key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecryptable, err)
	}
	return string(plain), nil
}

func (s *EncryptedStorage) Set(ctx context.Context, token string) error {
	if err := checkToken(token); err != nil {
		return err
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveKey(s.passphrase, salt)
	defer common.WipeByteArray(key)

	sealed, err := cryptox.Seal([]byte(token), key)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}

	return s.inner.Set(ctx, base64.RawURLEncoding.EncodeToString(append(salt, sealed...)))
}

func (s *EncryptedStorage) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}

func (s *EncryptedStorage) Close() error {
	common.WipeByteArray(s.passphrase)
	return s.inner.Close()
}
