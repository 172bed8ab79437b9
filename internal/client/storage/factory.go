package storage

import (
	"context"
	"fmt"
)

// Backend names accepted by New.
const (
	BackendCookie = "cookie"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// New builds the named backend. path is the cookie file or the SQLite DSN and
// is ignored for memory. A non-empty passphrase wraps the result in
// EncryptedStorage.
func New(ctx context.Context, backend, path, passphrase string, opts ...Option) (SessionStorage, error) {
	var (
		s   SessionStorage
		err error
	)

	switch backend {
	case BackendCookie:
		s = NewCookieStorage(path, opts...)
	case BackendSQLite:
		s, err = OpenSQLiteStorage(ctx, path, opts...)
	case BackendMemory:
		s = NewMemoryStorage(opts...)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
	if err != nil {
		return nil, err
	}

	if passphrase != "" {
		s = NewEncryptedStorage(s, passphrase)
	}
	return s, nil
}
