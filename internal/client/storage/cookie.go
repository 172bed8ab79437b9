package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/dentacare/internal/common"
	"github.com/dmitrijs2005/dentacare/internal/filex"
)

// CookieStorage keeps the token as an auth_token cookie serialized to a file
// in Set-Cookie form. The cookie carries Max-Age, Path=/, Secure and
// SameSite=Strict.
type CookieStorage struct {
	mu   sync.Mutex
	path string
	opts options
}

func NewCookieStorage(path string, opts ...Option) *CookieStorage {
	return &CookieStorage{path: path, opts: newOptions(opts)}
}

func (s *CookieStorage) newCookie(token string) *http.Cookie {
	now := s.opts.now()
	return &http.Cookie{
		Name:     common.AuthTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.opts.maxAge.Seconds()),
		Expires:  now.Add(s.opts.maxAge).UTC(),
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// Cookie returns the stored cookie, or nil when there is none.
func (s *CookieStorage) Cookie() (*http.Cookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *CookieStorage) read() (*http.Cookie, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}

	line := strings.TrimSpace(string(data))
	if line == "" {
		return nil, nil
	}

	c, err := http.ParseSetCookie(line)
	if err != nil {
		return nil, fmt.Errorf("parse cookie file: %w", err)
	}
	if c.Name != common.AuthTokenCookieName {
		return nil, fmt.Errorf("parse cookie file: unexpected cookie %q", c.Name)
	}
	return c, nil
}

func (s *CookieStorage) Get(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read()
	if err != nil || c == nil {
		return "", err
	}
	if !c.Expires.IsZero() && !s.opts.now().Before(c.Expires) {
		return "", nil
	}
	return c.Value, nil
}

func (s *CookieStorage) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkToken(token); err != nil {
		return err
	}
	c := s.newCookie(token)
	if err := c.Valid(); err != nil {
		return fmt.Errorf("%w for cookie storage: %w", common.ErrInvalidToken, err)
	}

	dir, err := filex.EnsureParentDir(s.path)
	if err != nil {
		return fmt.Errorf("create cookie dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".auth_token-*")
	if err != nil {
		return fmt.Errorf("create cookie file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(c.String() + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("write cookie file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write cookie file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("chmod cookie file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace cookie file: %w", err)
	}
	return nil
}

// Clear deletes the cookie file.
func (s *CookieStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cookie file: %w", err)
	}
	return nil
}

func (s *CookieStorage) Close() error { return nil }
