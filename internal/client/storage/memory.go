package storage

import (
	"context"
	"sync"
	"time"
)

type MemoryStorage struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	opts      options
}

func NewMemoryStorage(opts ...Option) *MemoryStorage {
	return &MemoryStorage{opts: newOptions(opts)}
}

func (s *MemoryStorage) Get(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" || !s.opts.now().Before(s.expiresAt) {
		return "", nil
	}
	return s.token, nil
}

func (s *MemoryStorage) Set(_ context.Context, token string) error {
	if err := checkToken(token); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.expiresAt = s.opts.now().Add(s.opts.maxAge)
	return nil
}

func (s *MemoryStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.expiresAt = time.Time{}
	return nil
}

func (s *MemoryStorage) Close() error { return nil }
