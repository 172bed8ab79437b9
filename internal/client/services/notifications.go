package services

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/dentacare/internal/client/models"
	"github.com/google/uuid"
)

// DefaultNotificationDuration applies when a toast is added without a
// positive duration.
const DefaultNotificationDuration = 5 * time.Second

// Notifier is the part of the notification store the session manager uses.
type Notifier interface {
	Success(title, message string, duration time.Duration) string
	Error(title, message string, duration time.Duration) string
}

// NotificationService is the toast queue. Every toast is removed
// automatically once its duration elapses.
type NotificationService interface {
	Notifier
	Info(title, message string, duration time.Duration) string
	Warning(title, message string, duration time.Duration) string
	Add(n models.Notification) string
	Remove(id string)
	List() []models.Notification
	// OnAdd registers fn to be called for every added toast.
	OnAdd(fn func(models.Notification)) (unsubscribe func())
	Close()
}

type notificationService struct {
	mu              sync.Mutex
	items           []models.Notification
	timers          map[string]*time.Timer
	listeners       map[int]func(models.Notification)
	nextListener    int
	defaultDuration time.Duration
	closed          bool
}

// NewNotificationService creates an empty store. A non-positive
// defaultDuration means DefaultNotificationDuration.
func NewNotificationService(defaultDuration time.Duration) NotificationService {
	if defaultDuration <= 0 {
		defaultDuration = DefaultNotificationDuration
	}
	return &notificationService{
		timers:          make(map[string]*time.Timer),
		listeners:       make(map[int]func(models.Notification)),
		defaultDuration: defaultDuration,
	}
}

func (s *notificationService) Add(n models.Notification) string {
	n.ID = uuid.NewString()
	if n.Duration <= 0 {
		n.Duration = s.defaultDuration
	}
	if n.Icon == "" {
		n.Icon = n.Type.Icon()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ""
	}
	s.items = append(s.items, n)
	id := n.ID
	s.timers[id] = time.AfterFunc(n.Duration, func() { s.Remove(id) })

	listeners := make([]func(models.Notification), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(n)
	}
	return id
}

func (s *notificationService) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *notificationService) List() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Notification, len(s.items))
	copy(out, s.items)
	return out
}

func (s *notificationService) OnAdd(fn func(models.Notification)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close stops pending dismiss timers. Later Adds are ignored.
func (s *notificationService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.listeners = make(map[int]func(models.Notification))
	s.closed = true
}

func (s *notificationService) add(typ models.NotificationType, title, message string, d time.Duration) string {
	return s.Add(models.Notification{Type: typ, Title: title, Message: message, Duration: d})
}

func (s *notificationService) Success(title, message string, d time.Duration) string {
	return s.add(models.NotificationSuccess, title, message, d)
}

func (s *notificationService) Error(title, message string, d time.Duration) string {
	return s.add(models.NotificationError, title, message, d)
}

func (s *notificationService) Info(title, message string, d time.Duration) string {
	return s.add(models.NotificationInfo, title, message, d)
}

func (s *notificationService) Warning(title, message string, d time.Duration) string {
	return s.add(models.NotificationWarning, title, message, d)
}
