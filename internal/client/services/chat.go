package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/dentacare/internal/client/client"
	"github.com/dmitrijs2005/dentacare/internal/client/i18n"
	"github.com/dmitrijs2005/dentacare/internal/client/models"
	"github.com/dmitrijs2005/dentacare/internal/logging"
	"github.com/google/uuid"
)

// ChatSession is what the chat assistant needs from the session manager.
type ChatSession interface {
	Token() string
	OnSessionEnded(fn SessionEndedFunc) (unsubscribe func())
}

// ChatService keeps the assistant's conversation and panel state. The
// history is cleared whenever the session ends.
type ChatService interface {
	Toggle() bool
	IsOpen() bool
	IsLoading() bool
	AddMessage(text string, sender models.Sender) models.ChatMessage
	Messages() []models.ChatMessage
	SendMessage(ctx context.Context, text string) error
	Clear()
	Close()
}

type chatService struct {
	client client.Client
	tr     *i18n.Translator
	log    logging.Logger
	now    func() time.Time

	session     ChatSession
	unsubscribe func()

	mu       sync.RWMutex
	open     bool
	loading  bool
	messages []models.ChatMessage
}

// NewChatService creates the chat state and subscribes it to the end of
// the session.
func NewChatService(c client.Client, session ChatSession, tr *i18n.Translator, log logging.Logger) ChatService {
	s := &chatService{
		client:  c,
		tr:      tr,
		log:     log.With("component", "chat"),
		now:     time.Now,
		session: session,
	}
	s.unsubscribe = session.OnSessionEnded(func(context.Context) error {
		s.Clear()
		return nil
	})
	return s
}

func (s *chatService) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
	return s.open
}

func (s *chatService) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

func (s *chatService) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *chatService) AddMessage(text string, sender models.Sender) models.ChatMessage {
	m := models.ChatMessage{
		ID:        "msg_" + uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: s.now(),
	}

	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	return m
}

func (s *chatService) Messages() []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *chatService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// SendMessage posts text to the assistant and appends both sides of the
// exchange. Blank input is ignored. Failures still append a bot reply.
func (s *chatService) SendMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.AddMessage(text, models.SenderUser)
	s.setLoading(true)
	defer s.setLoading(false)

	token := s.session.Token()
	if token == "" {
		s.AddMessage(s.tr.T(i18n.ChatConnectionTrouble), models.SenderBot)
		return fmt.Errorf("send chat: %w", client.ErrAuthentication)
	}

	resp, err := s.client.SendChat(ctx, token, text)
	if err != nil {
		s.log.Warn(ctx, "chat request failed", "error", err)
		s.AddMessage(s.tr.T(i18n.ChatConnectionTrouble), models.SenderBot)
		return fmt.Errorf("send chat: %w", err)
	}

	if resp != nil && resp.Success && resp.Message != "" {
		s.AddMessage(resp.Message, models.SenderBot)
	} else {
		s.AddMessage(s.tr.T(i18n.ChatUnusualResponse), models.SenderBot)
	}
	return nil
}

func (s *chatService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Close detaches the service from the session manager.
func (s *chatService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
