// Package services holds the client-side stateful services: the session
// manager, the notification store and the chat assistant state.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/dentacare/internal/client/auth"
	"github.com/dmitrijs2005/dentacare/internal/client/client"
	"github.com/dmitrijs2005/dentacare/internal/client/i18n"
	"github.com/dmitrijs2005/dentacare/internal/client/models"
	"github.com/dmitrijs2005/dentacare/internal/client/storage"
	"github.com/dmitrijs2005/dentacare/internal/common"
	"github.com/dmitrijs2005/dentacare/internal/logging"
	"golang.org/x/sync/singleflight"
)

// ErrNotAuthenticated is returned by operations that need a session when
// there is none.
var ErrNotAuthenticated = errors.New("not authenticated")

// State is the session state derived from the token and user fields.
type State int

const (
	// StateAnonymous: no token, no user.
	StateAnonymous State = iota
	// StatePendingValidation: a token is held but the user is not known yet.
	StatePendingValidation
	// StateAuthenticated: token and user are both present.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StatePendingValidation:
		return "pending_validation"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SessionEndedFunc is called after a session has been torn down.
type SessionEndedFunc func(ctx context.Context) error

// AuthService is the session manager. It owns the user identity and the
// bearer token and keeps the persisted token cell in sync with them.
//
// Contract:
//   - A session is authenticated only when both token and user are present.
//   - Login writes the token to storage before publishing token and user.
//   - Logout and every failed validation remove the persisted token and
//     clear both fields, then notify OnSessionEnded subscribers.
//   - InitializeAuth never returns an error; failures end the session.
type AuthService interface {
	Register(ctx context.Context, req models.RegistrationRequest) error
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
	Logout(ctx context.Context) error
	InitializeAuth(ctx context.Context) State
	Refresh(ctx context.Context) error

	IsAuthenticated() bool
	UserRole() (models.Role, bool)
	User() (*models.User, bool)
	Token() string
	State() State

	OnSessionEnded(fn SessionEndedFunc) (unsubscribe func())
	Close(ctx context.Context) error
}

// AuthOption configures NewAuthService.
type AuthOption func(*authService)

// WithTranslator sets the catalog used for notification texts.
func WithTranslator(t *i18n.Translator) AuthOption {
	return func(a *authService) { a.tr = t }
}

// WithNotificationDuration sets how long auth toasts stay visible.
func WithNotificationDuration(d time.Duration) AuthOption {
	return func(a *authService) { a.notifyFor = d }
}

// WithNow overrides the clock used for the token expiry pre-check.
func WithNow(now func() time.Time) AuthOption {
	return func(a *authService) { a.now = now }
}

type authService struct {
	client   client.Client
	storage  storage.SessionStorage
	notifier Notifier
	log      logging.Logger
	tr       *i18n.Translator

	notifyFor time.Duration
	now       func() time.Time

	// writeMu serialises the commit phase of login, logout and
	// validation so storage and fields always move together.
	writeMu sync.Mutex

	mu     sync.RWMutex
	token  string
	user   *models.User
	gen    uint64
	closed bool

	inflight singleflight.Group

	subsMu  sync.Mutex
	subs    map[int]SessionEndedFunc
	nextSub int
}

// NewAuthService builds the session manager and loads any persisted token.
// A token that cannot be read is removed, so the service starts anonymous.
func NewAuthService(ctx context.Context, c client.Client, st storage.SessionStorage, n Notifier, log logging.Logger, opts ...AuthOption) AuthService {
	a := &authService{
		client:   c,
		storage:  st,
		notifier: n,
		log:      log.With("component", "auth"),
		tr:       i18n.New("en"),
		now:      time.Now,
		subs:     make(map[int]SessionEndedFunc),
	}
	for _, o := range opts {
		o(a)
	}

	token, err := st.Get(ctx)
	if err != nil {
		a.log.Warn(ctx, "stored token unreadable, discarding", "error", err)
		if cerr := st.Clear(ctx); cerr != nil {
			a.log.Error(ctx, "failed to clear stored token", "error", cerr)
		}
		token = ""
	}
	a.token = token

	return a
}

func (a *authService) isClosed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.closed
}

func (a *authService) Register(ctx context.Context, req models.RegistrationRequest) error {
	if a.isClosed() {
		return common.ErrClosed
	}

	if err := a.client.Register(ctx, req); err != nil {
		a.notifyFailure(err, i18n.RegisterError)
		a.log.Info(ctx, "registration failed", "email", req.Email, "error", err)
		return fmt.Errorf("register: %w", err)
	}

	a.notifier.Success(a.tr.T(i18n.CommonSuccess), a.tr.T(i18n.RegisterSuccess), a.notifyFor)
	a.log.Info(ctx, "registration succeeded", "email", req.Email)
	return nil
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	if a.isClosed() {
		return nil, common.ErrClosed
	}

	resp, err := a.client.Login(ctx, creds)
	if err == nil && (resp == nil || resp.Token == "" || resp.User == nil) {
		err = fmt.Errorf("%w: login response without token or user", client.ErrInvalidResponse)
	}
	if err != nil {
		a.notifyFailure(err, i18n.LoginError)
		a.log.Info(ctx, "login failed", "email", creds.Email, "error", err)
		return nil, fmt.Errorf("login: %w", err)
	}

	user := *resp.User

	a.writeMu.Lock()
	if err := a.storage.Set(ctx, resp.Token); err != nil {
		a.writeMu.Unlock()
		a.notifyFailure(err, i18n.LoginError)
		a.log.Error(ctx, "failed to persist token", "error", err)
		return nil, fmt.Errorf("persist token: %w", err)
	}
	a.mu.Lock()
	a.token = resp.Token
	a.user = &user
	a.gen++
	a.mu.Unlock()
	a.writeMu.Unlock()

	name := user.DisplayName(a.tr.T(i18n.UserRoleDefault))
	a.notifier.Success(a.tr.T(i18n.CommonWelcome), a.tr.T(i18n.DashboardWelcome, map[string]string{"name": name}), a.notifyFor)
	a.log.Info(ctx, "login succeeded", "user_id", user.ID, "role", user.Role)

	out := user
	return &out, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.writeMu.Lock()
	err := a.clearSession(ctx)
	a.writeMu.Unlock()

	a.log.Info(ctx, "logged out")
	return errors.Join(err, a.fireSessionEnded(ctx))
}

// clearSession removes the persisted token and clears both fields even
// when the removal fails. Callers hold writeMu.
func (a *authService) clearSession(ctx context.Context) error {
	var err error
	if cerr := a.storage.Clear(ctx); cerr != nil {
		err = fmt.Errorf("clear stored token: %w", cerr)
	}

	a.mu.Lock()
	a.token = ""
	a.user = nil
	a.gen++
	a.mu.Unlock()

	return err
}

func (a *authService) InitializeAuth(ctx context.Context) State {
	a.mu.RLock()
	token, hasUser, gen, closed := a.token, a.user != nil, a.gen, a.closed
	a.mu.RUnlock()

	if closed || token == "" || hasUser {
		return a.State()
	}

	// Callers share the request, so one caller's cancellation must not
	// fail the others.
	shared := context.WithoutCancel(ctx)
	_, _, _ = a.inflight.Do(token, func() (any, error) {
		a.validate(shared, token, gen)
		return nil, nil
	})

	return a.State()
}

// validate fetches the user for token and applies the outcome unless a
// login or logout happened in the meantime.
func (a *authService) validate(ctx context.Context, token string, gen uint64) {
	a.mu.RLock()
	done := a.gen != gen || a.user != nil
	a.mu.RUnlock()
	if done {
		return
	}

	var (
		user *models.User
		err  error
	)
	if auth.Expired(token, a.now()) {
		err = fmt.Errorf("%w: %w", client.ErrSessionExpired, common.ErrTokenExpired)
	} else {
		user, err = a.client.Me(ctx, token)
		if err == nil && user == nil {
			err = client.ErrInvalidResponse
		}
	}

	a.writeMu.Lock()
	a.mu.Lock()
	if a.gen != gen {
		a.mu.Unlock()
		a.writeMu.Unlock()
		a.log.Debug(ctx, "discarding stale session validation")
		return
	}
	if err == nil {
		u := *user
		a.user = &u
		a.mu.Unlock()
		a.writeMu.Unlock()
		a.log.Info(ctx, "session restored", "user_id", u.ID, "role", u.Role)
		return
	}
	a.mu.Unlock()

	a.log.Warn(ctx, "session validation failed, logging out", "error", err)
	cerr := a.clearSession(ctx)
	a.writeMu.Unlock()

	if lerr := errors.Join(cerr, a.fireSessionEnded(ctx)); lerr != nil {
		a.log.Error(ctx, "cleanup after failed validation", "error", lerr)
	}
}

func (a *authService) Refresh(ctx context.Context) error {
	a.mu.RLock()
	token, hasUser, gen := a.token, a.user != nil, a.gen
	a.mu.RUnlock()

	if token == "" {
		return ErrNotAuthenticated
	}
	if !hasUser {
		if a.InitializeAuth(ctx) != StateAuthenticated {
			return fmt.Errorf("refresh: %w", client.ErrSessionExpired)
		}
		return nil
	}

	user, err := a.client.Me(ctx, token)
	if err == nil && user == nil {
		err = client.ErrInvalidResponse
	}
	if err != nil {
		if !errors.Is(err, client.ErrSessionExpired) {
			a.log.Warn(ctx, "session refresh failed, keeping session", "error", err)
			return fmt.Errorf("refresh: %w", err)
		}

		a.writeMu.Lock()
		a.mu.RLock()
		current := a.gen == gen
		a.mu.RUnlock()
		var cerr error
		if current {
			cerr = a.clearSession(ctx)
		}
		a.writeMu.Unlock()

		if current {
			a.log.Warn(ctx, "session expired during refresh, logging out")
			a.notifier.Error(a.tr.T(i18n.CommonError), a.tr.T(i18n.SessionExpired), a.notifyFor)
			if lerr := errors.Join(cerr, a.fireSessionEnded(ctx)); lerr != nil {
				a.log.Error(ctx, "cleanup after expired session", "error", lerr)
			}
		}
		return fmt.Errorf("refresh: %w", err)
	}

	a.mu.Lock()
	if a.gen == gen {
		u := *user
		a.user = &u
	}
	a.mu.Unlock()
	return nil
}

func (a *authService) IsAuthenticated() bool {
	return a.State() == StateAuthenticated
}

func (a *authService) UserRole() (models.Role, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.user == nil {
		return "", false
	}
	return a.user.Role, true
}

// User returns a copy of the current identity.
func (a *authService) User() (*models.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.user == nil {
		return nil, false
	}
	u := *a.user
	return &u, true
}

func (a *authService) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *authService) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()

	switch {
	case a.token != "" && a.user != nil:
		return StateAuthenticated
	case a.token != "":
		return StatePendingValidation
	default:
		return StateAnonymous
	}
}

func (a *authService) OnSessionEnded(fn SessionEndedFunc) func() {
	a.subsMu.Lock()
	defer a.subsMu.Unlock()

	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn

	return func() {
		a.subsMu.Lock()
		defer a.subsMu.Unlock()
		delete(a.subs, id)
	}
}

func (a *authService) fireSessionEnded(ctx context.Context) error {
	a.subsMu.Lock()
	fns := make([]SessionEndedFunc, 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.subsMu.Unlock()

	var errs []error
	for _, fn := range fns {
		if err := callSubscriber(ctx, fn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func callSubscriber(ctx context.Context, fn SessionEndedFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session ended subscriber panicked: %v", r)
		}
	}()
	return fn(ctx)
}

// Close drops subscribers and releases the storage and API client. The
// persisted token is kept.
func (a *authService) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	a.subsMu.Lock()
	a.subs = make(map[int]SessionEndedFunc)
	a.subsMu.Unlock()

	var errs []error
	if err := a.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	if err := a.client.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close client: %w", err))
	}
	a.log.Debug(ctx, "auth service closed")
	return errors.Join(errs...)
}

// notifyFailure shows the API's own message when it sent one, otherwise the
// localized fallback.
func (a *authService) notifyFailure(err error, fallbackKey string) {
	msg, ok := client.ServiceMessage(err)
	if !ok {
		msg = a.tr.T(fallbackKey)
	}
	a.notifier.Error(a.tr.T(i18n.CommonError), msg, a.notifyFor)
}
