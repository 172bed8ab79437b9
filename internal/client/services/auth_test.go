package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/dentacare/internal/client/client"
	"github.com/dmitrijs2005/dentacare/internal/client/models"
	"github.com/dmitrijs2005/dentacare/internal/client/storage"
	"github.com/dmitrijs2005/dentacare/internal/common"
	"github.com/dmitrijs2005/dentacare/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

// fakeClient implements client.Client for the service unit tests.
type fakeClient struct {
	mu sync.Mutex

	RegisterErr error
	LoginRet    *models.LoginResponse
	LoginErr    error
	MeRet       *models.User
	MeErr       error
	ChatRet     *models.ChatResponse
	ChatErr     error
	CloseErr    error

	// MeGate, when set, blocks Me until it is closed.
	MeGate chan struct{}

	meCalls      atomic.Int32
	LastRegister models.RegistrationRequest
	LastLogin    models.Credentials
	LastMeToken  string
	LastChat     string
	LastChatTok  string
}

func (f *fakeClient) Register(_ context.Context, req models.RegistrationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastRegister = req
	return f.RegisterErr
}

func (f *fakeClient) Login(_ context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastLogin = creds
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Me(_ context.Context, token string) (*models.User, error) {
	f.meCalls.Add(1)
	if f.MeGate != nil {
		<-f.MeGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastMeToken = token
	if f.MeErr != nil {
		return nil, f.MeErr
	}
	u := *f.MeRet
	return &u, nil
}

func (f *fakeClient) SendChat(_ context.Context, token, message string) (*models.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastChatTok = token
	f.LastChat = message
	return f.ChatRet, f.ChatErr
}

func (f *fakeClient) Close() error { return f.CloseErr }

type note struct {
	typ     models.NotificationType
	title   string
	message string
}

// recordingNotifier keeps every toast it is asked to show.
type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recordingNotifier) add(typ models.NotificationType, title, message string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{typ, title, message})
	return "n"
}

func (r *recordingNotifier) Success(title, message string, _ time.Duration) string {
	return r.add(models.NotificationSuccess, title, message)
}

func (r *recordingNotifier) Error(title, message string, _ time.Duration) string {
	return r.add(models.NotificationError, title, message)
}

func (r *recordingNotifier) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

// failingStorage wraps a storage and fails the selected operations.
type failingStorage struct {
	storage.SessionStorage
	SetErr   error
	ClearErr error
	GetErr   error
}

func (f *failingStorage) Get(ctx context.Context) (string, error) {
	if f.GetErr != nil {
		return "", f.GetErr
	}
	return f.SessionStorage.Get(ctx)
}

func (f *failingStorage) Set(ctx context.Context, token string) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	return f.SessionStorage.Set(ctx, token)
}

func (f *failingStorage) Clear(ctx context.Context) error {
	if err := f.SessionStorage.Clear(ctx); err != nil {
		return err
	}
	return f.ClearErr
}

// ---- helpers ----

var alice = models.User{ID: "1", FullName: "Alice", Email: "a@x.io", Role: models.RolePatient}

func newAuth(t *testing.T, fc *fakeClient, st storage.SessionStorage, opts ...AuthOption) (AuthService, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	svc := NewAuthService(context.Background(), fc, st, n, logging.NewNopLogger(), opts...)
	return svc, n
}

func storedToken(t *testing.T, st storage.SessionStorage) string {
	t.Helper()
	tok, err := st.Get(context.Background())
	require.NoError(t, err)
	return tok
}

func withToken(t *testing.T, token string) *storage.MemoryStorage {
	t.Helper()
	st := storage.NewMemoryStorage()
	require.NoError(t, st.Set(context.Background(), token))
	return st
}

// ---- tests ----

func TestNewAuthService_InitialState(t *testing.T) {
	svc, _ := newAuth(t, &fakeClient{}, storage.NewMemoryStorage())
	assert.Equal(t, StateAnonymous, svc.State())

	svc, _ = newAuth(t, &fakeClient{}, withToken(t, "T1"))
	assert.Equal(t, StatePendingValidation, svc.State())
	assert.Equal(t, "T1", svc.Token())
	assert.False(t, svc.IsAuthenticated())
}

func TestNewAuthService_UnreadableTokenIsDiscarded(t *testing.T) {
	mem := withToken(t, "T1")
	st := &failingStorage{SessionStorage: mem, GetErr: errors.New("cannot decrypt")}

	svc, _ := newAuth(t, &fakeClient{}, st)

	assert.Equal(t, StateAnonymous, svc.State())
	assert.Equal(t, "", storedToken(t, mem))
}

func TestLogin_Success(t *testing.T) {
	fc := &fakeClient{LoginRet: &models.LoginResponse{Token: "T1", User: &alice}}
	st := storage.NewMemoryStorage()
	svc, n := newAuth(t, fc, st)

	u, err := svc.Login(context.Background(), models.Credentials{Email: "a@x.io", Password: "pw"})
	require.NoError(t, err)

	if diff := cmp.Diff(alice, *u); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, models.Credentials{Email: "a@x.io", Password: "pw"}, fc.LastLogin)
	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, "T1", storedToken(t, st))

	role, ok := svc.UserRole()
	require.True(t, ok)
	assert.Equal(t, models.RolePatient, role)

	notes := n.all()
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationSuccess, notes[0].typ)
	assert.Contains(t, notes[0].message, "Alice")
}

func TestLogin_ReturnedUserIsACopy(t *testing.T) {
	fc := &fakeClient{LoginRet: &models.LoginResponse{Token: "T1", User: &models.User{ID: "1", FullName: "Alice"}}}
	svc, _ := newAuth(t, fc, storage.NewMemoryStorage())

	u, err := svc.Login(context.Background(), models.Credentials{})
	require.NoError(t, err)
	u.FullName = "Mallory"

	got, ok := svc.User()
	require.True(t, ok)
	assert.Equal(t, "Alice", got.FullName)
}

func TestLogin_WelcomeFallsBackToUserLabel(t *testing.T) {
	fc := &fakeClient{LoginRet: &models.LoginResponse{Token: "T1", User: &models.User{ID: "1"}}}
	svc, n := newAuth(t, fc, storage.NewMemoryStorage())

	_, err := svc.Login(context.Background(), models.Credentials{})
	require.NoError(t, err)

	notes := n.all()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].message, "User")
}

func TestLogin_Rejected(t *testing.T) {
	fc := &fakeClient{LoginErr: client.ErrAuthentication}
	st := storage.NewMemoryStorage()
	svc, n := newAuth(t, fc, st)

	_, err := svc.Login(context.Background(), models.Credentials{Email: "a@x.io", Password: "bad"})
	require.ErrorIs(t, err, client.ErrAuthentication)

	assert.Equal(t, StateAnonymous, svc.State())
	assert.Equal(t, "", storedToken(t, st))

	notes := n.all()
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationError, notes[0].typ)
}

func TestLogin_ResponseWithoutTokenOrUser(t *testing.T) {
	for name, resp := range map[string]*models.LoginResponse{
		"nil":      nil,
		"no token": {User: &alice},
		"no user":  {Token: "T1"},
	} {
		t.Run(name, func(t *testing.T) {
			st := storage.NewMemoryStorage()
			svc, n := newAuth(t, &fakeClient{LoginRet: resp}, st)

			_, err := svc.Login(context.Background(), models.Credentials{})
			require.ErrorIs(t, err, client.ErrInvalidResponse)
			assert.Equal(t, StateAnonymous, svc.State())
			assert.Equal(t, "", storedToken(t, st))
			assert.Len(t, n.all(), 1)
		})
	}
}

func TestLogin_StorageFailureLeavesNoPartialState(t *testing.T) {
	fc := &fakeClient{LoginRet: &models.LoginResponse{Token: "T1", User: &alice}}
	st := &failingStorage{SessionStorage: storage.NewMemoryStorage(), SetErr: errors.New("disk full")}
	svc, _ := newAuth(t, fc, st)

	_, err := svc.Login(context.Background(), models.Credentials{})
	require.Error(t, err)

	assert.Equal(t, StateAnonymous, svc.State())
	_, ok := svc.User()
	assert.False(t, ok)
}

func TestRegister_Success(t *testing.T) {
	fc := &fakeClient{}
	svc, n := newAuth(t, fc, storage.NewMemoryStorage())

	req := models.RegistrationRequest{FullName: "Alice", Email: "a@x.io", Phone: "555", Password: "pw"}
	require.NoError(t, svc.Register(context.Background(), req))

	assert.Equal(t, req, fc.LastRegister)
	assert.Equal(t, StateAnonymous, svc.State())

	notes := n.all()
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationSuccess, notes[0].typ)
}

func TestRegister_ServiceMessageIsShown(t *testing.T) {
	fc := &fakeClient{RegisterErr: &client.APIError{StatusCode: http.StatusBadRequest, Message: "email taken"}}
	svc, n := newAuth(t, fc, storage.NewMemoryStorage())

	err := svc.Register(context.Background(), models.RegistrationRequest{Email: "a@x.io"})
	require.Error(t, err)

	notes := n.all()
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationError, notes[0].typ)
	assert.Contains(t, notes[0].message, "email taken")
}

func TestRegister_GenericMessageWithoutServiceText(t *testing.T) {
	fc := &fakeClient{RegisterErr: client.ErrNetwork}
	svc, n := newAuth(t, fc, storage.NewMemoryStorage())

	require.ErrorIs(t, svc.Register(context.Background(), models.RegistrationRequest{}), client.ErrNetwork)

	notes := n.all()
	require.Len(t, notes, 1)
	assert.Equal(t, "Registration failed. Please try again.", notes[0].message)
}

func TestLogout_ClearsEverythingAndIsIdempotent(t *testing.T) {
	fc := &fakeClient{LoginRet: &models.LoginResponse{Token: "T1", User: &alice}}
	st := storage.NewMemoryStorage()
	svc, _ := newAuth(t, fc, st)

	var ended atomic.Int32
	svc.OnSessionEnded(func(context.Context) error {
		ended.Add(1)
		return nil
	})

	_, err := svc.Login(context.Background(), models.Credentials{})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background()))
	assert.Equal(t, StateAnonymous, svc.State())
	assert.Equal(t, "", svc.Token())
	assert.Equal(t, "", storedToken(t, st))

	require.NoError(t, svc.Logout(context.Background()))
	assert.Equal(t, StateAnonymous, svc.State())
	assert.Equal(t, int32(2), ended.Load())
}

func TestLogout_ReportsFailuresButStillClears(t *testing.T) {
	fc := &fakeClient{LoginRet: &models.LoginResponse{Token: "T1", User: &alice}}
	st := &failingStorage{SessionStorage: storage.NewMemoryStorage(), ClearErr: errors.New("io")}
	svc, _ := newAuth(t, fc, st)

	subErr := errors.New("subscriber failed")
	svc.OnSessionEnded(func(context.Context) error { return subErr })
	svc.OnSessionEnded(func(context.Context) error { panic("boom") })

	_, err := svc.Login(context.Background(), models.Credentials{})
	require.NoError(t, err)

	err = svc.Logout(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, subErr)
	assert.Contains(t, err.Error(), "io")
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, StateAnonymous, svc.State())
}

func TestOnSessionEnded_Unsubscribe(t *testing.T) {
	svc, _ := newAuth(t, &fakeClient{}, storage.NewMemoryStorage())

	var calls int
	unsubscribe := svc.OnSessionEnded(func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, svc.Logout(context.Background()))
	unsubscribe()
	require.NoError(t, svc.Logout(context.Background()))

	assert.Equal(t, 1, calls)
}

func TestInitializeAuth_NoTokenMakesNoRequest(t *testing.T) {
	fc := &fakeClient{MeRet: &alice}
	svc, _ := newAuth(t, fc, storage.NewMemoryStorage())

	assert.Equal(t, StateAnonymous, svc.InitializeAuth(context.Background()))
	assert.Equal(t, int32(0), fc.meCalls.Load())
}

func TestInitializeAuth_RestoresSession(t *testing.T) {
	fc := &fakeClient{MeRet: &alice}
	svc, _ := newAuth(t, fc, withToken(t, "T1"))

	assert.Equal(t, StateAuthenticated, svc.InitializeAuth(context.Background()))
	assert.Equal(t, "T1", fc.LastMeToken)

	u, ok := svc.User()
	require.True(t, ok)
	assert.Equal(t, alice, *u)

	// user already present: no second request
	svc.InitializeAuth(context.Background())
	assert.Equal(t, int32(1), fc.meCalls.Load())
}

func TestInitializeAuth_FailureLogsOut(t *testing.T) {
	for name, meErr := range map[string]error{
		"expired": client.ErrSessionExpired,
		"network": client.ErrNetwork,
		"server":  client.ErrServer,
	} {
		t.Run(name, func(t *testing.T) {
			fc := &fakeClient{MeErr: meErr}
			st := withToken(t, "T1")
			svc, _ := newAuth(t, fc, st)

			var ended bool
			svc.OnSessionEnded(func(context.Context) error {
				ended = true
				return nil
			})

			assert.Equal(t, StateAnonymous, svc.InitializeAuth(context.Background()))
			assert.Equal(t, "", svc.Token())
			assert.Equal(t, "", storedToken(t, st))
			assert.True(t, ended)
		})
	}
}

func TestInitializeAuth_ConcurrentCallsShareOneRequest(t *testing.T) {
	fc := &fakeClient{MeRet: &alice, MeGate: make(chan struct{})}
	svc, _ := newAuth(t, fc, withToken(t, "T1"))

	const callers = 8
	var wg sync.WaitGroup
	states := make([]State, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			states[i] = svc.InitializeAuth(context.Background())
		}()
	}

	require.Eventually(t, func() bool { return fc.meCalls.Load() == 1 }, time.Second, time.Millisecond)
	close(fc.MeGate)
	wg.Wait()

	assert.Equal(t, int32(1), fc.meCalls.Load())
	for _, s := range states {
		assert.Equal(t, StateAuthenticated, s)
	}
}

func TestInitializeAuth_StaleResultIsDiscardedAfterLogout(t *testing.T) {
	fc := &fakeClient{MeRet: &alice, MeGate: make(chan struct{})}
	st := withToken(t, "T1")
	svc, _ := newAuth(t, fc, st)

	done := make(chan State)
	go func() { done <- svc.InitializeAuth(context.Background()) }()

	require.Eventually(t, func() bool { return fc.meCalls.Load() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, svc.Logout(context.Background()))
	close(fc.MeGate)

	assert.Equal(t, StateAnonymous, <-done)
	_, ok := svc.User()
	assert.False(t, ok)
}

func TestInitializeAuth_StaleFailureDoesNotEndNewSession(t *testing.T) {
	fc := &fakeClient{
		MeErr:    client.ErrSessionExpired,
		MeGate:   make(chan struct{}),
		LoginRet: &models.LoginResponse{Token: "T2", User: &alice},
	}
	st := withToken(t, "T1")
	svc, _ := newAuth(t, fc, st)

	done := make(chan State)
	go func() { done <- svc.InitializeAuth(context.Background()) }()

	require.Eventually(t, func() bool { return fc.meCalls.Load() == 1 }, time.Second, time.Millisecond)
	_, err := svc.Login(context.Background(), models.Credentials{})
	require.NoError(t, err)
	close(fc.MeGate)

	assert.Equal(t, StateAuthenticated, <-done)
	assert.Equal(t, "T2", svc.Token())
	assert.Equal(t, "T2", storedToken(t, st))
}

func TestInitializeAuth_ExpiredJWTSkipsRequest(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	fc := &fakeClient{MeRet: &alice}
	st := withToken(t, tok)
	svc, _ := newAuth(t, fc, st, WithNow(func() time.Time { return now }))

	assert.Equal(t, StateAnonymous, svc.InitializeAuth(context.Background()))
	assert.Equal(t, int32(0), fc.meCalls.Load())
	assert.Equal(t, "", storedToken(t, st))
}

func TestRefresh(t *testing.T) {
	fc := &fakeClient{LoginRet: &models.LoginResponse{Token: "T1", User: &alice}}
	svc, n := newAuth(t, fc, storage.NewMemoryStorage())

	require.ErrorIs(t, svc.Refresh(context.Background()), ErrNotAuthenticated)

	_, err := svc.Login(context.Background(), models.Credentials{})
	require.NoError(t, err)

	renamed := alice
	renamed.FullName = "Alice B."
	fc.MeRet = &renamed
	require.NoError(t, svc.Refresh(context.Background()))
	u, _ := svc.User()
	assert.Equal(t, "Alice B.", u.FullName)

	fc.MeErr = client.ErrNetwork
	require.ErrorIs(t, svc.Refresh(context.Background()), client.ErrNetwork)
	assert.True(t, svc.IsAuthenticated(), "network failures keep the session")

	fc.MeErr = client.ErrSessionExpired
	require.ErrorIs(t, svc.Refresh(context.Background()), client.ErrSessionExpired)
	assert.Equal(t, StateAnonymous, svc.State())

	notes := n.all()
	assert.Equal(t, models.NotificationError, notes[len(notes)-1].typ)
}

func TestClose(t *testing.T) {
	fc := &fakeClient{CloseErr: errors.New("close failed")}
	svc, _ := newAuth(t, fc, withToken(t, "T1"))

	err := svc.Close(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")

	require.NoError(t, svc.Close(context.Background()))

	_, err = svc.Login(context.Background(), models.Credentials{})
	require.ErrorIs(t, err, common.ErrClosed)
	require.ErrorIs(t, svc.Register(context.Background(), models.RegistrationRequest{}), common.ErrClosed)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "anonymous", StateAnonymous.String())
	assert.Equal(t, "pending_validation", StatePendingValidation.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "State(9)", State(9).String())
}
