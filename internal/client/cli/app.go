package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/dentacare/internal/client/client"
	"github.com/dmitrijs2005/dentacare/internal/client/config"
	"github.com/dmitrijs2005/dentacare/internal/client/guard"
	"github.com/dmitrijs2005/dentacare/internal/client/i18n"
	"github.com/dmitrijs2005/dentacare/internal/client/models"
	"github.com/dmitrijs2005/dentacare/internal/client/services"
	"github.com/dmitrijs2005/dentacare/internal/client/storage"
	"github.com/dmitrijs2005/dentacare/internal/logging"
)

type App struct {
	config        *config.Config
	authService   services.AuthService
	chatService   services.ChatService
	notifications services.NotificationService
	guard         *guard.Guard
	tr            *i18n.Translator
	log           logging.Logger
	reader        *bufio.Reader
}

// NewApp wires storage, the API client and the services from c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	st, err := storage.New(ctx, c.StorageBackend, c.StorageLocation(), c.EncryptionPassphrase)
	if err != nil {
		return nil, fmt.Errorf("error initializing token storage: %w", err)
	}

	apiClient := client.NewHTTPClient(c.APIBaseURL, client.HTTPOptions{
		Timeout:  c.RequestTimeout,
		RetryMax: c.RetryCount,
	})

	tr := i18n.New(c.Locale)
	notes := services.NewNotificationService(c.NotificationDuration)
	as := services.NewAuthService(ctx, apiClient, st, notes, log,
		services.WithTranslator(tr),
		services.WithNotificationDuration(c.NotificationDuration),
	)
	cs := services.NewChatService(apiClient, as, tr, log)

	return &App{
		config:        c,
		authService:   as,
		chatService:   cs,
		notifications: notes,
		guard:         guard.New(as),
		tr:            tr,
		log:           log,
		reader:        bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores any persisted session and blocks in the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	unsubscribe := a.notifications.OnAdd(printNotification)
	defer unsubscribe()

	printlnFn(fmt.Sprintf("%s: %s (type 'help' for commands)", a.tr.T(i18n.CommonAppName), a.tr.T(i18n.CommonAppSubtitle)))

	if a.authService.InitializeAuth(ctx) == services.StateAuthenticated {
		if u, ok := a.authService.User(); ok {
			printlnFn(a.tr.T(i18n.DashboardWelcome, map[string]string{"name": u.DisplayName(a.tr.T(i18n.UserRoleDefault))}))
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartSessionWatcher(watchCtx, a.config.SessionCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) close(ctx context.Context) {
	a.chatService.Close()
	a.notifications.Close()
	if err := a.authService.Close(ctx); err != nil {
		a.log.Error(ctx, "error closing auth service", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsAuthenticated()
}

// authorize asks the route guard whether path may be entered and tells the
// user where to go when it may not.
func (a *App) authorize(ctx context.Context, path string) bool {
	d := a.guard.Check(ctx, path)
	if !d.Allow {
		printlnFn(fmt.Sprintf("%s (%s: login)", a.tr.T(i18n.LoginTitle), d.Redirect))
	}
	return d.Allow
}

// StartSessionWatcher re-validates an authenticated session every interval
// so a token revoked server-side ends the session without user action.
// A non-positive interval disables the watcher.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !a.authService.IsAuthenticated() {
				continue
			}
			checkCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
			err := a.authService.Refresh(checkCtx)
			cancel()

			if err != nil {
				a.log.Debug(ctx, "session check failed", "error", err)
			}

		case <-ctx.Done():
			return
		}
	}
}

func printNotification(n models.Notification) {
	if n.Message == "" {
		printlnFn(fmt.Sprintf("[%s] %s", n.Type, n.Title))
		return
	}
	printlnFn(fmt.Sprintf("[%s] %s: %s", n.Type, n.Title, n.Message))
}
