package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/dentacare/internal/client/guard"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	authorize(ctx context.Context, path string) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Chat(ctx context.Context, text string) error
	History(ctx context.Context) error
	Notifications(ctx context.Context) error
}

// commandPaths maps commands to the screens they stand for. Commands not
// listed here are not guarded.
var commandPaths = map[string]string{
	"register": guard.RegisterPath,
	"login":    guard.LoginPath,
	"whoami":   "/dashboard",
	"chat":     "/chat",
	"history":  "/chat",
}

// runREPL starts a simple read–eval–print loop for the DentaCare CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, asks the route guard about the command's path and dispatches to
// methods on 'a'. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands
//
//	Not logged in:
//	  - help           : show available commands
//	  - register       : create an account
//	  - login          : sign in
//	  - notifications  : show active notifications
//	  - exit | quit    : leave the program
//
//	Logged in:
//	  - help           : show available commands
//	  - whoami         : show the signed-in user
//	  - chat [text]    : ask the assistant (multi-line prompt without text)
//	  - history        : show the chat conversation
//	  - notifications  : show active notifications
//	  - logout         : sign out
//	  - exit | quit    : leave the program
//
// Errors returned by command handlers are ignored here; the services report
// failures through notifications and handlers print their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("dc %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		if path, guarded := commandPaths[cmd]; guarded && !a.authorize(ctx, path) {
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, chat [text], history, notifications, logout, exit")
			} else {
				printlnFn("Available commands: register, login, notifications, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "chat":
			_ = a.Chat(ctx, strings.Join(args, " "))

		case "history":
			_ = a.History(ctx)

		case "notifications":
			_ = a.Notifications(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
