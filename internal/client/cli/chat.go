package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/dentacare/internal/client/models"
)

var getMultiline = GetMultiline

// Chat sends text to the assistant and prints its reply. Without text the
// message is read with a multi-line prompt.
func (a *App) Chat(ctx context.Context, text string) error {
	if text == "" {
		var err error
		text, err = getMultiline(a.reader, "Ask the assistant", os.Stdout)
		if err != nil {
			return err
		}
	}

	err := a.chatService.SendMessage(ctx, text)

	msgs := a.chatService.Messages()
	if n := len(msgs); n > 0 && msgs[n-1].Sender == models.SenderBot {
		printMessage(msgs[n-1])
	}
	if err != nil {
		a.log.Debug(ctx, "chat message failed", "error", err)
	}
	return err
}

// History prints the conversation so far.
func (a *App) History(_ context.Context) error {
	msgs := a.chatService.Messages()
	if len(msgs) == 0 {
		printlnFn("No messages yet.")
		return nil
	}
	for _, m := range msgs {
		printMessage(m)
	}
	return nil
}

// Notifications prints the toasts that have not been dismissed yet.
func (a *App) Notifications(_ context.Context) error {
	list := a.notifications.List()
	if len(list) == 0 {
		printlnFn("No notifications.")
		return nil
	}
	for _, n := range list {
		printNotification(n)
	}
	return nil
}

func printMessage(m models.ChatMessage) {
	printlnFn(fmt.Sprintf("%s %s: %s", m.Timestamp.Format(time.Kitchen), m.Sender, m.Text))
}
