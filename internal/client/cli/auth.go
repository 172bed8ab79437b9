package cli

import (
	"context"
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/dentacare/internal/client/i18n"
	"github.com/dmitrijs2005/dentacare/internal/client/models"
	"github.com/dmitrijs2005/dentacare/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// ErrPasswordMismatch is returned when the repeated password differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// Register prompts for the account details and submits them. The outcome is
// reported by the auth service as a notification; the password is asked
// twice and both copies are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	printlnFn(a.tr.T(i18n.RegisterTitle))

	var req models.RegistrationRequest
	var err error

	if req.FullName, err = getSimpleText(a.reader, "Full name", os.Stdout); err != nil {
		return err
	}
	if req.Email, err = getSimpleText(a.reader, "Email", os.Stdout); err != nil {
		return err
	}
	if req.Phone, err = getSimpleText(a.reader, "Phone (optional)", os.Stdout); err != nil {
		return err
	}

	password, err := getPassword("Password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	repeated, err := getPassword("Repeat password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(repeated)

	if !bytes.Equal(password, repeated) {
		printlnFn(ErrPasswordMismatch.Error())
		return ErrPasswordMismatch
	}
	req.Password = string(password)

	return a.authService.Register(ctx, req)
}

// Login prompts for credentials and signs in. Success and failure are
// reported by the auth service as notifications.
func (a *App) Login(ctx context.Context) error {
	printlnFn(a.tr.T(i18n.LoginTitle))

	email, err := getSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	_, err = a.authService.Login(ctx, models.Credentials{Email: email, Password: string(password)})
	return err
}

// Logout asks for confirmation and ends the session.
func (a *App) Logout(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, a.tr.T(i18n.LogoutConfirmTitle)+" [y/N]", os.Stdout)
	if err != nil {
		return err
	}
	if !IsYes(answer) {
		return nil
	}

	if err := a.authService.Logout(ctx); err != nil {
		printlnFn("Logout finished with errors:", err)
		return err
	}
	printlnFn(a.tr.T(i18n.NavLogout) + ": OK")
	return nil
}

// WhoAmI prints the signed-in user.
func (a *App) WhoAmI(_ context.Context) error {
	u, ok := a.authService.User()
	if !ok {
		printlnFn(a.tr.T(i18n.ChatNotAuthenticated))
		return nil
	}

	printlnFn(fmt.Sprintf("%s <%s>", u.DisplayName(a.tr.T(i18n.UserRoleDefault)), u.Email))
	printlnFn("role:", string(u.Role))
	if u.Phone != "" {
		printlnFn("phone:", u.Phone)
	}
	return nil
}
