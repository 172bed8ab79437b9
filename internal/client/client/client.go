package client

import (
	"context"

	"github.com/dmitrijs2005/dentacare/internal/client/models"
)

// Client is the contract of the remote DentaCare API used by the services.
type Client interface {
	Register(ctx context.Context, req models.RegistrationRequest) error
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	Me(ctx context.Context, token string) (*models.User, error)
	SendChat(ctx context.Context, token string, message string) (*models.ChatResponse, error)
	Close() error
}
