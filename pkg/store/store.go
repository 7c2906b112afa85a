package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInsufficientTokens is returned when a debit would take the balance
	// below zero. The balance stays untouched in that case.
	ErrInsufficientTokens = errors.New("insufficient tokens")
)

type User struct {
	ID string

	Username string

	Tokens int
	Admin  bool
}

// Account is a seed record, usually from the config file. Password is plain
// text in the seed and hashed before storage.
type Account struct {
	Username string
	Password string

	Tokens int
	Admin  bool
}

type Session struct {
	ID string

	Username string

	Expiry time.Time
}

type Provider interface {
	Seed(ctx context.Context, accounts []Account) error

	Authenticate(ctx context.Context, username, password string) (*User, error)

	User(ctx context.Context, username string) (*User, error)
	Users(ctx context.Context) ([]User, error)

	SetTokens(ctx context.Context, username string, tokens int) error
	DebitTokens(ctx context.Context, username string, amount int) (int, error)

	CreateSession(ctx context.Context, username string) (*Session, error)
	Session(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
}
