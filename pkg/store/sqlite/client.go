package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/adrianliechti/furnish/pkg/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	_ "modernc.org/sqlite"
)

var _ store.Provider = (*Client)(nil)

const sessionTTL = 12 * time.Hour

type Client struct {
	db *sql.DB
}

func New(path string) (*Client, error) {
	if path == "" {
		path = "furnish.db"
	}

	db, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, err
	}

	client := &Client{
		db: db,
	}

	if err := client.migrate(context.Background()); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			tokens_remaining INTEGER NOT NULL DEFAULT 20,
			is_admin INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			expiry TIMESTAMP NOT NULL
		);
	`)

	return err
}

func (c *Client) Seed(ctx context.Context, accounts []store.Account) error {
	for _, account := range accounts {
		var exists int

		err := c.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM users WHERE username = ?", account.Username).Scan(&exists)

		if err != nil {
			return err
		}

		if exists > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)

		if err != nil {
			return err
		}

		tokens := account.Tokens

		if tokens == 0 {
			tokens = 20
		}

		_, err = c.db.ExecContext(ctx,
			"INSERT INTO users (id, username, password_hash, tokens_remaining, is_admin) VALUES (?, ?, ?, ?, ?)",
			uuid.NewString(), account.Username, string(hash), tokens, account.Admin)

		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	var user store.User
	var hash string

	err := c.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, tokens_remaining, is_admin FROM users WHERE username = ?",
		username).Scan(&user.ID, &user.Username, &hash, &user.Tokens, &user.Admin)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrInvalidCredentials
	}

	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, store.ErrInvalidCredentials
	}

	return &user, nil
}

func (c *Client) User(ctx context.Context, username string) (*store.User, error) {
	var user store.User

	err := c.db.QueryRowContext(ctx,
		"SELECT id, username, tokens_remaining, is_admin FROM users WHERE username = ?",
		username).Scan(&user.ID, &user.Username, &user.Tokens, &user.Admin)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) Users(ctx context.Context) ([]store.User, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT id, username, tokens_remaining, is_admin FROM users ORDER BY username")

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var users []store.User

	for rows.Next() {
		var user store.User

		if err := rows.Scan(&user.ID, &user.Username, &user.Tokens, &user.Admin); err != nil {
			return nil, err
		}

		users = append(users, user)
	}

	return users, rows.Err()
}

func (c *Client) SetTokens(ctx context.Context, username string, tokens int) error {
	result, err := c.db.ExecContext(ctx,
		"UPDATE users SET tokens_remaining = ? WHERE username = ?", tokens, username)

	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return err
	}

	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (c *Client) DebitTokens(ctx context.Context, username string, amount int) (int, error) {
	// Conditional update keeps the debit atomic without an explicit
	// transaction.
	result, err := c.db.ExecContext(ctx,
		"UPDATE users SET tokens_remaining = tokens_remaining - ? WHERE username = ? AND tokens_remaining >= ?",
		amount, username, amount)

	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return 0, err
	}

	if affected == 0 {
		user, err := c.User(ctx, username)

		if err != nil {
			return 0, err
		}

		return user.Tokens, store.ErrInsufficientTokens
	}

	user, err := c.User(ctx, username)

	if err != nil {
		return 0, err
	}

	return user.Tokens, nil
}

func (c *Client) CreateSession(ctx context.Context, username string) (*store.Session, error) {
	session := &store.Session{
		ID: uuid.NewString(),

		Username: username,

		Expiry: time.Now().Add(sessionTTL),
	}

	_, err := c.db.ExecContext(ctx,
		"INSERT INTO sessions (id, username, expiry) VALUES (?, ?, ?)",
		session.ID, session.Username, session.Expiry)

	if err != nil {
		return nil, err
	}

	return session, nil
}

func (c *Client) Session(ctx context.Context, id string) (*store.Session, error) {
	var session store.Session

	err := c.db.QueryRowContext(ctx,
		"SELECT id, username, expiry FROM sessions WHERE id = ?",
		id).Scan(&session.ID, &session.Username, &session.Expiry)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	if time.Now().After(session.Expiry) {
		c.DeleteSession(ctx, session.ID)

		return nil, store.ErrNotFound
	}

	return &session, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)

	return err
}
