// Package auth implements the credential store: registration and
// password verification over the persisted user table.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"spendbook/internal/core"
	"spendbook/internal/log"
	"spendbook/internal/storage"
)

// UserStore is the persistence surface the credential store needs.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (core.User, error)
}

type CredentialStore struct {
	store  UserStore
	logger *log.Logger
}

func NewCredentialStore(store UserStore, logger *log.Logger) *CredentialStore {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &CredentialStore{
		store:  store,
		logger: logger.WithComponent(log.ComponentAuth),
	}
}

// Register creates a new account and returns its id. The password is
// bcrypt-hashed before anything touches storage; the raw value is
// neither persisted nor logged.
func (c *CredentialStore) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, fmt.Errorf("%w: empty username", core.ErrInvalidInput)
	}
	if password == "" {
		return 0, fmt.Errorf("%w: empty password", core.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := c.store.CreateUser(ctx, username, string(hash))
	if err != nil {
		return 0, err
	}

	c.logger.InfoContext(ctx, "Registered user",
		log.FieldOperation, log.OpRegister,
		log.FieldUserID, id,
		log.FieldUsername, username)

	return id, nil
}

// Authenticate verifies a username/password pair and returns the user
// id. Unknown usernames and wrong passwords produce the same
// core.ErrInvalidCredentials so the failure does not reveal which
// check tripped.
func (c *CredentialStore) Authenticate(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)

	u, err := c.store.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrUserNotFound) {
		return 0, core.ErrInvalidCredentials
	}
	if err != nil {
		return 0, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return 0, core.ErrInvalidCredentials
	}

	c.logger.InfoContext(ctx, "Authenticated user",
		log.FieldOperation, log.OpAuthenticate,
		log.FieldUserID, u.ID,
		log.FieldUsername, username)

	return u.ID, nil
}
