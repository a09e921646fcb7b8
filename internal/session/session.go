// Package session holds the identity of the currently authenticated
// user and exposes the expense operations pre-bound to it. While no
// user is bound every expense operation fails with
// core.ErrNoActiveSession; collaborators are expected to keep that
// path unreachable.
package session

import (
	"context"

	"spendbook/internal/core"
	"spendbook/internal/export"
	"spendbook/internal/log"
)

// Authenticator is the credential store surface the coordinator needs.
type Authenticator interface {
	Register(ctx context.Context, username, password string) (int64, error)
	Authenticate(ctx context.Context, username, password string) (int64, error)
}

// ExpenseStore is the repository surface, always owner-scoped.
type ExpenseStore interface {
	ListExpenses(ctx context.Context, ownerID int64) ([]core.Expense, error)
	CreateExpense(ctx context.Context, ownerID int64, e core.Expense) (int64, error)
	UpdateExpense(ctx context.Context, ownerID, id int64, e core.Expense) error
	DeleteExpense(ctx context.Context, ownerID, id int64) error
}

// Coordinator is a two-state machine: unauthenticated, or bound to one
// user id. Exactly one session is active per process.
type Coordinator struct {
	creds  Authenticator
	store  ExpenseStore
	logger *log.Logger

	userID int64
	active bool
}

func NewCoordinator(creds Authenticator, store ExpenseStore, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Coordinator{
		creds:  creds,
		store:  store,
		logger: logger.WithComponent(log.ComponentSession),
	}
}

// Register creates a new account. Reachable without a session, like
// the registration form it replaces.
func (c *Coordinator) Register(ctx context.Context, username, password string) (int64, error) {
	return c.creds.Register(ctx, username, password)
}

// Login authenticates and binds the session to the user on success.
func (c *Coordinator) Login(ctx context.Context, username, password string) error {
	id, err := c.creds.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}

	c.userID = id
	c.active = true

	c.logger.InfoContext(ctx, "Session started", log.FieldUserID, id)
	return nil
}

// Logout returns to the unauthenticated state, discarding all
// session-bound state. Safe to call in any state.
func (c *Coordinator) Logout() {
	if c.active {
		c.logger.Info("Session ended",
			log.FieldOperation, log.OpLogout,
			log.FieldUserID, c.userID)
	}
	c.userID = 0
	c.active = false
}

// Active reports whether a user is bound.
func (c *Coordinator) Active() bool {
	return c.active
}

// UserID returns the bound user id; ok is false while unauthenticated.
func (c *Coordinator) UserID() (id int64, ok bool) {
	return c.userID, c.active
}

// List returns all expenses owned by the session user.
func (c *Coordinator) List(ctx context.Context) ([]core.Expense, error) {
	if !c.active {
		return nil, core.ErrNoActiveSession
	}
	return c.store.ListExpenses(ctx, c.userID)
}

// Create validates the raw field values, persists a new expense owned
// by the session user, and returns its id. Validation happens before
// any write is attempted.
func (c *Coordinator) Create(ctx context.Context, name, cost, date, description string) (int64, error) {
	if !c.active {
		return 0, core.ErrNoActiveSession
	}

	e, err := buildExpense(name, cost, date, description)
	if err != nil {
		return 0, err
	}

	return c.store.CreateExpense(ctx, c.userID, e)
}

// Update rewrites the mutable fields of the identified expense. The id
// is an explicit parameter; there is no implicit "selected row".
func (c *Coordinator) Update(ctx context.Context, id int64, name, cost, date, description string) error {
	if !c.active {
		return core.ErrNoActiveSession
	}

	e, err := buildExpense(name, cost, date, description)
	if err != nil {
		return err
	}

	return c.store.UpdateExpense(ctx, c.userID, id, e)
}

// Delete removes the identified expense. Any confirmation prompt is
// the collaborator's responsibility; once called the delete is
// unconditional.
func (c *Coordinator) Delete(ctx context.Context, id int64) error {
	if !c.active {
		return core.ErrNoActiveSession
	}
	return c.store.DeleteExpense(ctx, c.userID, id)
}

// Export writes the session user's full listing through the given
// export writer. Read-only with respect to the repository.
func (c *Coordinator) Export(ctx context.Context, w export.Writer, dest string) error {
	if !c.active {
		return core.ErrNoActiveSession
	}

	expenses, err := c.store.ListExpenses(ctx, c.userID)
	if err != nil {
		return err
	}

	if err := w.Write(ctx, dest, expenses); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "Export completed",
		log.FieldOperation, log.OpExport,
		log.FieldUserID, c.userID,
		log.FieldDest, dest,
		log.FieldRows, len(expenses))

	return nil
}

func buildExpense(name, cost, date, description string) (core.Expense, error) {
	m, err := core.ParseAmount(cost)
	if err != nil {
		return core.Expense{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		Name:        name,
		Cost:        m,
		Date:        d,
		Description: description,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}
