package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"spendbook/internal/core"

	_ "modernc.org/sqlite"
)

// ErrUserNotFound is internal to the storage layer; the credential
// store maps it to core.ErrInvalidCredentials so callers cannot tell
// an unknown username from a wrong password.
var ErrUserNotFound = errors.New("user not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser persists a new user with an already-hashed password.
// Returns core.ErrDuplicateUsername when the username is taken; the
// existing row is left untouched in that case.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE username = ?", username).Scan(&existing)
	if err == nil {
		return 0, core.ErrDuplicateUsername
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("check username: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", id, "username", username)
	return id, nil
}

// GetUserByUsername retrieves a user record including the stored hash.
func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash FROM users WHERE username = ?",
		username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// CreateExpense persists a validated expense for the given owner and
// returns the assigned id.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, ownerID int64, e core.Expense) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO expenses (owner_id, name, cost_cents, date, description) VALUES (?, ?, ?, ?, ?)",
		ownerID, e.Name, e.Cost.Cents, e.Date.String(), e.Description)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Expense created",
		"expense_id", id,
		"user_id", ownerID,
		"cost_cents", e.Cost.Cents,
		"date", e.Date.String())

	return id, nil
}

// ListExpenses returns all expenses owned by the user in id order.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, ownerID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, owner_id, name, cost_cents, date, description FROM expenses WHERE owner_id = ? ORDER BY id",
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	return expenses, nil
}

// GetExpense retrieves a single expense owned by the user.
func (r *SQLiteRepository) GetExpense(ctx context.Context, ownerID, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, owner_id, name, cost_cents, date, description FROM expenses WHERE id = ? AND owner_id = ?",
		id, ownerID)

	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrExpenseNotFound
	}
	if err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// UpdateExpense rewrites the mutable fields of an expense. A row that
// does not exist for this owner, including another user's id, yields
// core.ErrExpenseNotFound without touching anything.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, ownerID, id int64, e core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE expenses SET name = ?, cost_cents = ?, date = ?, description = ? WHERE id = ? AND owner_id = ?",
		e.Name, e.Cost.Cents, e.Date.String(), e.Description, id, ownerID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrExpenseNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Expense updated", "expense_id", id, "user_id", ownerID)
	return nil
}

// DeleteExpense removes an expense under the same ownership rule as
// UpdateExpense. Deletion is unconditional once called; confirmation
// belongs to the collaborator.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, ownerID, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrExpenseNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted", "expense_id", id, "user_id", ownerID)
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e     core.Expense
		cents int64
		date  string
		desc  sql.NullString
	)
	if err := s.Scan(&e.ID, &e.OwnerID, &e.Name, &cents, &date, &desc); err != nil {
		return core.Expense{}, err
	}

	e.Cost = core.Money{Cents: cents}
	e.Description = desc.String

	d, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	e.Date = d

	return e, nil
}
