package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// User is an account holder. The password itself is never stored;
	// PasswordHash carries the bcrypt digest.
	User struct {
		ID           int64
		Username     string
		PasswordHash string
	}

	// Date is a calendar day. The canonical stored form is YYYY-MM-DD
	// so that lexicographic and chronological order agree.
	Date struct {
		time.Time
	}

	// Expense is a single dated spending record. ID and OwnerID are
	// assigned at creation and never change afterwards.
	Expense struct {
		ID          int64
		OwnerID     int64
		Name        string
		Cost        Money
		Date        Date
		Description string
	}
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrExport             = errors.New("export failed")
	ErrNoActiveSession    = errors.New("no active session")

	ErrEmptyName     = fmt.Errorf("%w: empty expense name", ErrInvalidInput)
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrInvalidDate   = fmt.Errorf("%w: invalid date", ErrInvalidInput)
)

const dateLayout = "2006-01-02"

// ParseDate parses a canonical YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String returns the canonical stored form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Long returns the human-readable display form, e.g. "March 3, 2024".
// Display only; never persisted.
func (d Date) Long() string {
	return d.Format("January 2, 2006")
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Cost.Validate(); err != nil {
		return err
	}
	// Description is optional free text.
	return nil
}
