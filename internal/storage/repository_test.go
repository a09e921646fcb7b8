package storage

import (
	"context"
	"path/filepath"
	"testing"

	"spendbook/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite provides a test suite for database operations
type RepositoryTestSuite struct {
	suite.Suite
	repo  *SQLiteRepository
	ctx   context.Context
	alice int64
	bob   int64
}

// SetupTest runs before each test
func (suite *RepositoryTestSuite) SetupTest() {
	repo, err := NewSQLiteRepository(filepath.Join(suite.T().TempDir(), "test.db"))
	require.NoError(suite.T(), err, "failed to create test database")
	suite.repo = repo
	suite.ctx = context.Background()

	suite.alice, err = repo.CreateUser(suite.ctx, "alice", "hash-a")
	require.NoError(suite.T(), err)
	suite.bob, err = repo.CreateUser(suite.ctx, "bob", "hash-b")
	require.NoError(suite.T(), err)
}

// TearDownTest runs after each test
func (suite *RepositoryTestSuite) TearDownTest() {
	if suite.repo != nil {
		suite.repo.Close()
	}
}

func (suite *RepositoryTestSuite) expense(name, cost, date, desc string) core.Expense {
	m, err := core.ParseAmount(cost)
	require.NoError(suite.T(), err)
	d, err := core.ParseDate(date)
	require.NoError(suite.T(), err)
	return core.Expense{Name: name, Cost: m, Date: d, Description: desc}
}

func (suite *RepositoryTestSuite) TestCreateUserDuplicate() {
	_, err := suite.repo.CreateUser(suite.ctx, "alice", "other-hash")
	assert.ErrorIs(suite.T(), err, core.ErrDuplicateUsername)

	// The original stored hash must be untouched.
	u, err := suite.repo.GetUserByUsername(suite.ctx, "alice")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "hash-a", u.PasswordHash)
}

func (suite *RepositoryTestSuite) TestGetUserByUsernameUnknown() {
	_, err := suite.repo.GetUserByUsername(suite.ctx, "nobody")
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

func (suite *RepositoryTestSuite) TestCreateAndListExpense() {
	id, err := suite.repo.CreateExpense(suite.ctx, suite.alice, suite.expense("Coffee", "3.50", "2024-03-01", ""))
	require.NoError(suite.T(), err)
	assert.Greater(suite.T(), id, int64(0))

	expenses, err := suite.repo.ListExpenses(suite.ctx, suite.alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), expenses, 1)

	e := expenses[0]
	assert.Equal(suite.T(), id, e.ID)
	assert.Equal(suite.T(), suite.alice, e.OwnerID)
	assert.Equal(suite.T(), "Coffee", e.Name)
	assert.Equal(suite.T(), int64(350), e.Cost.Cents)
	assert.Equal(suite.T(), "2024-03-01", e.Date.String())
	assert.Equal(suite.T(), "", e.Description)
}

func (suite *RepositoryTestSuite) TestListExpensesIDOrder() {
	first, err := suite.repo.CreateExpense(suite.ctx, suite.alice, suite.expense("Coffee", "3.50", "2024-03-02", ""))
	require.NoError(suite.T(), err)
	second, err := suite.repo.CreateExpense(suite.ctx, suite.alice, suite.expense("Lunch", "12.00", "2024-03-01", ""))
	require.NoError(suite.T(), err)

	expenses, err := suite.repo.ListExpenses(suite.ctx, suite.alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), expenses, 2)
	assert.Equal(suite.T(), first, expenses[0].ID)
	assert.Equal(suite.T(), second, expenses[1].ID)
}

func (suite *RepositoryTestSuite) TestUpdateExpense() {
	id, err := suite.repo.CreateExpense(suite.ctx, suite.alice, suite.expense("Coffee", "3.50", "2024-03-01", ""))
	require.NoError(suite.T(), err)

	err = suite.repo.UpdateExpense(suite.ctx, suite.alice, id, suite.expense("Coffee", "4.00", "2024-03-01", "refill"))
	require.NoError(suite.T(), err)

	e, err := suite.repo.GetExpense(suite.ctx, suite.alice, id)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(400), e.Cost.Cents)
	assert.Equal(suite.T(), "refill", e.Description)
}

func (suite *RepositoryTestSuite) TestUpdateUnknownExpense() {
	err := suite.repo.UpdateExpense(suite.ctx, suite.alice, 9999, suite.expense("x", "1.00", "2024-03-01", ""))
	assert.ErrorIs(suite.T(), err, core.ErrExpenseNotFound)
}

func (suite *RepositoryTestSuite) TestCrossOwnerUpdateIsNotFound() {
	id, err := suite.repo.CreateExpense(suite.ctx, suite.bob, suite.expense("Rent", "900.00", "2024-03-01", ""))
	require.NoError(suite.T(), err)

	// Alice holds Bob's real id and still must not reach his row.
	err = suite.repo.UpdateExpense(suite.ctx, suite.alice, id, suite.expense("Hijacked", "0.01", "2024-03-01", ""))
	assert.ErrorIs(suite.T(), err, core.ErrExpenseNotFound)

	e, err := suite.repo.GetExpense(suite.ctx, suite.bob, id)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Rent", e.Name)
	assert.Equal(suite.T(), int64(90000), e.Cost.Cents)
}

func (suite *RepositoryTestSuite) TestDeleteExpense() {
	id, err := suite.repo.CreateExpense(suite.ctx, suite.alice, suite.expense("Coffee", "3.50", "2024-03-01", ""))
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.repo.DeleteExpense(suite.ctx, suite.alice, id))

	expenses, err := suite.repo.ListExpenses(suite.ctx, suite.alice)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), expenses)

	// A second delete reports not found instead of failing hard.
	err = suite.repo.DeleteExpense(suite.ctx, suite.alice, id)
	assert.ErrorIs(suite.T(), err, core.ErrExpenseNotFound)
}

func (suite *RepositoryTestSuite) TestCrossOwnerDeleteIsNotFound() {
	id, err := suite.repo.CreateExpense(suite.ctx, suite.bob, suite.expense("Rent", "900.00", "2024-03-01", ""))
	require.NoError(suite.T(), err)

	err = suite.repo.DeleteExpense(suite.ctx, suite.alice, id)
	assert.ErrorIs(suite.T(), err, core.ErrExpenseNotFound)

	_, err = suite.repo.GetExpense(suite.ctx, suite.bob, id)
	assert.NoError(suite.T(), err)
}

func (suite *RepositoryTestSuite) TestOwnerIsolation() {
	_, err := suite.repo.CreateExpense(suite.ctx, suite.alice, suite.expense("Rent", "800.00", "2024-03-01", "alice's"))
	require.NoError(suite.T(), err)
	_, err = suite.repo.CreateExpense(suite.ctx, suite.bob, suite.expense("Rent", "900.00", "2024-03-01", "bob's"))
	require.NoError(suite.T(), err)

	aliceList, err := suite.repo.ListExpenses(suite.ctx, suite.alice)
	require.NoError(suite.T(), err)
	bobList, err := suite.repo.ListExpenses(suite.ctx, suite.bob)
	require.NoError(suite.T(), err)

	require.Len(suite.T(), aliceList, 1)
	require.Len(suite.T(), bobList, 1)
	assert.Equal(suite.T(), "alice's", aliceList[0].Description)
	assert.Equal(suite.T(), "bob's", bobList[0].Description)
	assert.NotEqual(suite.T(), aliceList[0].ID, bobList[0].ID)
}

func (suite *RepositoryTestSuite) TestZeroCostExpense() {
	id, err := suite.repo.CreateExpense(suite.ctx, suite.alice, suite.expense("Freebie", "0", "2024-03-01", ""))
	require.NoError(suite.T(), err)

	e, err := suite.repo.GetExpense(suite.ctx, suite.alice, id)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), e.Cost.Cents)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
