package csv

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendbook/internal/core"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSV(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.csv")
	expenses := []core.Expense{
		{ID: 1, Name: "Coffee", Cost: core.Money{Cents: 350}, Date: core.NewDate(2024, 3, 1), Description: "with, comma"},
	}

	err := New().Write(context.Background(), dest, expenses)
	require.NoError(t, err)

	rows := readAll(t, dest)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ID", "Name", "Cost", "Date", "Description"}, rows[0])
	assert.Equal(t, []string{"1", "Coffee", "$3.50", "March 1, 2024", "with, comma"}, rows[1])
}

func TestWriteCSVEmptyListing(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "empty.csv")

	err := New().Write(context.Background(), dest, nil)
	require.NoError(t, err)

	rows := readAll(t, dest)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"ID", "Name", "Cost", "Date", "Description"}, rows[0])
}

func TestWriteCSVBadDestination(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing", "dir", "out.csv")

	err := New().Write(context.Background(), dest, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExport)
}
