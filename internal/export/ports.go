// Package export defines the outbound port for writing a user's
// expenses to a tabular file, with format adapters in subpackages.
package export

import (
	"context"
	"strconv"

	"spendbook/internal/core"
)

// Writer renders a full expense listing to the destination path.
// Implementations are read-only with respect to the repository; write
// failures carry core.ErrExport.
type Writer interface {
	Write(ctx context.Context, dest string, expenses []core.Expense) error
}

// Header is the fixed first row of every export.
var Header = []string{"ID", "Name", "Cost", "Date", "Description"}

// Row renders one expense for a spreadsheet audience: currency-prefixed
// cost and a long-form date.
func Row(e core.Expense) []string {
	return []string{
		strconv.FormatInt(e.ID, 10),
		e.Name,
		e.Cost.Display(),
		e.Date.Long(),
		e.Description,
	}
}
