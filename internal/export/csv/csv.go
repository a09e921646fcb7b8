// Package csv writes expense exports as comma-separated files for
// tools that cannot read workbooks.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"spendbook/internal/core"
	"spendbook/internal/export"
)

type Exporter struct{}

func New() *Exporter {
	return &Exporter{}
}

// Write renders the same header and rows as the workbook export.
func (c *Exporter) Write(ctx context.Context, dest string, expenses []core.Expense) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", core.ErrExport, dest, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(export.Header); err != nil {
		return fmt.Errorf("%w: write header: %v", core.ErrExport, err)
	}
	for _, e := range expenses {
		if err := w.Write(export.Row(e)); err != nil {
			return fmt.Errorf("%w: write row for expense %d: %v", core.ErrExport, e.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", core.ErrExport, dest, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", core.ErrExport, dest, err)
	}

	slog.InfoContext(ctx, "Exported expenses to csv",
		"destination", dest,
		"rows", len(expenses))

	return nil
}
