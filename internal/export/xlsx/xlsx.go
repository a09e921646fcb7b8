// Package xlsx writes expense exports as Excel workbooks.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"spendbook/internal/core"
	"spendbook/internal/export"
)

const DefaultSheetName = "Expenses"

type Exporter struct {
	sheet string
}

// New creates an Exporter writing a single sheet with the given name.
// An empty name falls back to DefaultSheetName.
func New(sheet string) *Exporter {
	if sheet == "" {
		sheet = DefaultSheetName
	}
	return &Exporter{sheet: sheet}
}

// Write renders the header row plus one row per expense and saves the
// workbook at dest. An empty listing yields a header-only sheet.
func (x *Exporter) Write(ctx context.Context, dest string, expenses []core.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	// A fresh workbook starts with a sheet named "Sheet1".
	if err := f.SetSheetName("Sheet1", x.sheet); err != nil {
		return fmt.Errorf("%w: rename sheet: %v", core.ErrExport, err)
	}

	if err := x.setRow(f, 1, export.Header); err != nil {
		return err
	}
	for i, e := range expenses {
		if err := x.setRow(f, i+2, export.Row(e)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(dest); err != nil {
		return fmt.Errorf("%w: save workbook %s: %v", core.ErrExport, dest, err)
	}

	slog.InfoContext(ctx, "Exported expenses to workbook",
		"destination", dest,
		"rows", len(expenses))

	return nil
}

func (x *Exporter) setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%w: row %d: %v", core.ErrExport, row, err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(x.sheet, cell, &cells); err != nil {
		return fmt.Errorf("%w: write row %d: %v", core.ErrExport, row, err)
	}
	return nil
}
