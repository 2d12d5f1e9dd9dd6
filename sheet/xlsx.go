/*
xlsx.go - Local .xlsx grid backend

PURPOSE:
  Implements Grid against a workbook file on disk via excelize. This is the
  no-credentials mode: the same sheet names and header contracts, backed by
  a local file instead of a hosted spreadsheet.

DURABILITY:
  The workbook is saved after every mutation. A crash between mutations
  loses at most the in-flight write, which matches the round-trip-per-write
  model of the hosted backend.
*/
package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXGrid is a Grid backed by one .xlsx workbook.
type XLSXGrid struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

// OpenXLSX opens the workbook at path, creating an empty one if absent.
func OpenXLSX(path string) (*XLSXGrid, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("create workbook %s: %w", path, err)
		}
		return &XLSXGrid{file: f, path: path}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &XLSXGrid{file: f, path: path}, nil
}

// Close releases the underlying workbook handle.
func (x *XLSXGrid) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.file.Close()
}

// EnsureSheet creates the named sheet with the given header row when it
// does not exist yet. Used at startup to bootstrap an empty workbook.
func (x *XLSXGrid) EnsureSheet(sheetName string, headers []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	idx, err := x.file.GetSheetIndex(sheetName)
	if err != nil {
		return fmt.Errorf("sheet index %s: %w", sheetName, err)
	}
	if idx >= 0 {
		return nil
	}
	if _, err := x.file.NewSheet(sheetName); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheetName, err)
	}
	if err := x.file.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write header %s: %w", sheetName, err)
	}
	return x.file.Save()
}

func (x *XLSXGrid) ReadAll(_ context.Context, sheetName string) ([][]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	rows, err := x.file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sheetName, ErrSheetNotFound)
	}
	return rows, nil
}

func (x *XLSXGrid) ReadHeader(ctx context.Context, sheetName string) ([]string, error) {
	rows, err := x.ReadAll(ctx, sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (x *XLSXGrid) AppendRow(_ context.Context, sheetName string, line []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	rows, err := x.file.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("%s: %w", sheetName, ErrSheetNotFound)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("append %s: %w", sheetName, err)
	}
	if err := x.file.SetSheetRow(sheetName, cell, &line); err != nil {
		return fmt.Errorf("append %s: %w", sheetName, err)
	}
	return x.file.Save()
}

func (x *XLSXGrid) UpdateRow(_ context.Context, sheetName string, index int, line []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	cell, err := excelize.CoordinatesToCellName(1, index)
	if err != nil {
		return fmt.Errorf("update %s: %w", sheetName, err)
	}
	if err := x.file.SetSheetRow(sheetName, cell, &line); err != nil {
		return fmt.Errorf("update %s row %d: %w", sheetName, index, err)
	}
	return x.file.Save()
}

func (x *XLSXGrid) DeleteRows(_ context.Context, sheetName string, indexes []int) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, index := range indexes {
		if err := x.file.RemoveRow(sheetName, index); err != nil {
			return fmt.Errorf("delete %s row %d: %w", sheetName, index, err)
		}
	}
	return x.file.Save()
}

var _ Grid = (*XLSXGrid)(nil)
