/*
google.go - Google Sheets grid backend

PURPOSE:
  Implements Grid against the Google Sheets v4 API. A spreadsheet is
  addressed by its ID; each pseudo-table is a named sheet (tab) inside it.

AUTH:
  Service-account JWT credentials from a JSON key file, scoped to
  spreadsheets read/write.

RANGE CONVENTION:
  All reads and writes use A:Z ranges, so a sheet is capped at 26 columns.
  Every header contract in this system fits well inside that.
*/
package sheet

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleGrid is a Grid backed by one Google spreadsheet.
type GoogleGrid struct {
	svc           *sheets.Service
	spreadsheetID string

	// sheet title -> numeric sheet ID, needed for row deletion
	sheetIDs map[string]int64
}

// NewGoogleGrid builds a Sheets client from a service-account key file.
func NewGoogleGrid(ctx context.Context, credentialsPath, spreadsheetID string) (*GoogleGrid, error) {
	jsonKey, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &GoogleGrid{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

func (g *GoogleGrid) ReadAll(ctx context.Context, sheetName string) ([][]string, error) {
	rng := fmt.Sprintf("%s!A:Z", sheetName)
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("values.get %s: %w", rng, err)
	}
	return toStringGrid(resp.Values), nil
}

func (g *GoogleGrid) ReadHeader(ctx context.Context, sheetName string) ([]string, error) {
	rng := fmt.Sprintf("%s!A1:Z1", sheetName)
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("values.get %s: %w", rng, err)
	}
	grid := toStringGrid(resp.Values)
	if len(grid) == 0 {
		return nil, nil
	}
	return grid[0], nil
}

func (g *GoogleGrid) AppendRow(ctx context.Context, sheetName string, line []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(line)}}
	rng := fmt.Sprintf("%s!A:Z", sheetName)

	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("values.append %s: %w", rng, err)
	}
	return nil
}

func (g *GoogleGrid) UpdateRow(ctx context.Context, sheetName string, index int, line []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(line)}}
	rng := fmt.Sprintf("%s!A%d:Z%d", sheetName, index, index)

	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("values.update %s: %w", rng, err)
	}
	return nil
}

func (g *GoogleGrid) DeleteRows(ctx context.Context, sheetName string, indexes []int) error {
	sheetID, err := g.sheetID(ctx, sheetName)
	if err != nil {
		return err
	}

	// One request per row, highest index first (caller guarantees order),
	// so each deletion leaves the remaining targets in place.
	requests := make([]*sheets.Request, 0, len(indexes))
	for _, index := range indexes {
		requests = append(requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(index - 1), // API is 0-based
					EndIndex:   int64(index),
				},
			},
		})
	}

	_, err = g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("batchUpdate delete %s: %w", sheetName, err)
	}
	return nil
}

// sheetID resolves a sheet title to its numeric ID, caching the mapping.
// The metadata fetch happens at most once per unknown title.
func (g *GoogleGrid) sheetID(ctx context.Context, sheetName string) (int64, error) {
	if id, ok := g.sheetIDs[sheetName]; ok {
		return id, nil
	}

	meta, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("spreadsheets.get: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil {
			g.sheetIDs[s.Properties.Title] = s.Properties.SheetId
		}
	}

	id, ok := g.sheetIDs[sheetName]
	if !ok {
		return 0, fmt.Errorf("%s: %w", sheetName, ErrSheetNotFound)
	}
	return id, nil
}

func toStringGrid(values [][]interface{}) [][]string {
	grid := make([][]string, len(values))
	for i, line := range values {
		cells := make([]string, len(line))
		for j, v := range line {
			cells[j] = fmt.Sprint(v)
		}
		grid[i] = cells
	}
	return grid
}

func toCells(line []string) []interface{} {
	cells := make([]interface{}, len(line))
	for i, v := range line {
		cells[i] = v
	}
	return cells
}

var _ Grid = (*GoogleGrid)(nil)
