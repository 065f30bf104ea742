package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/somramnani/hibachi-orders/internal/enum"
)

// RAW keeps guest-entered text from being evaluated as spreadsheet formulas.
const valueInputOption = "RAW"

// APIError is a non-2xx response from the Sheets API.
type APIError struct {
	StatusCode int
	Status     string // Google status, e.g. RESOURCE_EXHAUSTED
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("sheets api: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("sheets api: %d: %s", e.StatusCode, e.Message)
}

// SheetsConfig addresses one spreadsheet range.
type SheetsConfig struct {
	Endpoint      string // e.g. https://sheets.googleapis.com; empty uses Google's
	SpreadsheetID string
	Range         string // A1 notation, e.g. Sheet1!A:F
	WriteMode     string // enum.LedgerWriteAppend or enum.LedgerWriteExplicit
}

// Sheets writes rows through the Google Sheets v4 API. The http.Client must
// already attach credentials (see auth.TokenSource).
type Sheets struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	rng           sheetRange
	mode          string
}

// NewSheets validates cfg and returns a writer.
func NewSheets(hc *http.Client, cfg SheetsConfig) (*Sheets, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	rng, err := parseRange(cfg.Range)
	if err != nil {
		return nil, err
	}
	mode := cfg.WriteMode
	switch mode {
	case "":
		mode = enum.LedgerWriteAppend
	case enum.LedgerWriteAppend, enum.LedgerWriteExplicit:
	default:
		return nil, fmt.Errorf("unknown ledger write mode %q", mode)
	}
	if hc == nil {
		hc = http.DefaultClient
	}

	opts := []option.ClientOption{option.WithHTTPClient(hc)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(cfg.Endpoint, "/")+"/"))
	}
	svc, err := sheets.NewService(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Sheets{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		rng:           rng,
		mode:          mode,
	}, nil
}

// WriteRow stores row and returns the A1 range that was written.
func (s *Sheets) WriteRow(ctx context.Context, row Row) (string, error) {
	if s.mode == enum.LedgerWriteExplicit {
		return s.writeExplicit(ctx, row)
	}
	return s.appendRow(ctx, row)
}

// appendRow lets the API find the next free row after the table.
func (s *Sheets) appendRow(ctx context.Context, row Row) (string, error) {
	vr := &sheets.ValueRange{Range: s.rng.String(), MajorDimension: "ROWS", Values: row.cells()}

	resp, err := s.values.Append(s.spreadsheetID, s.rng.String(), vr).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append row: %w", apiError(err))
	}
	if resp.Updates == nil {
		return "", nil
	}
	return resp.Updates.UpdatedRange, nil
}

// writeExplicit reads the occupied key column, then writes the row after it.
// Two concurrent writers can pick the same row; the sheet decides who wins.
func (s *Sheets) writeExplicit(ctx context.Context, row Row) (string, error) {
	used, err := s.OccupiedRows(ctx)
	if err != nil {
		return "", err
	}

	target := s.rng.rowRange(used + 1)
	vr := &sheets.ValueRange{Range: target, MajorDimension: "ROWS", Values: row.cells()}

	resp, err := s.values.Update(s.spreadsheetID, target, vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("update row: %w", apiError(err))
	}
	if resp.UpdatedRange == "" {
		return target, nil
	}
	return resp.UpdatedRange, nil
}

// OccupiedRows counts rows with data in the range's first column.
func (s *Sheets) OccupiedRows(ctx context.Context) (int, error) {
	resp, err := s.values.Get(s.spreadsheetID, s.rng.keyColumn()).
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("read occupied range: %w", apiError(err))
	}
	return len(resp.Values), nil
}

// apiError turns a *googleapi.Error into an *APIError, keeping Google's
// status string from the response body. Other errors pass through.
func apiError(err error) error {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return err
	}
	out := &APIError{StatusCode: gErr.Code, Message: gErr.Message}
	if out.Message == "" {
		out.Message = http.StatusText(gErr.Code)
	}
	var body struct {
		Error struct {
			Status string `json:"status"`
		} `json:"error"`
	}
	if json.Unmarshal([]byte(gErr.Body), &body) == nil {
		out.Status = body.Error.Status
	}
	return out
}
