// Package sheets wraps the Google Sheets values API as the row store behind
// the bookkeeping tables. The store speaks ordered string cells; everything
// typed lives behind the schema adapter.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Client talks to one spreadsheet. All table ranges are A1-notation ranges
// inside it.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewClient builds a Client authenticated with a service-account
// credentials file.
func NewClient(ctx context.Context, spreadsheetID, credentialsFile string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet ID required")
	}
	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: init service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// FetchRows reads a range as string cells. An empty range in the sheet
// yields an empty slice, not an error.
func (c *Client) FetchRows(ctx context.Context, readRange string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: fetch %s: %w", readRange, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRows appends rows below the last row of the table range. Values go
// in as USER_ENTERED so the sheet keeps treating numbers and dates the same
// way a human entry would.
func (c *Client) AppendRows(ctx context.Context, tableRange string, rows [][]string) error {
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, tableRange, valueRange(rows)).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: append %s: %w", tableRange, err)
	}
	return nil
}

// UpdateRows overwrites exactly the given range in place.
func (c *Client) UpdateRows(ctx context.Context, writeRange string, rows [][]string) error {
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, valueRange(rows)).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: update %s: %w", writeRange, err)
	}
	return nil
}

func valueRange(rows [][]string) *sheetsapi.ValueRange {
	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	return &sheetsapi.ValueRange{Values: values}
}
