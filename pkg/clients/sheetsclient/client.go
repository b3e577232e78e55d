package sheetsclient

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/coe-onsite/onsite-manager/internal/config"
	"github.com/coe-onsite/onsite-manager/pkg/utils"
)

// Client wraps the Google Sheets API client
type Client struct {
	service *sheets.Service
	ctx     context.Context
}

// NewClient creates a new Sheets client using OAuth credentials and performs OAuth flow if needed
// Tokens are persisted to disk for the given environment
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, env string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig, env)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	httpClient := oauthConfig.Client(ctx, token)

	return NewClientWithOptions(ctx, option.WithHTTPClient(httpClient))
}

// NewClientWithOptions creates a Sheets client from explicit API options
// (an authenticated HTTP client, a test endpoint, ...)
func NewClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
		ctx:     ctx,
	}, nil
}

// GetValues reads values from a spreadsheet range
func (c *Client) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, sheetRange).Context(c.ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}

	return resp.Values, nil
}

// AppendRows appends rows to the end of a sheet
func (c *Client) AppendRows(spreadsheetID, sheetRange string, values [][]interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, sheetRange, valueRange).
		ValueInputOption("RAW").
		Context(c.ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}

	return nil
}

// UpdateValues overwrites the cells of a range
func (c *Client) UpdateValues(spreadsheetID, sheetRange string, values [][]interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, sheetRange, valueRange).
		ValueInputOption("RAW").
		Context(c.ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update values: %w", err)
	}

	return nil
}

// CreateSheet creates a new sheet/tab in the spreadsheet
func (c *Client) CreateSheet(spreadsheetID, sheetTitle string) (int64, error) {
	req := &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: sheetTitle,
			},
		},
	}

	resp, err := c.batchUpdate(spreadsheetID, req)
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("unexpected response from create sheet")
	}

	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// DeleteRows removes rows [startIndex, endIndex) (zero-based) from a sheet
func (c *Client) DeleteRows(spreadsheetID string, sheetID, startIndex, endIndex int64) error {
	req := &sheets.Request{
		DeleteDimension: &sheets.DeleteDimensionRequest{
			Range: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "ROWS",
				StartIndex: startIndex,
				EndIndex:   endIndex,
			},
		},
	}

	if _, err := c.batchUpdate(spreadsheetID, req); err != nil {
		return fmt.Errorf("failed to delete rows: %w", err)
	}

	return nil
}

// SheetIDs maps each tab title in the spreadsheet to its numeric sheet ID
func (c *Client) SheetIDs(spreadsheetID string) (map[string]int64, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties(sheetId,title)").
		Context(c.ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	ids := make(map[string]int64, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		ids[sheet.Properties.Title] = sheet.Properties.SheetId
	}

	return ids, nil
}

func (c *Client) batchUpdate(spreadsheetID string, reqs ...*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}

	return c.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdateRequest).Context(c.ctx).Do()
}
