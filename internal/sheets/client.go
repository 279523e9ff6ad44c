// Package sheets talks to the back-office spreadsheet mirror through the
// Google Sheets values REST API. The column layout of the two tabs is a
// versioned wire contract shared with the back office; see rows.go.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/config"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// Mirror is the subset of spreadsheet operations the reconciler needs.
type Mirror interface {
	Append(ctx context.Context, tab string, rows [][]string) error
	ReadAll(ctx context.Context, tab string) ([][]string, error)
}

// Client calls the Sheets values API with a bearer token
type Client struct {
	baseURL       string
	spreadsheetID string
	token         string
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewClient creates a sheet mirror client
func NewClient(cfg config.SheetsConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:       defaultBaseURL,
		spreadsheetID: cfg.SpreadsheetID,
		token:         cfg.AccessToken,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
	}
}

// Configured reports whether the client can reach a spreadsheet.
func (c *Client) Configured() bool {
	return c.spreadsheetID != "" && c.token != ""
}

// Append appends rows to the end of a tab. Prior rows are never touched.
func (c *Client) Append(ctx context.Context, tab string, rows [][]string) error {
	if !c.Configured() {
		return fmt.Errorf("sheets client not configured: spreadsheet ID and token required")
	}

	endpoint := fmt.Sprintf("%s/%s/values/%s:append",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(tab))
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("valueInputOption", "USER_ENTERED")
	u.RawQuery = q.Encode()

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	body, err := json.Marshal(map[string]interface{}{"values": values})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Sheet append request failed", zap.Error(err), zap.String("tab", tab))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sheets API returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// ReadAll fetches every row of a tab, header included.
func (c *Client) ReadAll(ctx context.Context, tab string) ([][]string, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("sheets client not configured: spreadsheet ID and token required")
	}

	endpoint := fmt.Sprintf("%s/%s/values/%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(tab))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Sheet read request failed", zap.Error(err), zap.String("tab", tab))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sheets API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Values [][]interface{} `json:"values"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode sheet values: %w", err)
	}

	rows := make([][]string, len(parsed.Values))
	for i, raw := range parsed.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = strings.TrimSpace(fmt.Sprintf("%v", cell))
		}
		rows[i] = row
	}
	return rows, nil
}
