package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"golang.org/x/oauth2/google"

	"github.com/playoffpurge/playoffpurge/internal/config"
)

const (
	defaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"
	scope          = "https://www.googleapis.com/auth/spreadsheets"
	timeout        = 10 * time.Second
)

// Client is the low-level gateway to the league spreadsheet. It speaks the
// Sheets values API in terms of rectangular ranges and enforces a
// process-wide minimum interval between outbound calls so a burst of
// readers cannot blow the API quota.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	sheetID     string
	clock       clock.Clock
	maxRetries  int
	minInterval time.Duration

	mu          sync.Mutex // serializes the rate-limit wait
	lastRequest time.Time
}

// New builds a client authenticated with the configured service-account
// key (a file path or the key JSON itself).
func New(ctx context.Context, cfg config.Sheets, clk clock.Clock) (*Client, error) {
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}

	jwt, err := google.JWTConfigFromJSON(creds, scope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	httpClient := jwt.Client(ctx)
	httpClient.Timeout = timeout

	return &Client{
		httpClient:  httpClient,
		baseURL:     defaultBaseURL,
		sheetID:     cfg.SheetID,
		clock:       clk,
		maxRetries:  cfg.MaxRetries,
		minInterval: time.Duration(cfg.MinRequestIntervalMS) * time.Millisecond,
	}, nil
}

// NewForTest builds an unauthenticated client pointed at a fake backend.
func NewForTest(baseURL, sheetID string, clk clock.Clock, minInterval time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		sheetID:     sheetID,
		clock:       clk,
		maxRetries:  3,
		minInterval: minInterval,
	}
}

func credentials(cfg config.Sheets) ([]byte, error) {
	if cfg.CredentialsJSON != "" {
		return []byte(cfg.CredentialsJSON), nil
	}
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("must provide either GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_APPLICATION_CREDENTIALS_JSON")
}

type valueRange struct {
	Range  string     `json:"range,omitempty"`
	Values [][]string `json:"values"`
}

type batchGetResponse struct {
	ValueRanges []valueRange `json:"valueRanges"`
}

// Get fetches a single range. Rows come back as strings exactly as the
// sheet formats them; short rows are possible and callers must tolerate
// missing trailing cells.
func (c *Client) Get(ctx context.Context, rangeName string) ([][]string, error) {
	u := fmt.Sprintf("%s/%s/values/%s", c.baseURL, url.PathEscape(c.sheetID), url.PathEscape(rangeName))

	var vr valueRange
	if err := c.doWithRetry(ctx, http.MethodGet, u, nil, &vr); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rangeName, err)
	}
	return vr.Values, nil
}

// BatchGet fetches several ranges in one API call and returns the rows
// keyed by the requested range names. The API echoes value ranges in
// request order, so results are keyed by position rather than by the
// (possibly normalized) range string the API sends back.
func (c *Client) BatchGet(ctx context.Context, ranges []string) (map[string][][]string, error) {
	params := url.Values{}
	for _, r := range ranges {
		params.Add("ranges", r)
	}
	u := fmt.Sprintf("%s/%s/values:batchGet?%s", c.baseURL, url.PathEscape(c.sheetID), params.Encode())

	var resp batchGetResponse
	if err := c.doWithRetry(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("batch fetching %d ranges: %w", len(ranges), err)
	}

	data := make(map[string][][]string, len(ranges))
	for i, vr := range resp.ValueRanges {
		if i < len(ranges) {
			data[ranges[i]] = vr.Values
		}
	}
	return data, nil
}

// Update overwrites the cells of a range with RAW (unparsed) values.
func (c *Client) Update(ctx context.Context, rangeName string, values [][]string) error {
	u := fmt.Sprintf("%s/%s/values/%s?valueInputOption=RAW", c.baseURL, url.PathEscape(c.sheetID), url.PathEscape(rangeName))

	body := valueRange{Values: values}
	if err := c.doWithRetry(ctx, http.MethodPut, u, body, nil); err != nil {
		return fmt.Errorf("updating %s: %w", rangeName, err)
	}
	return nil
}

// Append adds rows after the last data row of the given table range.
func (c *Client) Append(ctx context.Context, rangeName string, values [][]string) error {
	u := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=RAW", c.baseURL, url.PathEscape(c.sheetID), url.PathEscape(rangeName))

	body := valueRange{Values: values}
	if err := c.doWithRetry(ctx, http.MethodPost, u, body, nil); err != nil {
		return fmt.Errorf("appending to %s: %w", rangeName, err)
	}
	return nil
}

type batchUpdateRequest struct {
	Requests []updateRequest `json:"requests"`
}

type updateRequest struct {
	DeleteDimension *deleteDimension `json:"deleteDimension,omitempty"`
}

type deleteDimension struct {
	Range dimensionRange `json:"range"`
}

type dimensionRange struct {
	SheetID    int64  `json:"sheetId"`
	Dimension  string `json:"dimension"`
	StartIndex int64  `json:"startIndex"`
	EndIndex   int64  `json:"endIndex"`
}

// DeleteRows removes the half-open row interval [startIndex, endIndex)
// from the sheet with the given numeric id. Indexes are zero-based and
// include the header row.
func (c *Client) DeleteRows(ctx context.Context, sheetGID int64, startIndex, endIndex int64) error {
	u := fmt.Sprintf("%s/%s:batchUpdate", c.baseURL, url.PathEscape(c.sheetID))

	body := batchUpdateRequest{
		Requests: []updateRequest{{
			DeleteDimension: &deleteDimension{
				Range: dimensionRange{
					SheetID:    sheetGID,
					Dimension:  "ROWS",
					StartIndex: startIndex,
					EndIndex:   endIndex,
				},
			},
		}},
	}

	if err := c.doWithRetry(ctx, http.MethodPost, u, body, nil); err != nil {
		return fmt.Errorf("deleting rows %d-%d of sheet %d: %w", startIndex, endIndex, sheetGID, err)
	}
	return nil
}

type spreadsheetResponse struct {
	Sheets []struct {
		Properties struct {
			SheetID int64  `json:"sheetId"`
			Title   string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

// SheetID resolves a tab title to the numeric sheet id required by
// structural operations like row deletion.
func (c *Client) SheetID(ctx context.Context, title string) (int64, error) {
	u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(c.sheetID))

	var resp spreadsheetResponse
	if err := c.doWithRetry(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return 0, fmt.Errorf("resolving sheet id for %q: %w", title, err)
	}

	for _, s := range resp.Sheets {
		if s.Properties.Title == title {
			return s.Properties.SheetID, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", title)
}

// doWithRetry performs a request, retrying transient failures with
// exponential backoff. Permanent API errors propagate immediately.
func (c *Client) doWithRetry(ctx context.Context, method, u string, body, out any) error {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.clock.After(backoff):
			}
		}

		err := c.do(ctx, method, u, body, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if apiErr, ok := err.(*APIError); ok && !apiErr.Transient() {
			return err
		}
	}

	return fmt.Errorf("%w: %v", ErrServiceUnavailable, lastErr)
}

func (c *Client) do(ctx context.Context, method, u string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.rateLimit()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// rateLimit blocks until at least minInterval has passed since the last
// outbound call. The lock is held through the wait so concurrent callers
// are spaced out rather than released in a burst.
func (c *Client) rateLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if wait := c.minInterval - c.clock.Now().Sub(c.lastRequest); wait > 0 {
		c.clock.Sleep(wait)
	}
	c.lastRequest = c.clock.Now()
}
