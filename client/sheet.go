package client

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lamorinda/sportsball/models"
)

// SheetClient downloads the CSV export of the schedule spreadsheet.
type SheetClient struct {
	sourceURL  string
	httpClient *http.Client
}

func NewSheetClient(sourceURL string, timeout time.Duration) *SheetClient {
	return &SheetClient{
		sourceURL: sourceURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchCSV returns the raw export body. Redirects are followed, which the
// spreadsheet export endpoint relies on.
func (c *SheetClient) FetchCSV(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return nil, &models.FetchError{URL: c.sourceURL, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("User-Agent", "sportsball/1.0")
	req.Header.Set("Accept", "text/csv, */*")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.FetchError{URL: c.sourceURL, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &models.FetchError{
			URL:        c.sourceURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
		}
	}

	var reader io.Reader = resp.Body
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &models.FetchError{URL: c.sourceURL, Err: fmt.Errorf("creating gzip reader: %w", err)}
		}
		defer gzReader.Close()
		reader = gzReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &models.FetchError{URL: c.sourceURL, Err: fmt.Errorf("reading body: %w", err)}
	}

	return data, nil
}
