package donorfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"donorhub/internal/domain"
)

// Column positions used when the feed omits or renames its headers.
const (
	fallbackPMMIndex       = 0
	fallbackFirstNameIndex = 5
	fallbackLastNameIndex  = 7
)

// table is the feed's wire shape: a header row plus positional data rows.
type table struct {
	Headers []string        `json:"headers"`
	Data    [][]interface{} `json:"data"`
}

func (t table) column(name string, fallback int) int {
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return fallback
}

func cell(row []interface{}, i int) string {
	if i < 0 || i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

type httpFeed struct {
	client        *http.Client
	donorsURL     string
	fundraiserURL string
}

// NewHTTPFeed returns a DonorFeed that reads the donor and fundraiser tables over HTTP.
func NewHTTPFeed(client *http.Client, donorsURL, fundraiserURL string) domain.DonorFeed {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpFeed{client: client, donorsURL: donorsURL, fundraiserURL: fundraiserURL}
}

func (f *httpFeed) fetch(ctx context.Context, rawURL string) (table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return table{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return table{}, fmt.Errorf("failed to fetch donor feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return table{}, fmt.Errorf("donor feed returned status: %d", resp.StatusCode)
	}

	var t table
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return table{}, fmt.Errorf("failed to decode donor feed response: %w", err)
	}
	return t, nil
}

// FetchFundraisers returns every fundraiser name in the feed, flattening all columns.
func (f *httpFeed) FetchFundraisers(ctx context.Context) ([]string, error) {
	t, err := f.fetch(ctx, f.fundraiserURL)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(t.Data))
	for _, row := range t.Data {
		for i := range row {
			if name := cell(row, i); name != "" {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

func (f *httpFeed) FetchDonors(ctx context.Context, limit int) ([]domain.FeedDonor, error) {
	u, err := url.Parse(f.donorsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid donor feed url: %w", err)
	}
	if limit > 0 {
		q := u.Query()
		q.Set("limit", strconv.Itoa(limit))
		u.RawQuery = q.Encode()
	}

	t, err := f.fetch(ctx, u.String())
	if err != nil {
		return nil, err
	}
	pmm := t.column("pmm", fallbackPMMIndex)
	first := t.column("first_name", fallbackFirstNameIndex)
	last := t.column("last_name", fallbackLastNameIndex)

	donors := make([]domain.FeedDonor, 0, len(t.Data))
	for _, row := range t.Data {
		d := domain.FeedDonor{
			FirstName:  cell(row, first),
			LastName:   cell(row, last),
			Fundraiser: cell(row, pmm),
		}
		if d.Name() == "" {
			continue
		}
		donors = append(donors, d)
	}
	return donors, nil
}
