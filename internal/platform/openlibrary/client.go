// Package openlibrary looks up title metadata by ISBN on openlibrary.org.
package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://openlibrary.org"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound is returned when the ISBN is unknown to Open Library.
var ErrNotFound = errors.New("openlibrary: isbn not found")

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	UserAgent  string
	RPS        int
	MaxRetries int
	Timeout    time.Duration
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "lms/1.0"
	}
	if opts.RPS <= 0 {
		opts.RPS = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		userAgent:  opts.UserAgent,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(opts.RPS)), 1),
		maxRetries: opts.MaxRetries,
		backoff:    time.Second,
	}
}

// Metadata is the subset of a book record the catalogue uses.
type Metadata struct {
	Title       string
	Authors     []string
	Description string
	CoverURL    string
}

// bookData matches api/books?jscmd=data
type bookData struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Notes    string `json:"notes"`
	Cover    struct {
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"cover"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// LookupISBN fetches metadata for a single ISBN.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (Metadata, error) {
	isbn = normalizeISBN(isbn)
	if isbn == "" {
		return Metadata{}, ErrNotFound
	}
	key := "ISBN:" + isbn
	u := fmt.Sprintf("%s/api/books?bibkeys=%s&jscmd=data&format=json", c.baseURL, url.QueryEscape(key))

	var res map[string]bookData
	if err := c.get(ctx, u, &res); err != nil {
		return Metadata{}, err
	}
	d, ok := res[key]
	if !ok {
		return Metadata{}, ErrNotFound
	}

	m := Metadata{
		Title:       d.Title,
		Description: d.Notes,
		CoverURL:    d.Cover.Large,
	}
	if d.Subtitle != "" {
		m.Title += ": " + d.Subtitle
	}
	if m.CoverURL == "" {
		m.CoverURL = d.Cover.Medium
	}
	for _, a := range d.Authors {
		m.Authors = append(m.Authors, a.Name)
	}
	return m, nil
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// 1s, 2s, 4s...
			backoff := c.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string, target any) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}
	return false, json.NewDecoder(resp.Body).Decode(target)
}

func normalizeISBN(isbn string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == 'X' || r == 'x':
			return 'X'
		}
		return -1
	}, isbn)
}
