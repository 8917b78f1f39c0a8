// Package fetcher issues single page requests against the search endpoint.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"newsharvest/internal/logger"
	"newsharvest/internal/models"
	"newsharvest/pkg/utils"
)

// SearchPath is appended to the base URL for every request.
const SearchPath = "/search"

// DefaultTimeout bounds a single page request.
const DefaultTimeout = 5 * time.Second

// maxErrorBody caps how much of a failed response body is logged.
const maxErrorBody = 4096

// Fetch errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrRequestFailed        = errors.New("request failed")
	ErrInvalidResponse      = errors.New("invalid response body")
	ErrInvalidPage          = errors.New("page must be at least 1")
)

// Fetcher performs one HTTP GET per page. It never retries.
type Fetcher struct {
	client  *http.Client
	helper  *utils.HTTPHelper
	log     *logger.Logger
	baseURL string
	apiKey  string
}

// NewFetcher creates a fetcher with a bounded per-request timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewFetcher(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return NewFetcherWithClient(&http.Client{Timeout: timeout}, baseURL, apiKey, log)
}

// NewFetcherWithClient creates a fetcher with an injected HTTP client.
func NewFetcherWithClient(client *http.Client, baseURL, apiKey string, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client:  client,
		helper:  utils.NewHTTPHelper(),
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// BuildURL returns the request URL for q, including the API key.
func (f *Fetcher) BuildURL(q models.SearchQuery) (*url.URL, error) {
	u, err := url.Parse(f.baseURL + SearchPath)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", f.baseURL, err)
	}

	params := url.Values{}
	params.Set("q", q.Term)
	params.Set("api-key", f.apiKey)

	if from := q.FromDateString(); from != "" {
		params.Set("from-date", from)
	}

	if to := q.ToDateString(); to != "" {
		params.Set("to-date", to)
	}

	params.Set("page", strconv.Itoa(q.Page))
	params.Set("page-size", strconv.Itoa(q.PageSize))

	if q.ShowFields != "" {
		params.Set("show-fields", q.ShowFields)
	}

	u.RawQuery = params.Encode()

	return u, nil
}

// Fetch requests a single page. A non-200 status is logged together with the
// response body and returned as ErrUnexpectedStatusCode; no document is returned.
func (f *Fetcher) Fetch(ctx context.Context, q models.SearchQuery) (*models.ResponseDocument, error) {
	if q.Page < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPage, q.Page)
	}

	u, err := f.BuildURL(q)
	if err != nil {
		return nil, err
	}

	f.log.Debug("requesting page", "url", f.helper.RedactQuery(u, "api-key"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = f.helper.BuildHeaders(nil)

	resp, err := f.client.Do(req)
	if err != nil {
		// url.Error carries the full URL; keep the key out of the error chain.
		return nil, fmt.Errorf("%w: page %d: %s", ErrRequestFailed, q.Page, redactErr(err, f.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: failed to read response body: %w", ErrRequestFailed, q.Page, err)
	}

	if resp.StatusCode != http.StatusOK {
		f.log.Error("search request failed",
			"page", q.Page,
			"status_code", resp.StatusCode,
			"body", truncateBody(body))

		return nil, fmt.Errorf("%w: %d (page %d)", ErrUnexpectedStatusCode, resp.StatusCode, q.Page)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: page %d is not valid JSON", ErrInvalidResponse, q.Page)
	}

	pageNo := gjson.GetBytes(body, "response.currentPage").Int()
	f.log.Info(fmt.Sprintf("page %d: request successful", pageNo))

	return &models.ResponseDocument{Raw: body}, nil
}

func truncateBody(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}

	return string(body)
}

func redactErr(err error, secret string) string {
	msg := err.Error()
	if secret == "" {
		return msg
	}

	msg = strings.ReplaceAll(msg, url.QueryEscape(secret), "REDACTED")

	return strings.ReplaceAll(msg, secret, "REDACTED")
}
