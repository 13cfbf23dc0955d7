package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrFeedUnavailable is returned when the feed cannot be fetched or the response is not data.
var ErrFeedUnavailable = errors.New("poi feed unavailable")

const maxFeedBytes = 32 << 20

// Fetcher downloads the POI feed and decodes it into records.
type Fetcher struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// NewFetcher creates a Fetcher for feedURL.
func NewFetcher(feedURL string, timeout time.Duration, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		url:        feedURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// Fetch retrieves the feed once. JSON bodies take the structured path and anything
// else is parsed as delimited text. Every failure wraps ErrFeedUnavailable.
func (f *Fetcher) Fetch(ctx context.Context) ([]Record, error) {
	if f.url == "" {
		return nil, fmt.Errorf("%w: no feed url configured", ErrFeedUnavailable)
	}

	target, err := f.cacheBusted()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid feed url: %v", ErrFeedUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFeedUnavailable, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			f.logger.Warn("failed to close feed response body", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: feed returned status %d", ErrFeedUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrFeedUnavailable, err)
	}

	trimmed := bytes.TrimSpace(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf")))
	if isHTML(trimmed) {
		return nil, fmt.Errorf("%w: feed returned an HTML page", ErrFeedUnavailable)
	}

	if isStructured(resp.Header.Get("Content-Type"), trimmed) {
		records, err := ParseStructured(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
		}
		return records, nil
	}
	return ParseTabular(string(trimmed)), nil
}

func (f *Fetcher) cacheBusted() (string, error) {
	u, err := url.Parse(f.url)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("_t", strconv.FormatInt(f.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func isHTML(body []byte) bool {
	const doctype = "<!doctype html"
	if len(body) < len(doctype) {
		return false
	}
	return strings.EqualFold(string(body[:len(doctype)]), doctype)
}

func isStructured(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "json") {
		return true
	}
	return len(body) > 0 && body[0] == '['
}
