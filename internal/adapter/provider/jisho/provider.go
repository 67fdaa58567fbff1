package jisho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/heartmarshall/instant-jisho/internal/domain"
)

const (
	defaultBaseURL = "https://jisho.org"
	defaultTimeout = 10 * time.Second
	searchPath     = "/api/v1/search/words"

	maxBodyBytes = 4 << 20
)

// Provider fetches dictionary entries from the jisho.org search API.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider with the default jisho.org URL.
func NewProvider(logger *slog.Logger) *Provider {
	return NewProviderWithURL(defaultBaseURL, defaultTimeout, logger)
}

// NewProviderWithURL creates a Provider with a custom base URL and request
// timeout. A zero timeout uses the default.
func NewProviderWithURL(baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "jisho"),
	}
}

// FetchWord looks up word and returns the best matching entry, or the
// not-found result when the search is empty. Network errors, non-200
// statuses and responses failing schema validation wrap
// domain.ErrFetchFailed. Failed fetches are not retried.
func (p *Provider) FetchWord(ctx context.Context, word string) (domain.Result, error) {
	reqURL := p.baseURL + searchPath + "?keyword=" + url.QueryEscape(word)

	p.log.DebugContext(ctx, "jisho request", slog.String("word", word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Result{}, fmt.Errorf("jisho: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.Result{}, fmt.Errorf("%w: jisho: request: %w", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Result{}, fmt.Errorf("%w: jisho: unexpected status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Result{}, fmt.Errorf("%w: jisho: read body: %w", domain.ErrFetchFailed, err)
	}

	entries, err := decode(body)
	if err != nil {
		return domain.Result{}, err
	}

	result := BestMatch(word, entries)

	p.log.DebugContext(ctx, "jisho response",
		slog.String("word", word),
		slog.Int("entries", len(entries)),
		slog.Bool("found", !result.IsNotFound()),
	)

	return result, nil
}

// decode validates body against the response schema before unmarshalling.
func decode(body []byte) ([]domain.Entry, error) {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: jisho: decode json: %w", domain.ErrFetchFailed, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, desc := range res.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("%w: jisho: invalid response: %s", domain.ErrFetchFailed, strings.Join(msgs, "; "))
	}

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: jisho: decode json: %w", domain.ErrFetchFailed, err)
	}
	return out.Data, nil
}

// BestMatch prefers the first entry whose slug equals word, then the first
// entry. No entries means not found.
func BestMatch(word string, entries []domain.Entry) domain.Result {
	for i := range entries {
		if entries[i].Slug == word {
			return domain.Found(&entries[i])
		}
	}
	if len(entries) > 0 {
		return domain.Found(&entries[0])
	}
	return domain.NotFound()
}
