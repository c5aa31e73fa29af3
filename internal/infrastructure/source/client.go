// Package source implements the HTTP client for the upstream catalog
// endpoint.  A fetch either yields the complete raw record list or a typed
// error; no partial data is ever returned.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fusionatlas/fusion-catalog/internal/config"
	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
	"github.com/fusionatlas/fusion-catalog/pkg/errors"
)

// companiesKey is the top-level key the endpoint wraps the record list in.
const companiesKey = "companies"

// maxBodyBytes caps the response body read.  The catalog is a few hundred KB;
// anything past this is a broken or hostile upstream.
const maxBodyBytes = 32 << 20

// Client fetches the raw company catalog from the configured endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	userAgent  string
	log        logging.Logger
}

// NewClient builds a catalog source client from the source configuration.
func NewClient(cfg config.SourceConfig, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultSourceTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        cfg.URL,
		userAgent:  userAgent,
		log:        log.Named("source"),
	}
}

// Fetch retrieves and decodes the full raw record list.  The four failure
// modes are distinguishable by error code: transport failure, non-2xx status,
// malformed JSON, and a body that parses but lacks the expected key.
func (c *Client) Fetch(ctx context.Context) ([]catalog.Raw, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "building catalog request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("catalog fetch failed",
			logging.String("url", c.url),
			logging.Err(err),
		)
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "fetching catalog")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.log.Warn("catalog fetch returned error status",
			logging.String("url", c.url),
			logging.Int("status", resp.StatusCode),
		)
		return nil, errors.New(errors.ErrCodeSourceBadStatus, "catalog endpoint returned an error status").
			WithDetail(fmt.Sprintf("status=%d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "reading catalog response")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceDecode, "decoding catalog response")
	}

	rawList, ok := envelope[companiesKey]
	if !ok {
		return nil, errors.New(errors.ErrCodeSourceMissingKey, "catalog response has no company list").
			WithDetail("key=" + companiesKey)
	}

	var items []catalog.Raw
	if err := json.Unmarshal(rawList, &items); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceDecode, "decoding company list")
	}

	c.log.Info("catalog fetched",
		logging.String("url", c.url),
		logging.Int("records", len(items)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return items, nil
}
