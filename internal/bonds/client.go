// Package bonds fetches the convertible bond listing from the data provider.
package bonds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/asincerity/convertible-bond-reminder/internal/config"
	"github.com/asincerity/convertible-bond-reminder/internal/logger"
	"github.com/asincerity/convertible-bond-reminder/internal/models"
)

// Fetch errors. A non-nil error means the provider was unreachable or spoke
// the wrong shape; "no bonds listed" is a nil error with an empty slice.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrMalformedResponse    = errors.New("malformed bond listing response")
	ErrMissingRows          = errors.New("bond listing response has no rows")
)

const (
	// The provider rejects non-browser clients.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// Listing payloads are a few hundred KB; cap reads well above that.
	maxResponseBytes = 4 << 20
)

// Client issues the single listing request per run.
type Client struct {
	httpClient *http.Client
	url        string
	referer    string
	logger     *logger.Logger
}

// NewClient creates a bond listing client from config.
func NewClient(cfg config.BondsConfig, log *logger.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout()}, log)
}

// NewClientWithHTTP creates a client with an injected http.Client. Tests use
// this to point at httptest servers or recording transports.
func NewClientWithHTTP(cfg config.BondsConfig, httpClient *http.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		url:        cfg.URL,
		referer:    cfg.Referer,
		logger:     log,
	}
}

type listingEnvelope struct {
	Rows []models.BondRecord `json:"rows"`
}

// Fetch performs one GET against the listing endpoint and returns the raw
// records in provider order. No pagination, no filtering, single attempt.
func (c *Client) Fetch() ([]models.BondRecord, error) {
	req, err := http.NewRequest(http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", c.referer)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bond listing request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var envelope listingEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	// A listing without the rows key is a broken contract, not an empty day.
	if envelope.Rows == nil {
		return nil, ErrMissingRows
	}

	c.logger.Debug("bond listing fetched", "records", len(envelope.Rows))

	return envelope.Rows, nil
}
