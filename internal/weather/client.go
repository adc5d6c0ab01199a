// Package weather fetches current conditions and today's forecast for the
// configured city.
package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/asincerity/convertible-bond-reminder/internal/config"
	"github.com/asincerity/convertible-bond-reminder/internal/logger"
	"github.com/asincerity/convertible-bond-reminder/internal/models"
)

// Fetch errors. The pipeline treats any of them as "no snapshot today".
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrMalformedResponse    = errors.New("malformed weather response")
	ErrMissingConditions    = errors.New("weather response has no current conditions")
)

const maxResponseBytes = 1 << 20

// Client issues the single weather request per run.
type Client struct {
	httpClient *http.Client
	baseURL    string
	city       string
	lang       string
	logger     *logger.Logger
}

// NewClient creates a weather client from config.
func NewClient(cfg config.WeatherConfig, log *logger.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout()}, log)
}

// NewClientWithHTTP creates a client with an injected http.Client.
func NewClientWithHTTP(cfg config.WeatherConfig, httpClient *http.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		city:       cfg.City,
		lang:       cfg.Lang,
		logger:     log,
	}
}

type textValue struct {
	Value string `json:"value"`
}

// j1Response mirrors the provider's j1 JSON format. All numbers arrive as
// strings.
type j1Response struct {
	CurrentCondition []struct {
		TempC          string      `json:"temp_C"`
		FeelsLikeC     string      `json:"FeelsLikeC"`
		Humidity       string      `json:"humidity"`
		WindspeedKmph  string      `json:"windspeedKmph"`
		Winddir16Point string      `json:"winddir16Point"`
		UVIndex        string      `json:"uvIndex"`
		WeatherDesc    []textValue `json:"weatherDesc"`
		LangZh         []textValue `json:"lang_zh"`
	} `json:"current_condition"`
	Weather []struct {
		MaxTempC  string `json:"maxtempC"`
		MinTempC  string `json:"mintempC"`
		Astronomy []struct {
			Sunrise string `json:"sunrise"`
			Sunset  string `json:"sunset"`
		} `json:"astronomy"`
	} `json:"weather"`
}

// Fetch performs one GET for the configured city and normalizes the first
// current-condition record plus today's forecast into a snapshot.
func (c *Client) Fetch() (*models.WeatherSnapshot, error) {
	endpoint := fmt.Sprintf("%s/%s?format=j1&lang=%s", c.baseURL, url.PathEscape(c.city), url.QueryEscape(c.lang))

	req, err := http.NewRequest(http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
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

	var payload j1Response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(payload.CurrentCondition) == 0 {
		return nil, ErrMissingConditions
	}

	current := payload.CurrentCondition[0]

	// Temperature drives the advisory thresholds, so it must parse.
	tempC, err := strconv.ParseFloat(current.TempC, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad temp_C %q", ErrMalformedResponse, current.TempC)
	}

	snapshot := &models.WeatherSnapshot{
		City:       c.city,
		Condition:  conditionText(current.LangZh, current.WeatherDesc),
		TempC:      tempC,
		FeelsLikeC: parseFloatOr(current.FeelsLikeC, tempC),
		Humidity:   parseIntOr(current.Humidity, 0),
		WindDir:    current.Winddir16Point,
		WindKmph:   parseFloatOr(current.WindspeedKmph, 0),
		UVIndex:    current.UVIndex,
		MaxTempC:   tempC,
		MinTempC:   tempC,
	}

	if len(payload.Weather) > 0 {
		today := payload.Weather[0]
		snapshot.MaxTempC = parseFloatOr(today.MaxTempC, tempC)
		snapshot.MinTempC = parseFloatOr(today.MinTempC, tempC)

		if len(today.Astronomy) > 0 {
			snapshot.Sunrise = today.Astronomy[0].Sunrise
			snapshot.Sunset = today.Astronomy[0].Sunset
		}
	}

	c.logger.Debug("weather fetched", "city", c.city, "condition", snapshot.Condition, "temp_c", snapshot.TempC)

	return snapshot, nil
}

// conditionText prefers the localized description and falls back to English.
func conditionText(localized, english []textValue) string {
	if len(localized) > 0 && localized[0].Value != "" {
		return localized[0].Value
	}

	if len(english) > 0 {
		return english[0].Value
	}

	return ""
}

func parseFloatOr(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}

	return v
}

func parseIntOr(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}

	return v
}
