// Package notifier delivers a rendered digest through one of the two
// supported webhook shapes.
package notifier

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/asincerity/convertible-bond-reminder/internal/config"
	"github.com/asincerity/convertible-bond-reminder/internal/logger"
)

// Delivery errors. The pipeline logs them and continues; none of them stops
// the run.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrMalformedResponse    = errors.New("malformed provider response")
	ErrProviderRejected     = errors.New("provider rejected the message")
	ErrUnknownChannel       = errors.New("unknown delivery channel")
)

const maxResponseBytes = 256 << 10

// Receipt records the provider's answer to one delivery attempt.
type Receipt struct {
	Channel      string
	StatusCode   int
	ProviderCode int
	Message      string
}

// Notifier sends one rendered digest. Single attempt, bounded timeout.
type Notifier interface {
	Channel() string
	Send(title, body string) (*Receipt, error)
}

// New creates the notifier for the configured channel.
func New(cfg config.NotifyConfig, log *logger.Logger) (Notifier, error) {
	return NewWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout()}, log)
}

// NewWithHTTP creates a notifier with an injected http.Client.
func NewWithHTTP(cfg config.NotifyConfig, httpClient *http.Client, log *logger.Logger) (Notifier, error) {
	switch cfg.Channel {
	case config.ChannelServerChan:
		return &ServerChanNotifier{
			httpClient: httpClient,
			baseURL:    cfg.ServerChanURL,
			key:        cfg.Secret,
			logger:     log,
		}, nil
	case config.ChannelWeCom:
		return &WeComNotifier{
			httpClient: httpClient,
			webhookURL: cfg.WeComURL,
			key:        cfg.Secret,
			logger:     log,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, cfg.Channel)
}
