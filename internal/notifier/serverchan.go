package notifier

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/asincerity/convertible-bond-reminder/internal/config"
	"github.com/asincerity/convertible-bond-reminder/internal/logger"
)

// ServerChanNotifier pushes through the personal push provider: a
// form-encoded POST to a per-user endpoint keyed by the secret, answered
// with {code, message} where code 0 means accepted.
type ServerChanNotifier struct {
	httpClient *http.Client
	baseURL    string
	key        string
	logger     *logger.Logger
}

type serverChanResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Channel implements Notifier.
func (n *ServerChanNotifier) Channel() string { return config.ChannelServerChan }

// Send implements Notifier.
func (n *ServerChanNotifier) Send(title, body string) (*Receipt, error) {
	endpoint := fmt.Sprintf("%s/%s.send", n.baseURL, n.key)

	form := url.Values{}
	form.Set("title", title)
	form.Set("desp", body)

	resp, err := n.httpClient.Post(endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	receipt := &Receipt{
		Channel:    n.Channel(),
		StatusCode: resp.StatusCode,
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return receipt, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return receipt, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	var parsed serverChanResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return receipt, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	receipt.ProviderCode = parsed.Code
	receipt.Message = parsed.Message

	if parsed.Code != 0 {
		return receipt, fmt.Errorf("%w: code=%d message=%s", ErrProviderRejected, parsed.Code, parsed.Message)
	}

	n.logger.Debug("push accepted", "channel", n.Channel())

	return receipt, nil
}
