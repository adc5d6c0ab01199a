package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/asincerity/convertible-bond-reminder/internal/config"
	"github.com/asincerity/convertible-bond-reminder/internal/logger"
)

// WeComNotifier pushes through the group-chat webhook: a JSON POST keyed by
// the secret in the query string, answered with {errcode, errmsg} where
// errcode 0 means accepted.
type WeComNotifier struct {
	httpClient *http.Client
	webhookURL string
	key        string
	logger     *logger.Logger
}

type weComMessage struct {
	MsgType  string `json:"msgtype"`
	Markdown struct {
		Content string `json:"content"`
	} `json:"markdown"`
}

type weComResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Channel implements Notifier.
func (n *WeComNotifier) Channel() string { return config.ChannelWeCom }

// Send implements Notifier. The webhook carries only a markdown content
// field, so the title travels as the first heading of the content.
func (n *WeComNotifier) Send(title, body string) (*Receipt, error) {
	msg := weComMessage{MsgType: "markdown"}
	msg.Markdown.Content = fmt.Sprintf("# %s\n%s", title, body)

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	endpoint := fmt.Sprintf("%s?key=%s", n.webhookURL, url.QueryEscape(n.key))

	resp, err := n.httpClient.Post(endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
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

	var parsed weComResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return receipt, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	receipt.ProviderCode = parsed.ErrCode
	receipt.Message = parsed.ErrMsg

	if parsed.ErrCode != 0 {
		return receipt, fmt.Errorf("%w: errcode=%d errmsg=%s", ErrProviderRejected, parsed.ErrCode, parsed.ErrMsg)
	}

	n.logger.Debug("webhook accepted", "channel", n.Channel())

	return receipt, nil
}
