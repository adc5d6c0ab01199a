package notifier

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asincerity/convertible-bond-reminder/internal/config"
	"github.com/asincerity/convertible-bond-reminder/internal/logger"
)

func newNotifier(t *testing.T, channel string, handler http.HandlerFunc) Notifier {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default().Notify
	cfg.Channel = channel
	cfg.Secret = "test-key"
	cfg.ServerChanURL = server.URL
	cfg.WeComURL = server.URL

	n, err := NewWithHTTP(cfg, server.Client(), logger.Nop())
	require.NoError(t, err)

	return n
}

func TestNew_UnknownChannel(t *testing.T) {
	cfg := config.Default().Notify
	cfg.Channel = "pigeon"

	_, err := New(cfg, logger.Nop())
	require.ErrorIs(t, err, ErrUnknownChannel)
}

func TestServerChan_Send(t *testing.T) {
	var gotPath, gotTitle, gotDesp string

	n := newNotifier(t, config.ChannelServerChan, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		gotTitle = form.Get("title")
		gotDesp = form.Get("desp")

		w.Write([]byte(`{"code": 0, "message": ""}`))
	})

	receipt, err := n.Send("今日标题", "正文内容")
	require.NoError(t, err)

	assert.Equal(t, "/test-key.send", gotPath)
	assert.Equal(t, "今日标题", gotTitle)
	assert.Equal(t, "正文内容", gotDesp)
	assert.Equal(t, 0, receipt.ProviderCode)
	assert.Equal(t, http.StatusOK, receipt.StatusCode)
}

func TestServerChan_ProviderRejection(t *testing.T) {
	n := newNotifier(t, config.ChannelServerChan, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 40001, "message": "bad key"}`))
	})

	receipt, err := n.Send("t", "b")
	require.ErrorIs(t, err, ErrProviderRejected)
	require.NotNil(t, receipt)
	assert.Equal(t, 40001, receipt.ProviderCode)
	assert.Equal(t, "bad key", receipt.Message)
}

func TestWeCom_Send(t *testing.T) {
	var gotKey, gotBody string

	n := newNotifier(t, config.ChannelWeCom, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")

		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Write([]byte(`{"errcode": 0, "errmsg": "ok"}`))
	})

	receipt, err := n.Send("今日标题", "正文内容")
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotBody, `"msgtype":"markdown"`)
	assert.Contains(t, gotBody, "今日标题")
	assert.Contains(t, gotBody, "正文内容")
	assert.Equal(t, 0, receipt.ProviderCode)
	assert.Equal(t, "ok", receipt.Message)
}

func TestWeCom_ProviderRejection(t *testing.T) {
	n := newNotifier(t, config.ChannelWeCom, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errcode": 93000, "errmsg": "invalid webhook key"}`))
	})

	receipt, err := n.Send("t", "b")
	require.ErrorIs(t, err, ErrProviderRejected)
	require.NotNil(t, receipt)
	assert.Equal(t, 93000, receipt.ProviderCode)
}

func TestSend_TransportFailures(t *testing.T) {
	for _, channel := range []string{config.ChannelServerChan, config.ChannelWeCom} {
		t.Run(channel, func(t *testing.T) {
			t.Run("non-2xx status", func(t *testing.T) {
				n := newNotifier(t, channel, func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusServiceUnavailable)
				})

				receipt, err := n.Send("t", "b")
				require.ErrorIs(t, err, ErrUnexpectedStatusCode)
				require.NotNil(t, receipt)
				assert.Equal(t, http.StatusServiceUnavailable, receipt.StatusCode)
			})

			t.Run("malformed response", func(t *testing.T) {
				n := newNotifier(t, channel, func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`<html>oops</html>`))
				})

				_, err := n.Send("t", "b")
				require.ErrorIs(t, err, ErrMalformedResponse)
			})
		})
	}
}
