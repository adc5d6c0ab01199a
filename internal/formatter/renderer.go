// Package formatter renders a digest into per-channel presentation. The
// informational content is fixed by internal/digest; renderers only decide
// layout and styling, so the two channels cannot drift apart.
package formatter

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/asincerity/convertible-bond-reminder/internal/config"
	"github.com/asincerity/convertible-bond-reminder/internal/digest"
)

// ErrUnknownChannel is returned for a channel without a renderer.
var ErrUnknownChannel = errors.New("no renderer for channel")

// WeatherUnavailableNotice is the placeholder emitted when the weather fetch
// failed. The section is never silently dropped.
const WeatherUnavailableNotice = "🌁 天气数据暂时获取不到，出门前记得看看窗外~"

// NoBondNotice is the body line for a day without subscriptions.
const NoBondNotice = "今天没有新的可转债可以申购哦~\n\n明天见！👋"

// Renderer renders a digest for one delivery channel.
type Renderer interface {
	Channel() string
	Render(d *digest.Digest) (title, body string)
}

// ForChannel returns the renderer for a configured channel name.
func ForChannel(channel string) (Renderer, error) {
	switch channel {
	case config.ChannelServerChan:
		return &ServerChanRenderer{}, nil
	case config.ChannelWeCom:
		return &WeComRenderer{}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
}

// formatTemp renders a Celsius value without trailing zeros.
func formatTemp(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°C"
}

func formatKmph(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "km/h"
}
