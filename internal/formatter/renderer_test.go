package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asincerity/convertible-bond-reminder/internal/config"
	"github.com/asincerity/convertible-bond-reminder/internal/digest"
	"github.com/asincerity/convertible-bond-reminder/internal/models"
)

var renderClock = time.Date(2024, 3, 15, 8, 30, 0, 0, time.Local)

func sampleDigest(t *testing.T) *digest.Digest {
	t.Helper()

	builder := digest.NewBuilder("https://bonds.example/list/", true)
	bonds := []models.ActionableBond{
		{Name: "甲转债", Code: "113001", StockName: "甲股份", StockCode: "600001", Rating: "AA+", ApplyCode: "754001"},
		{Name: "乙转债", Code: "123002", StockName: "乙科技", StockCode: "300002", Rating: "AA-", ApplyCode: "370002"},
	}
	snapshot := &models.WeatherSnapshot{
		City: "Shanghai", Condition: "多云", TempC: 27, FeelsLikeC: 29,
		Humidity: 61, WindDir: "SSE", WindKmph: 12, MaxTempC: 31, MinTempC: 24,
		UVIndex: "5", Sunrise: "05:32 AM", Sunset: "06:47 PM",
	}

	return builder.Build(bonds, snapshot, renderClock)
}

func TestForChannel(t *testing.T) {
	serverchan, err := ForChannel(config.ChannelServerChan)
	require.NoError(t, err)
	assert.Equal(t, config.ChannelServerChan, serverchan.Channel())

	wecom, err := ForChannel(config.ChannelWeCom)
	require.NoError(t, err)
	assert.Equal(t, config.ChannelWeCom, wecom.Channel())

	_, err = ForChannel("pigeon")
	require.ErrorIs(t, err, ErrUnknownChannel)
}

// Every informational value must appear in both channel renditions; only the
// styling may differ.
func TestRender_InformationParityAcrossChannels(t *testing.T) {
	d := sampleDigest(t)

	sharedContent := []string{
		"2024年03月15日",
		"甲转债", "113001", "754001", "甲股份", "600001", "AA+",
		"乙转债", "123002", "370002", "乙科技", "300002", "AA-",
		"多云", "27°C", "29°C", "61%", "SSE", "12km/h",
		"31°C", "24°C", "5", "05:32 AM", "06:47 PM",
		"😎", // warm advisory at 27°C
		"开盘时间即可申购（9:30-15:00）",
		"无需市值，中签后再缴款",
		"建议顶格申购（通常1万张）",
		"https://bonds.example/list/",
		"2024-03-15 08:30:00",
	}

	for _, channel := range []string{config.ChannelServerChan, config.ChannelWeCom} {
		t.Run(channel, func(t *testing.T) {
			renderer, err := ForChannel(channel)
			require.NoError(t, err)

			title, body := renderer.Render(d)
			assert.Equal(t, d.Title, title)

			for _, want := range sharedContent {
				assert.Contains(t, body, want)
			}

			// Bond one is listed before bond two in both channels.
			assert.Less(t, strings.Index(body, "甲转债"), strings.Index(body, "乙转债"))
			// Weather precedes the bond section.
			assert.Less(t, strings.Index(body, "多云"), strings.Index(body, "甲转债"))
		})
	}
}

func TestRender_ChannelStyling(t *testing.T) {
	d := sampleDigest(t)

	_, serverchanBody := (&ServerChanRenderer{}).Render(d)
	assert.Contains(t, serverchanBody, "### 1. 甲转债 (113001)")
	assert.NotContains(t, serverchanBody, "<font")

	_, wecomBody := (&WeComRenderer{}).Render(d)
	assert.Contains(t, wecomBody, `<font color="info">754001</font>`)
	assert.Contains(t, wecomBody, "> ")
}

func TestRender_WeatherUnavailablePlaceholder(t *testing.T) {
	builder := digest.NewBuilder("https://bonds.example/list/", true)
	d := builder.Build(nil, nil, renderClock)

	for _, channel := range []string{config.ChannelServerChan, config.ChannelWeCom} {
		renderer, err := ForChannel(channel)
		require.NoError(t, err)

		_, body := renderer.Render(d)
		assert.Contains(t, body, WeatherUnavailableNotice)
	}
}

func TestRender_NoBondNotice(t *testing.T) {
	builder := digest.NewBuilder("https://bonds.example/list/", false)
	d := builder.Build(nil, nil, renderClock)

	renderer := &ServerChanRenderer{}

	_, body := renderer.Render(d)
	assert.Contains(t, body, "今天没有新的可转债可以申购哦~")
	assert.NotContains(t, body, "申购提示")
}

// Rendering is byte-identical across calls; the timestamp comes from the
// digest, not from the renderer.
func TestRender_Idempotent(t *testing.T) {
	d := sampleDigest(t)

	for _, channel := range []string{config.ChannelServerChan, config.ChannelWeCom} {
		renderer, err := ForChannel(channel)
		require.NoError(t, err)

		title1, body1 := renderer.Render(d)
		title2, body2 := renderer.Render(d)
		assert.Equal(t, title1, title2)
		assert.Equal(t, body1, body2)
	}
}
