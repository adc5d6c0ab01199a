package formatter

import (
	"fmt"
	"strings"

	"github.com/asincerity/convertible-bond-reminder/internal/config"
	"github.com/asincerity/convertible-bond-reminder/internal/digest"
)

// ServerChanRenderer renders plain markdown for the personal push channel.
type ServerChanRenderer struct{}

// Channel implements Renderer.
func (r *ServerChanRenderer) Channel() string { return config.ChannelServerChan }

// Render implements Renderer.
func (r *ServerChanRenderer) Render(d *digest.Digest) (string, string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## 📅 %s 可转债申购清单\n\n---\n\n", d.Date)

	if d.Weather != nil {
		r.renderWeather(&sb, d.Weather)
		sb.WriteString("\n---\n\n")
	}

	if len(d.Bonds) == 0 {
		sb.WriteString(NoBondNotice)
		sb.WriteString("\n")
	} else {
		for i, bond := range d.Bonds {
			fmt.Fprintf(&sb, "### %d. %s (%s)\n", i+1, bond.Name, bond.Code)
			fmt.Fprintf(&sb, "- **申购代码**: `%s`\n", bond.ApplyCode)
			fmt.Fprintf(&sb, "- **正股**: %s (%s)\n", bond.StockName, bond.StockCode)
			fmt.Fprintf(&sb, "- **评级**: %s\n\n", bond.Rating)
		}

		sb.WriteString("---\n")
		sb.WriteString("💡 **申购提示**：\n")

		for i, reminder := range d.Reminders {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, reminder)
		}

		fmt.Fprintf(&sb, "\n🔗 查看详情：%s\n", d.ListURL)
	}

	fmt.Fprintf(&sb, "\n⏰ 生成时间：%s\n", d.GeneratedAt)

	return d.Title, sb.String()
}

func (r *ServerChanRenderer) renderWeather(sb *strings.Builder, info *digest.WeatherInfo) {
	if !info.Available {
		fmt.Fprintf(sb, "### 今日天气\n%s\n", WeatherUnavailableNotice)

		return
	}

	s := info.Snapshot

	fmt.Fprintf(sb, "### %s 今日天气（%s）\n", info.Emoji, s.City)
	fmt.Fprintf(sb, "- %s %s（体感 %s）\n", s.Condition, formatTemp(s.TempC), formatTemp(s.FeelsLikeC))
	fmt.Fprintf(sb, "- 湿度 %d%% ｜ 风向 %s %s\n", s.Humidity, s.WindDir, formatKmph(s.WindKmph))
	fmt.Fprintf(sb, "- 最高 %s ／ 最低 %s ｜ 紫外线指数 %s\n", formatTemp(s.MaxTempC), formatTemp(s.MinTempC), s.UVIndex)
	fmt.Fprintf(sb, "- 日出 %s ｜ 日落 %s\n", s.Sunrise, s.Sunset)

	if info.Advisory != "" {
		fmt.Fprintf(sb, "- %s\n", info.Advisory)
	}
}
