package formatter

import (
	"fmt"
	"strings"

	"github.com/asincerity/convertible-bond-reminder/internal/config"
	"github.com/asincerity/convertible-bond-reminder/internal/digest"
)

// WeComRenderer renders blockquote-style markdown with the group-chat
// channel's inline color directives. Field set and ordering match the
// ServerChan renderer exactly; only the styling differs.
type WeComRenderer struct{}

// Channel implements Renderer.
func (r *WeComRenderer) Channel() string { return config.ChannelWeCom }

// Render implements Renderer.
func (r *WeComRenderer) Render(d *digest.Digest) (string, string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## 📅 %s 可转债申购清单\n", d.Date)

	if d.Weather != nil {
		r.renderWeather(&sb, d.Weather)
	}

	if len(d.Bonds) == 0 {
		fmt.Fprintf(&sb, "\n<font color=\"comment\">%s</font>\n", NoBondNotice)
	} else {
		for i, bond := range d.Bonds {
			fmt.Fprintf(&sb, "\n**%d. %s（%s）**\n", i+1, bond.Name, bond.Code)
			fmt.Fprintf(&sb, "> 申购代码：<font color=\"info\">%s</font>\n", bond.ApplyCode)
			fmt.Fprintf(&sb, "> 正股：%s（%s）\n", bond.StockName, bond.StockCode)
			fmt.Fprintf(&sb, "> 评级：%s\n", bond.Rating)
		}

		sb.WriteString("\n**💡 申购提示**\n")

		for i, reminder := range d.Reminders {
			fmt.Fprintf(&sb, "> %d. %s\n", i+1, reminder)
		}

		fmt.Fprintf(&sb, "\n[🔗 查看详情](%s)\n", d.ListURL)
	}

	fmt.Fprintf(&sb, "\n<font color=\"comment\">⏰ 生成时间：%s</font>\n", d.GeneratedAt)

	return d.Title, sb.String()
}

func (r *WeComRenderer) renderWeather(sb *strings.Builder, info *digest.WeatherInfo) {
	if !info.Available {
		fmt.Fprintf(sb, "> <font color=\"warning\">%s</font>\n", WeatherUnavailableNotice)

		return
	}

	s := info.Snapshot

	fmt.Fprintf(sb, "> %s 今日天气（%s）\n", info.Emoji, s.City)
	fmt.Fprintf(sb, "> %s %s（体感 %s）\n", s.Condition, formatTemp(s.TempC), formatTemp(s.FeelsLikeC))
	fmt.Fprintf(sb, "> <font color=\"comment\">湿度 %d%% ｜ 风向 %s %s</font>\n", s.Humidity, s.WindDir, formatKmph(s.WindKmph))
	fmt.Fprintf(sb, "> <font color=\"comment\">最高 %s ／ 最低 %s ｜ 紫外线指数 %s</font>\n", formatTemp(s.MaxTempC), formatTemp(s.MinTempC), s.UVIndex)
	fmt.Fprintf(sb, "> <font color=\"comment\">日出 %s ｜ 日落 %s</font>\n", s.Sunrise, s.Sunset)

	if info.Advisory != "" {
		fmt.Fprintf(sb, "> <font color=\"warning\">%s</font>\n", info.Advisory)
	}
}
