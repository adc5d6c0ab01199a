// Package digest turns the day's actionable bonds and the optional weather
// snapshot into a single renderable content structure. All informational
// decisions (titles, emoji, advisory thresholds, reminder lines) are made
// here exactly once; per-channel presentation lives in internal/formatter.
package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/asincerity/convertible-bond-reminder/internal/models"
)

// Digest is the renderable unit for one run.
type Digest struct {
	Title       string
	Date        string
	Weather     *WeatherInfo
	Bonds       []models.ActionableBond
	Reminders   []string
	ListURL     string
	GeneratedAt string
}

// WeatherInfo carries the weather section content. Available=false means the
// fetch failed and renderers must emit an explicit placeholder rather than
// dropping the section.
type WeatherInfo struct {
	Available bool
	Emoji     string
	Advisory  string
	Snapshot  models.WeatherSnapshot
}

// Fixed procedural reminders appended under a non-empty bond list.
var subscriptionReminders = []string{
	"开盘时间即可申购（9:30-15:00）",
	"无需市值，中签后再缴款",
	"建议顶格申购（通常1万张）",
}

// conditionEmojis maps condition-text keywords to an emoji, checked in
// priority order: thunder > rain > snow > fog > cloud > sun. A description
// mentioning both rain and cloud therefore resolves to rain. Matching is
// case-insensitive and covers both English and Chinese provider text.
var conditionEmojis = []struct {
	emoji    string
	keywords []string
}{
	{"⛈️", []string{"thunder", "storm", "雷"}},
	{"🌧️", []string{"rain", "drizzle", "shower", "雨"}},
	{"❄️", []string{"snow", "sleet", "blizzard", "雪"}},
	{"🌫️", []string{"fog", "mist", "haze", "雾", "霾"}},
	{"☁️", []string{"cloud", "overcast", "云", "阴"}},
	{"☀️", []string{"sun", "clear", "晴"}},
}

const defaultConditionEmoji = "🌤️"

// Builder assembles digests for one deployment variant.
type Builder struct {
	listURL        string
	weatherEnabled bool
}

// NewBuilder creates a digest builder. listURL is the provider page linked
// from the bond section; weatherEnabled selects between the morning-greeting
// and date-only variants.
func NewBuilder(listURL string, weatherEnabled bool) *Builder {
	return &Builder{
		listURL:        listURL,
		weatherEnabled: weatherEnabled,
	}
}

// Build produces the digest for the given inputs. A nil snapshot under an
// enabled weather section means the fetch failed. Deterministic for fixed
// inputs apart from the embedded timestamp.
func (b *Builder) Build(bonds []models.ActionableBond, snapshot *models.WeatherSnapshot, now time.Time) *Digest {
	d := &Digest{
		Title:       b.title(len(bonds)),
		Date:        now.Format("2006年01月02日"),
		Bonds:       bonds,
		ListURL:     b.listURL,
		GeneratedAt: now.Format("2006-01-02 15:04:05"),
	}

	if len(bonds) > 0 {
		d.Reminders = subscriptionReminders
	}

	if b.weatherEnabled {
		d.Weather = buildWeatherInfo(snapshot)
	}

	return d
}

func (b *Builder) title(count int) string {
	if count == 0 {
		if b.weatherEnabled {
			return "早上好！今日无可转债申购"
		}

		return "今日无可转债申购"
	}

	return fmt.Sprintf("🔔 今日有 %d 只可转债可申购！", count)
}

func buildWeatherInfo(snapshot *models.WeatherSnapshot) *WeatherInfo {
	if snapshot == nil {
		return &WeatherInfo{Available: false}
	}

	return &WeatherInfo{
		Available: true,
		Emoji:     ConditionEmoji(snapshot.Condition),
		Advisory:  TemperatureAdvisory(snapshot.TempC),
		Snapshot:  *snapshot,
	}
}

// ConditionEmoji picks the emoji for a condition description, honoring the
// keyword priority documented on conditionEmojis.
func ConditionEmoji(condition string) string {
	lowered := strings.ToLower(condition)

	for _, entry := range conditionEmojis {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return entry.emoji
			}
		}
	}

	return defaultConditionEmoji
}

// TemperatureAdvisory returns the advisory line for the current temperature.
// Thresholds are strict: 0 falls into the mild-cold branch, 25 and 30 yield
// the next band down.
func TemperatureAdvisory(tempC float64) string {
	switch {
	case tempC < 0:
		return "❄️ 气温已跌破冰点，注意防寒保暖！"
	case tempC < 10:
		return "🧣 天气较冷，出门记得添衣。"
	case tempC > 30:
		return "🥵 高温来袭，注意防暑降温！"
	case tempC > 25:
		return "😎 天气偏热，记得多补水。"
	}

	return ""
}
