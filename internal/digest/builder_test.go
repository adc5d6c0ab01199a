package digest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asincerity/convertible-bond-reminder/internal/models"
)

var buildClock = time.Date(2024, 3, 15, 8, 30, 0, 0, time.Local)

func TestTitle_CountPolicy(t *testing.T) {
	builder := NewBuilder("https://bonds.example/", true)

	t.Run("zero bonds never mentions a count", func(t *testing.T) {
		d := builder.Build(nil, nil, buildClock)
		assert.Equal(t, "早上好！今日无可转债申购", d.Title)

		for n := 1; n <= 9; n++ {
			assert.NotContains(t, d.Title, fmt.Sprintf("%d", n))
		}
	})

	t.Run("nonzero count appears literally", func(t *testing.T) {
		bonds := []models.ActionableBond{
			{Name: "甲转债"}, {Name: "乙转债"}, {Name: "丙转债"},
		}

		d := builder.Build(bonds, nil, buildClock)
		assert.Contains(t, d.Title, "3")
	})

	t.Run("date-only variant uses the plain no-bond title", func(t *testing.T) {
		dateOnly := NewBuilder("https://bonds.example/", false)

		d := dateOnly.Build(nil, nil, buildClock)
		assert.Equal(t, "今日无可转债申购", d.Title)
		assert.Nil(t, d.Weather)
	})
}

func TestBuild_WeatherSection(t *testing.T) {
	builder := NewBuilder("https://bonds.example/", true)

	t.Run("failed fetch keeps an unavailable section", func(t *testing.T) {
		d := builder.Build(nil, nil, buildClock)
		require.NotNil(t, d.Weather)
		assert.False(t, d.Weather.Available)
	})

	t.Run("snapshot populates emoji and advisory", func(t *testing.T) {
		snapshot := &models.WeatherSnapshot{Condition: "小雨", TempC: 8}

		d := builder.Build(nil, snapshot, buildClock)
		require.NotNil(t, d.Weather)
		assert.True(t, d.Weather.Available)
		assert.Equal(t, "🌧️", d.Weather.Emoji)
		assert.NotEmpty(t, d.Weather.Advisory)
	})
}

func TestBuild_RemindersOnlyWithBonds(t *testing.T) {
	builder := NewBuilder("https://bonds.example/", false)

	assert.Empty(t, builder.Build(nil, nil, buildClock).Reminders)
	assert.Len(t, builder.Build([]models.ActionableBond{{Name: "甲"}}, nil, buildClock).Reminders, 3)
}

func TestTemperatureAdvisory_BoundaryExact(t *testing.T) {
	tests := []struct {
		tempC float64
		want  string
	}{
		{-0.1, "❄️ 气温已跌破冰点，注意防寒保暖！"},
		// Exactly 0 is not below zero; it lands in the mild-cold band.
		{0, "🧣 天气较冷，出门记得添衣。"},
		{9.9, "🧣 天气较冷，出门记得添衣。"},
		{10, ""},
		// Exactly 25 triggers nothing.
		{25, ""},
		{25.1, "😎 天气偏热，记得多补水。"},
		// Exactly 30 is not above 30; it stays in the warm band.
		{30, "😎 天气偏热，记得多补水。"},
		{30.1, "🥵 高温来袭，注意防暑降温！"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1f", tt.tempC), func(t *testing.T) {
			assert.Equal(t, tt.want, TemperatureAdvisory(tt.tempC))
		})
	}
}

func TestConditionEmoji(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		want      string
	}{
		{"english rain", "Light rain", "🌧️"},
		{"case insensitive", "RAIN SHOWERS", "🌧️"},
		{"rain outranks cloud", "Cloudy with rain", "🌧️"},
		{"thunder outranks rain", "Thundery outbreaks with rain", "⛈️"},
		{"chinese rain plus cloud", "多云转小雨", "🌧️"},
		{"snow", "大雪", "❄️"},
		{"fog", "Mist", "🌫️"},
		{"cloud", "阴天", "☁️"},
		{"clear", "Clear", "☀️"},
		{"chinese sunny", "晴", "☀️"},
		{"unknown falls back", "Sandstorm", "🌤️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConditionEmoji(tt.condition))
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	builder := NewBuilder("https://bonds.example/", true)
	bonds := []models.ActionableBond{{Name: "甲转债", Code: "113001"}}
	snapshot := &models.WeatherSnapshot{Condition: "晴", TempC: 22}

	first := builder.Build(bonds, snapshot, buildClock)
	second := builder.Build(bonds, snapshot, buildClock)
	assert.Equal(t, first, second)
}
