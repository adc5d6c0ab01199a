package models

// WeatherSnapshot is the normalized projection of the weather provider's
// current-condition and today-forecast records for the configured city.
type WeatherSnapshot struct {
	City       string
	Condition  string
	TempC      float64
	FeelsLikeC float64
	Humidity   int
	WindDir    string
	WindKmph   float64
	MaxTempC   float64
	MinTempC   float64
	UVIndex    string
	Sunrise    string
	Sunset     string
}
