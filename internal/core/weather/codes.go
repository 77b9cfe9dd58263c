package weather

import (
	"fmt"
	"math"
)

// Category groups WMO weather codes that share an icon.
type Category string

const (
	CategoryClear        Category = "clear"
	CategoryMostlyClear  Category = "mostly-clear"
	CategoryOvercast     Category = "overcast"
	CategoryFog          Category = "fog"
	CategoryDrizzle      Category = "drizzle"
	CategoryRain         Category = "rain"
	CategorySnow         Category = "snow"
	CategoryShowers      Category = "showers"
	CategoryThunderstorm Category = "thunderstorm"
	CategoryDefault      Category = "default"
)

var categoryCodes = []struct {
	category Category
	codes    []int
}{
	{CategoryClear, []int{0}},
	{CategoryMostlyClear, []int{1, 2}},
	{CategoryOvercast, []int{3}},
	{CategoryFog, []int{45, 48}},
	{CategoryDrizzle, []int{51, 53, 55}},
	{CategoryRain, []int{61, 63, 65}},
	{CategorySnow, []int{71, 73, 75}},
	{CategoryShowers, []int{80, 81, 82}},
	{CategoryThunderstorm, []int{95, 96, 99}},
}

var categoryIcons = map[Category]string{
	CategoryClear:        "☀️",
	CategoryMostlyClear:  "🌤️",
	CategoryOvercast:     "☁️",
	CategoryFog:          "🌫️",
	CategoryDrizzle:      "🌦️",
	CategoryRain:         "🌧️",
	CategorySnow:         "❄️",
	CategoryShowers:      "🌧️",
	CategoryThunderstorm: "⛈️",
	CategoryDefault:      "⛅️",
}

var descriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Heavy drizzle",
	61: "Light rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Light snow",
	73: "Moderate snow",
	75: "Heavy snow",
	80: "Rain showers",
	81: "Rain showers",
	82: "Violent rain showers",
	95: "Thunderstorm",
	96: "Thunderstorm with hail",
	99: "Thunderstorm with hail",
}

// CategoryFor returns the icon group of a WMO code.
func CategoryFor(code int) Category {
	for _, entry := range categoryCodes {
		for _, candidate := range entry.codes {
			if candidate == code {
				return entry.category
			}
		}
	}
	return CategoryDefault
}

// IconFor returns the emoji for a WMO code.
func IconFor(code int) string {
	return categoryIcons[CategoryFor(code)]
}

// Describe returns the condition text for a WMO code, suffixed with the
// rounded wind speed when known.
func Describe(code int, windKph *float64) string {
	text, ok := descriptions[code]
	if !ok {
		text = "Weather"
	}
	if windKph == nil || math.IsNaN(*windKph) {
		return text
	}
	return fmt.Sprintf("%s • %d km/h wind", text, roundHalfUp(*windKph))
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(value float64) int {
	return int(math.Floor(value + 0.5))
}
