package storage

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"tiltclock/internal/core/model"
	"tiltclock/internal/ui/preferences"
)

// Environment keys that override the settings file.
const (
	EnvWeatherURL = "TILTCLOCK_WEATHER_URL"
	EnvLatitude   = "TILTCLOCK_LAT"
	EnvLongitude  = "TILTCLOCK_LON"
)

// Lookup reads one environment value.
type Lookup func(key string) (string, bool)

// EnvLookup returns a lookup over the process environment backed by the
// given .env files. The process environment wins; missing files are
// skipped.
func EnvLookup(files ...string) (Lookup, error) {
	values := map[string]string{}
	for _, file := range files {
		fileValues, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return os.LookupEnv, fmt.Errorf("read env file %s: %w", file, err)
		}
		for key, value := range fileValues {
			if _, exists := values[key]; !exists {
				values[key] = value
			}
		}
	}
	return func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := values[key]
		return value, ok
	}, nil
}

// ApplyEnv overrides the weather endpoint and device location. Latitude and
// longitude only apply together and when both parse.
func ApplyEnv(settings preferences.Settings, lookup Lookup) preferences.Settings {
	if lookup == nil {
		return settings
	}
	if value, ok := lookup(EnvWeatherURL); ok && strings.TrimSpace(value) != "" {
		settings.WeatherURL = strings.TrimSpace(value)
	}

	latText, latOK := lookup(EnvLatitude)
	lonText, lonOK := lookup(EnvLongitude)
	if !latOK || !lonOK {
		return settings
	}
	latitude, latErr := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	longitude, lonErr := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if latErr != nil || lonErr != nil || !validCoordinates(latitude, longitude) {
		return settings
	}
	settings.DeviceLocation = &model.Location{Latitude: latitude, Longitude: longitude}
	return settings
}
