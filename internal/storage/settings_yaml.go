// Package storage persists tiltclock preferences as YAML and applies
// environment overrides on top.
package storage

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"tiltclock/internal/core/model"
	"tiltclock/internal/ui/preferences"
)

// SettingsFileName is the file kept in the app config directory.
const SettingsFileName = "settings.yaml"

type yamlLocation struct {
	Label     string  `yaml:"label"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type yamlSettings struct {
	SnoozeMinutes      int           `yaml:"snooze_minutes"`
	TimerPresetsSecs   []int         `yaml:"timer_presets_seconds"`
	VibrationMillis    []int         `yaml:"vibration_pattern_ms"`
	Fallback           *yamlLocation `yaml:"fallback_location,omitempty"`
	DeviceLocation     *yamlLocation `yaml:"device_location,omitempty"`
	WeatherURL         string        `yaml:"weather_url"`
	LocateTimeoutSecs  int           `yaml:"locate_timeout_seconds"`
	LocateMaxAgeSecs   int           `yaml:"locate_max_age_seconds"`
	HTTPTimeoutSecs    int           `yaml:"http_timeout_seconds"`
	FrameIntervalMilli int           `yaml:"frame_interval_ms"`
}

// SettingsPath returns the settings file inside dir.
func SettingsPath(dir string) string {
	return filepath.Join(dir, SettingsFileName)
}

// LoadSettings reads user preferences from the YAML file at path.
// If the file does not exist, default settings are returned. Values that
// are out of range keep their defaults.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to the YAML file at path.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fallback := toYamlLocation(settings.Fallback)
	fileData := yamlSettings{
		SnoozeMinutes:      int(settings.SnoozeOffset / time.Minute),
		TimerPresetsSecs:   durationsIn(settings.TimerPresets, time.Second),
		VibrationMillis:    durationsIn(settings.VibrationPattern, time.Millisecond),
		Fallback:           &fallback,
		WeatherURL:         settings.WeatherURL,
		LocateTimeoutSecs:  int(settings.LocateTimeout / time.Second),
		LocateMaxAgeSecs:   int(settings.LocateMaxAge / time.Second),
		HTTPTimeoutSecs:    int(settings.HTTPTimeout / time.Second),
		FrameIntervalMilli: int(settings.FrameInterval / time.Millisecond),
	}
	if settings.DeviceLocation != nil {
		device := toYamlLocation(*settings.DeviceLocation)
		fileData.DeviceLocation = &device
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.SnoozeMinutes > 0 && fileData.SnoozeMinutes <= 60 {
		settings.SnoozeOffset = time.Duration(fileData.SnoozeMinutes) * time.Minute
	}
	if presets := positiveDurations(fileData.TimerPresetsSecs, time.Second, 100*time.Minute); len(presets) > 0 {
		settings.TimerPresets = presets
	}
	if pattern := positiveDurations(fileData.VibrationMillis, time.Millisecond, 5*time.Second); len(pattern) > 0 {
		settings.VibrationPattern = pattern
	}
	if fileData.Fallback != nil && validCoordinates(fileData.Fallback.Latitude, fileData.Fallback.Longitude) {
		settings.Fallback = fromYamlLocation(*fileData.Fallback, settings.Fallback.Label)
	}
	if fileData.DeviceLocation != nil && validCoordinates(fileData.DeviceLocation.Latitude, fileData.DeviceLocation.Longitude) {
		device := fromYamlLocation(*fileData.DeviceLocation, "")
		settings.DeviceLocation = &device
	}
	if fileData.WeatherURL != "" {
		settings.WeatherURL = fileData.WeatherURL
	}
	if fileData.LocateTimeoutSecs > 0 && fileData.LocateTimeoutSecs <= 60 {
		settings.LocateTimeout = time.Duration(fileData.LocateTimeoutSecs) * time.Second
	}
	if fileData.LocateMaxAgeSecs > 0 {
		settings.LocateMaxAge = time.Duration(fileData.LocateMaxAgeSecs) * time.Second
	}
	if fileData.HTTPTimeoutSecs > 0 && fileData.HTTPTimeoutSecs <= 120 {
		settings.HTTPTimeout = time.Duration(fileData.HTTPTimeoutSecs) * time.Second
	}
	if fileData.FrameIntervalMilli >= 4 && fileData.FrameIntervalMilli <= 1000 {
		settings.FrameInterval = time.Duration(fileData.FrameIntervalMilli) * time.Millisecond
	}
}

func positiveDurations(values []int, unit, max time.Duration) []time.Duration {
	var out []time.Duration
	for _, value := range values {
		d := time.Duration(value) * unit
		if value > 0 && d <= max {
			out = append(out, d)
		}
	}
	return out
}

func durationsIn(values []time.Duration, unit time.Duration) []int {
	out := make([]int, 0, len(values))
	for _, value := range values {
		out = append(out, int(value/unit))
	}
	return out
}

func validCoordinates(latitude, longitude float64) bool {
	return !math.IsNaN(latitude) && !math.IsNaN(longitude) &&
		latitude >= -90 && latitude <= 90 && longitude >= -180 && longitude <= 180
}

func toYamlLocation(location model.Location) yamlLocation {
	return yamlLocation{Label: location.Label, Latitude: location.Latitude, Longitude: location.Longitude}
}

func fromYamlLocation(location yamlLocation, defaultLabel string) model.Location {
	label := location.Label
	if label == "" {
		label = defaultLabel
	}
	return model.Location{Label: label, Latitude: location.Latitude, Longitude: location.Longitude}
}
