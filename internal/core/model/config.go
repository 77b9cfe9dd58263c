package model

import "time"

// Location is a named coordinate pair.
type Location struct {
	Label     string
	Latitude  float64
	Longitude float64
}

// AlarmConfig contains runtime settings for the alarm state machine.
type AlarmConfig struct {
	SnoozeOffset time.Duration
}

// TimerConfig contains runtime settings for the countdown timer.
type TimerConfig struct {
	Presets          []time.Duration
	VibrationPattern []time.Duration
	NotificationText string
}

// WeatherConfig contains runtime settings for the weather card loader.
type WeatherConfig struct {
	Endpoint       string
	Fallback       Location
	DeviceLocation *Location
	LocateTimeout  time.Duration
	LocateMaxAge   time.Duration
	HTTPTimeout    time.Duration
}
