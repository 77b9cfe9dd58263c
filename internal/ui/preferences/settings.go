package preferences

import (
	"time"

	"tiltclock/internal/core/alarm"
	"tiltclock/internal/core/clock"
	"tiltclock/internal/core/model"
	"tiltclock/internal/core/timer"
	"tiltclock/internal/core/weather"
)

// Settings defines editable user preferences. Widget state such as alarms,
// running timers and laps is never part of it.
type Settings struct {
	SnoozeOffset     time.Duration
	TimerPresets     []time.Duration
	VibrationPattern []time.Duration

	Fallback       model.Location
	DeviceLocation *model.Location
	WeatherURL     string
	LocateTimeout  time.Duration
	LocateMaxAge   time.Duration
	HTTPTimeout    time.Duration

	FrameInterval time.Duration
}

// DefaultSettings returns default settings for tiltclock.
func DefaultSettings() Settings {
	return Settings{
		SnoozeOffset:     alarm.DefaultSnooze,
		TimerPresets:     []time.Duration{time.Minute, 3 * time.Minute, 5 * time.Minute, 10 * time.Minute},
		VibrationPattern: append([]time.Duration(nil), timer.DefaultVibration...),
		Fallback:         weather.DefaultFallback,
		WeatherURL:       weather.DefaultEndpoint,
		LocateTimeout:    5 * time.Second,
		LocateMaxAge:     5 * time.Minute,
		HTTPTimeout:      10 * time.Second,
		FrameInterval:    clock.DefaultFrameInterval,
	}
}

// AlarmConfig converts settings to AlarmConfig.
func (settings Settings) AlarmConfig() model.AlarmConfig {
	return model.AlarmConfig{SnoozeOffset: settings.SnoozeOffset}
}

// TimerConfig converts settings to TimerConfig.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		Presets:          append([]time.Duration(nil), settings.TimerPresets...),
		VibrationPattern: append([]time.Duration(nil), settings.VibrationPattern...),
	}
}

// WeatherConfig converts settings to WeatherConfig.
func (settings Settings) WeatherConfig() model.WeatherConfig {
	config := model.WeatherConfig{
		Endpoint:      settings.WeatherURL,
		Fallback:      settings.Fallback,
		LocateTimeout: settings.LocateTimeout,
		LocateMaxAge:  settings.LocateMaxAge,
		HTTPTimeout:   settings.HTTPTimeout,
	}
	if settings.DeviceLocation != nil {
		device := *settings.DeviceLocation
		config.DeviceLocation = &device
	}
	return config
}
