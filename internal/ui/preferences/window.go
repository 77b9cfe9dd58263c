package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"tiltclock/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	onCancel      func()
	snooze        *widget.Entry
	presets       *widget.Entry
	fallbackLabel *widget.Entry
	fallbackLat   *widget.Entry
	fallbackLon   *widget.Entry
	deviceCheck   *widget.Check
	deviceLat     *widget.Entry
	deviceLon     *widget.Entry
	weatherURL    *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Tiltclock Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		snooze:        widget.NewEntry(),
		presets:       widget.NewEntry(),
		fallbackLabel: widget.NewEntry(),
		fallbackLat:   widget.NewEntry(),
		fallbackLon:   widget.NewEntry(),
		deviceLat:     widget.NewEntry(),
		deviceLon:     widget.NewEntry(),
		weatherURL:    widget.NewEntry(),
	}
	prefs.presets.SetPlaceHolder("1, 3, 5, 10 or 0:30")
	prefs.deviceCheck = widget.NewCheck("Use a fixed device location", func(checked bool) {
		prefs.setDeviceEnabled(checked)
	})

	form := container.NewVBox(
		widget.NewLabelWithStyle("Alarm and timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Snooze for"), prefs.snooze, widget.NewLabel("min")),
		widget.NewLabel("Timer presets (minutes or m:ss)"),
		prefs.presets,
		widget.NewLabelWithStyle("Weather", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Fallback location"),
		prefs.fallbackLabel,
		container.NewGridWithColumns(2, prefs.fallbackLat, prefs.fallbackLon),
		prefs.deviceCheck,
		container.NewGridWithColumns(2, prefs.deviceLat, prefs.deviceLon),
		widget.NewLabel("Forecast endpoint"),
		prefs.weatherURL,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 480))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetOnCancel registers a callback for the Cancel button.
func (prefs *Window) SetOnCancel(onCancel func()) {
	prefs.onCancel = onCancel
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.snooze.SetText(strconv.Itoa(int(settings.SnoozeOffset / time.Minute)))
	prefs.presets.SetText(FormatPresets(settings.TimerPresets))
	prefs.fallbackLabel.SetText(settings.Fallback.Label)
	prefs.fallbackLat.SetText(formatCoordinate(settings.Fallback.Latitude))
	prefs.fallbackLon.SetText(formatCoordinate(settings.Fallback.Longitude))
	prefs.weatherURL.SetText(settings.WeatherURL)

	device := settings.DeviceLocation
	prefs.deviceCheck.SetChecked(device != nil)
	if device != nil {
		prefs.deviceLat.SetText(formatCoordinate(device.Latitude))
		prefs.deviceLon.SetText(formatCoordinate(device.Longitude))
	} else {
		prefs.deviceLat.SetText("")
		prefs.deviceLon.SetText("")
	}
	prefs.setDeviceEnabled(device != nil)
}

func (prefs *Window) setDeviceEnabled(enabled bool) {
	for _, entry := range []*widget.Entry{prefs.deviceLat, prefs.deviceLon} {
		if enabled {
			entry.Enable()
		} else {
			entry.Disable()
		}
	}
}

func (prefs *Window) handleSave() {
	prefs.settings = prefs.collect()
	if prefs.onSave != nil {
		prefs.onSave(prefs.settings)
	}
	prefs.window.Hide()
}

// collect reads the form over the current settings. Fields that do not
// parse keep their previous value.
func (prefs *Window) collect() Settings {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.snooze.Text); ok {
		settings.SnoozeOffset = time.Duration(minutes) * time.Minute
	}
	if presets, err := ParsePresets(prefs.presets.Text); err == nil && len(presets) > 0 {
		settings.TimerPresets = presets
	}

	if label := strings.TrimSpace(prefs.fallbackLabel.Text); label != "" {
		settings.Fallback.Label = label
	}
	if lat, lon, ok := parseCoordinates(prefs.fallbackLat.Text, prefs.fallbackLon.Text); ok {
		settings.Fallback.Latitude = lat
		settings.Fallback.Longitude = lon
	}

	settings.DeviceLocation = nil
	if prefs.deviceCheck.Checked {
		if lat, lon, ok := parseCoordinates(prefs.deviceLat.Text, prefs.deviceLon.Text); ok {
			settings.DeviceLocation = &model.Location{Latitude: lat, Longitude: lon}
		}
	}

	if endpoint := strings.TrimSpace(prefs.weatherURL.Text); endpoint != "" {
		settings.WeatherURL = endpoint
	}
	return settings
}

// ParsePresets reads a comma-separated list of "M" or "M:SS" durations.
func ParsePresets(value string) ([]time.Duration, error) {
	var presets []time.Duration
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		minuteText, secondText, hasSeconds := strings.Cut(item, ":")
		minutes, err := strconv.Atoi(minuteText)
		if err != nil || minutes < 0 {
			return nil, fmt.Errorf("preset %q: bad minutes", item)
		}
		seconds := 0
		if hasSeconds {
			seconds, err = strconv.Atoi(secondText)
			if err != nil || seconds < 0 || seconds > 59 {
				return nil, fmt.Errorf("preset %q: bad seconds", item)
			}
		}
		d := time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
		if d <= 0 {
			return nil, fmt.Errorf("preset %q: must be positive", item)
		}
		presets = append(presets, d)
	}
	return presets, nil
}

// FormatPresets is the inverse of ParsePresets.
func FormatPresets(presets []time.Duration) string {
	items := make([]string, 0, len(presets))
	for _, preset := range presets {
		minutes := int(preset / time.Minute)
		seconds := int(preset%time.Minute) / int(time.Second)
		if seconds == 0 {
			items = append(items, strconv.Itoa(minutes))
			continue
		}
		items = append(items, fmt.Sprintf("%d:%02d", minutes, seconds))
	}
	return strings.Join(items, ", ")
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func parseCoordinates(latText, lonText string) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
