package views

import (
	"image/color"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiltclock/internal/core/alarm"
	"tiltclock/internal/core/clock"
	"tiltclock/internal/core/model"
	"tiltclock/internal/core/stopwatch"
	"tiltclock/internal/core/timer"
	"tiltclock/internal/core/weather"
	"tiltclock/internal/logger"
)

var start = time.Date(2026, 3, 14, 7, 29, 0, 0, time.UTC)

func newFake() *clock.Fake {
	fake := clock.NewFake(start)
	fake.SetFrameInterval(10 * time.Millisecond)
	return fake
}

// newTestApp installs the default theme so bold and monospace text can be
// measured by the test painter.
func newTestApp(t *testing.T) {
	t.Helper()
	app := test.NewTempApp(t)
	app.Settings().SetTheme(theme.DefaultTheme())
}

func TestDisplayTextIsMonospace(t *testing.T) {
	label := displayText("00:00", 40)
	assert.Equal(t, fyne.TextStyle{Monospace: true}, label.TextStyle)
}

func TestAlarmViewSubmitAndRing(t *testing.T) {
	newTestApp(t)

	fake := newFake()
	a := alarm.New(fake, nil, logger.Discard(), model.AlarmConfig{})
	view := NewAlarmView(a, fake)
	a.SetListener(view.Update)
	test.NewWindow(view.Content())

	test.Type(view.entry, "07:30")
	test.Tap(view.setButton)
	assert.Equal(t, alarm.StateScheduled, a.Snapshot().State)
	assert.Contains(t, view.status.Text, "Alarm set for 07:30")
	assert.False(t, view.ringing.Visible())

	fake.Advance(time.Minute)
	assert.Equal(t, "Alarm ringing!", view.status.Text)
	assert.True(t, view.ringing.Visible())

	test.Tap(view.snoozeButton)
	assert.Equal(t, alarm.StateScheduled, a.Snapshot().State)
	assert.False(t, view.ringing.Visible())

	test.Tap(view.clearButton)
	assert.Equal(t, "Alarm cleared", view.status.Text)
}

func TestAlarmViewIgnoresBadInput(t *testing.T) {
	newTestApp(t)

	fake := newFake()
	a := alarm.New(fake, nil, logger.Discard(), model.AlarmConfig{})
	view := NewAlarmView(a, fake)
	a.SetListener(view.Update)

	test.Type(view.entry, "25:99")
	test.Tap(view.setButton)
	assert.Equal(t, alarm.StateIdle, a.Snapshot().State)
	assert.Empty(t, view.status.Text)
}

func TestAlarmViewClockTicks(t *testing.T) {
	newTestApp(t)

	fake := newFake()
	view := NewAlarmView(alarm.New(fake, nil, logger.Discard(), model.AlarmConfig{}), fake)
	assert.Equal(t, "07:29:00", view.clockText.Text)

	view.StartClock()
	fake.Advance(1500 * time.Millisecond)
	assert.Equal(t, "07:29:01", view.clockText.Text)

	view.StopClock()
	assert.Zero(t, fake.Pending())
	fake.Advance(time.Minute)
	assert.Equal(t, "07:29:01", view.clockText.Text)
}

func TestStopwatchViewControls(t *testing.T) {
	newTestApp(t)

	fake := newFake()
	sw := stopwatch.New(fake)
	view := NewStopwatchView(sw)
	sw.SetListener(view.Update)
	assert.Equal(t, stopwatch.ZeroDisplay, view.display.Text)

	test.Tap(view.toggle)
	assert.Equal(t, "Pause", view.toggle.Text)
	fake.Advance(1234 * time.Millisecond)
	assert.Equal(t, "00:01.23", view.display.Text)

	test.Tap(view.lapButton)
	test.Tap(view.lapButton)
	require.Len(t, view.laps, 2)
	assert.Equal(t, 2, view.lapList.Length())
	assert.Equal(t, "Lap 2", LapLabel(view.laps[0]))

	test.Tap(view.toggle)
	assert.Equal(t, "Start", view.toggle.Text)

	test.Tap(view.resetButton)
	assert.Equal(t, stopwatch.ZeroDisplay, view.display.Text)
	assert.Zero(t, view.lapList.Length())
}

func TestTimerViewCountdown(t *testing.T) {
	newTestApp(t)

	fake := newFake()
	tm := timer.New(fake, nil, nil, logger.Discard(), model.TimerConfig{Presets: []time.Duration{3 * time.Minute, 30 * time.Second}})
	view := NewTimerView(tm)
	tm.SetListener(view.Update)

	test.Tap(view.toggle)
	assert.Equal(t, "Set a duration first", view.status.Text)

	test.Type(view.seconds, "3")
	test.Tap(view.toggle)
	assert.Equal(t, "Pause", view.toggle.Text)
	assert.Equal(t, "Running…", view.status.Text)

	fake.Advance(1500 * time.Millisecond)
	assert.Equal(t, "00:02", view.display.Text)
	assert.InDelta(t, 0.5, view.Progress(), 0.01)

	test.Tap(view.toggle)
	assert.Equal(t, "Resume", view.toggle.Text)
	test.Tap(view.toggle)

	fake.Advance(2 * time.Second)
	assert.Equal(t, "Time is up!", view.status.Text)
	assert.Equal(t, "00:00", view.display.Text)
	assert.True(t, view.toggle.Disabled())
	assert.InDelta(t, 1.0, view.Progress(), 0.001)

	test.Tap(view.resetButton)
	assert.False(t, view.toggle.Disabled())
	assert.Zero(t, view.Progress())
}

func TestTimerViewPresets(t *testing.T) {
	newTestApp(t)

	fake := newFake()
	tm := timer.New(fake, nil, nil, logger.Discard(), model.TimerConfig{Presets: []time.Duration{3 * time.Minute, 30 * time.Second}})
	view := NewTimerView(tm)
	tm.SetListener(view.Update)
	require.Len(t, view.presets.Objects, 2)

	button := view.presets.Objects[0].(*widget.Button)
	assert.Equal(t, "3 min", button.Text)
	test.Tap(button)
	assert.Equal(t, "3", view.minutes.Text)
	assert.Equal(t, "0", view.seconds.Text)
	assert.Equal(t, "03:00", view.display.Text)
	assert.Zero(t, view.Progress())

	assert.Equal(t, "30 sec", PresetLabel(30*time.Second))
	assert.Equal(t, "01:30", PresetLabel(90*time.Second))
}

func TestTimerRingPixels(t *testing.T) {
	newTestApp(t)

	view := NewTimerView(timer.New(newFake(), nil, nil, logger.Discard(), model.TimerConfig{}))
	top := func() any { return view.ringImage(220, 220).At(110, 8) }

	assert.Equal(t, mutedColor, top())
	view.Render(timer.Snapshot{State: timer.StateRunning, Total: time.Minute, Remaining: 30 * time.Second})
	assert.Equal(t, accentColor, top())
	assert.Equal(t, mutedColor, view.ringImage(220, 220).At(8, 110))
	assert.Equal(t, color.Transparent, ringPixel(0, 0, 220, 220, 0.5))
	assert.Equal(t, accentColor, ringPixel(150, 8, 300, 220, 0.5))
}

func TestWeatherViewCards(t *testing.T) {
	newTestApp(t)

	view := NewWeatherView()
	assert.Equal(t, "Loading…", view.description.Text)

	view.Render(weather.UnavailableCard())
	assert.Equal(t, "Weather unavailable", view.location.Text)
	assert.Equal(t, "Check connection", view.description.Text)
	assert.Empty(t, view.temperature.Text)
	assert.False(t, view.extrasBox.Visible())

	card := weather.Snapshot{
		LocationLabel:               "Your location",
		TemperatureC:                22,
		ConditionCode:               61,
		WindKph:                     12.6,
		HighC:                       24,
		LowC:                        14,
		UVIndexMax:                  7,
		FeelsLikeC:                  23,
		PrecipitationProbabilityPct: 72,
	}.Card()
	view.Render(card)
	assert.Equal(t, "22°", view.temperature.Text)
	assert.Equal(t, "🌧️", view.icon.Text)
	assert.Equal(t, "72%", view.extras["Precip"].Text)
	assert.Equal(t, "24°", view.extras["High"].Text)
	assert.True(t, view.extrasBox.Visible())
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "07:05:09", FormatClock(time.Date(2026, 1, 1, 7, 5, 9, 0, time.UTC)))
}
