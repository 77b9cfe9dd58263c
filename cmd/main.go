package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"tiltclock/internal/audio"
	"tiltclock/internal/core/alarm"
	"tiltclock/internal/core/clock"
	"tiltclock/internal/core/orientation"
	"tiltclock/internal/core/status"
	"tiltclock/internal/core/stopwatch"
	"tiltclock/internal/core/timer"
	"tiltclock/internal/core/weather"
	"tiltclock/internal/logger"
	"tiltclock/internal/platform"
	"tiltclock/internal/storage"
	"tiltclock/internal/ui/preferences"
	"tiltclock/internal/ui/shell"
	"tiltclock/internal/ui/tray"
	"tiltclock/internal/ui/views"
	"tiltclock/resources"
)

const (
	appName = "Tiltclock"
	appID   = "com.tiltclock.app"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "append logs to this file instead of stderr")
	flag.Parse()

	log, closeLog, err := openLogger(*verbose, *quiet, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tiltclock: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if notifyErr := platform.NotifyRunning(appName); notifyErr != nil {
			log.Error("single instance: %v (%v)", err, notifyErr)
		} else {
			log.Info("already running; asked the open widget to show")
		}
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settingsPath, settings := loadSettings(log)

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.AppIcon())

	source := clock.NewSystem(settings.FrameInterval)
	hub := status.NewHub(source)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sound alarm.Sound
	alert, err := audio.NewAlert(resources.AlertTone(), resources.SampleRate, resources.ChannelCount, log)
	if err != nil {
		log.Warn("audio: alert tone unavailable: %v", err)
	} else {
		sound = alert
	}

	alarmMachine := alarm.New(source, sound, log, settings.AlarmConfig())
	stopwatchMachine := stopwatch.New(source)
	countdown := timer.New(source, platform.NewNotifier(fyneApp), platform.Vibrator{}, log, settings.TimerConfig())
	loader := weather.NewLoader(nil, nil, nil, source, log, settings.WeatherConfig())
	setWeatherSources(loader, settings, source, log)

	alarmView := views.NewAlarmView(alarmMachine, source)
	stopwatchView := views.NewStopwatchView(stopwatchMachine)
	timerView := views.NewTimerView(countdown)
	weatherView := views.NewWeatherView()

	alarmMachine.SetListener(func(snapshot alarm.Snapshot) {
		alarmView.Update(snapshot)
		hub.Publish(status.AlarmEvent(snapshot))
	})
	stopwatchMachine.SetListener(func(snapshot stopwatch.Snapshot) {
		stopwatchView.Update(snapshot)
		hub.Publish(status.StopwatchEvent(snapshot))
	})
	countdown.SetListener(func(snapshot timer.Snapshot) {
		timerView.Update(snapshot)
		hub.Publish(status.TimerEvent(snapshot))
	})
	loader.SetListener(weatherView.Update)

	dispatcher := orientation.NewDispatcher(nil)
	dispatcher.OnTransition(func(transition orientation.Transition) {
		log.Debug("view: %s -> %s (%s)", transition.From, transition.To, transition.Orientation)
		hub.Publish(status.ViewEvent(transition))
		if transition.To == orientation.ViewWeather {
			loader.Trigger(ctx)
		}
	})

	desktopApp, hasTray := fyneApp.(desktop.App)
	shellWindow := shell.New(fyneApp, dispatcher, map[orientation.ViewKey]fyne.CanvasObject{
		orientation.ViewAlarm:     alarmView.Content(),
		orientation.ViewStopwatch: stopwatchView.Content(),
		orientation.ViewTimer:     timerView.Content(),
		orientation.ViewWeather:   weatherView.Content(),
	}, shell.Config{Title: appName, HideOnClose: hasTray}, log)

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		if err := storage.SaveSettings(settingsPath, settings); err != nil {
			log.Error("settings: %v", err)
		}
		alarmMachine.UpdateConfig(settings.AlarmConfig())
		countdown.UpdateConfig(settings.TimerConfig())
		timerView.SetPresets(countdown.Presets())
		loader.UpdateConfig(settings.WeatherConfig())
		setWeatherSources(loader, settings, source, log)
	})

	if hasTray {
		trayManager := tray.New(desktopApp, tray.Callbacks{
			OnShow:        shellWindow.Show,
			OnView:        func(view orientation.ViewKey) { dispatcher.Activate(view) },
			OnStopAlarm:   alarmMachine.Stop,
			OnSnooze:      alarmMachine.Snooze,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(resources.AppIcon())
		shellWindow.SetOnPresent(trayManager.SetActiveView)

		events := hub.Subscribe(16)
		go func() {
			for range events {
				summary := hub.Summary()
				latest, _ := hub.Latest(status.SourceAlarm)
				fyne.Do(func() {
					trayManager.SetStatus(summary)
					trayManager.SetRinging(latest.Ringing)
				})
			}
		}()
	} else {
		log.Debug("system tray unsupported on this platform")
	}

	go guard.Serve(func() {
		fyne.Do(shellWindow.Show)
	})

	stopRotation := shellWindow.WatchRotation(source, shell.DefaultRotationPoll)

	fyneApp.Lifecycle().SetOnStopped(func() {
		cancel()
		stopRotation()
		alarmView.StopClock()
		if sound != nil {
			_ = sound.Stop()
		}
		hub.Close()
	})

	alarmView.StartClock()
	shellWindow.ShowAndRun()
}

func openLogger(verbose, quiet bool, path string) (*logger.Logger, func(), error) {
	level := logger.LevelNormal
	switch {
	case quiet:
		level = logger.LevelOff
	case verbose:
		level = logger.LevelVerbose
	}

	var out io.Writer = os.Stderr
	closeLog := func() {}
	if path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = file
		closeLog = func() { _ = file.Close() }
	}
	return logger.New(level, out), closeLog, nil
}

func loadSettings(log *logger.Logger) (string, preferences.Settings) {
	configDir, err := platform.ConfigDir(appName)
	if err != nil {
		log.Warn("settings: %v; using defaults", err)
		return "", preferences.DefaultSettings()
	}
	settingsPath := storage.SettingsPath(configDir)

	settings, err := storage.LoadSettings(settingsPath)
	if err != nil {
		log.Warn("settings: %v; using defaults", err)
	}

	lookup, err := storage.EnvLookup(".env", filepath.Join(configDir, ".env"))
	if err != nil {
		log.Warn("env: %v", err)
	}
	settings = storage.ApplyEnv(settings, lookup)
	log.Debug("settings: loaded from %s", settingsPath)
	return settingsPath, settings
}

func setWeatherSources(loader *weather.Loader, settings preferences.Settings, source clock.Clock, log *logger.Logger) {
	config := settings.WeatherConfig()
	client := weather.NewClient(config.Endpoint, log, weather.WithHTTPTimeout(config.HTTPTimeout))
	permissions, locator := platform.NewGeolocation(config.DeviceLocation)
	if locator != nil {
		locator = weather.NewCachedLocator(locator, source)
	}
	loader.SetSources(client, permissions, locator)
}
