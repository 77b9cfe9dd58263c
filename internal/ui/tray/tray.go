package tray

import (
	"fmt"

	"fyne.io/fyne/v2"

	"tiltclock/internal/core/orientation"
)

// MenuHost is the part of desktop.App the tray uses.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnView        func(orientation.ViewKey)
	OnStopAlarm   func()
	OnSnooze      func()
	OnPreferences func()
	OnQuit        func()
}

var viewTitles = map[orientation.ViewKey]string{
	orientation.ViewAlarm:     "Alarm",
	orientation.ViewStopwatch: "Stopwatch",
	orientation.ViewTimer:     "Timer",
	orientation.ViewWeather:   "Weather",
}

// Manager handles system tray state.
type Manager struct {
	app         MenuHost
	callbacks   Callbacks
	statusItem  *fyne.MenuItem
	viewItem    *fyne.MenuItem
	viewItems   map[orientation.ViewKey]*fyne.MenuItem
	stopItem    *fyne.MenuItem
	snoozeItem  *fyne.MenuItem
	statusLabel string
	menu        *fyne.Menu
}

// New creates a tray manager with the provided callbacks.
func New(app MenuHost, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		viewItems: map[orientation.ViewKey]*fyne.MenuItem{},
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	children := make([]*fyne.MenuItem, 0, len(orientation.Views))
	for _, view := range orientation.Views {
		view := view
		item := fyne.NewMenuItem(viewTitles[view], func() {
			if manager.callbacks.OnView != nil {
				manager.callbacks.OnView(view)
			}
		})
		manager.viewItems[view] = item
		children = append(children, item)
	}
	manager.viewItem = fyne.NewMenuItem("Show view", nil)
	manager.viewItem.ChildMenu = fyne.NewMenu("", children...)

	manager.stopItem = fyne.NewMenuItem("Stop alarm", func() {
		if manager.callbacks.OnStopAlarm != nil {
			manager.callbacks.OnStopAlarm()
		}
	})
	manager.snoozeItem = fyne.NewMenuItem("Snooze", func() {
		if manager.callbacks.OnSnooze != nil {
			manager.callbacks.OnSnooze()
		}
	})
	manager.stopItem.Disabled = true
	manager.snoozeItem.Disabled = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

// SetActiveView marks the visible view in the view submenu.
func (manager *Manager) SetActiveView(active orientation.ViewKey) {
	for view, item := range manager.viewItems {
		item.Checked = view == active
	}
	manager.refreshMenu()
}

// SetRinging enables the alarm actions while the alarm rings.
func (manager *Manager) SetRinging(ringing bool) {
	manager.stopItem.Disabled = !ringing
	manager.snoozeItem.Disabled = !ringing
	manager.refreshMenu()
}

// Menu returns the menu last handed to the tray.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

func (manager *Manager) refreshMenu() {
	manager.menu = fyne.NewMenu("Tiltclock",
		manager.statusItem,
		fyne.NewMenuItem("Show window", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		manager.viewItem,
		fyne.NewMenuItemSeparator(),
		manager.stopItem,
		manager.snoozeItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}
