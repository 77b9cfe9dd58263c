// Package platform adapts host capabilities (notifications, vibration,
// location, orientation) to the interfaces the widget's state machines
// consume. Capabilities the host cannot provide report ErrUnsupported.
package platform

import (
	"context"
	"errors"
	"time"

	"fyne.io/fyne/v2"

	"tiltclock/internal/core/model"
	"tiltclock/internal/core/timer"
	"tiltclock/internal/core/weather"
)

// ErrUnsupported is returned by capabilities the host does not have.
var ErrUnsupported = errors.New("unsupported on this platform")

// Notifier posts system notifications through the Fyne app.
type Notifier struct {
	app fyne.App
}

var _ timer.Notifier = (*Notifier)(nil)

// NewNotifier creates a notifier. app may be nil, in which case every
// notification is refused.
func NewNotifier(app fyne.App) *Notifier {
	return &Notifier{app: app}
}

// Notify shows title and body.
func (notifier *Notifier) Notify(title, body string) error {
	if notifier == nil || notifier.app == nil {
		return ErrUnsupported
	}
	notifier.app.SendNotification(fyne.NewNotification(title, body))
	return nil
}

// Vibrator reports vibration as unsupported; desktop drivers have no
// haptics and the Fyne mobile driver exposes none.
type Vibrator struct{}

var _ timer.Vibrator = Vibrator{}

// Vibrate always fails with ErrUnsupported.
func (Vibrator) Vibrate([]time.Duration) error {
	return ErrUnsupported
}

// Geolocation answers the permission query from configuration: a
// configured device location counts as granted, none as denied.
type Geolocation struct {
	device *model.Location
}

var _ weather.PermissionQuerier = Geolocation{}

// NewGeolocation creates the permission source and, when device is set, a
// locator that reports it.
func NewGeolocation(device *model.Location) (Geolocation, weather.Locator) {
	geolocation := Geolocation{device: device}
	if device == nil {
		return geolocation, nil
	}
	return geolocation, weather.StaticLocator{Latitude: device.Latitude, Longitude: device.Longitude}
}

// QueryGeolocation reports the permission state.
func (geolocation Geolocation) QueryGeolocation(ctx context.Context) (weather.Permission, error) {
	if err := ctx.Err(); err != nil {
		return weather.PermissionPrompt, err
	}
	if geolocation.device == nil {
		return weather.PermissionDenied, nil
	}
	return weather.PermissionGranted, nil
}
