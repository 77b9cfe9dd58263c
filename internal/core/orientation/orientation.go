// Package orientation decides which tool view is visible for the current
// device orientation.
package orientation

import "strings"

// Orientation is the device rotation state.
type Orientation string

const (
	PortraitPrimary    Orientation = "portrait-primary"
	PortraitSecondary  Orientation = "portrait-secondary"
	LandscapePrimary   Orientation = "landscape-primary"
	LandscapeSecondary Orientation = "landscape-secondary"
)

// All lists every orientation in a fixed order.
var All = []Orientation{PortraitPrimary, PortraitSecondary, LandscapePrimary, LandscapeSecondary}

// Label returns a display form, e.g. "portrait primary".
func (value Orientation) Label() string {
	return strings.Replace(string(value), "-", " ", 1)
}

// Valid reports whether value is one of the four orientations.
func (value Orientation) Valid() bool {
	switch value {
	case PortraitPrimary, PortraitSecondary, LandscapePrimary, LandscapeSecondary:
		return true
	}
	return false
}

// ViewKey identifies one of the tool views.
type ViewKey string

const (
	ViewAlarm     ViewKey = "alarm"
	ViewStopwatch ViewKey = "stopwatch"
	ViewTimer     ViewKey = "timer"
	ViewWeather   ViewKey = "weather"
)

// Views lists every view in a fixed order.
var Views = []ViewKey{ViewAlarm, ViewStopwatch, ViewTimer, ViewWeather}

// Signals is a snapshot of what the platform reports about rotation. Any
// field may be missing; Resolve falls back in order.
type Signals struct {
	// Type is a native orientation type such as "landscape-primary".
	Type string
	// Angle is the legacy rotation angle in degrees, nil when unknown.
	Angle *int
	// Portrait is the coarse aspect check (height >= width).
	Portrait bool
}

// Resolve derives the orientation from signals. Without a native type or a
// known angle the coarse check always yields the primary variant, since
// primary and secondary cannot be told apart from aspect alone.
func Resolve(signals Signals) Orientation {
	if native := Orientation(strings.ToLower(strings.TrimSpace(signals.Type))); native.Valid() {
		return native
	}
	if signals.Angle != nil {
		switch *signals.Angle {
		case 0:
			return PortraitPrimary
		case 180:
			return PortraitSecondary
		case 90:
			return LandscapePrimary
		case -90:
			return LandscapeSecondary
		}
	}
	if signals.Portrait {
		return PortraitPrimary
	}
	return LandscapePrimary
}

// ViewFor maps an orientation to its view. Unknown values map to the alarm
// view, the same as portrait-primary.
func ViewFor(value Orientation) ViewKey {
	switch value {
	case PortraitSecondary:
		return ViewTimer
	case LandscapePrimary:
		return ViewStopwatch
	case LandscapeSecondary:
		return ViewWeather
	default:
		return ViewAlarm
	}
}
