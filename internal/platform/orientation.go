package platform

import (
	"fyne.io/fyne/v2"

	"tiltclock/internal/core/orientation"
)

// Signals reads the orientation inputs for a canvas of the given size. On
// mobile the device reports its rotation; elsewhere only the aspect of the
// window is known.
func Signals(device fyne.Device, size fyne.Size) orientation.Signals {
	signals := orientation.Signals{Portrait: size.Height >= size.Width}
	if device == nil || !device.IsMobile() {
		return signals
	}
	if angle, ok := rotationAngle(device.Orientation()); ok {
		signals.Angle = &angle
	}
	return signals
}

func rotationAngle(value fyne.DeviceOrientation) (int, bool) {
	switch value {
	case fyne.OrientationVertical:
		return 0, true
	case fyne.OrientationVerticalUpsideDown:
		return 180, true
	case fyne.OrientationHorizontalLeft:
		return 90, true
	case fyne.OrientationHorizontalRight:
		return -90, true
	default:
		return 0, false
	}
}

// SignalFilter forwards orientation changes only, so a window resize that
// keeps the aspect does not undo a view picked by hand.
type SignalFilter struct {
	last  orientation.Orientation
	valid bool
}

// Changed resolves signals and reports whether the resolved orientation
// differs from the previous call.
func (filter *SignalFilter) Changed(signals orientation.Signals) bool {
	resolved := orientation.Resolve(signals)
	if filter.valid && resolved == filter.last {
		return false
	}
	filter.last = resolved
	filter.valid = true
	return true
}
