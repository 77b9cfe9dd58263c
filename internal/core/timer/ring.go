package timer

import (
	"math"
	"time"
)

// Layer identifies what a ring pixel shows.
type Layer int

const (
	LayerNone Layer = iota
	LayerBackground
	LayerProgress
)

// Ring describes the progress indicator geometry in pixels.
type Ring struct {
	Size      int
	Inset     float64
	LineWidth float64
}

// DefaultRing matches a 220px canvas with a 10px stroke.
var DefaultRing = Ring{Size: 220, Inset: 8, LineWidth: 10}

// Progress returns the elapsed fraction of a countdown, 0 when total is 0.
func Progress(total, remaining time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-remaining) / float64(total)
}

// ArcAngles returns the start and end angles, in radians, of the progress arc.
// Angles follow canvas convention: 0 points right and positive turns
// clockwise, so the arc starts at 12 o'clock (-π/2).
func ArcAngles(progress float64) (float64, float64) {
	start := -math.Pi / 2
	return start, start + 2*math.Pi*clamp01(progress)
}

// LayerAt classifies the pixel at (x, y) of a square canvas of side size.
// The background ring is a full circle; the progress arc sweeps clockwise
// from 12 o'clock.
func (ring Ring) LayerAt(x, y, size int, progress float64) Layer {
	if size <= 0 {
		return LayerNone
	}
	scale := float64(size) / float64(ring.Size)
	center := float64(size) / 2
	radius := center - ring.Inset*scale
	half := ring.LineWidth * scale / 2

	dx := float64(x) + 0.5 - center
	dy := float64(y) + 0.5 - center
	distance := math.Hypot(dx, dy)
	if math.Abs(distance-radius) > half {
		return LayerNone
	}

	// Clockwise angle from 12 o'clock in screen coordinates.
	angle := math.Atan2(dx, -dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	if angle < 2*math.Pi*clamp01(progress) {
		return LayerProgress
	}
	return LayerBackground
}

func clamp01(value float64) float64 {
	if value < 0 || math.IsNaN(value) {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
