package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tiltclock/internal/core/clock"
	"tiltclock/internal/core/model"
)

// LocatedLabel names a location read from the device.
const LocatedLabel = "Your location"

// DefaultFallback is used when the device location is unavailable.
var DefaultFallback = model.Location{
	Label:     "New York, USA (fallback)",
	Latitude:  40.7128,
	Longitude: -74.0060,
}

var (
	// ErrPermissionDenied is returned when location access was refused.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrLocationUnavailable is returned when no position could be read.
	ErrLocationUnavailable = errors.New("location unavailable")
)

// Permission is the state reported by a permission query.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionPrompt  Permission = "prompt"
)

// PermissionQuerier reports the geolocation permission state.
type PermissionQuerier interface {
	QueryGeolocation(ctx context.Context) (Permission, error)
}

// Position is a device coordinate fix.
type Position struct {
	Latitude  float64
	Longitude float64
	At        time.Time
}

// LocateOptions bound a single position read.
type LocateOptions struct {
	Timeout time.Duration
	MaxAge  time.Duration
}

// Locator reads the device position once.
type Locator interface {
	Locate(ctx context.Context, opts LocateOptions) (Position, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context, opts LocateOptions) (Position, error)

// Locate calls fn.
func (fn LocatorFunc) Locate(ctx context.Context, opts LocateOptions) (Position, error) {
	return fn(ctx, opts)
}

// Resolution is the outcome of location resolution.
type Resolution struct {
	Location model.Location
	// Fallback is set when the default location was used.
	Fallback bool
	// Reason explains why the fallback was used.
	Reason error
}

// ResolveLocation asks for the device position unless permission is known to
// be denied, bounding the read by opts.Timeout. Every failure resolves to
// fallback. permissions and locator may be nil.
func ResolveLocation(ctx context.Context, permissions PermissionQuerier, locator Locator, opts LocateOptions, fallback model.Location) Resolution {
	useFallback := func(reason error) Resolution {
		return Resolution{Location: fallback, Fallback: true, Reason: reason}
	}

	if permissions != nil {
		state, err := permissions.QueryGeolocation(ctx)
		if err == nil && state == PermissionDenied {
			return useFallback(ErrPermissionDenied)
		}
	}
	if locator == nil {
		return useFallback(ErrLocationUnavailable)
	}

	locateCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		locateCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	type result struct {
		position Position
		err      error
	}
	done := make(chan result, 1)
	go func() {
		position, err := locator.Locate(locateCtx, opts)
		done <- result{position: position, err: err}
	}()

	select {
	case <-locateCtx.Done():
		return useFallback(fmt.Errorf("%w: %v", ErrLocationUnavailable, locateCtx.Err()))
	case res := <-done:
		if res.err != nil {
			return useFallback(fmt.Errorf("%w: %v", ErrLocationUnavailable, res.err))
		}
		return Resolution{Location: model.Location{
			Label:     LocatedLabel,
			Latitude:  res.position.Latitude,
			Longitude: res.position.Longitude,
		}}
	}
}

// StaticLocator always reports the same coordinates, for devices whose
// position is configured rather than sensed.
type StaticLocator struct {
	Latitude  float64
	Longitude float64
	Clock     clock.Clock
}

// Locate returns the configured coordinates.
func (locator StaticLocator) Locate(ctx context.Context, _ LocateOptions) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	position := Position{Latitude: locator.Latitude, Longitude: locator.Longitude}
	if locator.Clock != nil {
		position.At = locator.Clock.Now()
	}
	return position, nil
}

// CachedLocator reuses the last fix while it is younger than the
// requested MaxAge.
type CachedLocator struct {
	mu    sync.Mutex
	next  Locator
	clock clock.Clock
	last  *Position
}

// NewCachedLocator wraps next with a position cache.
func NewCachedLocator(next Locator, clk clock.Clock) *CachedLocator {
	return &CachedLocator{next: next, clock: clk}
}

// Locate returns the cached fix if fresh enough, otherwise reads next.
func (locator *CachedLocator) Locate(ctx context.Context, opts LocateOptions) (Position, error) {
	now := locator.clock.Now()
	locator.mu.Lock()
	if locator.last != nil && opts.MaxAge > 0 && now.Sub(locator.last.At) <= opts.MaxAge {
		cached := *locator.last
		locator.mu.Unlock()
		return cached, nil
	}
	locator.mu.Unlock()

	position, err := locator.next.Locate(ctx, opts)
	if err != nil {
		return Position{}, err
	}
	if position.At.IsZero() {
		position.At = now
	}
	locator.mu.Lock()
	locator.last = &position
	locator.mu.Unlock()
	return position, nil
}
