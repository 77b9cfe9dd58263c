// Package weather loads the "weather of the day" card: resolve a location,
// fetch the forecast, derive the displayed fields.
package weather

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"tiltclock/internal/core/clock"
	"tiltclock/internal/core/model"
	"tiltclock/internal/logger"
)

// ErrIncompleteForecast is returned when the response lacks required fields.
var ErrIncompleteForecast = errors.New("incomplete forecast")

const (
	unavailableLabel = "Weather unavailable"
	unavailableText  = "Check connection"
	loadingText      = "Loading…"
)

// Snapshot is the derived weather of the day.
type Snapshot struct {
	LocationLabel               string
	TemperatureC                int
	ConditionCode               int
	WindKph                     float64
	HighC                       int
	LowC                        int
	UVIndexMax                  int
	FeelsLikeC                  int
	PrecipitationProbabilityPct int
}

// Icon returns the condition emoji.
func (snapshot Snapshot) Icon() string {
	return IconFor(snapshot.ConditionCode)
}

// Description returns the condition text with the wind suffix.
func (snapshot Snapshot) Description() string {
	wind := snapshot.WindKph
	return Describe(snapshot.ConditionCode, &wind)
}

// Card is the render model of the weather view. Numeric fields are empty
// unless Available.
type Card struct {
	Available   bool
	Loading     bool
	Location    string
	Icon        string
	Temperature string
	Description string
	High        string
	Low         string
	UV          string
	FeelsLike   string
	Precip      string
}

// Card renders snapshot fields as display text.
func (snapshot Snapshot) Card() Card {
	return Card{
		Available:   true,
		Location:    snapshot.LocationLabel,
		Icon:        snapshot.Icon(),
		Temperature: strconv.Itoa(snapshot.TemperatureC),
		Description: snapshot.Description(),
		High:        fmt.Sprintf("%d°", snapshot.HighC),
		Low:         fmt.Sprintf("%d°", snapshot.LowC),
		UV:          strconv.Itoa(snapshot.UVIndexMax),
		FeelsLike:   fmt.Sprintf("%d°", snapshot.FeelsLikeC),
		Precip:      fmt.Sprintf("%d%%", snapshot.PrecipitationProbabilityPct),
	}
}

// UnavailableCard is shown when any pipeline step fails.
func UnavailableCard() Card {
	return Card{Location: unavailableLabel, Description: unavailableText}
}

// LoadingCard is shown while a load is in flight.
func LoadingCard() Card {
	return Card{Loading: true, Description: loadingText}
}

// HourKey formats the provider's hourly key for the hour containing now.
func HourKey(now time.Time) string {
	return now.Format("2006-01-02T15") + ":00"
}

// Derive computes the snapshot from a forecast. now selects the current
// hour in the hourly series, read in the forecast's own zone when it names
// one; values default to 0 (precipitation) or the first entry (feels like)
// when that hour is missing.
func Derive(forecast *Forecast, now time.Time, label string) (Snapshot, error) {
	if forecast == nil || forecast.Current == nil {
		return Snapshot{}, fmt.Errorf("%w: no current conditions", ErrIncompleteForecast)
	}
	daily := forecast.Daily
	if len(daily.TemperatureMax) == 0 || len(daily.TemperatureMin) == 0 || len(daily.UVIndexMax) == 0 {
		return Snapshot{}, fmt.Errorf("%w: no daily series", ErrIncompleteForecast)
	}

	current := forecast.Current
	snapshot := Snapshot{
		LocationLabel: label,
		TemperatureC:  roundHalfUp(current.Temperature),
		ConditionCode: current.WeatherCode,
		WindKph:       current.WindSpeed,
		HighC:         roundHalfUp(daily.TemperatureMax[0]),
		LowC:          roundHalfUp(daily.TemperatureMin[0]),
		UVIndexMax:    roundHalfUp(daily.UVIndexMax[0]),
		FeelsLikeC:    roundHalfUp(current.Temperature),
	}

	if location := forecast.Location(); location != nil {
		now = now.In(location)
	}
	hourly := forecast.Hourly
	index := indexOf(hourly.Time, HourKey(now))
	if index >= 0 && index < len(hourly.PrecipitationProbability) {
		snapshot.PrecipitationProbabilityPct = roundHalfUp(hourly.PrecipitationProbability[index])
	}
	switch {
	case index >= 0 && index < len(hourly.ApparentTemperature):
		snapshot.FeelsLikeC = roundHalfUp(hourly.ApparentTemperature[index])
	case len(hourly.ApparentTemperature) > 0:
		snapshot.FeelsLikeC = roundHalfUp(hourly.ApparentTemperature[0])
	}
	return snapshot, nil
}

func indexOf(values []string, key string) int {
	for i, value := range values {
		if value == key {
			return i
		}
	}
	return -1
}

// Loader runs the weather pipeline. Each Load is independent; nothing is
// cached between loads except what the Locator itself caches.
type Loader struct {
	clock clock.Clock
	log   *logger.Logger

	mu          sync.Mutex
	fetcher     Fetcher
	permissions PermissionQuerier
	locator     Locator
	config      model.WeatherConfig
	gen         uint64
	cancel      context.CancelFunc
	listener    func(Card)
}

// NewLoader creates a loader. permissions and locator may be nil.
func NewLoader(fetcher Fetcher, permissions PermissionQuerier, locator Locator, clk clock.Clock, log *logger.Logger, config model.WeatherConfig) *Loader {
	if config.Fallback.Label == "" {
		config.Fallback = DefaultFallback
	}
	return &Loader{
		fetcher:     fetcher,
		permissions: permissions,
		locator:     locator,
		clock:       clk,
		log:         log,
		config:      config,
	}
}

// SetListener registers the render callback.
func (loader *Loader) SetListener(listener func(Card)) {
	loader.mu.Lock()
	defer loader.mu.Unlock()
	loader.listener = listener
}

// UpdateConfig replaces the fallback location and locate bounds.
func (loader *Loader) UpdateConfig(config model.WeatherConfig) {
	loader.mu.Lock()
	defer loader.mu.Unlock()
	if config.Fallback.Label == "" {
		config.Fallback = DefaultFallback
	}
	loader.config = config
}

// SetSources replaces the forecast fetcher and the location sources used by
// later loads.
func (loader *Loader) SetSources(fetcher Fetcher, permissions PermissionQuerier, locator Locator) {
	loader.mu.Lock()
	defer loader.mu.Unlock()
	loader.fetcher = fetcher
	loader.permissions = permissions
	loader.locator = locator
}

// Trigger starts a load in the background, superseding any load in flight.
func (loader *Loader) Trigger(ctx context.Context) {
	go loader.Load(ctx)
}

// Load runs the pipeline to completion and returns the card it rendered. A
// load superseded by a newer one does not reach the listener.
func (loader *Loader) Load(ctx context.Context) Card {
	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	loader.mu.Lock()
	if loader.cancel != nil {
		loader.cancel()
	}
	loader.gen++
	gen := loader.gen
	loader.cancel = cancel
	sources := loadSources{fetcher: loader.fetcher, permissions: loader.permissions, locator: loader.locator}
	config := loader.config
	loader.mu.Unlock()

	id := uuid.NewString()[:8]
	loader.render(gen, LoadingCard())

	card, err := loader.run(loadCtx, id, sources, config)
	if err != nil {
		loader.log.Warn("weather[%s]: load failed: %v", id, err)
		card = UnavailableCard()
	}
	loader.render(gen, card)
	return card
}

type loadSources struct {
	fetcher     Fetcher
	permissions PermissionQuerier
	locator     Locator
}

func (loader *Loader) run(ctx context.Context, id string, sources loadSources, config model.WeatherConfig) (Card, error) {
	if sources.fetcher == nil {
		return Card{}, errors.New("no forecast source")
	}
	resolution := ResolveLocation(ctx, sources.permissions, sources.locator, LocateOptions{
		Timeout: config.LocateTimeout,
		MaxAge:  config.LocateMaxAge,
	}, config.Fallback)
	if resolution.Fallback {
		loader.log.Debug("weather[%s]: using fallback location: %v", id, resolution.Reason)
	}
	location := resolution.Location
	loader.log.Info("weather[%s]: fetching for %q (%.4f, %.4f)", id, location.Label, location.Latitude, location.Longitude)

	forecast, err := sources.fetcher.Forecast(ctx, location.Latitude, location.Longitude)
	if err != nil {
		return Card{}, err
	}
	snapshot, err := Derive(forecast, loader.clock.Now(), location.Label)
	if err != nil {
		return Card{}, err
	}
	return snapshot.Card(), nil
}

func (loader *Loader) render(gen uint64, card Card) {
	loader.mu.Lock()
	current := gen == loader.gen
	listener := loader.listener
	loader.mu.Unlock()
	if current && listener != nil {
		listener(card)
	}
}
