package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	// Hourly keys are matched in the forecast's zone, which may be absent
	// from the host.
	_ "time/tzdata"

	"tiltclock/internal/logger"
)

// DefaultEndpoint is the Open-Meteo forecast API.
const DefaultEndpoint = "https://api.open-meteo.com/v1/forecast"

const (
	hourlyFields = "relative_humidity_2m,apparent_temperature,precipitation_probability,uv_index"
	dailyFields  = "temperature_2m_max,temperature_2m_min,uv_index_max,precipitation_hours"
)

// Forecast is the subset of the provider response the card uses.
type Forecast struct {
	Timezone string          `json:"timezone"`
	Current  *CurrentWeather `json:"current_weather"`
	Hourly   HourlySeries    `json:"hourly"`
	Daily    DailySeries     `json:"daily"`
}

// Location returns the zone the hourly series is keyed in, or nil when the
// provider named none the runtime knows.
func (forecast *Forecast) Location() *time.Location {
	if forecast == nil || forecast.Timezone == "" {
		return nil
	}
	location, err := time.LoadLocation(forecast.Timezone)
	if err != nil {
		return nil
	}
	return location
}

// CurrentWeather holds current conditions.
type CurrentWeather struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"windspeed"`
	WeatherCode int     `json:"weathercode"`
}

// HourlySeries holds hourly values keyed by local ISO timestamps
// ("2006-01-02T15:04").
type HourlySeries struct {
	Time                     []string  `json:"time"`
	RelativeHumidity         []float64 `json:"relative_humidity_2m"`
	ApparentTemperature      []float64 `json:"apparent_temperature"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
	UVIndex                  []float64 `json:"uv_index"`
}

// DailySeries holds daily values; index 0 is today.
type DailySeries struct {
	Time               []string  `json:"time"`
	TemperatureMax     []float64 `json:"temperature_2m_max"`
	TemperatureMin     []float64 `json:"temperature_2m_min"`
	UVIndexMax         []float64 `json:"uv_index_max"`
	PrecipitationHours []float64 `json:"precipitation_hours"`
}

// Fetcher retrieves forecasts for a coordinate.
type Fetcher interface {
	Forecast(ctx context.Context, latitude, longitude float64) (*Forecast, error)
}

// ClientOption configures the Open-Meteo client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHTTPTimeout sets the request timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// Client talks to the Open-Meteo forecast API.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *logger.Logger
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a client for endpoint; empty selects DefaultEndpoint.
func NewClient(endpoint string, log *logger.Logger, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Forecast fetches current conditions plus hourly and daily series with the
// provider resolving the timezone.
func (c *Client) Forecast(ctx context.Context, latitude, longitude float64) (*Forecast, error) {
	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	query := endpoint.Query()
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	query.Set("current_weather", "true")
	query.Set("hourly", hourlyFields)
	query.Set("daily", dailyFields)
	query.Set("timezone", "auto")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tiltclock/1.0")

	c.log.Debug("weather: GET %s", endpoint.String())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("forecast error %d: %s", resp.StatusCode, string(body))
	}

	var forecast Forecast
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, fmt.Errorf("decoding forecast: %w", err)
	}
	return &forecast, nil
}
