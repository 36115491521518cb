package conditions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultGeocodeURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultWeatherURL = "https://api.open-meteo.com/v1/forecast"
	defaultMarineURL  = "https://marine-api.open-meteo.com/v1/marine"
)

var (
	hourlyWeatherVars = []string{
		"temperature_2m", "relative_humidity_2m", "wind_speed_10m",
		"wind_direction_10m", "precipitation", "cloud_cover", "visibility",
	}
	dailyWeatherVars = []string{
		"sunrise", "sunset", "uv_index_max", "precipitation_sum",
		"wind_speed_10m_max", "wind_gusts_10m_max",
	}
	hourlyMarineVars = []string{
		"wave_height", "wave_direction", "wave_period",
		"swell_wave_height", "swell_wave_direction", "swell_wave_period",
		"wind_wave_height", "wind_wave_direction", "wind_wave_period",
		"sea_surface_temperature",
	}
)

// Client is a thin typed client over the Open-Meteo geocoding, forecast and
// marine APIs. Outbound calls share one rate limiter to stay polite to the
// free upstream.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	geocodeURL string
	weatherURL string
	marineURL  string
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURLs overrides the upstream endpoints (used by tests).
func WithBaseURLs(geocode, weather, marine string) ClientOption {
	return func(c *Client) {
		if geocode != "" {
			c.geocodeURL = geocode
		}
		if weather != "" {
			c.weatherURL = weather
		}
		if marine != "" {
			c.marineURL = marine
		}
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if perSecond > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// NewClient creates a client with the public Open-Meteo endpoints.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
		geocodeURL: defaultGeocodeURL,
		weatherURL: defaultWeatherURL,
		marineURL:  defaultMarineURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Place is one geocoding candidate.
type Place struct {
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Admin1  string   `json:"admin1"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Geocode resolves a free-form place query to candidate coordinates.
func (c *Client) Geocode(ctx context.Context, query string, count int) ([]Place, error) {
	if count <= 0 {
		count = 5
	}
	params := url.Values{}
	params.Set("name", query)
	params.Set("count", strconv.Itoa(count))
	params.Set("language", "en")
	params.Set("format", "json")

	var payload struct {
		Results []struct {
			Name      string   `json:"name"`
			Country   string   `json:"country"`
			Admin1    string   `json:"admin1"`
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := c.get(ctx, c.geocodeURL, params, &payload); err != nil {
		return nil, err
	}
	places := make([]Place, 0, len(payload.Results))
	for _, item := range payload.Results {
		places = append(places, Place{
			Name:    item.Name,
			Country: item.Country,
			Admin1:  item.Admin1,
			Lat:     item.Latitude,
			Lon:     item.Longitude,
		})
	}
	return places, nil
}

// Report merges one location's weather and sea-state forecast.
type Report struct {
	Location Location       `json:"location"`
	Range    DateRange      `json:"range"`
	Timezone string         `json:"timezone"`
	Current  CurrentHint    `json:"current_hint"`
	Hourly   HourlySeries   `json:"hourly"`
	Daily    map[string]any `json:"daily"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CurrentHint is the first hourly sample of each headline series; pointers
// stay nil when the upstream returned no data for a variable.
type CurrentHint struct {
	TempC      *float64 `json:"temp_c"`
	WindSpeed  *float64 `json:"wind_speed"`
	WindDir    *float64 `json:"wind_dir"`
	Visibility *float64 `json:"visibility"`
	WaveHeight *float64 `json:"wave_height"`
	WaterTemp  *float64 `json:"water_temp"`
}

type HourlySeries struct {
	Time       []string  `json:"time"`
	TempC      []float64 `json:"temp_c"`
	WindSpeed  []float64 `json:"wind_speed"`
	Precip     []float64 `json:"precip"`
	Cloud      []float64 `json:"cloud"`
	Visibility []float64 `json:"visibility"`
	WaveHeight []float64 `json:"wave_height"`
	WavePeriod []float64 `json:"wave_period"`
	WaterTemp  []float64 `json:"water_temp"`
}

type weatherPayload struct {
	Timezone string               `json:"timezone"`
	Hourly   map[string]rawSeries `json:"hourly"`
	Daily    map[string]any       `json:"daily"`
}

type marinePayload struct {
	Hourly map[string]rawSeries `json:"hourly"`
}

// rawSeries tolerates both numeric and string series (the time axis).
type rawSeries []any

func (s rawSeries) floats() []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if f, ok := v.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}

func (s rawSeries) strings() []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func (s rawSeries) first() *float64 {
	if len(s) == 0 {
		return nil
	}
	f, ok := s[0].(float64)
	if !ok {
		return nil
	}
	return &f
}

// Conditions fetches weather and marine forecasts for one point and merges
// them into a single report.
func (c *Client) Conditions(ctx context.Context, lat, lon float64, start, end time.Time, timezone string) (*Report, error) {
	if timezone == "" {
		timezone = "auto"
	}
	startISO := start.Format("2006-01-02")
	endISO := end.Format("2006-01-02")

	weatherParams := pointParams(lat, lon, timezone, startISO, endISO)
	weatherParams.Set("hourly", strings.Join(hourlyWeatherVars, ","))
	weatherParams.Set("daily", strings.Join(dailyWeatherVars, ","))

	marineParams := pointParams(lat, lon, timezone, startISO, endISO)
	marineParams.Set("hourly", strings.Join(hourlyMarineVars, ","))

	var weather weatherPayload
	if err := c.get(ctx, c.weatherURL, weatherParams, &weather); err != nil {
		return nil, err
	}
	var marine marinePayload
	if err := c.get(ctx, c.marineURL, marineParams, &marine); err != nil {
		return nil, err
	}

	tz := weather.Timezone
	if tz == "" {
		tz = timezone
	}
	report := &Report{
		Location: Location{Lat: lat, Lon: lon},
		Range:    DateRange{Start: startISO, End: endISO},
		Timezone: tz,
		Current: CurrentHint{
			TempC:      weather.Hourly["temperature_2m"].first(),
			WindSpeed:  weather.Hourly["wind_speed_10m"].first(),
			WindDir:    weather.Hourly["wind_direction_10m"].first(),
			Visibility: weather.Hourly["visibility"].first(),
			WaveHeight: marine.Hourly["wave_height"].first(),
			WaterTemp:  marine.Hourly["sea_surface_temperature"].first(),
		},
		Hourly: HourlySeries{
			Time:       weather.Hourly["time"].strings(),
			TempC:      weather.Hourly["temperature_2m"].floats(),
			WindSpeed:  weather.Hourly["wind_speed_10m"].floats(),
			Precip:     weather.Hourly["precipitation"].floats(),
			Cloud:      weather.Hourly["cloud_cover"].floats(),
			Visibility: weather.Hourly["visibility"].floats(),
			WaveHeight: marine.Hourly["wave_height"].floats(),
			WavePeriod: marine.Hourly["wave_period"].floats(),
			WaterTemp:  marine.Hourly["sea_surface_temperature"].floats(),
		},
		Daily: weather.Daily,
	}
	if report.Daily == nil {
		report.Daily = map[string]any{}
	}
	return report, nil
}

func pointParams(lat, lon float64, timezone, start, end string) url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("timezone", timezone)
	params.Set("start_date", start)
	params.Set("end_date", end)
	return params
}

func (c *Client) get(ctx context.Context, base string, params url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("conditions: upstream %s returned %d", req.URL.Host, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
