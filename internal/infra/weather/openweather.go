package weather

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"etika-quiz-service/internal/domain"
)

const (
	defaultGeocodeURL  = "https://api.openweathermap.org/geo/1.0/direct"
	defaultForecastURL = "https://api.openweathermap.org/data/2.5/forecast"
)

// dayNames are Indonesian weekday labels for the forecast table.
var dayNames = map[time.Weekday]string{
	time.Monday:    "Senin",
	time.Tuesday:   "Selasa",
	time.Wednesday: "Rabu",
	time.Thursday:  "Kamis",
	time.Friday:    "Jumat",
	time.Saturday:  "Sabtu",
	time.Sunday:    "Minggu",
}

// Client fetches a 3-day forecast from OpenWeatherMap: a geocoding call to
// resolve the city, then the 5-day/3-hour forecast collapsed into daily rows.
type Client struct {
	http        *resty.Client
	apiKey      string
	geocodeURL  string
	forecastURL string
}

func NewClient(apiKey string) *Client {
	return &Client{
		http:        resty.New().SetTimeout(10 * time.Second),
		apiKey:      apiKey,
		geocodeURL:  defaultGeocodeURL,
		forecastURL: defaultForecastURL,
	}
}

// NewClientWithBaseURLs is test-only for pointing at a stub server.
func NewClientWithBaseURLs(apiKey, geocodeURL, forecastURL string) *Client {
	c := NewClient(apiKey)
	c.geocodeURL = geocodeURL
	c.forecastURL = forecastURL
	return c
}

type geoResult struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	} `json:"list"`
}

// Forecast returns up to three daily rows for the city, or
// domain.ErrWeatherUnavailable when the lookup fails in any way. Callers
// surface that as a warning; the rest of the page renders regardless.
func (c *Client) Forecast(ctx context.Context, city string) ([]domain.ForecastDay, error) {
	if c.apiKey == "" || city == "" {
		return nil, domain.ErrWeatherUnavailable
	}

	var locations []geoResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"limit": "1",
			"appid": c.apiKey,
		}).
		SetResult(&locations).
		ForceContentType("application/json").
		Get(c.geocodeURL)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", city, domain.ErrWeatherUnavailable)
	}
	if resp.IsError() || len(locations) == 0 {
		return nil, domain.ErrWeatherUnavailable
	}

	var forecast forecastResponse
	resp, err = c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   fmt.Sprintf("%f", locations[0].Lat),
			"lon":   fmt.Sprintf("%f", locations[0].Lon),
			"units": "metric",
			"appid": c.apiKey,
		}).
		SetResult(&forecast).
		ForceContentType("application/json").
		Get(c.forecastURL)
	if err != nil {
		return nil, fmt.Errorf("forecast %q: %w", city, domain.ErrWeatherUnavailable)
	}
	if resp.IsError() || len(forecast.List) == 0 {
		return nil, domain.ErrWeatherUnavailable
	}

	return summarize(forecast), nil
}

type sample struct {
	temp float64
	hour int
}

func summarize(forecast forecastResponse) []domain.ForecastDay {
	daily := make(map[string][]sample)
	weekdays := make(map[string]time.Weekday)
	for _, item := range forecast.List {
		ts := time.Unix(item.Dt, 0)
		key := ts.Format("2006-01-02")
		daily[key] = append(daily[key], sample{temp: item.Main.Temp, hour: ts.Hour()})
		weekdays[key] = ts.Weekday()
	}

	dates := make([]string, 0, len(daily))
	for key := range daily {
		dates = append(dates, key)
	}
	sort.Strings(dates)
	if len(dates) > 3 {
		dates = dates[:3]
	}

	rows := make([]domain.ForecastDay, 0, len(dates))
	for _, date := range dates {
		samples := daily[date]
		rows = append(rows, domain.ForecastDay{
			Day:       dayNames[weekdays[date]],
			Date:      date,
			DayTemp:   dayTemp(samples),
			NightTemp: nightTemp(samples),
		})
	}
	return rows
}

// dayTemp is the max between 12:00 and 15:00, falling back to the day's max.
func dayTemp(samples []sample) int {
	best, found := 0.0, false
	for _, s := range samples {
		if s.hour >= 12 && s.hour <= 15 {
			if !found || s.temp > best {
				best, found = s.temp, true
			}
		}
	}
	if !found {
		for i, s := range samples {
			if i == 0 || s.temp > best {
				best = s.temp
			}
		}
	}
	return roundTemp(best)
}

// nightTemp is the min between 21:00 and 03:00, falling back to the day's min.
func nightTemp(samples []sample) int {
	best, found := 0.0, false
	for _, s := range samples {
		if s.hour >= 21 || s.hour <= 3 {
			if !found || s.temp < best {
				best, found = s.temp, true
			}
		}
	}
	if !found {
		for i, s := range samples {
			if i == 0 || s.temp < best {
				best = s.temp
			}
		}
	}
	return roundTemp(best)
}

func roundTemp(t float64) int {
	if t >= 0 {
		return int(t + 0.5)
	}
	return int(t - 0.5)
}
