package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/civitas/aquacast/internal/httputil"
	"github.com/civitas/aquacast/internal/metrics"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// forecastDays is the horizon requested from the provider.
const forecastDays = 10

// Day is one day of weather, mapped into the fields the rest of the service
// works with. Temperatures are °F, precipitation is inches.
type Day struct {
	Date          time.Time
	TempMax       float64
	TempMin       float64
	TempMean      float64
	Precipitation float64
	Condition     string
	Icon          string
}

// Client fetches daily forecasts from Open-Meteo for a fixed location.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	lat float64
	lon float64
	loc *time.Location
}

func NewClient(lat, lon float64, loc *time.Location) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: httputil.NewClient(),
		lat:        lat,
		lon:        lon,
		loc:        loc,
	}
}

type dailyResponse struct {
	Daily struct {
		Time             []string   `json:"time"`
		TemperatureMax   []*float64 `json:"temperature_2m_max"`
		TemperatureMin   []*float64 `json:"temperature_2m_min"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// TenDay returns the 10-day forecast anchored at today. It is total: on any
// provider failure (timeout, non-2xx, malformed or empty payload) it logs a
// warning and returns the fixed simulated sequence instead.
func (c *Client) TenDay(ctx context.Context, today time.Time) []Day {
	days, err := c.fetchDaily(ctx)
	if err != nil {
		log.Printf("weather: provider unavailable, using simulated data: %v", err)
		metrics.WeatherFallbacksTotal.Inc()
		return Simulated(today)
	}
	return days
}

func (c *Client) fetchDaily(ctx context.Context) ([]Day, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(c.lon, 'f', 4, 64))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum")
	q.Set("temperature_unit", "fahrenheit")
	q.Set("precipitation_unit", "inch")
	q.Set("timezone", c.loc.String())
	q.Set("forecast_days", strconv.Itoa(forecastDays))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		metrics.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	metrics.WeatherAPICallsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch forecast: status %d: %s", resp.StatusCode, string(b))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var data dailyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if len(data.Daily.Time) == 0 {
		return nil, fmt.Errorf("no dates returned")
	}

	days := make([]Day, 0, len(data.Daily.Time))
	for i, ds := range data.Daily.Time {
		date, err := time.ParseInLocation("2006-01-02", ds, c.loc)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", ds, err)
		}

		// Provider may return null entries; substitute neutral defaults
		// rather than dropping the day.
		tMax, tMin, precip := 70.0, 55.0, 0.0
		if i < len(data.Daily.TemperatureMax) && data.Daily.TemperatureMax[i] != nil {
			tMax = *data.Daily.TemperatureMax[i]
		}
		if i < len(data.Daily.TemperatureMin) && data.Daily.TemperatureMin[i] != nil {
			tMin = *data.Daily.TemperatureMin[i]
		}
		if i < len(data.Daily.PrecipitationSum) && data.Daily.PrecipitationSum[i] != nil {
			precip = *data.Daily.PrecipitationSum[i]
		}

		condition, icon := Condition(tMax, precip)
		days = append(days, Day{
			Date:          date,
			TempMax:       round1(tMax),
			TempMin:       round1(tMin),
			TempMean:      round1((tMax + tMin) / 2),
			Precipitation: round2(precip),
			Condition:     condition,
			Icon:          icon,
		})
	}

	return days, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
