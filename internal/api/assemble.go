package api

import (
	"strings"
	"time"

	"github.com/civitas/aquacast/internal/forecast"
	"github.com/civitas/aquacast/internal/weather"
)

// WeatherData is the per-day weather block in the forecast payload.
type WeatherData struct {
	Date          string  `json:"date"`
	TempMean      float64 `json:"temp_mean"`
	TempMax       float64 `json:"temp_max"`
	TempMin       float64 `json:"temp_min"`
	Precipitation float64 `json:"precipitation"`
	Condition     string  `json:"condition"`
	Icon          string  `json:"icon"`
}

// Factors are the qualitative drivers behind a day's demand.
type Factors struct {
	Temperature   string `json:"temperature"`
	Precipitation string `json:"precipitation"`
	DayType       string `json:"day_type"`
}

// DayForecast is the externally visible per-day record.
type DayForecast struct {
	Date        string      `json:"date"`
	DayName     string      `json:"day_name"`
	DayNumber   int         `json:"day_number"`
	Month       string      `json:"month"`
	IsToday     bool        `json:"is_today"`
	Demand      float64     `json:"demand"`
	LowerBound  float64     `json:"lower_bound"`
	UpperBound  float64     `json:"upper_bound"`
	DemandLevel string      `json:"demand_level"`
	DemandColor string      `json:"demand_color"`
	Weather     WeatherData `json:"weather"`
	VsAverage   float64     `json:"vs_average"`
	Factors     Factors     `json:"factors"`
}

// ModelAccuracy describes the trained model's evaluation metrics. The values
// are fixed at training time; in degraded mode the numeric fields are null.
type ModelAccuracy struct {
	RSquared           *float64 `json:"r_squared"`
	MAPEPercent        *float64 `json:"mape_percent"`
	ConfidenceInterval string   `json:"confidence_interval"`
	ModelType          string   `json:"model_type"`
}

// ForecastResponse is the envelope returned by /api/forecast.
type ForecastResponse struct {
	Forecasts     []DayForecast `json:"forecasts"`
	LastUpdated   string        `json:"last_updated"`
	ModelAccuracy ModelAccuracy `json:"model_accuracy"`
}

// DemandLevel classifies a predicted demand into a display level and color.
func DemandLevel(demand float64) (level, color string) {
	switch {
	case demand < 12:
		return "Low", "#22C55E"
	case demand < 16:
		return "Moderate", "#EAB308"
	default:
		return "High", "#EF4444"
	}
}

// Assemble merges a today-or-future weather sequence and its matching
// prediction points into the response envelope. days and result.Points are
// parallel; today and now are in the service's civil timezone.
func Assemble(days []weather.Day, result forecast.Result, today, now time.Time, modelLoaded bool) *ForecastResponse {
	forecasts := make([]DayForecast, 0, len(days))

	for i, day := range days {
		if i >= len(result.Points) {
			break
		}
		point := result.Points[i]
		isToday := day.Date.Equal(today)

		dayName := "TODAY"
		if !isToday {
			dayName = strings.ToUpper(day.Date.Format("Mon"))
		}

		level, color := DemandLevel(point.Demand)

		forecasts = append(forecasts, DayForecast{
			Date:        day.Date.Format("2006-01-02"),
			DayName:     dayName,
			DayNumber:   day.Date.Day(),
			Month:       day.Date.Format("Jan"),
			IsToday:     isToday,
			Demand:      point.Demand,
			LowerBound:  point.LowerBound,
			UpperBound:  point.UpperBound,
			DemandLevel: level,
			DemandColor: color,
			Weather: WeatherData{
				Date:          day.Date.Format("2006-01-02"),
				TempMean:      day.TempMean,
				TempMax:       day.TempMax,
				TempMin:       day.TempMin,
				Precipitation: day.Precipitation,
				Condition:     day.Condition,
				Icon:          day.Icon,
			},
			VsAverage: point.VsAverage,
			Factors:   dayFactors(day),
		})
	}

	return &ForecastResponse{
		Forecasts:     forecasts,
		LastUpdated:   now.Format(time.RFC3339),
		ModelAccuracy: accuracy(modelLoaded),
	}
}

func dayFactors(day weather.Day) Factors {
	temperature := "moderate"
	if day.TempMax > 75 {
		temperature = "high"
	} else if day.TempMax < 60 {
		temperature = "low"
	}

	precipitation := "no"
	if day.Precipitation > 0.05 {
		precipitation = "yes"
	}

	dayType := "weekday"
	switch day.Date.Weekday() {
	case time.Saturday, time.Sunday:
		dayType = "weekend"
	}

	return Factors{
		Temperature:   temperature,
		Precipitation: precipitation,
		DayType:       dayType,
	}
}

func accuracy(modelLoaded bool) ModelAccuracy {
	if !modelLoaded {
		return ModelAccuracy{
			ConfidenceInterval: "80%",
			ModelType:          "Simulated",
		}
	}
	rSquared := 0.94
	mape := 3.29
	return ModelAccuracy{
		RSquared:           &rSquared,
		MAPEPercent:        &mape,
		ConfidenceInterval: "80%",
		ModelType:          "Gradient Boosting",
	}
}
