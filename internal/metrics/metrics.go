package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WeatherAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquacast_weather_api_calls_total",
			Help: "Total Open-Meteo forecast API calls",
		},
		[]string{"status"},
	)

	WeatherFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aquacast_weather_fallbacks_total",
			Help: "Total requests served with simulated weather data",
		},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquacast_predictions_total",
			Help: "Total demand predictions by mode",
		},
		[]string{"mode"},
	)

	ForecastRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aquacast_forecast_request_duration_seconds",
			Help:    "Forecast endpoint latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
