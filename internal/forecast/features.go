package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/civitas/aquacast/internal/history"
	"github.com/civitas/aquacast/internal/weather"
)

// FeatureNames is the canonical order features are built in. The order the
// model actually consumes comes from the trained artifact's feature list;
// this one exists so every row carries the same, complete field set.
var FeatureNames = []string{
	"temp_mean",
	"temp_max",
	"temp_min",
	"precip_total",
	"day_of_week",
	"month",
	"is_weekend",
	"prod_lag1",
	"prod_lag2",
	"prod_lag3",
	"prod_lag7",
	"prod_lag14",
	"prod_lag30",
	"prod_rolling_mean_3",
	"prod_rolling_mean_7",
	"prod_rolling_mean_14",
	"prod_rolling_mean_30",
	"prod_rolling_std_7",
	"prod_rolling_std_14",
	"temp_rolling_mean_7",
	"temp_rolling_mean_14",
	"day_sin",
	"day_cos",
	"dow_sin",
	"dow_cos",
}

// FeatureRow is one forecast day's named feature values.
type FeatureRow map[string]float64

// Vector arranges a row into the given column order. A missing column is an
// error: the feature set passed to the model must match the set captured at
// training time exactly.
func (r FeatureRow) Vector(columns []string) ([]float64, error) {
	vec := make([]float64, len(columns))
	for i, name := range columns {
		v, ok := r[name]
		if !ok {
			return nil, fmt.Errorf("feature %q not built", name)
		}
		vec[i] = v
	}
	return vec, nil
}

// BuildFeatures turns a today-or-future weather sequence plus historical
// production statistics into one feature row per day.
//
// Future production is unobservable, so the lag and rolling-production fields
// are broadcast constants: short-horizon fields take the recent 7-day mean,
// longer-horizon fields the all-time mean, and both rolling stds the trailing
// 14-day std. The temperature rolling means are computed over the forecast
// batch itself with a shrinking leading window, which is how the training
// pipeline prepared prediction rows.
func BuildFeatures(days []weather.Day, stats history.Stats) []FeatureRow {
	rows := make([]FeatureRow, len(days))
	for i, day := range days {
		dow := mondayWeekday(day.Date)
		dayOfYear := float64(day.Date.YearDay())

		row := FeatureRow{
			"temp_mean":    day.TempMean,
			"temp_max":     day.TempMax,
			"temp_min":     day.TempMin,
			"precip_total": day.Precipitation,
			"day_of_week":  float64(dow),
			"month":        float64(day.Date.Month()),
			"is_weekend":   boolToFloat(dow >= 5),

			"prod_lag1":  stats.RecentMean,
			"prod_lag2":  stats.RecentMean,
			"prod_lag3":  stats.RecentMean,
			"prod_lag7":  stats.RecentMean,
			"prod_lag14": stats.Mean,
			"prod_lag30": stats.Mean,

			"prod_rolling_mean_3":  stats.RecentMean,
			"prod_rolling_mean_7":  stats.RecentMean,
			"prod_rolling_mean_14": stats.Mean,
			"prod_rolling_mean_30": stats.Mean,
			"prod_rolling_std_7":   stats.RecentStd,
			"prod_rolling_std_14":  stats.RecentStd,

			"temp_rolling_mean_7":  batchRollingMean(days, i, 7),
			"temp_rolling_mean_14": batchRollingMean(days, i, 14),

			"day_sin": math.Sin(2 * math.Pi * dayOfYear / 365),
			"day_cos": math.Cos(2 * math.Pi * dayOfYear / 365),
			"dow_sin": math.Sin(2 * math.Pi * float64(dow) / 7),
			"dow_cos": math.Cos(2 * math.Pi * float64(dow) / 7),
		}
		rows[i] = row
	}
	return rows
}

// batchRollingMean averages temp_max over the trailing window ending at i,
// within the forecast batch. The window shrinks at the start of the batch.
func batchRollingMean(days []weather.Day, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, d := range days[start : i+1] {
		sum += d.TempMax
	}
	return sum / float64(i-start+1)
}

// mondayWeekday returns the day of week with Monday=0, Sunday=6.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
