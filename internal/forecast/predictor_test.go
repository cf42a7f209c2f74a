package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/civitas/aquacast/internal/model"
	"github.com/civitas/aquacast/internal/weather"
)

// constantModel builds artifacts that predict the same raw value for every
// row, over the full canonical feature set.
func constantModel(raw, residualStd float64) *model.Artifacts {
	n := len(FeatureNames)
	coefs := make([]float64, n)
	means := make([]float64, n)
	scales := make([]float64, n)
	for i := range scales {
		scales[i] = 1
	}
	return &model.Artifacts{
		FeatureColumns: append([]string(nil), FeatureNames...),
		Intercept:      raw,
		Coefficients:   coefs,
		ScalerMean:     means,
		ScalerScale:    scales,
		ResidualStd:    residualStd,
	}
}

func weekdayDays(tempMax, precip float64) []weather.Day {
	// 2024-01-15 is a Monday.
	return []weather.Day{{
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		TempMax:       tempMax,
		TempMin:       tempMax - 15,
		TempMean:      tempMax - 7.5,
		Precipitation: precip,
	}}
}

func TestPredict_ModelPath(t *testing.T) {
	t.Parallel()
	p := NewPredictor(constantModel(15, 1.25), testStats)

	res := p.Predict(weekdayDays(70, 0))
	if res.Mode != ModeModel {
		t.Fatalf("mode = %v, want model (reason %q)", res.Mode, res.Reason)
	}
	pt := res.Points[0]
	if pt.Demand != 15 {
		t.Errorf("demand = %v, want 15", pt.Demand)
	}
	if pt.LowerBound != 13.4 || pt.UpperBound != 16.6 {
		t.Errorf("bounds = %v/%v, want 13.4/16.6", pt.LowerBound, pt.UpperBound)
	}
	// (15/13.9 - 1) * 100 = 7.91 -> 8
	if pt.VsAverage != 8 {
		t.Errorf("vs_average = %v, want 8", pt.VsAverage)
	}
}

func TestPredict_ModelClamps(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"clamps high", 999, 40},
		{"clamps low", -5, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPredictor(constantModel(tt.raw, 0.5), testStats)
			res := p.Predict(weekdayDays(70, 0))
			if res.Mode != ModeModel {
				t.Fatalf("mode = %v, want model", res.Mode)
			}
			if res.Points[0].Demand != tt.want {
				t.Errorf("demand = %v, want %v", res.Points[0].Demand, tt.want)
			}
		})
	}
}

func TestPredict_LowerBoundFlooredAtZero(t *testing.T) {
	t.Parallel()
	p := NewPredictor(constantModel(4, 10), testStats)
	res := p.Predict(weekdayDays(70, 0))
	if res.Points[0].LowerBound != 0 {
		t.Errorf("lower bound = %v, want 0", res.Points[0].LowerBound)
	}
}

func TestPredict_NoArtifactsUsesHeuristic(t *testing.T) {
	t.Parallel()
	p := NewPredictor(nil, testStats)
	res := p.Predict(weekdayDays(90, 0))
	if res.Mode != ModeHeuristic {
		t.Fatalf("mode = %v, want heuristic", res.Mode)
	}
	if res.Reason == "" {
		t.Error("expected a degradation reason")
	}
}

func TestPredict_ModelErrorRoutesToHeuristic(t *testing.T) {
	t.Parallel()
	arts := constantModel(15, 1)
	// The trained feature list names a feature the builder never produces.
	arts.FeatureColumns[0] = "unknown_feature"
	p := NewPredictor(arts, testStats)

	res := p.Predict(weekdayDays(90, 0))
	if res.Mode != ModeHeuristic {
		t.Fatalf("mode = %v, want heuristic fallback", res.Mode)
	}
	if len(res.Points) != 1 {
		t.Fatalf("got %d points, want 1", len(res.Points))
	}
}

func TestHeuristic(t *testing.T) {
	t.Parallel()
	p := NewPredictor(nil, testStats)

	tests := []struct {
		name       string
		days       []weather.Day
		wantDemand float64
	}{
		// 12.5 + 0.12*(90-65) = 15.5
		{"hot weekday", weekdayDays(90, 0), 15.5},
		// 12.5 + 0.12*(90-65) - 2.0 = 13.5
		{"hot rainy weekday", weekdayDays(90, 0.3), 13.5},
		// 12.5 + 0.12*(65-65) = 12.5
		{"baseline temperature", weekdayDays(65, 0), 12.5},
		// capped at 25 no matter how hot
		{"caps at 25", weekdayDays(500, 0), 25},
		// floored at 8 on cold wet days
		{"floors at 8", weekdayDays(0, 1.0), 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Predict(tt.days)
			if res.Mode != ModeHeuristic {
				t.Fatalf("mode = %v, want heuristic", res.Mode)
			}
			pt := res.Points[0]
			if pt.Demand != tt.wantDemand {
				t.Errorf("demand = %v, want %v", pt.Demand, tt.wantDemand)
			}
			if pt.LowerBound != math.Round((pt.Demand-1.5)*100)/100 {
				t.Errorf("lower bound = %v, want demand-1.5", pt.LowerBound)
			}
			if pt.UpperBound != math.Round((pt.Demand+1.5)*100)/100 {
				t.Errorf("upper bound = %v, want demand+1.5", pt.UpperBound)
			}
		})
	}
}

func TestHeuristic_WeekendEffect(t *testing.T) {
	t.Parallel()
	p := NewPredictor(nil, testStats)

	saturday := []weather.Day{{
		Date:    time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		TempMax: 65,
	}}
	res := p.Predict(saturday)
	if got := res.Points[0].Demand; got != 13 {
		t.Errorf("saturday demand = %v, want 13", got)
	}
}

func TestHeuristic_VsAverage(t *testing.T) {
	t.Parallel()
	p := NewPredictor(nil, testStats)
	res := p.Predict(weekdayDays(65, 0))
	// (12.5/13.9 - 1) * 100 = -10.07 -> -10
	if res.Points[0].VsAverage != -10 {
		t.Errorf("vs_average = %v, want -10", res.Points[0].VsAverage)
	}
}

func TestPredictor_FeatureCount(t *testing.T) {
	t.Parallel()
	if got := NewPredictor(nil, testStats).FeatureCount(); got != 0 {
		t.Errorf("degraded FeatureCount = %d, want 0", got)
	}
	if got := NewPredictor(constantModel(15, 1), testStats).FeatureCount(); got != len(FeatureNames) {
		t.Errorf("FeatureCount = %d, want %d", got, len(FeatureNames))
	}
}
