package forecast

import (
	"fmt"
	"log"
	"math"

	"github.com/civitas/aquacast/internal/history"
	"github.com/civitas/aquacast/internal/metrics"
	"github.com/civitas/aquacast/internal/model"
	"github.com/civitas/aquacast/internal/weather"
)

// Mode records which prediction path produced a result.
type Mode string

const (
	ModeModel     Mode = "model"
	ModeHeuristic Mode = "heuristic"
)

// Clamp bounds, million gallons per day. The model path allows the full
// physically plausible range for the municipality; the heuristic is narrower.
const (
	modelDemandMin = 4.0
	modelDemandMax = 40.0

	heuristicDemandMin = 8.0
	heuristicDemandMax = 25.0
)

// intervalZ widens the point prediction by a fixed multiple of the residual
// standard deviation, approximating an 80% band under normal residuals.
const intervalZ = 1.28

// heuristicAvgProduction stands in for the historical mean when no history
// is loaded.
const heuristicAvgProduction = 13.9

// Point is one day's demand prediction with its interval and deviation from
// the historical average.
type Point struct {
	Demand     float64
	LowerBound float64
	UpperBound float64
	VsAverage  float64
}

// Result is a full prediction run. Mode distinguishes the model-backed path
// from the heuristic so callers and tests need not inspect logs; Reason says
// why the heuristic was used.
type Result struct {
	Mode   Mode
	Reason string
	Points []Point
}

// Predictor runs the scaler+model pipeline when artifacts are loaded, and a
// closed-form weather heuristic otherwise. It never fails: any error in the
// model path routes to the heuristic.
type Predictor struct {
	arts  *model.Artifacts // nil in degraded mode
	stats history.Stats
}

func NewPredictor(arts *model.Artifacts, stats history.Stats) *Predictor {
	return &Predictor{arts: arts, stats: stats}
}

// ModelLoaded reports whether the model-backed path is available.
func (p *Predictor) ModelLoaded() bool {
	return p.arts != nil
}

// FeatureCount returns the size of the trained feature list, 0 when degraded.
func (p *Predictor) FeatureCount() int {
	if p.arts == nil {
		return 0
	}
	return len(p.arts.FeatureColumns)
}

// Predict produces one point per weather day.
func (p *Predictor) Predict(days []weather.Day) Result {
	if p.arts == nil {
		return p.heuristic(days, "model artifacts not loaded")
	}

	points, err := p.predictModel(days)
	if err != nil {
		log.Printf("predict: model path failed, using heuristic: %v", err)
		return p.heuristic(days, err.Error())
	}

	metrics.PredictionsTotal.WithLabelValues(string(ModeModel)).Add(float64(len(points)))
	return Result{Mode: ModeModel, Points: points}
}

func (p *Predictor) predictModel(days []weather.Day) ([]Point, error) {
	rows := BuildFeatures(days, p.stats)

	points := make([]Point, 0, len(rows))
	for i, row := range rows {
		vec, err := row.Vector(p.arts.FeatureColumns)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", i, err)
		}
		pred, err := p.arts.Predict(vec)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", i, err)
		}
		if math.IsNaN(pred) || math.IsInf(pred, 0) {
			return nil, fmt.Errorf("day %d: non-finite prediction", i)
		}

		pred = clamp(pred, modelDemandMin, modelDemandMax)
		lower := pred - intervalZ*p.arts.ResidualStd
		upper := pred + intervalZ*p.arts.ResidualStd

		points = append(points, Point{
			Demand:     round2(pred),
			LowerBound: round2(math.Max(0, lower)),
			UpperBound: round2(upper),
			VsAverage:  math.Round((pred/p.stats.Mean - 1) * 100),
		})
	}
	return points, nil
}

// heuristic is the closed-form fallback: a base demand shifted by how hot
// the day is, suppressed on wet days, nudged up on weekends.
func (p *Predictor) heuristic(days []weather.Day, reason string) Result {
	points := make([]Point, 0, len(days))
	for _, day := range days {
		demand := 12.5 + 0.12*(day.TempMax-65)
		if day.Precipitation > 0.1 {
			demand -= 2.0
		}
		if mondayWeekday(day.Date) >= 5 {
			demand += 0.5
		}
		demand = clamp(demand, heuristicDemandMin, heuristicDemandMax)

		points = append(points, Point{
			Demand:     round2(demand),
			LowerBound: round2(math.Max(0, demand-1.5)),
			UpperBound: round2(demand + 1.5),
			VsAverage:  math.Round((demand/heuristicAvgProduction - 1) * 100),
		})
	}

	metrics.PredictionsTotal.WithLabelValues(string(ModeHeuristic)).Add(float64(len(points)))
	return Result{Mode: ModeHeuristic, Reason: reason, Points: points}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
