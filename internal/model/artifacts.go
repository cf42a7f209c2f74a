// Package model loads the pre-trained regression artifacts exported by the
// training pipeline and runs point inference over prepared feature vectors.
// The model is opaque to the rest of the service: a vector of named features
// in, a point prediction out.
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifacts bundles everything exported at training time: the ordered feature
// list, the standard scaler parameters, the regression coefficients, and the
// residual standard deviation used for interval construction.
type Artifacts struct {
	FeatureColumns []string
	Intercept      float64
	Coefficients   []float64
	ScalerMean     []float64
	ScalerScale    []float64
	ResidualStd    float64
}

type modelFile struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

type scalerFile struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Load reads the artifact bundle from dir. All four files must be present and
// mutually consistent; any problem is returned so the caller can start in
// degraded mode.
func Load(dir string) (*Artifacts, error) {
	var columns []string
	if err := readJSON(filepath.Join(dir, "feature_columns.json"), &columns); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("feature_columns.json: empty feature list")
	}

	var mf modelFile
	if err := readJSON(filepath.Join(dir, "model.json"), &mf); err != nil {
		return nil, err
	}

	var sf scalerFile
	if err := readJSON(filepath.Join(dir, "scaler.json"), &sf); err != nil {
		return nil, err
	}

	var residualStd float64
	if err := readJSON(filepath.Join(dir, "residual_std.json"), &residualStd); err != nil {
		return nil, err
	}

	a := &Artifacts{
		FeatureColumns: columns,
		Intercept:      mf.Intercept,
		Coefficients:   mf.Coefficients,
		ScalerMean:     sf.Mean,
		ScalerScale:    sf.Scale,
		ResidualStd:    residualStd,
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (a *Artifacts) validate() error {
	n := len(a.FeatureColumns)
	if len(a.Coefficients) != n {
		return fmt.Errorf("model has %d coefficients for %d features", len(a.Coefficients), n)
	}
	if len(a.ScalerMean) != n || len(a.ScalerScale) != n {
		return fmt.Errorf("scaler has %d/%d parameters for %d features", len(a.ScalerMean), len(a.ScalerScale), n)
	}
	for i, s := range a.ScalerScale {
		if s == 0 {
			return fmt.Errorf("scaler scale is zero for feature %s", a.FeatureColumns[i])
		}
	}
	if a.ResidualStd < 0 {
		return fmt.Errorf("negative residual std %v", a.ResidualStd)
	}
	return nil
}

// Predict scales a raw feature vector and returns the point prediction. The
// vector must be ordered to match FeatureColumns.
func (a *Artifacts) Predict(row []float64) (float64, error) {
	if len(row) != len(a.Coefficients) {
		return 0, fmt.Errorf("feature vector has %d values, model expects %d", len(row), len(a.Coefficients))
	}
	pred := a.Intercept
	for i, x := range row {
		pred += a.Coefficients[i] * (x - a.ScalerMean[i]) / a.ScalerScale[i]
	}
	return pred, nil
}
