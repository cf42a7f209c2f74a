// Package history loads the municipality's daily production series and
// derives the rolling statistics the feature builder broadcasts onto
// forecast days. The series is loaded once at startup and never mutated.
package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
)

// Record is one day of observed water production.
type Record struct {
	Date       time.Time
	Production float64 // million gallons
}

// Series is an ordered-by-date sequence of past daily production values.
type Series struct {
	records []Record
}

// Load reads a production series from path. A .db or .sqlite file is read as
// a SQLite database, anything else as CSV with Date and Production_MG columns.
func Load(path string) (*Series, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return loadSQLite(path)
	default:
		return loadCSV(path)
	}
}

func loadCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateCol, prodCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Date":
			dateCol = i
		case "Production_MG":
			prodCol = i
		}
	}
	if dateCol < 0 || prodCol < 0 {
		return nil, fmt.Errorf("missing Date or Production_MG column in %s", path)
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		date, err := parseDate(row[dateCol])
		if err != nil {
			return nil, err
		}
		prod, err := strconv.ParseFloat(strings.TrimSpace(row[prodCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse production %q: %w", row[prodCol], err)
		}
		records = append(records, Record{Date: date, Production: prod})
	}

	return newSeries(records)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", "1/2/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}

func newSeries(records []Record) (*Series, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("empty production series")
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return &Series{records: records}, nil
}

// Len returns the number of days in the series.
func (s *Series) Len() int {
	return len(s.records)
}

// Values returns the production values in date order.
func (s *Series) Values() []float64 {
	vals := make([]float64, len(s.records))
	for i, r := range s.records {
		vals[i] = r.Production
	}
	return vals
}

// Stats summarizes the series for feature broadcasting. RecentMean is the
// mean of the trailing 7 days, RecentStd the sample standard deviation of the
// trailing 14. Windows shrink when the series is shorter.
type Stats struct {
	Mean       float64
	RecentMean float64
	RecentStd  float64
	Days       int
}

func (s *Series) Stats() (Stats, error) {
	vals := s.Values()

	mean, err := stats.Mean(vals)
	if err != nil {
		return Stats{}, fmt.Errorf("mean: %w", err)
	}

	recentMean, err := stats.Mean(tail(vals, 7))
	if err != nil {
		return Stats{}, fmt.Errorf("recent mean: %w", err)
	}

	// Sample standard deviation matches the training-side convention.
	// A single-day series has no deviation.
	recentStd := 0.0
	if last14 := tail(vals, 14); len(last14) > 1 {
		recentStd, err = stats.StandardDeviationSample(last14)
		if err != nil {
			return Stats{}, fmt.Errorf("recent std: %w", err)
		}
	}

	return Stats{
		Mean:       mean,
		RecentMean: recentMean,
		RecentStd:  recentStd,
		Days:       len(vals),
	}, nil
}

func tail(vals []float64, n int) []float64 {
	if len(vals) <= n {
		return vals
	}
	return vals[len(vals)-n:]
}
