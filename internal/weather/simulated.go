package weather

import "time"

// simulatedPattern holds typical January weather for Pearland, TX.
// Highs 55-70°F, lows 33-48°F, the occasional shower.
var simulatedPattern = []struct {
	tempMax   float64
	tempMin   float64
	precip    float64
	condition string
	icon      string
}{
	{58, 35, 0.0, "Cool", "☁️"},
	{68, 45, 0.0, "Mild", "⛅"},
	{62, 42, 0.0, "Cool", "☁️"},
	{55, 38, 0.1, "Showers", "🌦️"},
	{58, 33, 0.0, "Cool", "☁️"},
	{66, 39, 0.0, "Mild", "⛅"},
	{70, 48, 0.0, "Mild", "☀️"},
	{65, 45, 0.2, "Showers", "🌧️"},
	{55, 40, 0.0, "Cool", "☁️"},
	{60, 42, 0.0, "Cool", "⛅"},
}

// FromToday drops days before the given civil date. Clients only ever see
// today and future days.
func FromToday(days []Day, today time.Time) []Day {
	kept := make([]Day, 0, len(days))
	for _, d := range days {
		if d.Date.Before(today) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// Simulated returns the fixed 10-day fallback sequence anchored at today.
// It is deterministic and never fails.
func Simulated(today time.Time) []Day {
	days := make([]Day, 0, len(simulatedPattern))
	for i, p := range simulatedPattern {
		days = append(days, Day{
			Date:          today.AddDate(0, 0, i),
			TempMax:       p.tempMax,
			TempMin:       p.tempMin,
			TempMean:      (p.tempMax + p.tempMin) / 2,
			Precipitation: p.precip,
			Condition:     p.condition,
			Icon:          p.icon,
		})
	}
	return days
}
