package weather

// Condition labels a day's weather from its max temperature (°F) and total
// precipitation (inches). Precipitation takes priority over temperature.
func Condition(tempMax, precipitation float64) (condition, icon string) {
	if precipitation > 0.1 {
		if precipitation > 0.5 {
			return "Rainy", "🌧️"
		}
		return "Showers", "🌦️"
	}
	switch {
	case tempMax > 85:
		return "Hot", "☀️"
	case tempMax > 75:
		return "Warm", "☀️"
	case tempMax > 65:
		return "Mild", "⛅"
	case tempMax > 50:
		return "Cool", "☁️"
	default:
		return "Cold", "❄️"
	}
}
