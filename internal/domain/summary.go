package domain

// DefaultSummaryHours is the window applied when the caller does not supply one.
const DefaultSummaryHours = 24

// SummaryQueryCap bounds how many records feed a summary. For very dense
// windows the statistics cover the newest SummaryQueryCap records rather than
// the full window; an accepted approximation, not an error.
const SummaryQueryCap = 1000

// MetricStats holds the per-metric aggregate. Max is reported for the
// environmental metrics; battery reports Current (the most recent value in
// the window) instead.
type MetricStats struct {
	Avg     float64  `json:"avg"`
	Min     float64  `json:"min"`
	Max     *float64 `json:"max,omitempty"`
	Current *float64 `json:"current,omitempty"`
}

// Summary is the windowed aggregate view. Metrics is empty, not nil-derived
// NaN statistics, when the window contains no readings.
type Summary struct {
	PeriodHours   int                    `json:"period_hours"`
	TotalReadings int                    `json:"total_readings"`
	Metrics       map[string]MetricStats `json:"summary"`
}

// Summarize computes min/max/avg statistics over a window of readings.
// The slice is expected newest-first, as returned by the store; the battery
// "current" value is therefore the first element's.
func Summarize(hours int, readings []Reading) Summary {
	s := Summary{
		PeriodHours:   hours,
		TotalReadings: len(readings),
		Metrics:       map[string]MetricStats{},
	}
	if len(readings) == 0 {
		return s
	}

	s.Metrics["temperature"] = rangeStats(readings, func(r Reading) float64 { return r.WaterTemperature })
	s.Metrics["turbidity"] = rangeStats(readings, func(r Reading) float64 { return r.WaterTurbidity })
	s.Metrics["humidity"] = rangeStats(readings, func(r Reading) float64 { return r.Humidity })
	s.Metrics["pressure"] = rangeStats(readings, func(r Reading) float64 { return r.AirPressure })

	battery := rangeStats(readings, func(r Reading) float64 { return r.BatteryPercentage })
	current := readings[0].BatteryPercentage
	battery.Max = nil
	battery.Current = &current
	s.Metrics["battery"] = battery

	return s
}

func rangeStats(readings []Reading, value func(Reading) float64) MetricStats {
	min := value(readings[0])
	max := min
	sum := 0.0
	for _, r := range readings {
		v := value(r)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	maxCopy := max
	return MetricStats{
		Avg: sum / float64(len(readings)),
		Min: min,
		Max: &maxCopy,
	}
}
