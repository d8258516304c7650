package domain

import "time"

// Connection quality classification by elapsed time since the last reading.
const (
	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityPoor      = "poor"
	QualityOffline   = "offline"
)

// Age thresholds for the quality ladder. Fixed constants, not configuration.
const (
	excellentWithin = 2 * time.Minute
	goodWithin      = 5 * time.Minute
	onlineWithin    = 10 * time.Minute
)

// Status is derived fresh on every request from the latest reading and the
// total count. It is never persisted.
type Status struct {
	IsOnline          bool       `json:"is_online"`
	LastReading       *time.Time `json:"last_reading,omitempty"`
	ConnectionQuality string     `json:"connection_quality"`
	TotalReadings     int64      `json:"total_readings"`
}

// EvaluateStatus classifies connectivity from the age of the latest reading.
// Pure function of its arguments; latest may be nil for an empty store.
func EvaluateStatus(now time.Time, latest *Reading, totalReadings int64) Status {
	s := Status{
		IsOnline:          false,
		ConnectionQuality: QualityOffline,
		TotalReadings:     totalReadings,
	}
	if latest == nil {
		return s
	}

	ts := latest.Timestamp
	s.LastReading = &ts

	age := now.Sub(ts)
	switch {
	case age < excellentWithin:
		s.IsOnline = true
		s.ConnectionQuality = QualityExcellent
	case age < goodWithin:
		s.IsOnline = true
		s.ConnectionQuality = QualityGood
	case age < onlineWithin:
		s.IsOnline = true
		s.ConnectionQuality = QualityPoor
	}
	return s
}
