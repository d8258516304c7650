package mirror

import (
	"context"
	"strings"
	"time"

	"github.com/LinukPerera/IoT-Buoy-2025/internal/domain"
)

// Paths in the realtime database. The current entry is overwritten on every
// publish; historical entries are keyed by reading id so replays overwrite
// the same entry instead of duplicating it.
const (
	currentPath    = "buoy_data/current"
	historicalPath = "buoy_data/historical"
)

// Mirror is a best-effort secondary copy of the readings. It is never the
// source of truth; the durable store wins on divergence.
type Mirror interface {
	Publish(ctx context.Context, r domain.Reading) error
	Enabled() bool
	Close() error
}

// Disabled implements every operation as a safe no-op. Selected at startup
// when no mirror is configured, so call sites never nil-check.
type Disabled struct{}

func (Disabled) Publish(ctx context.Context, r domain.Reading) error { return nil }
func (Disabled) Enabled() bool                                       { return false }
func (Disabled) Close() error                                        { return nil }

// historicalKey derives a path-safe key from the reading id.
func historicalKey(id string) string {
	return strings.ReplaceAll(id, "-", "")
}

// snapshot is the mirror-side record layout, published under short aliases
// for dashboard consumption.
func snapshot(r domain.Reading) map[string]interface{} {
	objectClass := "unknown"
	if r.DetectedObjectClass != nil {
		objectClass = *r.DetectedObjectClass
	}
	return map[string]interface{}{
		"gps": map[string]float64{
			"lat": r.GPSLatitude,
			"lng": r.GPSLongitude,
		},
		"battery":     r.BatteryPercentage,
		"turbidity":   r.WaterTurbidity,
		"temperature": r.WaterTemperature,
		"humidity":    r.Humidity,
		"pressure":    r.AirPressure,
		"objectClass": objectClass,
		"timestamp":   r.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}
