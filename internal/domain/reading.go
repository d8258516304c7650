package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reading is the canonical persisted telemetry record. ID and Timestamp are
// assigned at ingestion and immutable afterwards.
type Reading struct {
	ID                  string    `json:"id"`
	Timestamp           time.Time `json:"timestamp"`
	GPSLatitude         float64   `json:"gps_latitude"`
	GPSLongitude        float64   `json:"gps_longitude"`
	BatteryPercentage   float64   `json:"battery_percentage"`
	WaterTurbidity      float64   `json:"water_turbidity"`   // NTU
	WaterTemperature    float64   `json:"water_temperature"` // Celsius
	Humidity            float64   `json:"humidity"`          // percent
	AirPressure         float64   `json:"air_pressure"`      // hPa
	DetectedObjectClass *string   `json:"detected_object_class,omitempty"`
}

// CreateReading is the inbound payload for a new reading. Required numeric
// fields are pointers so that a missing field is distinguishable from zero.
// Timestamps are never accepted here; ingestion time is authoritative.
type CreateReading struct {
	GPSLatitude         *float64 `json:"gps_latitude"`
	GPSLongitude        *float64 `json:"gps_longitude"`
	BatteryPercentage   *float64 `json:"battery_percentage"`
	WaterTurbidity      *float64 `json:"water_turbidity"`
	WaterTemperature    *float64 `json:"water_temperature"`
	Humidity            *float64 `json:"humidity"`
	AirPressure         *float64 `json:"air_pressure"`
	DetectedObjectClass *string  `json:"detected_object_class"`
}

// Validate checks presence and bounds. Out-of-range values are rejected,
// never clamped.
func (c CreateReading) Validate() error {
	required := []struct {
		field string
		value *float64
	}{
		{"gps_latitude", c.GPSLatitude},
		{"gps_longitude", c.GPSLongitude},
		{"battery_percentage", c.BatteryPercentage},
		{"water_turbidity", c.WaterTurbidity},
		{"water_temperature", c.WaterTemperature},
		{"humidity", c.Humidity},
		{"air_pressure", c.AirPressure},
	}
	for _, r := range required {
		if r.value == nil {
			return &ValidationError{Field: r.field, Reason: "is required"}
		}
	}

	if *c.BatteryPercentage < 0 || *c.BatteryPercentage > 100 {
		return &ValidationError{Field: "battery_percentage", Reason: "must be between 0 and 100"}
	}
	if *c.WaterTurbidity < 0 {
		return &ValidationError{Field: "water_turbidity", Reason: "must be >= 0"}
	}
	if *c.Humidity < 0 || *c.Humidity > 100 {
		return &ValidationError{Field: "humidity", Reason: "must be between 0 and 100"}
	}
	if *c.AirPressure < 0 {
		return &ValidationError{Field: "air_pressure", Reason: "must be >= 0"}
	}
	return nil
}

// NewReading validates the payload and builds the canonical record with a
// fresh UUID and the current UTC time.
func NewReading(c CreateReading) (Reading, error) {
	if err := c.Validate(); err != nil {
		return Reading{}, err
	}
	return Reading{
		ID:                  uuid.NewString(),
		Timestamp:           time.Now().UTC(),
		GPSLatitude:         *c.GPSLatitude,
		GPSLongitude:        *c.GPSLongitude,
		BatteryPercentage:   *c.BatteryPercentage,
		WaterTurbidity:      *c.WaterTurbidity,
		WaterTemperature:    *c.WaterTemperature,
		Humidity:            *c.Humidity,
		AirPressure:         *c.AirPressure,
		DetectedObjectClass: c.DetectedObjectClass,
	}, nil
}
