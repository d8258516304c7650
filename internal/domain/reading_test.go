package domain

import (
	"errors"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }

func validPayload() CreateReading {
	return CreateReading{
		GPSLatitude:       floatPtr(6.9271),
		GPSLongitude:      floatPtr(79.8612),
		BatteryPercentage: floatPtr(87.5),
		WaterTurbidity:    floatPtr(12.3),
		WaterTemperature:  floatPtr(28.4),
		Humidity:          floatPtr(65.0),
		AirPressure:       floatPtr(1012.5),
	}
}

func TestNewReadingAssignsIdentity(t *testing.T) {
	before := time.Now().UTC()
	r, err := NewReading(validPayload())
	after := time.Now().UTC()
	if err != nil {
		t.Fatalf("NewReading: %v", err)
	}

	if r.ID == "" {
		t.Fatal("want generated id")
	}
	if r.Timestamp.Before(before) || r.Timestamp.After(after) {
		t.Fatalf("timestamp %v outside [%v, %v]", r.Timestamp, before, after)
	}
	if r.BatteryPercentage != 87.5 || r.WaterTemperature != 28.4 {
		t.Fatalf("caller-supplied fields not preserved: %+v", r)
	}
	if r.DetectedObjectClass != nil {
		t.Fatalf("want no detection, got %v", *r.DetectedObjectClass)
	}

	r2, err := NewReading(validPayload())
	if err != nil {
		t.Fatalf("NewReading: %v", err)
	}
	if r2.ID == r.ID {
		t.Fatal("want unique ids per reading")
	}
}

func TestNewReadingKeepsDetection(t *testing.T) {
	payload := validPayload()
	class := "boat"
	payload.DetectedObjectClass = &class

	r, err := NewReading(payload)
	if err != nil {
		t.Fatalf("NewReading: %v", err)
	}
	if r.DetectedObjectClass == nil || *r.DetectedObjectClass != "boat" {
		t.Fatalf("want detected_object_class boat, got %v", r.DetectedObjectClass)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*CreateReading)
	}{
		{"gps_latitude", func(c *CreateReading) { c.GPSLatitude = nil }},
		{"gps_longitude", func(c *CreateReading) { c.GPSLongitude = nil }},
		{"battery_percentage", func(c *CreateReading) { c.BatteryPercentage = nil }},
		{"water_turbidity", func(c *CreateReading) { c.WaterTurbidity = nil }},
		{"water_temperature", func(c *CreateReading) { c.WaterTemperature = nil }},
		{"humidity", func(c *CreateReading) { c.Humidity = nil }},
		{"air_pressure", func(c *CreateReading) { c.AirPressure = nil }},
	}

	for _, c := range cases {
		t.Run(c.field, func(t *testing.T) {
			payload := validPayload()
			c.mutate(&payload)

			err := payload.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if verr.Field != c.field {
				t.Fatalf("want field %q, got %q", c.field, verr.Field)
			}
		})
	}
}

func TestValidateBounds(t *testing.T) {
	cases := []struct {
		name    string
		field   string
		value   float64
		mutate  func(*CreateReading, float64)
		wantErr bool
	}{
		{"battery over", "battery_percentage", 150, func(c *CreateReading, v float64) { c.BatteryPercentage = &v }, true},
		{"battery under", "battery_percentage", -1, func(c *CreateReading, v float64) { c.BatteryPercentage = &v }, true},
		{"battery at zero", "battery_percentage", 0, func(c *CreateReading, v float64) { c.BatteryPercentage = &v }, false},
		{"battery at hundred", "battery_percentage", 100, func(c *CreateReading, v float64) { c.BatteryPercentage = &v }, false},
		{"turbidity negative", "water_turbidity", -0.1, func(c *CreateReading, v float64) { c.WaterTurbidity = &v }, true},
		{"turbidity zero", "water_turbidity", 0, func(c *CreateReading, v float64) { c.WaterTurbidity = &v }, false},
		{"humidity over", "humidity", 100.1, func(c *CreateReading, v float64) { c.Humidity = &v }, true},
		{"humidity under", "humidity", -5, func(c *CreateReading, v float64) { c.Humidity = &v }, true},
		{"pressure negative", "air_pressure", -10, func(c *CreateReading, v float64) { c.AirPressure = &v }, true},
		{"temperature below freezing allowed", "water_temperature", -40, func(c *CreateReading, v float64) { c.WaterTemperature = &v }, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			payload := validPayload()
			c.mutate(&payload, c.value)

			err := payload.Validate()
			if !c.wantErr {
				if err != nil {
					t.Fatalf("want valid, got %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if verr.Field != c.field {
				t.Fatalf("want field %q, got %q", c.field, verr.Field)
			}
		})
	}
}
