package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/LinukPerera/IoT-Buoy-2025/internal/domain"
)

func TestHistoricalKeyIsPathSafe(t *testing.T) {
	got := historicalKey("550e8400-e29b-41d4-a716-446655440000")
	want := "550e8400e29b41d4a716446655440000"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	// Same id always derives the same key, so replays overwrite.
	if historicalKey("550e8400-e29b-41d4-a716-446655440000") != got {
		t.Fatal("historical key must be deterministic")
	}
}

func TestSnapshotAliases(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	r := domain.Reading{
		ID:                "r1",
		Timestamp:         ts,
		GPSLatitude:       6.9,
		GPSLongitude:      79.8,
		BatteryPercentage: 77,
		WaterTurbidity:    3.3,
		WaterTemperature:  28,
		Humidity:          60,
		AirPressure:       1011,
	}

	data := snapshot(r)

	gps, ok := data["gps"].(map[string]float64)
	if !ok {
		t.Fatalf("want nested gps map, got %T", data["gps"])
	}
	if gps["lat"] != 6.9 || gps["lng"] != 79.8 {
		t.Errorf("gps aliases wrong: %v", gps)
	}
	if data["battery"] != 77.0 || data["turbidity"] != 3.3 || data["temperature"] != 28.0 {
		t.Errorf("metric aliases wrong: %v", data)
	}
	if data["objectClass"] != "unknown" {
		t.Errorf("want objectClass unknown when absent, got %v", data["objectClass"])
	}
	if data["timestamp"] != ts.Format(time.RFC3339Nano) {
		t.Errorf("timestamp alias wrong: %v", data["timestamp"])
	}

	class := "bird"
	r.DetectedObjectClass = &class
	if snapshot(r)["objectClass"] != "bird" {
		t.Errorf("want objectClass bird, got %v", snapshot(r)["objectClass"])
	}
}

func TestDisabledMirrorIsNoOp(t *testing.T) {
	var m Mirror = Disabled{}

	if m.Enabled() {
		t.Fatal("disabled mirror must report Enabled() == false")
	}
	if err := m.Publish(context.Background(), domain.Reading{ID: "r1"}); err != nil {
		t.Fatalf("disabled publish must never error, got %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("disabled close must never error, got %v", err)
	}
}
